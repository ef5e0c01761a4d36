// Package middleware holds the net/http middleware wrapped around the GraphQL handler.
package middleware

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"net/http/httputil"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Middleware wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// Chain applies middlewares to h. The first middleware is the outermost.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// RequestIDHeader is read from and written to every request.
const RequestIDHeader = "X-Request-Id"

type requestIDKey struct{}

// RequestID hands every request an id, reusing the one the client sent.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, id)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
		})
	}
}

// RequestIDFromContext returns the id RequestID assigned, or an empty string.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// Recovery turns panics into 500 responses and logs them with the request. The Authorization
// header is redacted.
func Recovery(logger *zap.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				err := recover()
				if err == nil {
					return
				}
				if err == http.ErrAbortHandler {
					panic(err)
				}
				dump, _ := httputil.DumpRequest(r, false)
				headers := strings.Split(string(dump), "\r\n")
				for i, header := range headers {
					name, _, ok := strings.Cut(header, ":")
					if ok && strings.EqualFold(name, "Authorization") {
						headers[i] = name + ": *"
					}
				}
				fields := []zap.Field{
					zap.Any("error", err),
					zap.String("request", strings.Join(headers, "\r\n")),
					zap.String("requestId", RequestIDFromContext(r.Context())),
				}
				if isBrokenPipe(err) {
					logger.Warn("connection closed by client", fields...)
					return
				}
				logger.Error("panic recovered", append(fields, zap.Stack("stack"))...)
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}()
			next.ServeHTTP(w, r)
		})
	}
}

func isBrokenPipe(err interface{}) bool {
	opErr, ok := err.(*net.OpError)
	if !ok {
		return false
	}
	var syscallErr *os.SyscallError
	if !stderrors.As(opErr.Err, &syscallErr) {
		return false
	}
	msg := strings.ToLower(syscallErr.Error())
	return strings.Contains(msg, "broken pipe") || strings.Contains(msg, "connection reset by peer")
}

type operationKey struct{}

type operation struct {
	mu   sync.Mutex
	name string
}

// SetOperationName records the GraphQL operation a request executes, for the access log.
func SetOperationName(ctx context.Context, name string) {
	if op, ok := ctx.Value(operationKey{}).(*operation); ok {
		op.mu.Lock()
		op.name = name
		op.mu.Unlock()
	}
}

// Logger writes one access log line per request.
func Logger(logger *zap.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			op := &operation{}
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			defer func() {
				op.mu.Lock()
				name := op.name
				op.mu.Unlock()
				if name == "" {
					name = "query"
				}
				logger.Info("request",
					zap.Int("status", sw.status),
					zap.Duration("latency", time.Since(start)),
					zap.String("ip", clientIP(r)),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.String("operationName", name),
					zap.String("requestId", RequestIDFromContext(r.Context())))
			}()
			next.ServeHTTP(sw, r.WithContext(context.WithValue(r.Context(), operationKey{}, op)))
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		ip, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(ip)
	}
	if ip := r.Header.Get("X-Real-Ip"); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
