package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shyptr/serlo-gateway/auth"
	"github.com/shyptr/serlo-gateway/config"
	"github.com/shyptr/serlo-gateway/datasource"
	"github.com/shyptr/serlo-gateway/datasource/comments"
	"github.com/shyptr/serlo-gateway/datasource/databaselayer"
	"github.com/shyptr/serlo-gateway/datasource/serlo"
	"github.com/shyptr/serlo-gateway/handler"
	"github.com/shyptr/serlo-gateway/middleware"
	"github.com/shyptr/serlo-gateway/resolver"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newLogger(c config.Log) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	if c.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

func serve(ctx context.Context, c *config.Config) error {
	logger, err := newLogger(c.Log)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := datasource.NewMetrics(registry)
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	transport, closeTransport, err := newTransport(c.DatabaseLayer, logger)
	if err != nil {
		return err
	}
	defer closeTransport()

	cache := datasource.NewCache(serlo.New(databaselayer.NewClient(transport, metrics)), c.Cache.Size, c.Cache.TTL, metrics)
	commentClient := comments.New(&datasource.HTTPClient{
		Client:  &http.Client{Timeout: c.Comments.Timeout},
		BaseURL: c.Comments.URL,
		Retries: c.Comments.Retries,
	}, metrics)

	schema, err := resolver.New(
		datasource.Sources{Serlo: cache, Comments: commentClient},
		cache,
		resolver.WithLogger(logger.Named("resolver")),
	).Schema()
	if err != nil {
		return fmt.Errorf("build schema: %w", err)
	}

	secrets := make(map[auth.Service]string, len(c.Auth.Services))
	for _, service := range c.Auth.Services {
		secrets[auth.Service(service.Name)] = service.Secret
	}
	authenticator := auth.NewAuthenticator(secrets, c.Auth.UserSecret)

	mux := http.NewServeMux()
	mux.Handle("/graphql", middleware.Chain(handler.New(schema, logger.Named("handler")),
		middleware.RequestID(),
		middleware.Recovery(logger),
		middleware.Logger(logger.Named("http")),
		middleware.Authenticate(authenticator, logger),
	))
	if c.Server.GraphiQL {
		mux.Handle("/graphiql", handler.GraphiQL("/graphql"))
	}
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:         c.Server.Addr,
		Handler:      mux,
		ReadTimeout:  c.Server.ReadTimeout,
		WriteTimeout: c.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", c.Server.Addr), zap.String("databaseLayer", c.DatabaseLayer.Transport))
		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), c.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}

func newTransport(c config.DatabaseLayer, logger *zap.Logger) (databaselayer.Transport, func(), error) {
	switch c.Transport {
	case "nats":
		conn, err := nats.Connect(c.NATSURL,
			nats.Name("serlo-gateway"),
			nats.MaxReconnects(-1),
			nats.ReconnectWait(time.Second),
			nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
				logger.Warn("nats disconnected", zap.Error(err))
			}),
			nats.ReconnectHandler(func(conn *nats.Conn) {
				logger.Info("nats reconnected", zap.String("url", conn.ConnectedUrl()))
			}),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("connect nats: %w", err)
		}
		return databaselayer.NewNATSTransport(conn, c.Subject, c.Timeout), conn.Close, nil
	default:
		return databaselayer.NewHTTPTransport(&datasource.HTTPClient{
			Client:  &http.Client{Timeout: c.Timeout},
			BaseURL: c.URL,
			Retries: c.Retries,
		}), func() {}, nil
	}
}
