// Package handler serves GraphQL over HTTP.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/shyptr/serlo-gateway/errors"
	"github.com/shyptr/serlo-gateway/execution"
	"github.com/shyptr/serlo-gateway/middleware"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
	"go.uber.org/zap"
)

// Response represents a typical response of a GraphQL server. Errors are serialized first.
type Response struct {
	Errors     errors.MultiError      `json:"errors,omitempty"`
	Data       interface{}            `json:"data,omitempty"`
	Extensions map[string]interface{} `json:"extensions,omitempty"`
}

// Handler executes GraphQL requests against a schema. Queries are accepted as POST with a JSON
// body or as GET with query parameters; mutations only as POST.
type Handler struct {
	schema *execution.Schema
	logger *zap.Logger
}

func New(schema *execution.Schema, logger *zap.Logger) *Handler {
	return &Handler{schema: schema, logger: logger}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var params execution.Params
	switch r.Method {
	case http.MethodOptions:
		w.Header().Set("Allow", "GET, POST, OPTIONS")
		w.WriteHeader(http.StatusNoContent)
		return
	case http.MethodGet:
		query := r.URL.Query()
		params.Query = query.Get("query")
		params.OperationName = query.Get("operationName")
		if variables := query.Get("variables"); variables != "" {
			if err := json.Unmarshal([]byte(variables), &params.Variables); err != nil {
				h.fail(w, http.StatusBadRequest, "variables must be a JSON object")
				return
			}
		}
		if isMutation(params) {
			w.Header().Set("Allow", http.MethodPost)
			h.fail(w, http.StatusMethodNotAllowed, "mutations must be sent with POST")
			return
		}
	case http.MethodPost:
		if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
			h.fail(w, http.StatusBadRequest, "request body must be a JSON object: "+err.Error())
			return
		}
	default:
		w.Header().Set("Allow", "GET, POST, OPTIONS")
		h.fail(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if params.Query == "" {
		h.fail(w, http.StatusBadRequest, "must provide query string")
		return
	}
	middleware.SetOperationName(r.Context(), params.OperationName)

	data, errs := execution.Do(r.Context(), h.schema, params)
	for _, err := range errs {
		if err.Code() == errors.CodeInternal && err.ResolverError != nil {
			h.logger.Error("resolver failed",
				zap.Error(err.ResolverError),
				zap.Any("path", err.Path),
				zap.String("requestId", middleware.RequestIDFromContext(r.Context())))
		}
	}
	h.write(w, http.StatusOK, &Response{Data: data, Errors: errs})
}

// isMutation reports whether params select a mutation operation. Unparsable queries are left to
// the executor to report.
func isMutation(params execution.Params) bool {
	doc, err := parser.ParseQuery(&ast.Source{Input: params.Query})
	if err != nil {
		return false
	}
	for _, op := range doc.Operations {
		if params.OperationName != "" && op.Name != params.OperationName {
			continue
		}
		if op.Operation == ast.Mutation {
			return true
		}
	}
	return false
}

func (h *Handler) fail(w http.ResponseWriter, status int, message string) {
	h.write(w, status, &Response{Errors: errors.MultiError{errors.New("%s", message)}})
}

func (h *Handler) write(w http.ResponseWriter, status int, res *Response) {
	body, err := json.Marshal(res)
	if err != nil {
		h.logger.Error("marshal response", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
