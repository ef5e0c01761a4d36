package handler_test

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/shyptr/serlo-gateway/execution"
	"github.com/shyptr/serlo-gateway/handler"
	"github.com/shyptr/serlo-gateway/schemabuilder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const sdl = `
type Query {
  greeting(name: String!): String!
  broken: String
}

type Mutation {
  touch: Boolean!
}
`

func newServer(t *testing.T, logger *zap.Logger) *httptest.Server {
	build := schemabuilder.NewSchema(&ast.Source{Name: "test.graphql", Input: sdl})
	build.Query().FieldFunc("greeting", func(ctx context.Context, source interface{}, args map[string]interface{}) (interface{}, error) {
		return "hello " + args["name"].(string), nil
	})
	build.Query().FieldFunc("broken", func(ctx context.Context, source interface{}, args map[string]interface{}) (interface{}, error) {
		return nil, stderrors.New("dial tcp 10.0.0.5:9000: connection refused")
	})
	build.Mutation().FieldFunc("touch", func(ctx context.Context, source interface{}, args map[string]interface{}) (interface{}, error) {
		return true, nil
	})
	schema, err := build.Build()
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.Handle("/graphql", handler.New(schema, logger))
	mux.Handle("/graphiql", handler.GraphiQL("/graphql"))
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func decode(t *testing.T, res *http.Response) map[string]interface{} {
	defer res.Body.Close()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	return body
}

func TestHandler(t *testing.T) {
	server := newServer(t, zap.NewNop())

	t.Run("post", func(t *testing.T) {
		body, _ := json.Marshal(execution.Params{
			Query:     `query($name: String!) { greeting(name: $name) }`,
			Variables: map[string]interface{}{"name": "serlo"},
		})
		res, err := http.Post(server.URL+"/graphql", "application/json", strings.NewReader(string(body)))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, "application/json", res.Header.Get("Content-Type"))
		assert.Equal(t, map[string]interface{}{"data": map[string]interface{}{"greeting": "hello serlo"}}, decode(t, res))
	})

	t.Run("get", func(t *testing.T) {
		query := url.Values{}
		query.Set("query", `query($name: String!) { greeting(name: $name) }`)
		query.Set("variables", `{"name":"get"}`)
		res, err := http.Get(server.URL + "/graphql?" + query.Encode())
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, map[string]interface{}{"data": map[string]interface{}{"greeting": "hello get"}}, decode(t, res))
	})

	t.Run("mutations are not allowed with get", func(t *testing.T) {
		res, err := http.Get(server.URL + "/graphql?query=" + url.QueryEscape(`mutation { touch }`))
		require.NoError(t, err)
		assert.Equal(t, http.StatusMethodNotAllowed, res.StatusCode)
		res.Body.Close()
	})

	t.Run("mutation with post", func(t *testing.T) {
		res, err := http.Post(server.URL+"/graphql", "application/json", strings.NewReader(`{"query":"mutation { touch }"}`))
		require.NoError(t, err)
		assert.Equal(t, map[string]interface{}{"data": map[string]interface{}{"touch": true}}, decode(t, res))
	})

	t.Run("malformed body", func(t *testing.T) {
		res, err := http.Post(server.URL+"/graphql", "application/json", strings.NewReader(`{`))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, res.StatusCode)
		assert.Contains(t, decode(t, res), "errors")
	})

	t.Run("validation errors", func(t *testing.T) {
		res, err := http.Post(server.URL+"/graphql", "application/json", strings.NewReader(`{"query":"{ unknown }"}`))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, res.StatusCode)
		body := decode(t, res)
		require.Contains(t, body, "errors")
		assert.NotContains(t, body, "data")
		first := body["errors"].([]interface{})[0].(map[string]interface{})
		assert.Equal(t, "GRAPHQL_VALIDATION_FAILED", first["extensions"].(map[string]interface{})["code"])
	})

	t.Run("graphiql", func(t *testing.T) {
		res, err := http.Get(server.URL + "/graphiql")
		require.NoError(t, err)
		defer res.Body.Close()
		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.Contains(t, res.Header.Get("Content-Type"), "text/html")
	})
}

func TestHandlerInternalErrors(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	server := newServer(t, zap.New(core))

	res, err := http.Post(server.URL+"/graphql", "application/json", strings.NewReader(`{"query":"{ broken }"}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	body := decode(t, res)
	first := body["errors"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "internal server error", first["message"])
	assert.Equal(t, "INTERNAL_SERVER_ERROR", first["extensions"].(map[string]interface{})["code"])
	assert.Equal(t, map[string]interface{}{"broken": nil}, body["data"])

	entries := logs.FilterMessage("resolver failed").All()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].ContextMap()["error"], "connection refused")
}
