package schemabuilder_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shyptr/serlo-gateway/errors"
	"github.com/shyptr/serlo-gateway/execution"
	"github.com/shyptr/serlo-gateway/schemabuilder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"
)

const sdl = `
"""
Something with an id.
"""
interface Node {
  id: Int!
}

type Item implements Node {
  id: Int!
  label: String @deprecated(reason: "use title")
  title: String
}

union Result = Item

type Query {
  item(id: Int!, label: String = "x"): Item
  result: Result
}
`

func resolveItem(ctx context.Context, value interface{}) (string, error) {
	return "Item", nil
}

func noop(ctx context.Context, source interface{}, args map[string]interface{}) (interface{}, error) {
	return nil, nil
}

func source() *ast.Source {
	return &ast.Source{Name: "test.graphql", Input: sdl}
}

func TestBuild(t *testing.T) {
	t.Run("valid schema", func(t *testing.T) {
		build := schemabuilder.NewSchema(source())
		build.Interface("Node", resolveItem)
		build.Union("Result", resolveItem)
		build.Query().FieldFunc("item", noop)
		schema, err := build.Build()
		require.NoError(t, err)
		assert.Contains(t, schema.Resolvers["Query"], "item")
		assert.Contains(t, schema.Resolvers["Query"], "__schema")
		assert.Contains(t, schema.TypeResolvers, "Node")
	})

	t.Run("unknown field", func(t *testing.T) {
		build := schemabuilder.NewSchema(source())
		build.Interface("Node", resolveItem)
		build.Union("Result", resolveItem)
		build.Query().FieldFunc("items", noop)
		_, err := build.Build()
		assert.EqualError(t, err, "field Query.items is not defined in the schema")
	})

	t.Run("unknown object", func(t *testing.T) {
		build := schemabuilder.NewSchema(source())
		build.Interface("Node", resolveItem)
		build.Union("Result", resolveItem)
		build.Object("Node").FieldFunc("id", noop)
		_, err := build.Build()
		assert.EqualError(t, err, "object Node is not defined in the schema")
	})

	t.Run("missing type resolvers", func(t *testing.T) {
		build := schemabuilder.NewSchema(source())
		_, err := build.Build()
		assert.EqualError(t, err, "abstract type Node has no type resolver\nabstract type Result has no type resolver")
	})

	t.Run("invalid sdl", func(t *testing.T) {
		build := schemabuilder.NewSchema(&ast.Source{Input: "type Query { a: Missing }"})
		_, err := build.Build()
		assert.Error(t, err)
		assert.Panics(t, func() { build.MustBuild() })
	})

	t.Run("duplicate field", func(t *testing.T) {
		build := schemabuilder.NewSchema(source())
		build.Query().FieldFunc("item", noop)
		assert.Panics(t, func() { build.Query().FieldFunc("item", noop) })
		assert.True(t, build.Query().HasField("item"))
	})
}

func TestChains(t *testing.T) {
	var calls []string
	chain := func(name string) execution.ResolveChain {
		return func(next execution.FieldResolve) execution.FieldResolve {
			return func(ctx context.Context, source interface{}, args map[string]interface{}) (interface{}, error) {
				calls = append(calls, name)
				return next(ctx, source, args)
			}
		}
	}
	build := schemabuilder.NewSchema(source())
	build.Interface("Node", resolveItem)
	build.Union("Result", resolveItem)
	build.Query().FieldFunc("item", func(ctx context.Context, source interface{}, args map[string]interface{}) (interface{}, error) {
		calls = append(calls, "resolve")
		return map[string]interface{}{"id": 1}, nil
	}, schemabuilder.Chain(chain("outer"), chain("inner")), schemabuilder.Chain(chain("field")))
	schema := build.MustBuild()

	_, errs := execution.Do(context.Background(), schema, execution.Params{Query: `{ item(id: 1) { id } }`})
	assert.Equal(t, errors.MultiError(nil), errs)
	assert.Equal(t, []string{"outer", "inner", "field", "resolve"}, calls)
}

func TestIntrospection(t *testing.T) {
	build := schemabuilder.NewSchema(source())
	build.Interface("Node", resolveItem)
	build.Union("Result", resolveItem)
	schema := build.MustBuild()

	result, errs := execution.Do(context.Background(), schema, execution.Params{Query: `{
		node: __type(name: "Node") {
			kind
			name
			description
			possibleTypes { name }
		}
		item: __type(name: "Item") {
			fields { name }
			all: fields(includeDeprecated: true) { name isDeprecated deprecationReason }
			interfaces { name }
		}
		missing: __type(name: "Missing") { name }
		__schema {
			queryType {
				fields {
					name
					args { name defaultValue type { kind ofType { kind name } } }
				}
			}
			mutationType { name }
		}
	}`})
	assert.Equal(t, errors.MultiError(nil), errs)
	marshal, err := json.Marshal(result)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"node": {
			"kind": "INTERFACE",
			"name": "Node",
			"description": "Something with an id.",
			"possibleTypes": [{"name": "Item"}]
		},
		"item": {
			"fields": [{"name": "id"}, {"name": "title"}],
			"all": [
				{"name": "id", "isDeprecated": false, "deprecationReason": null},
				{"name": "label", "isDeprecated": true, "deprecationReason": "use title"},
				{"name": "title", "isDeprecated": false, "deprecationReason": null}
			],
			"interfaces": [{"name": "Node"}]
		},
		"missing": null,
		"__schema": {
			"queryType": {
				"fields": [
					{"name": "item", "args": [
						{"name": "id", "defaultValue": null, "type": {"kind": "NON_NULL", "ofType": {"kind": "SCALAR", "name": "Int"}}},
						{"name": "label", "defaultValue": "\"x\"", "type": {"kind": "SCALAR", "ofType": null}}
					]},
					{"name": "result", "args": []}
				]
			},
			"mutationType": null
		}
	}`, string(marshal))
}
