package execution

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/vektah/gqlparser/v2/ast"
)

// FieldResolve resolves one field of an object. source is the value of the parent object, args
// the coerced field arguments.
type FieldResolve func(ctx context.Context, source interface{}, args map[string]interface{}) (interface{}, error)

// ResolveChain wraps a FieldResolve, the way middleware wraps a handler.
type ResolveChain func(FieldResolve) FieldResolve

// ResolveTypeFn returns the name of the concrete object type of a value returned for an
// interface or union typed field.
type ResolveTypeFn func(ctx context.Context, value interface{}) (string, error)

// SerializeFn turns a resolved value into the JSON value of a scalar.
type SerializeFn func(value interface{}) (interface{}, error)

// Schema is an executable schema: the parsed SDL plus the Go functions that resolve it.
// Schemas are assembled by the schemabuilder package and are safe for concurrent use.
type Schema struct {
	AST           *ast.Schema
	Resolvers     map[string]map[string]FieldResolve
	TypeResolvers map[string]ResolveTypeFn
	Scalars       map[string]SerializeFn
}

func (s *Schema) resolver(typeName, fieldName string) FieldResolve {
	if fields, ok := s.Resolvers[typeName]; ok {
		if resolve, ok := fields[fieldName]; ok {
			return resolve
		}
	}
	return defaultResolver(typeName, fieldName)
}

// defaultResolver reads the struct field of source tagged with the field name. The graphql tag
// takes precedence over the json tag.
func defaultResolver(typeName, fieldName string) FieldResolve {
	return func(ctx context.Context, source interface{}, args map[string]interface{}) (interface{}, error) {
		value := reflect.ValueOf(source)
		for value.Kind() == reflect.Ptr || value.Kind() == reflect.Interface {
			if value.IsNil() {
				return nil, nil
			}
			value = value.Elem()
		}
		if value.Kind() == reflect.Map && value.Type().Key().Kind() == reflect.String {
			v := value.MapIndex(reflect.ValueOf(fieldName))
			if !v.IsValid() {
				return nil, nil
			}
			return v.Interface(), nil
		}
		if value.Kind() != reflect.Struct {
			return nil, fmt.Errorf("no resolver for %s.%s on %T", typeName, fieldName, source)
		}
		index, ok := fieldIndex(value.Type())[fieldName]
		if !ok {
			return nil, fmt.Errorf("no resolver for %s.%s on %T", typeName, fieldName, source)
		}
		return value.FieldByIndex(index).Interface(), nil
	}
}

var fieldIndexes sync.Map

// fieldIndex maps the GraphQL names of the exported, promoted fields of typ to their index.
func fieldIndex(typ reflect.Type) map[string][]int {
	if cached, ok := fieldIndexes.Load(typ); ok {
		return cached.(map[string][]int)
	}
	res := make(map[string][]int)
	for _, field := range reflect.VisibleFields(typ) {
		if !field.IsExported() || field.Anonymous {
			continue
		}
		name := tagName(field, "graphql")
		if name == "" {
			name = tagName(field, "json")
		}
		if name == "" || name == "-" {
			continue
		}
		if _, ok := res[name]; ok && len(field.Index) > len(res[name]) {
			continue
		}
		res[name] = field.Index
	}
	fieldIndexes.Store(typ, res)
	return res
}

func tagName(field reflect.StructField, key string) string {
	tag, ok := field.Tag.Lookup(key)
	if !ok {
		return ""
	}
	return strings.Split(tag, ",")[0]
}
