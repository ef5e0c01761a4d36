package schemabuilder

import (
	"context"
	"fmt"
	"sort"

	"github.com/shyptr/serlo-gateway/execution"
	"github.com/vektah/gqlparser/v2/ast"
)

// typeRef is a type as seen by introspection: either a wrapping type (list or non-null) or a
// named definition.
type typeRef struct {
	schema *ast.Schema
	typ    *ast.Type
	def    *ast.Definition
}

func namedType(schema *ast.Schema, def *ast.Definition) *typeRef {
	if def == nil {
		return nil
	}
	return &typeRef{schema: schema, def: def}
}

func wrappedType(schema *ast.Schema, typ *ast.Type) *typeRef {
	if typ == nil {
		return nil
	}
	if !typ.NonNull && typ.Elem == nil {
		return namedType(schema, schema.Types[typ.NamedType])
	}
	return &typeRef{schema: schema, typ: typ}
}

func (t *typeRef) kind() string {
	switch {
	case t.def != nil:
		return string(t.def.Kind)
	case t.typ.NonNull:
		return "NON_NULL"
	default:
		return "LIST"
	}
}

func (t *typeRef) ofType() *typeRef {
	if t.def != nil {
		return nil
	}
	if t.typ.NonNull {
		nullable := *t.typ
		nullable.NonNull = false
		return wrappedType(t.schema, &nullable)
	}
	return wrappedType(t.schema, t.typ.Elem)
}

type fieldRef struct {
	schema *ast.Schema
	def    *ast.FieldDefinition
}

type inputRef struct {
	schema       *ast.Schema
	name         string
	description  string
	typ          *ast.Type
	defaultValue *ast.Value
}

type enumValueRef struct {
	def *ast.EnumValueDefinition
}

type directiveRef struct {
	schema *ast.Schema
	def    *ast.DirectiveDefinition
}

func deprecation(directives ast.DirectiveList) *string {
	deprecated := directives.ForName("deprecated")
	if deprecated == nil {
		return nil
	}
	reason := "No longer supported"
	if arg := deprecated.Arguments.ForName("reason"); arg != nil && arg.Value != nil {
		reason = arg.Value.Raw
	}
	return &reason
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func includeDeprecated(args map[string]interface{}) bool {
	include, _ := args["includeDeprecated"].(bool)
	return include
}

func argumentRefs(schema *ast.Schema, args ast.ArgumentDefinitionList) []*inputRef {
	res := make([]*inputRef, 0, len(args))
	for _, arg := range args {
		res = append(res, &inputRef{schema: schema, name: arg.Name, description: arg.Description, typ: arg.Type, defaultValue: arg.DefaultValue})
	}
	return res
}

// on adapts a function of the concrete source type to a FieldResolve.
func on[T any](fn func(source T, args map[string]interface{}) interface{}) execution.FieldResolve {
	return func(ctx context.Context, source interface{}, args map[string]interface{}) (interface{}, error) {
		s, ok := source.(T)
		if !ok {
			return nil, fmt.Errorf("introspection: unexpected source %T", source)
		}
		return fn(s, args), nil
	}
}

// registerIntrospection adds the resolvers of __schema, __type and the introspection types.
func registerIntrospection(schema *execution.Schema) {
	sdl := schema.AST
	set := func(typeName string, fields map[string]execution.FieldResolve) {
		if schema.Resolvers[typeName] == nil {
			schema.Resolvers[typeName] = map[string]execution.FieldResolve{}
		}
		for name, resolve := range fields {
			schema.Resolvers[typeName][name] = resolve
		}
	}

	if sdl.Query != nil {
		set(sdl.Query.Name, map[string]execution.FieldResolve{
			"__schema": func(ctx context.Context, source interface{}, args map[string]interface{}) (interface{}, error) {
				return sdl, nil
			},
			"__type": func(ctx context.Context, source interface{}, args map[string]interface{}) (interface{}, error) {
				name, _ := args["name"].(string)
				return namedType(sdl, sdl.Types[name]), nil
			},
		})
	}

	set("__Schema", map[string]execution.FieldResolve{
		"description": on(func(s *ast.Schema, _ map[string]interface{}) interface{} { return nil }),
		"types": on(func(s *ast.Schema, _ map[string]interface{}) interface{} {
			res := make([]*typeRef, 0, len(s.Types))
			for _, name := range sortedKeys(s.Types) {
				res = append(res, namedType(s, s.Types[name]))
			}
			return res
		}),
		"queryType":        on(func(s *ast.Schema, _ map[string]interface{}) interface{} { return namedType(s, s.Query) }),
		"mutationType":     on(func(s *ast.Schema, _ map[string]interface{}) interface{} { return namedType(s, s.Mutation) }),
		"subscriptionType": on(func(s *ast.Schema, _ map[string]interface{}) interface{} { return namedType(s, s.Subscription) }),
		"directives": on(func(s *ast.Schema, _ map[string]interface{}) interface{} {
			res := make([]*directiveRef, 0, len(s.Directives))
			for _, name := range sortedKeys(s.Directives) {
				res = append(res, &directiveRef{schema: s, def: s.Directives[name]})
			}
			return res
		}),
	})

	set("__Type", map[string]execution.FieldResolve{
		"kind": on(func(t *typeRef, _ map[string]interface{}) interface{} { return t.kind() }),
		"name": on(func(t *typeRef, _ map[string]interface{}) interface{} {
			if t.def == nil {
				return nil
			}
			return t.def.Name
		}),
		"description": on(func(t *typeRef, _ map[string]interface{}) interface{} {
			if t.def == nil {
				return nil
			}
			return optional(t.def.Description)
		}),
		"specifiedByURL": on(func(t *typeRef, _ map[string]interface{}) interface{} { return nil }),
		"fields": on(func(t *typeRef, args map[string]interface{}) interface{} {
			if t.def == nil || (t.def.Kind != ast.Object && t.def.Kind != ast.Interface) {
				return nil
			}
			res := []*fieldRef{}
			for _, f := range t.def.Fields {
				if len(f.Name) > 1 && f.Name[:2] == "__" {
					continue
				}
				if deprecation(f.Directives) != nil && !includeDeprecated(args) {
					continue
				}
				res = append(res, &fieldRef{schema: t.schema, def: f})
			}
			return res
		}),
		"interfaces": on(func(t *typeRef, _ map[string]interface{}) interface{} {
			if t.def == nil || (t.def.Kind != ast.Object && t.def.Kind != ast.Interface) {
				return nil
			}
			res := []*typeRef{}
			for _, name := range t.def.Interfaces {
				res = append(res, namedType(t.schema, t.schema.Types[name]))
			}
			return res
		}),
		"possibleTypes": on(func(t *typeRef, _ map[string]interface{}) interface{} {
			if t.def == nil || !t.def.IsAbstractType() {
				return nil
			}
			possible := t.schema.GetPossibleTypes(t.def)
			res := make([]*typeRef, 0, len(possible))
			for _, def := range possible {
				res = append(res, namedType(t.schema, def))
			}
			sort.Slice(res, func(i, j int) bool { return res[i].def.Name < res[j].def.Name })
			return res
		}),
		"enumValues": on(func(t *typeRef, args map[string]interface{}) interface{} {
			if t.def == nil || t.def.Kind != ast.Enum {
				return nil
			}
			res := []*enumValueRef{}
			for _, value := range t.def.EnumValues {
				if deprecation(value.Directives) != nil && !includeDeprecated(args) {
					continue
				}
				res = append(res, &enumValueRef{def: value})
			}
			return res
		}),
		"inputFields": on(func(t *typeRef, _ map[string]interface{}) interface{} {
			if t.def == nil || t.def.Kind != ast.InputObject {
				return nil
			}
			res := []*inputRef{}
			for _, f := range t.def.Fields {
				res = append(res, &inputRef{schema: t.schema, name: f.Name, description: f.Description, typ: f.Type, defaultValue: f.DefaultValue})
			}
			return res
		}),
		"ofType": on(func(t *typeRef, _ map[string]interface{}) interface{} { return t.ofType() }),
	})

	set("__Field", map[string]execution.FieldResolve{
		"name":        on(func(f *fieldRef, _ map[string]interface{}) interface{} { return f.def.Name }),
		"description": on(func(f *fieldRef, _ map[string]interface{}) interface{} { return optional(f.def.Description) }),
		"args": on(func(f *fieldRef, _ map[string]interface{}) interface{} {
			return argumentRefs(f.schema, f.def.Arguments)
		}),
		"type":              on(func(f *fieldRef, _ map[string]interface{}) interface{} { return wrappedType(f.schema, f.def.Type) }),
		"isDeprecated":      on(func(f *fieldRef, _ map[string]interface{}) interface{} { return deprecation(f.def.Directives) != nil }),
		"deprecationReason": on(func(f *fieldRef, _ map[string]interface{}) interface{} { return deprecation(f.def.Directives) }),
	})

	set("__InputValue", map[string]execution.FieldResolve{
		"name":        on(func(v *inputRef, _ map[string]interface{}) interface{} { return v.name }),
		"description": on(func(v *inputRef, _ map[string]interface{}) interface{} { return optional(v.description) }),
		"type":        on(func(v *inputRef, _ map[string]interface{}) interface{} { return wrappedType(v.schema, v.typ) }),
		"defaultValue": on(func(v *inputRef, _ map[string]interface{}) interface{} {
			if v.defaultValue == nil {
				return nil
			}
			return v.defaultValue.String()
		}),
		"isDeprecated":      on(func(v *inputRef, _ map[string]interface{}) interface{} { return false }),
		"deprecationReason": on(func(v *inputRef, _ map[string]interface{}) interface{} { return nil }),
	})

	set("__EnumValue", map[string]execution.FieldResolve{
		"name":              on(func(v *enumValueRef, _ map[string]interface{}) interface{} { return v.def.Name }),
		"description":       on(func(v *enumValueRef, _ map[string]interface{}) interface{} { return optional(v.def.Description) }),
		"isDeprecated":      on(func(v *enumValueRef, _ map[string]interface{}) interface{} { return deprecation(v.def.Directives) != nil }),
		"deprecationReason": on(func(v *enumValueRef, _ map[string]interface{}) interface{} { return deprecation(v.def.Directives) }),
	})

	set("__Directive", map[string]execution.FieldResolve{
		"name":        on(func(d *directiveRef, _ map[string]interface{}) interface{} { return d.def.Name }),
		"description": on(func(d *directiveRef, _ map[string]interface{}) interface{} { return optional(d.def.Description) }),
		"locations":   on(func(d *directiveRef, _ map[string]interface{}) interface{} { return d.def.Locations }),
		"args": on(func(d *directiveRef, _ map[string]interface{}) interface{} {
			return argumentRefs(d.schema, d.def.Arguments)
		}),
		"isRepeatable": on(func(d *directiveRef, _ map[string]interface{}) interface{} { return d.def.IsRepeatable }),
	})
}
