package schemabuilder

import (
	stderrors "errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shyptr/serlo-gateway/execution"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

// Schema collects the resolvers of a schema whose types are declared in SDL.
type Schema struct {
	sources   []*ast.Source
	objects   map[string]*Object
	abstracts map[string]execution.ResolveTypeFn
	scalars   map[string]execution.SerializeFn
}

// NewSchema creates a new schema from the given SDL sources.
func NewSchema(sources ...*ast.Source) *Schema {
	return &Schema{
		sources:   sources,
		objects:   map[string]*Object{},
		abstracts: map[string]execution.ResolveTypeFn{},
		scalars:   map[string]execution.SerializeFn{},
	}
}

// Object returns the object type name, to register its field resolvers on. Fields without a
// resolver are read from the struct field of the source value tagged with the field name.
func (s *Schema) Object(name string) *Object {
	if object, ok := s.objects[name]; ok {
		return object
	}
	object := &Object{Name: name, fields: map[string]*field{}}
	s.objects[name] = object
	return object
}

func (s *Schema) Query() *Object {
	return s.Object("Query")
}

func (s *Schema) Mutation() *Object {
	return s.Object("Mutation")
}

// Interface registers the function resolving the concrete type of values of an interface.
func (s *Schema) Interface(name string, resolveType execution.ResolveTypeFn) {
	if _, ok := s.abstracts[name]; ok {
		panic(fmt.Sprintf("duplicate type resolver for %s", name))
	}
	s.abstracts[name] = resolveType
}

// Union registers the function resolving the concrete type of values of a union.
func (s *Schema) Union(name string, resolveType execution.ResolveTypeFn) {
	s.Interface(name, resolveType)
}

// Scalar registers the serializer of a custom scalar.
func (s *Schema) Scalar(name string, serialize execution.SerializeFn) {
	s.scalars[name] = serialize
}

// Build loads the SDL and checks every registration against it: registered objects and fields
// must exist, and every interface and union needs a type resolver.
func (s *Schema) Build() (*execution.Schema, error) {
	schema, err := gqlparser.LoadSchema(s.sources...)
	if err != nil {
		return nil, fmt.Errorf("schemabuilder: load schema: %w", err)
	}

	var errs []error
	resolvers := map[string]map[string]execution.FieldResolve{}
	for _, name := range sortedKeys(s.objects) {
		object := s.objects[name]
		def := schema.Types[name]
		if def == nil || def.Kind != ast.Object {
			errs = append(errs, fmt.Errorf("object %s is not defined in the schema", name))
			continue
		}
		resolvers[name] = map[string]execution.FieldResolve{}
		for _, fieldName := range sortedKeys(object.fields) {
			if def.Fields.ForName(fieldName) == nil {
				errs = append(errs, fmt.Errorf("field %s.%s is not defined in the schema", name, fieldName))
				continue
			}
			f := object.fields[fieldName]
			resolvers[name][fieldName] = wrap(f.resolve, f.chains)
		}
	}

	for _, name := range sortedKeys(s.abstracts) {
		def := schema.Types[name]
		if def == nil || !def.IsAbstractType() {
			errs = append(errs, fmt.Errorf("abstract type %s is not defined in the schema", name))
		}
	}
	for _, name := range sortedKeys(schema.Types) {
		def := schema.Types[name]
		if def.BuiltIn || !def.IsAbstractType() {
			continue
		}
		if _, ok := s.abstracts[name]; !ok {
			errs = append(errs, fmt.Errorf("abstract type %s has no type resolver", name))
		}
	}
	if len(errs) > 0 {
		return nil, stderrors.Join(errs...)
	}

	scalars := make(map[string]execution.SerializeFn, len(s.scalars))
	for name, serialize := range s.scalars {
		scalars[name] = serialize
	}
	res := &execution.Schema{
		AST:           schema,
		Resolvers:     resolvers,
		TypeResolvers: s.abstracts,
		Scalars:       scalars,
	}
	registerIntrospection(res)
	return res, nil
}

// MustBuild is like Build but panics on error.
func (s *Schema) MustBuild() *execution.Schema {
	schema, err := s.Build()
	if err != nil {
		panic(err)
	}
	return schema
}

// Object holds the field resolvers of one object type.
type Object struct {
	Name   string
	fields map[string]*field
}

type field struct {
	resolve execution.FieldResolve
	chains  []execution.ResolveChain
}

// FieldOption configures a field registered with FieldFunc.
type FieldOption func(*field)

// Chain wraps the resolver of a single field. The first chain is the outermost.
func Chain(chains ...execution.ResolveChain) FieldOption {
	return func(f *field) {
		f.chains = append(f.chains, chains...)
	}
}

// FieldFunc registers the resolver of a field. Registering a field twice panics.
func (o *Object) FieldFunc(name string, resolve execution.FieldResolve, options ...FieldOption) {
	if _, ok := o.fields[name]; ok {
		panic(fmt.Sprintf("duplicate field %s.%s", o.Name, name))
	}
	if strings.HasPrefix(name, "__") {
		panic(fmt.Sprintf("field %s.%s uses a reserved name", o.Name, name))
	}
	f := &field{resolve: resolve}
	for _, option := range options {
		option(f)
	}
	o.fields[name] = f
}

// HasField reports whether a resolver is registered for name.
func (o *Object) HasField(name string) bool {
	_, ok := o.fields[name]
	return ok
}

func wrap(resolve execution.FieldResolve, chains []execution.ResolveChain) execution.FieldResolve {
	for i := len(chains) - 1; i >= 0; i-- {
		resolve = chains[i](resolve)
	}
	return resolve
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
