package execution

import (
	"context"
	stderrors "errors"
	"fmt"
	"reflect"
	"runtime"
	"sync"

	"github.com/shyptr/serlo-gateway/errors"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/validator"
	"golang.org/x/sync/errgroup"
)

type Params struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// PanicError is the error a panicking resolver is turned into.
type PanicError struct {
	Value interface{}
	Stack []byte
}

func (p *PanicError) Error() string {
	return fmt.Sprintf("graphql: panic: %v", p.Value)
}

type exeContext struct {
	context.Context
	schema    *Schema
	doc       *ast.QueryDocument
	variables map[string]interface{}

	mu   sync.Mutex
	errs errors.MultiError
}

func (e *exeContext) addErr(err *errors.GraphQLError) {
	// Siblings of a field whose null propagated past their parent are cancelled; their errors
	// belong to a subtree that is discarded anyway.
	if stderrors.Is(err, context.Canceled) && e.Context.Err() == nil {
		return
	}
	e.mu.Lock()
	e.errs = append(e.errs, err)
	e.mu.Unlock()
}

// Do validates and executes a query against schema. Field errors do not abort the execution:
// the result holds every field that could be resolved and the errors hold the rest.
func Do(ctx context.Context, schema *Schema, params Params) (interface{}, errors.MultiError) {
	doc, listErr := gqlparser.LoadQuery(schema.AST, params.Query)
	if len(listErr) > 0 {
		return nil, convertErrors(listErr)
	}
	op, err := operation(doc, params.OperationName)
	if err != nil {
		return nil, errors.MultiError{err}
	}
	variables, varErr := validator.VariableValues(schema.AST, op, params.Variables)
	if varErr != nil {
		return nil, convertErrors(gqlerror.List{toGQLError(varErr)})
	}

	exeCtx := &exeContext{
		Context:   ctx,
		schema:    schema,
		doc:       doc,
		variables: variables,
	}
	var root *ast.Definition
	switch op.Operation {
	case ast.Mutation:
		root = schema.AST.Mutation
	case ast.Subscription:
		return nil, errors.MultiError{errors.New("subscriptions are not supported")}
	default:
		root = schema.AST.Query
	}
	if root == nil {
		return nil, errors.MultiError{errors.New("schema does not support %s operations", op.Operation)}
	}

	data, gqlErr := exeCtx.executeObject(ctx, root, nil, []ast.SelectionSet{op.SelectionSet}, nil, op.Operation == ast.Mutation)
	if gqlErr != nil {
		exeCtx.addErr(gqlErr)
		return nil, exeCtx.errs
	}
	return data, exeCtx.errs
}

func operation(doc *ast.QueryDocument, name string) (*ast.OperationDefinition, *errors.GraphQLError) {
	if name == "" {
		if len(doc.Operations) != 1 {
			return nil, errors.New("must provide operation name if query contains multiple operations")
		}
		return doc.Operations[0], nil
	}
	for _, op := range doc.Operations {
		if op.Name == name {
			return op, nil
		}
	}
	return nil, errors.New("unknown operation named %q", name)
}

func toGQLError(err error) *gqlerror.Error {
	var gqlErr *gqlerror.Error
	if stderrors.As(err, &gqlErr) {
		return gqlErr
	}
	return &gqlerror.Error{Message: err.Error(), Err: err}
}

func convertErrors(list gqlerror.List) errors.MultiError {
	res := make(errors.MultiError, 0, len(list))
	for _, err := range list {
		gqlErr := &errors.GraphQLError{
			Message:    err.Message,
			Rule:       err.Rule,
			Extensions: map[string]interface{}{"code": errors.CodeValidationFailed},
		}
		for _, loc := range err.Locations {
			gqlErr.Locations = append(gqlErr.Locations, errors.Location{Line: loc.Line, Column: loc.Column})
		}
		res = append(res, gqlErr)
	}
	return res
}

// executeObject resolves the fields of an object. Sibling fields run concurrently, except for the
// top level fields of a mutation, which run in order.
func (e *exeContext) executeObject(ctx context.Context, def *ast.Definition, source interface{},
	sets []ast.SelectionSet, path []interface{}, serial bool) (*Object, *errors.GraphQLError) {
	groups := e.collectFields(def, sets)
	res := newObject(groups)

	if serial || len(groups) == 1 {
		for _, group := range groups {
			value, err := e.resolveField(ctx, def, source, group, path)
			if err != nil {
				return nil, err
			}
			res.values[group.key] = value
		}
		return res, nil
	}

	var mu sync.Mutex
	var bubbled *errors.GraphQLError
	g, gctx := errgroup.WithContext(ctx)
	for _, group := range groups {
		group := group
		g.Go(func() error {
			value, err := e.resolveField(gctx, def, source, group, path)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if bubbled == nil {
					bubbled = err
				}
				return err
			}
			res.values[group.key] = value
			return nil
		})
	}
	if g.Wait() != nil {
		return nil, bubbled
	}
	return res, nil
}

// resolveField resolves and completes one field. A returned error means the field was null in a
// non-null position and the null propagates to the parent.
func (e *exeContext) resolveField(ctx context.Context, parent *ast.Definition, source interface{},
	group *fieldGroup, path []interface{}) (interface{}, *errors.GraphQLError) {
	field := group.fields[0]
	fieldPath := appendPath(path, group.key)
	if field.Name == "__typename" {
		return parent.Name, nil
	}
	definition := field.Definition
	if definition == nil {
		definition = parent.Fields.ForName(field.Name)
	}
	if definition == nil {
		return nil, errors.Wrap(errors.Internal("unknown field %s.%s", parent.Name, field.Name), fieldPath, location(field))
	}

	if err := ctx.Err(); err != nil {
		return e.nullable(definition.Type, errors.Wrap(err, fieldPath, location(field)))
	}

	args := field.ArgumentMap(e.variables)
	fc := &FieldContext{
		Object:     parent.Name,
		Field:      field,
		Definition: definition,
		Path:       fieldPath,
		Args:       args,
		fields:     group.fields,
		exe:        e,
	}
	fctx := withFieldContext(ctx, fc)
	result, err := safeExecuteResolver(fctx, e.schema.resolver(parent.Name, field.Name), source, args)
	if err != nil {
		return e.nullable(definition.Type, errors.Wrap(err, fieldPath, location(field)))
	}
	value, gqlErr := e.completeValue(fctx, definition.Type, group.fields, result, fieldPath)
	if gqlErr != nil {
		return e.nullable(definition.Type, gqlErr)
	}
	return value, nil
}

// nullable records err and nulls the field if typ allows it, otherwise it hands err to the
// parent.
func (e *exeContext) nullable(typ *ast.Type, err *errors.GraphQLError) (interface{}, *errors.GraphQLError) {
	if typ.NonNull {
		return nil, err
	}
	e.addErr(err)
	return nil, nil
}

func (e *exeContext) completeValue(ctx context.Context, typ *ast.Type, fields []*ast.Field,
	result interface{}, path []interface{}) (interface{}, *errors.GraphQLError) {
	if typ.NonNull {
		nullableType := *typ
		nullableType.NonNull = false
		value, err := e.completeValue(ctx, &nullableType, fields, result, path)
		if err != nil {
			return nil, err
		}
		if value == nil {
			return nil, errors.Wrap(errors.Internal("cannot return null for non-nullable field %s", fields[0].Name), path, location(fields[0]))
		}
		return value, nil
	}

	if typ.Elem != nil {
		return e.completeList(ctx, typ.Elem, fields, result, path)
	}
	if isNil(result) {
		return nil, nil
	}

	def := e.schema.AST.Types[typ.NamedType]
	if def == nil {
		return nil, errors.Wrap(errors.Internal("unknown type %s", typ.NamedType), path, location(fields[0]))
	}
	switch def.Kind {
	case ast.Scalar:
		value, err := e.serialize(def, unwrap(result))
		if err != nil {
			return nil, errors.Wrap(err, path, location(fields[0]))
		}
		return value, nil
	case ast.Enum:
		value, err := serializeEnum(def, unwrap(result))
		if err != nil {
			return nil, errors.Wrap(err, path, location(fields[0]))
		}
		return value, nil
	case ast.Object, ast.Interface, ast.Union:
		concrete := def
		if def.Kind != ast.Object {
			var err error
			if concrete, err = e.resolveType(ctx, def, result); err != nil {
				return nil, errors.Wrap(err, path, location(fields[0]))
			}
		}
		obj, gqlErr := e.executeObject(ctx, concrete, result, selectionSets(fields), path, false)
		if gqlErr != nil {
			return nil, gqlErr
		}
		return obj, nil
	}
	return nil, errors.Wrap(errors.Internal("cannot output %s %s", def.Kind, def.Name), path, location(fields[0]))
}

func (e *exeContext) completeList(ctx context.Context, elem *ast.Type, fields []*ast.Field,
	result interface{}, path []interface{}) (interface{}, *errors.GraphQLError) {
	if result == nil {
		return nil, nil
	}
	value := reflect.ValueOf(result)
	if value.Kind() == reflect.Ptr {
		if value.IsNil() {
			return nil, nil
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Slice && value.Kind() != reflect.Array {
		return nil, errors.Wrap(errors.Internal("expected a list for field %s, got %T", fields[0].Name, result), path, location(fields[0]))
	}

	items := make([]interface{}, value.Len())
	complete := func(ctx context.Context, i int) *errors.GraphQLError {
		item, err := e.completeValue(ctx, elem, fields, value.Index(i).Interface(), appendPath(path, i))
		if err != nil {
			if elem.NonNull {
				return err
			}
			e.addErr(err)
			item = nil
		}
		items[i] = item
		return nil
	}

	if value.Len() < 2 || isLeaf(e.schema.AST, elem) {
		for i := range items {
			if err := complete(ctx, i); err != nil {
				return nil, err
			}
		}
		return items, nil
	}

	var mu sync.Mutex
	var bubbled *errors.GraphQLError
	g, gctx := errgroup.WithContext(ctx)
	for i := range items {
		i := i
		g.Go(func() error {
			if err := complete(gctx, i); err != nil {
				mu.Lock()
				if bubbled == nil {
					bubbled = err
				}
				mu.Unlock()
				return err
			}
			return nil
		})
	}
	if g.Wait() != nil {
		return nil, bubbled
	}
	return items, nil
}

func (e *exeContext) resolveType(ctx context.Context, def *ast.Definition, value interface{}) (*ast.Definition, error) {
	resolveType, ok := e.schema.TypeResolvers[def.Name]
	if !ok {
		return nil, fmt.Errorf("no type resolver for abstract type %s", def.Name)
	}
	name, err := resolveType(ctx, value)
	if err != nil {
		return nil, err
	}
	for _, possible := range e.schema.AST.GetPossibleTypes(def) {
		if possible.Name == name {
			return possible, nil
		}
	}
	return nil, fmt.Errorf("runtime object type %q is not a possible type for %s", name, def.Name)
}

func (e *exeContext) serialize(def *ast.Definition, value interface{}) (interface{}, error) {
	if serialize, ok := e.schema.Scalars[def.Name]; ok {
		return serialize(value)
	}
	if serialize, ok := BuiltinScalars[def.Name]; ok {
		return serialize(value)
	}
	return value, nil
}

func serializeEnum(def *ast.Definition, value interface{}) (interface{}, error) {
	v := reflect.ValueOf(value)
	if v.Kind() != reflect.String {
		return nil, fmt.Errorf("enum %s cannot represent %T", def.Name, value)
	}
	if def.EnumValues.ForName(v.String()) == nil {
		return nil, fmt.Errorf("enum %s has no value %q", def.Name, v.String())
	}
	return v.String(), nil
}

func isLeaf(schema *ast.Schema, typ *ast.Type) bool {
	for typ.Elem != nil {
		typ = typ.Elem
	}
	def := schema.Types[typ.NamedType]
	return def != nil && (def.Kind == ast.Scalar || def.Kind == ast.Enum)
}

func safeExecuteResolver(ctx context.Context, resolve FieldResolve, source interface{},
	args map[string]interface{}) (result interface{}, err error) {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			const size = 64 << 10
			buf := make([]byte, size)
			buf = buf[:runtime.Stack(buf, false)]
			result, err = nil, &PanicError{Value: panicErr, Stack: buf}
		}
	}()
	return resolve(ctx, source, args)
}

func location(field *ast.Field) errors.Location {
	if field.Position == nil {
		return errors.Location{}
	}
	return errors.Location{Line: field.Position.Line, Column: field.Position.Column}
}

func appendPath(path []interface{}, key interface{}) []interface{} {
	res := make([]interface{}, len(path), len(path)+1)
	copy(res, path)
	return append(res, key)
}
