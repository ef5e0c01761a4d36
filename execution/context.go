package execution

import (
	"context"
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"
)

// FieldContext describes the field a resolver is currently resolving.
type FieldContext struct {
	// Object is the name of the parent object type.
	Object     string
	Field      *ast.Field
	Definition *ast.FieldDefinition
	Path       []interface{}
	Args       map[string]interface{}

	fields []*ast.Field
	exe    *exeContext
}

type fieldContextKey struct{}

func withFieldContext(ctx context.Context, fc *FieldContext) context.Context {
	return context.WithValue(ctx, fieldContextKey{}, fc)
}

// GetFieldContext returns the FieldContext of the resolver ctx was handed to, or nil outside of
// an execution.
func GetFieldContext(ctx context.Context) *FieldContext {
	fc, _ := ctx.Value(fieldContextKey{}).(*FieldContext)
	return fc
}

// RequestedFields returns the names of the fields selected on the value of the current field.
// A non-empty path descends into nested selections first, e.g. RequestedFields("nodes") on a
// connection field. Fragments are flattened whatever their type condition.
func (fc *FieldContext) RequestedFields(path ...string) []string {
	sets := fc.exe.selectionsOf(selectionSets(fc.fields), path)
	return fc.exe.requestedFields(sets)
}

// RequestedFields is the RequestedFields of the FieldContext in ctx. It returns nil outside of an
// execution.
func RequestedFields(ctx context.Context, path ...string) []string {
	fc := GetFieldContext(ctx)
	if fc == nil {
		return nil
	}
	return fc.RequestedFields(path...)
}

// RequestsOnlyID reports whether the query selects the id and nothing else on the value of the
// current field (or on the nested field at path), outside of any fragment with a type condition.
// Such a selection reads the same from every possible type of an abstract field, so resolvers
// may hand out id-only references whose concrete type is unknown.
func RequestsOnlyID(ctx context.Context, path ...string) bool {
	fc := GetFieldContext(ctx)
	if fc == nil {
		return false
	}
	sets := fc.exe.selectionsOf(selectionSets(fc.fields), path)
	own := ""
	if len(path) == 0 && fc.Definition != nil {
		own = fc.Definition.Type.Name()
	}
	if fc.exe.hasTypeConditions(sets, own) {
		return false
	}
	fields := fc.exe.requestedFields(sets)
	return len(fields) == 1 && fields[0] == "id"
}

// AnyPossibleType returns the name of a possible type of the abstract type of the current field.
// Type resolvers use it for values whose selection does not depend on the concrete type.
func AnyPossibleType(ctx context.Context) (string, error) {
	fc := GetFieldContext(ctx)
	if fc == nil || fc.Definition == nil {
		return "", fmt.Errorf("no field in context")
	}
	def := fc.exe.schema.AST.Types[fc.Definition.Type.Name()]
	if def == nil || !def.IsAbstractType() {
		return "", fmt.Errorf("field %s.%s is not of an abstract type", fc.Object, fc.Definition.Name)
	}
	possible := fc.exe.schema.AST.GetPossibleTypes(def)
	if len(possible) == 0 {
		return "", fmt.Errorf("abstract type %s has no possible types", def.Name)
	}
	return possible[0].Name, nil
}
