package execution

import (
	"github.com/vektah/gqlparser/v2/ast"
)

// fieldGroup holds every field of a selection set that shares one response key.
type fieldGroup struct {
	key    string
	fields []*ast.Field
}

// collectFields flattens selection sets for the runtime object type def, merging fields with the
// same response key and keeping the order of their first appearance.
func (e *exeContext) collectFields(def *ast.Definition, sets []ast.SelectionSet) []*fieldGroup {
	var groups []*fieldGroup
	index := map[string]*fieldGroup{}
	visited := map[string]bool{}

	var collect func(set ast.SelectionSet)
	collect = func(set ast.SelectionSet) {
		for _, selection := range set {
			switch selection := selection.(type) {
			case *ast.Field:
				if !shouldIncludeNode(selection.Directives, e.variables) {
					continue
				}
				key := selection.Alias
				if key == "" {
					key = selection.Name
				}
				group, ok := index[key]
				if !ok {
					group = &fieldGroup{key: key}
					index[key] = group
					groups = append(groups, group)
				}
				group.fields = append(group.fields, selection)
			case *ast.InlineFragment:
				if !shouldIncludeNode(selection.Directives, e.variables) ||
					!e.doesFragmentConditionMatch(selection.TypeCondition, def) {
					continue
				}
				collect(selection.SelectionSet)
			case *ast.FragmentSpread:
				if visited[selection.Name] || !shouldIncludeNode(selection.Directives, e.variables) {
					continue
				}
				visited[selection.Name] = true
				fragment := e.fragment(selection)
				if fragment == nil || !e.doesFragmentConditionMatch(fragment.TypeCondition, def) {
					continue
				}
				collect(fragment.SelectionSet)
			}
		}
	}
	for _, set := range sets {
		collect(set)
	}
	return groups
}

func (e *exeContext) fragment(spread *ast.FragmentSpread) *ast.FragmentDefinition {
	if spread.Definition != nil {
		return spread.Definition
	}
	return e.doc.Fragments.ForName(spread.Name)
}

// doesFragmentConditionMatch reports whether a fragment with the given type condition applies to
// the object type def.
func (e *exeContext) doesFragmentConditionMatch(condition string, def *ast.Definition) bool {
	if condition == "" || condition == def.Name {
		return true
	}
	conditionDef := e.schema.AST.Types[condition]
	if conditionDef == nil || !conditionDef.IsAbstractType() {
		return false
	}
	for _, possible := range e.schema.AST.GetPossibleTypes(conditionDef) {
		if possible.Name == def.Name {
			return true
		}
	}
	return false
}

// shouldIncludeNode evaluates the skip and include directives.
func shouldIncludeNode(directives ast.DirectiveList, variables map[string]interface{}) bool {
	if skip := directives.ForName("skip"); skip != nil {
		if value, ok := skip.ArgumentMap(variables)["if"].(bool); ok && value {
			return false
		}
	}
	if include := directives.ForName("include"); include != nil {
		if value, ok := include.ArgumentMap(variables)["if"].(bool); ok && !value {
			return false
		}
	}
	return true
}

// requestedFields returns the names of the fields in sets, flattening every fragment regardless
// of its type condition.
func (e *exeContext) requestedFields(sets []ast.SelectionSet) []string {
	var names []string
	seen := map[string]bool{}
	var collect func(set ast.SelectionSet)
	collect = func(set ast.SelectionSet) {
		for _, selection := range set {
			switch selection := selection.(type) {
			case *ast.Field:
				if shouldIncludeNode(selection.Directives, e.variables) && !seen[selection.Name] {
					seen[selection.Name] = true
					names = append(names, selection.Name)
				}
			case *ast.InlineFragment:
				if shouldIncludeNode(selection.Directives, e.variables) {
					collect(selection.SelectionSet)
				}
			case *ast.FragmentSpread:
				if !shouldIncludeNode(selection.Directives, e.variables) {
					continue
				}
				if fragment := e.fragment(selection); fragment != nil {
					collect(fragment.SelectionSet)
				}
			}
		}
	}
	for _, set := range sets {
		collect(set)
	}
	return names
}

// hasTypeConditions reports whether sets contain a fragment whose type condition is not own,
// i.e. a fragment that applies to some concrete types only.
func (e *exeContext) hasTypeConditions(sets []ast.SelectionSet, own string) bool {
	conditional := func(condition string, set ast.SelectionSet) bool {
		if condition != "" && condition != own {
			return true
		}
		return e.hasTypeConditions([]ast.SelectionSet{set}, own)
	}
	for _, set := range sets {
		for _, selection := range set {
			switch selection := selection.(type) {
			case *ast.InlineFragment:
				if shouldIncludeNode(selection.Directives, e.variables) && conditional(selection.TypeCondition, selection.SelectionSet) {
					return true
				}
			case *ast.FragmentSpread:
				if !shouldIncludeNode(selection.Directives, e.variables) {
					continue
				}
				if fragment := e.fragment(selection); fragment != nil && conditional(fragment.TypeCondition, fragment.SelectionSet) {
					return true
				}
			}
		}
	}
	return false
}

// selectionsOf follows path through nested fields of sets.
func (e *exeContext) selectionsOf(sets []ast.SelectionSet, path []string) []ast.SelectionSet {
	for _, name := range path {
		var next []ast.SelectionSet
		for _, set := range sets {
			next = append(next, e.childSelections(set, name)...)
		}
		sets = next
	}
	return sets
}

func (e *exeContext) childSelections(set ast.SelectionSet, name string) []ast.SelectionSet {
	var res []ast.SelectionSet
	for _, selection := range set {
		switch selection := selection.(type) {
		case *ast.Field:
			if selection.Name == name && shouldIncludeNode(selection.Directives, e.variables) {
				res = append(res, selection.SelectionSet)
			}
		case *ast.InlineFragment:
			if shouldIncludeNode(selection.Directives, e.variables) {
				res = append(res, e.childSelections(selection.SelectionSet, name)...)
			}
		case *ast.FragmentSpread:
			if !shouldIncludeNode(selection.Directives, e.variables) {
				continue
			}
			if fragment := e.fragment(selection); fragment != nil {
				res = append(res, e.childSelections(fragment.SelectionSet, name)...)
			}
		}
	}
	return res
}

func selectionSets(fields []*ast.Field) []ast.SelectionSet {
	sets := make([]ast.SelectionSet, 0, len(fields))
	for _, field := range fields {
		sets = append(sets, field.SelectionSet)
	}
	return sets
}
