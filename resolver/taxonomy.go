package resolver

import (
	"context"

	"github.com/shyptr/serlo-gateway/connection"
	"github.com/shyptr/serlo-gateway/model"
	"github.com/shyptr/serlo-gateway/schemabuilder"
)

// registerTaxonomy resolves the edges of the taxonomy tree. Each field follows exactly one edge,
// so cyclic trees never recurse past what the query asks for.
func (r *Resolver) registerTaxonomy(build *schemabuilder.Schema) {
	term := build.Object(string(model.TypenameTaxonomyTerm))
	term.FieldFunc("parent", on(func(ctx context.Context, term *model.TaxonomyTerm, _ map[string]interface{}) (interface{}, error) {
		return r.relatedOptional(ctx, term.ParentID, model.TypenameTaxonomyTerm)
	}))
	term.FieldFunc("children", on(func(ctx context.Context, term *model.TaxonomyTerm, args map[string]interface{}) (interface{}, error) {
		var in connection.Args
		if err := schemabuilder.BindArgs(args, &in); err != nil {
			return nil, err
		}
		// Children mix terms and entities, so they are always fetched.
		return r.nodeConnection(ctx, term.ChildrenIDs, in, "")
	}))
}
