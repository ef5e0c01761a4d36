package resolver

import (
	"context"
	"fmt"

	"github.com/shyptr/serlo-gateway/errors"
	"github.com/shyptr/serlo-gateway/execution"
	"github.com/shyptr/serlo-gateway/model"
	"github.com/shyptr/serlo-gateway/schemabuilder"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var uuidInterfaces = []string{
	"AbstractUuid",
	"InstanceAware",
	"ThreadAware",
	"AbstractRepository",
	"AbstractEntity",
	"AbstractRevision",
	"AbstractEntityRevision",
	"AbstractTaxonomyTermChild",
	"AbstractExercise",
}

// resolveNodeType is the type resolver of every uuid interface. The concrete type is the
// discriminant the dispatch table picked, stubs carry the type of the node they stand for.
// Untyped stubs only answer the id, which every possible type of the field reads the same.
func resolveNodeType(ctx context.Context, value interface{}) (string, error) {
	switch value := value.(type) {
	case *model.Ref:
		if value.Type == "" {
			return execution.AnyPossibleType(ctx)
		}
		return string(value.Type), nil
	case model.Node:
		return string(value.Typename()), nil
	case model.NotificationEvent:
		return string(value.Typename()), nil
	}
	return "", fmt.Errorf("resolver: cannot resolve the type of %T", value)
}

type uuidArgs struct {
	ID    *int `graphql:"id" validate:"omitempty,gt=0"`
	Alias *struct {
		Instance model.Instance `graphql:"instance" validate:"required"`
		Path     string         `graphql:"path" validate:"required"`
	} `graphql:"alias"`
}

type idArgs struct {
	ID int `graphql:"id" validate:"gt=0"`
}

func (r *Resolver) registerUUIDs(build *schemabuilder.Schema) {
	for _, name := range uuidInterfaces {
		build.Interface(name, resolveNodeType)
	}

	query := build.Query()
	query.FieldFunc("uuid", func(ctx context.Context, source interface{}, args map[string]interface{}) (interface{}, error) {
		var in uuidArgs
		if err := schemabuilder.BindArgs(args, &in); err != nil {
			return nil, err
		}
		return r.uuid(ctx, in)
	})
	query.FieldFunc("node", func(ctx context.Context, source interface{}, args map[string]interface{}) (interface{}, error) {
		var in idArgs
		if err := schemabuilder.BindArgs(args, &in); err != nil {
			return nil, err
		}
		return r.fetchNode(ctx, in.ID)
	})
	query.FieldFunc("license", func(ctx context.Context, source interface{}, args map[string]interface{}) (interface{}, error) {
		var in idArgs
		if err := schemabuilder.BindArgs(args, &in); err != nil {
			return nil, err
		}
		return r.sources.Serlo.GetLicense(ctx, in.ID)
	})
}

// uuid resolves a uuid by alias or by id. An alias is looked up first and its id is used for the
// uuid fetch; the id argument is the fallback for aliases that do not exist.
func (r *Resolver) uuid(ctx context.Context, in uuidArgs) (model.Node, error) {
	if in.Alias == nil && in.ID == nil {
		return nil, errors.BadUserInput("you need to provide either an id or an alias")
	}
	id := 0
	if in.ID != nil {
		id = *in.ID
	}
	if in.Alias != nil {
		alias, err := r.sources.Serlo.GetAlias(ctx, in.Alias.Instance, in.Alias.Path)
		if err != nil {
			return nil, err
		}
		if alias != nil {
			id = alias.ID
		}
	}
	if id == 0 {
		return nil, nil
	}
	return r.fetchNode(ctx, id)
}

// fetchNode fetches and decodes the uuid id. Unknown ids resolve to nil.
func (r *Resolver) fetchNode(ctx context.Context, id int) (model.Node, error) {
	payload, err := r.sources.Serlo.GetUUID(ctx, id)
	if err != nil {
		return nil, err
	}
	node, err := model.DecodeUUID(payload)
	if err != nil || node == nil {
		return nil, err
	}
	if unsupported, ok := node.(*model.UnsupportedUuid); ok {
		r.logger.Warn("unsupported uuid",
			zap.Int("id", id),
			zap.String("discriminator", unsupported.Discriminator),
			zap.Stringp("type", unsupported.Type))
	}
	return node, nil
}

// related resolves a field pointing at the uuid id whose type is known to be typename. If the
// query selects only the id of the field, a stub is returned and nothing is fetched.
func (r *Resolver) related(ctx context.Context, id int, typename model.Typename) (model.Node, error) {
	if selectsOnlyID(ctx) {
		return model.NewRef(id, typename), nil
	}
	node, err := r.fetchNode(ctx, id)
	if err != nil || node == nil {
		return nil, err
	}
	if node.Typename() != typename {
		return nil, errors.Internal("uuid %d is a %s, expected a %s", id, node.Typename(), typename)
	}
	return node, nil
}

// relatedAbstract resolves a field pointing at a uuid of an abstract type. If the query selects
// only the id, outside of fragments on concrete types, an untyped stub is returned.
func (r *Resolver) relatedAbstract(ctx context.Context, id int) (model.Node, error) {
	if execution.RequestsOnlyID(ctx) {
		return model.NewRef(id, ""), nil
	}
	return r.fetchNode(ctx, id)
}

// relatedOptional is related for nullable references.
func (r *Resolver) relatedOptional(ctx context.Context, id *int, typename model.Typename) (interface{}, error) {
	if id == nil {
		return nil, nil
	}
	node, err := r.related(ctx, *id, typename)
	if err != nil || node == nil {
		return nil, err
	}
	return node, nil
}

// fetchNodes fetches ids concurrently and returns the nodes in the order of ids. Unknown ids are
// left out.
func (r *Resolver) fetchNodes(ctx context.Context, ids []int) ([]model.Node, error) {
	nodes := make([]model.Node, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			node, err := r.fetchNode(gctx, id)
			if err != nil {
				return err
			}
			nodes[i] = node
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	res := make([]model.Node, 0, len(nodes))
	for i, node := range nodes {
		if node == nil {
			r.logger.Warn("referenced uuid not found", zap.Int("id", ids[i]))
			continue
		}
		res = append(res, node)
	}
	return res, nil
}

// relatedNodes is fetchNodes for lists whose element type is known. With onlyID set, stubs are
// returned and nothing is fetched.
func (r *Resolver) relatedNodes(ctx context.Context, ids []int, typename model.Typename, onlyID bool) ([]model.Node, error) {
	if onlyID {
		res := make([]model.Node, len(ids))
		for i, id := range ids {
			res[i] = model.NewRef(id, typename)
		}
		return res, nil
	}
	nodes, err := r.fetchNodes(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, node := range nodes {
		if node.Typename() != typename {
			return nil, errors.Internal("uuid %d is a %s, expected a %s", node.GetID(), node.Typename(), typename)
		}
	}
	return nodes, nil
}

// selectsOnlyID reports whether the selection at path requests nothing a stub cannot answer: the
// id and the typename. A selection that is not requested at all needs nothing either.
func selectsOnlyID(ctx context.Context, path ...string) bool {
	for _, name := range execution.RequestedFields(ctx, path...) {
		if name != "id" && name != "__typename" {
			return false
		}
	}
	return true
}

// connectionSelectsOnlyID reports whether a connection field needs nothing but node ids.
func connectionSelectsOnlyID(ctx context.Context) bool {
	return selectsOnlyID(ctx, "nodes") && selectsOnlyID(ctx, "edges", "node")
}
