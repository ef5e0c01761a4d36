package resolver

import (
	"context"
	"strconv"

	"github.com/shyptr/serlo-gateway/connection"
	"github.com/shyptr/serlo-gateway/model"
	"github.com/shyptr/serlo-gateway/schemabuilder"
)

type revisionsArgs struct {
	connection.Args
	Unrevised *bool `graphql:"unrevised"`
}

type coursePagesArgs struct {
	Trashed            *bool `graphql:"trashed"`
	HasCurrentRevision *bool `graphql:"hasCurrentRevision"`
}

// registerMixins attaches the field resolvers of every capability to the concrete types that
// declare it. Adding a node type to the dispatch table is enough to get its capability fields.
func (r *Resolver) registerMixins(build *schemabuilder.Schema) {
	for _, prototype := range model.Prototypes() {
		object := build.Object(string(prototype.Typename()))
		if _, ok := prototype.(model.ThreadAware); ok {
			object.FieldFunc("threads", on(r.threads))
		}
		if _, ok := prototype.(model.Repository); ok {
			object.FieldFunc("currentRevision", on(r.currentRevision))
			object.FieldFunc("revisions", on(r.revisions))
			object.FieldFunc("license", on(func(ctx context.Context, repository model.Repository, _ map[string]interface{}) (interface{}, error) {
				return r.sources.Serlo.GetLicense(ctx, repository.License())
			}))
		}
		if _, ok := prototype.(model.Revision); ok {
			object.FieldFunc("author", on(func(ctx context.Context, revision model.Revision, _ map[string]interface{}) (interface{}, error) {
				return r.related(ctx, revision.Author(), model.TypenameUser)
			}))
			object.FieldFunc("repository", on(func(ctx context.Context, revision model.Revision, _ map[string]interface{}) (interface{}, error) {
				return r.related(ctx, revision.Repository(), revision.RepositoryTypename())
			}))
		}
		if _, ok := prototype.(model.TaxonomyTermChild); ok {
			object.FieldFunc("taxonomyTerms", on(r.taxonomyTerms))
		}
		if _, ok := prototype.(model.SolutionOwner); ok {
			object.FieldFunc("solution", on(func(ctx context.Context, exercise model.SolutionOwner, _ map[string]interface{}) (interface{}, error) {
				return r.relatedOptional(ctx, exercise.Solution(), model.TypenameSolution)
			}))
		}
	}

	build.Object(string(model.TypenameCourse)).FieldFunc("pages", on(r.coursePages))
	build.Object(string(model.TypenameCoursePage)).FieldFunc("course", on(func(ctx context.Context, page *model.CoursePage, _ map[string]interface{}) (interface{}, error) {
		return r.related(ctx, page.ParentID, model.TypenameCourse)
	}))
	build.Object(string(model.TypenameExerciseGroup)).FieldFunc("exercises", on(func(ctx context.Context, group *model.ExerciseGroup, _ map[string]interface{}) (interface{}, error) {
		return r.relatedNodes(ctx, group.ExerciseIDs, model.TypenameGroupedExercise, selectsOnlyID(ctx))
	}))
	build.Object(string(model.TypenameGroupedExercise)).FieldFunc("exerciseGroup", on(func(ctx context.Context, exercise *model.GroupedExercise, _ map[string]interface{}) (interface{}, error) {
		return r.related(ctx, exercise.ParentID, model.TypenameExerciseGroup)
	}))
	// The parent of a solution is an Exercise or a GroupedExercise.
	build.Object(string(model.TypenameSolution)).FieldFunc("exercise", on(func(ctx context.Context, solution *model.Solution, _ map[string]interface{}) (interface{}, error) {
		return r.relatedAbstract(ctx, solution.ParentID)
	}))
	build.Object(string(model.TypenameComment)).FieldFunc("author", on(func(ctx context.Context, comment *model.Comment, _ map[string]interface{}) (interface{}, error) {
		return r.related(ctx, comment.AuthorID, model.TypenameUser)
	}))
}

func (r *Resolver) currentRevision(ctx context.Context, repository model.Repository, _ map[string]interface{}) (interface{}, error) {
	return r.relatedOptional(ctx, repository.CurrentRevision(), repository.RevisionTypename())
}

// revisions lists the revisions of a repository. unrevised selects the revisions newer than the
// current one, or all of them while there is no current revision.
func (r *Resolver) revisions(ctx context.Context, repository model.Repository, args map[string]interface{}) (interface{}, error) {
	var in revisionsArgs
	if err := schemabuilder.BindArgs(args, &in); err != nil {
		return nil, err
	}
	ids := repository.Revisions()
	if in.Unrevised != nil {
		current := 0
		if repository.CurrentRevision() != nil {
			current = *repository.CurrentRevision()
		}
		filtered := make([]int, 0, len(ids))
		for _, id := range ids {
			if (id > current) == *in.Unrevised {
				filtered = append(filtered, id)
			}
		}
		ids = filtered
	}
	return r.nodeConnection(ctx, ids, in.Args, repository.RevisionTypename())
}

func (r *Resolver) taxonomyTerms(ctx context.Context, child model.TaxonomyTermChild, args map[string]interface{}) (interface{}, error) {
	var in connection.Args
	if err := schemabuilder.BindArgs(args, &in); err != nil {
		return nil, err
	}
	return r.nodeConnection(ctx, child.TaxonomyTerms(), in, model.TypenameTaxonomyTerm)
}

func (r *Resolver) coursePages(ctx context.Context, course *model.Course, args map[string]interface{}) (interface{}, error) {
	var in coursePagesArgs
	if err := schemabuilder.BindArgs(args, &in); err != nil {
		return nil, err
	}
	onlyID := selectsOnlyID(ctx) && in.Trashed == nil && in.HasCurrentRevision == nil
	pages, err := r.relatedNodes(ctx, course.PageIDs, model.TypenameCoursePage, onlyID)
	if err != nil {
		return nil, err
	}
	res := make([]model.Node, 0, len(pages))
	for _, node := range pages {
		if page, ok := node.(*model.CoursePage); ok {
			if in.Trashed != nil && page.Trashed != *in.Trashed {
				continue
			}
			if in.HasCurrentRevision != nil && (page.CurrentRevisionID != nil) != *in.HasCurrentRevision {
				continue
			}
		}
		res = append(res, node)
	}
	return res, nil
}

// nodeConnection windows ids and resolves only the nodes inside the window. typename is the
// concrete type of every id, or empty if it is not known up front; stubs are only handed out when
// it is known.
func (r *Resolver) nodeConnection(ctx context.Context, ids []int, args connection.Args, typename model.Typename) (*connection.Connection[model.Node], error) {
	window, err := connection.Resolve(ids, args, strconv.Itoa)
	if err != nil {
		return nil, err
	}

	var nodes []model.Node
	if typename == "" {
		nodes, err = r.fetchNodes(ctx, window.Nodes)
	} else {
		nodes, err = r.relatedNodes(ctx, window.Nodes, typename, connectionSelectsOnlyID(ctx))
	}
	if err != nil {
		return nil, err
	}
	byID := make(map[int]model.Node, len(nodes))
	for _, node := range nodes {
		byID[node.GetID()] = node
	}
	return connection.Map(window, func(id int) (model.Node, bool) {
		node, ok := byID[id]
		return node, ok
	}), nil
}
