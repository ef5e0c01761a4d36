package resolver

import (
	"context"
	"strconv"

	"github.com/shyptr/serlo-gateway/connection"
	"github.com/shyptr/serlo-gateway/errors"
	"github.com/shyptr/serlo-gateway/model"
	"github.com/shyptr/serlo-gateway/schemabuilder"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type threadsArgs struct {
	connection.Args
	Archived *bool `graphql:"archived"`
	Trashed  *bool `graphql:"trashed"`
}

type threadArgs struct {
	ID string `graphql:"id" validate:"required"`
}

func (r *Resolver) registerThreads(build *schemabuilder.Schema) {
	thread := build.Object("Thread")
	thread.FieldFunc("id", on(func(ctx context.Context, t *model.Thread, _ map[string]interface{}) (interface{}, error) {
		return t.ID(), nil
	}))
	thread.FieldFunc("title", on(func(ctx context.Context, t *model.Thread, _ map[string]interface{}) (interface{}, error) {
		return t.Title(), nil
	}))
	thread.FieldFunc("archived", on(func(ctx context.Context, t *model.Thread, _ map[string]interface{}) (interface{}, error) {
		return t.Archived(), nil
	}))
	thread.FieldFunc("trashed", on(func(ctx context.Context, t *model.Thread, _ map[string]interface{}) (interface{}, error) {
		return t.Trashed(), nil
	}))
	thread.FieldFunc("createdAt", on(func(ctx context.Context, t *model.Thread, _ map[string]interface{}) (interface{}, error) {
		return t.CreatedAt(), nil
	}))
	thread.FieldFunc("updatedAt", on(func(ctx context.Context, t *model.Thread, _ map[string]interface{}) (interface{}, error) {
		return t.UpdatedAt(), nil
	}))
	thread.FieldFunc("object", on(func(ctx context.Context, t *model.Thread, _ map[string]interface{}) (interface{}, error) {
		return r.relatedAbstract(ctx, t.ObjectID())
	}))
	thread.FieldFunc("comments", on(r.threadComments))

	build.Query().FieldFunc("thread", func(ctx context.Context, source interface{}, args map[string]interface{}) (interface{}, error) {
		var in threadArgs
		if err := schemabuilder.BindArgs(args, &in); err != nil {
			return nil, err
		}
		id, err := model.DecodeThreadID(in.ID)
		if err != nil {
			return nil, errors.InvalidInput(err, "invalid thread id")
		}
		return r.sources.Comments.GetThread(ctx, id)
	})
}

// threads lists the threads attached to a uuid. Without filters only the threads inside the
// requested window are fetched, and none at all if nothing but their ids is selected.
func (r *Resolver) threads(ctx context.Context, node model.ThreadAware, args map[string]interface{}) (interface{}, error) {
	var in threadsArgs
	if err := schemabuilder.BindArgs(args, &in); err != nil {
		return nil, err
	}
	ids, err := r.sources.Comments.GetThreadIDs(ctx, node.GetID())
	if err != nil {
		return nil, err
	}

	if in.Archived == nil && in.Trashed == nil {
		window, err := connection.Resolve(ids, in.Args, model.EncodeThreadID)
		if err != nil {
			return nil, err
		}
		if connectionSelectsOnlyID(ctx) {
			return connection.Map(window, func(id int) (*model.Thread, bool) {
				return &model.Thread{FirstCommentID: id}, true
			}), nil
		}
		threads, err := r.fetchThreads(ctx, window.Nodes)
		if err != nil {
			return nil, err
		}
		byID := make(map[int]*model.Thread, len(threads))
		for _, thread := range threads {
			byID[thread.FirstCommentID] = thread
		}
		return connection.Map(window, func(id int) (*model.Thread, bool) {
			thread, ok := byID[id]
			return thread, ok
		}), nil
	}

	threads, err := r.fetchThreads(ctx, ids)
	if err != nil {
		return nil, err
	}
	filtered := make([]*model.Thread, 0, len(threads))
	for _, thread := range threads {
		if in.Archived != nil && thread.Archived() != *in.Archived {
			continue
		}
		if in.Trashed != nil && thread.Trashed() != *in.Trashed {
			continue
		}
		filtered = append(filtered, thread)
	}
	return connection.Resolve(filtered, in.Args, (*model.Thread).ID)
}

// fetchThreads fetches threads concurrently, in the order of ids. Threads the comments service
// does not know are left out.
func (r *Resolver) fetchThreads(ctx context.Context, ids []int) ([]*model.Thread, error) {
	threads := make([]*model.Thread, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			thread, err := r.sources.Comments.GetThread(gctx, id)
			if err != nil {
				return err
			}
			threads[i] = thread
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	res := make([]*model.Thread, 0, len(threads))
	for i, thread := range threads {
		if thread == nil {
			r.logger.Warn("thread not found", zap.Int("firstCommentId", ids[i]))
			continue
		}
		res = append(res, thread)
	}
	return res, nil
}

// threadComments lists the comments of a thread, the first comment leading.
func (r *Resolver) threadComments(ctx context.Context, t *model.Thread, args map[string]interface{}) (interface{}, error) {
	var in connection.Args
	if err := schemabuilder.BindArgs(args, &in); err != nil {
		return nil, err
	}
	comments := make([]*model.Comment, 0, len(t.Comments))
	if root := t.Root(); root != nil {
		comments = append(comments, root)
	}
	for _, comment := range t.Comments {
		if comment.ID != t.FirstCommentID {
			comments = append(comments, comment)
		}
	}
	return connection.Resolve(comments, in, func(comment *model.Comment) string {
		return strconv.Itoa(comment.ID)
	})
}
