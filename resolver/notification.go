package resolver

import (
	"context"
	"strconv"

	"github.com/shyptr/serlo-gateway/auth"
	"github.com/shyptr/serlo-gateway/connection"
	"github.com/shyptr/serlo-gateway/errors"
	"github.com/shyptr/serlo-gateway/execution"
	"github.com/shyptr/serlo-gateway/model"
	"github.com/shyptr/serlo-gateway/schemabuilder"
	"go.uber.org/zap"
)

type notificationsArgs struct {
	connection.Args
	Unread *bool `graphql:"unread"`
}

type linkEvent interface {
	Link() *model.LinkEvent
}

func (r *Resolver) registerNotifications(build *schemabuilder.Schema) {
	build.Interface("AbstractNotificationEvent", resolveNodeType)

	query := build.Query()
	query.FieldFunc("notifications", r.notifications)
	query.FieldFunc("notificationEvent", func(ctx context.Context, source interface{}, args map[string]interface{}) (interface{}, error) {
		var in idArgs
		if err := schemabuilder.BindArgs(args, &in); err != nil {
			return nil, err
		}
		return r.fetchEvent(ctx, in.ID)
	})
	build.Object("Notification").FieldFunc("event", on(func(ctx context.Context, n *model.Notification, _ map[string]interface{}) (interface{}, error) {
		return r.fetchEvent(ctx, n.EventID)
	}))

	for _, typename := range model.EventTypenames() {
		build.Object(string(typename)).FieldFunc("actor", on(func(ctx context.Context, event model.NotificationEvent, _ map[string]interface{}) (interface{}, error) {
			return r.related(ctx, event.Actor(), model.TypenameUser)
		}))
	}

	fields := func(typename model.Typename, resolvers map[string]execution.FieldResolve) {
		object := build.Object(string(typename))
		for _, name := range sortedKeys(resolvers) {
			object.FieldFunc(name, resolvers[name])
		}
	}
	uuid := func(id func(source interface{}) int) execution.FieldResolve {
		return func(ctx context.Context, source interface{}, _ map[string]interface{}) (interface{}, error) {
			return r.relatedAbstract(ctx, id(source))
		}
	}
	term := func(id func(source interface{}) *int) execution.FieldResolve {
		return func(ctx context.Context, source interface{}, _ map[string]interface{}) (interface{}, error) {
			return r.relatedOptional(ctx, id(source), model.TypenameTaxonomyTerm)
		}
	}
	thread := func(id func(source interface{}) int) execution.FieldResolve {
		return func(ctx context.Context, source interface{}, _ map[string]interface{}) (interface{}, error) {
			return r.eventThread(ctx, id(source))
		}
	}

	fields(model.TypenameCheckoutRevisionNotificationEvent, map[string]execution.FieldResolve{
		"repository": uuid(func(s interface{}) int { return s.(*model.CheckoutRevisionEvent).RepositoryID }),
		"revision":   uuid(func(s interface{}) int { return s.(*model.CheckoutRevisionEvent).RevisionID }),
	})
	fields(model.TypenameRejectRevisionNotificationEvent, map[string]execution.FieldResolve{
		"repository": uuid(func(s interface{}) int { return s.(*model.RejectRevisionEvent).RepositoryID }),
		"revision":   uuid(func(s interface{}) int { return s.(*model.RejectRevisionEvent).RevisionID }),
	})
	fields(model.TypenameCreateCommentNotificationEvent, map[string]execution.FieldResolve{
		"thread": thread(func(s interface{}) int { return s.(*model.CreateCommentEvent).ThreadID }),
		"comment": on(func(ctx context.Context, event *model.CreateCommentEvent, _ map[string]interface{}) (interface{}, error) {
			return r.related(ctx, event.CommentID, model.TypenameComment)
		}),
	})
	fields(model.TypenameCreateEntityNotificationEvent, map[string]execution.FieldResolve{
		"entity": uuid(func(s interface{}) int { return s.(*model.CreateEntityEvent).EntityID }),
	})
	for _, typename := range []model.Typename{
		model.TypenameCreateEntityLinkNotificationEvent,
		model.TypenameRemoveEntityLinkNotificationEvent,
	} {
		fields(typename, map[string]execution.FieldResolve{
			"parent": uuid(func(s interface{}) int { return s.(linkEvent).Link().ParentID }),
			"child":  uuid(func(s interface{}) int { return s.(linkEvent).Link().ChildID }),
		})
	}
	for _, typename := range []model.Typename{
		model.TypenameCreateTaxonomyLinkNotificationEvent,
		model.TypenameRemoveTaxonomyLinkNotificationEvent,
	} {
		fields(typename, map[string]execution.FieldResolve{
			"parent": term(func(s interface{}) *int { return &s.(linkEvent).Link().ParentID }),
			"child":  uuid(func(s interface{}) int { return s.(linkEvent).Link().ChildID }),
		})
	}
	fields(model.TypenameCreateEntityRevisionNotificationEvent, map[string]execution.FieldResolve{
		"entity":         uuid(func(s interface{}) int { return s.(*model.CreateEntityRevisionEvent).EntityID }),
		"entityRevision": uuid(func(s interface{}) int { return s.(*model.CreateEntityRevisionEvent).EntityRevisionID }),
	})
	fields(model.TypenameCreateTaxonomyTermNotificationEvent, map[string]execution.FieldResolve{
		"taxonomyTerm": term(func(s interface{}) *int { return &s.(*model.CreateTaxonomyTermEvent).TaxonomyTermID }),
	})
	fields(model.TypenameSetTaxonomyTermNotificationEvent, map[string]execution.FieldResolve{
		"taxonomyTerm": term(func(s interface{}) *int { return &s.(*model.SetTaxonomyTermEvent).TaxonomyTermID }),
	})
	fields(model.TypenameSetTaxonomyParentNotificationEvent, map[string]execution.FieldResolve{
		"previousParent": term(func(s interface{}) *int { return s.(*model.SetTaxonomyParentEvent).PreviousParentID }),
		"parent":         term(func(s interface{}) *int { return s.(*model.SetTaxonomyParentEvent).ParentID }),
		"child":          term(func(s interface{}) *int { return &s.(*model.SetTaxonomyParentEvent).ChildID }),
	})
	fields(model.TypenameCreateThreadNotificationEvent, map[string]execution.FieldResolve{
		"object": uuid(func(s interface{}) int { return s.(*model.CreateThreadEvent).ObjectID }),
		"thread": thread(func(s interface{}) int { return s.(*model.CreateThreadEvent).ThreadID }),
	})
	fields(model.TypenameSetThreadStateNotificationEvent, map[string]execution.FieldResolve{
		"thread": thread(func(s interface{}) int { return s.(*model.SetThreadStateEvent).ThreadID }),
	})
	fields(model.TypenameSetUuidStateNotificationEvent, map[string]execution.FieldResolve{
		"object": uuid(func(s interface{}) int { return s.(*model.SetUuidStateEvent).ObjectID }),
	})
	fields(model.TypenameSetLicenseNotificationEvent, map[string]execution.FieldResolve{
		"repository": uuid(func(s interface{}) int { return s.(*model.SetLicenseEvent).RepositoryID }),
	})
}

// notifications lists the notifications of the calling user.
func (r *Resolver) notifications(ctx context.Context, source interface{}, args map[string]interface{}) (interface{}, error) {
	identity := auth.FromContext(ctx)
	if err := r.policy.Authorize(identity, auth.PermissionReadNotifications); err != nil {
		return nil, err
	}
	if identity.UserID == nil {
		return nil, errors.Unauthenticated("notifications are only available to users")
	}
	var in notificationsArgs
	if err := schemabuilder.BindArgs(args, &in); err != nil {
		return nil, err
	}
	feed, err := r.sources.Serlo.GetNotifications(ctx, *identity.UserID)
	if err != nil {
		return nil, err
	}
	var notifications []*model.Notification
	if feed != nil {
		notifications = make([]*model.Notification, 0, len(feed.Notifications))
		for i := range feed.Notifications {
			n := &feed.Notifications[i]
			if in.Unread != nil && n.Unread != *in.Unread {
				continue
			}
			notifications = append(notifications, n)
		}
	}
	return connection.Resolve(notifications, in.Args, func(n *model.Notification) string {
		return strconv.Itoa(n.ID)
	})
}

// fetchEvent resolves a notification event. Events of an unknown type resolve to nil so a single
// one never fails a whole notification feed.
func (r *Resolver) fetchEvent(ctx context.Context, id int) (model.NotificationEvent, error) {
	payload, err := r.sources.Serlo.GetNotificationEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	event, err := model.DecodeEvent(payload)
	if err != nil || event == nil {
		return nil, err
	}
	if unsupported, ok := event.(*model.UnsupportedEvent); ok {
		r.logger.Warn("unsupported notification event",
			zap.Int("id", id),
			zap.String("typename", unsupported.Type))
		return nil, nil
	}
	return event, nil
}

func (r *Resolver) eventThread(ctx context.Context, firstCommentID int) (*model.Thread, error) {
	if selectsOnlyID(ctx) {
		return &model.Thread{FirstCommentID: firstCommentID}, nil
	}
	return r.sources.Comments.GetThread(ctx, firstCommentID)
}
