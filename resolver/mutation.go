package resolver

import (
	"context"

	"github.com/shyptr/serlo-gateway/auth"
	"github.com/shyptr/serlo-gateway/errors"
	"github.com/shyptr/serlo-gateway/execution"
	"github.com/shyptr/serlo-gateway/model"
	"github.com/shyptr/serlo-gateway/schemabuilder"
	"go.uber.org/zap"
)

type setNotificationStateArgs struct {
	Input struct {
		IDs    []int `graphql:"id" validate:"dive,gt=0"`
		Unread bool  `graphql:"unread"`
	} `graphql:"input"`
}

type setNotificationsArgs struct {
	Input struct {
		UserID        int `graphql:"userId" validate:"gt=0"`
		Notifications []struct {
			ID      int  `graphql:"id" validate:"gt=0"`
			Unread  bool `graphql:"unread"`
			EventID int  `graphql:"eventId" validate:"gt=0"`
		} `graphql:"notifications" validate:"dive"`
	} `graphql:"input"`
}

type setNotificationStateResponse struct {
	Success bool `json:"success"`
}

func (r *Resolver) registerMutations(build *schemabuilder.Schema) {
	mutation := build.Mutation()
	mutation.FieldFunc("setNotificationState", r.setNotificationState,
		schemabuilder.Chain(r.authorize(auth.PermissionSetNotificationState)))
	mutation.FieldFunc("_setNotifications", r.setNotifications,
		schemabuilder.Chain(r.authorize(auth.PermissionSetNotifications)))
	mutation.FieldFunc("_removeUuid", r.removeUUID,
		schemabuilder.Chain(r.authorize(auth.PermissionRemoveUUID)))
}

// authorize runs the policy check before the resolver it wraps.
func (r *Resolver) authorize(permission auth.Permission) execution.ResolveChain {
	return func(next execution.FieldResolve) execution.FieldResolve {
		return func(ctx context.Context, source interface{}, args map[string]interface{}) (interface{}, error) {
			identity := auth.FromContext(ctx)
			if err := r.policy.Authorize(identity, permission); err != nil {
				r.logger.Info("unauthorized",
					zap.String("permission", string(permission)),
					zap.Error(err))
				return nil, err
			}
			return next(ctx, source, args)
		}
	}
}

func (r *Resolver) setNotificationState(ctx context.Context, source interface{}, args map[string]interface{}) (interface{}, error) {
	var in setNotificationStateArgs
	if err := schemabuilder.BindArgs(args, &in); err != nil {
		return nil, err
	}
	identity := auth.FromContext(ctx)
	if identity == nil || identity.UserID == nil {
		return nil, errors.Unauthenticated("setNotificationState requires a user")
	}
	err := r.sources.Serlo.SetNotificationState(ctx, model.NotificationState{
		UserID: *identity.UserID,
		IDs:    in.Input.IDs,
		Unread: in.Input.Unread,
	})
	if err != nil {
		return nil, err
	}
	return &setNotificationStateResponse{Success: true}, nil
}

func (r *Resolver) setNotifications(ctx context.Context, source interface{}, args map[string]interface{}) (interface{}, error) {
	var in setNotificationsArgs
	if err := schemabuilder.BindArgs(args, &in); err != nil {
		return nil, err
	}
	notifications := model.Notifications{
		UserID:        in.Input.UserID,
		Notifications: make([]model.Notification, 0, len(in.Input.Notifications)),
	}
	for _, n := range in.Input.Notifications {
		notifications.Notifications = append(notifications.Notifications, model.Notification{
			ID:      n.ID,
			Unread:  n.Unread,
			EventID: n.EventID,
		})
	}
	if err := r.admin.SetNotifications(ctx, notifications); err != nil {
		return nil, err
	}
	return true, nil
}

func (r *Resolver) removeUUID(ctx context.Context, source interface{}, args map[string]interface{}) (interface{}, error) {
	var in idArgs
	if err := schemabuilder.BindArgs(args, &in); err != nil {
		return nil, err
	}
	if err := r.admin.RemoveUUID(ctx, in.ID); err != nil {
		return nil, err
	}
	return true, nil
}
