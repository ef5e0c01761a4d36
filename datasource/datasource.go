// Package datasource defines the backends the gateway reads from and the shared machinery their
// clients are built on: request metrics, retried HTTP calls and a caching decorator.
package datasource

import (
	"context"
	"errors"

	"github.com/shyptr/serlo-gateway/model"
)

// ErrNotFound is returned by transports when the backend reports that the requested object does
// not exist. Data sources translate it into a nil result.
var ErrNotFound = errors.New("datasource: not found")

// UUIDSource fetches uuid payloads. A nil payload or alias means not found.
type UUIDSource interface {
	GetUUID(ctx context.Context, id int) (model.Payload, error)
	GetAlias(ctx context.Context, instance model.Instance, path string) (*model.Alias, error)
}

type LicenseSource interface {
	GetLicense(ctx context.Context, id int) (*model.License, error)
}

type NotificationSource interface {
	GetNotifications(ctx context.Context, userID int) (*model.Notifications, error)
	GetNotificationEvent(ctx context.Context, id int) (model.Payload, error)
	SetNotificationState(ctx context.Context, state model.NotificationState) error
}

// CommentSource fetches discussions. GetThreadIDs lists the first comment ids of the threads
// attached to a uuid; GetThread returns nil if no thread starts at firstCommentID.
type CommentSource interface {
	GetThreadIDs(ctx context.Context, id int) ([]int, error)
	GetThread(ctx context.Context, firstCommentID int) (*model.Thread, error)
}

// Serlo is the primary data service.
type Serlo interface {
	UUIDSource
	LicenseSource
	NotificationSource
}

// CacheAdmin manipulates cached backend state. It backs the internal mutations.
type CacheAdmin interface {
	RemoveUUID(ctx context.Context, id int) error
	SetNotifications(ctx context.Context, notifications model.Notifications) error
}

// Sources is the collaborator bundle handed to every resolver.
type Sources struct {
	Serlo    Serlo
	Comments CommentSource
}
