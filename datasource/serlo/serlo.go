// Package serlo implements the serlo data source on top of database layer messages.
package serlo

import (
	"context"
	"encoding/json"

	"github.com/shyptr/serlo-gateway/datasource"
	"github.com/shyptr/serlo-gateway/datasource/databaselayer"
	"github.com/shyptr/serlo-gateway/model"
)

const (
	MessageUUID                 = "UuidQuery"
	MessageAlias                = "AliasQuery"
	MessageLicense              = "LicenseQuery"
	MessageEvent                = "EventQuery"
	MessageNotifications        = "NotificationsQuery"
	MessageSetNotificationState = "NotificationSetStateMutation"
)

type DataSource struct {
	client *databaselayer.Client
}

var _ datasource.Serlo = (*DataSource)(nil)

func New(client *databaselayer.Client) *DataSource {
	return &DataSource{client: client}
}

func (d *DataSource) payload(ctx context.Context, messageType string, id int) (model.Payload, error) {
	var reply json.RawMessage
	found, err := d.client.Do(ctx, messageType, map[string]int{"id": id}, &reply)
	if err != nil || !found {
		return nil, err
	}
	payload := model.Payload(reply)
	if payload.IsNull() {
		return nil, nil
	}
	return payload, nil
}

func (d *DataSource) GetUUID(ctx context.Context, id int) (model.Payload, error) {
	return d.payload(ctx, MessageUUID, id)
}

func (d *DataSource) GetNotificationEvent(ctx context.Context, id int) (model.Payload, error) {
	return d.payload(ctx, MessageEvent, id)
}

func (d *DataSource) GetAlias(ctx context.Context, instance model.Instance, path string) (*model.Alias, error) {
	var alias *model.Alias
	request := struct {
		Instance model.Instance `json:"instance"`
		Path     string         `json:"path"`
	}{instance, path}
	if _, err := d.client.Do(ctx, MessageAlias, request, &alias); err != nil {
		return nil, err
	}
	return alias, nil
}

func (d *DataSource) GetLicense(ctx context.Context, id int) (*model.License, error) {
	var license *model.License
	if _, err := d.client.Do(ctx, MessageLicense, map[string]int{"id": id}, &license); err != nil {
		return nil, err
	}
	return license, nil
}

func (d *DataSource) GetNotifications(ctx context.Context, userID int) (*model.Notifications, error) {
	var notifications *model.Notifications
	if _, err := d.client.Do(ctx, MessageNotifications, map[string]int{"userId": userID}, &notifications); err != nil {
		return nil, err
	}
	if notifications != nil && notifications.UserID == 0 {
		notifications.UserID = userID
	}
	return notifications, nil
}

func (d *DataSource) SetNotificationState(ctx context.Context, state model.NotificationState) error {
	return d.client.Mutate(ctx, MessageSetNotificationState, state, nil)
}
