// Package datasourcetest provides testify mocks of the data source interfaces.
package datasourcetest

import (
	"context"

	"github.com/shyptr/serlo-gateway/datasource"
	"github.com/shyptr/serlo-gateway/model"
	"github.com/stretchr/testify/mock"
)

type Serlo struct {
	mock.Mock
}

var _ datasource.Serlo = (*Serlo)(nil)

func (m *Serlo) GetUUID(ctx context.Context, id int) (model.Payload, error) {
	args := m.Called(ctx, id)
	payload, _ := args.Get(0).(model.Payload)
	return payload, args.Error(1)
}

func (m *Serlo) GetAlias(ctx context.Context, instance model.Instance, path string) (*model.Alias, error) {
	args := m.Called(ctx, instance, path)
	alias, _ := args.Get(0).(*model.Alias)
	return alias, args.Error(1)
}

func (m *Serlo) GetLicense(ctx context.Context, id int) (*model.License, error) {
	args := m.Called(ctx, id)
	license, _ := args.Get(0).(*model.License)
	return license, args.Error(1)
}

func (m *Serlo) GetNotifications(ctx context.Context, userID int) (*model.Notifications, error) {
	args := m.Called(ctx, userID)
	notifications, _ := args.Get(0).(*model.Notifications)
	return notifications, args.Error(1)
}

func (m *Serlo) GetNotificationEvent(ctx context.Context, id int) (model.Payload, error) {
	args := m.Called(ctx, id)
	payload, _ := args.Get(0).(model.Payload)
	return payload, args.Error(1)
}

func (m *Serlo) SetNotificationState(ctx context.Context, state model.NotificationState) error {
	return m.Called(ctx, state).Error(0)
}

type Comments struct {
	mock.Mock
}

var _ datasource.CommentSource = (*Comments)(nil)

func (m *Comments) GetThreadIDs(ctx context.Context, id int) ([]int, error) {
	args := m.Called(ctx, id)
	ids, _ := args.Get(0).([]int)
	return ids, args.Error(1)
}

func (m *Comments) GetThread(ctx context.Context, firstCommentID int) (*model.Thread, error) {
	args := m.Called(ctx, firstCommentID)
	thread, _ := args.Get(0).(*model.Thread)
	return thread, args.Error(1)
}

type CacheAdmin struct {
	mock.Mock
}

var _ datasource.CacheAdmin = (*CacheAdmin)(nil)

func (m *CacheAdmin) RemoveUUID(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *CacheAdmin) SetNotifications(ctx context.Context, notifications model.Notifications) error {
	return m.Called(ctx, notifications).Error(0)
}
