package comments_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shyptr/serlo-gateway/datasource"
	"github.com/shyptr/serlo-gateway/datasource/comments"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) *comments.Client {
	mux := http.NewServeMux()
	mux.HandleFunc("/threads/1855", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"firstCommentIds": [27778, 27801]}`))
	})
	mux.HandleFunc("/thread/27778", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"commentPayloads": [
			{"id": 27779, "parentId": 27778, "content": "reply", "createdAt": "2014-03-01T20:45:56Z", "updatedAt": "2014-03-01T20:45:56Z", "authorId": 1},
			{"id": 27778, "parentId": 1855, "title": "Question", "content": "root", "archived": true, "createdAt": "2014-01-01T20:45:56Z", "updatedAt": "2014-02-01T20:45:56Z", "authorId": 2}
		]}`))
	})
	mux.HandleFunc("/thread/27800", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"commentPayloads": [{"id": 27801, "parentId": 1855}]}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return comments.New(&datasource.HTTPClient{BaseURL: server.URL}, nil)
}

func TestGetThreadIDs(t *testing.T) {
	client := newClient(t)
	ids, err := client.GetThreadIDs(context.Background(), 1855)
	require.NoError(t, err)
	assert.Equal(t, []int{27778, 27801}, ids)

	ids, err = client.GetThreadIDs(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestGetThread(t *testing.T) {
	client := newClient(t)
	thread, err := client.GetThread(context.Background(), 27778)
	require.NoError(t, err)
	require.NotNil(t, thread)

	assert.Equal(t, "Question", *thread.Title())
	assert.True(t, thread.Archived())
	assert.Equal(t, 1855, thread.ObjectID())
	assert.Equal(t, time.Date(2014, 1, 1, 20, 45, 56, 0, time.UTC), thread.CreatedAt())
	assert.Equal(t, time.Date(2014, 3, 1, 20, 45, 56, 0, time.UTC), thread.UpdatedAt())

	missing, err := client.GetThread(context.Background(), 1)
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = client.GetThread(context.Background(), 27800)
	assert.Error(t, err)
}
