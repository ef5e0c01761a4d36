// Package comments is the client of the comments service.
package comments

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/shyptr/serlo-gateway/datasource"
	"github.com/shyptr/serlo-gateway/model"
)

type Client struct {
	http    *datasource.HTTPClient
	metrics *datasource.Metrics
}

var _ datasource.CommentSource = (*Client)(nil)

func New(client *datasource.HTTPClient, metrics *datasource.Metrics) *Client {
	return &Client{http: client, metrics: metrics}
}

func (c *Client) get(ctx context.Context, operation, path string, out interface{}) (bool, error) {
	start := time.Now()
	err := c.http.Do(ctx, http.MethodGet, path, nil, out)
	c.metrics.Observe("comments", operation, start, err)
	if errors.Is(err, datasource.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("comments: %w", err)
	}
	return true, nil
}

// GetThreadIDs returns the first comment ids of the threads attached to the uuid id, in the
// order the service lists them.
func (c *Client) GetThreadIDs(ctx context.Context, id int) ([]int, error) {
	var reply struct {
		FirstCommentIDs []int `json:"firstCommentIds"`
	}
	if _, err := c.get(ctx, "threads", fmt.Sprintf("/threads/%d", id), &reply); err != nil {
		return nil, err
	}
	return reply.FirstCommentIDs, nil
}

func (c *Client) GetThread(ctx context.Context, firstCommentID int) (*model.Thread, error) {
	var reply struct {
		CommentPayloads []*model.Comment `json:"commentPayloads"`
	}
	found, err := c.get(ctx, "thread", fmt.Sprintf("/thread/%d", firstCommentID), &reply)
	if err != nil || !found || len(reply.CommentPayloads) == 0 {
		return nil, err
	}
	thread, err := model.NewThread(firstCommentID, reply.CommentPayloads)
	if err != nil {
		return nil, fmt.Errorf("comments: %w", err)
	}
	return thread, nil
}
