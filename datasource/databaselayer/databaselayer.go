// Package databaselayer talks to the database layer, a service answering typed messages. Each
// message is a type name plus a JSON payload; the reply is a JSON document.
package databaselayer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shyptr/serlo-gateway/datasource"
)

// Message is a request to the database layer.
type Message struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
	// Mutation marks a message that changes state. Transports deliver it at most once.
	Mutation bool `json:"-"`
}

// Transport delivers a message and returns the raw reply. A reply reporting that the object
// does not exist yields datasource.ErrNotFound.
type Transport interface {
	Send(ctx context.Context, message Message) ([]byte, error)
}

// Client sends messages over a transport and decodes the replies.
type Client struct {
	transport Transport
	metrics   *datasource.Metrics
}

func NewClient(transport Transport, metrics *datasource.Metrics) *Client {
	return &Client{transport: transport, metrics: metrics}
}

// Do sends a message of type messageType and decodes the reply into out. It reports whether the
// object exists: a not found reply is not an error.
func (c *Client) Do(ctx context.Context, messageType string, payload, out interface{}) (bool, error) {
	return c.send(ctx, Message{Type: messageType, Payload: payload}, out)
}

// Mutate sends a state changing message. It is delivered at most once.
func (c *Client) Mutate(ctx context.Context, messageType string, payload, out interface{}) error {
	_, err := c.send(ctx, Message{Type: messageType, Payload: payload, Mutation: true}, out)
	return err
}

func (c *Client) send(ctx context.Context, message Message, out interface{}) (bool, error) {
	messageType := message.Type
	start := time.Now()
	data, err := c.transport.Send(ctx, message)
	c.metrics.Observe("database-layer", messageType, start, err)
	if errors.Is(err, datasource.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("database layer: %s: %w", messageType, err)
	}
	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return false, fmt.Errorf("database layer: %s: decode reply: %w", messageType, err)
		}
	}
	return true, nil
}
