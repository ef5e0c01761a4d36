package databaselayer

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/shyptr/serlo-gateway/datasource"
)

// StatusHeader carries the HTTP-like status of a reply. Replies without it succeeded.
const StatusHeader = "Serlo-Status"

// NATSTransport sends messages as NATS requests on "<prefix>.<message type>". The message
// payload is the request body.
type NATSTransport struct {
	conn    *nats.Conn
	prefix  string
	timeout time.Duration
}

func NewNATSTransport(conn *nats.Conn, prefix string, timeout time.Duration) *NATSTransport {
	return &NATSTransport{conn: conn, prefix: prefix, timeout: timeout}
}

func (t *NATSTransport) Subject(messageType string) string {
	return t.prefix + "." + messageType
}

func (t *NATSTransport) Send(ctx context.Context, message Message) ([]byte, error) {
	if t.conn == nil || !t.conn.IsConnected() {
		return nil, fmt.Errorf("nats: not connected")
	}
	data, err := json.Marshal(message.Payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	if _, ok := ctx.Deadline(); !ok && t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	request := nats.NewMsg(t.Subject(message.Type))
	request.Data = data
	reply, err := t.conn.RequestMsgWithContext(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("nats request to %s: %w", request.Subject, err)
	}
	if status := reply.Header.Get(StatusHeader); status != "" {
		code, err := strconv.Atoi(status)
		if err != nil {
			return nil, fmt.Errorf("nats reply: invalid status %q", status)
		}
		switch {
		case code == 404:
			return nil, datasource.ErrNotFound
		case code >= 300:
			return nil, &datasource.StatusError{StatusCode: code, Body: string(reply.Data)}
		}
	}
	return reply.Data, nil
}
