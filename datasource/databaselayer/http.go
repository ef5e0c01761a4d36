package databaselayer

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/shyptr/serlo-gateway/datasource"
)

// HTTPTransport posts messages to the root of the database layer's HTTP endpoint. Mutations are
// posted once, queries are retried as configured on the client.
type HTTPTransport struct {
	client *datasource.HTTPClient
}

func NewHTTPTransport(client *datasource.HTTPClient) *HTTPTransport {
	return &HTTPTransport{client: client}
}

func (t *HTTPTransport) Send(ctx context.Context, message Message) ([]byte, error) {
	do := t.client.Do
	if message.Mutation {
		do = t.client.DoOnce
	}
	var reply json.RawMessage
	if err := do(ctx, http.MethodPost, "/", message, &reply); err != nil {
		return nil, err
	}
	return reply, nil
}
