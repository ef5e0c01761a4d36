// Package connection windows fully fetched, ordered node lists into cursor based connections.
//
// None of the backends behind the gateway paginate server side, so every list is fetched
// completely and the requested window is cut out in memory. Cursors are stable node identities
// (usually the stringified id), never offsets.
package connection

import (
	"github.com/shyptr/serlo-gateway/errors"
)

// Connection conforms to the GraphQL Connection type in the Relay Pagination spec.
type Connection[T any] struct {
	Edges      []Edge[T] `json:"edges"`
	Nodes      []T       `json:"nodes"`
	TotalCount int       `json:"totalCount"`
	PageInfo   PageInfo  `json:"pageInfo"`
}

// PageInfo contains information for pagination on a connection type.
type PageInfo struct {
	HasNextPage     bool    `json:"hasNextPage"`
	HasPreviousPage bool    `json:"hasPreviousPage"`
	StartCursor     *string `json:"startCursor"`
	EndCursor       *string `json:"endCursor"`
}

// Edge consists of a node paired with its cursor.
type Edge[T any] struct {
	Cursor string `json:"cursor"`
	Node   T      `json:"node"`
}

// Args conform to the pagination arguments as specified by the Relay Spec for Connection
// types. https://facebook.github.io/relay/graphql/connections.htm#sec-Arguments
type Args struct {
	// first: n
	First *int `graphql:"first"`
	// last: n
	Last *int `graphql:"last"`
	// after: cursor
	After *string `graphql:"after"`
	// before: cursor
	Before *string `graphql:"before"`
}

// Resolve cuts the window selected by args out of nodes. cursor must return a unique, stable
// identity per node.
func Resolve[T any](nodes []T, args Args, cursor func(T) string) (*Connection[T], error) {
	if args.First != nil && args.Last != nil {
		return nil, errors.BadUserInput("cannot use both first and last together")
	}
	if (args.First != nil && *args.First < 0) || (args.Last != nil && *args.Last < 0) {
		return nil, errors.BadUserInput("first/last cannot be a negative integer")
	}

	cursors := make([]string, len(nodes))
	for i, node := range nodes {
		cursors[i] = cursor(node)
	}

	start, end := 0, len(nodes)
	if args.After != nil {
		i := getCursorIndex(cursors, *args.After)
		if i == -1 {
			return nil, errors.BadUserInput("cursor %q given in after does not match any node", *args.After)
		}
		start = i + 1
	}
	if args.Before != nil {
		i := getCursorIndex(cursors, *args.Before)
		if i == -1 {
			return nil, errors.BadUserInput("cursor %q given in before does not match any node", *args.Before)
		}
		end = i
	}
	if end < start {
		end = start
	}

	if args.First != nil && end-start > *args.First {
		end = start + *args.First
	}
	if args.Last != nil && end-start > *args.Last {
		start = end - *args.Last
	}

	c := &Connection[T]{
		Edges:      make([]Edge[T], 0, end-start),
		Nodes:      make([]T, 0, end-start),
		TotalCount: len(nodes),
		PageInfo: PageInfo{
			HasNextPage:     end < len(nodes),
			HasPreviousPage: start > 0,
		},
	}
	for i := start; i < end; i++ {
		c.Edges = append(c.Edges, Edge[T]{Cursor: cursors[i], Node: nodes[i]})
		c.Nodes = append(c.Nodes, nodes[i])
	}
	if len(c.Edges) > 0 {
		first, last := c.Edges[0].Cursor, c.Edges[len(c.Edges)-1].Cursor
		c.PageInfo.StartCursor = &first
		c.PageInfo.EndCursor = &last
	}
	return c, nil
}

func getCursorIndex(cursors []string, cursor string) int {
	for i, val := range cursors {
		if val == cursor {
			return i
		}
	}
	return -1
}

// Map converts the nodes of a window, keeping cursors, totalCount and pageInfo. Nodes for which
// fn reports false are dropped from the window.
func Map[T, U any](c *Connection[T], fn func(T) (U, bool)) *Connection[U] {
	res := &Connection[U]{
		Edges:      make([]Edge[U], 0, len(c.Edges)),
		Nodes:      make([]U, 0, len(c.Nodes)),
		TotalCount: c.TotalCount,
		PageInfo:   c.PageInfo,
	}
	for _, edge := range c.Edges {
		node, ok := fn(edge.Node)
		if !ok {
			continue
		}
		res.Edges = append(res.Edges, Edge[U]{Cursor: edge.Cursor, Node: node})
		res.Nodes = append(res.Nodes, node)
	}
	return res
}
