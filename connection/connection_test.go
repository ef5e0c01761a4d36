package connection_test

import (
	"strconv"
	"testing"

	"github.com/shyptr/serlo-gateway/connection"
	"github.com/shyptr/serlo-gateway/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var nodes = []int{1, 2, 3, 4, 5}

func cursor(n int) string { return strconv.Itoa(n) }

func intPtr(i int) *int { return &i }

func strPtr(s string) *string { return &s }

func nodesOf(c *connection.Connection[int]) []int {
	res := make([]int, 0, len(c.Edges))
	for _, edge := range c.Edges {
		res = append(res, edge.Node)
	}
	return res
}

func TestResolve(t *testing.T) {
	t.Run("no arguments returns every node", func(t *testing.T) {
		c, err := connection.Resolve(nodes, connection.Args{}, cursor)
		require.NoError(t, err)
		assert.Equal(t, nodes, nodesOf(c))
		assert.Equal(t, nodes, c.Nodes)
		assert.False(t, c.PageInfo.HasNextPage)
		assert.False(t, c.PageInfo.HasPreviousPage)
		assert.Equal(t, "1", *c.PageInfo.StartCursor)
		assert.Equal(t, "5", *c.PageInfo.EndCursor)
	})

	t.Run("first", func(t *testing.T) {
		c, err := connection.Resolve(nodes, connection.Args{First: intPtr(2)}, cursor)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2}, nodesOf(c))
		assert.True(t, c.PageInfo.HasNextPage)
		assert.Equal(t, 5, c.TotalCount)
	})

	t.Run("after and first", func(t *testing.T) {
		c, err := connection.Resolve(nodes, connection.Args{After: strPtr("2"), First: intPtr(2)}, cursor)
		require.NoError(t, err)
		assert.Equal(t, []int{3, 4}, nodesOf(c))
		assert.True(t, c.PageInfo.HasNextPage)
		assert.True(t, c.PageInfo.HasPreviousPage)
		assert.Equal(t, 5, c.TotalCount)
	})

	t.Run("after near the end", func(t *testing.T) {
		c, err := connection.Resolve(nodes, connection.Args{After: strPtr("4"), First: intPtr(2)}, cursor)
		require.NoError(t, err)
		assert.Equal(t, []int{5}, nodesOf(c))
		assert.False(t, c.PageInfo.HasNextPage)
	})

	t.Run("before and last", func(t *testing.T) {
		c, err := connection.Resolve(nodes, connection.Args{Before: strPtr("4"), Last: intPtr(2)}, cursor)
		require.NoError(t, err)
		assert.Equal(t, []int{2, 3}, nodesOf(c))
		assert.True(t, c.PageInfo.HasNextPage)
		assert.True(t, c.PageInfo.HasPreviousPage)
	})

	t.Run("after and before", func(t *testing.T) {
		c, err := connection.Resolve(nodes, connection.Args{After: strPtr("1"), Before: strPtr("4")}, cursor)
		require.NoError(t, err)
		assert.Equal(t, []int{2, 3}, nodesOf(c))
	})

	t.Run("empty window has no cursors", func(t *testing.T) {
		c, err := connection.Resolve(nodes, connection.Args{After: strPtr("5")}, cursor)
		require.NoError(t, err)
		assert.Empty(t, c.Edges)
		assert.Nil(t, c.PageInfo.StartCursor)
		assert.Nil(t, c.PageInfo.EndCursor)
		assert.Equal(t, 5, c.TotalCount)
	})

	t.Run("first larger than the list", func(t *testing.T) {
		c, err := connection.Resolve(nodes, connection.Args{First: intPtr(10)}, cursor)
		require.NoError(t, err)
		assert.Len(t, c.Edges, 5)
		assert.False(t, c.PageInfo.HasNextPage)
	})

	t.Run("first and last together are rejected", func(t *testing.T) {
		_, err := connection.Resolve(nodes, connection.Args{First: intPtr(1), Last: intPtr(1)}, cursor)
		assert.True(t, errors.Is(err, errors.CodeBadUserInput))
	})

	t.Run("negative first is rejected", func(t *testing.T) {
		_, err := connection.Resolve(nodes, connection.Args{First: intPtr(-1)}, cursor)
		assert.True(t, errors.Is(err, errors.CodeBadUserInput))
	})

	t.Run("unknown cursor is rejected", func(t *testing.T) {
		_, err := connection.Resolve(nodes, connection.Args{After: strPtr("42")}, cursor)
		assert.True(t, errors.Is(err, errors.CodeBadUserInput))
		_, err = connection.Resolve(nodes, connection.Args{Before: strPtr("42")}, cursor)
		assert.True(t, errors.Is(err, errors.CodeBadUserInput))
	})
}

func TestMap(t *testing.T) {
	c, err := connection.Resolve(nodes, connection.Args{After: strPtr("1"), First: intPtr(3)}, cursor)
	require.NoError(t, err)

	mapped := connection.Map(c, func(n int) (string, bool) {
		return "node" + strconv.Itoa(n), n != 3
	})
	assert.Equal(t, []string{"node2", "node4"}, mapped.Nodes)
	assert.Equal(t, "4", mapped.Edges[1].Cursor)
	assert.Equal(t, 5, mapped.TotalCount)
	assert.Equal(t, c.PageInfo, mapped.PageInfo)
}
