package schemabuilder_test

import (
	"testing"

	"github.com/shyptr/serlo-gateway/errors"
	"github.com/shyptr/serlo-gateway/schemabuilder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pageArgs struct {
	First  *int    `graphql:"first" validate:"omitempty,min=0"`
	After  *string `graphql:"after"`
	Unread *bool   `graphql:"unread"`
	IDs    []int   `graphql:"ids" validate:"required,min=1,dive,gt=0"`
}

func TestBindArgs(t *testing.T) {
	t.Run("decodes coerced arguments", func(t *testing.T) {
		var args pageArgs
		err := schemabuilder.BindArgs(map[string]interface{}{
			"first":  int64(3),
			"after":  "10",
			"unread": true,
			"ids":    []interface{}{int64(1), int64(2)},
		}, &args)
		require.NoError(t, err)
		assert.Equal(t, 3, *args.First)
		assert.Equal(t, "10", *args.After)
		assert.True(t, *args.Unread)
		assert.Equal(t, []int{1, 2}, args.IDs)
	})

	t.Run("leaves absent arguments nil", func(t *testing.T) {
		var args pageArgs
		require.NoError(t, schemabuilder.BindArgs(map[string]interface{}{"ids": []interface{}{int64(1)}}, &args))
		assert.Nil(t, args.First)
		assert.Nil(t, args.After)
	})

	t.Run("reports validation failures as bad user input", func(t *testing.T) {
		var args pageArgs
		err := schemabuilder.BindArgs(map[string]interface{}{
			"first": int64(-1),
			"ids":   []interface{}{int64(0)},
		}, &args)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.CodeBadUserInput))
		assert.Contains(t, err.Error(), "argument first fails min")
	})

	t.Run("reports undecodable arguments as bad user input", func(t *testing.T) {
		var args pageArgs
		err := schemabuilder.BindArgs(map[string]interface{}{"ids": "nope"}, &args)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.CodeBadUserInput))
	})
}
