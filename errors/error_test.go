package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/shyptr/serlo-gateway/errors"
	"github.com/stretchr/testify/assert"
)

func TestWrap(t *testing.T) {
	t.Run("plain error is reported as internal", func(t *testing.T) {
		cause := stderrors.New("dial tcp 10.0.0.5:9000: connection refused")
		err := errors.Wrap(cause, []interface{}{"uuid", "author"}, errors.Location{Line: 1, Column: 3})
		assert.Equal(t, errors.InternalMessage, err.Message)
		assert.Equal(t, errors.CodeInternal, err.Code())
		assert.Same(t, cause, err.ResolverError)
		assert.Equal(t, []interface{}{"uuid", "author"}, err.Path)
		assert.Equal(t, "graphql: internal server error (1:3) path: [uuid author]", err.Error())
	})

	t.Run("internal error keeps its message", func(t *testing.T) {
		err := errors.Wrap(errors.Internal("uuid %d is a %s", 1, "User"), nil)
		assert.Equal(t, "uuid 1 is a User", err.Message)
		assert.Equal(t, errors.CodeInternal, err.Code())
	})

	t.Run("coded error exposes its code", func(t *testing.T) {
		err := errors.Wrap(fmt.Errorf("mutation: %w", errors.Forbidden("service %s may not do this", "x")), nil)
		assert.Equal(t, errors.CodeForbidden, err.Extensions["code"])
		assert.Equal(t, errors.CodeForbidden, err.Code())
	})

	t.Run("graphql errors are not wrapped twice", func(t *testing.T) {
		inner := &errors.GraphQLError{Message: "inner", Path: []interface{}{"a"}}
		err := errors.Wrap(fmt.Errorf("outer: %w", inner), []interface{}{"b"})
		assert.Same(t, inner, err)
	})
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, errors.CodeUnauthenticated, errors.CodeOf(errors.Unauthenticated("no user")))
	assert.Equal(t, errors.CodeBadUserInput, errors.CodeOf(errors.InvalidInput(stderrors.New("x"), "bad")))
	assert.Equal(t, errors.Code(""), errors.CodeOf(stderrors.New("plain")))
	assert.True(t, errors.Is(errors.BadUserInput("first and last"), errors.CodeBadUserInput))
}
