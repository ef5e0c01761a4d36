// Package resolver implements the GraphQL schema of the gateway on top of the data sources.
package resolver

import (
	"context"
	_ "embed"
	"fmt"
	"sort"

	"github.com/shyptr/serlo-gateway/auth"
	"github.com/shyptr/serlo-gateway/datasource"
	"github.com/shyptr/serlo-gateway/execution"
	"github.com/shyptr/serlo-gateway/schemabuilder"
	"github.com/vektah/gqlparser/v2/ast"
	"go.uber.org/zap"
)

//go:embed schema.graphql
var sdl string

// SDL returns the schema definition served by the gateway.
func SDL() string {
	return sdl
}

// Resolver holds everything field resolvers depend on. Nothing is shared through globals: the
// data sources, the cache admin and the policy are all passed in.
type Resolver struct {
	sources datasource.Sources
	admin   datasource.CacheAdmin
	policy  *auth.Policy
	logger  *zap.Logger
}

type Option func(*Resolver)

func WithLogger(logger *zap.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

func WithPolicy(policy *auth.Policy) Option {
	return func(r *Resolver) {
		r.policy = policy
	}
}

func New(sources datasource.Sources, admin datasource.CacheAdmin, options ...Option) *Resolver {
	r := &Resolver{
		sources: sources,
		admin:   admin,
		policy:  auth.DefaultPolicy(),
		logger:  zap.NewNop(),
	}
	for _, option := range options {
		option(r)
	}
	return r
}

// Schema builds the executable schema.
func (r *Resolver) Schema() (*execution.Schema, error) {
	build := schemabuilder.NewSchema(&ast.Source{Name: "schema.graphql", Input: sdl})
	build.Scalar("DateTime", execution.BuiltinScalars["DateTime"])

	r.registerUUIDs(build)
	r.registerMixins(build)
	r.registerTaxonomy(build)
	r.registerThreads(build)
	r.registerNotifications(build)
	r.registerMutations(build)
	return build.Build()
}

// on adapts a resolver of a concrete source type.
func on[T any](fn func(ctx context.Context, source T, args map[string]interface{}) (interface{}, error)) execution.FieldResolve {
	return func(ctx context.Context, source interface{}, args map[string]interface{}) (interface{}, error) {
		s, ok := source.(T)
		if !ok {
			return nil, fmt.Errorf("resolver: unexpected source %T", source)
		}
		return fn(ctx, s, args)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
