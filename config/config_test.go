package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	c, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, ":3001", c.Server.Addr)
	assert.True(t, c.Server.GraphiQL)
	assert.Equal(t, "http", c.DatabaseLayer.Transport)
	assert.Equal(t, 10000, c.Cache.Size)
	assert.Equal(t, time.Hour, c.Cache.TTL)
	assert.EqualValues(t, 2, c.Comments.Retries)
}

func TestLoadFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "gateway.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
server:
  addr: ":9000"
  graphiql: false
databaseLayer:
  transport: nats
  natsUrl: nats://nats:4222
  subject: serlo.db
  timeout: 3s
cache:
  ttl: 5m
auth:
  services:
    - name: serlo.org
      secret: serlo-secret
  userSecret: user-secret
`), 0o600))

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(flags)
	require.NoError(t, flags.Parse([]string{"--config", file}))

	c, err := Load(flags)
	require.NoError(t, err)
	assert.Equal(t, ":9000", c.Server.Addr)
	assert.False(t, c.Server.GraphiQL)
	assert.Equal(t, "nats", c.DatabaseLayer.Transport)
	assert.Equal(t, "serlo.db", c.DatabaseLayer.Subject)
	assert.Equal(t, 3*time.Second, c.DatabaseLayer.Timeout)
	assert.Equal(t, 5*time.Minute, c.Cache.TTL)
	assert.Equal(t, []ServiceSecret{{Name: "serlo.org", Secret: "serlo-secret"}}, c.Auth.Services)
	assert.Equal(t, "user-secret", c.Auth.UserSecret)
}

func TestLoadPrecedence(t *testing.T) {
	t.Setenv("SERLO_GATEWAY_SERVER_ADDR", ":7000")
	t.Setenv("SERLO_GATEWAY_LOG_LEVEL", "debug")

	c, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, ":7000", c.Server.Addr)
	assert.Equal(t, "debug", c.Log.Level)

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(flags)
	require.NoError(t, flags.Parse([]string{"--server.addr", ":8000"}))

	c, err = Load(flags)
	require.NoError(t, err)
	assert.Equal(t, ":8000", c.Server.Addr)
	assert.Equal(t, "debug", c.Log.Level)
}

func TestLoadInvalid(t *testing.T) {
	t.Run("unknown transport", func(t *testing.T) {
		t.Setenv("SERLO_GATEWAY_DATABASELAYER_TRANSPORT", "grpc")
		_, err := Load(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Config.DatabaseLayer.Transport fails oneof")
	})

	t.Run("unknown log level", func(t *testing.T) {
		t.Setenv("SERLO_GATEWAY_LOG_LEVEL", "verbose")
		_, err := Load(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Config.Log.Level fails oneof")
	})

	t.Run("service without secret", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "gateway.yaml")
		require.NoError(t, os.WriteFile(file, []byte("auth:\n  services:\n    - name: serlo.org\n"), 0o600))
		flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
		BindFlags(flags)
		require.NoError(t, flags.Parse([]string{"--config", file}))
		_, err := Load(flags)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Config.Auth.Services[0].Secret fails required")
	})

	t.Run("missing file", func(t *testing.T) {
		flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
		BindFlags(flags)
		require.NoError(t, flags.Parse([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")}))
		_, err := Load(flags)
		require.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	c, err := Load(nil)
	require.NoError(t, err)

	c.Cache.Size = 0
	err = c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Config.Cache.Size fails gt")
}
