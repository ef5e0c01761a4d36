// Package config loads the gateway configuration from an optional file, SERLO_GATEWAY_*
// environment variables and command line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const EnvPrefix = "SERLO_GATEWAY"

type Config struct {
	Server        Server        `mapstructure:"server"`
	Log           Log           `mapstructure:"log"`
	DatabaseLayer DatabaseLayer `mapstructure:"databaseLayer"`
	Comments      Comments      `mapstructure:"comments"`
	Cache         Cache         `mapstructure:"cache"`
	Auth          Auth          `mapstructure:"auth"`
}

type Server struct {
	Addr            string        `mapstructure:"addr" validate:"required"`
	GraphiQL        bool          `mapstructure:"graphiql"`
	ReadTimeout     time.Duration `mapstructure:"readTimeout" validate:"gt=0"`
	WriteTimeout    time.Duration `mapstructure:"writeTimeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdownTimeout" validate:"gt=0"`
}

type Log struct {
	Level       string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Development bool   `mapstructure:"development"`
}

type DatabaseLayer struct {
	Transport string        `mapstructure:"transport" validate:"oneof=http nats"`
	URL       string        `mapstructure:"url" validate:"omitempty,url"`
	NATSURL   string        `mapstructure:"natsUrl" validate:"required_if=Transport nats"`
	Subject   string        `mapstructure:"subject" validate:"required_if=Transport nats"`
	Timeout   time.Duration `mapstructure:"timeout" validate:"gt=0"`
	Retries   uint64        `mapstructure:"retries"`
}

type Comments struct {
	URL     string        `mapstructure:"url" validate:"required,url"`
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`
	Retries uint64        `mapstructure:"retries"`
}

type Cache struct {
	Size int           `mapstructure:"size" validate:"gt=0"`
	TTL  time.Duration `mapstructure:"ttl" validate:"gt=0"`
}

// Auth holds the HS256 secrets. Services is a list rather than a map because service names
// contain dots, which viper would split into nested keys.
type Auth struct {
	Services   []ServiceSecret `mapstructure:"services" validate:"dive"`
	UserSecret string          `mapstructure:"userSecret"`
}

type ServiceSecret struct {
	Name   string `mapstructure:"name" validate:"required"`
	Secret string `mapstructure:"secret" validate:"required"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":3001")
	v.SetDefault("server.graphiql", true)
	v.SetDefault("server.readTimeout", 10*time.Second)
	v.SetDefault("server.writeTimeout", 30*time.Second)
	v.SetDefault("server.shutdownTimeout", 15*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
	v.SetDefault("databaseLayer.transport", "http")
	v.SetDefault("databaseLayer.url", "http://localhost:8080")
	v.SetDefault("databaseLayer.natsUrl", "nats://localhost:4222")
	v.SetDefault("databaseLayer.subject", "serlo.database-layer")
	v.SetDefault("databaseLayer.timeout", 10*time.Second)
	v.SetDefault("databaseLayer.retries", 2)
	v.SetDefault("comments.url", "http://localhost:8081")
	v.SetDefault("comments.timeout", 10*time.Second)
	v.SetDefault("comments.retries", 2)
	v.SetDefault("cache.size", 10000)
	v.SetDefault("cache.ttl", time.Hour)
}

// BindFlags registers the command line flags of the most commonly overridden settings.
func BindFlags(flags *pflag.FlagSet) {
	flags.String("config", "", "configuration file (yaml, json or toml)")
	flags.String("server.addr", ":3001", "address the GraphQL server listens on")
	flags.Bool("server.graphiql", true, "serve GraphiQL at /graphiql")
	flags.String("log.level", "info", "log level: debug, info, warn or error")
	flags.Bool("log.development", false, "human readable development logging")
	flags.String("databaseLayer.transport", "http", "database layer transport: http or nats")
}

// Load reads the configuration. flags may be nil; only flags the user changed override file and
// environment values.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("config: bind flags: %w", err)
		}
	}
	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", file, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return fmt.Errorf("config: %w", err)
	}
	msgs := make([]string, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		msgs = append(msgs, fmt.Sprintf("%s fails %s", fieldErr.Namespace(), fieldErr.Tag()))
	}
	return fmt.Errorf("config: invalid configuration: %s", strings.Join(msgs, "; "))
}
