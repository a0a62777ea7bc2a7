package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/goliatone/go-heroes-auth"
)

// MinSecretLength is the shortest accepted signing key, in bytes
const MinSecretLength = 32

type Database struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type Security struct {
	BcryptRounds int `mapstructure:"bcrypt_rounds"`
}

type Superuser struct {
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
}

// Config is the process configuration. It satisfies auth.Config.
type Config struct {
	ProjectName string `mapstructure:"project_name"`
	Version     string `mapstructure:"version"`
	Description string `mapstructure:"description"`
	Debug       bool   `mapstructure:"debug"`

	SecretKey                 string `mapstructure:"secret_key"`
	AccessTokenExpireMinutes  int    `mapstructure:"access_token_expire_minutes"`
	RefreshTokenExpireMinutes int    `mapstructure:"refresh_token_expire_minutes"`

	APIV1Prefix        string        `mapstructure:"api_v1_prefix"`
	BackendCORSOrigins string        `mapstructure:"backend_cors_origins"`
	AllowedHosts       string        `mapstructure:"allowed_hosts"`
	HTTPAddr           string        `mapstructure:"http_addr"`
	ShutdownTimeout    time.Duration `mapstructure:"shutdown_timeout"`

	Security       Security  `mapstructure:"security"`
	Database       Database  `mapstructure:"database"`
	FirstSuperuser Superuser `mapstructure:"first_superuser"`

	LogLevel string `mapstructure:"log_level"`
}

var _ auth.Config = (*Config)(nil)

func (c *Config) GetSigningKey() string {
	return c.SecretKey
}

func (c *Config) GetAccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenExpireMinutes) * time.Minute
}

func (c *Config) GetRefreshTokenTTL() time.Duration {
	return time.Duration(c.RefreshTokenExpireMinutes) * time.Minute
}

func (c *Config) GetBcryptCost() int {
	return c.Security.BcryptRounds
}

// CORSOrigins returns BACKEND_CORS_ORIGINS as a list
func (c *Config) CORSOrigins() []string {
	return splitList(c.BackendCORSOrigins)
}

// Hosts returns ALLOWED_HOSTS as a list
func (c *Config) Hosts() []string {
	return splitList(c.AllowedHosts)
}

// SeedSuperuser reports whether both first superuser fields are set
func (c *Config) SeedSuperuser() bool {
	return c.FirstSuperuser.Email != "" && c.FirstSuperuser.Password != ""
}

// Validate will run validation rules
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.SecretKey, validation.Required, validation.By(minBytes(MinSecretLength))),
		validation.Field(&c.AccessTokenExpireMinutes, validation.Required, validation.Min(1)),
		validation.Field(&c.RefreshTokenExpireMinutes, validation.Required, validation.Min(1),
			validation.By(greaterThan(c.AccessTokenExpireMinutes)),
		),
		validation.Field(&c.HTTPAddr, validation.Required),
		validation.Field(&c.Database),
	)
}

// Validate will run validation rules
func (d Database) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Driver, validation.Required, validation.In(DriverSQLite, DriverPostgres)),
		validation.Field(&d.DSN, validation.Required),
	)
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

func minBytes(n int) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if len(s) < n {
			return fmt.Errorf("must be at least %d bytes long", n)
		}
		return nil
	}
}

func greaterThan(floor int) validation.RuleFunc {
	return func(value any) error {
		v, _ := value.(int)
		if v <= floor {
			return errors.New("must be greater than the access token lifetime")
		}
		return nil
	}
}

func splitList(raw string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
