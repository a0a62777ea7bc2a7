package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Load reads the configuration from the environment
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile reads path, when given, and then the environment. Environment
// values win over file values.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("project_name", "heroes")
	v.SetDefault("version", "0.1.0")
	v.SetDefault("description", "Heroes backend")
	v.SetDefault("debug", false)

	// keys without a default are invisible to AutomaticEnv on Unmarshal
	v.SetDefault("secret_key", "")
	v.SetDefault("access_token_expire_minutes", 60*24*8)
	v.SetDefault("refresh_token_expire_minutes", 60*24*28)
	v.SetDefault("security.bcrypt_rounds", 12)

	v.SetDefault("api_v1_prefix", "/api/v1")
	v.SetDefault("backend_cors_origins", "")
	v.SetDefault("allowed_hosts", "*")
	v.SetDefault("http_addr", ":8000")
	v.SetDefault("shutdown_timeout", "10s")

	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.dsn", "file::memory:?cache=shared")

	v.SetDefault("first_superuser.email", "")
	v.SetDefault("first_superuser.password", "")

	v.SetDefault("log_level", "info")
}
