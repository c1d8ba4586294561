package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// envPrefix is the prefix for environment variables that override config
// values, e.g. FLASHDECK_SERVER_PORT overrides server.port.
const envPrefix = "FLASHDECK"

// Load configuration from environment variables and optionally a config file.
// Environment variables take precedence over values from config files.
// A .env file in the working directory is loaded first if present, so local
// development does not need exported shell variables.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	// Best effort: a missing .env file is the normal production case.
	_ = godotenv.Load()

	v := viper.New()

	setDefaults(v)

	// Optional config file (config.yaml next to the binary or in the CWD)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		// Only a parse failure is fatal; a missing file is fine.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Environment variables with FLASHDECK_ prefix, nested keys joined by _
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Keys without defaults are invisible to Unmarshal under AutomaticEnv
	// unless they are bound explicitly.
	for _, key := range []string{"database.url", "auth.jwt_secret"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers default values for settings that have a sensible
// out-of-the-box choice. Secrets and the database URL have no defaults on
// purpose; the service should refuse to start without them.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")

	v.SetDefault("auth.token_lifetime_minutes", 60)
	v.SetDefault("auth.refresh_token_lifetime_minutes", 10080) // 7 days
	v.SetDefault("auth.bcrypt_cost", 0)                        // 0 means bcrypt.DefaultCost

	v.SetDefault("task.worker_count", 2)
	v.SetDefault("task.queue_size", 100)
	v.SetDefault("task.stuck_task_age_minutes", 30)

	v.SetDefault("session.completion_delay_ms", 300)
	v.SetDefault("session.ttl_minutes", 120)
}
