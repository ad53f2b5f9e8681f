package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every configuration environment variable.
const EnvPrefix = "FLASHCARD"

// ConfigPathEnv names an explicit configuration file.
const ConfigPathEnv = EnvPrefix + "_CONFIG"

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	// A missing .env file is fine.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("flashcard")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.flashcard")
	if path := os.Getenv(ConfigPathEnv); path != "" {
		v.SetConfigFile(path)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return decode(v)
}

// Default returns the configuration with every default applied and no
// file or environment overrides.
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	cfg, err := decode(v)
	if err != nil {
		panic(fmt.Sprintf("default configuration is invalid: %v", err))
	}
	return cfg
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("scheduler.levels", []int{1, 2, 4, 10, 25, 60, 150})
	v.SetDefault("scheduler.day_bucket", "24h")

	v.SetDefault("session.hand_size", 3)
	v.SetDefault("session.choices", 3)
	v.SetDefault("session.input_buffer", 16)
	v.SetDefault("session.card_timeout", "6s")
	v.SetDefault("session.countdown_step", "1s")
	v.SetDefault("session.success_delay", "400ms")
	v.SetDefault("session.question_pause", "500ms")
	v.SetDefault("session.replay_delay", "1s")
	v.SetDefault("session.replay_pause", "2s")
	v.SetDefault("session.max_replays", 5)
	v.SetDefault("session.seed", 0)

	v.SetDefault("audio.dir", "")
	v.SetDefault("audio.player", "")
	v.SetDefault("audio.workers", 2)
	v.SetDefault("audio.queue_size", 64)

	v.SetDefault("monitor.enabled", false)
	v.SetDefault("monitor.interval", "1m")
	v.SetDefault("monitor.auto_start", false)

	v.SetDefault("deck.path", "")
	v.SetDefault("deck.sheet", "")
	v.SetDefault("deck.export_path", "")
}
