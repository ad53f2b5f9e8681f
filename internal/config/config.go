package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Log       LogConfig       `mapstructure:"log" validate:"required"`
	Scheduler SchedulerConfig `mapstructure:"scheduler" validate:"required"`
	Session   SessionConfig   `mapstructure:"session" validate:"required"`
	Audio     AudioConfig     `mapstructure:"audio" validate:"required"`
	Monitor   MonitorConfig   `mapstructure:"monitor" validate:"required"`
	Deck      DeckConfig      `mapstructure:"deck"`
}

// LogConfig contains the logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json text"`
}

// SchedulerConfig contains the spaced-repetition settings.
type SchedulerConfig struct {
	// Levels is the interval table in day buckets, indexed by card level.
	Levels []int `mapstructure:"levels" validate:"required,min=1,dive,gt=0"`
	// DayBucket is the width of one scheduling day.
	DayBucket time.Duration `mapstructure:"day_bucket" validate:"gt=0"`
}

// SessionConfig contains the session engine settings.
type SessionConfig struct {
	HandSize      int           `mapstructure:"hand_size" validate:"gt=0"`
	Choices       int           `mapstructure:"choices" validate:"gte=1"`
	InputBuffer   int           `mapstructure:"input_buffer" validate:"gt=0"`
	CardTimeout   time.Duration `mapstructure:"card_timeout" validate:"gte=0"`
	CountdownStep time.Duration `mapstructure:"countdown_step" validate:"gt=0"`
	SuccessDelay  time.Duration `mapstructure:"success_delay" validate:"gte=0"`
	QuestionPause time.Duration `mapstructure:"question_pause" validate:"gte=0"`
	ReplayDelay   time.Duration `mapstructure:"replay_delay" validate:"gte=0"`
	ReplayPause   time.Duration `mapstructure:"replay_pause" validate:"gte=0"`
	MaxReplays    int           `mapstructure:"max_replays" validate:"gte=0"`
	// Seed fixes the shuffle order when non-zero.
	Seed int64 `mapstructure:"seed"`
}

// AudioConfig contains the audio preload settings.
type AudioConfig struct {
	// Dir is prepended to relative clip paths.
	Dir string `mapstructure:"dir"`
	// Player is the command line clips are played with, e.g. "mpg123 -q".
	// Empty plays nothing.
	Player    string `mapstructure:"player"`
	Workers   int    `mapstructure:"workers" validate:"gt=0"`
	QueueSize int    `mapstructure:"queue_size" validate:"gt=0"`
}

// MonitorConfig contains the due monitor settings.
type MonitorConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Interval  time.Duration `mapstructure:"interval" validate:"gte=1s"`
	AutoStart bool          `mapstructure:"auto_start"`
}

// DeckConfig names the card store file.
type DeckConfig struct {
	// Path is a .yaml, .yml, .json or .xlsx deck file.
	Path string `mapstructure:"path"`
	// Sheet is the worksheet read from .xlsx decks. Empty means the first.
	Sheet string `mapstructure:"sheet"`
	// ExportPath receives the registry snapshot when the tool exits.
	ExportPath string `mapstructure:"export_path"`
}
