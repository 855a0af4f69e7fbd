package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	Session  SessionConfig  `mapstructure:"session" validate:"required"`
	Reminder ReminderConfig `mapstructure:"reminder"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains the settings for validating learner identity
// tokens. Token issuance is handled by the external auth service; this
// application only verifies.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`
}

// SessionConfig contains study-session sizing settings.
type SessionConfig struct {
	// DefaultSize is the target session length when a request does not
	// specify one.
	DefaultSize int `mapstructure:"default_size" validate:"required,gte=1"`
	// MaxSize caps the target length a client may request.
	MaxSize int `mapstructure:"max_size" validate:"required,gte=1,gtefield=DefaultSize"`
}

// ReminderConfig controls the daily due-words digest sweep.
type ReminderConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Hour of day (UTC) at which the sweep runs.
	Hour int `mapstructure:"hour" validate:"gte=0,lte=23"`
}
