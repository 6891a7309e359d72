// Package config defines the application configuration and its loading.
package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`

	// AllowedOrigins lists the origins accepted for websocket handshakes.
	// Empty means only non-browser clients (requests without an Origin
	// header) are accepted.
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains all authentication settings.
//
// The register/login lifetime asymmetry (7 days vs 1 day) mirrors the
// observed behavior of the system this replaces and is deliberately kept.
type AuthConfig struct {
	// JWTSecret signs bearer tokens. There is no development fallback;
	// startup fails when it is missing or too short.
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`

	// RegisterTokenLifetimeHours is the expiry of tokens issued at
	// registration. Defaults to 168 (7 days).
	RegisterTokenLifetimeHours int `mapstructure:"register_token_lifetime_hours" validate:"required,gt=0"`

	// LoginTokenLifetimeHours is the expiry of tokens issued at login.
	// Defaults to 24 (1 day).
	LoginTokenLifetimeHours int `mapstructure:"login_token_lifetime_hours" validate:"required,gt=0"`

	// BcryptCost is the adaptive hashing cost factor. Defaults to 12.
	BcryptCost int `mapstructure:"bcrypt_cost" validate:"required,gte=4,lte=31"`
}
