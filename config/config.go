// Package config loads and validates the server configuration from TOML
// files, DIRSHARE_* environment variables and CLI flags, in that
// ascending order of precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the root configuration struct for dirshare.
type Config struct {
	Server     ServerConfig    `mapstructure:"server"`
	Routes     []RouteConfig   `mapstructure:"routes" validate:"dive"`
	Auth       AuthConfig      `mapstructure:"auth"`
	Session    SessionConfig   `mapstructure:"session"`
	Uploads    UploadConfig    `mapstructure:"uploads"`
	Listing    ListingConfig   `mapstructure:"listing"`
	Thumbnails ThumbnailConfig `mapstructure:"thumbnails"`
	WebDAV     WebDAVConfig    `mapstructure:"webdav"`
	CORS       CORSConfig      `mapstructure:"cors"`
	Log        LogConfig       `mapstructure:"log"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Host         string `mapstructure:"host"`
	TLSCertFile  string `mapstructure:"tls_cert_file" validate:"required_with=TLSKeyFile"`
	TLSKeyFile   string `mapstructure:"tls_key_file" validate:"required_with=TLSCertFile"`
	ReadTimeout  int    `mapstructure:"read_timeout" validate:"min=0"`
	WriteTimeout int    `mapstructure:"write_timeout" validate:"min=0"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// TLSEnabled reports whether both certificate and key are configured.
func (s ServerConfig) TLSEnabled() bool {
	return s.TLSCertFile != "" && s.TLSKeyFile != ""
}

// RouteConfig is one (label, directory) pair.
type RouteConfig struct {
	Label string `mapstructure:"label" validate:"required"`
	Path  string `mapstructure:"path" validate:"required"`
}

// AuthConfig enables the access gate when Username is set.
type AuthConfig struct {
	Username      string `mapstructure:"username" validate:"required_with=Password"`
	Password      string `mapstructure:"password" validate:"required_with=Username"`
	Scheme        string `mapstructure:"scheme" validate:"required,oneof=form basic"`
	AllowLoopback bool   `mapstructure:"allow_loopback"`
}

// SessionConfig selects the session store backend.
type SessionConfig struct {
	Backend string `mapstructure:"backend" validate:"required,oneof=memory sqlite postgres"`
	DSN     string `mapstructure:"dsn" validate:"required_unless=Backend memory"`
	TTL     string `mapstructure:"ttl" validate:"required"`
	// CleanupInterval is how often expired sessions are purged.
	CleanupInterval string `mapstructure:"cleanup_interval" validate:"required"`
	SecureCookies   bool   `mapstructure:"secure_cookies"`
}

// TTLDuration parses the configured TTL.
func (s SessionConfig) TTLDuration() (time.Duration, error) {
	return time.ParseDuration(s.TTL)
}

// CleanupIntervalDuration parses the configured cleanup interval.
func (s SessionConfig) CleanupIntervalDuration() (time.Duration, error) {
	return time.ParseDuration(s.CleanupInterval)
}

// UploadConfig gates upload route registration.
type UploadConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// MaxMemory bounds the multipart parser's in-memory buffer, bytes.
	MaxMemory int64 `mapstructure:"max_memory" validate:"min=0"`
}

// ListingConfig tunes the directory listing generator.
type ListingConfig struct {
	// ShowPaths reveals absolute directory paths on the index page.
	ShowPaths bool `mapstructure:"show_paths"`
	// Force renders a listing even when the directory has an index.html.
	Force bool `mapstructure:"force"`
}

// ThumbnailConfig enables the PDF/image thumbnail endpoint.
type ThumbnailConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	DPI     float64 `mapstructure:"dpi" validate:"min=0"`
	MaxSize int     `mapstructure:"max_size" validate:"min=0"`
}

// WebDAVConfig enables the read-only WebDAV mount.
type WebDAVConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// CORSConfig mirrors the chi cors middleware options.
type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Env   string `mapstructure:"env"`
}

// flagToViperKey maps CLI flag names to viper configuration keys.
var flagToViperKey = map[string]string{
	"port":     "server.port",
	"upload":   "uploads.enabled",
	"showpath": "listing.show_paths",
	"username": "auth.username",
	"password": "auth.password",
	"scheme":   "auth.scheme",
}

// flagsNotBound are CLI-only flags whose names would shadow whole config
// sections if bound as viper keys.
var flagsNotBound = map[string]bool{
	"config": true,
	"auth":   true,
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		if flagsNotBound[f.Name] {
			return
		}
		viperKey := f.Name
		if mapped, ok := flagToViperKey[viperKey]; ok {
			viperKey = mapped
		}
		// Only bind flags the user actually set, so config files keep
		// their say otherwise.
		if f.Changed {
			_ = v.BindPFlag(viperKey, f)
		}
	})
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 9080)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.read_timeout", 30)
	v.SetDefault("server.write_timeout", 0) // streams may outlive any fixed budget

	v.SetDefault("auth.scheme", "form")
	v.SetDefault("auth.allow_loopback", true)

	v.SetDefault("session.backend", "memory")
	v.SetDefault("session.ttl", "24h")
	v.SetDefault("session.cleanup_interval", "10m")

	v.SetDefault("uploads.enabled", false)
	v.SetDefault("uploads.max_memory", 32<<20)

	v.SetDefault("listing.show_paths", false)
	v.SetDefault("listing.force", false)

	v.SetDefault("thumbnails.enabled", false)
	v.SetDefault("thumbnails.dpi", 72)
	v.SetDefault("thumbnails.max_size", 256)

	v.SetDefault("webdav.enabled", false)

	v.SetDefault("log.level", "info")
}

// Load reads configuration and returns a validated Config struct.
// Precedence, highest first: flags > env > config file > defaults.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", configFile, err)
		}
	} else {
		v.SetConfigName("dirshare")
		v.SetConfigType("toml")
		v.AddConfigPath(".")

		if err := v.ReadInConfig(); err != nil {
			var configNotFound viper.ConfigFileNotFoundError
			if !errors.As(err, &configNotFound) {
				slog.Warn("error reading config file", "err", err)
			}
		}
	}

	v.SetEnvPrefix("DIRSHARE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		bindFlags(v, flags)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	if _, err := cfg.Session.TTLDuration(); err != nil {
		return nil, fmt.Errorf("validate config: session.ttl: %w", err)
	}
	if _, err := cfg.Session.CleanupIntervalDuration(); err != nil {
		return nil, fmt.Errorf("validate config: session.cleanup_interval: %w", err)
	}

	return &cfg, nil
}
