// Package config loads runtime configuration from viper and the environment.
package config

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/Veraticus/loansiya/internal/common"
)

// Storage backends.
const (
	BackendGCS    = "gcs"
	BackendSQLite = "sqlite"
)

// StoreConfig selects and configures the object store.
type StoreConfig struct {
	Backend            string
	ClientBucket       string
	AccountsBucket     string
	ServiceAccountPath string
	ServiceAccountB64  string
	DatabasePath       string
	SigningSecret      string
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	PublicURL      string
	UploadDir      string
	AllowedOrigins []string
	Port           int
	MaxUploadBytes int64
}

// Config is the complete runtime configuration.
type Config struct {
	Store  StoreConfig
	Server ServerConfig
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Store: StoreConfig{
			Backend:      BackendGCS,
			DatabasePath: "$HOME/.local/share/loansiya/objects.db",
		},
		Server: ServerConfig{
			Port:           5600,
			AllowedOrigins: []string{"*"},
			UploadDir:      filepath.Join(os.TempDir(), "loansiya-uploads"),
			MaxUploadBytes: 32 << 20,
		},
	}
}

// Load reads configuration from v and the environment. It follows this
// precedence:
// 1. Viper configuration (config file or LOANSIYA_ env vars)
// 2. Direct environment variables (PORT, CLIENT_BUCKET, ACCOUNTS_BUCKET,
// SERVICE_ACCOUNT, SERVICE_ACCOUNT_B64)
// 3. Default values
func Load(v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()

	// Store
	if s := v.GetString("storage.backend"); s != "" {
		cfg.Store.Backend = strings.ToLower(s)
	}
	cfg.Store.ClientBucket = v.GetString("storage.client_bucket")
	cfg.Store.AccountsBucket = v.GetString("storage.accounts_bucket")
	if s := v.GetString("storage.service_account_path"); s != "" {
		cfg.Store.ServiceAccountPath = ExpandPath(s)
	}
	cfg.Store.ServiceAccountB64 = v.GetString("storage.service_account_b64")
	if s := v.GetString("storage.database_path"); s != "" {
		cfg.Store.DatabasePath = s
	}
	cfg.Store.DatabasePath = ExpandPath(cfg.Store.DatabasePath)
	cfg.Store.SigningSecret = v.GetString("storage.signing_secret")

	// Server
	if n := v.GetInt("server.port"); n != 0 {
		cfg.Server.Port = n
	}
	if origins := v.GetStringSlice("server.allowed_origins"); len(origins) > 0 {
		cfg.Server.AllowedOrigins = origins
	}
	if s := v.GetString("server.upload_dir"); s != "" {
		cfg.Server.UploadDir = ExpandPath(s)
	}
	if n := v.GetInt64("server.max_upload_bytes"); n != 0 {
		cfg.Server.MaxUploadBytes = n
	}
	cfg.Server.PublicURL = v.GetString("server.public_url")

	// Override with direct environment variables if not set
	if cfg.Store.ClientBucket == "" {
		cfg.Store.ClientBucket = os.Getenv("CLIENT_BUCKET")
	}
	if cfg.Store.AccountsBucket == "" {
		cfg.Store.AccountsBucket = os.Getenv("ACCOUNTS_BUCKET")
	}
	if cfg.Store.ServiceAccountB64 == "" {
		cfg.Store.ServiceAccountB64 = os.Getenv("SERVICE_ACCOUNT_B64")
	}
	if cfg.Store.ServiceAccountPath == "" {
		if s := os.Getenv("SERVICE_ACCOUNT"); s != "" {
			cfg.Store.ServiceAccountPath = ExpandPath(s)
		}
	}
	if !v.IsSet("server.port") {
		if s := os.Getenv("PORT"); s != "" {
			port, err := strconv.Atoi(s)
			if err != nil {
				return nil, fmt.Errorf("%w: PORT %q is not a number", common.ErrInvalidConfig, s)
			}
			cfg.Server.Port = port
		}
	}

	if cfg.Server.PublicURL == "" {
		cfg.Server.PublicURL = fmt.Sprintf("http://localhost:%d", cfg.Server.Port)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if err := c.Store.Validate(); err != nil {
		return err
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server port %d out of range", common.ErrInvalidConfig, c.Server.Port)
	}
	if c.Server.MaxUploadBytes < 0 {
		return fmt.Errorf("%w: max upload bytes must not be negative", common.ErrInvalidConfig)
	}
	if _, err := url.ParseRequestURI(c.Server.PublicURL); err != nil {
		return fmt.Errorf("%w: public url %q: %v", common.ErrInvalidConfig, c.Server.PublicURL, err)
	}

	return nil
}

// Validate checks the store settings for the selected backend.
func (c *StoreConfig) Validate() error {
	if c.ClientBucket == "" {
		return fmt.Errorf("%w: client bucket (CLIENT_BUCKET)", common.ErrMissingConfig)
	}
	if c.AccountsBucket == "" {
		return fmt.Errorf("%w: accounts bucket (ACCOUNTS_BUCKET)", common.ErrMissingConfig)
	}

	switch c.Backend {
	case BackendGCS:
		if c.ServiceAccountB64 != "" && c.ServiceAccountPath != "" {
			return fmt.Errorf("%w: multiple service account sources configured; use either SERVICE_ACCOUNT or SERVICE_ACCOUNT_B64", common.ErrInvalidConfig)
		}
	case BackendSQLite:
		if c.DatabasePath == "" {
			return fmt.Errorf("%w: sqlite database path", common.ErrMissingConfig)
		}
	default:
		return fmt.Errorf("%w: unknown storage backend %q", common.ErrInvalidConfig, c.Backend)
	}

	return nil
}

// CredentialsJSON returns the service account key, decoding the base64 form
// in memory. It returns nil when neither source is configured, leaving the
// storage client to application default credentials.
func (c *StoreConfig) CredentialsJSON() ([]byte, error) {
	if c.ServiceAccountB64 != "" {
		data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(c.ServiceAccountB64))
		if err != nil {
			return nil, fmt.Errorf("%w: SERVICE_ACCOUNT_B64 is not valid base64: %v", common.ErrInvalidConfig, err)
		}
		return data, nil
	}

	if c.ServiceAccountPath != "" {
		data, err := os.ReadFile(c.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("%w: unable to read service account file: %v", common.ErrInvalidConfig, err)
		}
		return data, nil
	}

	return nil, nil
}

// ExpandPath resolves a leading ~ to the home directory, then substitutes
// $VAR references. Key-file, database and staging paths all pass through it.
func ExpandPath(p string) string {
	switch {
	case p == "":
		return p
	case p == "~" || strings.HasPrefix(p, "~/"):
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, strings.TrimPrefix(p[1:], "/"))
		}
	}
	return os.ExpandEnv(p)
}
