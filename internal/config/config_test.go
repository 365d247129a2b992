package config

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/loansiya/internal/common"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"PORT", "CLIENT_BUCKET", "ACCOUNTS_BUCKET", "SERVICE_ACCOUNT", "SERVICE_ACCOUNT_B64"} {
		t.Setenv(key, "")
	}
}

func TestLoad_EnvironmentFallbacks(t *testing.T) {
	clearEnv(t)
	t.Setenv("CLIENT_BUCKET", "clients-prod")
	t.Setenv("ACCOUNTS_BUCKET", "accounts-prod")
	t.Setenv("PORT", "8080")

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, BackendGCS, cfg.Store.Backend)
	assert.Equal(t, "clients-prod", cfg.Store.ClientBucket)
	assert.Equal(t, "accounts-prod", cfg.Store.AccountsBucket)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "http://localhost:8080", cfg.Server.PublicURL)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
}

func TestLoad_ViperTakesPrecedence(t *testing.T) {
	clearEnv(t)
	t.Setenv("CLIENT_BUCKET", "from-env")
	t.Setenv("PORT", "8080")

	v := viper.New()
	v.Set("storage.backend", "SQLite")
	v.Set("storage.client_bucket", "from-config")
	v.Set("storage.accounts_bucket", "accounts")
	v.Set("storage.database_path", "/tmp/loansiya.db")
	v.Set("server.port", 7000)
	v.Set("server.allowed_origins", []string{"https://app.example.com"})

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, BackendSQLite, cfg.Store.Backend)
	assert.Equal(t, "from-config", cfg.Store.ClientBucket)
	assert.Equal(t, "/tmp/loansiya.db", cfg.Store.DatabasePath)
	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.Server.AllowedOrigins)
}

func TestLoad_DefaultPort(t *testing.T) {
	clearEnv(t)
	v := viper.New()
	v.Set("storage.client_bucket", "c")
	v.Set("storage.accounts_bucket", "a")

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, 5600, cfg.Server.Port)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		set     map[string]any
		env     map[string]string
		wantErr error
	}{
		{
			name:    "missing client bucket",
			set:     map[string]any{"storage.accounts_bucket": "a"},
			wantErr: common.ErrMissingConfig,
		},
		{
			name:    "missing accounts bucket",
			set:     map[string]any{"storage.client_bucket": "c"},
			wantErr: common.ErrMissingConfig,
		},
		{
			name:    "unknown backend",
			set:     map[string]any{"storage.client_bucket": "c", "storage.accounts_bucket": "a", "storage.backend": "s3"},
			wantErr: common.ErrInvalidConfig,
		},
		{
			name:    "non numeric port",
			set:     map[string]any{"storage.client_bucket": "c", "storage.accounts_bucket": "a"},
			env:     map[string]string{"PORT": "http"},
			wantErr: common.ErrInvalidConfig,
		},
		{
			name:    "port out of range",
			set:     map[string]any{"storage.client_bucket": "c", "storage.accounts_bucket": "a", "server.port": 70000},
			wantErr: common.ErrInvalidConfig,
		},
		{
			name:    "two credential sources",
			set:     map[string]any{"storage.client_bucket": "c", "storage.accounts_bucket": "a"},
			env:     map[string]string{"SERVICE_ACCOUNT": "key.json", "SERVICE_ACCOUNT_B64": "e30="},
			wantErr: common.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, val := range tt.env {
				t.Setenv(k, val)
			}
			v := viper.New()
			for k, val := range tt.set {
				v.Set(k, val)
			}

			_, err := Load(v)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestStoreConfig_CredentialsJSON(t *testing.T) {
	key := []byte(`{"type":"service_account","client_email":"svc@example.iam.gserviceaccount.com"}`)

	t.Run("base64", func(t *testing.T) {
		cfg := StoreConfig{ServiceAccountB64: base64.StdEncoding.EncodeToString(key)}
		got, err := cfg.CredentialsJSON()
		require.NoError(t, err)
		assert.Equal(t, key, got)
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "key.json")
		require.NoError(t, os.WriteFile(path, key, 0600))

		cfg := StoreConfig{ServiceAccountPath: path}
		got, err := cfg.CredentialsJSON()
		require.NoError(t, err)
		assert.Equal(t, key, got)
	})

	t.Run("none", func(t *testing.T) {
		cfg := StoreConfig{}
		got, err := cfg.CredentialsJSON()
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("bad base64", func(t *testing.T) {
		cfg := StoreConfig{ServiceAccountB64: "not base64!"}
		_, err := cfg.CredentialsJSON()
		assert.ErrorIs(t, err, common.ErrInvalidConfig)
	})

	t.Run("missing file", func(t *testing.T) {
		cfg := StoreConfig{ServiceAccountPath: filepath.Join(t.TempDir(), "absent.json")}
		_, err := cfg.CredentialsJSON()
		assert.ErrorIs(t, err, common.ErrInvalidConfig)
	})
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("LOANSIYA_TEST_DIR", "/srv/data")

	assert.Equal(t, "", ExpandPath(""))
	assert.Equal(t, home, ExpandPath("~"))
	assert.Equal(t, filepath.Join(home, "keys/sa.json"), ExpandPath("~/keys/sa.json"))
	assert.Equal(t, "/srv/data/objects.db", ExpandPath("$LOANSIYA_TEST_DIR/objects.db"))
}
