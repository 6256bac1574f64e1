package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"endpoint_addr_http":              "www.example:9000",
		"database_dsn":                    "field.db",
		"secret_key":                      "my_secret_key",
		"access_token_validity_duration":  "15m",
		"session_validity_duration":       "168h",
		"redis_addr":                      "redis:6379",
		"redis_password":                  "rpw",
		"upload_dir":                      "data/photos",
		"photo_storage":                   "s3",
		"s3_root_user":                    "user",
		"s3_root_password":                "password",
		"s3_bucket":                       "bucket",
		"s3_region":                       "region",
		"s3_base_endpoint":                "base_endpoint",
		"seed_demo_data":                  true,
		"login_rate_limit":                5,
		"login_rate_window":               "30s",
	})

	t.Run("loads from json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, "www.example:9000", cfg.EndpointAddrHTTP)
		assert.Equal(t, "field.db", cfg.DatabaseDSN)
		assert.Equal(t, "my_secret_key", cfg.SecretKey)
		assert.Equal(t, 15*time.Minute, cfg.AccessTokenValidityDuration)
		assert.Equal(t, 168*time.Hour, cfg.SessionValidityDuration)
		assert.Equal(t, "redis:6379", cfg.RedisAddr)
		assert.Equal(t, "rpw", cfg.RedisPassword)
		assert.Equal(t, "data/photos", cfg.UploadDir)
		assert.Equal(t, "s3", cfg.PhotoStorage)
		assert.Equal(t, "user", cfg.S3RootUser)
		assert.Equal(t, "password", cfg.S3RootPassword)
		assert.Equal(t, "bucket", cfg.S3Bucket)
		assert.Equal(t, "region", cfg.S3Region)
		assert.Equal(t, "base_endpoint", cfg.S3BaseEndpoint)
		assert.True(t, cfg.SeedDemoData)
		assert.Equal(t, 5, cfg.LoginRateLimit)
		assert.Equal(t, 30*time.Second, cfg.LoginRateWindow)
	})

	t.Run("no config flag leaves values untouched", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{
			EndpointAddrHTTP:            "defaults:1234",
			DatabaseDSN:                 "field.db",
			SecretKey:                   "key",
			AccessTokenValidityDuration: 2 * time.Minute,
			SessionValidityDuration:     3 * time.Minute,
			RedisAddr:                   "localhost:6379",
			UploadDir:                   "uploads/photos",
			PhotoStorage:                "disk",
			S3RootUser:                  "s3root",
			S3RootPassword:              "s3rootpassword",
			S3Bucket:                    "s3bucket",
			S3Region:                    "s3region",
			S3BaseEndpoint:              "s3baseendpoint",
			LoginRateLimit:              10,
			LoginRateWindow:             time.Minute,
		}
		parseJson(cfg)

		assert.Equal(t, "defaults:1234", cfg.EndpointAddrHTTP)
		assert.Equal(t, "field.db", cfg.DatabaseDSN)
		assert.Equal(t, "key", cfg.SecretKey)
		assert.Equal(t, 2*time.Minute, cfg.AccessTokenValidityDuration)
		assert.Equal(t, 3*time.Minute, cfg.SessionValidityDuration)
		assert.Equal(t, "localhost:6379", cfg.RedisAddr)
		assert.Equal(t, "uploads/photos", cfg.UploadDir)
		assert.Equal(t, "disk", cfg.PhotoStorage)
		assert.Equal(t, "s3root", cfg.S3RootUser)
		assert.Equal(t, "s3rootpassword", cfg.S3RootPassword)
		assert.Equal(t, "s3bucket", cfg.S3Bucket)
		assert.Equal(t, "s3region", cfg.S3Region)
		assert.Equal(t, "s3baseendpoint", cfg.S3BaseEndpoint)
		assert.Equal(t, 10, cfg.LoginRateLimit)
		assert.Equal(t, time.Minute, cfg.LoginRateWindow)
	})

	t.Run("invalid JSON panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})
}
