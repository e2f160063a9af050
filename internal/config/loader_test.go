package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		env     map[string]string
		wantErr bool
		checkFn func(t *testing.T, cfg *Config)
	}{
		{
			name: "minimal valid config gets defaults",
			yaml: `
webhook:
  secret: shh
dispatch:
  api_key: tk
`,
			checkFn: func(t *testing.T, cfg *Config) {
				assert.Equal(t, DefaultListen, cfg.Service.Listen)
				assert.Equal(t, "info", cfg.Service.LogLevel)
				assert.Equal(t, DefaultSignatureHeader, cfg.Webhook.SignatureHeader)
				assert.True(t, cfg.Webhook.Enforce())
				assert.Equal(t, DefaultDispatchBaseURL, cfg.Dispatch.BaseURL)
				assert.Equal(t, "Default Team", cfg.Dispatch.TeamID)
				assert.Equal(t, "-330", cfg.Dispatch.Timezone)
				assert.Equal(t, "blue", cfg.Dispatch.Color)
				assert.Equal(t, DefaultTimeout, cfg.Dispatch.Timeout)
				assert.False(t, cfg.Storefront.Enabled())
			},
		},
		{
			name: "env var interpolation",
			yaml: `
service:
  log_level: DEBUG
webhook:
  secret: ${TEST_SHOPIFY_KEY}
  enforce_signature: false
dispatch:
  api_key: ${TEST_TOOKAN_KEY}
  timeout: 5s
storefront:
  shop: my-shop
  api_key: ${TEST_SHOP_API_KEY}
  password: pw
`,
			env: map[string]string{
				"TEST_SHOPIFY_KEY":  "secret123",
				"TEST_TOOKAN_KEY":   "tookan123",
				"TEST_SHOP_API_KEY": "key123",
			},
			checkFn: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "debug", cfg.Service.LogLevel)
				assert.Equal(t, "secret123", cfg.Webhook.Secret)
				assert.False(t, cfg.Webhook.Enforce())
				assert.Equal(t, "tookan123", cfg.Dispatch.APIKey)
				assert.Equal(t, 5*time.Second, cfg.Dispatch.Timeout)
				assert.True(t, cfg.Storefront.Enabled())
				assert.Equal(t, "key123", cfg.Storefront.APIKey)
				assert.Equal(t, DefaultAPIVersion, cfg.Storefront.APIVersion)
			},
		},
		{
			name: "unresolved secret",
			yaml: `
webhook:
  secret: ${TEST_UNSET_SECRET_VAR}
dispatch:
  api_key: tk
`,
			wantErr: true,
		},
		{
			name: "missing dispatch key",
			yaml: `
webhook:
  secret: shh
`,
			wantErr: true,
		},
		{
			name: "storefront without password",
			yaml: `
webhook:
  secret: shh
dispatch:
  api_key: tk
storefront:
  shop: my-shop
  api_key: k
`,
			wantErr: true,
		},
		{
			name: "invalid log level",
			yaml: `
service:
  log_level: loud
webhook:
  secret: shh
dispatch:
  api_key: tk
`,
			wantErr: true,
		},
		{
			name: "invalid body size",
			yaml: `
service:
  max_body_size: lots
webhook:
  secret: shh
dispatch:
  api_key: tk
`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := Load(writeConfig(t, tt.yaml))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.checkFn != nil {
				tt.checkFn(t, cfg)
			}
		})
	}
}

func TestLoad_Directory(t *testing.T) {
	path := writeConfig(t, "webhook:\n  secret: s\ndispatch:\n  api_key: k\n")
	cfg, err := Load(filepath.Dir(path))
	require.NoError(t, err)
	assert.Equal(t, "s", cfg.Webhook.Secret)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_PortEnv(t *testing.T) {
	t.Setenv("PORT", "8088")
	cfg, err := Load(writeConfig(t, "webhook:\n  secret: s\ndispatch:\n  api_key: k\n"))
	require.NoError(t, err)
	assert.Equal(t, ":8088", cfg.Service.Listen)
}

func TestFromEnv(t *testing.T) {
	t.Setenv("SHOPIFY_KEY", "shh")
	t.Setenv("TOOKAN_KEY", "tk")
	t.Setenv("TOOKAN_TEAM", "Riders")
	t.Setenv("TOOKAN_TIMESTAMP", "60")
	t.Setenv("TOOKAN_COLOR", "")
	t.Setenv("PORT", "4000")
	t.Setenv("SHOPIFY_SHOP", "")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ":4000", cfg.Service.Listen)
	assert.Equal(t, "shh", cfg.Webhook.Secret)
	assert.Equal(t, "tk", cfg.Dispatch.APIKey)
	assert.Equal(t, "Riders", cfg.Dispatch.TeamID)
	assert.Equal(t, "60", cfg.Dispatch.Timezone)
	assert.Equal(t, "blue", cfg.Dispatch.Color)
	assert.False(t, cfg.Storefront.Enabled())
}

func TestFromEnv_MissingSecret(t *testing.T) {
	t.Setenv("SHOPIFY_KEY", "")
	t.Setenv("TOOKAN_KEY", "tk")
	_, err := FromEnv()
	assert.Error(t, err)
}

func TestParseMaxBodySize(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"", DefaultMaxBodySize, false},
		{"2048", 2048, false},
		{"512KB", 512 * 1024, false},
		{"2mb", 2 * 1024 * 1024, false},
		{"1GB", 1024 * 1024 * 1024, false},
		{"0", 0, true},
		{"-5", 0, true},
		{"big", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseMaxBodySize(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
