package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// ResolvePath returns the absolute path of the config file. A directory
// resolves to the config.yaml inside it.
func ResolvePath(configPath string) (string, error) {
	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve config path %q: %w", configPath, err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return "", fmt.Errorf("config file not found: %s\n"+
			"Hint: Check the path or run with --config flag", absPath)
	}

	if info.IsDir() {
		absPath = filepath.Join(absPath, "config.yaml")
		if _, err := os.Stat(absPath); err != nil {
			return "", fmt.Errorf("directory provided but config.yaml not found: %s", absPath)
		}
	}
	return absPath, nil
}

// Load reads, verifies and parses configuration from a YAML file.
// ${VAR} references are expanded from the environment before parsing.
func Load(configPath string) (*Config, error) {
	absPath, err := ResolvePath(configPath)
	if err != nil {
		return nil, err
	}

	if err := verifyConfigHash(absPath); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal([]byte(interpolateEnv(string(data))), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if port := os.Getenv("PORT"); port != "" && cfg.Service.Listen == "" {
		cfg.Service.Listen = ":" + port
	}

	applyConfigDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// FromEnv builds configuration from process environment variables only.
func FromEnv() (*Config, error) {
	cfg := Config{
		Service: ServiceConfig{
			LogLevel:  os.Getenv("LOG_LEVEL"),
			StaticDir: os.Getenv("STATIC_DIR"),
		},
		Webhook: WebhookConfig{
			Secret: os.Getenv("SHOPIFY_KEY"),
		},
		Dispatch: DispatchConfig{
			APIKey:   os.Getenv("TOOKAN_KEY"),
			TeamID:   os.Getenv("TOOKAN_TEAM"),
			Timezone: os.Getenv("TOOKAN_TIMESTAMP"),
			Color:    os.Getenv("TOOKAN_COLOR"),
		},
		Storefront: StorefrontConfig{
			Shop:     os.Getenv("SHOPIFY_SHOP"),
			APIKey:   os.Getenv("SHOPIFY_API_KEY"),
			Password: os.Getenv("SHOPIFY_PASSWORD"),
		},
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.Service.Listen = ":" + port
	}

	applyConfigDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid environment configuration: %w", err)
	}
	return &cfg, nil
}

// applyConfigDefaults fills every unset optional field from Defaults.
func applyConfigDefaults(cfg *Config) {
	defaults := Defaults()

	if cfg.Service.Name == "" {
		cfg.Service.Name = defaults.Service.Name
	}
	if cfg.Service.Listen == "" {
		cfg.Service.Listen = defaults.Service.Listen
	}
	if cfg.Service.LogLevel == "" {
		cfg.Service.LogLevel = defaults.Service.LogLevel
	}
	cfg.Service.LogLevel = strings.ToLower(cfg.Service.LogLevel)
	if cfg.Service.StaticDir == "" {
		cfg.Service.StaticDir = defaults.Service.StaticDir
	}

	if cfg.Webhook.SignatureHeader == "" {
		cfg.Webhook.SignatureHeader = defaults.Webhook.SignatureHeader
	}

	if cfg.Dispatch.BaseURL == "" {
		cfg.Dispatch.BaseURL = defaults.Dispatch.BaseURL
	}
	if cfg.Dispatch.Timeout == 0 {
		cfg.Dispatch.Timeout = defaults.Dispatch.Timeout
	}
	if cfg.Dispatch.TeamID == "" {
		cfg.Dispatch.TeamID = defaults.Dispatch.TeamID
	}
	if cfg.Dispatch.Timezone == "" {
		cfg.Dispatch.Timezone = defaults.Dispatch.Timezone
	}
	if cfg.Dispatch.Color == "" {
		cfg.Dispatch.Color = defaults.Dispatch.Color
	}

	if cfg.Storefront.APIVersion == "" {
		cfg.Storefront.APIVersion = defaults.Storefront.APIVersion
	}
	if cfg.Storefront.Timeout == 0 {
		cfg.Storefront.Timeout = defaults.Storefront.Timeout
	}
}

// interpolateEnv replaces ${VAR} with environment variable values.
// Undefined variables are left as-is (not expanded).
func interpolateEnv(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if value, exists := os.LookupEnv(varName); exists {
			return value
		}
		// If not found, leave the placeholder (will fail validation if required)
		return match
	})
}

// validate performs basic validation on the configuration.
func validate(cfg *Config) error {
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[cfg.Service.LogLevel] {
		return fmt.Errorf("service.log_level must be one of: debug, info, warn, error (got %q)", cfg.Service.LogLevel)
	}

	if _, err := ParseMaxBodySize(cfg.Service.MaxBodySize); err != nil {
		return fmt.Errorf("service.max_body_size %q: %w", cfg.Service.MaxBodySize, err)
	}

	secrets := []struct {
		field string
		value string
	}{
		{"webhook.secret", cfg.Webhook.Secret},
		{"dispatch.api_key", cfg.Dispatch.APIKey},
		{"storefront.api_key", cfg.Storefront.APIKey},
		{"storefront.password", cfg.Storefront.Password},
	}
	for _, s := range secrets {
		if err := checkUnresolved(s.field, s.value); err != nil {
			return err
		}
	}

	if cfg.Webhook.Secret == "" {
		return fmt.Errorf("webhook.secret is required")
	}
	if cfg.Dispatch.APIKey == "" {
		return fmt.Errorf("dispatch.api_key is required")
	}
	if cfg.Dispatch.Timeout < 0 {
		return fmt.Errorf("dispatch.timeout must not be negative")
	}

	if cfg.Storefront.Enabled() {
		if cfg.Storefront.APIKey == "" || cfg.Storefront.Password == "" {
			return fmt.Errorf("storefront.api_key and storefront.password are required when storefront.shop is set")
		}
		if cfg.Storefront.Timeout < 0 {
			return fmt.Errorf("storefront.timeout must not be negative")
		}
	}

	return nil
}

// checkUnresolved rejects values that still hold a ${VAR} placeholder.
func checkUnresolved(field, value string) error {
	if matches := envVarPattern.FindStringSubmatch(value); len(matches) > 1 {
		return fmt.Errorf("%s: environment variable ${%s} is not set", field, matches[1])
	}
	return nil
}

// ParseMaxBodySize parses size strings like "1MB", "512KB", "1048576" to bytes.
// Returns DefaultMaxBodySize if empty.
func ParseMaxBodySize(size string) (int64, error) {
	if size == "" {
		return DefaultMaxBodySize, nil
	}

	upper := strings.ToUpper(strings.TrimSpace(size))
	multiplier := int64(1)

	switch {
	case strings.HasSuffix(upper, "KB"):
		multiplier = 1024
		upper = strings.TrimSuffix(upper, "KB")
	case strings.HasSuffix(upper, "MB"):
		multiplier = 1024 * 1024
		upper = strings.TrimSuffix(upper, "MB")
	case strings.HasSuffix(upper, "GB"):
		multiplier = 1024 * 1024 * 1024
		upper = strings.TrimSuffix(upper, "GB")
	}

	value, err := strconv.ParseInt(strings.TrimSpace(upper), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size value: %w", err)
	}
	if value <= 0 {
		return 0, fmt.Errorf("size must be positive")
	}

	result := value * multiplier
	if result/multiplier != value {
		return 0, fmt.Errorf("size too large")
	}
	return result, nil
}
