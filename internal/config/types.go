package config

import "time"

// Config represents the complete shoprelay configuration.
type Config struct {
	Service    ServiceConfig    `yaml:"service"`
	Webhook    WebhookConfig    `yaml:"webhook"`
	Dispatch   DispatchConfig   `yaml:"dispatch"`
	Storefront StorefrontConfig `yaml:"storefront"`
}

// ServiceConfig defines core service settings.
type ServiceConfig struct {
	Name        string `yaml:"name"`
	Listen      string `yaml:"listen"`
	LogLevel    string `yaml:"log_level"`
	StaticDir   string `yaml:"static_dir"`
	MaxBodySize string `yaml:"max_body_size"`
}

// WebhookConfig defines inbound storefront webhook verification.
type WebhookConfig struct {
	// Secret is the shared HMAC secret issued by the storefront platform.
	Secret string `yaml:"secret"`

	// SignatureHeader carries the base64 HMAC-SHA256 of the raw body.
	SignatureHeader string `yaml:"signature_header"`

	// EnforceSignature halts processing on a bad signature (default true).
	// When false the request is answered with 403 and still relayed.
	EnforceSignature *bool `yaml:"enforce_signature,omitempty"`
}

// Enforce reports whether signature failures stop processing.
func (w WebhookConfig) Enforce() bool {
	return w.EnforceSignature == nil || *w.EnforceSignature
}

// DispatchConfig defines the delivery-dispatch (Tookan) integration.
type DispatchConfig struct {
	BaseURL string        `yaml:"base_url"`
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout"`
	TeamID  string        `yaml:"team_id"`
	// Timezone is the agent's UTC offset in minutes, as the dispatch API expects it.
	Timezone string `yaml:"timezone"`
	Color    string `yaml:"color"`
}

// StorefrontConfig defines the storefront (Shopify) admin API credentials.
type StorefrontConfig struct {
	Shop       string        `yaml:"shop"`
	APIKey     string        `yaml:"api_key"`
	Password   string        `yaml:"password"`
	APIVersion string        `yaml:"api_version"`
	BaseURL    string        `yaml:"base_url,omitempty"`
	Timeout    time.Duration `yaml:"timeout"`
}

// Enabled reports whether storefront credentials are present.
func (s StorefrontConfig) Enabled() bool {
	return s.Shop != "" || s.BaseURL != ""
}

// Default values
const (
	DefaultName            = "shoprelay"
	DefaultListen          = ":3000"
	DefaultLogLevel        = "info"
	DefaultStaticDir       = "./public"
	DefaultMaxBodySize     = 1048576 // 1 MB
	DefaultSignatureHeader = "X-Shopify-Hmac-Sha256"
	DefaultDispatchBaseURL = "https://api.tookanapp.com"
	DefaultTeamID          = "Default Team"
	DefaultTimezone        = "-330"
	DefaultColor           = "blue"
	DefaultAPIVersion      = "2023-10"
	DefaultTimeout         = 30 * time.Second
)

// Defaults returns a Config with every optional field populated.
func Defaults() *Config {
	return &Config{
		Service: ServiceConfig{
			Name:      DefaultName,
			Listen:    DefaultListen,
			LogLevel:  DefaultLogLevel,
			StaticDir: DefaultStaticDir,
		},
		Webhook: WebhookConfig{
			SignatureHeader: DefaultSignatureHeader,
		},
		Dispatch: DispatchConfig{
			BaseURL:  DefaultDispatchBaseURL,
			Timeout:  DefaultTimeout,
			TeamID:   DefaultTeamID,
			Timezone: DefaultTimezone,
			Color:    DefaultColor,
		},
		Storefront: StorefrontConfig{
			APIVersion: DefaultAPIVersion,
			Timeout:    DefaultTimeout,
		},
	}
}
