// Package doctor inspects a loaded shoprelay configuration for settings that
// parse but will not behave as intended at runtime.
package doctor

import (
	"encoding/json"
	"fmt"
	"net"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/mattjoyce/shoprelay/internal/config"
)

// Result holds the outcome of a validation run.
type Result struct {
	Valid    bool    `json:"valid"`
	Errors   []Issue `json:"errors,omitempty"`
	Warnings []Issue `json:"warnings,omitempty"`
}

// Issue describes a single validation error or warning.
type Issue struct {
	Category string `json:"category"`
	Message  string `json:"message"`
	Field    string `json:"field,omitempty"`
}

var apiVersionRe = regexp.MustCompile(`^\d{4}-(01|04|07|10)$`)

// Doctor validates a loaded configuration.
type Doctor struct {
	cfg *config.Config
}

// New creates a Doctor for cfg.
func New(cfg *config.Config) *Doctor {
	return &Doctor{cfg: cfg}
}

// Validate runs all checks and returns a result.
func (d *Doctor) Validate() *Result {
	r := &Result{Valid: true}

	d.validateListen(r)
	d.validateURLs(r)
	d.warnStaticDir(r)
	d.warnSignatureMode(r)
	d.warnStorefront(r)
	d.warnTimeouts(r)

	r.Valid = len(r.Errors) == 0
	return r
}

func (d *Doctor) addError(r *Result, category, field, msg string) {
	r.Errors = append(r.Errors, Issue{Category: category, Field: field, Message: msg})
}

func (d *Doctor) addWarning(r *Result, category, field, msg string) {
	r.Warnings = append(r.Warnings, Issue{Category: category, Field: field, Message: msg})
}

func (d *Doctor) validateListen(r *Result) {
	if _, _, err := net.SplitHostPort(d.cfg.Service.Listen); err != nil {
		d.addError(r, "service", "service.listen",
			fmt.Sprintf("invalid listen address %q: %v", d.cfg.Service.Listen, err))
	}
}

// validateURLs checks downstream base URLs are absolute.
func (d *Doctor) validateURLs(r *Result) {
	check := func(category, field, raw string) {
		if raw == "" {
			return
		}
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			d.addError(r, category, field, fmt.Sprintf("%q is not an absolute URL", raw))
			return
		}
		if u.Scheme != "https" {
			d.addWarning(r, category, field, "credentials will be sent without TLS")
		}
	}
	check("dispatch", "dispatch.base_url", d.cfg.Dispatch.BaseURL)
	check("storefront", "storefront.base_url", d.cfg.Storefront.BaseURL)
}

func (d *Doctor) warnStaticDir(r *Result) {
	info, err := os.Stat(d.cfg.Service.StaticDir)
	switch {
	case err != nil:
		d.addWarning(r, "service", "service.static_dir",
			fmt.Sprintf("%s not found; static assets will return 404", d.cfg.Service.StaticDir))
	case !info.IsDir():
		d.addError(r, "service", "service.static_dir",
			fmt.Sprintf("%s is not a directory", d.cfg.Service.StaticDir))
	}
}

func (d *Doctor) warnSignatureMode(r *Result) {
	if !d.cfg.Webhook.Enforce() {
		d.addWarning(r, "webhook", "webhook.enforce_signature",
			"unsigned webhooks are answered with 403 but still relayed")
	}
}

func (d *Doctor) warnStorefront(r *Result) {
	sf := d.cfg.Storefront
	if !sf.Enabled() {
		d.addWarning(r, "storefront", "storefront.shop",
			"storefront not configured; POST /order will return 503")
		return
	}
	if !apiVersionRe.MatchString(sf.APIVersion) {
		d.addWarning(r, "storefront", "storefront.api_version",
			fmt.Sprintf("%q is not a quarterly release (YYYY-01|04|07|10)", sf.APIVersion))
	}
	if strings.Contains(sf.Shop, ".") {
		d.addWarning(r, "storefront", "storefront.shop",
			"shop should be the handle only; .myshopify.com is appended")
	}
}

func (d *Doctor) warnTimeouts(r *Result) {
	if d.cfg.Dispatch.Timeout < time.Second {
		d.addWarning(r, "dispatch", "dispatch.timeout",
			fmt.Sprintf("timeout %s is very short (< 1s)", d.cfg.Dispatch.Timeout))
	}
	if d.cfg.Storefront.Enabled() && d.cfg.Storefront.Timeout < time.Second {
		d.addWarning(r, "storefront", "storefront.timeout",
			fmt.Sprintf("timeout %s is very short (< 1s)", d.cfg.Storefront.Timeout))
	}
}

// FormatHuman returns a human-readable validation report.
func FormatHuman(r *Result) string {
	var b strings.Builder

	if r.Valid && len(r.Warnings) == 0 {
		b.WriteString("Configuration valid.\n")
		return b.String()
	}

	if r.Valid {
		fmt.Fprintf(&b, "Configuration valid (%d warning(s))\n", len(r.Warnings))
	} else {
		fmt.Fprintf(&b, "Configuration invalid (%d error(s), %d warning(s))\n", len(r.Errors), len(r.Warnings))
	}

	for _, e := range r.Errors {
		writeIssue(&b, "ERROR", e)
	}
	for _, w := range r.Warnings {
		writeIssue(&b, "WARN ", w)
	}
	return b.String()
}

func writeIssue(b *strings.Builder, level string, i Issue) {
	if i.Field != "" {
		fmt.Fprintf(b, "  %s [%s] %s: %s\n", level, i.Category, i.Field, i.Message)
	} else {
		fmt.Fprintf(b, "  %s [%s] %s\n", level, i.Category, i.Message)
	}
}

// FormatJSON returns the result as indented JSON.
func FormatJSON(r *Result) (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
