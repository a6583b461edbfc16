package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "/etc/marnix13/config"
	ConfigFileName    = "marnix13.yml"
)

// ValidMailTransports lists the supported notification transports
var ValidMailTransports = []string{"log", "smtp"}

// PortalConfig holds all portal configuration settings
type PortalConfig struct {
	// SiteURL is the public dashboard URL linked from notification emails
	SiteURL string `yaml:"site_url" json:"site_url"`

	// ProductName is used in email subjects and bodies
	ProductName string `yaml:"product_name" json:"product_name"`

	LogLevel  string `yaml:"log_level" json:"log_level"`
	LogFormat string `yaml:"log_format" json:"log_format"`

	// Third-party service URLs handed to the browser
	JellyfinURL    string `yaml:"jellyfin_url" json:"jellyfin_url"`
	NextcloudURL   string `yaml:"nextcloud_url" json:"nextcloud_url"`
	RadarrURL      string `yaml:"radarr_url" json:"radarr_url"`
	SonarrURL      string `yaml:"sonarr_url" json:"sonarr_url"`
	MangaReaderURL string `yaml:"manga_reader_url" json:"manga_reader_url"`

	// MailTransport is "log" (default) or "smtp"
	MailTransport string `yaml:"mail_transport" json:"mail_transport"`
	SMTPHost      string `yaml:"smtp_host" json:"smtp_host"`
	SMTPPort      int    `yaml:"smtp_port" json:"smtp_port"`
	SMTPUsername  string `yaml:"smtp_username" json:"smtp_username"`
	SMTPFrom      string `yaml:"smtp_from" json:"smtp_from"`
	SMTPFromName  string `yaml:"smtp_from_name" json:"smtp_from_name"`
	SMTPTLS       bool   `yaml:"smtp_tls" json:"smtp_tls"`

	// AdminRateLimit is the number of admin mutations allowed per minute per client
	AdminRateLimit int `yaml:"admin_rate_limit" json:"admin_rate_limit"`

	HealthCheckEnabled   bool `yaml:"health_check_enabled" json:"health_check_enabled"`
	HealthCheckTimeoutMs int  `yaml:"health_check_timeout_ms" json:"health_check_timeout_ms"`

	AuditEnabled bool `yaml:"audit_enabled" json:"audit_enabled"`

	// sources tracks where each value came from
	sources map[string]string

	configFilePath string
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

var (
	globalConfig *PortalConfig
	configMu     sync.RWMutex
)

// Get returns the global configuration, loading it if necessary
func Get() *PortalConfig {
	configMu.RLock()
	if globalConfig != nil {
		configMu.RUnlock()
		return globalConfig
	}
	configMu.RUnlock()

	configMu.Lock()
	defer configMu.Unlock()

	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			globalConfig = newDefault()
		} else {
			globalConfig = cfg
		}
	}
	return globalConfig
}

// Reload reloads the configuration from file and environment
func Reload() (*PortalConfig, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
	return cfg, nil
}

func newDefault() *PortalConfig {
	return &PortalConfig{
		SiteURL:              "http://localhost:3000",
		ProductName:          "Marnix 13",
		LogLevel:             "info",
		LogFormat:            "json",
		MailTransport:        "log",
		SMTPPort:             587,
		SMTPFromName:         "Marnix 13",
		SMTPTLS:              true,
		AdminRateLimit:       30,
		HealthCheckEnabled:   true,
		HealthCheckTimeoutMs: 5000,
		AuditEnabled:         true,
		sources:              make(map[string]string),
	}
}

// Load loads configuration from file and environment variables.
// Environment variables take precedence over file values.
func Load() (*PortalConfig, error) {
	config := newDefault()

	for _, name := range attributeNames() {
		config.sources[name] = "default"
	}

	configPath := os.Getenv("MARNIX_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	config.configFilePath = filepath.Join(configPath, ConfigFileName)

	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var fileConfig fileAttributes
		if err := yaml.Unmarshal(data, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&fileConfig)
	}

	config.applyEnvConfig()

	return config, nil
}

// fileAttributes uses pointers for booleans and numbers so an explicit
// false or 0 in the file still overrides the default.
type fileAttributes struct {
	SiteURL              string `yaml:"site_url"`
	ProductName          string `yaml:"product_name"`
	LogLevel             string `yaml:"log_level"`
	LogFormat            string `yaml:"log_format"`
	JellyfinURL          string `yaml:"jellyfin_url"`
	NextcloudURL         string `yaml:"nextcloud_url"`
	RadarrURL            string `yaml:"radarr_url"`
	SonarrURL            string `yaml:"sonarr_url"`
	MangaReaderURL       string `yaml:"manga_reader_url"`
	MailTransport        string `yaml:"mail_transport"`
	SMTPHost             string `yaml:"smtp_host"`
	SMTPPort             *int   `yaml:"smtp_port"`
	SMTPUsername         string `yaml:"smtp_username"`
	SMTPFrom             string `yaml:"smtp_from"`
	SMTPFromName         string `yaml:"smtp_from_name"`
	SMTPTLS              *bool  `yaml:"smtp_tls"`
	AdminRateLimit       *int   `yaml:"admin_rate_limit"`
	HealthCheckEnabled   *bool  `yaml:"health_check_enabled"`
	HealthCheckTimeoutMs *int   `yaml:"health_check_timeout_ms"`
	AuditEnabled         *bool  `yaml:"audit_enabled"`
}

func attributeNames() []string {
	return []string{
		"site_url", "product_name", "log_level", "log_format",
		"jellyfin_url", "nextcloud_url", "radarr_url", "sonarr_url", "manga_reader_url",
		"mail_transport", "smtp_host", "smtp_port", "smtp_username", "smtp_from",
		"smtp_from_name", "smtp_tls", "admin_rate_limit",
		"health_check_enabled", "health_check_timeout_ms", "audit_enabled",
	}
}

func (c *PortalConfig) stringAttrs() map[string]*string {
	return map[string]*string{
		"site_url":         &c.SiteURL,
		"product_name":     &c.ProductName,
		"log_level":        &c.LogLevel,
		"log_format":       &c.LogFormat,
		"jellyfin_url":     &c.JellyfinURL,
		"nextcloud_url":    &c.NextcloudURL,
		"radarr_url":       &c.RadarrURL,
		"sonarr_url":       &c.SonarrURL,
		"manga_reader_url": &c.MangaReaderURL,
		"mail_transport":   &c.MailTransport,
		"smtp_host":        &c.SMTPHost,
		"smtp_username":    &c.SMTPUsername,
		"smtp_from":        &c.SMTPFrom,
		"smtp_from_name":   &c.SMTPFromName,
	}
}

func (c *PortalConfig) intAttrs() map[string]*int {
	return map[string]*int{
		"smtp_port":               &c.SMTPPort,
		"admin_rate_limit":        &c.AdminRateLimit,
		"health_check_timeout_ms": &c.HealthCheckTimeoutMs,
	}
}

func (c *PortalConfig) boolAttrs() map[string]*bool {
	return map[string]*bool{
		"smtp_tls":             &c.SMTPTLS,
		"health_check_enabled": &c.HealthCheckEnabled,
		"audit_enabled":        &c.AuditEnabled,
	}
}

func (c *PortalConfig) applyFileConfig(file *fileAttributes) {
	strs := map[string]string{
		"site_url":         file.SiteURL,
		"product_name":     file.ProductName,
		"log_level":        file.LogLevel,
		"log_format":       file.LogFormat,
		"jellyfin_url":     file.JellyfinURL,
		"nextcloud_url":    file.NextcloudURL,
		"radarr_url":       file.RadarrURL,
		"sonarr_url":       file.SonarrURL,
		"manga_reader_url": file.MangaReaderURL,
		"mail_transport":   file.MailTransport,
		"smtp_host":        file.SMTPHost,
		"smtp_username":    file.SMTPUsername,
		"smtp_from":        file.SMTPFrom,
		"smtp_from_name":   file.SMTPFromName,
	}
	targets := c.stringAttrs()
	for name, val := range strs {
		if val != "" {
			*targets[name] = val
			c.sources[name] = "file"
		}
	}

	ints := map[string]*int{
		"smtp_port":               file.SMTPPort,
		"admin_rate_limit":        file.AdminRateLimit,
		"health_check_timeout_ms": file.HealthCheckTimeoutMs,
	}
	intTargets := c.intAttrs()
	for name, val := range ints {
		if val != nil {
			*intTargets[name] = *val
			c.sources[name] = "file"
		}
	}

	bools := map[string]*bool{
		"smtp_tls":             file.SMTPTLS,
		"health_check_enabled": file.HealthCheckEnabled,
		"audit_enabled":        file.AuditEnabled,
	}
	boolTargets := c.boolAttrs()
	for name, val := range bools {
		if val != nil {
			*boolTargets[name] = *val
			c.sources[name] = "file"
		}
	}
}

// envName maps an attribute to its MARNIX_* environment variable.
func envName(attr string) string {
	return "MARNIX_" + strings.ToUpper(attr)
}

// legacyEnv lists the NEXT_PUBLIC_* variables the web frontend already uses
// for service links; they are honoured when the MARNIX_* variable is unset.
var legacyEnv = map[string]string{
	"site_url":         "NEXT_PUBLIC_SITE_URL",
	"product_name":     "NEXT_PUBLIC_PRODUCT_NAME",
	"jellyfin_url":     "NEXT_PUBLIC_JELLYFIN_URL",
	"nextcloud_url":    "NEXT_PUBLIC_NEXTCLOUD_URL",
	"radarr_url":       "NEXT_PUBLIC_RADARR_URL",
	"sonarr_url":       "NEXT_PUBLIC_SONARR_URL",
	"manga_reader_url": "NEXT_PUBLIC_MANGA_READER_URL",
}

func lookupEnv(attr string) (string, bool) {
	if val := os.Getenv(envName(attr)); val != "" {
		return val, true
	}
	if legacy, ok := legacyEnv[attr]; ok {
		if val := os.Getenv(legacy); val != "" {
			return val, true
		}
	}
	return "", false
}

func (c *PortalConfig) applyEnvConfig() {
	for name, target := range c.stringAttrs() {
		if val, ok := lookupEnv(name); ok {
			*target = val
			c.sources[name] = "environment"
		}
	}
	for name, target := range c.intAttrs() {
		if val, ok := lookupEnv(name); ok {
			if i, err := strconv.Atoi(val); err == nil {
				*target = i
				c.sources[name] = "environment"
			}
		}
	}
	for name, target := range c.boolAttrs() {
		if val, ok := lookupEnv(name); ok {
			*target = val == "true" || val == "1"
			c.sources[name] = "environment"
		}
	}
}

// ConfigFilePath returns the path to the config file
func (c *PortalConfig) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *PortalConfig) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// HealthCheckTimeout returns the health check timeout as a duration
func (c *PortalConfig) HealthCheckTimeout() time.Duration {
	return time.Duration(c.HealthCheckTimeoutMs) * time.Millisecond
}

// SMTPPassword is read from the environment only
func (c *PortalConfig) SMTPPassword() string {
	return os.Getenv("MARNIX_SMTP_PASSWORD")
}

// JWTSecret returns the secret used to verify session tokens.
// SUPABASE_JWT_SECRET is accepted for compatibility with the hosted platform.
func JWTSecret() string {
	if s := os.Getenv("MARNIX_JWT_SECRET"); s != "" {
		return s
	}
	return os.Getenv("SUPABASE_JWT_SECRET")
}

// Validate validates the configuration
func (c *PortalConfig) Validate() error {
	if u, err := url.Parse(c.SiteURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid site_url value: %q", c.SiteURL)
	}

	for _, name := range []string{"jellyfin_url", "nextcloud_url", "radarr_url", "sonarr_url", "manga_reader_url"} {
		val := *c.stringAttrs()[name]
		if val == "" {
			continue
		}
		if u, err := url.Parse(val); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return fmt.Errorf("invalid %s value: %q", name, val)
		}
	}

	validTransport := false
	for _, t := range ValidMailTransports {
		if c.MailTransport == t {
			validTransport = true
		}
	}
	if !validTransport {
		return fmt.Errorf("invalid mail_transport: %s", c.MailTransport)
	}
	if c.MailTransport == "smtp" {
		if c.SMTPHost == "" || c.SMTPFrom == "" {
			return fmt.Errorf("mail_transport smtp requires smtp_host and smtp_from")
		}
		if c.SMTPPort <= 0 || c.SMTPPort > 65535 {
			return fmt.Errorf("invalid smtp_port: %d", c.SMTPPort)
		}
	}

	if c.AdminRateLimit < 0 {
		return fmt.Errorf("admin_rate_limit must not be negative")
	}
	if c.HealthCheckTimeoutMs < 1000 || c.HealthCheckTimeoutMs > 30000 {
		return fmt.Errorf("health_check_timeout_ms must be between 1000 and 30000")
	}
	return nil
}

// Attributes returns all configuration attributes with their values and sources
func (c *PortalConfig) Attributes() []Attribute {
	strs := c.stringAttrs()
	ints := c.intAttrs()
	bools := c.boolAttrs()

	attrs := make([]Attribute, 0, len(attributeNames()))
	for _, name := range attributeNames() {
		var value string
		switch {
		case strs[name] != nil:
			value = *strs[name]
		case ints[name] != nil:
			value = strconv.Itoa(*ints[name])
		case bools[name] != nil:
			value = strconv.FormatBool(*bools[name])
		}
		attrs = append(attrs, Attribute{Name: name, Value: value, Source: c.Source(name)})
	}
	return attrs
}

// FormatText returns a text representation of the configuration
func (c *PortalConfig) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-30s %-40s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-30s %-40s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-30s %-40s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *PortalConfig) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
