package services

import (
	"regexp"
	"strings"

	"github.com/pashioya/marnix13/pkg/model"
	"github.com/pashioya/marnix13/pkg/validation"
)

// Health check interval bounds, in minutes
const (
	MinHealthCheckInterval     = 1
	MaxHealthCheckInterval     = 1440
	DefaultHealthCheckInterval = 30
)

// Connection test timeout bounds, in milliseconds
const (
	MinConnectionTimeoutMs     = 1000
	MaxConnectionTimeoutMs     = 30000
	DefaultConnectionTimeoutMs = 5000
)

// APIKeyMask replaces stored API keys in responses.
const APIKeyMask = "••••••••••••••••"

// Field length limits
const (
	KeyMaxLength         = 50
	NameMaxLength        = 100
	DescriptionMaxLength = 500
	UserRoleMaxLength    = 100
	VersionMaxLength     = 50
)

// DefaultPorts maps service types to their usual listening port.
var DefaultPorts = map[model.ServiceType]int{
	model.ServiceTypeJellyfin:      8096,
	model.ServiceTypeNextcloud:     8080,
	model.ServiceTypeRadarr:        7878,
	model.ServiceTypeSonarr:        8989,
	model.ServiceTypePlex:          32400,
	model.ServiceTypeOverseerr:     5055,
	model.ServiceTypeTautulli:      8181,
	model.ServiceTypePortainer:     9000,
	model.ServiceTypeHomeAssistant: 8123,
	model.ServiceTypeGrafana:       3000,
	model.ServiceTypePrometheus:    9090,
}

// HealthEndpoints maps service types to the path probed by health checks.
var HealthEndpoints = map[model.ServiceType]string{
	model.ServiceTypeJellyfin:      "/health",
	model.ServiceTypeNextcloud:     "/status.php",
	model.ServiceTypeRadarr:        "/api/v3/system/status",
	model.ServiceTypeSonarr:        "/api/v3/system/status",
	model.ServiceTypePlex:          "/identity",
	model.ServiceTypeOverseerr:     "/api/v1/status",
	model.ServiceTypeTautulli:      "/api/v2?cmd=arnold",
	model.ServiceTypePortainer:     "/api/status",
	model.ServiceTypeHomeAssistant: "/api/",
	model.ServiceTypeGrafana:       "/api/health",
	model.ServiceTypePrometheus:    "/-/healthy",
}

// Documentation maps service types to their upstream docs.
var Documentation = map[model.ServiceType]string{
	model.ServiceTypeJellyfin:      "https://jellyfin.org/docs/",
	model.ServiceTypeNextcloud:     "https://docs.nextcloud.com/",
	model.ServiceTypeRadarr:        "https://wiki.servarr.com/radarr",
	model.ServiceTypeSonarr:        "https://wiki.servarr.com/sonarr",
	model.ServiceTypePlex:          "https://support.plex.tv/",
	model.ServiceTypeOverseerr:     "https://docs.overseerr.dev/",
	model.ServiceTypeTautulli:      "https://github.com/Tautulli/Tautulli-Wiki",
	model.ServiceTypePortainer:     "https://docs.portainer.io/",
	model.ServiceTypeHomeAssistant: "https://www.home-assistant.io/docs/",
	model.ServiceTypeGrafana:       "https://grafana.com/docs/",
	model.ServiceTypePrometheus:    "https://prometheus.io/docs/",
}

// Defaults is the preset configuration of a service type.
type Defaults struct {
	Category                 model.ServiceCategory `json:"category"`
	ServiceType              model.ServiceType     `json:"serviceType"`
	AuthType                 model.AuthType        `json:"authType"`
	RequiresAuth             bool                  `json:"requiresAuth"`
	SupportsUserProvisioning bool                  `json:"supportsUserProvisioning"`
	DefaultUserRole          string                `json:"defaultUserRole,omitempty"`
	HealthCheckInterval      int                   `json:"healthCheckInterval"`
	Icon                     string                `json:"icon"`
	Description              string                `json:"description"`
}

var defaultConfigs = map[model.ServiceType]Defaults{
	model.ServiceTypeJellyfin: {
		Category: model.CategoryMedia, ServiceType: model.ServiceTypeJellyfin, AuthType: model.AuthTypeAPIKey,
		RequiresAuth: true, SupportsUserProvisioning: true, DefaultUserRole: "User",
		HealthCheckInterval: 30, Icon: "jellyfin",
		Description: "Media server for streaming movies, TV shows, and music",
	},
	model.ServiceTypeNextcloud: {
		Category: model.CategoryStorage, ServiceType: model.ServiceTypeNextcloud, AuthType: model.AuthTypeBasicAuth,
		RequiresAuth: true, SupportsUserProvisioning: true, DefaultUserRole: "users",
		HealthCheckInterval: 30, Icon: "nextcloud",
		Description: "Personal cloud storage and collaboration platform",
	},
	model.ServiceTypeRadarr: {
		Category: model.CategoryManagement, ServiceType: model.ServiceTypeRadarr, AuthType: model.AuthTypeAPIKey,
		RequiresAuth: true, HealthCheckInterval: 60, Icon: "radarr",
		Description: "Movie collection manager",
	},
	model.ServiceTypeSonarr: {
		Category: model.CategoryManagement, ServiceType: model.ServiceTypeSonarr, AuthType: model.AuthTypeAPIKey,
		RequiresAuth: true, HealthCheckInterval: 60, Icon: "sonarr",
		Description: "TV series collection manager",
	},
	model.ServiceTypePlex: {
		Category: model.CategoryMedia, ServiceType: model.ServiceTypePlex, AuthType: model.AuthTypeOAuth,
		RequiresAuth: true, SupportsUserProvisioning: true, DefaultUserRole: "User",
		HealthCheckInterval: 30, Icon: "plex",
		Description: "Media server and streaming platform",
	},
	model.ServiceTypeOverseerr: {
		Category: model.CategoryManagement, ServiceType: model.ServiceTypeOverseerr, AuthType: model.AuthTypeAPIKey,
		RequiresAuth: true, SupportsUserProvisioning: true, DefaultUserRole: "user",
		HealthCheckInterval: 60, Icon: "overseerr",
		Description: "Request management for media servers",
	},
	model.ServiceTypeTautulli: {
		Category: model.CategoryMonitoring, ServiceType: model.ServiceTypeTautulli, AuthType: model.AuthTypeAPIKey,
		RequiresAuth: true, HealthCheckInterval: 60, Icon: "tautulli",
		Description: "Monitoring and analytics for Plex",
	},
	model.ServiceTypePortainer: {
		Category: model.CategoryManagement, ServiceType: model.ServiceTypePortainer, AuthType: model.AuthTypeBasicAuth,
		RequiresAuth: true, SupportsUserProvisioning: true, DefaultUserRole: "standard",
		HealthCheckInterval: 30, Icon: "portainer",
		Description: "Container management interface",
	},
	model.ServiceTypeHomeAssistant: {
		Category: model.CategoryManagement, ServiceType: model.ServiceTypeHomeAssistant, AuthType: model.AuthTypeAPIKey,
		RequiresAuth: true, SupportsUserProvisioning: true, DefaultUserRole: "user",
		HealthCheckInterval: 30, Icon: "homeassistant",
		Description: "Home automation platform",
	},
	model.ServiceTypeGrafana: {
		Category: model.CategoryMonitoring, ServiceType: model.ServiceTypeGrafana, AuthType: model.AuthTypeBasicAuth,
		RequiresAuth: true, SupportsUserProvisioning: true, DefaultUserRole: "Viewer",
		HealthCheckInterval: 60, Icon: "grafana",
		Description: "Monitoring and observability platform",
	},
	model.ServiceTypePrometheus: {
		Category: model.CategoryMonitoring, ServiceType: model.ServiceTypePrometheus, AuthType: model.AuthTypeBasicAuth,
		HealthCheckInterval: 60, Icon: "prometheus",
		Description: "Monitoring and alerting toolkit",
	},
	model.ServiceTypeCustom: {
		Category: model.CategoryProductivity, ServiceType: model.ServiceTypeCustom, AuthType: model.AuthTypeNone,
		HealthCheckInterval: 60, Icon: "gear",
		Description: "Custom service configuration",
	},
}

// ServiceTypes lists the known service types in catalog order.
var ServiceTypes = []model.ServiceType{
	model.ServiceTypeJellyfin,
	model.ServiceTypeNextcloud,
	model.ServiceTypeRadarr,
	model.ServiceTypeSonarr,
	model.ServiceTypePlex,
	model.ServiceTypeOverseerr,
	model.ServiceTypeTautulli,
	model.ServiceTypePortainer,
	model.ServiceTypeHomeAssistant,
	model.ServiceTypeGrafana,
	model.ServiceTypePrometheus,
	model.ServiceTypeCustom,
}

// CategoryInfo describes a service category.
type CategoryInfo struct {
	Label       string `json:"label"`
	Description string `json:"description"`
}

// Categories describes every service category.
var Categories = map[model.ServiceCategory]CategoryInfo{
	model.CategoryMedia:         {"Media", "Video, audio, and media streaming services"},
	model.CategoryStorage:       {"Storage", "File storage and synchronization services"},
	model.CategoryManagement:    {"Management", "Service and infrastructure management tools"},
	model.CategoryProductivity:  {"Productivity", "Productivity and collaboration tools"},
	model.CategorySecurity:      {"Security", "Security and authentication services"},
	model.CategoryMonitoring:    {"Monitoring", "System monitoring and analytics tools"},
	model.CategoryDevelopment:   {"Development", "Development and CI/CD tools"},
	model.CategoryCommunication: {"Communication", "Communication and messaging platforms"},
}

// DefaultConfig returns the preset of a service type and whether it exists.
func DefaultConfig(serviceType model.ServiceType) (Defaults, bool) {
	d, ok := defaultConfigs[serviceType]
	return d, ok
}

var nonKeyChars = regexp.MustCompile(`[^a-z0-9]`)
var dashRuns = regexp.MustCompile(`-+`)

// GenerateServiceKey derives the registry key of a service. Known types use
// the type itself; custom services slugify their name.
func GenerateServiceKey(serviceType model.ServiceType, name string) string {
	if serviceType != model.ServiceTypeCustom {
		return string(serviceType)
	}
	key := nonKeyChars.ReplaceAllString(strings.ToLower(name), "-")
	key = dashRuns.ReplaceAllString(key, "-")
	if len(key) > KeyMaxLength {
		key = key[:KeyMaxLength]
	}
	return key
}

// IsValidServiceURL reports whether url is an http or https URL.
func IsValidServiceURL(url string) bool {
	return validation.IsHTTPURL(url)
}

// Icon returns the icon name of a service type, "gear" when unknown.
func Icon(serviceType model.ServiceType) string {
	if d, ok := defaultConfigs[serviceType]; ok && d.Icon != "" {
		return d.Icon
	}
	return "gear"
}

// CatalogEntry is one service type as shown to admins choosing a preset.
type CatalogEntry struct {
	Defaults
	Port           int    `json:"port,omitempty"`
	HealthEndpoint string `json:"healthEndpoint,omitempty"`
	Documentation  string `json:"documentation,omitempty"`
}

// Catalog returns every known service type with its presets.
func Catalog() []CatalogEntry {
	entries := make([]CatalogEntry, 0, len(ServiceTypes))
	for _, t := range ServiceTypes {
		entries = append(entries, CatalogEntry{
			Defaults:       defaultConfigs[t],
			Port:           DefaultPorts[t],
			HealthEndpoint: HealthEndpoints[t],
			Documentation:  Documentation[t],
		})
	}
	return entries
}
