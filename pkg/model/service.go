package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type ServiceStatus string

const (
	ServiceStatusOnline  ServiceStatus = "online"
	ServiceStatusOffline ServiceStatus = "offline"
	ServiceStatusError   ServiceStatus = "error"
	ServiceStatusUnknown ServiceStatus = "unknown"
)

type ServiceCategory string

const (
	CategoryMedia         ServiceCategory = "media"
	CategoryStorage       ServiceCategory = "storage"
	CategoryManagement    ServiceCategory = "management"
	CategoryProductivity  ServiceCategory = "productivity"
	CategorySecurity      ServiceCategory = "security"
	CategoryMonitoring    ServiceCategory = "monitoring"
	CategoryDevelopment   ServiceCategory = "development"
	CategoryCommunication ServiceCategory = "communication"
)

type ServiceType string

const (
	ServiceTypeJellyfin      ServiceType = "jellyfin"
	ServiceTypeNextcloud     ServiceType = "nextcloud"
	ServiceTypeRadarr        ServiceType = "radarr"
	ServiceTypeSonarr        ServiceType = "sonarr"
	ServiceTypePlex          ServiceType = "plex"
	ServiceTypeOverseerr     ServiceType = "overseerr"
	ServiceTypeTautulli      ServiceType = "tautulli"
	ServiceTypePortainer     ServiceType = "portainer"
	ServiceTypeHomeAssistant ServiceType = "homeassistant"
	ServiceTypeGrafana       ServiceType = "grafana"
	ServiceTypePrometheus    ServiceType = "prometheus"
	ServiceTypeCustom        ServiceType = "custom"
)

type AuthType string

const (
	AuthTypeAPIKey    AuthType = "api_key"
	AuthTypeBasicAuth AuthType = "basic_auth"
	AuthTypeOAuth     AuthType = "oauth"
	AuthTypeNone      AuthType = "none"
)

// ProvisioningConfig describes how accounts are created on a service.
// Stored as jsonb in services.user_provisioning_config.
type ProvisioningConfig struct {
	Endpoint     string                 `json:"endpoint,omitempty" validate:"omitempty,url"`
	DefaultRole  string                 `json:"defaultRole,omitempty"`
	CreateGroups bool                   `json:"createGroups"`
	SyncUserData bool                   `json:"syncUserData"`
	CustomFields map[string]interface{} `json:"customFields,omitempty"`
}

// DefaultProvisioningConfig returns the config used when none is given.
func DefaultProvisioningConfig() ProvisioningConfig {
	return ProvisioningConfig{CreateGroups: false, SyncUserData: true}
}

func (p ProvisioningConfig) Value() (driver.Value, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (p *ProvisioningConfig) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		*p = DefaultProvisioningConfig()
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("invalid value of ProvisioningConfig: %T", value)
	}
	cfg := DefaultProvisioningConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return err
	}
	*p = cfg
	return nil
}

// Service is a row of public.services
type Service struct {
	ID                       uuid.UUID           `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	AccountID                *uuid.UUID          `gorm:"column:account_id;type:uuid"`
	ServiceKey               string              `gorm:"column:service_key"`
	Name                     string              `gorm:"column:name"`
	Description              *string             `gorm:"column:description"`
	URL                      string              `gorm:"column:url"`
	APIKey                   *string             `gorm:"column:api_key"`
	Enabled                  bool                `gorm:"column:enabled"`
	AutoProvision            bool                `gorm:"column:auto_provision"`
	Status                   ServiceStatus       `gorm:"column:status"`
	LastHealthCheck          *time.Time          `gorm:"column:last_health_check"`
	ResponseTimeMs           *int                `gorm:"column:response_time_ms"`
	LastError                *string             `gorm:"column:last_error"`
	HealthCheckInterval      int                 `gorm:"column:health_check_interval"`
	Category                 ServiceCategory     `gorm:"column:category"`
	ServiceType              ServiceType         `gorm:"column:service_type"`
	AuthType                 AuthType            `gorm:"column:auth_type"`
	RequiresAuth             bool                `gorm:"column:requires_auth"`
	SSLEnabled               bool                `gorm:"column:ssl_enabled"`
	SupportsUserProvisioning bool                `gorm:"column:supports_user_provisioning"`
	UserProvisioningConfig   *ProvisioningConfig `gorm:"column:user_provisioning_config;type:jsonb"`
	DefaultUserRole          *string             `gorm:"column:default_user_role"`
	Version                  *string             `gorm:"column:version"`
	Icon                     *string             `gorm:"column:icon"`
	Documentation            *string             `gorm:"column:documentation"`
	Tags                     pq.StringArray      `gorm:"column:tags;type:text[]"`
	CreatedAt                time.Time           `gorm:"column:created_at"`
	UpdatedAt                time.Time           `gorm:"column:updated_at"`
	CreatedBy                *uuid.UUID          `gorm:"column:created_by;type:uuid"`
	UpdatedBy                *uuid.UUID          `gorm:"column:updated_by;type:uuid"`
}

func (Service) TableName() string {
	return "services"
}

// HealthCheckDue reports whether the service should be probed at now.
func (s Service) HealthCheckDue(now time.Time) bool {
	if !s.Enabled {
		return false
	}
	if s.LastHealthCheck == nil {
		return true
	}
	interval := time.Duration(s.HealthCheckInterval) * time.Minute
	return !now.Before(s.LastHealthCheck.Add(interval))
}
