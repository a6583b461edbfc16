package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/pashioya/marnix13/pkg/model"
)

// View is the API representation of a service. ID is the service key.
type View struct {
	ID                       string                    `json:"id"`
	Name                     string                    `json:"name"`
	Description              string                    `json:"description"`
	URL                      string                    `json:"url"`
	APIKey                   string                    `json:"apiKey,omitempty"`
	Enabled                  bool                      `json:"enabled"`
	AutoProvision            bool                      `json:"autoProvision"`
	Status                   model.ServiceStatus       `json:"status"`
	LastHealthCheck          *time.Time                `json:"lastHealthCheck,omitempty"`
	ResponseTimeMs           *int                      `json:"responseTimeMs,omitempty"`
	LastError                *string                   `json:"lastError,omitempty"`
	HealthCheckInterval      int                       `json:"healthCheckInterval"`
	Category                 model.ServiceCategory     `json:"category"`
	ServiceType              model.ServiceType         `json:"serviceType"`
	AuthType                 model.AuthType            `json:"authType"`
	RequiresAuth             bool                      `json:"requiresAuth"`
	SSLEnabled               bool                      `json:"sslEnabled"`
	SupportsUserProvisioning bool                      `json:"supportsUserProvisioning"`
	UserProvisioningConfig   *model.ProvisioningConfig `json:"userProvisioningConfig,omitempty"`
	DefaultUserRole          string                    `json:"defaultUserRole,omitempty"`
	Version                  string                    `json:"version,omitempty"`
	Icon                     string                    `json:"icon"`
	Documentation            string                    `json:"documentation,omitempty"`
	Tags                     []string                  `json:"tags"`
	AccountID                *uuid.UUID                `json:"accountId,omitempty"`
	CreatedAt                time.Time                 `json:"createdAt"`
	UpdatedAt                time.Time                 `json:"updatedAt"`
	CreatedBy                *uuid.UUID                `json:"createdBy,omitempty"`
	UpdatedBy                *uuid.UUID                `json:"updatedBy,omitempty"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ToView converts a row for the API. A stored API key is replaced by
// APIKeyMask.
func ToView(s model.Service) View {
	v := View{
		ID:                       s.ServiceKey,
		Name:                     s.Name,
		Description:              deref(s.Description),
		URL:                      s.URL,
		Enabled:                  s.Enabled,
		AutoProvision:            s.AutoProvision,
		Status:                   s.Status,
		LastHealthCheck:          s.LastHealthCheck,
		ResponseTimeMs:           s.ResponseTimeMs,
		LastError:                s.LastError,
		HealthCheckInterval:      s.HealthCheckInterval,
		Category:                 s.Category,
		ServiceType:              s.ServiceType,
		AuthType:                 s.AuthType,
		RequiresAuth:             s.RequiresAuth,
		SSLEnabled:               s.SSLEnabled,
		SupportsUserProvisioning: s.SupportsUserProvisioning,
		UserProvisioningConfig:   s.UserProvisioningConfig,
		DefaultUserRole:          deref(s.DefaultUserRole),
		Version:                  deref(s.Version),
		Icon:                     deref(s.Icon),
		Documentation:            deref(s.Documentation),
		Tags:                     []string(s.Tags),
		AccountID:                s.AccountID,
		CreatedAt:                s.CreatedAt,
		UpdatedAt:                s.UpdatedAt,
		CreatedBy:                s.CreatedBy,
		UpdatedBy:                s.UpdatedBy,
	}
	if s.APIKey != nil && *s.APIKey != "" {
		v.APIKey = APIKeyMask
	}
	if v.Tags == nil {
		v.Tags = []string{}
	}
	if v.Icon == "" {
		v.Icon = Icon(s.ServiceType)
	}
	return v
}

// ToViews converts a list of rows.
func ToViews(rows []model.Service) []View {
	views := make([]View, 0, len(rows))
	for _, s := range rows {
		views = append(views, ToView(s))
	}
	return views
}

// CreateRequest is the body of a service registration. Zero values of the
// preset fields are filled from the service type's defaults.
type CreateRequest struct {
	ID                       string                    `json:"id" validate:"omitempty,min=1,max=50"`
	Name                     string                    `json:"name" validate:"required,min=1,max=100"`
	Description              string                    `json:"description" validate:"max=500"`
	URL                      string                    `json:"url" validate:"required,httpurl"`
	APIKey                   string                    `json:"apiKey"`
	Enabled                  *bool                     `json:"enabled"`
	AutoProvision            bool                      `json:"autoProvision"`
	HealthCheckInterval      int                       `json:"healthCheckInterval" validate:"omitempty,min=1,max=1440"`
	Category                 model.ServiceCategory     `json:"category" validate:"omitempty,oneof=media storage management productivity security monitoring development communication"`
	ServiceType              model.ServiceType         `json:"serviceType" validate:"required,oneof=jellyfin nextcloud radarr sonarr plex overseerr tautulli portainer homeassistant grafana prometheus custom"`
	AuthType                 model.AuthType            `json:"authType" validate:"omitempty,oneof=api_key basic_auth oauth none"`
	RequiresAuth             *bool                     `json:"requiresAuth"`
	SSLEnabled               bool                      `json:"sslEnabled"`
	SupportsUserProvisioning *bool                     `json:"supportsUserProvisioning"`
	UserProvisioningConfig   *model.ProvisioningConfig `json:"userProvisioningConfig"`
	DefaultUserRole          string                    `json:"defaultUserRole" validate:"max=100"`
	Version                  string                    `json:"version" validate:"max=50"`
	Icon                     string                    `json:"icon"`
	Documentation            string                    `json:"documentation" validate:"omitempty,url"`
	Tags                     []string                  `json:"tags"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}

// ToModel builds the row to insert, owned by accountID and created by actor.
func (r CreateRequest) ToModel(accountID, actor uuid.UUID) model.Service {
	d, _ := DefaultConfig(r.ServiceType)

	key := r.ID
	if key == "" {
		key = GenerateServiceKey(r.ServiceType, r.Name)
	}
	category := r.Category
	if category == "" {
		category = d.Category
	}
	authType := r.AuthType
	if authType == "" {
		authType = d.AuthType
		if authType == "" {
			authType = model.AuthTypeNone
		}
	}
	interval := r.HealthCheckInterval
	if interval == 0 {
		interval = d.HealthCheckInterval
		if interval == 0 {
			interval = DefaultHealthCheckInterval
		}
	}
	description := r.Description
	if description == "" {
		description = d.Description
	}
	role := r.DefaultUserRole
	if role == "" {
		role = d.DefaultUserRole
	}
	icon := r.Icon
	if icon == "" {
		icon = Icon(r.ServiceType)
	}
	documentation := r.Documentation
	if documentation == "" {
		documentation = Documentation[r.ServiceType]
	}
	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}

	now := time.Now().UTC()
	return model.Service{
		ID:                       uuid.New(),
		AccountID:                &accountID,
		ServiceKey:               key,
		Name:                     r.Name,
		Description:              optional(description),
		URL:                      r.URL,
		APIKey:                   optional(r.APIKey),
		Enabled:                  boolOr(r.Enabled, true),
		AutoProvision:            r.AutoProvision,
		Status:                   model.ServiceStatusUnknown,
		HealthCheckInterval:      interval,
		Category:                 category,
		ServiceType:              r.ServiceType,
		AuthType:                 authType,
		RequiresAuth:             boolOr(r.RequiresAuth, d.RequiresAuth),
		SSLEnabled:               r.SSLEnabled,
		SupportsUserProvisioning: boolOr(r.SupportsUserProvisioning, d.SupportsUserProvisioning),
		UserProvisioningConfig:   r.UserProvisioningConfig,
		DefaultUserRole:          optional(role),
		Version:                  optional(r.Version),
		Icon:                     optional(icon),
		Documentation:            optional(documentation),
		Tags:                     pq.StringArray(tags),
		CreatedAt:                now,
		UpdatedAt:                now,
		CreatedBy:                &actor,
		UpdatedBy:                &actor,
	}
}

// UpdateRequest is a partial update. Only non-nil fields are written.
type UpdateRequest struct {
	Name                     *string                   `json:"name" validate:"omitempty,min=1,max=100"`
	Description              *string                   `json:"description" validate:"omitempty,max=500"`
	URL                      *string                   `json:"url" validate:"omitempty,httpurl"`
	APIKey                   *string                   `json:"apiKey"`
	Enabled                  *bool                     `json:"enabled"`
	AutoProvision            *bool                     `json:"autoProvision"`
	HealthCheckInterval      *int                      `json:"healthCheckInterval" validate:"omitempty,min=1,max=1440"`
	Category                 *model.ServiceCategory    `json:"category" validate:"omitempty,oneof=media storage management productivity security monitoring development communication"`
	AuthType                 *model.AuthType           `json:"authType" validate:"omitempty,oneof=api_key basic_auth oauth none"`
	RequiresAuth             *bool                     `json:"requiresAuth"`
	SSLEnabled               *bool                     `json:"sslEnabled"`
	SupportsUserProvisioning *bool                     `json:"supportsUserProvisioning"`
	UserProvisioningConfig   *model.ProvisioningConfig `json:"userProvisioningConfig"`
	DefaultUserRole          *string                   `json:"defaultUserRole" validate:"omitempty,max=100"`
	Version                  *string                   `json:"version" validate:"omitempty,max=50"`
	Icon                     *string                   `json:"icon"`
	Documentation            *string                   `json:"documentation" validate:"omitempty,url"`
	Tags                     *[]string                 `json:"tags"`
}

// Columns returns the column values to write. A masked API key is treated
// as unchanged.
func (r UpdateRequest) Columns() map[string]interface{} {
	cols := map[string]interface{}{}
	set := func(name string, present bool, value interface{}) {
		if present {
			cols[name] = value
		}
	}

	set("name", r.Name != nil, derefOrNil(r.Name))
	set("description", r.Description != nil, derefOrNil(r.Description))
	set("url", r.URL != nil, derefOrNil(r.URL))
	if r.APIKey != nil && *r.APIKey != APIKeyMask {
		cols["api_key"] = optional(*r.APIKey)
	}
	set("enabled", r.Enabled != nil, derefBool(r.Enabled))
	set("auto_provision", r.AutoProvision != nil, derefBool(r.AutoProvision))
	if r.HealthCheckInterval != nil {
		cols["health_check_interval"] = *r.HealthCheckInterval
	}
	if r.Category != nil {
		cols["category"] = string(*r.Category)
	}
	if r.AuthType != nil {
		cols["auth_type"] = string(*r.AuthType)
	}
	set("requires_auth", r.RequiresAuth != nil, derefBool(r.RequiresAuth))
	set("ssl_enabled", r.SSLEnabled != nil, derefBool(r.SSLEnabled))
	set("supports_user_provisioning", r.SupportsUserProvisioning != nil, derefBool(r.SupportsUserProvisioning))
	if r.UserProvisioningConfig != nil {
		cols["user_provisioning_config"] = *r.UserProvisioningConfig
	}
	set("default_user_role", r.DefaultUserRole != nil, derefOrNil(r.DefaultUserRole))
	set("version", r.Version != nil, derefOrNil(r.Version))
	set("icon", r.Icon != nil, derefOrNil(r.Icon))
	set("documentation", r.Documentation != nil, derefOrNil(r.Documentation))
	if r.Tags != nil {
		cols["tags"] = pq.StringArray(*r.Tags)
	}
	return cols
}

func derefOrNil(s *string) interface{} {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}

func derefBool(b *bool) bool {
	return b != nil && *b
}

// ConnectionTest is the body of an ad-hoc connectivity check.
type ConnectionTest struct {
	URL         string            `json:"url" validate:"required,httpurl"`
	AuthType    model.AuthType    `json:"authType" validate:"required,oneof=api_key basic_auth oauth none"`
	APIKey      string            `json:"apiKey"`
	ServiceType model.ServiceType `json:"serviceType" validate:"omitempty,oneof=jellyfin nextcloud radarr sonarr plex overseerr tautulli portainer homeassistant grafana prometheus custom"`
	Timeout     int               `json:"timeout" validate:"omitempty,min=1000,max=30000"`
}

// TimeoutDuration returns the test timeout, defaulting to 5 seconds.
func (c ConnectionTest) TimeoutDuration() time.Duration {
	if c.Timeout == 0 {
		return DefaultConnectionTimeoutMs * time.Millisecond
	}
	return time.Duration(c.Timeout) * time.Millisecond
}
