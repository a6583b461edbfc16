package services

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pashioya/marnix13/pkg/config"
	"github.com/pashioya/marnix13/pkg/model"
	"github.com/pashioya/marnix13/pkg/validation"
)

func TestGenerateServiceKey(t *testing.T) {
	tests := []struct {
		serviceType model.ServiceType
		name        string
		want        string
	}{
		{model.ServiceTypeJellyfin, "My Jellyfin", "jellyfin"},
		{model.ServiceTypeCustom, "My Cool  App!", "my-cool-app-"},
		{model.ServiceTypeCustom, "Bookstack", "bookstack"},
		{model.ServiceTypeCustom, "Ünïcode", "-n-code"},
		{model.ServiceTypeCustom, strings.Repeat("Media ", 15), strings.Repeat("media-", 8) + "me"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GenerateServiceKey(tt.serviceType, tt.name))
		})
	}
}

func TestIsValidServiceURL(t *testing.T) {
	assert.True(t, IsValidServiceURL("http://192.168.1.10:8096"))
	assert.True(t, IsValidServiceURL("https://cloud.example.com"))
	assert.False(t, IsValidServiceURL("ftp://example.com"))
	assert.False(t, IsValidServiceURL("example.com"))
}

func TestIcon(t *testing.T) {
	assert.Equal(t, "jellyfin", Icon(model.ServiceTypeJellyfin))
	assert.Equal(t, "gear", Icon(model.ServiceTypeCustom))
	assert.Equal(t, "gear", Icon(model.ServiceType("unknown")))
}

func TestCatalogCoversEveryType(t *testing.T) {
	entries := Catalog()
	require.Len(t, entries, len(ServiceTypes))
	for _, e := range entries {
		assert.NotEmpty(t, e.Description, e.ServiceType)
		assert.Contains(t, Categories, e.Category, e.ServiceType)
		if e.ServiceType != model.ServiceTypeCustom {
			assert.NotZero(t, e.Port, e.ServiceType)
			assert.NotEmpty(t, e.HealthEndpoint, e.ServiceType)
		}
	}
}

func TestToViewMasksAPIKey(t *testing.T) {
	key := "secret-key"
	v := ToView(model.Service{ServiceKey: "radarr", ServiceType: model.ServiceTypeRadarr, APIKey: &key})
	assert.Equal(t, "radarr", v.ID)
	assert.Equal(t, APIKeyMask, v.APIKey)
	assert.Equal(t, "radarr", v.Icon)
	assert.Equal(t, []string{}, v.Tags)

	v = ToView(model.Service{ServiceKey: "custom"})
	assert.Empty(t, v.APIKey)
}

func TestCreateRequestToModel(t *testing.T) {
	accountID, actor := uuid.New(), uuid.New()
	req := CreateRequest{Name: "Jellyfin", URL: "http://jellyfin:8096", ServiceType: model.ServiceTypeJellyfin}
	require.Nil(t, validation.ValidateStruct(&req))

	svc := req.ToModel(accountID, actor)
	assert.Equal(t, "jellyfin", svc.ServiceKey)
	assert.Equal(t, model.CategoryMedia, svc.Category)
	assert.Equal(t, model.AuthTypeAPIKey, svc.AuthType)
	assert.Equal(t, 30, svc.HealthCheckInterval)
	assert.True(t, svc.Enabled)
	assert.True(t, svc.RequiresAuth)
	assert.Equal(t, model.ServiceStatusUnknown, svc.Status)
	require.NotNil(t, svc.DefaultUserRole)
	assert.Equal(t, "User", *svc.DefaultUserRole)
	assert.Equal(t, &accountID, svc.AccountID)
	assert.Equal(t, &actor, svc.CreatedBy)
	assert.NotEqual(t, uuid.Nil, svc.ID)

	disabled := false
	custom := CreateRequest{Name: "Wiki JS", URL: "https://wiki.local", ServiceType: model.ServiceTypeCustom, Enabled: &disabled}
	svc = custom.ToModel(accountID, actor)
	assert.Equal(t, "wiki-js", svc.ServiceKey)
	assert.Equal(t, model.AuthTypeNone, svc.AuthType)
	assert.Equal(t, 60, svc.HealthCheckInterval)
	assert.False(t, svc.Enabled)
}

func TestCreateRequestValidation(t *testing.T) {
	req := CreateRequest{Name: "x", URL: "ftp://nope", ServiceType: "mysql", HealthCheckInterval: 5000}
	verr := validation.ValidateStruct(&req)
	require.NotNil(t, verr)

	fields := map[string]bool{}
	for _, e := range verr.Errors() {
		fields[e.Field()] = true
	}
	assert.True(t, fields["url"])
	assert.True(t, fields["serviceType"])
	assert.True(t, fields["healthCheckInterval"])
}

func TestUpdateRequestColumns(t *testing.T) {
	name := "Movies"
	masked := APIKeyMask
	interval := 15
	enabled := false
	req := UpdateRequest{Name: &name, APIKey: &masked, HealthCheckInterval: &interval, Enabled: &enabled}

	cols := req.Columns()
	assert.Equal(t, map[string]interface{}{
		"name":                  "Movies",
		"health_check_interval": 15,
		"enabled":               false,
	}, cols)

	empty := ""
	cols = UpdateRequest{APIKey: &empty}.Columns()
	assert.Contains(t, cols, "api_key")
	assert.Nil(t, cols["api_key"])
}

func TestConnectionTestTimeout(t *testing.T) {
	assert.Equal(t, "5s", ConnectionTest{}.TimeoutDuration().String())
	assert.Equal(t, "1.5s", ConnectionTest{Timeout: 1500}.TimeoutDuration().String())
}

func TestPortalLinks(t *testing.T) {
	cfg := &config.PortalConfig{JellyfinURL: "https://jellyfin.example.com"}
	links := PortalLinks(cfg)
	require.Len(t, links, 5)

	assert.Equal(t, "Jellyfin", links[0].Name)
	assert.True(t, links[0].Configured)
	assert.Equal(t, "https://jellyfin.example.com", links[0].URL)

	for _, l := range links[1:] {
		assert.False(t, l.Configured, l.Name)
		assert.Equal(t, NotConfiguredURL, l.URL, l.Name)
	}

	featured := FeaturedLinks(links)
	require.Len(t, featured, 2)
	assert.Equal(t, "Nextcloud", featured[1].Name)
}

func TestSeedRequests(t *testing.T) {
	cfg := &config.PortalConfig{
		JellyfinURL:    "https://jellyfin.example.com",
		SonarrURL:      "http://sonarr.lan:8989",
		MangaReaderURL: "https://manga.example.com",
	}

	reqs := SeedRequests(cfg)
	require.Len(t, reqs, 2)

	assert.Equal(t, "jellyfin", reqs[0].ID)
	assert.Equal(t, model.ServiceTypeJellyfin, reqs[0].ServiceType)
	assert.True(t, reqs[0].SSLEnabled)

	assert.Equal(t, "sonarr", reqs[1].ID)
	assert.False(t, reqs[1].SSLEnabled)

	for _, r := range reqs {
		assert.Nil(t, validation.ValidateStruct(&r), r.Name)
	}

	assert.Empty(t, SeedRequests(&config.PortalConfig{}))
}
