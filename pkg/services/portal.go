package services

import (
	"strings"

	"github.com/pashioya/marnix13/pkg/config"
	"github.com/pashioya/marnix13/pkg/model"
)

// NotConfiguredURL is the link target of a service without a configured URL.
const NotConfiguredURL = "#"

// PortalLink is a service tile on the user dashboard.
type PortalLink struct {
	Name        string                `json:"name"`
	Description string                `json:"description"`
	URL         string                `json:"url"`
	Icon        string                `json:"icon"`
	Category    model.ServiceCategory `json:"category"`
	Featured    bool                  `json:"featured"`
	Configured  bool                  `json:"configured"`
}

// PortalLinks returns the dashboard tiles with URLs taken from cfg.
func PortalLinks(cfg *config.PortalConfig) []PortalLink {
	links := []PortalLink{
		{
			Name:        "Jellyfin",
			Description: "Stream your personal media library",
			URL:         cfg.JellyfinURL,
			Icon:        "film",
			Category:    model.CategoryMedia,
			Featured:    true,
		},
		{
			Name:        "Manga Reader",
			Description: "Read your manga collection",
			URL:         cfg.MangaReaderURL,
			Icon:        "book",
			Category:    model.CategoryMedia,
		},
		{
			Name:        "Radarr",
			Description: "Movie collection manager",
			URL:         cfg.RadarrURL,
			Icon:        "clapperboard",
			Category:    model.CategoryManagement,
		},
		{
			Name:        "Sonarr",
			Description: "TV series collection manager",
			URL:         cfg.SonarrURL,
			Icon:        "settings",
			Category:    model.CategoryManagement,
		},
		{
			Name:        "Nextcloud",
			Description: "Your personal cloud storage",
			URL:         cfg.NextcloudURL,
			Icon:        "cloud",
			Category:    model.CategoryProductivity,
			Featured:    true,
		},
	}

	for i := range links {
		if links[i].URL == "" {
			links[i].URL = NotConfiguredURL
			continue
		}
		links[i].Configured = true
	}
	return links
}

// FeaturedLinks returns the featured subset of links.
func FeaturedLinks(links []PortalLink) []PortalLink {
	featured := []PortalLink{}
	for _, l := range links {
		if l.Featured {
			featured = append(featured, l)
		}
	}
	return featured
}

// SeedRequests returns a registration for every service type whose URL is
// set in cfg. Manga Reader has no service type and is not registered.
func SeedRequests(cfg *config.PortalConfig) []CreateRequest {
	candidates := []struct {
		serviceType model.ServiceType
		name        string
		url         string
	}{
		{model.ServiceTypeJellyfin, "Jellyfin", cfg.JellyfinURL},
		{model.ServiceTypeNextcloud, "Nextcloud", cfg.NextcloudURL},
		{model.ServiceTypeRadarr, "Radarr", cfg.RadarrURL},
		{model.ServiceTypeSonarr, "Sonarr", cfg.SonarrURL},
	}

	var reqs []CreateRequest
	for _, c := range candidates {
		if c.url == "" {
			continue
		}
		reqs = append(reqs, CreateRequest{
			ID:          string(c.serviceType),
			Name:        c.name,
			URL:         c.url,
			ServiceType: c.serviceType,
			SSLEnabled:  strings.HasPrefix(c.url, "https://"),
		})
	}
	return reqs
}
