package navigation

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// AdministrationLabel is the label of the admin-only section.
const AdministrationLabel = "Administration"

const adminPathPrefix = "/home/admin"

//go:embed navigation.yml
var defaultConfig []byte

// Route is a navigation entry. A route with children is a section, a
// route with Divider set is a separator, anything else links to Path.
type Route struct {
	Label    string  `yaml:"label,omitempty" json:"label,omitempty"`
	Path     string  `yaml:"path,omitempty" json:"path,omitempty"`
	Icon     string  `yaml:"icon,omitempty" json:"icon,omitempty"`
	End      bool    `yaml:"end,omitempty" json:"end,omitempty"`
	Divider  bool    `yaml:"divider,omitempty" json:"divider,omitempty"`
	Children []Route `yaml:"children,omitempty" json:"children,omitempty"`
}

func isAdminPath(path string) bool {
	return strings.Contains(path, "/admin/")
}

// Config is the sidebar navigation of the dashboard.
type Config struct {
	Style            string  `yaml:"style" json:"style"`
	SidebarCollapsed bool    `yaml:"sidebar_collapsed" json:"sidebarCollapsed"`
	Routes           []Route `yaml:"routes" json:"routes"`
}

// Parse decodes a navigation config.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing navigation config: %w", err)
	}
	for i, r := range cfg.Routes {
		if !r.Divider && r.Label == "" {
			return nil, fmt.Errorf("navigation route %d has no label", i)
		}
	}
	return cfg, nil
}

// Default returns the built-in navigation config.
func Default() *Config {
	cfg, err := Parse(defaultConfig)
	if err != nil {
		panic(err)
	}
	return cfg
}

// ForUser returns the config with admin routes removed unless isAdmin.
func (c *Config) ForUser(isAdmin bool) *Config {
	out := *c
	out.Routes = FilterAdminRoutes(c.Routes, isAdmin)
	return &out
}

// FilterAdminRoutes removes admin-only routes for non-admins. The
// Administration section is dropped whole, other sections lose their
// admin children and disappear when nothing is left. Dividers are kept.
func FilterAdminRoutes(routes []Route, isAdmin bool) []Route {
	if isAdmin {
		return routes
	}

	filtered := make([]Route, 0, len(routes))
	for _, route := range routes {
		switch {
		case route.Divider:
			filtered = append(filtered, route)
		case route.Children != nil:
			if route.Label == AdministrationLabel {
				continue
			}
			children := make([]Route, 0, len(route.Children))
			for _, child := range route.Children {
				if child.Path != "" && isAdminPath(child.Path) {
					continue
				}
				children = append(children, child)
			}
			if len(children) == 0 {
				continue
			}
			route.Children = children
			filtered = append(filtered, route)
		case route.Path != "":
			if !isAdminPath(route.Path) {
				filtered = append(filtered, route)
			}
		default:
			filtered = append(filtered, route)
		}
	}
	return filtered
}

// Item is a flat navigation entry, as used by the mobile menu.
type Item struct {
	Label string `json:"label"`
	Path  string `json:"path,omitempty"`
	Icon  string `json:"icon,omitempty"`
}

// Flatten lists the link routes of routes in order.
func Flatten(routes []Route) []Item {
	var items []Item
	for _, r := range routes {
		if r.Divider {
			continue
		}
		if r.Children != nil {
			items = append(items, Flatten(r.Children)...)
			continue
		}
		items = append(items, Item{Label: r.Label, Path: r.Path, Icon: r.Icon})
	}
	return items
}

// FilterByAccess drops items under /home/admin for non-admins. Items
// without a path are kept.
func FilterByAccess(items []Item, isAdmin bool) []Item {
	if isAdmin {
		return items
	}
	filtered := make([]Item, 0, len(items))
	for _, item := range items {
		if item.Path != "" && strings.HasPrefix(item.Path, adminPathPrefix) {
			continue
		}
		filtered = append(filtered, item)
	}
	return filtered
}
