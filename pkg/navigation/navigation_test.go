package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRoutes() []Route {
	return []Route{
		{Label: "Application", Children: []Route{
			{Label: "Home", Path: "/home"},
			{Label: "Users", Path: "/home/admin/users"},
		}},
		{Divider: true},
		{Label: AdministrationLabel, Children: []Route{
			{Label: "Services", Path: "/home/services"},
		}},
		{Label: "Admin only", Children: []Route{
			{Label: "Approvals", Path: "/home/admin/approvals"},
		}},
		{Label: "Audit", Path: "/home/admin/audit"},
		{Label: "Help", Path: "/help"},
	}
}

func TestFilterAdminRoutesForUser(t *testing.T) {
	routes := FilterAdminRoutes(testRoutes(), false)

	require.Len(t, routes, 3)
	assert.Equal(t, "Application", routes[0].Label)
	assert.Equal(t, []Route{{Label: "Home", Path: "/home"}}, routes[0].Children)
	assert.True(t, routes[1].Divider)
	assert.Equal(t, "Help", routes[2].Label)
}

func TestFilterAdminRoutesForAdmin(t *testing.T) {
	assert.Equal(t, testRoutes(), FilterAdminRoutes(testRoutes(), true))
}

func TestFilterAdminRoutesLeavesInputUntouched(t *testing.T) {
	routes := testRoutes()
	FilterAdminRoutes(routes, false)
	assert.Len(t, routes[0].Children, 2)
}

func TestFilterByAccess(t *testing.T) {
	items := []Item{
		{Label: "Home", Path: "/home"},
		{Label: "Admin", Path: "/home/admin"},
		{Label: "Users", Path: "/home/admin/users"},
		{Label: "Docs"},
	}

	assert.Equal(t, []Item{{Label: "Home", Path: "/home"}, {Label: "Docs"}}, FilterByAccess(items, false))
	assert.Equal(t, items, FilterByAccess(items, true))
}

func TestDefaultConfig(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "sidebar", cfg.Style)

	admin := cfg.ForUser(true)
	user := cfg.ForUser(false)
	assert.Greater(t, len(admin.Routes), len(user.Routes))

	for _, item := range Flatten(user.Routes) {
		assert.NotContains(t, item.Path, "/admin", item.Label)
	}
	assert.Contains(t, Flatten(admin.Routes), Item{Label: "User Approvals", Path: "/home/admin/users", Icon: "user-check"})
}

func TestParseRejectsUnlabelledRoute(t *testing.T) {
	_, err := Parse([]byte("routes:\n  - path: /home\n"))
	assert.Error(t, err)
}
