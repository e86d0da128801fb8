package nav

import (
	"github.com/sisyaclass/analytics-console/core/routing"
	"github.com/sisyaclass/analytics-console/core/session"
)

type (
	// SubEntry is a nested navigation link, at most one level deep.
	SubEntry struct {
		Label         string `json:"label"`
		Path          string `json:"path"`
		PermissionKey string `json:"-"`
	}

	// Entry is one sidebar item. Entries are static; they are filtered
	// per-render against the current session, never mutated.
	Entry struct {
		Label         string     `json:"label"`
		Icon          string     `json:"icon"`
		Roles         []string   `json:"-"`
		PermissionKey string     `json:"-"`
		Path          string     `json:"path"`
		Expandable    bool       `json:"expandable,omitempty"`
		SubEntries    []SubEntry `json:"subEntries,omitempty"`

		// Dashboard entries resolve their path dynamically to the current
		// role's dashboard, overriding the static path.
		Dashboard bool `json:"-"`
	}
)

// Sidebar returns the static navigation declaration.
func Sidebar() []Entry {
	return []Entry{
		{
			Label:     "Dashboard",
			Icon:      "layout-dashboard",
			Roles:     []string{session.RoleAdmin, session.RoleSubadmin},
			Path:      routing.PathAdminDashboard,
			Dashboard: true,
		},
		{
			Label:         "AI",
			Icon:          "robot",
			Roles:         []string{session.RoleAdmin, session.RoleSubadmin},
			PermissionKey: "ai_access",
			Path:          routing.PathAIReview,
			Expandable:    true,
			SubEntries: []SubEntry{
				{Label: "AI Doubt Detail", Path: routing.PathAIDoubtDetail, PermissionKey: "ai_doubt_detail"},
				{Label: "AI Review", Path: routing.PathAIReview, PermissionKey: "ai_review"},
			},
		},
		{
			Label:         "Doubts",
			Icon:          "message-circle",
			Roles:         []string{session.RoleAdmin, session.RoleSubadmin},
			PermissionKey: "doubts_access",
			Path:          routing.PathDoubts,
		},
		{
			Label: "Users",
			Icon:  "users",
			Roles: []string{session.RoleAdmin},
			Path:  routing.PathUsers,
		},
		{
			Label: "Settings",
			Icon:  "settings",
			Roles: []string{session.RoleAdmin, session.RoleSubadmin},
			Path:  routing.PathSettings,
		},
		{
			Label: "Logout",
			Icon:  "arrow-left",
			Roles: []string{session.RoleAdmin, session.RoleSubadmin},
			Path:  routing.PathLogin,
		},
	}
}
