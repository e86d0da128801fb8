package routing

import "github.com/sisyaclass/analytics-console/core/session"

// Console view paths.
const (
	PathLogin             = "/login"
	PathAdminDashboard    = "/admin"
	PathSubadminDashboard = "/subadmin"
	PathAttendance        = "/attendance"
	PathAIDoubtDetail     = "/admin/ai/doubt-detail"
	PathAIReview          = "/admin/ai/review"
	PathDoubts            = "/admin/doubts"
	PathUsers             = "/admin/users"
	PathSettings          = "/settings"
)

// Dashboard resolves a role's home dashboard path.
func Dashboard(role string) (string, bool) {
	switch role {
	case session.RoleAdmin:
		return PathAdminDashboard, true
	case session.RoleSubadmin:
		return PathSubadminDashboard, true
	}
	return "", false
}
