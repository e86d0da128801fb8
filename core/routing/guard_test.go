package routing

import (
	"testing"

	"github.com/sisyaclass/analytics-console/core/session"
)

func TestDecide(t *testing.T) {
	admin := session.Session{
		Token: "t", Role: session.RoleAdmin, Authenticated: true,
	}
	subadmin := session.Session{
		Token: "t", Role: session.RoleSubadmin, Authenticated: true,
		Permissions: session.PermissionFlags{"doubts_access": true},
	}
	anon := session.Session{}

	adminOnly := Rule{AllowedRoles: []string{session.RoleAdmin}}

	tests := []struct {
		name      string
		rule      Rule
		sess      session.Session
		requested string
		want      Decision
	}{
		{
			name: "unauthenticated redirects to login with next",
			rule: adminOnly, sess: anon, requested: PathAttendance,
			want: Decision{RedirectTo: PathLogin, Next: PathAttendance},
		},
		{
			name: "admin allowed",
			rule: adminOnly, sess: admin, requested: PathAttendance,
			want: Decision{Allow: true},
		},
		{
			name: "subadmin on admin route redirects to own dashboard",
			rule: adminOnly, sess: subadmin, requested: PathUsers,
			want: Decision{RedirectTo: PathSubadminDashboard},
		},
		{
			name: "admin on subadmin route redirects to own dashboard",
			rule: Rule{AllowedRoles: []string{session.RoleSubadmin}}, sess: admin, requested: PathSubadminDashboard,
			want: Decision{RedirectTo: PathAdminDashboard},
		},
		{
			name: "subadmin with granted permission allowed",
			rule: Rule{PermissionKey: "doubts_access"}, sess: subadmin, requested: PathDoubts,
			want: Decision{Allow: true},
		},
		{
			name: "subadmin without permission fails closed",
			rule: Rule{PermissionKey: "attendance_access"}, sess: subadmin, requested: PathAttendance,
			want: Decision{RedirectTo: PathSubadminDashboard},
		},
		{
			name: "admin ignores permission keys",
			rule: Rule{PermissionKey: "attendance_access"}, sess: admin, requested: PathAttendance,
			want: Decision{Allow: true},
		},
		{
			name: "unknown role treated as unauthenticated",
			rule: adminOnly,
			sess: session.Session{Token: "t", Role: "owner", Authenticated: true}, requested: PathUsers,
			want: Decision{RedirectTo: PathLogin, Next: PathUsers},
		},
		{
			name: "zero rule requires authentication only",
			rule: Rule{}, sess: subadmin, requested: PathSettings,
			want: Decision{Allow: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decide(tt.rule, tt.sess, tt.requested); got != tt.want {
				t.Errorf("Decide() = %+v; want %+v", got, tt.want)
			}
		})
	}
}

func TestDashboard(t *testing.T) {
	if got, ok := Dashboard(session.RoleAdmin); !ok || got != PathAdminDashboard {
		t.Errorf("Dashboard(admin) = %q, %v", got, ok)
	}
	if got, ok := Dashboard(session.RoleSubadmin); !ok || got != PathSubadminDashboard {
		t.Errorf("Dashboard(subadmin) = %q, %v", got, ok)
	}
	if _, ok := Dashboard("teacher"); ok {
		t.Error("Dashboard(teacher) should not resolve")
	}
}
