package nav

import (
	"testing"

	"github.com/sisyaclass/analytics-console/core/routing"
	"github.com/sisyaclass/analytics-console/core/session"
)

func labels(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Label)
	}
	return out
}

func find(t *testing.T, entries []Entry, label string) Entry {
	t.Helper()
	for _, e := range entries {
		if e.Label == label {
			return e
		}
	}
	t.Fatalf("entry %q not visible in %v", label, labels(entries))
	return Entry{}
}

func TestVisible(t *testing.T) {
	admin := session.Session{Token: "t", Role: session.RoleAdmin, Authenticated: true}
	subNoPerms := session.Session{Token: "t", Role: session.RoleSubadmin, Authenticated: true}
	subAI := session.Session{
		Token: "t", Role: session.RoleSubadmin, Authenticated: true,
		Permissions: session.PermissionFlags{"ai_access": true, "ai_review": true},
	}

	tests := []struct {
		name string
		sess session.Session
		want []string
	}{
		{
			name: "admin sees everything",
			sess: admin,
			want: []string{"Dashboard", "AI", "Doubts", "Users", "Settings", "Logout"},
		},
		{
			name: "subadmin without grants sees ungated entries only",
			sess: subNoPerms,
			want: []string{"Dashboard", "Settings", "Logout"},
		},
		{
			name: "subadmin with ai grants",
			sess: subAI,
			want: []string{"Dashboard", "AI", "Settings", "Logout"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := labels(Visible(Sidebar(), tt.sess))
			if len(got) != len(tt.want) {
				t.Fatalf("visible = %v; want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("visible = %v; want %v", got, tt.want)
				}
			}
		})
	}
}

func TestVisible_dashboardPathTracksRole(t *testing.T) {
	admin := session.Session{Token: "t", Role: session.RoleAdmin, Authenticated: true}
	sub := session.Session{Token: "t", Role: session.RoleSubadmin, Authenticated: true}

	if got := find(t, Visible(Sidebar(), admin), "Dashboard"); got.Path != routing.PathAdminDashboard {
		t.Errorf("admin dashboard path = %q", got.Path)
	}
	if got := find(t, Visible(Sidebar(), sub), "Dashboard"); got.Path != routing.PathSubadminDashboard {
		t.Errorf("subadmin dashboard path = %q", got.Path)
	}
}

func TestVisible_subEntryFiltering(t *testing.T) {
	// subadmin with the group grant but only one sub grant
	sess := session.Session{
		Token: "t", Role: session.RoleSubadmin, Authenticated: true,
		Permissions: session.PermissionFlags{"ai_access": true, "ai_review": true},
	}
	ai := find(t, Visible(Sidebar(), sess), "AI")
	if len(ai.SubEntries) != 1 || ai.SubEntries[0].Label != "AI Review" {
		t.Errorf("sub-entries = %+v", ai.SubEntries)
	}
	if !ai.Expandable {
		t.Error("group with remaining sub-entries should stay expandable")
	}

	// group grant but no sub grants: collapses to a leaf with its own path
	sess.Permissions = session.PermissionFlags{"ai_access": true}
	ai = find(t, Visible(Sidebar(), sess), "AI")
	if ai.Expandable || ai.SubEntries != nil {
		t.Errorf("empty group should collapse to a leaf; got %+v", ai)
	}
	if ai.Path == "" {
		t.Error("collapsed group lost its path")
	}

	// admin keeps all sub-entries regardless of permission keys
	admin := session.Session{Token: "t", Role: session.RoleAdmin, Authenticated: true}
	ai = find(t, Visible(Sidebar(), admin), "AI")
	if len(ai.SubEntries) != 2 {
		t.Errorf("admin sub-entries = %+v", ai.SubEntries)
	}
}

func TestVisible_staticConfigUnchanged(t *testing.T) {
	sub := session.Session{Token: "t", Role: session.RoleSubadmin, Authenticated: true}
	Visible(Sidebar(), sub)

	fresh := find(t, Sidebar(), "AI")
	if len(fresh.SubEntries) != 2 || !fresh.Expandable {
		t.Errorf("static sidebar mutated: %+v", fresh)
	}
}
