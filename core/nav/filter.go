package nav

import (
	"github.com/sisyaclass/analytics-console/core/routing"
	"github.com/sisyaclass/analytics-console/core/session"
)

// Visible filters entries against the current session: role membership first,
// then permission flags (subadmins only; entries without a key always pass the
// permission filter). Sub-entries are filtered by the same permission rule; a
// group left with no sub-entries collapses to a leaf with its own path.
func Visible(entries []Entry, sess session.Session) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if !roleAllowed(e.Roles, sess.Role) {
			continue
		}
		if !sess.HasPermission(e.PermissionKey) {
			continue
		}

		if e.Dashboard {
			if home, ok := routing.Dashboard(sess.Role); ok {
				e.Path = home
			}
		}

		if len(e.SubEntries) > 0 {
			subs := make([]SubEntry, 0, len(e.SubEntries))
			for _, sub := range e.SubEntries {
				if sess.HasPermission(sub.PermissionKey) {
					subs = append(subs, sub)
				}
			}
			if len(subs) == 0 {
				// never an empty expandable group
				e.Expandable = false
				subs = nil
			}
			e.SubEntries = subs
		}

		out = append(out, e)
	}
	return out
}

func roleAllowed(roles []string, role string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
