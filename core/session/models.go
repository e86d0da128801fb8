package session

// Roles
const (
	RoleAdmin    = "admin"
	RoleSubadmin = "subadmin"
)

var AllRoles = []string{RoleAdmin, RoleSubadmin}

// ValidRole reports whether role is one of the known console roles.
func ValidRole(role string) bool {
	for _, r := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

// Identity is the authenticated staff identity as returned by the upstream API.
type Identity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// PermissionFlags is a subadmin's grant set; keys gate feature areas.
type PermissionFlags map[string]bool

// Session is the authenticated state of one console user.
// Invariant: Authenticated == true iff Token is non-empty.
type Session struct {
	Token         string          `json:"token"`
	Role          string          `json:"role"`
	User          Identity        `json:"user"`
	Permissions   PermissionFlags `json:"permissions,omitempty"`
	Authenticated bool            `json:"authenticated"`
}

func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}

func (s Session) IsSubadmin() bool {
	return s.Role == RoleSubadmin
}

// HasPermission reports whether the session may access the feature area gated
// by key. An empty key gates nothing. Only subadmins carry grant sets; admins
// pass unconditionally.
func (s Session) HasPermission(key string) bool {
	if key == "" || s.Role != RoleSubadmin {
		return true
	}
	return s.Permissions[key]
}
