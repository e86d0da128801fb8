package routing

import "github.com/sisyaclass/analytics-console/core/session"

type (
	// Rule declares who may enter a route. A zero Rule only requires
	// authentication.
	Rule struct {
		AllowedRoles  []string
		PermissionKey string
	}

	// Decision is the guard's verdict for one navigation attempt.
	// When Allow is false, RedirectTo carries the destination; Next carries
	// the originally attempted path for an optional post-login redirect.
	Decision struct {
		Allow      bool
		RedirectTo string
		Next       string
	}
)

// Decide gates one navigation attempt, in order: authentication, permission
// key (fail closed for subadmins), allowed roles. An authenticated session
// whose role is unknown is treated as unauthenticated; there is no dashboard
// to fall back to.
func Decide(rule Rule, sess session.Session, requested string) Decision {
	if !sess.Authenticated || !session.ValidRole(sess.Role) {
		return Decision{RedirectTo: PathLogin, Next: requested}
	}

	home, _ := Dashboard(sess.Role)

	if rule.PermissionKey != "" && !sess.HasPermission(rule.PermissionKey) {
		return Decision{RedirectTo: home}
	}

	if len(rule.AllowedRoles) > 0 && !roleAllowed(rule.AllowedRoles, sess.Role) {
		// never a blind redirect to login once authenticated: send the
		// caller to its own dashboard, not the requested role's
		return Decision{RedirectTo: home}
	}

	return Decision{Allow: true}
}

func roleAllowed(roles []string, role string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
