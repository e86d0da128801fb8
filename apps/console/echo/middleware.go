package echoapi

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/sisyaclass/analytics-console/core/routing"
	"github.com/sisyaclass/analytics-console/core/session"
)

// guard gates a route by the given rule. view is the client-side path the
// route backs; it rides along on the login redirect so the login view can
// send the user back afterwards. Every request that passes the guard counts
// as activity for the inactivity monitor.
func (s *server) guard(rule routing.Rule, view string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			cs := s.contextSession(ctx)

			var state session.Session
			if cs != nil {
				state = cs.store.State()
			}

			decision := routing.Decide(rule, state, view)
			if !decision.Allow {
				loc := decision.RedirectTo
				if decision.Next != "" {
					loc += "?next=" + url.QueryEscape(decision.Next)
				}
				return ctx.Redirect(http.StatusFound, loc)
			}

			cs.idle.Touch()
			return next(ctx)
		}
	}
}
