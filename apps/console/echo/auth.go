package echoapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/sisyaclass/analytics-console/core"
)

const contextSessionKey = "consoleSession"

// Claims identify one console session; the session registry stays
// authoritative, so a valid token alone does not keep a session alive.
type Claims struct {
	jwt.StandardClaims
	Role  string `json:"role,omitempty"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

func newClaims(conf *core.Config, cs *consoleSession) *Claims {
	now := time.Now()
	state := cs.store.State()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   cs.id,
			ExpiresAt: now.Add(conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		Role:  state.Role,
		Name:  state.User.Name,
		Email: state.User.Email,
	}
}

// GenerateToken generates a signed JWT token string representing the Claims.
func GenerateToken(conf *core.Config, claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString([]byte(conf.SecretKey))
	if err != nil {
		return "", errors.New("signing token")
	}
	return ss, nil
}

func parseToken(conf *core.Config, tokenStr string) (*Claims, error) {
	claims := new(Claims)
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(conf.SecretKey), nil
	})
	if err != nil || !token.Valid {
		return nil, errUnauthorized
	}
	return claims, nil
}

// sessionID extracts the console session id from the request: a bearer token
// takes precedence, the session cookie is the browser fallback.
func (s *server) sessionID(ctx echo.Context) (string, bool) {
	if auth := ctx.Request().Header.Get(echo.HeaderAuthorization); auth != "" {
		tokenStr := strings.TrimPrefix(auth, "Bearer ")
		if claims, err := parseToken(s.opts.Conf, tokenStr); err == nil {
			return claims.Subject, true
		}
		return "", false
	}

	cookie, err := s.cookies.Get(ctx.Request(), s.opts.Conf.Server.CookieName)
	if err != nil {
		return "", false
	}
	sid, ok := cookie.Values["sid"].(string)
	return sid, ok && sid != ""
}

// contextSession returns the live console session bound to the request, or
// nil for anonymous or ended sessions.
func (s *server) contextSession(ctx echo.Context) *consoleSession {
	if cs, ok := ctx.Get(contextSessionKey).(*consoleSession); ok {
		return cs
	}
	sid, ok := s.sessionID(ctx)
	if !ok {
		return nil
	}
	cs := s.registry.get(sid)
	if cs != nil {
		ctx.Set(contextSessionKey, cs)
	}
	return cs
}

func (s *server) setSessionCookie(ctx echo.Context, sid string) error {
	cookie := sessions.NewSession(s.cookies, s.opts.Conf.Server.CookieName)
	cookie.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   0, // browser-session scoped
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	cookie.Values["sid"] = sid
	return s.cookies.Save(ctx.Request(), ctx.Response(), cookie)
}

func (s *server) clearSessionCookie(ctx echo.Context) {
	cookie, err := s.cookies.Get(ctx.Request(), s.opts.Conf.Server.CookieName)
	if err != nil {
		return
	}
	cookie.Options.MaxAge = -1
	_ = s.cookies.Save(ctx.Request(), ctx.Response(), cookie)
}
