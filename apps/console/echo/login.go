package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/sisyaclass/analytics-console/core"
	"github.com/sisyaclass/analytics-console/core/routing"
	"github.com/sisyaclass/analytics-console/core/session"
	"github.com/sisyaclass/analytics-console/services/sisya"
)

type (
	adminLoginInput struct {
		User     string `json:"user" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	subadminLoginInput struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	loginOutput struct {
		Token    string          `json:"token"`
		Session  session.Session `json:"session"`
		Redirect string          `json:"redirect"`
	}
)

func (in *adminLoginInput) validate() error {
	in.User = core.CleanString(in.User)
	return core.Validate.Struct(in)
}

func (in *subadminLoginInput) validate() error {
	in.Email = core.CleanString(in.Email, true /* lower */)
	return core.Validate.Struct(in)
}

func (s *server) adminLogin(ctx echo.Context) error {
	var in adminLoginInput
	if err := ctx.Bind(&in); err != nil {
		return errBadRequest
	}
	if err := in.validate(); err != nil {
		return err
	}

	// logins go out without a session; no token to attach, no 401 hook
	anon := s.opts.Upstream(func() string { return "" }, nil)
	login, err := anon.AdminLogin(ctx.Request().Context(), in.User, in.Password)
	if err != nil {
		return errors.Wrap(err, "admin login")
	}
	return s.openSession(ctx, login)
}

func (s *server) subadminLogin(ctx echo.Context) error {
	var in subadminLoginInput
	if err := ctx.Bind(&in); err != nil {
		return errBadRequest
	}
	if err := in.validate(); err != nil {
		return err
	}

	anon := s.opts.Upstream(func() string { return "" }, nil)
	login, err := anon.SubadminLogin(ctx.Request().Context(), in.Email, in.Password)
	if err != nil {
		return errors.Wrap(err, "subadmin login")
	}
	return s.openSession(ctx, login)
}

func (s *server) openSession(ctx echo.Context, login sisya.Login) error {
	cs := s.registry.start(login)

	token, err := GenerateToken(s.opts.Conf, newClaims(s.opts.Conf, cs))
	if err != nil {
		s.registry.end(cs.id)
		return errors.Wrap(err, "generating session token")
	}
	if err := s.setSessionCookie(ctx, cs.id); err != nil {
		s.registry.end(cs.id)
		return errors.Wrap(err, "setting session cookie")
	}

	redirect, _ := routing.Dashboard(login.Role)
	return ctx.JSON(http.StatusOK, loginOutput{
		Token:    token,
		Session:  cs.store.State(),
		Redirect: redirect,
	})
}

func (s *server) logout(ctx echo.Context) error {
	if cs := s.contextSession(ctx); cs != nil {
		s.registry.end(cs.id)
	}
	s.clearSessionCookie(ctx)
	return ctx.NoContent(http.StatusNoContent)
}
