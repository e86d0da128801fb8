package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sisyaclass/analytics-console/core/nav"
)

// viewModel is the envelope of the simple console views; the data-heavy
// attendance view has its own shape.
type viewModel struct {
	Title string      `json:"title"`
	Data  interface{} `json:"data,omitempty"`
}

func (s *server) navigation(ctx echo.Context) error {
	cs := s.contextSession(ctx)
	return ctx.JSON(http.StatusOK, nav.Visible(nav.Sidebar(), cs.store.State()))
}

func (s *server) adminDashboard(ctx echo.Context) error {
	cs := s.contextSession(ctx)
	return ctx.JSON(http.StatusOK, viewModel{
		Title: "Admin Dashboard",
		Data:  cs.store.State().User,
	})
}

func (s *server) subadminDashboard(ctx echo.Context) error {
	cs := s.contextSession(ctx)
	return ctx.JSON(http.StatusOK, viewModel{
		Title: "Subadmin Dashboard",
		Data:  cs.store.State().User,
	})
}

func (s *server) settings(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, viewModel{Title: "Settings"})
}

func (s *server) aiDoubtDetail(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, viewModel{Title: "AI Doubt Detail"})
}

func (s *server) aiReview(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, viewModel{Title: "AI Review"})
}

func (s *server) doubts(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, viewModel{Title: "Doubts"})
}

func (s *server) users(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, viewModel{Title: "Users"})
}
