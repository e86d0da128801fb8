package echoapi

import (
	"context"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/sisyaclass/analytics-console/core"
	"github.com/sisyaclass/analytics-console/core/analytics"
	"github.com/sisyaclass/analytics-console/core/announcement"
	"github.com/sisyaclass/analytics-console/core/routing"
	"github.com/sisyaclass/analytics-console/core/session"
	"github.com/sisyaclass/analytics-console/services/sisya"
)

type (
	// Upstream is everything the console needs from the SISYA API.
	// sisya.Client is the live implementation; tests substitute a fake.
	Upstream interface {
		analytics.Backend
		AdminLogin(ctx context.Context, user, password string) (sisya.Login, error)
		SubadminLogin(ctx context.Context, email, password string) (sisya.Login, error)
		CreateAnnouncement(ctx context.Context, draft announcement.Draft) error
	}

	// UpstreamFactory builds a token-bound Upstream for one console session.
	UpstreamFactory func(tokenSource func() string, onUnauthorized func()) Upstream

	// StateFactory builds the snapshot store for one console session;
	// nil disables persistence.
	StateFactory func(sessionID string) session.StateStore

	Options struct {
		Address        string
		DisableReqLogs bool
		Conf           *core.Config
		Logger         core.Logger
		Upstream       UpstreamFactory
		States         StateFactory
	}

	Server interface {
		http.Handler
		Start()
		Stop(context.Context) error
	}

	server struct {
		opts     *Options
		app      *echo.Echo
		cookies  *sessions.CookieStore
		registry *registry
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	if opts.Upstream == nil {
		opts.Upstream = func(tokenSource func() string, onUnauthorized func()) Upstream {
			return sisya.NewClient(opts.Conf, tokenSource, onUnauthorized)
		}
	}
	s := &server{
		opts:     opts,
		app:      echo.New(),
		cookies:  sessions.NewCookieStore([]byte(opts.Conf.SecretKey)),
		registry: newRegistry(opts.Conf, opts.Logger, opts.Upstream, opts.States),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.opts.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger)
	s.app.Debug = conf.Debug

	s.app.GET("/", home)

	anyRole := []string{session.RoleAdmin, session.RoleSubadmin}
	adminOnly := []string{session.RoleAdmin}
	attendanceRule := routing.Rule{AllowedRoles: anyRole, PermissionKey: "attendance_access"}

	s.app.POST(routing.PathLogin+"/admin", s.adminLogin)
	s.app.POST(routing.PathLogin+"/subadmin", s.subadminLogin)
	s.app.POST("/logout", s.logout, s.guard(routing.Rule{}, "/logout"))

	s.app.GET(routing.PathAdminDashboard, s.adminDashboard,
		s.guard(routing.Rule{AllowedRoles: adminOnly}, routing.PathAdminDashboard))
	s.app.GET(routing.PathSubadminDashboard, s.subadminDashboard,
		s.guard(routing.Rule{AllowedRoles: []string{session.RoleSubadmin}}, routing.PathSubadminDashboard))
	s.app.GET("/nav", s.navigation, s.guard(routing.Rule{}, "/nav"))
	s.app.GET(routing.PathSettings, s.settings, s.guard(routing.Rule{AllowedRoles: anyRole}, routing.PathSettings))

	// permission-gated feature areas
	s.app.GET(routing.PathAIDoubtDetail, s.aiDoubtDetail,
		s.guard(routing.Rule{AllowedRoles: anyRole, PermissionKey: "ai_doubt_detail"}, routing.PathAIDoubtDetail))
	s.app.GET(routing.PathAIReview, s.aiReview,
		s.guard(routing.Rule{AllowedRoles: anyRole, PermissionKey: "ai_review"}, routing.PathAIReview))
	s.app.GET(routing.PathDoubts, s.doubts,
		s.guard(routing.Rule{AllowedRoles: anyRole, PermissionKey: "doubts_access"}, routing.PathDoubts))
	s.app.GET(routing.PathUsers, s.users,
		s.guard(routing.Rule{AllowedRoles: adminOnly}, routing.PathUsers))

	// attendance analytics
	att := s.app.Group("", s.guard(attendanceRule, routing.PathAttendance))
	att.GET(routing.PathAttendance, s.attendanceView)
	att.GET(routing.PathAttendance+"/students", s.attendanceStudents)
	att.POST(routing.PathAttendance+"/grade", s.selectGrade)
	att.POST(routing.PathAttendance+"/course", s.selectCourse)
	att.POST(routing.PathAttendance+"/session", s.selectSession)
	att.POST(routing.PathAttendance+"/back", s.attendanceBack)
	att.POST(routing.PathAttendance+"/page", s.setPage)
	att.POST(routing.PathAttendance+"/search", s.setSearch)
	att.POST(routing.PathAttendance+"/dates", s.setDateRange)
	att.POST(routing.PathAttendance+"/mark-staff", s.markStaff)

	s.app.POST("/announcements", s.createAnnouncement,
		s.guard(routing.Rule{AllowedRoles: anyRole}, "/announcements"))
	s.app.POST("/announcements/prefill", s.prefillAnnouncement, s.guard(attendanceRule, routing.PathAttendance))
}

func (s *server) Start() {
	s.app.Logger.Fatal(s.app.Start(s.opts.Address))
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to the SISYA Analytics Console!")
}
