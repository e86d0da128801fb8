package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	. "github.com/sisyaclass/analytics-console/apps/console/echo"
	"github.com/sisyaclass/analytics-console/core"
	"github.com/sisyaclass/analytics-console/core/analytics"
	"github.com/sisyaclass/analytics-console/core/announcement"
	"github.com/sisyaclass/analytics-console/core/session"
	"github.com/sisyaclass/analytics-console/services/sisya"
	testutil "github.com/sisyaclass/analytics-console/tests"
)

type httpErr struct {
	Error string `json:"error"`
}

type loginResult struct {
	Token    string          `json:"token"`
	Session  session.Session `json:"session"`
	Redirect string          `json:"redirect"`
}

type attView struct {
	Grades []string       `json:"grades"`
	View   analytics.View `json:"view"`
}

type studentsView struct {
	Query    string                        `json:"query"`
	Status   string                        `json:"status"`
	Total    int                           `json:"total"`
	Matched  int                           `json:"matched"`
	Students []analytics.StudentAttendance `json:"students"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantLoc  string
	wantData []byte
}

func testConf() *core.Config {
	return &core.Config{
		TestMode:  true,
		Env:       "TEST",
		AppName:   "analytics-console-test",
		SecretKey: "test-secret",
		Server: core.ServerConfig{
			JWTExpirationDelta: time.Hour,
			IdleTimeoutDelta:   15 * time.Minute,
			CookieName:         "console_session",
		},
	}
}

func setup(t *testing.T) (Server, *fakeUpstream) {
	t.Helper()
	return setupWithConf(t, testConf())
}

func setupWithConf(t *testing.T, conf *core.Config) (Server, *fakeUpstream) {
	t.Helper()
	upstream := newFakeUpstream()
	app := NewServer(
		&Options{
			DisableReqLogs: true,
			Conf:           conf,
			Logger:         testutil.NopLogger{},
			Upstream:       upstream.factory(),
		},
	)
	return app, upstream
}

// fakeUpstream serves canned data in place of the live API client. Setting
// unauthorized makes every data call behave like an expired upstream token:
// the 401 hook fires and the call errors.
type fakeUpstream struct {
	mu sync.Mutex

	admin    sisya.Login
	subadmin sisya.Login
	loginErr error

	courses    map[string][]analytics.Course
	sessions   []analytics.ClassSession
	pagination analytics.Pagination
	attendance map[int]analytics.AttendanceRecord

	unauthorized   bool
	onUnauthorized func()

	lastListKey     analytics.SessionListKey
	attendanceCalls int
	marked          []int
	markErr         error
	announced       []announcement.Draft
	announceErr     error
}

func newFakeUpstream() *fakeUpstream {
	return &fakeUpstream{
		admin: sisya.Login{
			Token: "admin-token",
			Role:  session.RoleAdmin,
			User:  session.Identity{ID: "1", Name: "Root Admin", Email: "root@sisya.test"},
		},
		subadmin: sisya.Login{
			Token:       "subadmin-token",
			Role:        session.RoleSubadmin,
			User:        session.Identity{ID: "7", Name: "Sub Admin", Email: "sub@sisya.test"},
			Permissions: session.PermissionFlags{"attendance_access": true},
		},
		courses:    make(map[string][]analytics.Course),
		attendance: make(map[int]analytics.AttendanceRecord),
	}
}

func (f *fakeUpstream) factory() UpstreamFactory {
	return func(tokenSource func() string, onUnauthorized func()) Upstream {
		f.mu.Lock()
		defer f.mu.Unlock()
		if onUnauthorized != nil {
			f.onUnauthorized = onUnauthorized
		}
		return f
	}
}

// expire makes the upstream reject the session token from now on.
func (f *fakeUpstream) expire() {
	f.mu.Lock()
	f.unauthorized = true
	f.mu.Unlock()
}

func (f *fakeUpstream) gate() error {
	f.mu.Lock()
	unauthorized, hook := f.unauthorized, f.onUnauthorized
	f.mu.Unlock()
	if unauthorized {
		if hook != nil {
			hook()
		}
		return sisya.ErrUnauthorized
	}
	return nil
}

func (f *fakeUpstream) AdminLogin(_ context.Context, user, password string) (sisya.Login, error) {
	if f.loginErr != nil {
		return sisya.Login{}, f.loginErr
	}
	return f.admin, nil
}

func (f *fakeUpstream) SubadminLogin(_ context.Context, email, password string) (sisya.Login, error) {
	if f.loginErr != nil {
		return sisya.Login{}, f.loginErr
	}
	return f.subadmin, nil
}

func (f *fakeUpstream) CoursesByGrade(_ context.Context, grade string) ([]analytics.Course, error) {
	if err := f.gate(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.courses[grade], nil
}

func (f *fakeUpstream) CompletedSessions(_ context.Context, key analytics.SessionListKey) ([]analytics.ClassSession, analytics.Pagination, error) {
	if err := f.gate(); err != nil {
		return nil, analytics.Pagination{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastListKey = key
	return f.sessions, f.pagination, nil
}

func (f *fakeUpstream) SessionAttendance(_ context.Context, sessionID int) (analytics.AttendanceRecord, error) {
	if err := f.gate(); err != nil {
		return analytics.AttendanceRecord{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attendanceCalls++
	return f.attendance[sessionID], nil
}

func (f *fakeUpstream) MarkAsStaff(_ context.Context, userID int) error {
	if err := f.gate(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.markErr != nil {
		return f.markErr
	}
	f.marked = append(f.marked, userID)
	return nil
}

func (f *fakeUpstream) CreateAnnouncement(_ context.Context, draft announcement.Draft) error {
	if err := f.gate(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.announceErr != nil {
		return f.announceErr
	}
	f.announced = append(f.announced, draft)
	return nil
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func loginAdmin(t *testing.T, app Server) loginResult {
	t.Helper()
	return doLogin(t, app, "/login/admin", `{"user": "root", "password": "pwd"}`)
}

func loginSubadmin(t *testing.T, app Server) loginResult {
	t.Helper()
	return doLogin(t, app, "/login/subadmin", `{"email": "sub@sisya.test", "password": "pwd"}`)
}

func doLogin(t *testing.T, app Server, path, body string) loginResult {
	t.Helper()
	req, rec := newRequest(http.MethodPost, path, []byte(body))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("doLogin(%s) code = %v; body %v", path, rec.Code, rec.Body.String())
	}
	var res loginResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("doLogin(%s) decode: %v", path, err)
	}
	return res
}

// attRequest drives one attendance endpoint and decodes the refreshed view.
// An empty body means a GET.
func attRequest(t *testing.T, app Server, token, path, body string) attView {
	t.Helper()
	method := http.MethodPost
	if body == "" {
		method = http.MethodGet
	}
	req, rec := newAuthRequest(method, path, token, []byte(body))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("%s %s code = %v; body %v", method, path, rec.Code, rec.Body.String())
	}
	var view attView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("%s %s decode: %v", method, path, err)
	}
	return view
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decodeBody(): %v; body %v", err, rec.Body.String())
	}
}

func checkCodeAndLoc(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v; body %v", rec.Code, tt.wantCode, rec.Body.String())
	}
	if tt.wantLoc != "" {
		if loc := rec.Header().Get("Location"); loc != tt.wantLoc {
			t.Errorf("failed! location = %v; wantLoc %v", loc, tt.wantLoc)
		}
	}
}
