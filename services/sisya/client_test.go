package sisya

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sisyaclass/analytics-console/core"
	"github.com/sisyaclass/analytics-console/core/analytics"
	"github.com/sisyaclass/analytics-console/core/announcement"
	"github.com/sisyaclass/analytics-console/core/session"
)

func testConf(baseURL string) *core.Config {
	return &core.Config{
		Upstream: core.UpstreamConfig{BaseURL: baseURL, Timeout: 2 * time.Second},
	}
}

func staticToken(token string) func() string {
	return func() string { return token }
}

func TestClient_bearerAttachment(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
	}))
	defer srv.Close()

	// token present
	c := NewClient(testConf(srv.URL), staticToken("tok-123"), nil)
	if err := c.MarkAsStaff(context.Background(), 7); err != nil {
		t.Fatalf("MarkAsStaff(): %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("Authorization = %q", gotAuth)
	}

	// no token yet (pre-login): header omitted
	c = NewClient(testConf(srv.URL), staticToken(""), nil)
	if err := c.MarkAsStaff(context.Background(), 7); err != nil {
		t.Fatalf("MarkAsStaff(): %v", err)
	}
	if gotAuth != "" {
		t.Errorf("Authorization = %q; want none", gotAuth)
	}
}

func TestClient_unauthorizedHook(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	var hookCalls int
	c := NewClient(testConf(srv.URL), staticToken("stale"), func() { hookCalls++ })

	_, err := c.CoursesByGrade(context.Background(), "5")
	if err != ErrUnauthorized {
		t.Errorf("err = %v; want ErrUnauthorized", err)
	}
	if hookCalls != 1 {
		t.Errorf("hook calls = %d; want 1", hookCalls)
	}

	// fires on every 401 regardless of endpoint
	if err := c.MarkAsStaff(context.Background(), 3); err != ErrUnauthorized {
		t.Errorf("err = %v; want ErrUnauthorized", err)
	}
	if hookCalls != 2 {
		t.Errorf("hook calls = %d; want 2", hookCalls)
	}
}

func TestClient_adminLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != adminLoginPath {
			t.Errorf("path = %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "" {
			t.Errorf("login must not carry a token; got %q", auth)
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["user"] != "root" || body["password"] != "secret" {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "message": "bad credentials"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "token": "tok-admin"})
	}))
	defer srv.Close()

	c := NewClient(testConf(srv.URL), staticToken(""), nil)

	login, err := c.AdminLogin(context.Background(), "root", "secret")
	if err != nil {
		t.Fatalf("AdminLogin(): %v", err)
	}
	if login.Token != "tok-admin" || login.Role != session.RoleAdmin {
		t.Errorf("login = %+v", login)
	}
	// identity constructed from the submitted user id when upstream omits it
	if login.User.ID != "root" {
		t.Errorf("identity = %+v", login.User)
	}

	if _, err := c.AdminLogin(context.Background(), "root", "wrong"); err != ErrAuthenticationFailed {
		t.Errorf("err = %v; want ErrAuthenticationFailed", err)
	}
}

func TestClient_subadminLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"token":   "tok-sub",
			"subAdmin": map[string]interface{}{
				"id":    "sub-1",
				"name":  "Sub One",
				"email": "sub@sisyaclass.xyz",
				"analyticsPermissions": map[string]bool{
					"attendance_access": true,
					"doubts_access":     false,
				},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(testConf(srv.URL), staticToken(""), nil)
	login, err := c.SubadminLogin(context.Background(), "sub@sisyaclass.xyz", "pw")
	if err != nil {
		t.Fatalf("SubadminLogin(): %v", err)
	}
	if login.Role != session.RoleSubadmin || login.User.ID != "sub-1" {
		t.Errorf("login = %+v", login)
	}
	assert.Equal(t, session.PermissionFlags{"attendance_access": true, "doubts_access": false}, login.Permissions)
}

func TestClient_completedSessionsPayload(t *testing.T) {
	var got completedSessionsRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success":    true,
			"sessions":   []interface{}{},
			"pagination": map[string]interface{}{"page": got.Page, "limit": got.Limit, "total": 0, "hasNext": false},
		})
	}))
	defer srv.Close()

	c := NewClient(testConf(srv.URL), staticToken("tok"), nil)
	key := analytics.SessionListKey{CourseID: 12, Page: 2, StartDate: "2026-01-01", Search: "algebra"}
	_, pg, err := c.CompletedSessions(context.Background(), key)
	if err != nil {
		t.Fatalf("CompletedSessions(): %v", err)
	}

	want := completedSessionsRequest{ID: 12, Page: 2, Limit: analytics.SessionPageLimit, StartDate: "2026-01-01", Search: "algebra"}
	if got != want {
		t.Errorf("payload = %+v; want %+v", got, want)
	}
	if pg.Page != 2 {
		t.Errorf("pagination = %+v", pg)
	}
}

func TestClient_createAnnouncement(t *testing.T) {
	var fail bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail {
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "message": "delivery failed"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "message": "sent"})
	}))
	defer srv.Close()

	userID := 42
	draft := announcement.Draft{
		Title:    "Missed Class Notification",
		Message:  "Please catch up.",
		Type:     announcement.TypeReminder,
		Audience: announcement.AudienceStudents,
		Scope:    announcement.ScopeIndividual,
		UserID:   &userID,
	}

	c := NewClient(testConf(srv.URL), staticToken("tok"), nil)
	if err := c.CreateAnnouncement(context.Background(), draft); err != nil {
		t.Fatalf("CreateAnnouncement(): %v", err)
	}

	fail = true
	err := c.CreateAnnouncement(context.Background(), draft)
	apiErr, ok := err.(*APIError)
	if !ok || apiErr.Message != "delivery failed" {
		t.Errorf("err = %v", err)
	}
}

func TestClient_timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	conf := testConf(srv.URL)
	conf.Upstream.Timeout = 20 * time.Millisecond
	c := NewClient(conf, staticToken("tok"), nil)

	if _, err := c.CoursesByGrade(context.Background(), "5"); err == nil {
		t.Error("expected a timeout error")
	}
}
