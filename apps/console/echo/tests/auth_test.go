package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sisyaclass/analytics-console/core/session"
	"github.com/sisyaclass/analytics-console/services/sisya"
)

func Test_consoleApi_adminLogin(t *testing.T) {
	app, _ := setup(t)

	res := loginAdmin(t, app)
	if res.Token == "" {
		t.Fatal("adminLogin: no token issued")
	}
	assert.Equal(t, "/admin", res.Redirect)
	assert.Equal(t, session.RoleAdmin, res.Session.Role)
	assert.True(t, res.Session.Authenticated)
	assert.Equal(t, "Root Admin", res.Session.User.Name)

	// the issued token opens the admin dashboard
	req, rec := newAuthRequest(http.MethodGet, "/admin", res.Token)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("GET /admin code = %v; want %v", rec.Code, http.StatusOK)
	}
}

func Test_consoleApi_subadminLogin(t *testing.T) {
	app, _ := setup(t)

	res := loginSubadmin(t, app)
	assert.Equal(t, "/subadmin", res.Redirect)
	assert.Equal(t, session.RoleSubadmin, res.Session.Role)
	assert.True(t, res.Session.Permissions["attendance_access"])
}

func Test_consoleApi_loginValidation(t *testing.T) {
	app, _ := setup(t)

	tests := []httpTest{
		{
			name: "admin: user and password required", method: http.MethodPost, path: "/login/admin",
			body:     []byte(`{}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"user": "this field is required", "password": "this field is required"}),
		},
		{
			name: "subadmin: email must be an email", method: http.MethodPost, path: "/login/subadmin",
			body:     []byte(`{"email": "nope", "password": "pwd"}`),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"email": "email must be a valid email address"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndLoc(t, tt, rec)
			assert.JSONEq(t, string(tt.wantData), rec.Body.String())
		})
	}
}

func Test_consoleApi_loginRejected(t *testing.T) {
	app, upstream := setup(t)
	upstream.loginErr = sisya.ErrAuthenticationFailed

	req, rec := newRequest(http.MethodPost, "/login/admin", []byte(`{"user": "root", "password": "bad"}`))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("code = %v; want %v", rec.Code, http.StatusBadRequest)
	}
	assert.JSONEq(t, string(marchallObj(t, httpErr{Error: "authentication failed"})), rec.Body.String())
}

func Test_consoleApi_cookieFallback(t *testing.T) {
	app, _ := setup(t)

	req, rec := newRequest(http.MethodPost, "/login/admin", []byte(`{"user": "root", "password": "pwd"}`))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("login code = %v", rec.Code)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("login set no session cookie")
	}

	// no bearer token; the cookie alone authenticates the request
	req, rec = newRequest(http.MethodGet, "/nav")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("GET /nav code = %v; want %v", rec.Code, http.StatusOK)
	}
}

func Test_consoleApi_logout(t *testing.T) {
	app, _ := setup(t)
	res := loginAdmin(t, app)

	req, rec := newAuthRequest(http.MethodPost, "/logout", res.Token)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("POST /logout code = %v; want %v", rec.Code, http.StatusNoContent)
	}

	// the token still parses but its session is gone
	tt := httpTest{wantCode: http.StatusFound, wantLoc: "/login?next=%2Fadmin"}
	req, rec = newAuthRequest(http.MethodGet, "/admin", res.Token)
	app.ServeHTTP(rec, req)
	checkCodeAndLoc(t, tt, rec)
}

func Test_consoleApi_garbageToken(t *testing.T) {
	app, _ := setup(t)

	tt := httpTest{wantCode: http.StatusFound, wantLoc: "/login?next=%2Fadmin"}
	req, rec := newAuthRequest(http.MethodGet, "/admin", "not-a-jwt")
	app.ServeHTTP(rec, req)
	checkCodeAndLoc(t, tt, rec)
}
