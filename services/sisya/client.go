package sisya

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pkg/errors"

	"github.com/sisyaclass/analytics-console/core"
)

// Upstream endpoints. All are POST with a JSON body; every call but the two
// logins carries a bearer token.
const (
	adminLoginPath         = "/rkadmin/login"
	subadminLoginPath      = "/rkadmin/subadmin_login"
	coursesByGradePath     = "/rkadmin/get_course_by_grade"
	completedSessionsPath  = "/rkadmin/get_completed_session"
	sessionAttendancePath  = "/rkadmin/get_session_attendance"
	markAsStaffPath        = "/rkadmin/mark_as_sisya_emp"
	createAnnouncementPath = "/rkadmin/create_announcement"
)

var (
	// ErrAuthenticationFailed means the upstream rejected the credentials.
	ErrAuthenticationFailed = errors.New("authentication failed")
	// ErrUnauthorized means the bearer token is missing, expired or revoked.
	ErrUnauthorized = errors.New("unauthorized")
)

// APIError is a non-auth upstream failure.
type APIError struct {
	Status  int
	Path    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("upstream %s: %s", e.Path, e.Message)
	}
	return fmt.Sprintf("upstream %s: status %d", e.Path, e.Status)
}

// Client calls the SISYA upstream API. A token source supplies the current
// bearer token per request; any 401 response fires the OnUnauthorized hook
// before the error is returned, regardless of which endpoint produced it.
type Client struct {
	baseURL        string
	http           *http.Client
	tokenSource    func() string
	onUnauthorized func()
}

func NewClient(conf *core.Config, tokenSource func() string, onUnauthorized func()) *Client {
	return &Client{
		baseURL:        conf.Upstream.BaseURL,
		http:           &http.Client{Timeout: conf.Upstream.Timeout},
		tokenSource:    tokenSource,
		onUnauthorized: onUnauthorized,
	}
}

func (c *Client) post(ctx context.Context, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "encoding request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.tokenSource != nil {
		if token := c.tokenSource(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "calling upstream %s", path)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{Status: resp.StatusCode, Path: path}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return errors.Wrapf(err, "decoding upstream %s response", path)
		}
	}
	return nil
}
