package sisya

import (
	"context"

	"github.com/sisyaclass/analytics-console/core/session"
)

// Login is the outcome of a successful credential check.
type Login struct {
	Token       string
	Role        string
	User        session.Identity
	Permissions session.PermissionFlags
}

type (
	subAdminData struct {
		ID                   string          `json:"id"`
		Name                 string          `json:"name"`
		Email                string          `json:"email"`
		AnalyticsPermissions map[string]bool `json:"analyticsPermissions"`
	}

	loginResponse struct {
		Success  bool              `json:"success"`
		Message  string            `json:"message"`
		Token    string            `json:"token"`
		User     *session.Identity `json:"user"`
		Admin    *session.Identity `json:"admin"`
		SubAdmin *subAdminData     `json:"subAdmin"`
	}
)

// AdminLogin checks admin credentials upstream. The upstream may omit the
// identity and return only a token; the identity then falls back to the
// submitted user id.
func (c *Client) AdminLogin(ctx context.Context, user, password string) (Login, error) {
	var resp loginResponse
	err := c.post(ctx, adminLoginPath, map[string]string{"user": user, "password": password}, &resp)
	if err != nil {
		return Login{}, loginErr(err)
	}
	if !resp.Success || resp.Token == "" {
		return Login{}, ErrAuthenticationFailed
	}

	identity := session.Identity{ID: user, Name: user}
	if resp.Admin != nil {
		identity = *resp.Admin
	} else if resp.User != nil {
		identity = *resp.User
	}

	return Login{Token: resp.Token, Role: session.RoleAdmin, User: identity}, nil
}

// SubadminLogin checks subadmin credentials upstream and carries back the
// analytics grant set.
func (c *Client) SubadminLogin(ctx context.Context, email, password string) (Login, error) {
	var resp loginResponse
	err := c.post(ctx, subadminLoginPath, map[string]string{"email": email, "password": password}, &resp)
	if err != nil {
		return Login{}, loginErr(err)
	}
	if !resp.Success || resp.Token == "" || resp.SubAdmin == nil {
		return Login{}, ErrAuthenticationFailed
	}

	return Login{
		Token: resp.Token,
		Role:  session.RoleSubadmin,
		User: session.Identity{
			ID:    resp.SubAdmin.ID,
			Name:  resp.SubAdmin.Name,
			Email: resp.SubAdmin.Email,
		},
		Permissions: resp.SubAdmin.AnalyticsPermissions,
	}, nil
}

// loginErr maps rejected credentials onto ErrAuthenticationFailed; the login
// endpoints signal them as plain 4xx responses.
func loginErr(err error) error {
	if err == ErrUnauthorized {
		return ErrAuthenticationFailed
	}
	if apiErr, ok := err.(*APIError); ok && apiErr.Status >= 400 && apiErr.Status < 500 {
		return ErrAuthenticationFailed
	}
	return err
}
