package api

import (
	"context"
	"net/url"
	"strings"
)

// TokenResponse is the backend's reply to a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// User is the record returned by registration.
type User struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// Login exchanges credentials for a bearer token. The backend expects a
// form-encoded body with username set to the lowercased email. The token is
// returned, not stored; the caller decides what to do with it.
func (c *Client) Login(ctx context.Context, email, password string) (*TokenResponse, error) {
	form := url.Values{}
	form.Set("username", strings.ToLower(email))
	form.Set("password", password)

	var out TokenResponse
	if err := c.postForm(ctx, "/auth/token", form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates a new user account.
func (c *Client) Register(ctx context.Context, email, password string) (*User, error) {
	body := map[string]string{"email": email, "password": password}

	var out User
	if err := c.postNoAuth(ctx, "/auth/register", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
