package api

import (
	"context"

	"github.com/xhad/infuse/internal/models"
)

type userResponse struct {
	User models.User `json:"user"`
}

func (c *Client) Signup(ctx context.Context, username, password, email string) (*models.User, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	var resp userResponse
	r, err := c.http.R().SetContext(ctx).
		SetBody(map[string]string{"username": username, "password": password, "email": email}).
		SetResult(&resp).
		Post("/signup")
	if err != nil {
		return nil, err
	}
	if r.IsError() {
		return nil, remoteError(r)
	}
	return &resp.User, nil
}

// Login establishes the cookie session used by every other call.
func (c *Client) Login(ctx context.Context, username, password string) (*models.User, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	var resp userResponse
	r, err := c.http.R().SetContext(ctx).
		SetBody(map[string]string{"username": username, "password": password}).
		SetResult(&resp).
		Post("/login")
	if err != nil {
		return nil, err
	}
	if r.IsError() {
		return nil, remoteError(r)
	}
	return &resp.User, nil
}

func (c *Client) Logout(ctx context.Context) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	r, err := c.http.R().SetContext(ctx).Post("/logout")
	if err != nil {
		return err
	}
	if r.IsError() {
		return remoteError(r)
	}
	return nil
}

// CurrentUser reports the session identity, or an error when the
// session is missing or expired.
func (c *Client) CurrentUser(ctx context.Context) (*models.User, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	var resp userResponse
	r, err := c.http.R().SetContext(ctx).SetResult(&resp).Get("/auth/user")
	if err != nil {
		return nil, err
	}
	if r.IsError() {
		return nil, remoteError(r)
	}
	return &resp.User, nil
}
