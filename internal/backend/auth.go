package backend

import (
	"context"

	"github.com/jeevanhealth/portal/internal/model"
)

// Login and Register are the only endpoints called without a bearer
// token.

func (c *Client) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	var resp model.LoginResponse
	if err := c.post(ctx, "/auth/login", "", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Register(ctx context.Context, req *model.RegisterRequest) error {
	return c.post(ctx, "/auth/register", "", req, nil)
}

func (c *Client) CurrentUser(ctx context.Context, token string) (*model.User, error) {
	var user model.User
	if err := c.get(ctx, "/users/me", token, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) ChangePassword(ctx context.Context, token string, req *model.ChangePasswordRequest) error {
	return c.post(ctx, "/users/change-password", token, req, nil)
}
