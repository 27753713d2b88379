package gameapi

import (
	"context"
	"fmt"
	"net/http"

	"games_storefront/internal/models"
)

func (c *Client) Register(ctx context.Context, user models.RegisterRequest) (int, error) {
	var res models.RegisterResponse
	err := c.do(ctx, request{
		op:     "gameapi.Register",
		method: http.MethodPost,
		path:   "/users/register",
		body:   user,
	}, &res)
	if err != nil {
		return 0, err
	}
	return res.UserID, nil
}

func (c *Client) Login(ctx context.Context, creds models.LoginRequest) (*models.LoginResponse, error) {
	var res models.LoginResponse
	err := c.do(ctx, request{
		op:     "gameapi.Login",
		method: http.MethodPost,
		path:   "/users/login",
		body:   creds,
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Logout(ctx context.Context, token string) error {
	return c.do(ctx, request{
		op:     "gameapi.Logout",
		method: http.MethodPost,
		path:   "/users/logout",
		token:  token,
	}, nil)
}

func (c *Client) GetUser(ctx context.Context, token string, id int) (*models.User, error) {
	var res models.User
	err := c.do(ctx, request{
		op:     "gameapi.GetUser",
		method: http.MethodGet,
		path:   fmt.Sprintf("/users/%d", id),
		token:  token,
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) UpdateUser(ctx context.Context, token string, id int, user models.UpdateUserRequest) error {
	return c.do(ctx, request{
		op:     "gameapi.UpdateUser",
		method: http.MethodPatch,
		path:   fmt.Sprintf("/users/%d", id),
		token:  token,
		body:   user,
	}, nil)
}
