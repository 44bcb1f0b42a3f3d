package backend

import (
	"context"
	"net/http"
)

// Login - POST /users/login. Токен в запрос не добавляется, его ещё нет.
func (c *Client) Login(ctx context.Context, login, password string) (LoginResponse, error) {
	var resp LoginResponse
	err := c.do(ctx, call{
		method:   http.MethodPost,
		endpoint: "/users/login",
		label:    "POST /users/login",
		body:     LoginPayload{Login: login, Password: password},
		out:      &resp,
	})
	return resp, err
}
