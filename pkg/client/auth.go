package client

import (
	"context"
	"net/http"
)

// SignupRequest represents a registration request
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by signup and login
type AuthResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	User    *User  `json:"user"`
}

// Signup creates a new account and keeps its token for later requests
func (c *Client) Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.doRequest(ctx, http.MethodPost, "/auth/signup", req, &resp); err != nil {
		return nil, err
	}

	// Automatically set the token for future requests
	if resp.Token != "" {
		c.SetToken(resp.Token)
	}

	return &resp, nil
}

// Login authenticates with email and password
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	req := LoginRequest{
		Email:    email,
		Password: password,
	}

	var resp AuthResponse
	if err := c.doRequest(ctx, http.MethodPost, "/auth/login", req, &resp); err != nil {
		return nil, err
	}

	if resp.Token != "" {
		c.SetToken(resp.Token)
	}

	return &resp, nil
}

// Me retrieves the currently authenticated user
func (c *Client) Me(ctx context.Context) (*User, error) {
	var resp struct {
		User *User `json:"user"`
	}
	if err := c.doRequest(ctx, http.MethodGet, "/auth/me", nil, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

// Logout clears the server cookie and the client token
func (c *Client) Logout(ctx context.Context) error {
	if err := c.doRequest(ctx, http.MethodPost, "/auth/logout", nil, nil); err != nil {
		return err
	}
	c.SetToken("")
	return nil
}

// GetUser returns a profile; only the user themself or an admin may read it
func (c *Client) GetUser(ctx context.Context, id string) (*User, error) {
	var resp struct {
		User *User `json:"user"`
	}
	if err := c.doRequest(ctx, http.MethodGet, "/users/"+id, nil, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}

// UpdateUser changes a display name
func (c *Client) UpdateUser(ctx context.Context, id, name string) (*User, error) {
	var resp struct {
		User *User `json:"user"`
	}
	if err := c.doRequest(ctx, http.MethodPut, "/users/"+id, map[string]string{"name": name}, &resp); err != nil {
		return nil, err
	}
	return resp.User, nil
}
