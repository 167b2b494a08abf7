package client

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	auth "movieexplorer/src/modules/auth/models"
)

// AuthResult is the outcome of a login or signup. Raw is the full profile
// body, kept so the session can store it verbatim.
type AuthResult struct {
	Token   string
	Message string
	User    auth.User
	Raw     json.RawMessage
}

type authResponse struct {
	Message      string     `json:"message"`
	Token        string     `json:"token"`
	ID           flexNumber `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	MobileNumber string     `json:"mobile_number"`
	Role         string     `json:"role"`
}

func (r authResponse) user() auth.User {
	role := strings.TrimSpace(r.Role)
	if role == "" {
		role = auth.RoleUser
	}
	return auth.User{
		ID:           int64(r.ID),
		Name:         r.Name,
		Email:        r.Email,
		MobileNumber: r.MobileNumber,
		Role:         role,
	}
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (AuthResult, error) {
	payload := map[string]any{"user": map[string]string{"email": email, "password": password}}
	return c.authenticate(ctx, "login", "An error occurred during login. Please try again.", "/users/sign_in", payload)
}

// SignUp registers a new account and signs it in.
func (c *Client) SignUp(ctx context.Context, name, email, password, mobile string) (AuthResult, error) {
	payload := map[string]any{"user": map[string]string{
		"name":          name,
		"email":         email,
		"password":      password,
		"mobile_number": mobile,
	}}
	return c.authenticate(ctx, "signup", "Signup failed. Please try again.", "/users", payload)
}

func (c *Client) authenticate(ctx context.Context, op, fallback, path string, payload any) (AuthResult, error) {
	body, err := jsonBody(payload)
	if err != nil {
		return AuthResult{}, &APIError{Op: op, Message: fallback, Err: err}
	}
	var raw json.RawMessage
	err = c.do(ctx, request{
		op:          op,
		fallback:    fallback,
		method:      http.MethodPost,
		path:        path,
		body:        body,
		contentType: "application/json",
	}, &raw)
	if err != nil {
		return AuthResult{}, err
	}

	var resp authResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return AuthResult{}, &APIError{Op: op, StatusCode: http.StatusBadGateway, Message: fallback, Err: err}
	}
	if resp.Token == "" {
		msg := resp.Message
		if msg == "" {
			msg = "Invalid email or password"
		}
		return AuthResult{}, &APIError{Op: op, StatusCode: http.StatusUnauthorized, Message: msg}
	}
	user := resp.user()
	profile, err := json.Marshal(user)
	if err != nil {
		return AuthResult{}, &APIError{Op: op, Message: fallback, Err: err}
	}
	return AuthResult{Token: resp.Token, Message: resp.Message, User: user, Raw: profile}, nil
}

// SignOut revokes the bearer token on the service.
func (c *Client) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return ErrNoToken
	}
	return c.do(ctx, request{
		op:       "sign out",
		fallback: "Sign-out failed",
		method:   http.MethodDelete,
		path:     "/users/sign_out",
		token:    token,
	}, nil)
}

// CurrentUser fetches the profile behind token.
func (c *Client) CurrentUser(ctx context.Context, token string) (auth.User, error) {
	if token == "" {
		return auth.User{}, ErrNoToken
	}
	var resp authResponse
	err := c.do(ctx, request{
		op:       "current user",
		fallback: "Failed to fetch user data",
		method:   http.MethodGet,
		path:     "/api/v1/current_user",
		token:    token,
	}, &resp)
	if err != nil {
		return auth.User{}, err
	}
	return resp.user(), nil
}
