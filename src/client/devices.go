package client

import (
	"context"
	"net/http"
)

// UpdateDeviceToken registers a push token for the account behind token.
func (c *Client) UpdateDeviceToken(ctx context.Context, token, deviceToken string) error {
	const op, fallback = "update device token", "Failed to send device token"
	if token == "" {
		return ErrNoToken
	}
	body, err := jsonBody(map[string]string{"device_token": deviceToken})
	if err != nil {
		return &APIError{Op: op, Message: fallback, Err: err}
	}
	return c.do(ctx, request{
		op:          op,
		fallback:    fallback,
		method:      http.MethodPost,
		path:        "/api/v1/update_device_token",
		token:       token,
		body:        body,
		contentType: "application/json",
	}, nil)
}

// ToggleNotifications switches push delivery on or off for the account.
func (c *Client) ToggleNotifications(ctx context.Context, token string, enabled bool) error {
	const op, fallback = "toggle notifications", "Failed to toggle notifications"
	if token == "" {
		return ErrNoToken
	}
	body, err := jsonBody(map[string]bool{"notifications_enabled": enabled})
	if err != nil {
		return &APIError{Op: op, Message: fallback, Err: err}
	}
	return c.do(ctx, request{
		op:          op,
		fallback:    fallback,
		method:      http.MethodPost,
		path:        "/api/v1/toggle_notifications",
		token:       token,
		body:        body,
		contentType: "application/json",
	}, nil)
}
