package client

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	subscriptions "movieexplorer/src/modules/subscriptions/models"
)

type checkoutResponse struct {
	Error       string `json:"error"`
	CheckoutURL string `json:"checkoutUrl"`
	URL         string `json:"url"`
	Data        *struct {
		CheckoutURL string `json:"checkoutUrl"`
	} `json:"data"`
}

func (r checkoutResponse) checkoutURL() string {
	if r.CheckoutURL != "" {
		return r.CheckoutURL
	}
	if r.Data != nil && r.Data.CheckoutURL != "" {
		return r.Data.CheckoutURL
	}
	return r.URL
}

// CreateSubscription starts a checkout for planType and returns the payment
// page the browser should be sent to.
func (c *Client) CreateSubscription(ctx context.Context, token, planType string) (string, error) {
	const op, fallback = "create subscription", "Failed to initiate subscription"
	if token == "" {
		return "", ErrNoToken
	}
	body, err := jsonBody(map[string]string{"plan_type": planType})
	if err != nil {
		return "", &APIError{Op: op, Message: fallback, Err: err}
	}
	var resp checkoutResponse
	err = c.do(ctx, request{
		op:          op,
		fallback:    fallback,
		method:      http.MethodPost,
		path:        "/api/v1/subscriptions",
		token:       token,
		body:        body,
		contentType: "application/json",
	}, &resp)
	if err != nil {
		return "", err
	}
	if msg := strings.TrimSpace(resp.Error); msg != "" {
		return "", &APIError{Op: op, StatusCode: http.StatusUnprocessableEntity, Message: msg}
	}
	checkout := resp.checkoutURL()
	if checkout == "" {
		return "", &APIError{Op: op, StatusCode: http.StatusBadGateway, Message: "No checkout URL returned from server."}
	}
	return checkout, nil
}

type statusResponse struct {
	Error    string `json:"error"`
	PlanType string `json:"plan_type"`
	Status   string `json:"status"`
	Message  string `json:"message"`
}

// SubscriptionStatus returns the plan type ("basic" or "premium") of the
// account behind token.
func (c *Client) SubscriptionStatus(ctx context.Context, token string) (string, error) {
	const op, fallback = "subscription status", "Failed to fetch subscription status"
	if token == "" {
		return "", ErrNoToken
	}
	var resp statusResponse
	err := c.do(ctx, request{
		op:       op,
		fallback: fallback,
		method:   http.MethodGet,
		path:     "/api/v1/subscriptions/status",
		token:    token,
	}, &resp)
	if err != nil {
		return "", err
	}
	if msg := strings.TrimSpace(resp.Error); msg != "" {
		return "", &APIError{Op: op, StatusCode: http.StatusBadGateway, Message: msg}
	}
	return strings.TrimSpace(resp.PlanType), nil
}

// VerifySubscription confirms the checkout session the payment provider
// redirected back with.
func (c *Client) VerifySubscription(ctx context.Context, token, sessionID string) (subscriptions.Verification, error) {
	const op, fallback = "verify subscription", "Failed to verify subscription. Please try again."
	if token == "" {
		return subscriptions.Verification{}, ErrNoToken
	}
	var resp statusResponse
	err := c.do(ctx, request{
		op:       op,
		fallback: fallback,
		method:   http.MethodGet,
		path:     "/api/v1/subscriptions/success",
		query:    url.Values{"session_id": {sessionID}},
		token:    token,
	}, &resp)
	if err != nil {
		return subscriptions.Verification{}, err
	}
	if msg := strings.TrimSpace(resp.Error); msg != "" {
		return subscriptions.Verification{}, &APIError{Op: op, StatusCode: http.StatusUnprocessableEntity, Message: msg}
	}
	msg := resp.Message
	if msg == "" {
		msg = "Subscription Activated!"
	}
	return subscriptions.Verification{Message: msg, PlanType: strings.TrimSpace(resp.PlanType)}, nil
}
