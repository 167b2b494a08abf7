package subscriptions

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	authmodels "movieexplorer/src/modules/auth/models"
	models "movieexplorer/src/modules/subscriptions/models"
	"movieexplorer/src/utils"
)

type Remote interface {
	CreateSubscription(ctx context.Context, token, planType string) (string, error)
	SubscriptionStatus(ctx context.Context, token string) (string, error)
	VerifySubscription(ctx context.Context, token, sessionID string) (models.Verification, error)
}

// PlanStore records the plan type on the caller's session.
type PlanStore interface {
	SetPlan(ctx context.Context, sess *authmodels.Session, plan string) error
}

type Service struct {
	remote Remote
	plans  PlanStore
	logger *slog.Logger
}

func NewService(remote Remote, plans PlanStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{remote: remote, plans: plans, logger: logger}
}

func (s *Service) Plans() []models.Plan {
	return models.Plans()
}

// Checkout starts a payment for planID and returns where to send the browser.
func (s *Service) Checkout(ctx context.Context, sess *authmodels.Session, planID string) (models.CheckoutResult, error) {
	planID = strings.TrimSpace(planID)
	if _, ok := models.FindPlan(planID); !ok {
		return models.CheckoutResult{}, &utils.ServiceError{
			StatusCode: http.StatusBadRequest,
			Message:    "Please select a valid plan",
		}
	}
	url, err := s.remote.CreateSubscription(ctx, sess.Token, planID)
	if err != nil {
		return models.CheckoutResult{}, err
	}
	s.logger.Info("[Subscription] checkout started", slog.String("session", sess.ID), slog.String("plan", planID))
	return models.CheckoutResult{PlanID: planID, CheckoutURL: url}, nil
}

// Status reads the current plan from the service and stores it on the session.
func (s *Service) Status(ctx context.Context, sess *authmodels.Session) (string, error) {
	plan, err := s.remote.SubscriptionStatus(ctx, sess.Token)
	if err != nil {
		return sess.PlanType, err
	}
	if plan == "" {
		plan = authmodels.PlanBasic
	}
	s.store(ctx, sess, plan)
	return plan, nil
}

// Verify confirms the checkout session the payment provider redirected back
// with, then refreshes the stored plan.
func (s *Service) Verify(ctx context.Context, sess *authmodels.Session, checkoutSession string) (models.Verification, error) {
	checkoutSession = strings.TrimSpace(checkoutSession)
	if checkoutSession == "" {
		return models.Verification{}, &utils.ServiceError{
			StatusCode: http.StatusBadRequest,
			Message:    "Invalid session ID",
		}
	}
	v, err := s.remote.VerifySubscription(ctx, sess.Token, checkoutSession)
	if err != nil {
		return models.Verification{}, err
	}
	plan := v.PlanType
	if plan == "" {
		if plan, err = s.remote.SubscriptionStatus(ctx, sess.Token); err != nil {
			s.logger.Warn("[Subscription] could not refresh plan", slog.String("error", err.Error()))
			plan = authmodels.PlanPremium
		}
	}
	v.PlanType = plan
	s.store(ctx, sess, plan)
	return v, nil
}

func (s *Service) store(ctx context.Context, sess *authmodels.Session, plan string) {
	if err := s.plans.SetPlan(ctx, sess, plan); err != nil {
		s.logger.Warn("[Subscription] could not store plan", slog.String("session", sess.ID), slog.String("error", err.Error()))
	}
}
