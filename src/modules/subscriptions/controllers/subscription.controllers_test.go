package subscriptions

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"movieexplorer/src/modules/auth/middleware"
	authmodels "movieexplorer/src/modules/auth/models"
	models "movieexplorer/src/modules/subscriptions/models"
	subscriptions "movieexplorer/src/modules/subscriptions/services"

	"github.com/gin-gonic/gin"
)

type stubRemote struct {
	verified []string
	created  []string
}

func (s *stubRemote) CreateSubscription(_ context.Context, _, plan string) (string, error) {
	s.created = append(s.created, plan)
	return "https://checkout.example/" + plan, nil
}

func (s *stubRemote) SubscriptionStatus(context.Context, string) (string, error) {
	return authmodels.PlanPremium, nil
}

func (s *stubRemote) VerifySubscription(_ context.Context, _, id string) (models.Verification, error) {
	s.verified = append(s.verified, id)
	return models.Verification{Message: "Subscription Activated!"}, nil
}

type planRecorder struct{ plans []string }

func (p *planRecorder) SetPlan(_ context.Context, sess *authmodels.Session, plan string) error {
	p.plans = append(p.plans, plan)
	sess.PlanType = plan
	return nil
}

func setup() (*gin.Engine, *stubRemote, *planRecorder) {
	gin.SetMode(gin.TestMode)
	remote := &stubRemote{}
	plans := &planRecorder{}
	ctl := NewController(subscriptions.NewService(remote, plans, nil))

	r := gin.New()
	r.Use(func(c *gin.Context) {
		middleware.SetSession(c, &authmodels.Session{ID: "s1", Token: "tok", PlanType: authmodels.PlanBasic, ExpiresAt: time.Now().Add(time.Hour)})
	})
	r.GET("/plans", ctl.ListPlans)
	r.POST("/subscriptions", ctl.Create)
	r.GET("/status", ctl.Status)
	r.GET("/success", ctl.Success)
	return r, remote, plans
}

func serve(r *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListPlans(t *testing.T) {
	r, _, _ := setup()
	w := serve(r, http.MethodGet, "/plans", "")
	var body struct {
		Plans []models.Plan `json:"plans"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Plans) != 3 || body.Plans[0].ID != "1_day" {
		t.Errorf("plans = %+v", body.Plans)
	}
}

func TestCreateRejectsUnknownPlan(t *testing.T) {
	r, remote, _ := setup()
	if w := serve(r, http.MethodPost, "/subscriptions", `{"plan_type":"lifetime"}`); w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if w := serve(r, http.MethodPost, "/subscriptions", `{}`); w.Code != http.StatusBadRequest {
		t.Errorf("missing plan status = %d, want 400", w.Code)
	}
	if len(remote.created) != 0 {
		t.Errorf("remote called with %v", remote.created)
	}
}

func TestCreateReturnsCheckoutURL(t *testing.T) {
	r, _, _ := setup()
	w := serve(r, http.MethodPost, "/subscriptions", `{"plan_type":"1_month"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body)
	}
	var res models.CheckoutResult
	_ = json.Unmarshal(w.Body.Bytes(), &res)
	if res.CheckoutURL != "https://checkout.example/1_month" {
		t.Errorf("result = %+v", res)
	}
}

func TestSuccessRequiresSessionID(t *testing.T) {
	r, remote, plans := setup()
	if w := serve(r, http.MethodGet, "/success", ""); w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if len(remote.verified) != 0 {
		t.Error("remote verify called without session id")
	}

	w := serve(r, http.MethodGet, "/success?session_id=cs_1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body)
	}
	if len(plans.plans) != 1 || plans.plans[0] != authmodels.PlanPremium {
		t.Errorf("stored plans = %v", plans.plans)
	}
}

func TestStatusStoresPlan(t *testing.T) {
	r, _, plans := setup()
	w := serve(r, http.MethodGet, "/status", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"premium":true`) {
		t.Errorf("status = %d body %s", w.Code, w.Body)
	}
	if len(plans.plans) != 1 {
		t.Errorf("stored plans = %v", plans.plans)
	}
}
