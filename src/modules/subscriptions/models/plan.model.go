package subscriptions

// Plan is one purchasable subscription offer.
type Plan struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Price    string   `json:"price"`
	Duration string   `json:"duration"`
	Features []string `json:"features"`
	Popular  bool     `json:"popular,omitempty"`
}

var plans = []Plan{
	{
		ID:       "1_day",
		Name:     "1 Day Pass",
		Price:    "₹199",
		Duration: "24 hours of premium access",
		Features: []string{"Full access to all movies", "Unlimited streaming", "HD quality", "No ads"},
	},
	{
		ID:       "1_month",
		Name:     "7 Day Pass",
		Price:    "₹799",
		Duration: "7 days of premium access",
		Features: []string{"Full access to all movies", "Unlimited streaming", "HD & 4K quality", "Priority customer support"},
		Popular:  true,
	},
	{
		ID:       "3_months",
		Name:     "1 Month Premium",
		Price:    "₹1999",
		Duration: "30 days of premium access",
		Features: []string{"Full access to all movies", "Early access to new releases", "Offline downloads", "Priority customer support"},
	},
}

// Plans returns a copy of the offered plans in display order.
func Plans() []Plan {
	out := make([]Plan, len(plans))
	copy(out, plans)
	return out
}

// FindPlan looks a plan up by id.
func FindPlan(id string) (Plan, bool) {
	for _, p := range plans {
		if p.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}

// CheckoutResult is what the storefront hands back after starting a checkout.
type CheckoutResult struct {
	PlanID      string `json:"plan_id"`
	CheckoutURL string `json:"checkout_url"`
}

// Verification is the outcome of confirming a completed checkout session.
type Verification struct {
	Message  string `json:"message"`
	PlanType string `json:"plan_type"`
}
