package models

// PlanResponse is the public view of a subscription plan
// @Description	Subscription plan with quota, prices and feature tags
type PlanResponse struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	MonthlyVideoLimit int      `json:"monthly_video_limit"`
	MaxVideoDuration  int      `json:"max_video_duration"`
	PriceTRY          int      `json:"price_try"`
	PriceUSD          int      `json:"price_usd"`
	Features          []string `json:"features"`
}

// PlansResponse wraps the plan listing
type PlansResponse struct {
	Plans []*PlanResponse `json:"plans"`
}
