package models

// SubscriptionStatusResponse describes the caller's plan and usage in the current period
// @Description	Subscription status and usage information
type SubscriptionStatusResponse struct {
	HasActiveSubscription bool     `json:"has_active_subscription"`
	PlanID                *string  `json:"plan_id"`
	PlanName              *string  `json:"plan_name"`
	Status                *string  `json:"status"`
	MonthlyVideoLimit     int      `json:"monthly_video_limit"`
	VideosUsedThisMonth   int64    `json:"videos_used_this_month"`
	RemainingVideos       int      `json:"remaining_videos"`
	PeriodStart           *string  `json:"period_start"`
	PeriodEnd             *string  `json:"period_end"`
	// PeriodEstimated is set when the billing record lacks a bound and the
	// calendar month was used instead.
	PeriodEstimated       bool     `json:"period_estimated"`
	Expired               bool     `json:"expired"`
	Features              []string `json:"features"`
	GiftCredits           int      `json:"gift_credits"`
}

// FeatureAccessResponse is the result of a feature capability check
type FeatureAccessResponse struct {
	HasAccess bool    `json:"has_access"`
	FeatureID string  `json:"feature_id"`
	Reason    *string `json:"reason"`
}

// VideoCreationResponse is returned when video creation is allowed
type VideoCreationResponse struct {
	Allowed         bool    `json:"allowed"`
	Reason          *string `json:"reason"`
	RemainingVideos int     `json:"remaining_videos"`
	PlanLimit       int     `json:"plan_limit"`
	CurrentPlan     *string `json:"current_plan"`
}

// ConsumeCreditsResponse reports the gift balance after a consumption
type ConsumeCreditsResponse struct {
	Consumed int `json:"consumed"`
	Balance  int `json:"balance"`
}

// GiftTokenResponse reports an administrative credit grant
type GiftTokenResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	UserEmail   string `json:"user_email"`
	GiftVideos  int    `json:"gift_videos"`
	TotalVideos int    `json:"total_videos"`
}

// UserListItem is one row of the admin user listing
type UserListItem struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Credits int    `json:"credits"`
}
