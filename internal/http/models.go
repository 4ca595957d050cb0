package http

// VideoCreationRequest asks whether the caller may create videos
// @Description	Video creation authorization request
type VideoCreationRequest struct {
	HasPhoto bool `json:"has_photo"`
	// PhotoKey is the uploaded photo's object key, verified when storage is configured
	PhotoKey   string `json:"photo_key,omitempty" validate:"omitempty,max=1024"`
	VideoCount int    `json:"video_count" validate:"gte=0,lte=100"`
}

// ConsumeCreditsRequest spends gift credits after successful creation
type ConsumeCreditsRequest struct {
	Count int `json:"count" validate:"required,min=1,max=100"`
}

// GiftTokenRequest grants gift videos to a user
// @Description	Administrative gift credit grant
type GiftTokenRequest struct {
	UserEmail  string `json:"user_email" validate:"required,email"`
	VideoCount int    `json:"video_count" validate:"required,min=1,max=1000"`
}

// DenialDetail is the machine readable refusal of a video creation
type DenialDetail struct {
	Code            string `json:"code"`
	Message         string `json:"message"`
	RemainingVideos *int   `json:"remaining_videos,omitempty"`
	PlanLimit       *int   `json:"plan_limit,omitempty"`
}

// DenialResponse wraps a denial
type DenialResponse struct {
	Detail DenialDetail `json:"detail"`
}

// ErrorResponse represents a plain error
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// HealthResponse represents the health check payload
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}
