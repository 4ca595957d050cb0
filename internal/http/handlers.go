package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/ugcgo/ugcgo-backend/internal/admin"
	"github.com/ugcgo/ugcgo-backend/internal/entitlement"
	"github.com/ugcgo/ugcgo-backend/internal/logger"
	"github.com/ugcgo/ugcgo-backend/internal/models"
	"github.com/ugcgo/ugcgo-backend/internal/plan"
)

const (
	msgAdminRequired    = "Bu işlem için admin yetkisi gerekiyor."
	msgPermissionDenied = "Bu işlem için yetkiniz yok."
	msgUserNotFound     = "'%s' email adresine sahip kullanıcı bulunamadı."
)

// Server represents HTTP server
type Server struct {
	entitlementService *entitlement.Service
	adminService       *admin.Service
	planService        *plan.Service
	validate           *validator.Validate
}

// NewServer creates a new HTTP server
func NewServer(entitlementService *entitlement.Service, adminService *admin.Service, planService *plan.Service) *Server {
	return &Server{
		entitlementService: entitlementService,
		adminService:       adminService,
		planService:        planService,
		validate:           validator.New(),
	}
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
	}
}

// writeError writes an error response
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Detail: message})
}

// writeDenial writes a refused video creation with its reason code
func writeDenial(w http.ResponseWriter, d *entitlement.DenialError) {
	detail := DenialDetail{Code: d.Code, Message: d.Message}
	if d.HasQuota() {
		remaining, limit := d.Remaining, d.Limit
		detail.RemainingVideos = &remaining
		detail.PlanLimit = &limit
	}
	writeJSON(w, denialStatus(d.Code), DenialResponse{Detail: detail})
}

func denialStatus(code string) int {
	switch code {
	case entitlement.CodeUnauthorized:
		return http.StatusUnauthorized
	case entitlement.CodeNoActiveSubscription, entitlement.CodeSubscriptionExpired:
		return http.StatusPaymentRequired
	case entitlement.CodePhotoRequired, entitlement.CodeInvalidPlan:
		return http.StatusBadRequest
	case entitlement.CodeMonthlyLimitReached:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// decodeRequest decodes and validates a JSON request body
func (s *Server) decodeRequest(r *http.Request, req interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		return fmt.Errorf("Invalid request format: %w", err)
	}
	if err := s.validate.Struct(req); err != nil {
		return fmt.Errorf("Invalid request: %w", err)
	}
	return nil
}

// Health reports liveness
// @Summary		Health check
// @Tags		system
// @Produce	json
// @Success	200	{object}	HealthResponse
// @Router		/health [get]
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

// GetStatus returns the caller's subscription status
// @Summary		Subscription status
// @Description	Current plan, usage in the billing period and gift credit balance
// @Tags		subscription
// @Produce	json
// @Security	BearerAuth
// @Success	200	{object}	models.SubscriptionStatusResponse
// @Failure	401	{object}	DenialResponse
// @Router		/subscription/status [get]
func (s *Server) GetStatus(w http.ResponseWriter, r *http.Request) {
	id, _ := GetIdentity(r)

	resp, err := s.entitlementService.GetStatus(r.Context(), id)
	if err != nil {
		if errors.Is(err, entitlement.ErrUnauthenticated) {
			writeDenial(w, entitlement.Unauthorized())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetPlans lists the public subscription plans
// @Summary		List plans
// @Tags		subscription
// @Produce	json
// @Success	200	{object}	models.PlansResponse
// @Router		/subscription/plans [get]
func (s *Server) GetPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := s.planService.GetAllPlans(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, models.PlansResponse{Plans: plans})
}

// CheckFeature reports whether the caller's plan includes a feature
// @Summary		Check feature access
// @Tags		subscription
// @Produce	json
// @Security	BearerAuth
// @Param		feature_id	path		string	true	"Feature tag"
// @Success	200			{object}	models.FeatureAccessResponse
// @Failure	401			{object}	DenialResponse
// @Router		/subscription/check-feature/{feature_id} [get]
func (s *Server) CheckFeature(w http.ResponseWriter, r *http.Request) {
	id, _ := GetIdentity(r)

	resp, err := s.entitlementService.CheckFeature(r.Context(), id, r.PathValue("feature_id"))
	if err != nil {
		if errors.Is(err, entitlement.ErrUnauthenticated) {
			writeDenial(w, entitlement.Unauthorized())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// CanCreateVideo authorizes a video creation
// @Summary		Authorize video creation
// @Description	Runs the entitlement checks in order and returns the first failing reason code
// @Tags		subscription
// @Accept		json
// @Produce	json
// @Security	BearerAuth
// @Param		request	body		VideoCreationRequest	true	"Creation request"
// @Success	200		{object}	models.VideoCreationResponse
// @Failure	400		{object}	DenialResponse	"PHOTO_REQUIRED or INVALID_PLAN"
// @Failure	401		{object}	DenialResponse	"UNAUTHORIZED"
// @Failure	402		{object}	DenialResponse	"NO_ACTIVE_SUBSCRIPTION or SUBSCRIPTION_EXPIRED"
// @Failure	403		{object}	DenialResponse	"MONTHLY_LIMIT_REACHED"
// @Router		/subscription/can-create-video [post]
func (s *Server) CanCreateVideo(w http.ResponseWriter, r *http.Request) {
	var req VideoCreationRequest
	if err := s.decodeRequest(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, _ := GetIdentity(r)
	decision, err := s.entitlementService.CanCreateVideo(r.Context(), id, entitlement.VideoRequest{
		HasPhoto:   req.HasPhoto,
		PhotoKey:   req.PhotoKey,
		VideoCount: req.VideoCount,
	})
	if err != nil {
		if d, ok := entitlement.AsDenial(err); ok {
			logger.FromContext(r.Context()).Info("video creation denied", "code", d.Code)
			writeDenial(w, d)
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	currentPlan := decision.CurrentPlan
	writeJSON(w, http.StatusOK, models.VideoCreationResponse{
		Allowed:         decision.Allowed,
		RemainingVideos: decision.RemainingVideos,
		PlanLimit:       decision.PlanLimit,
		CurrentPlan:     &currentPlan,
	})
}

// ConsumeCredits spends gift credits after a successful creation
// @Summary		Consume gift credits
// @Tags		subscription
// @Accept		json
// @Produce	json
// @Security	BearerAuth
// @Param		request	body		ConsumeCreditsRequest	true	"Consumption"
// @Success	200		{object}	models.ConsumeCreditsResponse
// @Failure	400		{object}	ErrorResponse
// @Failure	402		{object}	ErrorResponse
// @Failure	409		{object}	ErrorResponse
// @Router		/subscription/consume-credits [post]
func (s *Server) ConsumeCredits(w http.ResponseWriter, r *http.Request) {
	var req ConsumeCreditsRequest
	if err := s.decodeRequest(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, _ := GetIdentity(r)
	balance, err := s.entitlementService.ConsumeGiftCredits(r.Context(), id, req.Count)
	if err != nil {
		switch {
		case errors.Is(err, entitlement.ErrUnauthenticated):
			writeDenial(w, entitlement.Unauthorized())
		case errors.Is(err, entitlement.ErrInvalidCount):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, entitlement.ErrInsufficientCredits):
			writeError(w, http.StatusPaymentRequired, err.Error())
		case errors.Is(err, entitlement.ErrCreditConflict):
			writeError(w, http.StatusConflict, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, models.ConsumeCreditsResponse{Consumed: req.Count, Balance: balance})
}

// GiftToken grants gift videos to a user by email
// @Summary		Grant gift credits
// @Tags		admin
// @Accept		json
// @Produce	json
// @Security	BearerAuth
// @Param		request	body		GiftTokenRequest	true	"Grant"
// @Success	200		{object}	models.GiftTokenResponse
// @Failure	400		{object}	ErrorResponse
// @Failure	401		{object}	DenialResponse
// @Failure	403		{object}	ErrorResponse
// @Failure	404		{object}	ErrorResponse
// @Failure	500		{object}	ErrorResponse
// @Router		/subscription/admin/gift-token [post]
func (s *Server) GiftToken(w http.ResponseWriter, r *http.Request) {
	id, _ := GetIdentity(r)

	var req GiftTokenRequest
	if err := s.decodeRequest(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := s.adminService.GrantCredits(r.Context(), id, req.UserEmail, req.VideoCount)
	if err != nil {
		switch {
		case errors.Is(err, admin.ErrForbidden):
			writeError(w, http.StatusForbidden, msgAdminRequired)
		case errors.Is(err, admin.ErrInvalidAmount):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, admin.ErrUserNotFound):
			writeError(w, http.StatusNotFound, fmt.Sprintf(msgUserNotFound, req.UserEmail))
		default:
			logger.FromContext(r.Context()).Error("gift grant failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Hediye verme hatası: "+err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// ListUsers lists directory users with their gift balances
// @Summary		List users
// @Tags		admin
// @Produce	json
// @Security	BearerAuth
// @Success	200	{array}		models.UserListItem
// @Failure	401	{object}	DenialResponse
// @Failure	403	{object}	ErrorResponse
// @Router		/subscription/admin/users [get]
func (s *Server) ListUsers(w http.ResponseWriter, r *http.Request) {
	id, _ := GetIdentity(r)

	users, err := s.adminService.ListUsers(r.Context(), id)
	if err != nil {
		if errors.Is(err, admin.ErrForbidden) {
			writeError(w, http.StatusForbidden, msgAdminRequired)
			return
		}
		logger.FromContext(r.Context()).Error("user listing failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, users)
}
