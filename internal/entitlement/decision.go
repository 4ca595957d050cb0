package entitlement

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/ugcgo/ugcgo-backend/internal/logger"
	"github.com/ugcgo/ugcgo-backend/internal/models"
	"github.com/ugcgo/ugcgo-backend/internal/plan"
)

// Decision sources
const (
	SourceGift         = "gift"
	SourceSubscription = "subscription"
)

// VideoRequest describes a video creation attempt.
type VideoRequest struct {
	HasPhoto bool
	// PhotoKey is the uploaded object key, checked against storage when set.
	PhotoKey   string
	VideoCount int
}

// Decision is a granted video creation.
type Decision struct {
	Allowed         bool
	RemainingVideos int
	PlanLimit       int
	CurrentPlan     string
	Source          string
}

// CanCreateVideo runs the ordered entitlement checks and stops at the first
// failing one. Denials are returned as *DenialError.
//
// Gift credits take precedence over the subscription: a positive balance
// grants access without reading the subscription at all.
func (s *Service) CanCreateVideo(ctx context.Context, identity *models.Identity, req VideoRequest) (*Decision, error) {
	d, err := s.canCreateVideo(ctx, identity, req)
	if denial, ok := AsDenial(err); ok {
		s.recorder.ObserveDecision(false, denial.Code)
	} else if err == nil {
		s.recorder.ObserveDecision(true, "")
	}
	return d, err
}

func (s *Service) canCreateVideo(ctx context.Context, identity *models.Identity, req VideoRequest) (*Decision, error) {
	if identity == nil || identity.ID == "" {
		return nil, deny(CodeUnauthorized, msgUnauthorized)
	}
	count := req.VideoCount
	if count <= 0 {
		count = 1
	}
	log := logger.FromContext(ctx).With(slog.String("user_id", identity.ID))

	if balance := s.giftBalance(ctx, identity.ID); balance > 0 {
		if !s.hasPhoto(ctx, req) {
			return nil, deny(CodePhotoRequired, msgPhotoRequired)
		}
		log.Info("video creation allowed by gift credits", slog.Int("balance", balance), slog.Int("count", count))
		return &Decision{
			Allowed:         true,
			RemainingVideos: balance - count,
			PlanLimit:       balance,
			CurrentPlan:     plan.GiftPlanName,
			Source:          SourceGift,
		}, nil
	}

	sub := s.subscription(ctx, identity.ID)
	if sub == nil {
		return nil, deny(CodeNoActiveSubscription, msgNoSubscription)
	}
	if !plan.IsUsableStatus(sub.Status) {
		return nil, deny(CodeNoActiveSubscription, fmt.Sprintf(msgInactiveStatus, sub.Status))
	}

	now := s.now().UTC()
	if !plan.PeriodValid(sub.CurrentPeriodEnd, now) {
		return nil, deny(CodeSubscriptionExpired, msgExpired)
	}

	if !s.hasPhoto(ctx, req) {
		return nil, deny(CodePhotoRequired, msgPhotoRequired)
	}

	p, ok := s.catalog.Resolve(sub.PlanRef())
	if !ok {
		log.Warn("subscription references unknown plan", slog.String("plan_ref", sub.PlanRef()))
		return nil, deny(CodeInvalidPlan, msgInvalidPlan)
	}

	period := plan.PeriodFor(sub.CurrentPeriodStart, sub.CurrentPeriodEnd, now)
	limit := p.MonthlyVideoLimit

	used := s.usage(ctx, identity.ID, period.Start, now)
	remaining := max(0, limit-used)
	if remaining < count {
		return nil, &DenialError{
			Code:      CodeMonthlyLimitReached,
			Message:   fmt.Sprintf(msgLimitReached, limit),
			Remaining: remaining,
			Limit:     limit,
		}
	}

	// Count again right before granting to narrow the window in which
	// concurrent requests all observe spare capacity.
	recount := s.usage(ctx, identity.ID, period.Start, s.now().UTC())
	remaining = max(0, limit-recount)
	if remaining < count {
		log.Warn("usage changed during decision", slog.Int("first_count", used), slog.Int("recount", recount))
		return nil, raceDenial(limit, 0)
	}

	if s.reserver != nil {
		res, err := s.reserver.Reserve(ctx, reservationKey(identity.ID, period), recount, count, limit)
		switch {
		case err != nil:
			log.Warn("quota reservation unavailable", slog.String("error", err.Error()))
		case !res.Granted:
			log.Info("capacity held by concurrent requests", slog.Int("available", res.Available), slog.Int("count", count))
			return nil, raceDenial(limit, max(0, res.Available))
		default:
			remaining = res.Available
		}
	}

	return &Decision{
		Allowed:         true,
		RemainingVideos: remaining - count,
		PlanLimit:       limit,
		CurrentPlan:     p.Name,
		Source:          SourceSubscription,
	}, nil
}

func raceDenial(limit, remaining int) *DenialError {
	return &DenialError{
		Code:      CodeMonthlyLimitReached,
		Message:   msgLimitReachedRace,
		Remaining: remaining,
		Limit:     limit,
	}
}

// reservationKey scopes holds to one user and billing period.
func reservationKey(userID string, period plan.Period) string {
	return userID + ":" + strconv.FormatInt(period.Start.Unix(), 10)
}

// hasPhoto checks the declared photo and, when a key and storage are
// available, that the object exists. Storage errors fall back to the flag.
func (s *Service) hasPhoto(ctx context.Context, req VideoRequest) bool {
	if !req.HasPhoto {
		return false
	}
	if req.PhotoKey == "" || s.photos == nil {
		return true
	}

	ok, err := s.photos.PhotoExists(ctx, req.PhotoKey)
	if err != nil {
		logger.FromContext(ctx).Warn("photo lookup failed", slog.String("key", req.PhotoKey), slog.String("error", err.Error()))
		return true
	}
	return ok
}
