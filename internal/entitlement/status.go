package entitlement

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/ugcgo/ugcgo-backend/internal/models"
	"github.com/ugcgo/ugcgo-backend/internal/plan"
)

// GetStatus reports the caller's plan, usage in the current period and gift balance.
func (s *Service) GetStatus(ctx context.Context, identity *models.Identity) (*models.SubscriptionStatusResponse, error) {
	if identity == nil || identity.ID == "" {
		return nil, ErrUnauthenticated
	}

	resp := &models.SubscriptionStatusResponse{
		Features:    []string{},
		GiftCredits: s.giftBalance(ctx, identity.ID),
	}

	sub := s.subscription(ctx, identity.ID)
	if sub == nil {
		return resp, nil
	}

	status := sub.Status
	resp.Status = &status
	if !plan.IsUsableStatus(sub.Status) {
		return resp, nil
	}

	p, ok := s.catalog.Resolve(sub.PlanRef())
	if !ok {
		return resp, nil
	}

	now := s.now().UTC()
	period := plan.PeriodFor(sub.CurrentPeriodStart, sub.CurrentPeriodEnd, now)
	used := s.usage(ctx, identity.ID, period.Start, period.End)

	planID, planName := p.ID, p.Name
	start, end := period.Start.Format(time.RFC3339), period.End.Format(time.RFC3339)

	resp.HasActiveSubscription = true
	resp.PlanID = &planID
	resp.PlanName = &planName
	resp.MonthlyVideoLimit = p.MonthlyVideoLimit
	resp.VideosUsedThisMonth = int64(used)
	resp.RemainingVideos = max(0, p.MonthlyVideoLimit-used)
	resp.PeriodStart = &start
	resp.PeriodEnd = &end
	resp.PeriodEstimated = period.Fallback
	resp.Expired = !plan.PeriodValid(sub.CurrentPeriodEnd, now)
	resp.Features = slices.Clone(p.Features)
	return resp, nil
}

// CheckFeature reports whether the caller's plan includes a feature tag.
func (s *Service) CheckFeature(ctx context.Context, identity *models.Identity, featureID string) (*models.FeatureAccessResponse, error) {
	if identity == nil || identity.ID == "" {
		return nil, ErrUnauthenticated
	}

	denied := func(reason string) *models.FeatureAccessResponse {
		return &models.FeatureAccessResponse{FeatureID: featureID, Reason: &reason}
	}

	sub := s.subscription(ctx, identity.ID)
	if sub == nil {
		return denied(reasonNoSubscription), nil
	}
	if !plan.IsUsableStatus(sub.Status) {
		return denied(reasonInactive), nil
	}
	p, ok := s.catalog.Resolve(sub.PlanRef())
	if !ok {
		return denied(reasonInvalidPlan), nil
	}
	if !p.HasFeature(featureID) {
		return denied(fmt.Sprintf(reasonMissingFeature, p.Name)), nil
	}

	return &models.FeatureAccessResponse{HasAccess: true, FeatureID: featureID}, nil
}
