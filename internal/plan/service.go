package plan

import (
	"context"
	"slices"

	"github.com/ugcgo/ugcgo-backend/internal/models"
)

// Service exposes the plan catalog to the API
type Service struct {
	catalog *Catalog
}

// NewService creates a plan service over the catalog
func NewService(catalog *Catalog) *Service {
	return &Service{
		catalog: catalog,
	}
}

// GetAllPlans returns every available plan in tier order
func (s *Service) GetAllPlans(ctx context.Context) ([]*models.PlanResponse, error) {
	plans := s.catalog.Plans()

	response := make([]*models.PlanResponse, 0, len(plans))
	for _, p := range plans {
		response = append(response, ToResponse(p))
	}

	return response, nil
}

// ToResponse converts a plan into its API view
func ToResponse(p *Plan) *models.PlanResponse {
	return &models.PlanResponse{
		ID:                p.ID,
		Name:              p.Name,
		MonthlyVideoLimit: p.MonthlyVideoLimit,
		MaxVideoDuration:  p.MaxVideoDurationSec,
		PriceTRY:          p.PriceTRY,
		PriceUSD:          p.PriceUSD,
		Features:          slices.Clone(p.Features),
	}
}
