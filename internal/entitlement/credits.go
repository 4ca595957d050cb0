package entitlement

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ugcgo/ugcgo-backend/internal/audit"
	"github.com/ugcgo/ugcgo-backend/internal/logger"
	"github.com/ugcgo/ugcgo-backend/internal/models"
	"github.com/ugcgo/ugcgo-backend/internal/store"
)

const maxConsumeAttempts = 3

// ConsumeGiftCredits decrements the caller's gift balance by count after a
// successful creation. The write is conditional on the balance read, and is
// retried a few times when another request changed it in between.
func (s *Service) ConsumeGiftCredits(ctx context.Context, identity *models.Identity, count int) (int, error) {
	if identity == nil || identity.ID == "" {
		return 0, ErrUnauthenticated
	}
	if count <= 0 {
		return 0, ErrInvalidCount
	}

	log := logger.FromContext(ctx).With(slog.String("user_id", identity.ID))

	for attempt := 1; attempt <= maxConsumeAttempts; attempt++ {
		uc, err := s.db.GetCredits(ctx, identity.ID)
		if err != nil {
			return 0, fmt.Errorf("read gift credits: %w", err)
		}
		if uc == nil || uc.Balance < count {
			return 0, ErrInsufficientCredits
		}

		balance := uc.Balance - count
		ok, err := s.db.CompareAndSetCredits(ctx, identity.ID, uc.Balance, balance)
		if err != nil {
			return 0, fmt.Errorf("update gift credits: %w", err)
		}
		if !ok {
			log.Info("gift balance changed, retrying", slog.Int("attempt", attempt))
			continue
		}

		s.recorder.AddGiftConsumed(count)
		if s.ledger != nil {
			err := s.ledger.LogAction(ctx, audit.Record{
				UserID:      identity.ID,
				Amount:      -count,
				Type:        store.TxVideoCreation,
				Description: fmt.Sprintf("%d video oluşturuldu", count),
			})
			if err != nil {
				// the balance is already written
				log.Error("failed to record gift consumption", slog.String("error", err.Error()))
			}
		}
		return balance, nil
	}

	return 0, ErrCreditConflict
}
