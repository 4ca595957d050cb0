package entitlement

import (
	"context"
	"log/slog"
	"time"

	"github.com/ugcgo/ugcgo-backend/internal/audit"
	"github.com/ugcgo/ugcgo-backend/internal/logger"
	"github.com/ugcgo/ugcgo-backend/internal/plan"
	"github.com/ugcgo/ugcgo-backend/internal/quota"
	"github.com/ugcgo/ugcgo-backend/internal/store"
)

// PhotoChecker confirms that an uploaded photo exists.
type PhotoChecker interface {
	PhotoExists(ctx context.Context, key string) (bool, error)
}

// Recorder receives decision and consumption events.
type Recorder interface {
	ObserveDecision(allowed bool, code string)
	AddGiftConsumed(n int)
}

// Reserver holds granted capacity until the new videos appear in the
// completed-video count. Check and hold must be atomic.
type Reserver interface {
	Reserve(ctx context.Context, key string, used, count, limit int) (quota.Reservation, error)
}

// Ledger persists credit balance changes.
type Ledger interface {
	LogAction(ctx context.Context, record audit.Record) error
}

type noopRecorder struct{}

func (noopRecorder) ObserveDecision(bool, string) {}
func (noopRecorder) AddGiftConsumed(int) {}

// Service answers entitlement questions from the external store.
// It keeps no state between calls.
type Service struct {
	db       store.Database
	catalog  *plan.Catalog
	photos   PhotoChecker
	reserver Reserver
	recorder Recorder
	ledger   Ledger
	now      func() time.Time
}

type Option func(*Service)

func WithPhotoChecker(p PhotoChecker) Option {
	return func(s *Service) { s.photos = p }
}

// WithReserver makes quota grants hold their capacity, so concurrent
// requests cannot all take the same free slot.
func WithReserver(r Reserver) Option {
	return func(s *Service) { s.reserver = r }
}

func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

func WithLedger(l Ledger) Option {
	return func(s *Service) { s.ledger = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(db store.Database, catalog *plan.Catalog, opts ...Option) *Service {
	s := &Service{
		db:       db,
		catalog:  catalog,
		recorder: noopRecorder{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// giftBalance reads the gift-credit balance; read failures count as zero.
func (s *Service) giftBalance(ctx context.Context, userID string) int {
	uc, err := s.db.GetCredits(ctx, userID)
	if err != nil {
		logger.FromContext(ctx).Warn("failed to read gift credits", slog.String("user_id", userID), slog.String("error", err.Error()))
		return 0
	}
	if uc == nil {
		return 0
	}
	return uc.Balance
}

// subscription reads the billing record; read failures count as absent.
func (s *Service) subscription(ctx context.Context, userID string) *store.Subscription {
	sub, err := s.db.GetSubscriptionByUser(ctx, userID)
	if err != nil {
		logger.FromContext(ctx).Warn("failed to read subscription", slog.String("user_id", userID), slog.String("error", err.Error()))
		return nil
	}
	return sub
}

// usage counts completed videos; read failures count as zero usage.
func (s *Service) usage(ctx context.Context, userID string, from, to time.Time) int {
	n, err := s.db.CountCompletedVideos(ctx, userID, from, to)
	if err != nil {
		logger.FromContext(ctx).Warn("failed to count videos", slog.String("user_id", userID), slog.String("error", err.Error()))
		return 0
	}
	return int(n)
}
