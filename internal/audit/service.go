package audit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ugcgo/ugcgo-backend/internal/store"
)

var (
	ErrTypeRequired   = errors.New("transaction type is required")
	ErrUserIDRequired = errors.New("user_id is required")
	ErrZeroAmount     = errors.New("amount must not be zero")
)

// Service writes credit ledger entries.
// It applies defaults and shields callers from storage specifics.
type Service struct {
	db  store.Database
	log *slog.Logger
}

// NewService builds a ledger service instance
func NewService(db store.Database, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{db: db, log: log}
}

// Record is a balance change of one user
type Record struct {
	ID          string
	Timestamp   time.Time
	UserID      string
	Amount      int
	Type        string
	Description string
}

// LogAction stores the ledger row synchronously
func (s *Service) LogAction(ctx context.Context, record Record) error {
	if record.Type == "" {
		return ErrTypeRequired
	}
	if record.UserID == "" {
		return ErrUserIDRequired
	}
	if record.Amount == 0 {
		return ErrZeroAmount
	}
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now().UTC()
	}

	tx := &store.CreditTransaction{
		ID:          record.ID,
		UserID:      record.UserID,
		Amount:      record.Amount,
		Type:        record.Type,
		Description: record.Description,
		CreatedAt:   record.Timestamp,
	}

	if err := s.db.InsertCreditTransaction(ctx, tx); err != nil {
		s.log.Error("failed to write credit transaction", "error", err, "type", record.Type, "user_id", record.UserID)
		return fmt.Errorf("insert credit transaction: %w", err)
	}
	return nil
}
