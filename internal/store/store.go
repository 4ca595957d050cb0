package store

import (
	"context"
	"time"
)

// Video statuses
const (
	VideoProcessing = "processing"
	VideoCompleted  = "completed"
	VideoFailed     = "failed"
)

// Credit transaction types
const (
	TxPurchase      = "purchase"
	TxSignupBonus   = "signup_bonus"
	TxGift          = "gift"
	TxVideoCreation = "video_creation"
	TxRefund        = "refund"
)

// Database is the external data store used by every service.
type Database interface {
	// Subscriptions. Returns nil, nil when the user has none.
	GetSubscriptionByUser(ctx context.Context, userID string) (*Subscription, error)

	// Videos. Exact count of completed videos with from <= created_at < to.
	CountCompletedVideos(ctx context.Context, userID string, from, to time.Time) (int64, error)

	// Gift credits. Single-row lookups return nil, nil when absent.
	// GetCreditsByEmail matches the address case-insensitively.
	GetCredits(ctx context.Context, userID string) (*UserCredits, error)
	GetCreditsByEmail(ctx context.Context, email string) (*UserCredits, error)
	ListCredits(ctx context.Context) ([]*UserCredits, error)
	InsertCredits(ctx context.Context, credits *UserCredits) error
	UpdateCredits(ctx context.Context, userID string, balance int) error
	// CompareAndSetCredits writes balance only if the stored balance still equals expected.
	CompareAndSetCredits(ctx context.Context, userID string, expected, balance int) (bool, error)

	// Ledger
	InsertCreditTransaction(ctx context.Context, tx *CreditTransaction) error

	// Identity provider directory
	ListAuthUsers(ctx context.Context) ([]*AuthUser, error)

	Close() error
}

// Subscription is the billing record of a user.
type Subscription struct {
	UserID             string
	PriceID            string
	PlanID             string
	Status             string
	CurrentPeriodStart *time.Time
	CurrentPeriodEnd   *time.Time
}

// PlanRef returns the reference used to resolve the plan.
func (s *Subscription) PlanRef() string {
	if s.PriceID != "" {
		return s.PriceID
	}
	return s.PlanID
}

// UserCredits holds the gift-credit balance of a user.
type UserCredits struct {
	UserID    string
	Email     string
	Balance   int
	CreatedAt time.Time
}

// CreditTransaction is a ledger entry. Amount is negative for consumption.
type CreditTransaction struct {
	ID          string
	UserID      string
	Amount      int
	Type        string
	Description string
	CreatedAt   time.Time
}

// AuthUser is an entry of the identity provider's user directory.
type AuthUser struct {
	ID        string
	Email     string
	CreatedAt time.Time
}
