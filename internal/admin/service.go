package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ugcgo/ugcgo-backend/internal/audit"
	"github.com/ugcgo/ugcgo-backend/internal/logger"
	"github.com/ugcgo/ugcgo-backend/internal/models"
	"github.com/ugcgo/ugcgo-backend/internal/rbac"
	"github.com/ugcgo/ugcgo-backend/internal/store"
)

var (
	ErrForbidden     = errors.New("admin permission required")
	ErrInvalidAmount = errors.New("video count must be at least 1")
	ErrUserNotFound  = errors.New("user not found")
)

// Notifier tells a user about granted credits.
type Notifier interface {
	SendGiftCreditsEmail(ctx context.Context, toEmail string, gifted, total int) error
}

// Recorder counts granted credits.
type Recorder interface {
	AddGiftGranted(n int)
}

// Ledger persists credit balance changes.
type Ledger interface {
	LogAction(ctx context.Context, record audit.Record) error
}

// Service grants gift credits and lists users for administrators.
type Service struct {
	db       store.Database
	policy   rbac.Policy
	ledger   Ledger
	notifier Notifier
	recorder Recorder
}

type Option func(*Service)

func WithLedger(l Ledger) Option {
	return func(s *Service) { s.ledger = l }
}

// WithNotifier enables recipient emails. A nil notifier disables them.
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

func WithRecorder(r Recorder) Option {
	return func(s *Service) { s.recorder = r }
}

func NewService(db store.Database, policy rbac.Policy, opts ...Option) *Service {
	s := &Service{db: db, policy: policy}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GrantCredits adds count gift videos to the account registered under email.
// Users without a credit row are looked up in the identity directory and
// get a new row seeded with count.
func (s *Service) GrantCredits(ctx context.Context, admin *models.Identity, email string, count int) (*models.GiftTokenResponse, error) {
	if !s.policy.Can(admin, rbac.PermissionCreditsGrant) {
		return nil, ErrForbidden
	}
	if count < 1 {
		return nil, ErrInvalidAmount
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrUserNotFound
	}

	log := logger.FromContext(ctx).With(slog.String("admin_email", admin.Email), slog.String("target_email", email))

	uc, err := s.db.GetCreditsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("lookup credits by email: %w", err)
	}

	var userID, recipient string
	var total int
	if uc != nil {
		userID = uc.UserID
		recipient = uc.Email
		total = uc.Balance + count
		if err := s.db.UpdateCredits(ctx, userID, total); err != nil {
			return nil, fmt.Errorf("update credits: %w", err)
		}
	} else {
		user, err := s.findAuthUser(ctx, email)
		if err != nil {
			return nil, err
		}
		userID = user.ID
		recipient = user.Email
		total = count
		err = s.db.InsertCredits(ctx, &store.UserCredits{
			UserID:    user.ID,
			Email:     user.Email,
			Balance:   total,
			CreatedAt: time.Now().UTC(),
		})
		if err != nil {
			return nil, fmt.Errorf("insert credits: %w", err)
		}
	}

	log.Info("gift credits granted", slog.String("user_id", userID), slog.Int("count", count), slog.Int("total", total))

	if s.recorder != nil {
		s.recorder.AddGiftGranted(count)
	}
	if s.ledger != nil {
		err := s.ledger.LogAction(ctx, audit.Record{
			UserID:      userID,
			Amount:      count,
			Type:        store.TxGift,
			Description: fmt.Sprintf("Admin hediyesi (%s)", admin.Email),
		})
		if err != nil {
			log.Error("failed to record gift", slog.String("error", err.Error()))
		}
	}
	if recipient == "" {
		recipient = email
	}
	if s.notifier != nil {
		if err := s.notifier.SendGiftCreditsEmail(ctx, recipient, count, total); err != nil {
			log.Warn("failed to send gift email", slog.String("error", err.Error()))
		}
	}

	return &models.GiftTokenResponse{
		Success:     true,
		Message:     fmt.Sprintf("'%s' kullanıcısına %d video hakkı eklendi.", email, count),
		UserEmail:   email,
		GiftVideos:  count,
		TotalVideos: total,
	}, nil
}

func (s *Service) findAuthUser(ctx context.Context, email string) (*store.AuthUser, error) {
	users, err := s.db.ListAuthUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list auth users: %w", err)
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

// ListUsers returns every directory user with their gift balance.
func (s *Service) ListUsers(ctx context.Context, admin *models.Identity) ([]models.UserListItem, error) {
	if !s.policy.Can(admin, rbac.PermissionUsersList) {
		return nil, ErrForbidden
	}

	users, err := s.db.ListAuthUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list auth users: %w", err)
	}

	balances := make(map[string]int)
	credits, err := s.db.ListCredits(ctx)
	if err != nil {
		logger.FromContext(ctx).Warn("failed to list credits", slog.String("error", err.Error()))
	}
	for _, c := range credits {
		balances[c.UserID] = c.Balance
	}

	items := make([]models.UserListItem, 0, len(users))
	for _, u := range users {
		items = append(items, models.UserListItem{
			ID:      u.ID,
			Email:   u.Email,
			Credits: balances[u.ID],
		})
	}
	return items, nil
}
