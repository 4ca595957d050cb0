package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/ugcgo/ugcgo-backend/internal/store"
)

const (
	tableSubscriptions = "stripe_user_subscriptions"
	tableVideos        = "videos"
	tableUsers         = "users"
	tableCreditTx      = "credit_transactions"

	creditsColumns = "id,email,user_credits_points,created_at"
	listPageSize   = 1000

	// Password placeholder for rows whose credentials live in Supabase auth.
	managedPassword = "supabase_auth_managed"
)

type subscriptionRow struct {
	UserID             string `json:"user_id"`
	SubscriptionStatus string `json:"subscription_status"`
	PriceID            string `json:"price_id"`
	PlanID             string `json:"plan_id"`
	// unix seconds
	CurrentPeriodStart *int64 `json:"current_period_start"`
	CurrentPeriodEnd   *int64 `json:"current_period_end"`
}

type creditsRow struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Credits *int   `json:"user_credits_points"`
	Created string `json:"created_at"`
}

func (r creditsRow) toStore() *store.UserCredits {
	uc := &store.UserCredits{UserID: r.ID, Email: r.Email, CreatedAt: parseTime(r.Created)}
	if r.Credits != nil {
		uc.Balance = *r.Credits
	}
	return uc
}

func unixPtr(v *int64) *time.Time {
	if v == nil || *v == 0 {
		return nil
	}
	t := time.Unix(*v, 0).UTC()
	return &t
}

func (c *Client) GetSubscriptionByUser(ctx context.Context, userID string) (*store.Subscription, error) {
	q := url.Values{}
	q.Set("user_id", eq(userID))
	q.Set("select", "*")
	q.Set("limit", "1")

	var rows []subscriptionRow
	if _, err := c.getJSON(ctx, request{op: "get_subscription", path: restPrefix + tableSubscriptions, query: q}, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	r := rows[0]
	return &store.Subscription{
		UserID:             r.UserID,
		PriceID:            r.PriceID,
		PlanID:             r.PlanID,
		Status:             r.SubscriptionStatus,
		CurrentPeriodStart: unixPtr(r.CurrentPeriodStart),
		CurrentPeriodEnd:   unixPtr(r.CurrentPeriodEnd),
	}, nil
}

func (c *Client) CountCompletedVideos(ctx context.Context, userID string, from, to time.Time) (int64, error) {
	q := url.Values{}
	q.Set("select", "id")
	q.Set("user_id", eq(userID))
	q.Set("status", eq(store.VideoCompleted))
	q.Add("created_at", "gte."+timestamp(from))
	q.Add("created_at", "lt."+timestamp(to))

	resp, data, err := c.do(ctx, request{
		op:      "count_videos",
		method:  http.MethodGet,
		path:    restPrefix + tableVideos,
		query:   q,
		headers: map[string]string{"Prefer": "count=exact"},
	})
	if err != nil {
		return 0, err
	}
	if n, ok := parseContentRange(resp.Header.Get("Content-Range")); ok {
		return n, nil
	}

	var rows []json.RawMessage
	if err := json.Unmarshal(data, &rows); err != nil {
		return 0, fmt.Errorf("supabase count_videos: decode: %w", err)
	}
	return int64(len(rows)), nil
}

func (c *Client) getCreditsBy(ctx context.Context, op, column, filter string) (*store.UserCredits, error) {
	q := url.Values{}
	q.Set(column, filter)
	q.Set("select", creditsColumns)
	q.Set("limit", "1")

	var rows []creditsRow
	if _, err := c.getJSON(ctx, request{op: op, path: restPrefix + tableUsers, query: q}, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].toStore(), nil
}

func (c *Client) GetCredits(ctx context.Context, userID string) (*store.UserCredits, error) {
	return c.getCreditsBy(ctx, "get_credits", "id", eq(userID))
}

func (c *Client) GetCreditsByEmail(ctx context.Context, email string) (*store.UserCredits, error) {
	return c.getCreditsBy(ctx, "get_credits_by_email", "email", ilike(email))
}

func (c *Client) ListCredits(ctx context.Context) ([]*store.UserCredits, error) {
	var out []*store.UserCredits
	for offset := 0; ; offset += listPageSize {
		q := url.Values{}
		q.Set("select", creditsColumns)
		q.Set("order", "created_at.asc")
		q.Set("limit", strconv.Itoa(listPageSize))
		q.Set("offset", strconv.Itoa(offset))

		var rows []creditsRow
		if _, err := c.getJSON(ctx, request{op: "list_credits", path: restPrefix + tableUsers, query: q}, &rows); err != nil {
			return nil, err
		}
		for _, r := range rows {
			out = append(out, r.toStore())
		}
		if len(rows) < listPageSize {
			return out, nil
		}
	}
}

func (c *Client) InsertCredits(ctx context.Context, credits *store.UserCredits) error {
	createdAt := credits.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, _, err := c.do(ctx, request{
		op:     "insert_credits",
		method: http.MethodPost,
		path:   restPrefix + tableUsers,
		body: map[string]any{
			"id":                  credits.UserID,
			"email":               credits.Email,
			"password":            managedPassword,
			"role":                "user",
			"is_admin":            false,
			"user_credits_points": credits.Balance,
			"created_at":          timestamp(createdAt),
		},
		headers: map[string]string{"Prefer": "return=minimal"},
	})
	return err
}

func (c *Client) UpdateCredits(ctx context.Context, userID string, balance int) error {
	q := url.Values{}
	q.Set("id", eq(userID))
	_, _, err := c.do(ctx, request{
		op:      "update_credits",
		method:  http.MethodPatch,
		path:    restPrefix + tableUsers,
		query:   q,
		body:    map[string]any{"user_credits_points": balance},
		headers: map[string]string{"Prefer": "return=minimal"},
	})
	return err
}

// CompareAndSetCredits filters the PATCH on the expected balance, so the row
// is only touched when nobody changed it in between.
func (c *Client) CompareAndSetCredits(ctx context.Context, userID string, expected, balance int) (bool, error) {
	q := url.Values{}
	q.Set("id", eq(userID))
	q.Set("user_credits_points", eq(strconv.Itoa(expected)))
	q.Set("select", "id")

	_, data, err := c.do(ctx, request{
		op:      "cas_credits",
		method:  http.MethodPatch,
		path:    restPrefix + tableUsers,
		query:   q,
		body:    map[string]any{"user_credits_points": balance},
		headers: map[string]string{"Prefer": "return=representation"},
	})
	if err != nil {
		return false, err
	}

	var rows []json.RawMessage
	if err := json.Unmarshal(data, &rows); err != nil {
		return false, fmt.Errorf("supabase cas_credits: decode: %w", err)
	}
	return len(rows) == 1, nil
}

func (c *Client) InsertCreditTransaction(ctx context.Context, tx *store.CreditTransaction) error {
	_, _, err := c.do(ctx, request{
		op:     "insert_credit_transaction",
		method: http.MethodPost,
		path:   restPrefix + tableCreditTx,
		body: map[string]any{
			"id":          tx.ID,
			"user_id":     tx.UserID,
			"amount":      tx.Amount,
			"type":        tx.Type,
			"description": tx.Description,
			"created_at":  timestamp(tx.CreatedAt),
		},
		headers: map[string]string{"Prefer": "return=minimal"},
	})
	return err
}

var _ store.Database = (*Client)(nil)
