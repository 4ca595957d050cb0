package ydb

import (
	"context"
	"fmt"
	"time"

	"github.com/ydb-platform/ydb-go-sdk/v3/table"
	"github.com/ydb-platform/ydb-go-sdk/v3/table/result/named"
	"github.com/ydb-platform/ydb-go-sdk/v3/table/types"

	"github.com/ugcgo/ugcgo-backend/internal/store"
)

// GetSubscriptionByUser returns the user's billing record, nil when absent
func (c *YDBClient) GetSubscriptionByUser(ctx context.Context, userID string) (*store.Subscription, error) {
	defer c.observe("get_subscription")()

	query := `
		DECLARE $user_id AS Text;
		SELECT user_id, price_id, plan_id, status, current_period_start, current_period_end
		FROM subscriptions
		WHERE user_id = $user_id
		LIMIT 1
	`

	var sub store.Subscription
	var found bool

	err := c.driver.Table().Do(ctx, func(ctx context.Context, session table.Session) error {
		sub, found = store.Subscription{}, false
		_, res, err := session.Execute(ctx, table.DefaultTxControl(), query,
			table.NewQueryParameters(
				table.ValueParam("$user_id", types.TextValue(userID)),
			),
		)
		if err != nil {
			return err
		}
		defer res.Close()

		if res.NextResultSet(ctx) && res.NextRow() {
			found = true
			err := res.ScanNamed(
				named.Required("user_id", &sub.UserID),
				named.OptionalWithDefault("price_id", &sub.PriceID),
				named.OptionalWithDefault("plan_id", &sub.PlanID),
				named.OptionalWithDefault("status", &sub.Status),
				named.Optional("current_period_start", &sub.CurrentPeriodStart),
				named.Optional("current_period_end", &sub.CurrentPeriodEnd),
			)
			if err != nil {
				return fmt.Errorf("scan failed: %w", err)
			}
		}
		return res.Err()
	})

	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &sub, nil
}

// CountCompletedVideos counts completed videos with from <= created_at < to
func (c *YDBClient) CountCompletedVideos(ctx context.Context, userID string, from, to time.Time) (int64, error) {
	defer c.observe("count_videos")()

	query := `
		DECLARE $user_id AS Text;
		DECLARE $status AS Text;
		DECLARE $from AS Timestamp;
		DECLARE $to AS Timestamp;
		SELECT COUNT(*) AS cnt
		FROM videos VIEW user_created_idx
		WHERE user_id = $user_id
			AND status = $status
			AND created_at >= $from
			AND created_at < $to
	`

	var cnt uint64

	err := c.driver.Table().Do(ctx, func(ctx context.Context, session table.Session) error {
		_, res, err := session.Execute(ctx, table.OnlineReadOnlyTxControl(), query,
			table.NewQueryParameters(
				table.ValueParam("$user_id", types.TextValue(userID)),
				table.ValueParam("$status", types.TextValue(store.VideoCompleted)),
				table.ValueParam("$from", types.TimestampValueFromTime(from)),
				table.ValueParam("$to", types.TimestampValueFromTime(to)),
			),
		)
		if err != nil {
			return err
		}
		defer res.Close()

		if res.NextResultSet(ctx) && res.NextRow() {
			if err := res.ScanNamed(named.Required("cnt", &cnt)); err != nil {
				return fmt.Errorf("scan failed: %w", err)
			}
		}
		return res.Err()
	})

	if err != nil {
		return 0, err
	}
	return int64(cnt), nil
}

// ListAuthUsers returns the self-hosted user directory
func (c *YDBClient) ListAuthUsers(ctx context.Context) ([]*store.AuthUser, error) {
	defer c.observe("list_auth_users")()

	query := `
		SELECT id, email, created_at
		FROM auth_users
		ORDER BY created_at
	`

	var users []*store.AuthUser

	err := c.driver.Table().Do(ctx, func(ctx context.Context, session table.Session) error {
		users = users[:0]
		_, res, err := session.Execute(ctx, table.OnlineReadOnlyTxControl(), query, table.NewQueryParameters())
		if err != nil {
			return err
		}
		defer res.Close()

		for res.NextResultSet(ctx) {
			for res.NextRow() {
				var u store.AuthUser
				err := res.ScanNamed(
					named.Required("id", &u.ID),
					named.OptionalWithDefault("email", &u.Email),
					named.OptionalWithDefault("created_at", &u.CreatedAt),
				)
				if err != nil {
					return fmt.Errorf("scan failed: %w", err)
				}
				users = append(users, &u)
			}
		}
		return res.Err()
	})

	if err != nil {
		return nil, err
	}
	return users, nil
}
