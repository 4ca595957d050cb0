package ydb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ydb-platform/ydb-go-sdk/v3/table"
	"github.com/ydb-platform/ydb-go-sdk/v3/table/result"
	"github.com/ydb-platform/ydb-go-sdk/v3/table/result/named"
	"github.com/ydb-platform/ydb-go-sdk/v3/table/types"

	"github.com/ugcgo/ugcgo-backend/internal/store"
)

func scanCredits(res result.Result) (*store.UserCredits, error) {
	var uc store.UserCredits
	var balance int64
	err := res.ScanNamed(
		named.Required("user_id", &uc.UserID),
		named.OptionalWithDefault("email", &uc.Email),
		named.OptionalWithDefault("balance", &balance),
		named.OptionalWithDefault("created_at", &uc.CreatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}
	uc.Balance = int(balance)
	return &uc, nil
}

func (c *YDBClient) getCreditsBy(ctx context.Context, query, param, value string) (*store.UserCredits, error) {
	var uc *store.UserCredits

	err := c.driver.Table().Do(ctx, func(ctx context.Context, session table.Session) error {
		uc = nil
		_, res, err := session.Execute(ctx, table.DefaultTxControl(), query,
			table.NewQueryParameters(
				table.ValueParam(param, types.TextValue(value)),
			),
		)
		if err != nil {
			return err
		}
		defer res.Close()

		if res.NextResultSet(ctx) && res.NextRow() {
			if uc, err = scanCredits(res); err != nil {
				return err
			}
		}
		return res.Err()
	})

	if err != nil {
		return nil, err
	}
	return uc, nil
}

// GetCredits returns the user's credit row, nil when absent
func (c *YDBClient) GetCredits(ctx context.Context, userID string) (*store.UserCredits, error) {
	defer c.observe("get_credits")()

	return c.getCreditsBy(ctx, `
		DECLARE $user_id AS Text;
		SELECT user_id, email, balance, created_at
		FROM user_credits
		WHERE user_id = $user_id
	`, "$user_id", userID)
}

// GetCreditsByEmail returns the credit row for an email, nil when absent.
// Matching goes through the lowercased copy kept in email_lower.
func (c *YDBClient) GetCreditsByEmail(ctx context.Context, email string) (*store.UserCredits, error) {
	defer c.observe("get_credits_by_email")()

	return c.getCreditsBy(ctx, `
		DECLARE $email_lower AS Text;
		SELECT user_id, email, balance, created_at
		FROM user_credits VIEW email_idx
		WHERE email_lower = $email_lower
		LIMIT 1
	`, "$email_lower", strings.ToLower(email))
}

// ListCredits returns every credit row
func (c *YDBClient) ListCredits(ctx context.Context) ([]*store.UserCredits, error) {
	defer c.observe("list_credits")()

	query := `
		SELECT user_id, email, balance, created_at
		FROM user_credits
	`

	var rows []*store.UserCredits

	err := c.driver.Table().Do(ctx, func(ctx context.Context, session table.Session) error {
		rows = rows[:0]
		_, res, err := session.Execute(ctx, table.OnlineReadOnlyTxControl(), query, table.NewQueryParameters())
		if err != nil {
			return err
		}
		defer res.Close()

		for res.NextResultSet(ctx) {
			for res.NextRow() {
				uc, err := scanCredits(res)
				if err != nil {
					return err
				}
				rows = append(rows, uc)
			}
		}
		return res.Err()
	})

	if err != nil {
		return nil, err
	}
	return rows, nil
}

// InsertCredits creates a credit row
func (c *YDBClient) InsertCredits(ctx context.Context, credits *store.UserCredits) error {
	defer c.observe("insert_credits")()

	createdAt := credits.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	query := `
		DECLARE $user_id AS Text;
		DECLARE $email AS Text;
		DECLARE $email_lower AS Text;
		DECLARE $balance AS Int64;
		DECLARE $created_at AS Timestamp;
		INSERT INTO user_credits (user_id, email, email_lower, balance, created_at)
		VALUES ($user_id, $email, $email_lower, $balance, $created_at)
	`

	return c.driver.Table().Do(ctx, func(ctx context.Context, session table.Session) error {
		_, _, err := session.Execute(ctx, table.DefaultTxControl(), query,
			table.NewQueryParameters(
				table.ValueParam("$user_id", types.TextValue(credits.UserID)),
				table.ValueParam("$email", types.TextValue(credits.Email)),
				table.ValueParam("$email_lower", types.TextValue(strings.ToLower(credits.Email))),
				table.ValueParam("$balance", types.Int64Value(int64(credits.Balance))),
				table.ValueParam("$created_at", types.TimestampValueFromTime(createdAt)),
			),
		)
		return err
	})
}

// UpdateCredits overwrites the balance
func (c *YDBClient) UpdateCredits(ctx context.Context, userID string, balance int) error {
	defer c.observe("update_credits")()

	query := `
		DECLARE $user_id AS Text;
		DECLARE $balance AS Int64;
		UPDATE user_credits SET balance = $balance WHERE user_id = $user_id
	`

	return c.driver.Table().Do(ctx, func(ctx context.Context, session table.Session) error {
		_, _, err := session.Execute(ctx, table.DefaultTxControl(), query,
			table.NewQueryParameters(
				table.ValueParam("$user_id", types.TextValue(userID)),
				table.ValueParam("$balance", types.Int64Value(int64(balance))),
			),
		)
		return err
	})
}

// CompareAndSetCredits updates the balance only if it still equals expected.
// Check and write run in one serializable transaction.
func (c *YDBClient) CompareAndSetCredits(ctx context.Context, userID string, expected, balance int) (bool, error) {
	defer c.observe("cas_credits")()

	query := `
		DECLARE $user_id AS Text;
		DECLARE $expected AS Int64;
		DECLARE $balance AS Int64;
		SELECT COUNT(*) AS matched FROM user_credits
		WHERE user_id = $user_id AND balance = $expected;
		UPDATE user_credits SET balance = $balance
		WHERE user_id = $user_id AND balance = $expected;
	`

	var matched uint64

	err := c.driver.Table().Do(ctx, func(ctx context.Context, session table.Session) error {
		matched = 0
		_, res, err := session.Execute(ctx, table.DefaultTxControl(), query,
			table.NewQueryParameters(
				table.ValueParam("$user_id", types.TextValue(userID)),
				table.ValueParam("$expected", types.Int64Value(int64(expected))),
				table.ValueParam("$balance", types.Int64Value(int64(balance))),
			),
		)
		if err != nil {
			return err
		}
		defer res.Close()

		if res.NextResultSet(ctx) && res.NextRow() {
			if err := res.ScanNamed(named.Required("matched", &matched)); err != nil {
				return fmt.Errorf("scan failed: %w", err)
			}
		}
		return res.Err()
	})

	if err != nil {
		return false, err
	}
	return matched == 1, nil
}

// InsertCreditTransaction appends a ledger row
func (c *YDBClient) InsertCreditTransaction(ctx context.Context, tx *store.CreditTransaction) error {
	defer c.observe("insert_credit_transaction")()

	query := `
		DECLARE $id AS Text;
		DECLARE $user_id AS Text;
		DECLARE $amount AS Int64;
		DECLARE $type AS Text;
		DECLARE $description AS Text;
		DECLARE $created_at AS Timestamp;
		INSERT INTO credit_transactions (id, user_id, amount, type, description, created_at)
		VALUES ($id, $user_id, $amount, $type, $description, $created_at)
	`

	return c.driver.Table().Do(ctx, func(ctx context.Context, session table.Session) error {
		_, _, err := session.Execute(ctx, table.DefaultTxControl(), query,
			table.NewQueryParameters(
				table.ValueParam("$id", types.TextValue(tx.ID)),
				table.ValueParam("$user_id", types.TextValue(tx.UserID)),
				table.ValueParam("$amount", types.Int64Value(int64(tx.Amount))),
				table.ValueParam("$type", types.TextValue(tx.Type)),
				table.ValueParam("$description", types.TextValue(tx.Description)),
				table.ValueParam("$created_at", types.TimestampValueFromTime(tx.CreatedAt)),
			),
		)
		return err
	})
}
