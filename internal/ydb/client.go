package ydb

import (
	"context"
	"fmt"
	"log"
	"path"
	"strings"
	"time"

	"github.com/ydb-platform/ydb-go-sdk/v3"
	"github.com/ydb-platform/ydb-go-sdk/v3/table"
	yc "github.com/ydb-platform/ydb-go-yc"

	"github.com/ugcgo/ugcgo-backend/internal/config"
	"github.com/ugcgo/ugcgo-backend/internal/store"
)

// Observer records store call latency.
type Observer interface {
	ObserveStoreRequest(op string, elapsed time.Duration)
}

// YDBClient implements store.Database on YDB
type YDBClient struct {
	driver       *ydb.Driver
	databasePath string
	observer     Observer
}

var _ store.Database = (*YDBClient)(nil)

// NewYDBClient connects to YDB with metadata credentials
func NewYDBClient(ctx context.Context, cfg *config.Config, observer Observer) (*YDBClient, error) {
	endpoint := cfg.SPYDBEndpoint
	database := cfg.SPYDBDatabasePath

	if endpoint == "" || database == "" {
		return nil, fmt.Errorf("YDB credentials not provided. Please set SP_YDB_ENDPOINT and SP_YDB_DATABASE_PATH environment variables")
	}

	driver, err := ydb.Open(ctx, endpoint,
		ydb.WithDatabase(database),
		yc.WithMetadataCredentials(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to YDB: %w", err)
	}

	log.Println("Successfully connected to YDB")

	client := newClient(driver, database, observer)

	if cfg.SPYDBAutoCreateTables {
		log.Println("SP_YDB_AUTO_CREATE_TABLES is enabled, checking and creating tables...")
		if err := client.createTables(ctx); err != nil {
			return nil, fmt.Errorf("failed to create tables: %w", err)
		}
	}

	return client, nil
}

func newClient(driver *ydb.Driver, database string, observer Observer) *YDBClient {
	return &YDBClient{
		driver:       driver,
		databasePath: database,
		observer:     observer,
	}
}

// Close closes the driver
func (c *YDBClient) Close() error {
	if c.driver != nil {
		return c.driver.Close(context.Background())
	}
	return nil
}

func (c *YDBClient) observe(op string) func() {
	if c.observer == nil {
		return func() {}
	}
	start := time.Now()
	return func() { c.observer.ObserveStoreRequest(op, time.Since(start)) }
}

type tableDef struct {
	name  string
	query string
}

var tableDefs = []tableDef{
	{
		name: "subscriptions",
		query: `
			CREATE TABLE subscriptions (
				user_id Text NOT NULL,
				price_id Text,
				plan_id Text,
				status Text,
				current_period_start Timestamp,
				current_period_end Timestamp,
				updated_at Timestamp,
				PRIMARY KEY (user_id)
			)
		`,
	},
	{
		name: "videos",
		query: `
			CREATE TABLE videos (
				video_id Text NOT NULL,
				user_id Text NOT NULL,
				status Text,
				created_at Timestamp,
				PRIMARY KEY (video_id),
				INDEX user_created_idx GLOBAL ON (user_id, created_at) COVER (status)
			)
		`,
	},
	{
		name: "user_credits",
		query: `
			CREATE TABLE user_credits (
				user_id Text NOT NULL,
				email Text,
				email_lower Text,
				balance Int64,
				created_at Timestamp,
				PRIMARY KEY (user_id),
				INDEX email_idx GLOBAL ON (email_lower) COVER (email, balance, created_at)
			)
		`,
	},
	{
		name: "credit_transactions",
		query: `
			CREATE TABLE credit_transactions (
				id Text NOT NULL,
				user_id Text NOT NULL,
				amount Int64,
				type Text,
				description Text,
				created_at Timestamp,
				PRIMARY KEY (id),
				INDEX user_idx GLOBAL ON (user_id)
			)
		`,
	},
	{
		name: "auth_users",
		query: `
			CREATE TABLE auth_users (
				id Text NOT NULL,
				email Text,
				created_at Timestamp,
				PRIMARY KEY (id)
			)
		`,
	},
}

// createTables creates missing tables
func (c *YDBClient) createTables(ctx context.Context) error {
	log.Println("Starting table creation...")
	for i, def := range tableDefs {
		if i > 0 {
			// stay under the schema operations rate limit
			time.Sleep(500 * time.Millisecond)
		}

		log.Printf("Creating table: %s", def.name)
		exists, err := c.tableExists(ctx, def.name)
		if err != nil {
			return fmt.Errorf("failed to check %s table existence: %w", def.name, err)
		}
		if exists {
			log.Printf("Table %s already exists, skipping creation", def.name)
			continue
		}
		if err := c.executeSchemeQuery(ctx, def.query); err != nil {
			return fmt.Errorf("failed to create %s table: %w", def.name, err)
		}
	}
	log.Println("All tables created successfully")
	return nil
}

// tableExists checks whether a table exists
func (c *YDBClient) tableExists(ctx context.Context, tableName string) (bool, error) {
	fullPath := path.Join(c.databasePath, tableName)
	err := c.driver.Table().Do(ctx, func(ctx context.Context, session table.Session) error {
		_, err := session.DescribeTable(ctx, fullPath)
		return err
	})

	if err != nil {
		if isSchemeNotFound(err) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

// isSchemeNotFound matches the SCHEME_ERROR YDB returns for missing paths
func isSchemeNotFound(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "not found") ||
		strings.Contains(msg, "does not exist") ||
		strings.Contains(msg, "Path not found") ||
		strings.Contains(msg, "code = 400070")
}

// executeSchemeQuery runs a DDL statement
func (c *YDBClient) executeSchemeQuery(ctx context.Context, query string) error {
	return c.driver.Table().Do(ctx, func(ctx context.Context, session table.Session) error {
		return session.ExecuteSchemeQuery(ctx, query)
	})
}
