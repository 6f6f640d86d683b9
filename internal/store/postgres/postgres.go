// Package postgres stores postings, CVs and user relations in PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

//go:embed schema.sql
var schema string

// Config describes the database connection.
type Config struct {
	DSN            string `mapstructure:"dsn" json:"-"`
	DSNFile        string `mapstructure:"dsn-file"`
	MaxConnections int    `mapstructure:"max-connections"`
	MaxIdle        int    `mapstructure:"max-idle"`
}

// Client wraps the SQL database connection.
type Client struct {
	DB *sql.DB
}

// New opens a PostgreSQL connection pool. The connection is established lazily.
func New(dsn string, cfg Config) (*Client, error) {
	if dsn == "" {
		return nil, errors.New("postgres dsn is required")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if cfg.MaxConnections > 0 {
		db.SetMaxOpenConns(cfg.MaxConnections)
	}
	if cfg.MaxIdle > 0 {
		db.SetMaxIdleConns(cfg.MaxIdle)
	}
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &Client{DB: db}, nil
}

// NewWithDB wraps an existing connection pool.
func NewWithDB(db *sql.DB) *Client {
	return &Client{DB: db}
}

func (c *Client) Ping(ctx context.Context) error {
	if err := c.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("postgres ping failed: %w", err)
	}
	return nil
}

func (c *Client) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

// Migrate creates the tables used by the repositories when they are missing.
func (c *Client) Migrate(ctx context.Context) error {
	if _, err := c.DB.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func (c *Client) Postings() *PostingRepo { return &PostingRepo{db: c.DB} }

func (c *Client) CVs() *CVRepo { return &CVRepo{db: c.DB} }

func (c *Client) Relations() *RelationRepo { return &RelationRepo{db: c.DB} }
