package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/vitos/xau_money_management/internal/domain"
)

// SQLiteStore keeps an observational history of account snapshots and
// tier changes. The money-management engine never reads it.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	// A single connection keeps ":memory:" databases shared across calls.
	db.SetMaxOpenConns(1)

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS account_snapshots (
			id TEXT PRIMARY KEY,
			login TEXT NOT NULL,
			currency TEXT NOT NULL,
			balance REAL NOT NULL,
			equity REAL NOT NULL,
			equity_reported BOOLEAN NOT NULL DEFAULT 1,
			daily_profit REAL NOT NULL,
			weekly_profit REAL NOT NULL,
			monthly_profit REAL NOT NULL,
			open_positions INTEGER NOT NULL,
			taken_at DATETIME NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_account_snapshots_taken_at ON account_snapshots(taken_at);`,
		`CREATE TABLE IF NOT EXISTS tier_changes (
			id TEXT PRIMARY KEY,
			login TEXT NOT NULL,
			from_level INTEGER NOT NULL,
			to_level INTEGER NOT NULL,
			equity REAL NOT NULL,
			changed_at DATETIME NOT NULL
		);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return fmt.Errorf("failed to exec query %s: %w", q, err)
		}
	}

	// Migration: older databases lack equity_reported; the error when the
	// column already exists is ignored.
	_, _ = s.db.Exec(`ALTER TABLE account_snapshots ADD COLUMN equity_reported BOOLEAN NOT NULL DEFAULT 1`)
	return nil
}

// SnapshotRepository Implementation

func (s *SQLiteStore) SaveSnapshot(ctx context.Context, snap *domain.AccountSnapshot) error {
	if snap.ID == "" {
		snap.ID = uuid.NewString()
	}
	query := `INSERT INTO account_snapshots (id, login, currency, balance, equity, equity_reported, daily_profit, weekly_profit, monthly_profit, open_positions, taken_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		snap.ID, snap.Login, snap.Currency, snap.Balance, snap.Equity, snap.EquityReported,
		snap.DailyProfit, snap.WeeklyProfit, snap.MonthlyProfit, snap.OpenPositions, snap.TakenAt.UTC())
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

// ListSnapshots returns the newest snapshots first.
func (s *SQLiteStore) ListSnapshots(ctx context.Context, limit int) ([]*domain.AccountSnapshot, error) {
	query := `SELECT id, login, currency, balance, equity, equity_reported, daily_profit, weekly_profit, monthly_profit, open_positions, taken_at
			  FROM account_snapshots ORDER BY taken_at DESC, rowid DESC LIMIT ?`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snaps := []*domain.AccountSnapshot{}
	for rows.Next() {
		var a domain.AccountSnapshot
		if err := rows.Scan(&a.ID, &a.Login, &a.Currency, &a.Balance, &a.Equity, &a.EquityReported,
			&a.DailyProfit, &a.WeeklyProfit, &a.MonthlyProfit, &a.OpenPositions, &a.TakenAt); err != nil {
			return nil, err
		}
		snaps = append(snaps, &a)
	}
	return snaps, rows.Err()
}

func (s *SQLiteStore) SaveTierChange(ctx context.Context, change *domain.TierChange) error {
	if change.ID == "" {
		change.ID = uuid.NewString()
	}
	query := `INSERT INTO tier_changes (id, login, from_level, to_level, equity, changed_at)
			  VALUES (?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query,
		change.ID, change.Login, change.FromLevel, change.ToLevel, change.Equity, change.ChangedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert tier change: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListTierChanges(ctx context.Context, limit int) ([]*domain.TierChange, error) {
	query := `SELECT id, login, from_level, to_level, equity, changed_at
			  FROM tier_changes ORDER BY changed_at DESC, rowid DESC LIMIT ?`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	changes := []*domain.TierChange{}
	for rows.Next() {
		var c domain.TierChange
		if err := rows.Scan(&c.ID, &c.Login, &c.FromLevel, &c.ToLevel, &c.Equity, &c.ChangedAt); err != nil {
			return nil, err
		}
		changes = append(changes, &c)
	}
	return changes, rows.Err()
}
