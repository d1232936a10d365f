package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("not found")
	ErrNoStatus = errors.New("no account status yet")
)

// TradingBackend is the remote API wrapping the MT5 terminal.
type TradingBackend interface {
	GetAccount(ctx context.Context) (*AccountSnapshot, error)
	GetPositions(ctx context.Context) ([]Position, error)
	GetDeals(ctx context.Context, from time.Time) ([]Deal, error)
}

// SnapshotRepository stores observed account snapshots and tier changes.
type SnapshotRepository interface {
	SaveSnapshot(ctx context.Context, snap *AccountSnapshot) error
	ListSnapshots(ctx context.Context, limit int) ([]*AccountSnapshot, error)
	SaveTierChange(ctx context.Context, change *TierChange) error
	ListTierChanges(ctx context.Context, limit int) ([]*TierChange, error)
}
