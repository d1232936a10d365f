package usecase_test

import (
	"context"
	"sync"
	"time"

	"github.com/vitos/xau_money_management/internal/domain"
)

type MockBackend struct {
	mu          sync.Mutex
	Account     *domain.AccountSnapshot
	Positions   []domain.Position
	AccountErr  error
	PositionErr error
}

func (m *MockBackend) SetAccount(acct domain.AccountSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Account = &acct
}

func (m *MockBackend) GetAccount(ctx context.Context) (*domain.AccountSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.AccountErr != nil {
		return nil, m.AccountErr
	}
	cp := *m.Account
	return &cp, nil
}

func (m *MockBackend) GetPositions(ctx context.Context) ([]domain.Position, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PositionErr != nil {
		return nil, m.PositionErr
	}
	return m.Positions, nil
}

func (m *MockBackend) GetDeals(ctx context.Context, from time.Time) ([]domain.Deal, error) {
	return nil, nil
}

type MockRepo struct {
	mu          sync.Mutex
	Snapshots   []*domain.AccountSnapshot
	TierChanges []*domain.TierChange
}

func (r *MockRepo) SaveSnapshot(ctx context.Context, snap *domain.AccountSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Snapshots = append(r.Snapshots, snap)
	return nil
}

func (r *MockRepo) ListSnapshots(ctx context.Context, limit int) ([]*domain.AccountSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Snapshots, nil
}

func (r *MockRepo) SaveTierChange(ctx context.Context, change *domain.TierChange) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.TierChanges = append(r.TierChanges, change)
	return nil
}

func (r *MockRepo) ListTierChanges(ctx context.Context, limit int) ([]*domain.TierChange, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.TierChanges, nil
}
