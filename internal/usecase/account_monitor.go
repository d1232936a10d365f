package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vitos/xau_money_management/internal/domain"
	"go.uber.org/zap"
)

// AccountMonitor polls the trading backend, evaluates each fresh snapshot
// and fans the resulting status out to subscribers.
type AccountMonitor struct {
	backend  domain.TradingBackend
	manager  *MoneyManager
	repo     domain.SnapshotRepository
	logger   *zap.Logger
	interval time.Duration

	mu        sync.RWMutex
	latest    *domain.Status
	callbacks []func(domain.Status)
}

func NewAccountMonitor(
	backend domain.TradingBackend,
	manager *MoneyManager,
	repo domain.SnapshotRepository,
	interval time.Duration,
	logger *zap.Logger,
) *AccountMonitor {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &AccountMonitor{
		backend:  backend,
		manager:  manager,
		repo:     repo,
		logger:   logger,
		interval: interval,
	}
}

// OnStatus registers a callback run after every successful poll.
func (m *AccountMonitor) OnStatus(cb func(domain.Status)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callbacks = append(m.callbacks, cb)
}

// Latest returns the most recent status or domain.ErrNoStatus.
func (m *AccountMonitor) Latest() (domain.Status, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.latest == nil {
		return domain.Status{}, domain.ErrNoStatus
	}
	return *m.latest, nil
}

// Run polls until ctx is cancelled. Poll failures are logged and retried on
// the next tick.
func (m *AccountMonitor) Run(ctx context.Context) error {
	m.logger.Info("Starting account monitor", zap.Duration("interval", m.interval))
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		if err := m.PollOnce(ctx); err != nil && ctx.Err() == nil {
			m.logger.Error("Account poll failed", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			m.logger.Info("Account monitor stopped")
			return nil
		case <-ticker.C:
		}
	}
}

func (m *AccountMonitor) PollOnce(ctx context.Context) error {
	snap, err := m.backend.GetAccount(ctx)
	if err != nil {
		return err
	}
	if snap.ID == "" {
		snap.ID = uuid.NewString()
	}
	if snap.TakenAt.IsZero() {
		snap.TakenAt = time.Now().UTC()
	}

	status := m.manager.Evaluate(*snap)

	m.mu.Lock()
	prev := m.latest
	m.latest = &status
	callbacks := make([]func(domain.Status), len(m.callbacks))
	copy(callbacks, m.callbacks)
	m.mu.Unlock()

	if m.repo != nil {
		if err := m.repo.SaveSnapshot(ctx, snap); err != nil {
			m.logger.Error("Failed to save snapshot", zap.Error(err))
		}
	}

	if prev != nil && prev.Tier.Level != status.Tier.Level {
		m.recordTierChange(ctx, prev.Tier.Level, status)
	}
	if status.Decision.Stop && (prev == nil || !prev.Decision.Stop) {
		m.logger.Warn("daily_target_reached",
			zap.String("login", snap.Login),
			zap.Int("level", status.Tier.Level),
			zap.Float64("daily_target", status.Tier.DailyTarget),
			zap.Float64("daily_profit", snap.DailyProfit),
		)
	}

	for _, cb := range callbacks {
		cb(status)
	}
	return nil
}

func (m *AccountMonitor) recordTierChange(ctx context.Context, from int, status domain.Status) {
	change := &domain.TierChange{
		Login:     status.Snapshot.Login,
		FromLevel: from,
		ToLevel:   status.Tier.Level,
		Equity:    status.Snapshot.TierBasis(),
		ChangedAt: status.Snapshot.TakenAt,
	}
	m.logger.Info("tier_changed",
		zap.String("login", change.Login),
		zap.Int("from", change.FromLevel),
		zap.Int("to", change.ToLevel),
		zap.Float64("equity", change.Equity),
		zap.Float64("lot_size", status.Tier.LotSize),
	)
	if m.repo == nil {
		return
	}
	if err := m.repo.SaveTierChange(ctx, change); err != nil {
		m.logger.Error("Failed to save tier change", zap.Error(err))
	}
}
