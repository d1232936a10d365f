package backend

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/vitos/xau_money_management/internal/domain"
	"github.com/vitos/xau_money_management/internal/usecase"
)

// contractSize is ounces per lot for XAUUSD.
const contractSize = 100.0

// AutoTrade drives the simulated account between polls. A flat account opens
// with OpenChance per poll when the gates allow it, sized by the tier lot.
// An open position closes with CloseChance per poll.
type AutoTrade struct {
	Manager     *usecase.MoneyManager
	Rng         *rand.Rand
	OpenChance  float64
	CloseChance float64
}

// Simulator is an in-process stand-in for the MT5 bridge. Quotes come from
// the injected random walk; at most one position is held.
type Simulator struct {
	mu       sync.Mutex
	login    string
	symbol   string
	walk     *usecase.RandomWalk
	balance  float64
	position *domain.Position
	deals    []domain.Deal
	ticket   int64
	auto     *AutoTrade
	now      func() time.Time
}

func NewSimulator(login, symbol string, startBalance float64, walk *usecase.RandomWalk) *Simulator {
	return &Simulator{
		login:   login,
		symbol:  symbol,
		walk:    walk,
		balance: startBalance,
		now:     time.Now,
	}
}

// WithAutoTrade enables the open/close cycle run on every GetAccount.
func (s *Simulator) WithAutoTrade(auto AutoTrade) *Simulator {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auto = &auto
	return s
}

func (s *Simulator) unrealized(price float64) float64 {
	if s.position == nil {
		return 0
	}
	diff := price - s.position.EntryPrice
	if s.position.Side == domain.SideSell {
		diff = -diff
	}
	return diff * s.position.Volume * contractSize
}

// GetAccount advances the quote one step and reports the resulting state.
func (s *Simulator) GetAccount(ctx context.Context) (*domain.AccountSnapshot, error) {
	price := s.walk.Next()

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	if s.auto != nil {
		s.stepLocked(price, now)
	}
	daily, weekly, monthly := realizedByPeriod(s.deals, now)
	open := 0
	if s.position != nil {
		s.position.CurrentPrice = price
		s.position.UnrealizedPnL = s.unrealized(price)
		open = 1
	}
	return &domain.AccountSnapshot{
		Login:          s.login,
		Currency:       "USD",
		Balance:        s.balance,
		Equity:         s.balance + s.unrealized(price),
		EquityReported: true,
		DailyProfit:    daily,
		WeeklyProfit:   weekly,
		MonthlyProfit:  monthly,
		OpenPositions:  open,
		TakenAt:        now,
	}, nil
}

func (s *Simulator) GetPositions(ctx context.Context) ([]domain.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.position == nil {
		return []domain.Position{}, nil
	}
	return []domain.Position{*s.position}, nil
}

func (s *Simulator) GetDeals(ctx context.Context, from time.Time) ([]domain.Deal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deals := []domain.Deal{}
	for _, d := range s.deals {
		if !d.ClosedAt.Before(from) {
			deals = append(deals, d)
		}
	}
	return deals, nil
}

// stepLocked runs one auto-trade decision. Opening is refused once the daily
// target is met, as a live trader would be.
func (s *Simulator) stepLocked(price float64, now time.Time) {
	a := s.auto
	if s.position != nil {
		if a.Rng.Float64() < a.CloseChance {
			s.closeLocked(price, now)
		}
		return
	}
	daily, _, _ := realizedByPeriod(s.deals, now)
	gate := usecase.CombineGates(a.Manager.ShouldStopTrading(s.balance, daily), nil, s.symbol)
	if !gate.CanTrade || a.Rng.Float64() >= a.OpenChance {
		return
	}
	side := domain.SideBuy
	if a.Rng.Intn(2) == 1 {
		side = domain.SideSell
	}
	s.openLocked(side, a.Manager.CurrentTier(s.balance).LotSize, price, now)
}

func (s *Simulator) openLocked(side domain.Side, volume, price float64, now time.Time) domain.Position {
	s.ticket++
	s.position = &domain.Position{
		Ticket:       s.ticket,
		Symbol:       s.symbol,
		Side:         side,
		Volume:       volume,
		EntryPrice:   price,
		CurrentPrice: price,
		OpenedAt:     now,
	}
	return *s.position
}

func (s *Simulator) closeLocked(price float64, now time.Time) domain.Deal {
	pnl := s.unrealized(price)
	deal := domain.Deal{
		Ticket:      s.position.Ticket,
		Symbol:      s.position.Symbol,
		Side:        s.position.Side,
		Volume:      s.position.Volume,
		Price:       price,
		RealizedPnL: pnl,
		ClosedAt:    now,
	}
	s.balance += pnl
	s.deals = append(s.deals, deal)
	s.position = nil
	return deal
}

// Open starts a simulated position at the current quote.
func (s *Simulator) Open(side domain.Side, volume float64) (domain.Position, error) {
	price := s.walk.Price()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.position != nil {
		return domain.Position{}, fmt.Errorf("position #%d already open", s.position.Ticket)
	}
	return s.openLocked(side, volume, price, s.now().UTC()), nil
}

// Close realizes the open position at the current quote.
func (s *Simulator) Close() (domain.Deal, error) {
	price := s.walk.Price()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.position == nil {
		return domain.Deal{}, domain.ErrNotFound
	}
	return s.closeLocked(price, s.now().UTC()), nil
}
