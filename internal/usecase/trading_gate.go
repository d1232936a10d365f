package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/vitos/xau_money_management/internal/domain"
	"go.uber.org/zap"
)

// TradingGate combines the daily-target gate with the rule that at most one
// position may be open at a time. Trade entry must be refused whenever
// either gate is tripped.
type TradingGate struct {
	manager *MoneyManager
	backend domain.TradingBackend
	symbol  string
	logger  *zap.Logger
}

func NewTradingGate(manager *MoneyManager, backend domain.TradingBackend, symbol string, logger *zap.Logger) *TradingGate {
	return &TradingGate{
		manager: manager,
		backend: backend,
		symbol:  strings.ToUpper(symbol),
		logger:  logger,
	}
}

// Check fetches live account and position state. On any backend error
// the state is not usable and the error is returned.
func (g *TradingGate) Check(ctx context.Context) (domain.GateState, error) {
	acct, err := g.backend.GetAccount(ctx)
	if err != nil {
		return domain.GateState{}, fmt.Errorf("fetch account: %w", err)
	}
	positions, err := g.backend.GetPositions(ctx)
	if err != nil {
		return domain.GateState{}, fmt.Errorf("fetch positions: %w", err)
	}

	decision := g.manager.ShouldStopTrading(acct.TierBasis(), acct.DailyProfit)
	state := CombineGates(decision, positions, g.symbol)
	if !state.CanTrade {
		g.logger.Debug("Trade entry blocked",
			zap.Bool("target_reached", state.TargetReached),
			zap.Bool("position_open", state.PositionOpen),
		)
	}
	return state, nil
}

// CombineGates AND-combines the two gates. An empty symbol counts any open
// position; otherwise broker suffixes such as "XAUUSDm" still match.
func CombineGates(decision domain.StopDecision, positions []domain.Position, symbol string) domain.GateState {
	state := domain.GateState{TargetReached: decision.Stop, Reasons: []string{}}
	if decision.Stop && decision.Reason != nil {
		state.Reasons = append(state.Reasons, *decision.Reason)
	}

	symbol = strings.ToUpper(symbol)
	for _, p := range positions {
		if p.Volume <= 0 {
			continue
		}
		if symbol != "" && !strings.HasPrefix(strings.ToUpper(p.Symbol), symbol) {
			continue
		}
		state.PositionOpen = true
		state.Reasons = append(state.Reasons,
			fmt.Sprintf("Position #%d (%s %s %.2f lots) is already open.", p.Ticket, p.Side, p.Symbol, p.Volume))
		break
	}

	state.CanTrade = !state.TargetReached && !state.PositionOpen
	return state
}
