package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitos/xau_money_management/internal/domain"
	"github.com/vitos/xau_money_management/internal/usecase"
	"go.uber.org/zap"
)

func TestTradingGate_Check(t *testing.T) {
	xau := domain.Position{Ticket: 11, Symbol: "XAUUSDm", Side: domain.SideBuy, Volume: 0.01}
	eur := domain.Position{Ticket: 12, Symbol: "EURUSD", Side: domain.SideSell, Volume: 0.10}

	tests := []struct {
		name          string
		dailyProfit   float64
		positions     []domain.Position
		wantTarget    bool
		wantPosition  bool
		wantCanTrade  bool
		wantReasonCnt int
	}{
		{"Free to trade", 1.0, nil, false, false, true, 0},
		{"Target reached", 3.0, nil, true, false, false, 1},
		{"Position open", 0, []domain.Position{xau}, false, true, false, 1},
		{"Both gates", 5, []domain.Position{xau}, true, true, false, 2},
		{"Other symbol ignored", 0, []domain.Position{eur}, false, false, true, 0},
		{"Zero volume ignored", 0, []domain.Position{{Symbol: "XAUUSD"}}, false, false, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := &MockBackend{Positions: tt.positions}
			backend.SetAccount(domain.AccountSnapshot{Balance: 100, DailyProfit: tt.dailyProfit})
			gate := usecase.NewTradingGate(newManager(), backend, "xauusd", zap.NewNop())

			state, err := gate.Check(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.wantTarget, state.TargetReached)
			assert.Equal(t, tt.wantPosition, state.PositionOpen)
			assert.Equal(t, tt.wantCanTrade, state.CanTrade)
			assert.Len(t, state.Reasons, tt.wantReasonCnt)
		})
	}
}

func TestTradingGate_BackendErrors(t *testing.T) {
	backend := &MockBackend{AccountErr: errors.New("bridge down")}
	gate := usecase.NewTradingGate(newManager(), backend, "XAUUSD", zap.NewNop())

	state, err := gate.Check(context.Background())
	assert.Error(t, err)
	assert.False(t, state.CanTrade)

	backend = &MockBackend{PositionErr: errors.New("timeout")}
	backend.SetAccount(domain.AccountSnapshot{Balance: 100})
	gate = usecase.NewTradingGate(newManager(), backend, "XAUUSD", zap.NewNop())

	state, err = gate.Check(context.Background())
	assert.ErrorContains(t, err, "fetch positions")
	assert.False(t, state.CanTrade)
}

func TestCombineGates_AnySymbol(t *testing.T) {
	state := usecase.CombineGates(domain.StopDecision{},
		[]domain.Position{{Ticket: 1, Symbol: "BTCUSD", Volume: 1}}, "")
	assert.True(t, state.PositionOpen)
	assert.False(t, state.CanTrade)
}
