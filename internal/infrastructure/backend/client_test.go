package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitos/xau_money_management/internal/domain"
	"github.com/vitos/xau_money_management/internal/usecase"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c := NewClient(srv.URL+"/", "tok", time.Second, zap.NewNop())
	c.now = func() time.Time { return time.Date(2026, 3, 4, 15, 0, 0, 0, time.UTC) } // Wednesday
	return c
}

func TestClient_GetAccount_LoosePayload(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		if r.URL.Path == "/api/history" {
			w.Write([]byte(`[]`))
			return
		}
		w.Write([]byte(`{"login": 5001, "currency": "usd", "balance": "152.40", "equity": null,
			"daily_profit": 1.25, "weekly_profit": "NaN", "monthly_profit": "abc", "positions": 1}`))
	})

	snap, err := c.GetAccount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "5001", snap.Login)
	assert.Equal(t, "USD", snap.Currency)
	assert.InDelta(t, 152.40, snap.Balance, 1e-9)
	assert.Equal(t, 0.0, snap.Equity)
	assert.False(t, snap.EquityReported)
	assert.InDelta(t, 152.40, snap.TierBasis(), 1e-9)
	assert.InDelta(t, 1.25, snap.DailyProfit, 1e-9)
	assert.Equal(t, 1, snap.OpenPositions)
}

func TestClient_GetAccount_DerivesProfitFromHistory(t *testing.T) {
	monday := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC).Unix()
	today := time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC).Unix()
	lastMonth := time.Date(2026, 2, 27, 9, 0, 0, 0, time.UTC).Unix()

	var historyFrom string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/account":
			w.Write([]byte(`{"login":"5001","balance":200,"equity":201}`))
		case "/api/history":
			historyFrom = r.URL.Query().Get("from")
			w.Write([]byte(`[
				{"ticket": 1, "symbol": "XAUUSD", "type": "DEAL_TYPE_BUY", "profit": 2.5, "time": ` + itoa(today) + `},
				{"ticket": 2, "symbol": "XAUUSD", "type": "DEAL_TYPE_SELL", "profit": "-1", "time": ` + itoa(monday) + `},
				{"ticket": 3, "symbol": "XAUUSD", "type": "DEAL_TYPE_SELL", "profit": 4, "time": ` + itoa(lastMonth) + `}
			]`))
		default:
			http.NotFound(w, r)
		}
	})

	snap, err := c.GetAccount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, itoa(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC).Unix()), historyFrom)
	assert.InDelta(t, 2.5, snap.DailyProfit, 1e-9)
	assert.InDelta(t, 1.5, snap.WeeklyProfit, 1e-9)
	assert.InDelta(t, 1.5, snap.MonthlyProfit, 1e-9)
}

func TestClient_GetAccount_ReportedEquityAtOrBelowZero(t *testing.T) {
	tests := []struct {
		name   string
		equity string
		want   float64
	}{
		{"zero string", `"0"`, 0},
		{"zero number", `0`, 0},
		{"negative", `-35.5`, -35.5},
	}
	manager := usecase.NewMoneyManager(usecase.DefaultLevelTable(), "USD")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path == "/api/history" {
					w.Write([]byte(`[]`))
					return
				}
				w.Write([]byte(`{"login":"5001","balance":500,"equity":` + tt.equity + `}`))
			})

			snap, err := c.GetAccount(context.Background())
			require.NoError(t, err)
			assert.True(t, snap.EquityReported)
			assert.InDelta(t, tt.want, snap.TierBasis(), 1e-9, "balance must not mask a wiped equity")
			assert.Equal(t, 1, manager.Evaluate(*snap).Tier.Level)
		})
	}
}

func TestClient_GetPositions(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"ticket": "77", "symbol": "XAUUSD", "type": "POSITION_TYPE_SELL", "volume": 0.02,
			"price_open": 2351.2, "price_current": 2349.9, "sl": 2360, "tp": 2330, "profit": 2.6, "time": 1772629200}]`))
	})

	positions, err := c.GetPositions(context.Background())
	require.NoError(t, err)
	require.Len(t, positions, 1)
	p := positions[0]
	assert.Equal(t, int64(77), p.Ticket)
	assert.Equal(t, domain.SideSell, p.Side)
	assert.InDelta(t, 0.02, p.Volume, 1e-12)
	assert.InDelta(t, 2.6, p.UnrealizedPnL, 1e-12)
	assert.Equal(t, time.Unix(1772629200, 0).UTC(), p.OpenedAt)
}

func TestClient_ErrorStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "terminal disconnected", http.StatusBadGateway)
	})

	_, err := c.GetAccount(context.Background())
	assert.ErrorContains(t, err, "502")
	assert.ErrorContains(t, err, "terminal disconnected")

	_, err = c.GetPositions(context.Background())
	assert.Error(t, err)
}

func TestClient_NonSuccessStatusBelow400(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusMultipleChoices)
		w.Write([]byte(`{"balance": 999, "note": "pick a mirror"}`))
	})

	snap, err := c.GetAccount(context.Background())
	assert.Nil(t, snap)
	assert.ErrorContains(t, err, "300")
	assert.ErrorContains(t, err, "pick a mirror")
}

func TestParseSide(t *testing.T) {
	assert.Equal(t, domain.SideBuy, parseSide("POSITION_TYPE_BUY"))
	assert.Equal(t, domain.SideBuy, parseSide("buy"))
	assert.Equal(t, domain.SideBuy, parseSide("0"))
	assert.Equal(t, domain.SideSell, parseSide("DEAL_TYPE_SELL"))
	assert.Equal(t, domain.SideSell, parseSide("1"))
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
