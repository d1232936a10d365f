package domain

import "time"

type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Position is an open position reported by the trading backend.
type Position struct {
	Ticket        int64     `json:"ticket"`
	Symbol        string    `json:"symbol"`
	Side          Side      `json:"side"`
	Volume        float64   `json:"volume"`
	EntryPrice    float64   `json:"entry_price"`
	CurrentPrice  float64   `json:"current_price"`
	StopLoss      float64   `json:"stop_loss"`
	TakeProfit    float64   `json:"take_profit"`
	UnrealizedPnL float64   `json:"unrealized_pnl"`
	OpenedAt      time.Time `json:"opened_at"`
}

// Deal is a closed trade from the backend history.
type Deal struct {
	Ticket      int64     `json:"ticket"`
	Symbol      string    `json:"symbol"`
	Side        Side      `json:"side"`
	Volume      float64   `json:"volume"`
	Price       float64   `json:"price"`
	RealizedPnL float64   `json:"realized_pnl"`
	ClosedAt    time.Time `json:"closed_at"`
}
