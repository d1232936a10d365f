package backend

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/vitos/xau_money_management/internal/domain"
)

// flexFloat accepts a JSON number, a numeric string or null. Anything that
// does not parse to a finite number decodes as 0. Set reports whether the
// field carried a usable value.
type flexFloat struct {
	Value float64
	Set   bool
}

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	*f = flexFloat{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}

	s := string(b)
	if b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	f.Value, f.Set = v, true
	return nil
}

type accountPayload struct {
	Login         json.RawMessage `json:"login"`
	Currency      string          `json:"currency"`
	Balance       flexFloat       `json:"balance"`
	Equity        flexFloat       `json:"equity"`
	DailyProfit   flexFloat       `json:"daily_profit"`
	WeeklyProfit  flexFloat       `json:"weekly_profit"`
	MonthlyProfit flexFloat       `json:"monthly_profit"`
	Positions     flexFloat       `json:"positions"`
}

type positionPayload struct {
	Ticket       flexFloat `json:"ticket"`
	Symbol       string    `json:"symbol"`
	Type         string    `json:"type"`
	Volume       flexFloat `json:"volume"`
	PriceOpen    flexFloat `json:"price_open"`
	PriceCurrent flexFloat `json:"price_current"`
	SL           flexFloat `json:"sl"`
	TP           flexFloat `json:"tp"`
	Profit       flexFloat `json:"profit"`
	Time         flexFloat `json:"time"`
}

type dealPayload struct {
	Ticket flexFloat `json:"ticket"`
	Symbol string    `json:"symbol"`
	Type   string    `json:"type"`
	Volume flexFloat `json:"volume"`
	Price  flexFloat `json:"price"`
	Profit flexFloat `json:"profit"`
	Time   flexFloat `json:"time"`
}

// rawString renders a JSON string or number without quotes.
func rawString(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}

// parseSide maps MT5 type names ("POSITION_TYPE_BUY", "DEAL_TYPE_SELL",
// "buy", "0"/"1") to a domain side.
func parseSide(t string) domain.Side {
	u := strings.ToUpper(t)
	switch {
	case strings.HasSuffix(u, "BUY") || u == "0":
		return domain.SideBuy
	case strings.HasSuffix(u, "SELL") || u == "1":
		return domain.SideSell
	}
	return domain.Side(u)
}

func unixTime(f flexFloat) time.Time {
	if !f.Set || f.Value <= 0 {
		return time.Time{}
	}
	return time.Unix(int64(f.Value), 0).UTC()
}

func (p positionPayload) toDomain() domain.Position {
	return domain.Position{
		Ticket:        int64(p.Ticket.Value),
		Symbol:        p.Symbol,
		Side:          parseSide(p.Type),
		Volume:        p.Volume.Value,
		EntryPrice:    p.PriceOpen.Value,
		CurrentPrice:  p.PriceCurrent.Value,
		StopLoss:      p.SL.Value,
		TakeProfit:    p.TP.Value,
		UnrealizedPnL: p.Profit.Value,
		OpenedAt:      unixTime(p.Time),
	}
}

func (d dealPayload) toDomain() domain.Deal {
	return domain.Deal{
		Ticket:      int64(d.Ticket.Value),
		Symbol:      d.Symbol,
		Side:        parseSide(d.Type),
		Volume:      d.Volume.Value,
		Price:       d.Price.Value,
		RealizedPnL: d.Profit.Value,
		ClosedAt:    unixTime(d.Time),
	}
}
