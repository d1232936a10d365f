package domain

import "time"

// AccountSnapshot is the typed account state built once per refresh at the
// backend boundary. Values are already finite.
type AccountSnapshot struct {
	ID       string  `json:"id"`
	Login    string  `json:"login"`
	Currency string  `json:"currency"`
	Balance  float64 `json:"balance"`
	Equity   float64 `json:"equity"`
	// EquityReported is false when the backend sent no usable equity.
	EquityReported bool      `json:"equity_reported"`
	DailyProfit    float64   `json:"daily_profit"`
	WeeklyProfit   float64   `json:"weekly_profit"`
	MonthlyProfit  float64   `json:"monthly_profit"`
	OpenPositions  int       `json:"open_positions"`
	TakenAt        time.Time `json:"taken_at"`
}

// TierBasis is the amount tiers are keyed on: equity whenever the backend
// reported it, even at or below zero, balance otherwise.
func (s AccountSnapshot) TierBasis() float64 {
	if s.EquityReported {
		return s.Equity
	}
	return s.Balance
}

// StopDecision is the outcome of the daily-target gate. Reason is nil when
// trading may continue.
type StopDecision struct {
	Stop   bool    `json:"stop"`
	Reason *string `json:"reason"`
}

// Status is everything the client renders for one snapshot.
type Status struct {
	Snapshot              AccountSnapshot `json:"snapshot"`
	Tier                  Tier            `json:"tier"`
	NextTier              *Tier           `json:"next_tier"`
	ProgressToNextLevel   float64         `json:"progress_to_next_level"`
	DailyTargetProgress   float64         `json:"daily_target_progress"`
	WeeklyTargetProgress  float64         `json:"weekly_target_progress"`
	MonthlyTargetProgress float64         `json:"monthly_target_progress"`
	Decision              StopDecision    `json:"decision"`
}

// TierChange records the account moving between tiers.
type TierChange struct {
	ID        string    `json:"id"`
	Login     string    `json:"login"`
	FromLevel int       `json:"from_level"`
	ToLevel   int       `json:"to_level"`
	Equity    float64   `json:"equity"`
	ChangedAt time.Time `json:"changed_at"`
}

// GateState combines the daily-target gate with the single open position
// rule. CanTrade is true only when neither gate is tripped.
type GateState struct {
	TargetReached bool     `json:"target_reached"`
	PositionOpen  bool     `json:"position_open"`
	CanTrade      bool     `json:"can_trade"`
	Reasons       []string `json:"reasons"`
}
