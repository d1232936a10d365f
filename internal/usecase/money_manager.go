package usecase

import (
	"fmt"
	"math"

	"github.com/vitos/xau_money_management/internal/domain"
)

// MoneyManager maps account equity to a tier of the level table and
// decides whether the daily target stops further trading. It holds no
// mutable state and is safe for concurrent use.
type MoneyManager struct {
	table    domain.LevelTable
	currency string
}

func NewMoneyManager(table domain.LevelTable, currency string) *MoneyManager {
	if currency == "" {
		currency = "USD"
	}
	return &MoneyManager{table: table, currency: currency}
}

func (m *MoneyManager) Table() domain.LevelTable {
	return m.table
}

func (m *MoneyManager) Currency() string {
	return m.currency
}

// SafeNumber maps NaN and infinities to 0.
func SafeNumber(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func clampPercent(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// tierIndex walks from the highest tier down and returns the first whose
// threshold is <= balance, or 0 when balance is below every threshold.
func (m *MoneyManager) tierIndex(balance float64) int {
	b := SafeNumber(balance)
	for i := m.table.Len() - 1; i >= 0; i-- {
		if b >= m.table.At(i).BalanceThreshold {
			return i
		}
	}
	return 0
}

// CurrentTier never fails: balances under the first threshold get level 1.
func (m *MoneyManager) CurrentTier(balance float64) domain.Tier {
	return m.table.At(m.tierIndex(balance))
}

// NextTier returns false once the account sits on the last tier.
func (m *MoneyManager) NextTier(balance float64) (domain.Tier, bool) {
	i := m.tierIndex(balance)
	if i+1 >= m.table.Len() {
		return domain.Tier{}, false
	}
	return m.table.At(i + 1), true
}

// ProgressToNextLevel interpolates balance between the current and next
// thresholds. At max level there is nothing left to progress toward and the
// result is 100.
func (m *MoneyManager) ProgressToNextLevel(balance float64) float64 {
	b := SafeNumber(balance)
	cur := m.CurrentTier(b)
	next, ok := m.NextTier(b)
	if !ok {
		return 100
	}
	span := next.BalanceThreshold - cur.BalanceThreshold
	if span <= 0 {
		return 0
	}
	return clampPercent((b - cur.BalanceThreshold) / span * 100)
}

// TargetProgress is profit as a percentage of target. A zero target yields
// 0, not 100.
func TargetProgress(target, profit float64) float64 {
	target = SafeNumber(target)
	if target <= 0 {
		return 0
	}
	return clampPercent(SafeNumber(profit) / target * 100)
}

func (m *MoneyManager) DailyTargetProgress(balance, dailyProfit float64) float64 {
	return TargetProgress(m.CurrentTier(balance).DailyTarget, dailyProfit)
}

func (m *MoneyManager) WeeklyTargetProgress(balance, weeklyProfit float64) float64 {
	return TargetProgress(m.CurrentTier(balance).WeeklyTarget, weeklyProfit)
}

func (m *MoneyManager) MonthlyTargetProgress(balance, monthlyProfit float64) float64 {
	return TargetProgress(m.CurrentTier(balance).MonthlyTarget, monthlyProfit)
}

// ShouldStopTrading stops once today's realized profit reaches the current
// tier's daily target.
func (m *MoneyManager) ShouldStopTrading(balance, dailyProfit float64) domain.StopDecision {
	tier := m.CurrentTier(balance)
	profit := SafeNumber(dailyProfit)
	if profit < tier.DailyTarget {
		return domain.StopDecision{}
	}
	reason := fmt.Sprintf("Daily target of %s for level %d reached (%s achieved). New trades are paused until the next session.",
		FormatCurrency(tier.DailyTarget, m.currency), tier.Level, FormatCurrency(profit, m.currency))
	return domain.StopDecision{Stop: true, Reason: &reason}
}

// Evaluate derives every presented value for one snapshot.
func (m *MoneyManager) Evaluate(snap domain.AccountSnapshot) domain.Status {
	basis := SafeNumber(snap.TierBasis())
	st := domain.Status{
		Snapshot:              snap,
		Tier:                  m.CurrentTier(basis),
		ProgressToNextLevel:   m.ProgressToNextLevel(basis),
		DailyTargetProgress:   m.DailyTargetProgress(basis, snap.DailyProfit),
		WeeklyTargetProgress:  m.WeeklyTargetProgress(basis, snap.WeeklyProfit),
		MonthlyTargetProgress: m.MonthlyTargetProgress(basis, snap.MonthlyProfit),
		Decision:              m.ShouldStopTrading(basis, snap.DailyProfit),
	}
	if next, ok := m.NextTier(basis); ok {
		st.NextTier = &next
	}
	return st
}
