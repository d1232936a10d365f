package domain

import (
	"errors"
	"fmt"
)

var ErrInvalidLevelTable = errors.New("invalid level table")

// Tier is one step of the progressive lot-sizing table.
type Tier struct {
	Level            int     `json:"level" yaml:"level"`
	BalanceThreshold float64 `json:"balance_threshold" yaml:"balance_threshold"`
	LotSize          float64 `json:"lot_size" yaml:"lot_size"`
	DailyTarget      float64 `json:"daily_target" yaml:"daily_target"`
	WeeklyTarget     float64 `json:"weekly_target" yaml:"weekly_target"`
	MonthlyTarget    float64 `json:"monthly_target" yaml:"monthly_target"`
}

// LevelTable is the ordered, read-only set of tiers. The zero value is not
// usable; build one with NewLevelTable.
type LevelTable struct {
	tiers []Tier
}

// NewLevelTable copies tiers and checks the table invariants: non-empty,
// levels 1..n in order, strictly increasing thresholds, non-decreasing
// positive lot sizes and non-negative targets.
func NewLevelTable(tiers []Tier) (LevelTable, error) {
	if len(tiers) == 0 {
		return LevelTable{}, fmt.Errorf("%w: no tiers", ErrInvalidLevelTable)
	}

	for i, t := range tiers {
		if t.Level != i+1 {
			return LevelTable{}, fmt.Errorf("%w: tier %d has level %d", ErrInvalidLevelTable, i+1, t.Level)
		}
		if t.BalanceThreshold < 0 {
			return LevelTable{}, fmt.Errorf("%w: level %d threshold %.2f is negative", ErrInvalidLevelTable, t.Level, t.BalanceThreshold)
		}
		if t.LotSize <= 0 {
			return LevelTable{}, fmt.Errorf("%w: level %d lot size must be positive", ErrInvalidLevelTable, t.Level)
		}
		if t.DailyTarget < 0 || t.WeeklyTarget < 0 || t.MonthlyTarget < 0 {
			return LevelTable{}, fmt.Errorf("%w: level %d has a negative target", ErrInvalidLevelTable, t.Level)
		}
		if i == 0 {
			continue
		}
		prev := tiers[i-1]
		if t.BalanceThreshold <= prev.BalanceThreshold {
			return LevelTable{}, fmt.Errorf("%w: level %d threshold %.2f not above level %d threshold %.2f",
				ErrInvalidLevelTable, t.Level, t.BalanceThreshold, prev.Level, prev.BalanceThreshold)
		}
		if t.LotSize < prev.LotSize {
			return LevelTable{}, fmt.Errorf("%w: level %d lot size %.2f below level %d lot size %.2f",
				ErrInvalidLevelTable, t.Level, t.LotSize, prev.Level, prev.LotSize)
		}
	}

	cp := make([]Tier, len(tiers))
	copy(cp, tiers)
	return LevelTable{tiers: cp}, nil
}

// Tiers returns a copy of the table in ascending order.
func (t LevelTable) Tiers() []Tier {
	cp := make([]Tier, len(t.tiers))
	copy(cp, t.tiers)
	return cp
}

func (t LevelTable) Len() int { return len(t.tiers) }

func (t LevelTable) At(i int) Tier { return t.tiers[i] }

func (t LevelTable) First() Tier { return t.tiers[0] }

func (t LevelTable) Last() Tier { return t.tiers[len(t.tiers)-1] }
