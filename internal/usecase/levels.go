package usecase

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/vitos/xau_money_management/internal/domain"
)

// Target percentages of the tier threshold. Targets stay pinned to the
// nominal threshold, not to live equity.
const (
	DefaultDailyTargetPct   = 0.03
	DefaultWeeklyTargetPct  = 0.15
	DefaultMonthlyTargetPct = 0.60
)

// referenceLevels holds threshold and lot size per level. Thresholds grow
// x1.5 per level from 100; targets are derived in DefaultLevelTable.
var referenceLevels = []struct {
	threshold string
	lot       string
}{
	{"100.00", "0.01"},
	{"150.00", "0.01"},
	{"225.00", "0.02"},
	{"337.50", "0.03"},
	{"506.25", "0.05"},
	{"759.38", "0.07"},
	{"1139.06", "0.10"},
	{"1708.59", "0.15"},
	{"2562.89", "0.20"},
	{"3844.34", "0.30"},
	{"5766.50", "0.50"},
	{"8649.76", "0.70"},
	{"12974.63", "1.00"},
	{"19461.95", "1.50"},
	{"29192.93", "2.50"},
	{"43789.39", "4.00"},
	{"65684.08", "6.00"},
	{"98526.13", "10.00"},
	{"147789.19", "20.00"},
	{"221683.68", "50.00"},
}

// DefaultLevelTable returns the 20 tier reference table.
func DefaultLevelTable() domain.LevelTable {
	tiers := make([]domain.Tier, 0, len(referenceLevels))
	for i, row := range referenceLevels {
		threshold := decimal.RequireFromString(row.threshold)
		lot := decimal.RequireFromString(row.lot)
		tiers = append(tiers, tierAt(i+1, threshold, lot,
			decimal.NewFromFloat(DefaultDailyTargetPct),
			decimal.NewFromFloat(DefaultWeeklyTargetPct),
			decimal.NewFromFloat(DefaultMonthlyTargetPct)))
	}
	table, err := domain.NewLevelTable(tiers)
	if err != nil {
		panic(fmt.Sprintf("reference level table: %v", err))
	}
	return table
}

// TableParams generates a geometric level table. LotSizes must hold one
// entry per level.
type TableParams struct {
	StartBalance     float64
	GrowthFactor     float64
	DailyTargetPct   float64
	WeeklyTargetPct  float64
	MonthlyTargetPct float64
	LotSizes         []float64
}

// BuildLevelTable generates thresholds StartBalance*GrowthFactor^(level-1)
// rounded to cents, with targets as fixed percentages of each threshold.
func BuildLevelTable(p TableParams) (domain.LevelTable, error) {
	if p.StartBalance < 0 {
		return domain.LevelTable{}, fmt.Errorf("%w: start balance must not be negative", domain.ErrInvalidLevelTable)
	}
	if p.GrowthFactor <= 1 {
		return domain.LevelTable{}, fmt.Errorf("%w: growth factor must be above 1", domain.ErrInvalidLevelTable)
	}

	daily := decimal.NewFromFloat(p.DailyTargetPct)
	weekly := decimal.NewFromFloat(p.WeeklyTargetPct)
	monthly := decimal.NewFromFloat(p.MonthlyTargetPct)
	growth := decimal.NewFromFloat(p.GrowthFactor)

	exact := decimal.NewFromFloat(p.StartBalance)
	tiers := make([]domain.Tier, 0, len(p.LotSizes))
	for i, lot := range p.LotSizes {
		tiers = append(tiers, tierAt(i+1, exact.Round(2), decimal.NewFromFloat(lot), daily, weekly, monthly))
		exact = exact.Mul(growth)
	}
	return domain.NewLevelTable(tiers)
}

func tierAt(level int, threshold, lot, daily, weekly, monthly decimal.Decimal) domain.Tier {
	return domain.Tier{
		Level:            level,
		BalanceThreshold: threshold.InexactFloat64(),
		LotSize:          lot.InexactFloat64(),
		DailyTarget:      threshold.Mul(daily).Round(2).InexactFloat64(),
		WeeklyTarget:     threshold.Mul(weekly).Round(2).InexactFloat64(),
		MonthlyTarget:    threshold.Mul(monthly).Round(2).InexactFloat64(),
	}
}
