package backend

import (
	"time"

	"github.com/vitos/xau_money_management/internal/domain"
)

// Period boundaries are in UTC; weeks start on Monday.
func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func startOfWeek(t time.Time) time.Time {
	day := startOfDay(t)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

func startOfMonth(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// earliestPeriodStart is the oldest boundary needed to sum all three
// periods; a week can begin in the previous month.
func earliestPeriodStart(now time.Time) time.Time {
	w, m := startOfWeek(now), startOfMonth(now)
	if w.Before(m) {
		return w
	}
	return m
}

// realizedByPeriod sums deal P/L into today, this week and this month.
func realizedByPeriod(deals []domain.Deal, now time.Time) (daily, weekly, monthly float64) {
	d, w, m := startOfDay(now), startOfWeek(now), startOfMonth(now)
	for _, deal := range deals {
		at := deal.ClosedAt
		if !at.Before(d) {
			daily += deal.RealizedPnL
		}
		if !at.Before(w) {
			weekly += deal.RealizedPnL
		}
		if !at.Before(m) {
			monthly += deal.RealizedPnL
		}
	}
	return daily, weekly, monthly
}
