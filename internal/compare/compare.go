// Package compare derives the prior period for a preset and formats trends against it.
package compare

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/AngelCh415/sellerdash/internal/daterange"
	"github.com/AngelCh415/sellerdash/internal/models"
	"github.com/AngelCh415/sellerdash/internal/orders"
)

const (
	LabelWeek  = "vs Previous Week"
	LabelMonth = "vs Previous Month"
)

type Result struct {
	PeriodLabel  string `json:"periodLabel"`
	RevenueTrend string `json:"revenueTrend"`
	OrdersTrend  string `json:"ordersTrend"`
}

var hundred = decimal.NewFromInt(100)

// PriorPeriod returns the comparison window for preset and its label.
// ok is false when the preset has no comparison.
func PriorPeriod(preset string, cur models.Interval) (models.Interval, string, bool) {
	if !cur.Bounded() {
		return models.Interval{}, "", false
	}
	switch preset {
	case daterange.Last7Days:
		return models.Interval{
			Start: cur.Start.AddDate(0, 0, -7),
			End:   cur.End.AddDate(0, 0, -7),
		}, LabelWeek, true
	case daterange.MonthToDate, daterange.LastMonth:
		y, m, _ := cur.Start.UTC().Date()
		start := time.Date(y, m-1, 1, 0, 0, 0, 0, time.UTC)
		end := time.Date(y, m, 0, 0, 0, 0, 0, time.UTC)
		return models.Interval{Start: start, End: daterange.EndOfDay(end)}, LabelMonth, true
	}
	return models.Interval{}, "", false
}

// Compare contrasts the already-filtered current orders with the prior period drawn
// from all, filtered by platform and the prior window (status is never filtered).
func Compare(current, all []models.Order, platform models.Platform, preset string, cur models.Interval) Result {
	prior, label, ok := PriorPeriod(preset, cur)
	if !ok {
		return Result{}
	}
	previous := orders.Filter(all, prior, platform, models.StatusAll)
	return Result{
		PeriodLabel:  label,
		RevenueTrend: FormatTrend(orders.Revenue(current), orders.Revenue(previous)),
		OrdersTrend:  FormatTrend(decimal.NewFromInt(int64(len(current))), decimal.NewFromInt(int64(len(previous)))),
	}
}

// FormatTrend renders the percentage change from prior to current, e.g. "+50.0%".
// A zero baseline gives "+100%" for any growth and "+0%" otherwise.
func FormatTrend(current, prior decimal.Decimal) string {
	if prior.IsZero() {
		if current.IsPositive() {
			return "+100%"
		}
		return "+0%"
	}
	pct := current.Sub(prior).Div(prior).Mul(hundred)
	// el signo sale del valor sin redondear: -0.01% se muestra "-0.0%"
	if pct.IsNegative() {
		return "-" + pct.Abs().StringFixed(1) + "%"
	}
	return "+" + pct.StringFixed(1) + "%"
}
