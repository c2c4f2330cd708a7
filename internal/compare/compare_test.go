package compare

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/sellerdash/internal/daterange"
	"github.com/AngelCh415/sellerdash/internal/models"
	"github.com/AngelCh415/sellerdash/internal/orders"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestFormatTrend(t *testing.T) {
	cases := []struct {
		cur, prior int64
		want       string
	}{
		{150, 100, "+50.0%"},
		{0, 0, "+0%"},
		{10, 0, "+100%"},
		{50, 100, "-50.0%"},
		{100, 100, "+0.0%"},
		{1, 3, "-66.7%"},
		{1000, 999999, "-99.9%"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatTrend(dec(tc.cur), dec(tc.prior)), "%d vs %d", tc.cur, tc.prior)
	}
	assert.Equal(t, "-0.0%", FormatTrend(decimal.RequireFromString("99.99"), dec(100)))
	assert.Equal(t, "+0.0%", FormatTrend(decimal.RequireFromString("100.01"), dec(100)))
	assert.Equal(t, "-12.5%", FormatTrend(decimal.RequireFromString("87.5"), dec(100)))
}

func TestPriorPeriod(t *testing.T) {
	r := daterange.Resolver{Now: func() time.Time { return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC) }}

	prior, label, ok := PriorPeriod(daterange.Last7Days, r.Resolve(daterange.Last7Days, "", ""))
	require.True(t, ok)
	assert.Equal(t, LabelWeek, label)
	assert.Equal(t, "2024-06-02", prior.Since())
	assert.Equal(t, "2024-06-08", prior.Until())
	assert.Equal(t, daterange.EndOfDay(prior.End), prior.End)

	for _, p := range []string{daterange.MonthToDate, daterange.LastMonth} {
		cur := r.Resolve(p, "", "")
		prior, label, ok = PriorPeriod(p, cur)
		require.True(t, ok, p)
		assert.Equal(t, LabelMonth, label)
		want := map[string][2]string{
			daterange.MonthToDate: {"2024-05-01", "2024-05-31"},
			daterange.LastMonth:   {"2024-04-01", "2024-04-30"},
		}[p]
		assert.Equal(t, want[0], prior.Since(), p)
		assert.Equal(t, want[1], prior.Until(), p)
	}

	_, _, ok = PriorPeriod(daterange.Today, r.Resolve(daterange.Today, "", ""))
	assert.False(t, ok)
	_, _, ok = PriorPeriod(daterange.Last7Days, models.Interval{})
	assert.False(t, ok)
}

func TestPriorPeriodJanuary(t *testing.T) {
	cur := models.Interval{
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   daterange.EndOfDay(time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)),
	}
	prior, _, ok := PriorPeriod(daterange.MonthToDate, cur)
	require.True(t, ok)
	assert.Equal(t, "2023-12-01", prior.Since())
	assert.Equal(t, "2023-12-31", prior.Until())
}

func TestCompare(t *testing.T) {
	mk := func(p models.Platform, date string, st models.OrderStatus, total int64) models.Order {
		return models.Order{Platform: p, Date: date, Status: st, Total: models.NewMoney(dec(total))}
	}
	all := []models.Order{
		// semana actual: 2024-06-09..15
		mk(models.PlatformShopify, "2024-06-10", models.StatusNew, 100),
		mk(models.PlatformShopify, "2024-06-12", models.StatusShipped, 50),
		mk(models.PlatformShopify, "2024-06-13", models.StatusCancelled, 999),
		// semana previa: 2024-06-02..08
		mk(models.PlatformShopify, "2024-06-03", models.StatusNew, 100),
		mk(models.PlatformShopify, "2024-06-04", models.StatusCancelled, 500),
		mk(models.PlatformAmazon, "2024-06-05", models.StatusNew, 300),
	}
	r := daterange.Resolver{Now: func() time.Time { return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC) }}
	cur := r.Resolve(daterange.Last7Days, "", "")

	current := orders.Filter(all, cur, models.PlatformShopify, models.StatusAll)
	got := Compare(current, all, models.PlatformShopify, daterange.Last7Days, cur)
	assert.Equal(t, Result{PeriodLabel: LabelWeek, RevenueTrend: "+50.0%", OrdersTrend: "+50.0%"}, got)

	current = orders.Filter(all, cur, models.PlatformAll, models.StatusAll)
	got = Compare(current, all, models.PlatformAll, daterange.Last7Days, cur)
	assert.Equal(t, "-62.5%", got.RevenueTrend)
	assert.Equal(t, "+0.0%", got.OrdersTrend)
}

func TestCompareWithoutComparison(t *testing.T) {
	cur := models.Interval{Start: time.Now(), End: time.Now()}
	assert.Equal(t, Result{}, Compare(nil, nil, models.PlatformAll, daterange.Today, cur))
	assert.Equal(t, Result{}, Compare(nil, nil, models.PlatformAll, daterange.Last7Days, models.Interval{}))
}
