// Package orders reduces order batches into dashboard and insight KPIs.
package orders

import (
	"github.com/shopspring/decimal"

	"github.com/AngelCh415/sellerdash/internal/models"
)

type DashboardKPIs struct {
	New        int `json:"new"`
	Processing int `json:"processing"`
	Shipped    int `json:"shipped"`
	Cancelled  int `json:"cancelled"`
}

type InsightKPIs struct {
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
	AvgOrderValue decimal.Decimal `json:"avgOrderValue"`
	AllOrders     int             `json:"allOrders"`
	New           int             `json:"new"`
	Processing    int             `json:"processing"`
	Shipped       int             `json:"shipped"`
	Cancelled     int             `json:"cancelled"`
	// RTO only exists at ad level; kept as a fixed 0 for the KPI card.
	RTO int `json:"rto"`
}

// Filter applies date, platform and status in that order. It never touches in.
func Filter(in []models.Order, iv models.Interval, platform models.Platform, status models.OrderStatus) []models.Order {
	out := make([]models.Order, 0, len(in))
	for _, o := range in {
		if !inInterval(o, iv) {
			continue
		}
		if !matchPlatform(o, platform) {
			continue
		}
		if status != "" && status != models.StatusAll && o.Status != status {
			continue
		}
		out = append(out, o)
	}
	return out
}

func inInterval(o models.Order, iv models.Interval) bool {
	if !iv.Bounded() {
		return true
	}
	t, ok := o.PlacedAt()
	return ok && iv.Contains(t)
}

func matchPlatform(o models.Order, p models.Platform) bool {
	return p == "" || p == models.PlatformAll || o.Platform == p
}

func Dashboard(in []models.Order) DashboardKPIs {
	var k DashboardKPIs
	for _, o := range in {
		switch o.Status {
		case models.StatusNew:
			k.New++
		case models.StatusProcessing:
			k.Processing++
		case models.StatusShipped:
			k.Shipped++
		case models.StatusCancelled:
			k.Cancelled++
		}
	}
	return k
}

func Insights(in []models.Order) InsightKPIs {
	d := Dashboard(in)
	k := InsightKPIs{
		TotalRevenue:  Revenue(in),
		AvgOrderValue: decimal.Zero,
		AllOrders:     len(in),
		New:           d.New,
		Processing:    d.Processing,
		Shipped:       d.Shipped,
		Cancelled:     d.Cancelled,
	}
	if billable := len(in) - d.Cancelled; billable > 0 {
		k.AvgOrderValue = k.TotalRevenue.Div(decimal.NewFromInt(int64(billable)))
	}
	return k
}

// Revenue sums totals of every non-cancelled order.
func Revenue(in []models.Order) decimal.Decimal {
	sum := decimal.Zero
	for _, o := range in {
		if o.Status != models.StatusCancelled {
			sum = sum.Add(o.Total.Decimal)
		}
	}
	return sum
}
