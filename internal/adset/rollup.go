// Package adset builds the two-level ad set / search term table and sorts it.
package adset

import (
	"math"

	"github.com/AngelCh415/sellerdash/internal/adperf"
	"github.com/AngelCh415/sellerdash/internal/models"
)

// Metrics is one table line with its derived ratios already computed.
type Metrics struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Spend            float64 `json:"spend"`
	Revenue          float64 `json:"revenue"`
	TotalOrders      float64 `json:"totalOrders"`
	DeliveredOrders  float64 `json:"deliveredOrders"`
	DeliveredRevenue float64 `json:"deliveredRevenue"`
	RTOOrders        float64 `json:"rtoOrders"`
	CancelledOrders  float64 `json:"cancelledOrders"`
	InTransitOrders  float64 `json:"inTransitOrders"`
	ProcessingOrders float64 `json:"processingOrders"`
	ExceptionOrders  float64 `json:"exceptionOrders"`
	RTOPercent       float64 `json:"rtoPercent"`
	CPO              float64 `json:"cpo"`
	ROAS             float64 `json:"roas"`
}

type Row struct {
	Metrics
	Terms []Metrics `json:"terms"`
}

type Summary struct {
	Spend            float64 `json:"spend"`
	TotalOrders      int     `json:"totalOrders"`
	DeliveredOrders  int     `json:"deliveredOrders"`
	DeliveredRevenue float64 `json:"deliveredRevenue"`
	RTOOrders        int     `json:"rtoOrders"`
	CancelledOrders  int     `json:"cancelledOrders"`
	ROAS             float64 `json:"roas"`
}

func derive(m models.AdMetrics) Metrics {
	out := Metrics{
		ID:               m.ID.String(),
		Name:             m.Name.String(),
		Spend:            m.Spend.Float(),
		Revenue:          m.Revenue.Float(),
		TotalOrders:      m.TotalOrders.Float(),
		DeliveredOrders:  m.DeliveredOrders.Float(),
		RTOOrders:        m.RTOOrders.Float(),
		CancelledOrders:  m.CancelledOrders.Float(),
		InTransitOrders:  m.InTransitOrders.Float(),
		ProcessingOrders: m.ProcessingOrders.Float(),
		ExceptionOrders:  m.ExceptionOrders.Float(),
	}
	out.DeliveredRevenue = adperf.DeliveredRevenue(m.DeliveredRevenue, out.Revenue, out.DeliveredOrders, out.TotalOrders)
	out.RTOPercent = adperf.RTOPercent(out.DeliveredOrders, out.RTOOrders, out.CancelledOrders)
	out.CPO = adperf.CostPerOrder(out.Spend, out.TotalOrders)
	out.ROAS = adperf.ROAS(out.DeliveredRevenue, out.Spend)
	return out
}

// Rollup derives both levels independently. The ad set's own numbers are
// authoritative; terms are never re-summed into their parent.
func Rollup(in []models.AdsetPerformanceRow) []Row {
	out := make([]Row, 0, len(in))
	for _, r := range in {
		row := Row{Metrics: derive(r.AdMetrics), Terms: make([]Metrics, 0, len(r.Terms))}
		for _, term := range r.Terms {
			row.Terms = append(row.Terms, derive(term.AdMetrics))
		}
		out = append(out, row)
	}
	return out
}

// BuildSummary totals the top-level rows. It returns nil for an empty table so
// callers can hide the summary instead of showing zeros.
func BuildSummary(rows []Row) *Summary {
	if len(rows) == 0 {
		return nil
	}
	s := &Summary{}
	for _, r := range rows {
		s.Spend += r.Spend
		s.TotalOrders += trunc(r.TotalOrders)
		s.DeliveredOrders += trunc(r.DeliveredOrders)
		s.DeliveredRevenue += r.DeliveredRevenue
		s.RTOOrders += trunc(r.RTOOrders)
		s.CancelledOrders += trunc(r.CancelledOrders)
	}
	s.ROAS = adperf.ROAS(s.DeliveredRevenue, s.Spend)
	return s
}

func trunc(f float64) int { return int(math.Trunc(f)) }
