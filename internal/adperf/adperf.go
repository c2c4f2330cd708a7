package adperf

import (
	"time"

	"github.com/AngelCh415/sellerdash/internal/models"
)

type Derived struct {
	DeliveredRevenue float64 `json:"deliveredRevenue"`
	CPO              float64 `json:"cpo"`
	ROAS             float64 `json:"roas"`
	RTOPercent       float64 `json:"rtoPercent"`
}

func Derive(r models.DailyAdPerformanceRecord) Derived {
	dr := DeliveredRevenue(r.DeliveredRevenue, r.Revenue.Float(), r.DeliveredOrders.Float(), r.TotalOrders.Float())
	return Derived{
		DeliveredRevenue: dr,
		CPO:              CostPerOrder(r.Spend.Float(), r.TotalOrders.Float()),
		ROAS:             ROAS(dr, r.Spend.Float()),
		RTOPercent:       RTOPercent(r.DeliveredOrders.Float(), r.RTOOrders.Float(), r.CancelledOrders.Float()),
	}
}

// Row is a table line: the raw day plus its derived metrics.
type Row struct {
	Date             string  `json:"date"`
	Spend            float64 `json:"spend"`
	Revenue          float64 `json:"revenue"`
	TotalOrders      float64 `json:"totalOrders"`
	DeliveredOrders  float64 `json:"deliveredOrders"`
	RTOOrders        float64 `json:"rtoOrders"`
	CancelledOrders  float64 `json:"cancelledOrders"`
	InTransitOrders  float64 `json:"inTransitOrders"`
	ProcessingOrders float64 `json:"processingOrders"`
	Derived
}

type Totals struct {
	Spend            float64 `json:"spend"`
	Revenue          float64 `json:"revenue"`
	Orders           float64 `json:"orders"`
	Delivered        float64 `json:"delivered"`
	RTO              float64 `json:"rto"`
	Cancelled        float64 `json:"cancelled"`
	InTransit        float64 `json:"inTransit"`
	Processing       float64 `json:"processing"`
	DeliveredRevenue float64 `json:"deliveredRevenue"`
	ROAS             float64 `json:"roas"`
	CPO              float64 `json:"cpo"`
	RTOPercent       float64 `json:"rtoPercent"`
}

// ComputeTotals imputes delivered revenue per day before summing.
func ComputeTotals(rows []models.DailyAdPerformanceRecord) Totals {
	var t Totals
	for _, r := range rows {
		t.Spend += r.Spend.Float()
		t.Revenue += r.Revenue.Float()
		t.Orders += r.TotalOrders.Float()
		t.Delivered += r.DeliveredOrders.Float()
		t.RTO += r.RTOOrders.Float()
		t.Cancelled += r.CancelledOrders.Float()
		t.InTransit += r.InTransitOrders.Float()
		t.Processing += r.ProcessingOrders.Float()
		t.DeliveredRevenue += Derive(r).DeliveredRevenue
	}
	t.ROAS = ROAS(t.DeliveredRevenue, t.Spend)
	t.CPO = CostPerOrder(t.Spend, t.Orders)
	t.RTOPercent = RTOPercent(t.Delivered, t.RTO, t.Cancelled)
	return t
}

// Table returns one row per day, most recent first. rows is read in ascending order.
func Table(rows []models.DailyAdPerformanceRecord) []Row {
	out := make([]Row, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		r := rows[i]
		out = append(out, Row{
			Date:             r.Date,
			Spend:            r.Spend.Float(),
			Revenue:          r.Revenue.Float(),
			TotalOrders:      r.TotalOrders.Float(),
			DeliveredOrders:  r.DeliveredOrders.Float(),
			RTOOrders:        r.RTOOrders.Float(),
			CancelledOrders:  r.CancelledOrders.Float(),
			InTransitOrders:  r.InTransitOrders.Float(),
			ProcessingOrders: r.ProcessingOrders.Float(),
			Derived:          Derive(r),
		})
	}
	return out
}

type Trend struct {
	Labels  []string  `json:"labels"`
	Spend   []float64 `json:"spend"`
	Revenue []float64 `json:"revenue"`
}

// SpendVsRevenue keeps the chronological order of rows.
func SpendVsRevenue(rows []models.DailyAdPerformanceRecord) Trend {
	tr := Trend{
		Labels:  make([]string, 0, len(rows)),
		Spend:   make([]float64, 0, len(rows)),
		Revenue: make([]float64, 0, len(rows)),
	}
	for _, r := range rows {
		tr.Labels = append(tr.Labels, dayLabel(r.Date))
		tr.Spend = append(tr.Spend, r.Spend.Float())
		tr.Revenue = append(tr.Revenue, r.Revenue.Float())
	}
	return tr
}

func StatusBreakdown(t Totals) models.Series {
	s := models.NewSeries(3)
	s.Add("Delivered", t.Delivered)
	s.Add("RTO", t.RTO)
	s.Add("Cancelled", t.Cancelled)
	return s
}

type Report struct {
	Totals Totals        `json:"totals"`
	Rows   []Row         `json:"rows"`
	Trend  Trend         `json:"trend"`
	Status models.Series `json:"status"`
}

func Build(rows []models.DailyAdPerformanceRecord) Report {
	t := ComputeTotals(rows)
	return Report{
		Totals: t,
		Rows:   Table(rows),
		Trend:  SpendVsRevenue(rows),
		Status: StatusBreakdown(t),
	}
}

func dayLabel(s string) string {
	for _, layout := range []string{models.DateLayout, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Format("02 Jan")
		}
	}
	return s
}
