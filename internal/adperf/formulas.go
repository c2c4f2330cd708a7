// Package adperf reduces daily ad-performance records into totals, table rows and
// chart series. Its ratio formulas are shared with the ad-set roll-up.
package adperf

import "github.com/AngelCh415/sellerdash/internal/models"

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}

func maxf(f float64) float64 {
	if f < 0 {
		return 0
	}
	return f
}

// DeliveredRevenue uses the explicit value when present; otherwise it imputes
// revenue * delivered/total (0 without orders).
func DeliveredRevenue(explicit models.NullNumber, revenue, delivered, total float64) float64 {
	if explicit.Valid {
		return explicit.Float
	}
	if total > 0 {
		return revenue * (delivered / total)
	}
	return 0
}

func ROAS(deliveredRevenue, spend float64) float64 {
	if spend <= 0 {
		return 0
	}
	return deliveredRevenue / spend
}

func CostPerOrder(spend, totalOrders float64) float64 {
	if totalOrders <= 0 {
		return 0
	}
	return spend / totalOrders
}

// RTOPercent is the failure share among resolved orders:
// (rto + cancelled) / (delivered + rto + cancelled). Always within [0,1].
func RTOPercent(delivered, rto, cancelled float64) float64 {
	delivered, rto, cancelled = maxf(delivered), maxf(rto), maxf(cancelled)
	return safeDiv(rto+cancelled, delivered+rto+cancelled)
}
