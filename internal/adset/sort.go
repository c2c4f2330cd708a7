package adset

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/AngelCh415/sellerdash/internal/models"
)

// Sort keys accepted by the ad-set table.
const (
	KeyName             = "name"
	KeySpend            = "spend"
	KeyRevenue          = "revenue"
	KeyTotalOrders      = "totalOrders"
	KeyDeliveredOrders  = "deliveredOrders"
	KeyDeliveredRevenue = "deliveredRevenue"
	KeyRTOOrders        = "rtoOrders"
	KeyCancelledOrders  = "cancelledOrders"
	KeyInTransitOrders  = "inTransitOrders"
	KeyProcessingOrders = "processingOrders"
	KeyExceptionOrders  = "exceptionOrders"
	KeyRTOPercent       = "rtoPercent"
	KeyCPO              = "cpo"
	KeyROAS             = "roas"
)

// Value returns the numeric column for key. Unknown keys read as 0.
func (m Metrics) Value(key string) float64 {
	switch key {
	case KeySpend:
		return m.Spend
	case KeyRevenue:
		return m.Revenue
	case KeyTotalOrders:
		return m.TotalOrders
	case KeyDeliveredOrders:
		return m.DeliveredOrders
	case KeyDeliveredRevenue:
		return m.DeliveredRevenue
	case KeyRTOOrders:
		return m.RTOOrders
	case KeyCancelledOrders:
		return m.CancelledOrders
	case KeyInTransitOrders:
		return m.InTransitOrders
	case KeyProcessingOrders:
		return m.ProcessingOrders
	case KeyExceptionOrders:
		return m.ExceptionOrders
	case KeyRTOPercent:
		return m.RTOPercent
	case KeyCPO:
		return m.CPO
	case KeyROAS:
		return m.ROAS
	}
	return 0
}

// Sort returns a sorted copy of rows. Names use locale-aware collation; every
// other key compares numerically. Terms travel with their parent and are not
// reordered. An empty key returns the rows in their original order.
func Sort(rows []Row, key string, order models.SortOrder) []Row {
	out := make([]Row, len(rows))
	copy(out, rows)
	if key == "" {
		return out
	}

	cmp := func(a, b Row) int {
		x, y := a.Value(key), b.Value(key)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	}
	if key == KeyName {
		col := collate.New(language.English)
		cmp = func(a, b Row) int { return col.CompareString(a.Name, b.Name) }
	}

	sort.SliceStable(out, func(i, j int) bool {
		c := cmp(out[i], out[j])
		if order == models.SortDesc {
			return c > 0
		}
		return c < 0
	})
	return out
}
