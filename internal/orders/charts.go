package orders

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/AngelCh415/sellerdash/internal/daterange"
	"github.com/AngelCh415/sellerdash/internal/models"
)

const (
	PaymentPrepaid = "Prepaid"
	PaymentCOD     = "COD"
)

// RevenueByDay buckets non-cancelled revenue into every day of iv, zero-filled.
// An unbounded interval yields an empty series.
func RevenueByDay(in []models.Order, iv models.Interval) models.Series {
	days := daterange.Days(iv)
	buckets := make(map[string]decimal.Decimal, len(days))
	for _, d := range days {
		buckets[d.Format(models.DateLayout)] = decimal.Zero
	}
	for _, o := range in {
		if o.Status == models.StatusCancelled {
			continue
		}
		t, ok := o.PlacedAt()
		if !ok {
			continue
		}
		k := t.Format(models.DateLayout)
		if v, ok := buckets[k]; ok {
			buckets[k] = v.Add(o.Total.Decimal)
		}
	}
	s := models.NewSeries(len(days))
	for _, d := range days {
		s.Add(d.Format("Jan 2"), buckets[d.Format(models.DateLayout)].InexactFloat64())
	}
	return s
}

func RevenueByPlatform(in []models.Order) models.Series {
	sums := make(map[models.Platform]decimal.Decimal, len(models.Platforms))
	for _, o := range in {
		if o.Status == models.StatusCancelled {
			continue
		}
		sums[o.Platform] = sums[o.Platform].Add(o.Total.Decimal)
	}
	s := models.NewSeries(len(models.Platforms))
	for _, p := range models.Platforms {
		s.Add(string(p), sums[p].InexactFloat64())
	}
	return s
}

// PaymentMix counts Prepaid vs COD orders; orders without a payment method are skipped.
func PaymentMix(in []models.Order) models.Series {
	var prepaid, cod int
	for _, o := range in {
		if o.PaymentMethod == "" {
			continue
		}
		if IsCOD(o.PaymentMethod) {
			cod++
		} else {
			prepaid++
		}
	}
	s := models.NewSeries(2)
	s.Add(PaymentPrepaid, float64(prepaid))
	s.Add(PaymentCOD, float64(cod))
	return s
}

func IsCOD(method string) bool {
	m := strings.ToLower(method)
	return strings.Contains(m, "cod") || strings.Contains(m, "cash")
}
