package orders

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AngelCh415/sellerdash/internal/models"
)

func order(id string, p models.Platform, date string, st models.OrderStatus, total int64) models.Order {
	return models.Order{ID: id, OriginalID: models.Text(id), Platform: p, Date: date, Status: st, Total: models.NewMoney(decimal.NewFromInt(total))}
}

func june(from, to int) models.Interval {
	return models.Interval{
		Start: time.Date(2024, 6, from, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 6, to, 23, 59, 59, int(999*time.Millisecond), time.UTC),
	}
}

func batch() []models.Order {
	return []models.Order{
		order("#1", models.PlatformShopify, "2024-06-10", models.StatusNew, 100),
		order("#2", models.PlatformShopify, "2024-06-11T08:00:00Z", models.StatusShipped, 250),
		order("#3", models.PlatformAmazon, "2024-06-11", models.StatusCancelled, 400),
		order("#4", models.PlatformAmazon, "2024-06-12", models.StatusProcessing, 50),
		order("#5", models.PlatformFlipkart, "2024-05-30", models.StatusNew, 70),
		order("#6", models.PlatformShopify, "not a date", models.StatusNew, 10),
	}
}

func ids(in []models.Order) []string {
	out := make([]string, 0, len(in))
	for _, o := range in {
		out = append(out, o.ID)
	}
	return out
}

func TestFilter(t *testing.T) {
	all := batch()

	got := Filter(all, june(10, 12), models.PlatformAll, models.StatusAll)
	assert.Equal(t, []string{"#1", "#2", "#3", "#4"}, ids(got))

	got = Filter(all, june(10, 12), models.PlatformAmazon, models.StatusAll)
	assert.Equal(t, []string{"#3", "#4"}, ids(got))

	got = Filter(all, june(10, 12), models.PlatformAll, models.StatusNew)
	assert.Equal(t, []string{"#1"}, ids(got))

	// intervalo vacío: no se filtra por fecha
	got = Filter(all, models.Interval{}, "", "")
	assert.Len(t, got, len(all))
}

func TestFilterKeepsInputIntact(t *testing.T) {
	all := batch()
	before := ids(all)
	_ = Filter(all, june(11, 11), models.PlatformShopify, models.StatusShipped)
	_ = RecentFirst(all)
	assert.Equal(t, before, ids(all))
}

func TestDashboard(t *testing.T) {
	k := Dashboard(batch())
	assert.Equal(t, DashboardKPIs{New: 3, Processing: 1, Shipped: 1, Cancelled: 1}, k)
}

func TestInsights(t *testing.T) {
	in := Filter(batch(), june(10, 12), models.PlatformAll, models.StatusAll)
	k := Insights(in)

	assert.True(t, decimal.NewFromInt(400).Equal(k.TotalRevenue), k.TotalRevenue.String())
	assert.Equal(t, "133.33", k.AvgOrderValue.StringFixed(2))
	assert.Equal(t, 4, k.AllOrders)
	assert.Equal(t, 1, k.Cancelled)
	assert.Zero(t, k.RTO)

	// idempotente
	assert.Equal(t, k, Insights(in))
}

func TestInsightsEmptyAndAllCancelled(t *testing.T) {
	k := Insights(nil)
	assert.True(t, k.TotalRevenue.IsZero())
	assert.True(t, k.AvgOrderValue.IsZero())

	k = Insights([]models.Order{order("#9", models.PlatformAmazon, "2024-06-01", models.StatusCancelled, 90)})
	assert.True(t, k.AvgOrderValue.IsZero())
	assert.Equal(t, 1, k.AllOrders)
}

func TestRevenueByDay(t *testing.T) {
	s := RevenueByDay(batch(), june(10, 12))
	assert.Equal(t, []string{"Jun 10", "Jun 11", "Jun 12"}, s.Labels)
	assert.Equal(t, []float64{100, 250, 50}, s.Values)

	empty := RevenueByDay(batch(), models.Interval{})
	assert.Empty(t, empty.Labels)
	assert.NotNil(t, empty.Values)
}

func TestRevenueByPlatform(t *testing.T) {
	s := RevenueByPlatform(batch())
	assert.Equal(t, []string{"Shopify", "Amazon", "Flipkart"}, s.Labels)
	assert.Equal(t, []float64{360, 50, 70}, s.Values)
}

func TestPaymentMix(t *testing.T) {
	in := []models.Order{
		{PaymentMethod: "COD"},
		{PaymentMethod: "Cash on Delivery"},
		{PaymentMethod: "Prepaid"},
		{PaymentMethod: "card"},
		{PaymentMethod: ""},
	}
	s := PaymentMix(in)
	assert.Equal(t, []string{PaymentPrepaid, PaymentCOD}, s.Labels)
	assert.Equal(t, []float64{2, 2}, s.Values)
}

func TestRecentFirst(t *testing.T) {
	got := RecentFirst(batch())
	assert.Equal(t, []string{"#4", "#2", "#3", "#1", "#5", "#6"}, ids(got))
}

func TestActions(t *testing.T) {
	awb := "AWB123"
	cases := []struct {
		name string
		o    models.Order
		want []Action
	}{
		{"shopify new", models.Order{Platform: models.PlatformShopify, Status: models.StatusNew}, []Action{ActionCreateShipment, ActionCancel}},
		{"shopify with awb", models.Order{Platform: models.PlatformShopify, Status: models.StatusProcessing, AWB: &awb}, []Action{ActionDownloadLabel, ActionDownloadInvoice, ActionCancel}},
		{"shopify shipped", models.Order{Platform: models.PlatformShopify, Status: models.StatusShipped, AWB: &awb}, []Action{ActionDownloadLabel, ActionDownloadInvoice}},
		{"amazon new", models.Order{Platform: models.PlatformAmazon, Status: models.StatusNew}, []Action{ActionCancel}},
		{"cancelled", models.Order{Platform: models.PlatformAmazon, Status: models.StatusCancelled}, []Action{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Actions(tc.o))
		})
	}
	assert.False(t, Allowed(models.Order{Status: models.StatusShipped}, ActionCancel))
}

func TestDetailFromPayload(t *testing.T) {
	raw := `{"id":"#1001","originalId":5550001,"platform":"Shopify","date":"2024-06-10","status":"New",
		"total":"1299.50","name":"N/A","buyerName":"Asha","awb":null,
		"items":[{"name":"Mug","sku":"","qty":2},{"title":"Tee","sku":"T-1"}]}`
	var o models.Order
	require.NoError(t, json.Unmarshal([]byte(raw), &o))
	assert.Equal(t, "5550001", o.OriginalID.String())

	d := NewDetail(o)
	assert.Equal(t, "Asha", d.Customer)
	assert.Equal(t, "No address available", d.Address)
	assert.Equal(t, []Product{{Name: "Mug", SKU: "N/A", Quantity: 2}, {Name: "Tee", SKU: "T-1", Quantity: 1}}, d.Products)
	assert.Equal(t, []Action{ActionCreateShipment, ActionCancel}, d.Actions)
}
