package models

import (
	"encoding/json"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

type Platform string

const (
	PlatformAll      Platform = "All"
	PlatformAmazon   Platform = "Amazon"
	PlatformShopify  Platform = "Shopify"
	PlatformFlipkart Platform = "Flipkart"
)

// Platforms in chart order.
var Platforms = []Platform{PlatformShopify, PlatformAmazon, PlatformFlipkart}

type OrderStatus string

const (
	StatusAll        OrderStatus = "All"
	StatusNew        OrderStatus = "New"
	StatusProcessing OrderStatus = "Processing"
	StatusShipped    OrderStatus = "Shipped"
	StatusCancelled  OrderStatus = "Cancelled"
)

// Terminal statuses accept no further actions.
func (s OrderStatus) Terminal() bool { return s == StatusShipped || s == StatusCancelled }

type LineItem struct {
	Title    string `json:"title,omitempty"`
	Name     string `json:"name,omitempty"`
	SKU      string `json:"sku,omitempty"`
	Quantity Number `json:"quantity,omitempty"`
	Qty      Number `json:"qty,omitempty"`
}

func (li LineItem) DisplayName() string {
	switch {
	case li.Title != "":
		return li.Title
	case li.Name != "":
		return li.Name
	}
	return "Unknown Item"
}

func (li LineItem) Count() int {
	switch {
	case li.Quantity.Int() != 0:
		return li.Quantity.Int()
	case li.Qty.Int() != 0:
		return li.Qty.Int()
	}
	return 1
}

type Order struct {
	ID            string          `json:"id"`
	OriginalID    Text            `json:"originalId"`
	Platform      Platform        `json:"platform"`
	Date          string          `json:"date"`
	Status        OrderStatus     `json:"status"`
	Total         Money           `json:"total"`
	BuyerName     string          `json:"buyerName,omitempty"`
	Name          string          `json:"name,omitempty"`
	Address       string          `json:"address,omitempty"`
	PaymentMethod string          `json:"paymentMethod,omitempty"`
	AWB           *string         `json:"awb"`
	LineItems     []LineItem      `json:"line_items,omitempty"`
	Items         []LineItem      `json:"items,omitempty"`
}

var orderDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	DateLayout,
}

// PlacedAt parses Date. Values without an offset are read as UTC.
func (o Order) PlacedAt() (time.Time, bool) {
	s := strings.TrimSpace(o.Date)
	for _, layout := range orderDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func (o Order) CustomerName() string {
	switch {
	case o.BuyerName != "":
		return o.BuyerName
	case o.Name != "" && o.Name != "N/A":
		return o.Name
	}
	return "N/A"
}

func (o Order) Products() []LineItem {
	if len(o.LineItems) > 0 {
		return o.LineItems
	}
	return o.Items
}

func (o Order) HasAWB() bool { return o.AWB != nil && strings.TrimSpace(*o.AWB) != "" }

// DailyAdPerformanceRecord is one calendar day of ad spend and order outcomes.
type DailyAdPerformanceRecord struct {
	Date             string     `json:"date"`
	Spend            Number     `json:"spend"`
	Revenue          Number     `json:"revenue"`
	TotalOrders      Number     `json:"totalOrders"`
	DeliveredOrders  Number     `json:"deliveredOrders"`
	RTOOrders        Number     `json:"rtoOrders"`
	CancelledOrders  Number     `json:"cancelledOrders"`
	InTransitOrders  Number     `json:"inTransitOrders"`
	ProcessingOrders Number     `json:"processingOrders"`
	DeliveredRevenue NullNumber `json:"deliveredRevenue"`
}

// AdMetrics are the fields shared by an ad set and its search terms.
type AdMetrics struct {
	ID               Text       `json:"id"`
	Name             Text       `json:"name"`
	Spend            Number     `json:"spend"`
	Revenue          Number     `json:"revenue"`
	TotalOrders      Number     `json:"totalOrders"`
	DeliveredOrders  Number     `json:"deliveredOrders"`
	DeliveredRevenue NullNumber `json:"deliveredRevenue"`
	RTOOrders        Number     `json:"rtoOrders"`
	CancelledOrders  Number     `json:"cancelledOrders"`
	InTransitOrders  Number     `json:"inTransitOrders"`
	ProcessingOrders Number     `json:"processingOrders"`
	ExceptionOrders  Number     `json:"exceptionOrders"`
}

type SearchTermRow struct {
	AdMetrics
}

type AdsetPerformanceRow struct {
	AdMetrics
	Terms []SearchTermRow `json:"terms,omitempty"`
}

// AdsetPerformanceResponse decodes both `{"adsetPerformance": [...]}` and a bare array.
type AdsetPerformanceResponse struct {
	AdsetPerformance []AdsetPerformanceRow `json:"adsetPerformance"`
}

func (r *AdsetPerformanceResponse) UnmarshalJSON(b []byte) error {
	var rows []AdsetPerformanceRow
	if err := json.Unmarshal(b, &rows); err == nil {
		r.AdsetPerformance = rows
		return nil
	}
	var wrapped struct {
		AdsetPerformance []AdsetPerformanceRow `json:"adsetPerformance"`
	}
	if err := json.Unmarshal(b, &wrapped); err != nil {
		return err
	}
	r.AdsetPerformance = wrapped.AdsetPerformance
	return nil
}

// Interval is an inclusive UTC window. The zero value means "no date filter".
type Interval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (iv Interval) Bounded() bool { return !iv.Start.IsZero() && !iv.End.IsZero() }

func (iv Interval) Contains(t time.Time) bool {
	if !iv.Bounded() {
		return true
	}
	return !t.Before(iv.Start) && !t.After(iv.End)
}

func (iv Interval) Since() string { return iv.Start.UTC().Format(DateLayout) }
func (iv Interval) Until() string { return iv.End.UTC().Format(DateLayout) }

// Series is a chart-ready label/value pair list.
type Series struct {
	Labels []string  `json:"labels"`
	Values []float64 `json:"series"`
}

func (s *Series) Add(label string, v float64) {
	s.Labels = append(s.Labels, label)
	s.Values = append(s.Values, v)
}

func NewSeries(n int) Series {
	return Series{Labels: make([]string, 0, n), Values: make([]float64, 0, n)}
}
