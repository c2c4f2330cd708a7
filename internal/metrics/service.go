// Package metrics assembles the dashboard views from the cached batches and
// the upstream seller API.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/AngelCh415/sellerdash/internal/adperf"
	"github.com/AngelCh415/sellerdash/internal/adset"
	"github.com/AngelCh415/sellerdash/internal/compare"
	"github.com/AngelCh415/sellerdash/internal/daterange"
	"github.com/AngelCh415/sellerdash/internal/ingest"
	"github.com/AngelCh415/sellerdash/internal/models"
	"github.com/AngelCh415/sellerdash/internal/orders"
	"github.com/AngelCh415/sellerdash/internal/store"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrActionNotAllowed = errors.New("action not allowed for this order")
	ErrShipmentRejected = errors.New("shipment rejected upstream")
	ErrNoData           = errors.New("no data available")
)

// Upstream is the part of the seller API the views need. *ingest.Client implements it.
type Upstream interface {
	Orders(ctx context.Context) ([]models.Order, error)
	AdPerformance(ctx context.Context, since, until string) ([]models.DailyAdPerformanceRecord, error)
	AdsetPerformance(ctx context.Context, since, until, dateFilterType string) ([]models.AdsetPerformanceRow, error)
	CreateShipment(ctx context.Context, originalID string, platform models.Platform) (ingest.ShipmentResult, error)
	CancelOrder(ctx context.Context, originalID string, platform models.Platform) error
	ShippingLabel(ctx context.Context, awb string) (ingest.Blob, error)
	ShippingInvoice(ctx context.Context, awb, orderID string) (ingest.Blob, error)
	DashboardPDF(ctx context.Context, since, until string, rows any) (ingest.Blob, error)
	ExcelReport(ctx context.Context, since, until, dateFilterType string) (ingest.Blob, error)
	AmazonSalesReport(ctx context.Context, start, end string) (ingest.Blob, error)
}

type Service struct {
	st    *store.MemoryStore
	up    Upstream
	dates daterange.Resolver
	log   *slog.Logger
}

func NewService(st *store.MemoryStore, up Upstream, dates daterange.Resolver, log *slog.Logger) *Service {
	return &Service{st: st, up: up, dates: dates, log: log}
}

func (s *Service) interval(f models.FilterState) models.Interval {
	return s.dates.Resolve(f.Preset, f.CustomStart, f.CustomEnd)
}

// account keys the cache by the caller's token, so a batch fetched with one
// credential is only served back to requests carrying that same credential.
// Requests without a token share the batch of the configured API token.
func account(ctx context.Context) string { return ingest.TokenFrom(ctx) }

// allOrders fetches the caller's first batch lazily; afterwards the cache is served.
func (s *Service) allOrders(ctx context.Context) ([]models.Order, error) {
	key := account(ctx)
	if s.st.OrdersFetchedAt(key).IsZero() {
		if _, err := s.RefreshOrders(ctx); err != nil {
			return nil, err
		}
	}
	return s.st.Orders(key), nil
}

func (s *Service) RefreshOrders(ctx context.Context) (int, error) {
	o, err := s.up.Orders(ctx)
	if err != nil {
		return 0, err
	}
	s.st.ReplaceOrders(account(ctx), o)
	s.log.Info("orders loaded", slog.Int("count", len(o)))
	return len(o), nil
}

type OrdersPage struct {
	Filter   models.FilterState   `json:"filter"`
	Interval models.Interval      `json:"interval"`
	KPIs     orders.DashboardKPIs `json:"kpis"`
	Total    int                  `json:"total"`
	Limit    int                  `json:"limit"`
	Offset   int                  `json:"offset"`
	Orders   []models.Order       `json:"orders"`
}

// OrdersDashboard filters by date, platform and status; KPIs cover the whole
// filtered set, the list is newest first and paginated.
func (s *Service) OrdersDashboard(ctx context.Context, v url.Values) (OrdersPage, error) {
	all, err := s.allOrders(ctx)
	if err != nil {
		return OrdersPage{}, err
	}
	f := models.FilterFromQuery(models.ViewOrdersDashboard, v)
	iv := s.interval(f)
	filtered := orders.Filter(all, iv, f.Platform, f.Status)

	rows := orders.RecentFirst(filtered)
	limit, offset := clampLimitOffset(atoiDef(v.Get("limit"), 100), atoiDef(v.Get("offset"), 0), len(rows))
	return OrdersPage{
		Filter:   f,
		Interval: iv,
		KPIs:     orders.Dashboard(filtered),
		Total:    len(rows),
		Limit:    limit,
		Offset:   offset,
		Orders:   paginate(rows, limit, offset),
	}, nil
}

func (s *Service) Order(ctx context.Context, id string) (orders.Detail, error) {
	if _, err := s.allOrders(ctx); err != nil {
		return orders.Detail{}, err
	}
	o, err := s.st.Order(account(ctx), id)
	if err != nil {
		return orders.Detail{}, fmt.Errorf("order %q: %w", id, err)
	}
	return orders.NewDetail(o), nil
}

type InsightsView struct {
	Filter            models.FilterState `json:"filter"`
	Interval          models.Interval    `json:"interval"`
	KPIs              orders.InsightKPIs `json:"kpis"`
	Comparison        compare.Result     `json:"comparison"`
	RevenueByDay      models.Series      `json:"revenueByDay"`
	RevenueByPlatform models.Series      `json:"revenueByPlatform"`
	PaymentMix        models.Series      `json:"paymentMix"`
}

// Insights ignores the status filter; the comparison looks at the whole batch.
func (s *Service) Insights(ctx context.Context, v url.Values) (InsightsView, error) {
	all, err := s.allOrders(ctx)
	if err != nil {
		return InsightsView{}, err
	}
	f := models.FilterFromQuery(models.ViewOrderInsights, v)
	iv := s.interval(f)
	cur := orders.Filter(all, iv, f.Platform, models.StatusAll)
	return InsightsView{
		Filter:            f,
		Interval:          iv,
		KPIs:              orders.Insights(cur),
		Comparison:        compare.Compare(cur, all, f.Platform, f.Preset, iv),
		RevenueByDay:      orders.RevenueByDay(cur, iv),
		RevenueByPlatform: orders.RevenueByPlatform(cur),
		PaymentMix:        orders.PaymentMix(cur),
	}, nil
}

type AdPerformanceView struct {
	Filter   models.FilterState `json:"filter"`
	Interval models.Interval    `json:"interval"`
	adperf.Report
}

// AdPerformance fetches the window and builds the report. Without a bounded
// window nothing is fetched and the report is empty.
func (s *Service) AdPerformance(ctx context.Context, v url.Values) (AdPerformanceView, error) {
	f := models.FilterFromQuery(models.ViewAdPerformance, v)
	iv := s.interval(f)
	view := AdPerformanceView{Filter: f, Interval: iv}
	if !iv.Bounded() {
		view.Report = adperf.Build(nil)
		return view, nil
	}

	key := account(ctx)
	gen := s.st.Begin(key, models.ViewAdPerformance)
	rows, err := s.up.AdPerformance(ctx, iv.Since(), iv.Until())
	if err != nil {
		return AdPerformanceView{}, err
	}
	if !s.st.Latest(key, models.ViewAdPerformance, gen) {
		s.log.Debug("stale ad performance batch discarded", slog.Uint64("gen", gen))
	}
	view.Report = adperf.Build(rows)
	return view, nil
}

type AdsetView struct {
	Filter   models.FilterState `json:"filter"`
	Interval models.Interval    `json:"interval"`
	Rows     []adset.Row        `json:"rows"`
	Summary  *adset.Summary     `json:"summary"`
	Sort     models.SortState   `json:"sort"`
}

func adsetView(rows []adset.Row, st models.SortState) AdsetView {
	return AdsetView{
		Rows:    adset.Sort(rows, st.Key, st.Order),
		Summary: adset.BuildSummary(rows),
		Sort:    st,
	}
}

// AdsetBreakdown fetches, rolls up and stores a fresh batch, which also resets
// the table sort.
func (s *Service) AdsetBreakdown(ctx context.Context, v url.Values) (AdsetView, error) {
	f := models.FilterFromQuery(models.ViewAdsetBreakdown, v)
	iv := s.interval(f)
	if !iv.Bounded() {
		view := adsetView([]adset.Row{}, models.NewSortState())
		view.Filter, view.Interval = f, iv
		return view, nil
	}

	key := account(ctx)
	gen := s.st.Begin(key, models.ViewAdsetBreakdown)
	raw, err := s.up.AdsetPerformance(ctx, iv.Since(), iv.Until(), f.DateFilterType)
	if err != nil {
		return AdsetView{}, err
	}
	rows := adset.Rollup(raw)
	if !s.st.CommitAdset(key, gen, rows) {
		s.log.Debug("stale adset batch discarded", slog.Uint64("gen", gen))
	}
	view := adsetView(rows, models.NewSortState())
	view.Filter, view.Interval = f, iv
	return view, nil
}

// SortAdsets toggles the sort on key and returns the caller's stored table
// sorted by it.
func (s *Service) SortAdsets(ctx context.Context, key string) (AdsetView, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return AdsetView{}, fmt.Errorf("%w: sort key required", ErrInvalidInput)
	}
	rows, st := s.st.ToggleAdsetSort(account(ctx), key)
	return adsetView(rows, st), nil
}

func (s *Service) findOriginal(ctx context.Context, originalID string) (models.Order, error) {
	all, err := s.allOrders(ctx)
	if err != nil {
		return models.Order{}, err
	}
	for _, o := range all {
		if o.OriginalID.String() == originalID {
			return o, nil
		}
	}
	return models.Order{}, fmt.Errorf("order %q: %w", originalID, store.ErrOrderNotFound)
}

// CreateShipment books a shipment for a new Shopify order and records the AWB.
func (s *Service) CreateShipment(ctx context.Context, originalID string) (orders.Detail, error) {
	o, err := s.findOriginal(ctx, originalID)
	if err != nil {
		return orders.Detail{}, err
	}
	if !orders.Allowed(o, orders.ActionCreateShipment) {
		return orders.Detail{}, fmt.Errorf("%w: create shipment on %s order in status %s", ErrActionNotAllowed, o.Platform, o.Status)
	}
	res, err := s.up.CreateShipment(ctx, originalID, o.Platform)
	if err != nil {
		return orders.Detail{}, err
	}
	if !res.Success {
		return orders.Detail{}, ErrShipmentRejected
	}
	updated, err := s.st.ApplyShipment(account(ctx), originalID, res.NewStatus, res.AWB)
	if err != nil {
		return orders.Detail{}, err
	}
	s.log.Info("shipment created", slog.String("order", originalID), slog.String("awb", res.AWB))
	return orders.NewDetail(updated), nil
}

func (s *Service) CancelOrder(ctx context.Context, originalID string) (orders.Detail, error) {
	o, err := s.findOriginal(ctx, originalID)
	if err != nil {
		return orders.Detail{}, err
	}
	if !orders.Allowed(o, orders.ActionCancel) {
		return orders.Detail{}, fmt.Errorf("%w: cancel order in status %s", ErrActionNotAllowed, o.Status)
	}
	if err := s.up.CancelOrder(ctx, originalID, o.Platform); err != nil {
		return orders.Detail{}, err
	}
	updated, err := s.st.ApplyCancel(account(ctx), originalID)
	if err != nil {
		return orders.Detail{}, err
	}
	s.log.Info("order cancelled", slog.String("order", originalID))
	return orders.NewDetail(updated), nil
}

func (s *Service) ShippingLabel(ctx context.Context, awb string) (ingest.Blob, error) {
	if strings.TrimSpace(awb) == "" {
		return ingest.Blob{}, fmt.Errorf("%w: awb required", ErrInvalidInput)
	}
	return s.up.ShippingLabel(ctx, awb)
}

func (s *Service) ShippingInvoice(ctx context.Context, awb, orderID string) (ingest.Blob, error) {
	if strings.TrimSpace(awb) == "" {
		return ingest.Blob{}, fmt.Errorf("%w: awb required", ErrInvalidInput)
	}
	return s.up.ShippingInvoice(ctx, awb, orderID)
}

// AdsetPDF renders the stored ad-set table, in its current sort, for the
// window described by v.
func (s *Service) AdsetPDF(ctx context.Context, v url.Values) (ingest.Blob, error) {
	iv := s.interval(models.FilterFromQuery(models.ViewAdsetBreakdown, v))
	rows, st := s.st.Adsets(account(ctx))
	if len(rows) == 0 {
		return ingest.Blob{}, ErrNoData
	}
	if !iv.Bounded() {
		return ingest.Blob{}, fmt.Errorf("%w: a valid date range is required", ErrInvalidInput)
	}
	return s.up.DashboardPDF(ctx, iv.Since(), iv.Until(), adset.Sort(rows, st.Key, st.Order))
}

func (s *Service) ExcelReport(ctx context.Context, v url.Values) (ingest.Blob, error) {
	f := models.FilterFromQuery(models.ViewAdsetBreakdown, v)
	iv := s.interval(f)
	if !iv.Bounded() {
		return ingest.Blob{}, fmt.Errorf("%w: a valid date range is required", ErrInvalidInput)
	}
	return s.up.ExcelReport(ctx, iv.Since(), iv.Until(), f.DateFilterType)
}

// AmazonReport takes explicit start_date/end_date days rather than a preset.
func (s *Service) AmazonReport(ctx context.Context, v url.Values) (ingest.Blob, error) {
	start, end := strings.TrimSpace(v.Get("start_date")), strings.TrimSpace(v.Get("end_date"))
	if start == "" || end == "" {
		return ingest.Blob{}, fmt.Errorf("%w: start_date and end_date are required", ErrInvalidInput)
	}
	return s.up.AmazonSalesReport(ctx, start, end)
}

func paginate[T any](rows []T, limit, offset int) []T {
	if offset >= len(rows) {
		return []T{}
	}
	end := offset + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[offset:end]
}

func atoiDef(s string, d int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return d
	}
	return v
}

func clampLimitOffset(limit, offset, n int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = n
	}
	if limit > 1000 {
		limit = 1000
	} // tope sano
	if offset > n {
		offset = n
	}
	return limit, offset
}
