package ingest

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/AngelCh415/sellerdash/internal/models"
)

const (
	ContentTypePDF  = "application/pdf"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// SharedFetchTimeout bounds an order fetch shared by several callers.
const SharedFetchTimeout = time.Minute

// Orders returns every order the seller has. Concurrent callers with the same
// token share one upstream request; it is not tied to any single caller, so one
// caller giving up does not fail the others.
func (c *Client) Orders(ctx context.Context) ([]models.Order, error) {
	ch := c.sf.DoChan("orders|"+c.tokenFor(ctx), func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), SharedFetchTimeout)
		defer cancel()
		var out []models.Order
		if err := c.getJSON(fctx, "/get-orders", nil, &out); err != nil {
			return nil, err
		}
		return out, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return slices.Clone(res.Val.([]models.Order)), nil
	}
}

func (c *Client) AdPerformance(ctx context.Context, since, until string) ([]models.DailyAdPerformanceRecord, error) {
	q := url.Values{"since": {since}, "until": {until}}
	var out []models.DailyAdPerformanceRecord
	if err := c.getJSON(ctx, "/get-ad-performance", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AdsetPerformance passes dateFilterType through untouched.
func (c *Client) AdsetPerformance(ctx context.Context, since, until, dateFilterType string) ([]models.AdsetPerformanceRow, error) {
	if dateFilterType == "" {
		dateFilterType = models.DefaultDateFilterType
	}
	q := url.Values{"since": {since}, "until": {until}, "date_filter_type": {dateFilterType}}
	var out models.AdsetPerformanceResponse
	if err := c.getJSON(ctx, "/get-adset-performance", q, &out); err != nil {
		return nil, err
	}
	return out.AdsetPerformance, nil
}

type ShipmentResult struct {
	Success   bool               `json:"success"`
	AWB       string             `json:"awb"`
	NewStatus models.OrderStatus `json:"newStatus"`
}

type orderAction struct {
	OrderID   string             `json:"orderId"`
	Platform  models.Platform    `json:"platform"`
	NewStatus models.OrderStatus `json:"newStatus,omitempty"`
}

func (c *Client) CreateShipment(ctx context.Context, originalID string, platform models.Platform) (ShipmentResult, error) {
	var res ShipmentResult
	err := c.postJSON(ctx, "/create-shipment", orderAction{OrderID: originalID, Platform: platform}, &res)
	return res, err
}

func (c *Client) CancelOrder(ctx context.Context, originalID string, platform models.Platform) error {
	return c.postJSON(ctx, "/update-status", orderAction{
		OrderID:   originalID,
		Platform:  platform,
		NewStatus: models.StatusCancelled,
	}, nil)
}

// Blob is a downloaded document ready to be handed to the browser.
type Blob struct {
	Filename    string
	ContentType string
	Data        []byte
}

func (c *Client) blob(ctx context.Context, method, endpoint string, q url.Values, body any, filename, fallbackType string) (Blob, error) {
	resp, err := c.send(ctx, method, endpoint, q, body)
	if err != nil {
		return Blob{}, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Blob{}, fmt.Errorf("%s %s: read: %w", method, endpoint, err)
	}
	ct := fallbackType
	if mt, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type")); err == nil && mt != "application/octet-stream" {
		ct = mt
	}
	return Blob{Filename: filename, ContentType: ct, Data: data}, nil
}

func (c *Client) ShippingLabel(ctx context.Context, awb string) (Blob, error) {
	return c.blob(ctx, http.MethodGet, "/get-shipping-label", url.Values{"awb": {awb}}, nil,
		"label_"+awb+".pdf", ContentTypePDF)
}

// ShippingInvoice names the file after the order id without its leading "#",
// or after the AWB when there is no order id.
func (c *Client) ShippingInvoice(ctx context.Context, awb, orderID string) (Blob, error) {
	name := awb
	if orderID != "" {
		name = strings.Replace(orderID, "#", "", 1)
	}
	return c.blob(ctx, http.MethodGet, "/get-shipping-invoice", url.Values{"awb": {awb}, "orderId": {orderID}}, nil,
		"invoice_"+name+".pdf", ContentTypePDF)
}

// DashboardPDF renders rows (the ad-set table as shown) into a PDF upstream.
func (c *Client) DashboardPDF(ctx context.Context, since, until string, rows any) (Blob, error) {
	return c.blob(ctx, http.MethodPost, "/download-dashboard-pdf", url.Values{"since": {since}, "until": {until}}, rows,
		fmt.Sprintf("adset_report_%s_to_%s.pdf", since, until), ContentTypePDF)
}

func (c *Client) ExcelReport(ctx context.Context, since, until, dateFilterType string) (Blob, error) {
	if dateFilterType == "" {
		dateFilterType = models.DefaultDateFilterType
	}
	q := url.Values{"since": {since}, "until": {until}, "date_filter_type": {dateFilterType}}
	return c.blob(ctx, http.MethodGet, "/download-excel-report", q, nil,
		fmt.Sprintf("detailed_report_%s_to_%s.xlsx", since, until), ContentTypeXLSX)
}

func (c *Client) AmazonSalesReport(ctx context.Context, start, end string) (Blob, error) {
	q := url.Values{"start_date": {start}, "end_date": {end}}
	return c.blob(ctx, http.MethodGet, "/download-amazon-sales-report", q, nil,
		fmt.Sprintf("amazon_mtr_report_%s_to_%s.xlsx", start, end), ContentTypeXLSX)
}
