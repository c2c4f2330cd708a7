package orders

import (
	"sort"

	"github.com/AngelCh415/sellerdash/internal/models"
)

type Action string

const (
	ActionCreateShipment  Action = "create_shipment"
	ActionDownloadLabel   Action = "download_label"
	ActionDownloadInvoice Action = "download_invoice"
	ActionCancel          Action = "cancel"
)

// Actions lists what can be done with an order in its current state.
// Shipment and documents go through the Shopify logistics integration only.
func Actions(o models.Order) []Action {
	out := []Action{}
	if o.Platform == models.PlatformShopify {
		if o.Status == models.StatusNew && !o.HasAWB() {
			out = append(out, ActionCreateShipment)
		}
		if o.HasAWB() {
			out = append(out, ActionDownloadLabel, ActionDownloadInvoice)
		}
	}
	if !o.Status.Terminal() {
		out = append(out, ActionCancel)
	}
	return out
}

func Allowed(o models.Order, a Action) bool {
	for _, x := range Actions(o) {
		if x == a {
			return true
		}
	}
	return false
}

type Product struct {
	Name     string `json:"name"`
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

type Detail struct {
	models.Order
	Customer string    `json:"customer"`
	Products []Product `json:"products"`
	Actions  []Action  `json:"actions"`
}

func NewDetail(o models.Order) Detail {
	d := Detail{
		Order:    o,
		Customer: o.CustomerName(),
		Products: make([]Product, 0, len(o.Products())),
		Actions:  Actions(o),
	}
	if d.Address == "" {
		d.Address = "No address available"
	}
	for _, li := range o.Products() {
		sku := li.SKU
		if sku == "" {
			sku = "N/A"
		}
		d.Products = append(d.Products, Product{Name: li.DisplayName(), SKU: sku, Quantity: li.Count()})
	}
	return d
}

// RecentFirst returns a copy sorted by placement time, newest first.
// Orders with an unreadable date go last.
func RecentFirst(in []models.Order) []models.Order {
	out := make([]models.Order, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool {
		ti, oki := out[i].PlacedAt()
		tj, okj := out[j].PlacedAt()
		if oki != okj {
			return oki
		}
		return ti.After(tj)
	})
	return out
}
