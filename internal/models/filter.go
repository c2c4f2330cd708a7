package models

import "net/url"

// View identifies a dashboard context. Each view owns its own filter state.
type View string

const (
	ViewOrdersDashboard View = "orders_dashboard"
	ViewOrderInsights   View = "order_insights"
	ViewAdPerformance   View = "ad_performance"
	ViewAdsetBreakdown  View = "adset_breakdown"
)

const DefaultDateFilterType = "order_date"

func (v View) DefaultFilter() FilterState {
	f := FilterState{Preset: "last_7_days", Platform: PlatformAll, Status: StatusAll}
	switch v {
	case ViewOrdersDashboard:
		f.Preset = "today"
	case ViewAdsetBreakdown:
		f.DateFilterType = DefaultDateFilterType
	}
	return f
}

// FilterState is passed by value; every With* returns a copy.
type FilterState struct {
	Preset         string      `json:"preset"`
	CustomStart    string      `json:"customStart,omitempty"`
	CustomEnd      string      `json:"customEnd,omitempty"`
	Platform       Platform    `json:"platform"`
	Status         OrderStatus `json:"status"`
	DateFilterType string      `json:"dateFilterType,omitempty"`
}

func (f FilterState) WithPreset(preset, start, end string) FilterState {
	f.Preset, f.CustomStart, f.CustomEnd = preset, start, end
	return f
}

func (f FilterState) WithPlatform(p Platform) FilterState {
	f.Platform = p
	return f
}

func (f FilterState) WithStatus(s OrderStatus) FilterState {
	f.Status = s
	return f
}

// FilterFromQuery overlays query parameters on the view defaults.
func FilterFromQuery(v View, q url.Values) FilterState {
	f := v.DefaultFilter()
	if p := q.Get("preset"); p != "" {
		f = f.WithPreset(p, q.Get("start"), q.Get("end"))
	}
	if p := q.Get("platform"); p != "" {
		f = f.WithPlatform(Platform(p))
	}
	if s := q.Get("status"); s != "" && v == ViewOrdersDashboard {
		f = f.WithStatus(OrderStatus(s))
	}
	if d := q.Get("date_filter_type"); d != "" && v == ViewAdsetBreakdown {
		f.DateFilterType = d
	}
	return f
}

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// SortState of the ad-set table. The zero Key means "unsorted".
type SortState struct {
	Key   string    `json:"key"`
	Order SortOrder `json:"order"`
}

func NewSortState() SortState { return SortState{Order: SortAsc} }

func (s SortState) Reset() SortState { return NewSortState() }

// Toggle flips the order on the active key; a new key starts ascending.
func (s SortState) Toggle(key string) SortState {
	if s.Key == key {
		if s.Order == SortAsc {
			return SortState{Key: key, Order: SortDesc}
		}
		return SortState{Key: key, Order: SortAsc}
	}
	return SortState{Key: key, Order: SortAsc}
}
