// Package daterange turns dashboard date presets into concrete UTC windows.
package daterange

import (
	"strconv"
	"strings"
	"time"

	"github.com/AngelCh415/sellerdash/internal/models"
)

const (
	Today       = "today"
	Yesterday   = "yesterday"
	Last7Days   = "last_7_days"
	MonthToDate = "mtd"
	LastMonth   = "last_month"
	Custom      = "custom"
)

type PresetLabel struct {
	Preset string `json:"preset"`
	Label  string `json:"label"`
}

// Labels for the preset selector, in display order.
var Labels = []PresetLabel{
	{Today, "Today"},
	{Yesterday, "Yesterday"},
	{Last7Days, "Last 7 Days"},
	{MonthToDate, "Month to Date"},
	{LastMonth, "Last Month"},
	{Custom, "Custom Range..."},
}

type Resolver struct {
	Now func() time.Time
}

func New() Resolver { return Resolver{Now: time.Now} }

// Resolve returns the inclusive window for preset. Unknown presets, and a custom
// preset without a usable start date, yield the zero (unbounded) interval.
func (r Resolver) Resolve(preset, customStart, customEnd string) models.Interval {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	today := StartOfDay(now())
	y, m, _ := today.Date()

	var start, end time.Time
	switch preset {
	case Today:
		start, end = today, today
	case Yesterday:
		start = today.AddDate(0, 0, -1)
		end = start
	case Last7Days:
		start, end = today.AddDate(0, 0, -6), today
	case MonthToDate:
		start, end = time.Date(y, m, 1, 0, 0, 0, 0, time.UTC), today
	case LastMonth:
		start = time.Date(y, m-1, 1, 0, 0, 0, 0, time.UTC)
		end = time.Date(y, m, 0, 0, 0, 0, 0, time.UTC)
	case Custom:
		s, ok := ParseDay(customStart)
		if !ok {
			return models.Interval{}
		}
		e, ok := ParseDay(customEnd)
		if !ok {
			e = s
		}
		start, end = s, e
	default:
		return models.Interval{}
	}
	return models.Interval{Start: StartOfDay(start), End: EndOfDay(end)}
}

// ParseDay reads YYYY-MM-DD, and DD-MM-YYYY when the year comes last.
func ParseDay(s string) (time.Time, bool) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 3 {
		return time.Time{}, false
	}
	if len(parts[0]) != 4 && len(parts[2]) == 4 {
		parts[0], parts[2] = parts[2], parts[0]
	}
	var n [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return time.Time{}, false
		}
		n[i] = v
	}
	year, month, day := n[0], n[1], n[2]
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day {
		// 31 de febrero y similares
		return time.Time{}, false
	}
	return t, true
}

func StartOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func EndOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), time.UTC)
}

// MaxDays caps the buckets Days returns.
const MaxDays = 731

// Days lists every calendar day touched by a bounded interval, keeping only the
// last MaxDays of very long windows.
func Days(iv models.Interval) []time.Time {
	if !iv.Bounded() || iv.Start.After(iv.End) {
		return nil
	}
	start, last := StartOfDay(iv.Start), StartOfDay(iv.End)
	if first := last.AddDate(0, 0, -(MaxDays - 1)); start.Before(first) {
		start = first
	}
	var out []time.Time
	for cur := start; !cur.After(last); cur = cur.AddDate(0, 0, 1) {
		out = append(out, cur)
	}
	return out
}
