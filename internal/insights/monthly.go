package insights

import (
	"time"

	"customer-analytics/internal/dataset"
)

const MonthLayout = "2006-01"

type MonthCount struct {
	Month time.Time `json:"month"`
	Count int       `json:"count"`
}

func (m MonthCount) Label() string {
	return m.Month.Format(MonthLayout)
}

// monthlyCounts buckets orders by purchase month, including empty months
// between the first and last observed month.
func monthlyCounts(orders []dataset.Order) []MonthCount {
	counts := make(map[time.Time]int)
	var first, last time.Time
	for _, o := range orders {
		if o.PurchasedAt == nil {
			continue
		}
		m := monthStart(*o.PurchasedAt)
		if len(counts) == 0 || m.Before(first) {
			first = m
		}
		if len(counts) == 0 || m.After(last) {
			last = m
		}
		counts[m]++
	}
	if len(counts) == 0 {
		return nil
	}

	var out []MonthCount
	for m := first; !m.After(last); m = m.AddDate(0, 1, 0) {
		out = append(out, MonthCount{Month: m, Count: counts[m]})
	}
	return out
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
