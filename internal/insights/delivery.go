package insights

import (
	"customer-analytics/internal/dataset"

	"github.com/HdrHistogram/hdrhistogram-go"
	"gonum.org/v1/gonum/stat"
)

const (
	minutesPerDay = 24 * 60
	// One year of delivery time at minute resolution.
	maxDeliveryMinutes = 365 * minutesPerDay
)

// DeliveryStats summarizes delivery_time over delivered orders and the share
// of late deliveries among orders with a known delay.
type DeliveryStats struct {
	Delivered int     `json:"delivered"`
	MeanDays  float64 `json:"mean_days"`
	P50Days   float64 `json:"p50_days"`
	P95Days   float64 `json:"p95_days"`
	MaxDays   float64 `json:"max_days"`
	WithDelay int     `json:"with_delay"`
	Late      int     `json:"late"`
	LateShare float64 `json:"late_share"`
}

func deliveryStats(orders []dataset.Order) DeliveryStats {
	var stats DeliveryStats
	hist := hdrhistogram.New(1, maxDeliveryMinutes, 3)

	var days []float64
	for _, o := range orders {
		if o.DelayDays != nil {
			stats.WithDelay++
			if *o.DelayDays > 0 {
				stats.Late++
			}
		}
		d, ok := o.ValidDeliveryDays()
		if !ok {
			continue
		}
		minutes := int64(d*minutesPerDay + 0.5)
		if minutes < 1 {
			minutes = 1
		}
		if minutes > maxDeliveryMinutes {
			minutes = maxDeliveryMinutes
		}
		if err := hist.RecordValue(minutes); err != nil {
			continue
		}
		days = append(days, d)
	}

	stats.Delivered = len(days)
	if stats.Delivered > 0 {
		stats.MeanDays = stat.Mean(days, nil)
		stats.P50Days = float64(hist.ValueAtQuantile(50)) / minutesPerDay
		stats.P95Days = float64(hist.ValueAtQuantile(95)) / minutesPerDay
		stats.MaxDays = float64(hist.Max()) / minutesPerDay
	}
	if stats.WithDelay > 0 {
		stats.LateShare = float64(stats.Late) / float64(stats.WithDelay)
	}
	return stats
}
