package abtest

import (
	"fmt"
	"math"
	"sort"

	"customer-analytics/internal/config"
	"customer-analytics/internal/dataset"
	"customer-analytics/internal/processor"

	"gonum.org/v1/gonum/stat"
)

// InsufficientSampleError is returned when either group has fewer than two
// observations.
type InsufficientSampleError struct {
	GroupA int
	GroupB int
}

func (e *InsufficientSampleError) Error() string {
	return fmt.Sprintf("insufficient sample for t-test: group A has %d observations, group B has %d", e.GroupA, e.GroupB)
}

type Options struct {
	TestMetric        string
	SignificanceLevel float64
	Variance          string
}

func OptionsFromConfig(a config.Analysis) Options {
	return Options{
		TestMetric:        a.TestMetric,
		SignificanceLevel: a.SignificanceLevel,
		Variance:          a.Variance,
	}
}

type Result struct {
	TestMetric       string
	TStatistic       float64
	PValue           float64
	Significant      bool
	Variance         string
	DegreesOfFreedom float64
	MedianDays       float64
	GroupASize       int
	GroupBSize       int
	GroupAMean       float64
	GroupBMean       float64
}

// Run splits review scores at the median delivery time, fast deliveries in
// group A and the rest in group B, and compares the groups with a t-test.
func Run(tables *dataset.Tables, processed *processor.Result, opts Options) (*Result, error) {
	var delivery []float64
	for _, o := range processed.Orders {
		if d, ok := o.ValidDeliveryDays(); ok {
			delivery = append(delivery, d)
		}
	}
	if len(delivery) == 0 {
		return nil, &InsufficientSampleError{}
	}
	median := Median(delivery)

	reviews := make(map[string][]int, len(tables.Reviews))
	for _, r := range tables.Reviews {
		reviews[r.OrderID] = append(reviews[r.OrderID], r.Score)
	}

	var groupA, groupB []float64
	for _, o := range processed.Orders {
		d, ok := o.ValidDeliveryDays()
		if !ok {
			continue
		}
		for _, score := range reviews[o.ID] {
			if d < median {
				groupA = append(groupA, float64(score))
			} else {
				groupB = append(groupB, float64(score))
			}
		}
	}
	if len(groupA) < 2 || len(groupB) < 2 {
		return nil, &InsufficientSampleError{GroupA: len(groupA), GroupB: len(groupB)}
	}

	variance := opts.Variance
	if variance == "" {
		variance = config.VarianceWelch
	}
	t, p, df, err := TTest(groupA, groupB, variance)
	if err != nil {
		return nil, err
	}

	return &Result{
		TestMetric:       opts.TestMetric,
		TStatistic:       t,
		PValue:           p,
		Significant:      !math.IsNaN(p) && p < opts.SignificanceLevel,
		Variance:         variance,
		DegreesOfFreedom: df,
		MedianDays:       median,
		GroupASize:       len(groupA),
		GroupBSize:       len(groupB),
		GroupAMean:       stat.Mean(groupA, nil),
		GroupBMean:       stat.Mean(groupB, nil),
	}, nil
}

// Median returns the middle value, or the midpoint of the two central values
// for an even count. The input is not modified.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}
