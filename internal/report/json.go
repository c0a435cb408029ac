package report

import (
	"encoding/json"
	"math"
	"os"
	"strconv"
	"time"

	"customer-analytics/internal/abtest"
	"customer-analytics/internal/insights"
)

// Metrics is the machine-readable output of a run.
type Metrics struct {
	RunID       string             `json:"run_id"`
	GeneratedAt time.Time          `json:"generated_at"`
	Insights    *insights.Insights `json:"insights"`
	ABTest      *abTestJSON        `json:"ab_test,omitempty"`
	ABTestError string             `json:"ab_test_error,omitempty"`
}

// float renders NaN and infinities as null.
type float float64

func (f float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(v, 'g', -1, 64)), nil
}

type abTestJSON struct {
	TestMetric       string `json:"test_metric"`
	TStatistic       float  `json:"t_statistic"`
	PValue           float  `json:"p_value"`
	Significant      bool   `json:"significant"`
	Variance         string `json:"variance"`
	DegreesOfFreedom float  `json:"degrees_of_freedom"`
	MedianDays       float  `json:"median_delivery_days"`
	GroupASize       int    `json:"group_a_size"`
	GroupBSize       int    `json:"group_b_size"`
	GroupAMean       float  `json:"group_a_mean"`
	GroupBMean       float  `json:"group_b_mean"`
}

func NewMetrics(runID string, generatedAt time.Time, ins *insights.Insights, ab *abtest.Result, abErr error) *Metrics {
	m := &Metrics{RunID: runID, GeneratedAt: generatedAt.UTC(), Insights: ins}
	if abErr != nil {
		m.ABTestError = abErr.Error()
	}
	if ab != nil {
		m.ABTest = &abTestJSON{
			TestMetric:       ab.TestMetric,
			TStatistic:       float(ab.TStatistic),
			PValue:           float(ab.PValue),
			Significant:      ab.Significant,
			Variance:         ab.Variance,
			DegreesOfFreedom: float(ab.DegreesOfFreedom),
			MedianDays:       float(ab.MedianDays),
			GroupASize:       ab.GroupASize,
			GroupBSize:       ab.GroupBSize,
			GroupAMean:       float(ab.GroupAMean),
			GroupBMean:       float(ab.GroupBMean),
		}
	}
	return m
}

func SaveJSON(path string, m *Metrics) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
