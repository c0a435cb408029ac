package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"customer-analytics/internal/abtest"
	"customer-analytics/internal/insights"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleInsights() *insights.Insights {
	return &insights.Insights{
		Summary: insights.Summary{
			TotalCustomers:      99441,
			TotalOrders:         99441,
			AverageOrderValue:   decimal.RequireFromString("120.6537"),
			AverageSatisfaction: 4.0864,
			TopCategory:         "beleza_saude",
		},
		Monthly: []insights.MonthCount{
			{Month: time.Date(2017, 6, 1, 0, 0, 0, 0, time.UTC), Count: 3245},
			{Month: time.Date(2017, 7, 1, 0, 0, 0, 0, time.UTC), Count: 4026},
		},
		TopCategories: []insights.CategorySales{
			{Category: "beleza_saude", Count: 3, Sum: decimal.RequireFromString("55.50"), Mean: decimal.RequireFromString("18.50")},
			{Category: "relogios_presentes", Count: 1, Sum: decimal.RequireFromString("40"), Mean: decimal.RequireFromString("40")},
		},
		Satisfaction: []insights.CategorySatisfaction{
			{Category: "agro_industria_e_comercio", Count: 2, Mean: 4.5},
			{Category: "alimentos", Count: 4, Mean: 3.75},
		},
	}
}

func sampleResult() *abtest.Result {
	return &abtest.Result{
		TestMetric:  "Customer Satisfaction",
		TStatistic:  12.345649,
		PValue:      0.000012,
		Significant: true,
		Variance:    "welch",
		GroupASize:  40000,
		GroupBSize:  41000,
	}
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, sampleInsights(), sampleResult(), nil))

	want := `=== Customer Behavior Analysis Summary ===
Total Customers: 99,441
Total Orders: 99,441
Average Order Value: $120.65
Average Satisfaction Score: 4.09/5.0
Top Performing Category: beleza_saude

=== A/B Test Results ===
Test Metric: Customer Satisfaction
t-statistic: 12.3456
p-value: 0.0000
Significant Difference: Yes
`
	assert.Equal(t, want, buf.String())
}

func TestWriteSummaryWithoutABTest(t *testing.T) {
	var buf bytes.Buffer
	abErr := &abtest.InsufficientSampleError{GroupA: 1, GroupB: 0}
	require.NoError(t, WriteSummary(&buf, sampleInsights(), nil, abErr))

	out := buf.String()
	assert.Contains(t, out, "Top Performing Category: beleza_saude\n")
	assert.Contains(t, out, "A/B test could not be run: insufficient sample")
	assert.NotContains(t, out, "t-statistic")
}

func TestWriteSummaryNotSignificant(t *testing.T) {
	ab := sampleResult()
	ab.PValue = 0.2
	ab.Significant = false

	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, sampleInsights(), ab, nil))
	assert.True(t, strings.HasSuffix(buf.String(), "p-value: 0.2000\nSignificant Difference: No\n"))
}

func TestWriteDashboard(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDashboard(&buf, sampleInsights()))

	html := buf.String()
	for _, s := range []string{
		dashboardTitle,
		"Orders per Month",
		"Top Categories by Total Sales",
		"Average Order Value by Category",
		"Customer Satisfaction by Category",
		"2017-06",
		"relogios_presentes",
		"agro_industria_e_comercio",
	} {
		assert.Contains(t, html, s)
	}
}

func TestSaveDashboard(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dashboard.html")
	require.NoError(t, SaveDashboard(path, sampleInsights()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<html")
}

func TestBuildPDF(t *testing.T) {
	data, err := BuildPDF(sampleInsights(), sampleResult(), nil)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))

	data, err = BuildPDF(sampleInsights(), nil, errors.New("no delivered orders"))
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestSaveJSON(t *testing.T) {
	ab := sampleResult()
	ab.TStatistic = math.NaN()
	ab.PValue = math.NaN()

	path := filepath.Join(t.TempDir(), "metrics.json")
	generated := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, SaveJSON(path, NewMetrics("run-1", generated, sampleInsights(), ab, nil)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "run-1", decoded["run_id"])

	abJSON := decoded["ab_test"].(map[string]interface{})
	assert.Nil(t, abJSON["t_statistic"])
	assert.Equal(t, "Customer Satisfaction", abJSON["test_metric"])

	summary := decoded["insights"].(map[string]interface{})["summary"].(map[string]interface{})
	assert.Equal(t, "120.6537", summary["average_order_value"])
}

func TestNewMetricsRecordsABError(t *testing.T) {
	m := NewMetrics("run-2", time.Now(), sampleInsights(), nil, errors.New("boom"))
	assert.Nil(t, m.ABTest)
	assert.Equal(t, "boom", m.ABTestError)
}
