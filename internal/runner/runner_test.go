package runner

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"customer-analytics/internal/abtest"
	"customer-analytics/internal/config"
	"customer-analytics/internal/insights"
	"customer-analytics/internal/loader"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func fixtureConfig(t testing.TB) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Datasets.BaseURL = filepath.Join("..", "..", "testdata", "olist")
	cfg.Datasets.Orders = "orders.csv"
	cfg.Datasets.OrderItems = "order_items.csv"
	cfg.Datasets.Products = "products.csv"
	cfg.Datasets.Customers = "customers.csv"
	cfg.Datasets.Reviews = "reviews.csv"

	dir := t.TempDir()
	cfg.Output.Dashboard = filepath.Join(dir, "dashboard.html")
	cfg.Output.PDF = filepath.Join(dir, "summary.pdf")
	cfg.Output.JSON = filepath.Join(dir, "metrics.json")
	return cfg
}

func TestRunAndReport(t *testing.T) {
	cfg := fixtureConfig(t)
	cfg.Analysis.Variance = config.VariancePooled

	state := NewState(cfg, zap.NewNop())
	require.NoError(t, Run(context.Background(), state))

	assert.NotEmpty(t, state.RunID)
	assert.Len(t, state.Processed.Joined, 7)
	assert.Len(t, state.Processed.Issues, 1)
	require.NotNil(t, state.Insights)
	require.NotNil(t, state.ABTest)
	assert.NoError(t, state.ABTestErr)

	var out bytes.Buffer
	require.NoError(t, Report(state, &out))

	assert.Contains(t, out.String(), "Total Customers: 8\n")
	assert.Contains(t, out.String(), "Average Order Value: $28.60\n")
	assert.Contains(t, out.String(), "Average Satisfaction Score: 3.62/5.0\n")
	assert.Contains(t, out.String(), "Top Performing Category: esporte_lazer\n")
	assert.Contains(t, out.String(), "t-statistic: 4.0000\n")
	assert.Contains(t, out.String(), "p-value: 0.0161\n")
	assert.Contains(t, out.String(), "Significant Difference: Yes\n")

	for _, path := range []string{cfg.Output.Dashboard, cfg.Output.PDF, cfg.Output.JSON} {
		info, err := os.Stat(path)
		require.NoError(t, err, path)
		assert.NotZero(t, info.Size(), path)
	}
}

func TestRunLoadFailure(t *testing.T) {
	cfg := fixtureConfig(t)
	cfg.Datasets.BaseURL = t.TempDir()

	err := Run(context.Background(), NewState(cfg, zap.NewNop()))
	require.Error(t, err)

	var unavailable *loader.DataUnavailableError
	assert.True(t, errors.As(err, &unavailable))
	assert.Contains(t, err.Error(), "load:")
}

func TestRunEmptyJoinIsFatal(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"orders.csv":      "order_id,customer_id,order_purchase_timestamp,order_approved_at,order_delivered_carrier_date,order_delivered_customer_date,order_estimated_delivery_date\no1,c1,2018-01-01 00:00:00,,,2018-01-02 00:00:00,\n",
		"order_items.csv": "order_id,product_id,price\no1,p1,10.00\n",
		"products.csv":    "product_id,product_category_name\np1,a\n",
		"customers.csv":   "customer_id\nc1\n",
		"reviews.csv":     "review_id,order_id,review_score\n",
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	cfg := fixtureConfig(t)
	cfg.Datasets.BaseURL = dir

	err := Run(context.Background(), NewState(cfg, zap.NewNop()))
	assert.True(t, errors.Is(err, insights.ErrEmptyJoinResult))
}

func TestABTestFailureIsNotFatal(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"orders.csv":      "order_id,customer_id,order_purchase_timestamp,order_approved_at,order_delivered_carrier_date,order_delivered_customer_date,order_estimated_delivery_date\no1,c1,2018-01-01 00:00:00,,,2018-01-02 00:00:00,\n",
		"order_items.csv": "order_id,product_id,price\no1,p1,10.00\n",
		"products.csv":    "product_id,product_category_name\np1,a\n",
		"customers.csv":   "customer_id\nc1\n",
		"reviews.csv":     "review_id,order_id,review_score\nr1,o1,5\n",
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	cfg := fixtureConfig(t)
	cfg.Datasets.BaseURL = dir

	state := NewState(cfg, zap.NewNop())
	require.NoError(t, Run(context.Background(), state))

	var insufficient *abtest.InsufficientSampleError
	require.True(t, errors.As(state.ABTestErr, &insufficient))
	assert.Nil(t, state.ABTest)

	var out bytes.Buffer
	require.NoError(t, Report(state, &out))
	assert.Contains(t, out.String(), "A/B test could not be run")
}
