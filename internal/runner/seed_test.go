package runner

import (
	"context"
	"path/filepath"
	"testing"

	"customer-analytics/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSeedSQLiteMatchesCSV(t *testing.T) {
	cfg := fixtureConfig(t)
	cfg.Databases.SQLite = filepath.Join(t.TempDir(), "olist.db")

	require.NoError(t, Seed(context.Background(), cfg, zap.NewNop(), config.SourceSQLite))

	fromCSV := NewState(cfg, zap.NewNop())
	require.NoError(t, Run(context.Background(), fromCSV))

	sqliteCfg := *cfg
	sqliteCfg.Datasets.Source = config.SourceSQLite
	fromDB := NewState(&sqliteCfg, zap.NewNop())
	require.NoError(t, Run(context.Background(), fromDB))

	assert.Equal(t, fromCSV.Insights.Summary.TotalCustomers, fromDB.Insights.Summary.TotalCustomers)
	assert.Equal(t, fromCSV.Insights.Summary.TotalOrders, fromDB.Insights.Summary.TotalOrders)
	assert.True(t, fromCSV.Insights.Summary.AverageOrderValue.Equal(fromDB.Insights.Summary.AverageOrderValue))
	assert.Equal(t, fromCSV.Insights.Monthly, fromDB.Insights.Monthly)
	assert.Len(t, fromDB.Processed.Joined, len(fromCSV.Processed.Joined))
	assert.InDelta(t, fromCSV.ABTest.TStatistic, fromDB.ABTest.TStatistic, 1e-9)
}

func TestSeedRejectsCSVTarget(t *testing.T) {
	assert.Error(t, Seed(context.Background(), fixtureConfig(t), zap.NewNop(), config.SourceCSV))
}

func TestProject(t *testing.T) {
	got := project([][]string{
		{"review_id", "order_id", "review_score", "review_comment_title"},
		{"r1", "o1", "5", "ok"},
	}, []string{"order_id", "review_score", "review_answer_timestamp"})

	assert.Equal(t, [][]string{
		{"order_id", "review_score", "review_answer_timestamp"},
		{"o1", "5", ""},
	}, got)
}
