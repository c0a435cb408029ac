package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"customer-analytics/internal/abtest"
	"customer-analytics/internal/config"
	"customer-analytics/internal/dataset"
	"customer-analytics/internal/insights"
	"customer-analytics/internal/loader"
	"customer-analytics/internal/processor"
	"customer-analytics/internal/report"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// State is the pipeline context handed from stage to stage.
type State struct {
	Config *config.Config
	Logger *zap.Logger
	RunID  string

	Tables    *dataset.Tables
	Processed *processor.Result
	Insights  *insights.Insights
	ABTest    *abtest.Result
	// ABTestErr is set when the A/B test could not run. It does not fail the run.
	ABTestErr error

	Timings Timings
}

type Timings struct {
	Load    time.Duration `json:"load"`
	Process time.Duration `json:"process"`
	Analyze time.Duration `json:"analyze"`
	Report  time.Duration `json:"report"`
}

func NewState(cfg *config.Config, logger *zap.Logger) *State {
	runID := uuid.NewString()
	return &State{
		Config: cfg,
		Logger: logger.With(zap.String("run_id", runID)),
		RunID:  runID,
	}
}

// Run executes load, process and analyze. The two analyses run concurrently.
func Run(ctx context.Context, s *State) error {
	start := time.Now()
	tables, err := loader.New(s.Config, s.Logger).Load(ctx)
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	s.Tables = tables
	s.Timings.Load = time.Since(start)

	start = time.Now()
	s.Processed = processor.Process(s.Tables)
	s.Timings.Process = time.Since(start)
	if n := len(s.Processed.Issues); n > 0 {
		s.Logger.Warn("recovered malformed timestamps", zap.Int("count", n), zap.Error(s.Processed.Issues[0]))
	}
	s.Logger.Info("processed", zap.Int("orders", len(s.Processed.Orders)), zap.Int("joined", len(s.Processed.Joined)))

	start = time.Now()
	err = analyze(ctx, s)
	s.Timings.Analyze = time.Since(start)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}
	return nil
}

func analyze(ctx context.Context, s *State) error {
	g, _ := errgroup.WithContext(ctx)

	g.Go(func() error {
		ins, err := insights.Generate(s.Tables, s.Processed, insights.OptionsFromConfig(s.Config.Analysis))
		if err != nil {
			return err
		}
		s.Insights = ins
		return nil
	})

	g.Go(func() error {
		result, err := abtest.Run(s.Tables, s.Processed, abtest.OptionsFromConfig(s.Config.Analysis))
		if err != nil {
			s.ABTestErr = err
			return nil
		}
		s.ABTest = result
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	if s.ABTestErr != nil {
		var insufficient *abtest.InsufficientSampleError
		if errors.As(s.ABTestErr, &insufficient) {
			s.Logger.Warn("A/B test skipped", zap.Int("group_a", insufficient.GroupA), zap.Int("group_b", insufficient.GroupB))
		} else {
			s.Logger.Warn("A/B test failed", zap.Error(s.ABTestErr))
		}
	}
	return nil
}

// Report prints the summary to out and writes the configured artifacts.
func Report(s *State, out io.Writer) error {
	start := time.Now()
	defer func() { s.Timings.Report = time.Since(start) }()

	if err := report.WriteSummary(out, s.Insights, s.ABTest, s.ABTestErr); err != nil {
		return fmt.Errorf("summary: %w", err)
	}

	output := s.Config.Output
	if err := report.SaveDashboard(output.Dashboard, s.Insights); err != nil {
		return fmt.Errorf("dashboard: %w", err)
	}
	s.Logger.Info("dashboard written", zap.String("path", output.Dashboard))

	if output.PDF != "" {
		if err := report.SavePDF(output.PDF, s.Insights, s.ABTest, s.ABTestErr); err != nil {
			return fmt.Errorf("pdf: %w", err)
		}
		s.Logger.Info("pdf written", zap.String("path", output.PDF))
	}

	if output.JSON != "" {
		metrics := report.NewMetrics(s.RunID, time.Now(), s.Insights, s.ABTest, s.ABTestErr)
		if err := report.SaveJSON(output.JSON, metrics); err != nil {
			return fmt.Errorf("json: %w", err)
		}
		s.Logger.Info("metrics written", zap.String("path", output.JSON))
	}
	return nil
}
