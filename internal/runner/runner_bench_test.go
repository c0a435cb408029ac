package runner

import (
	"context"
	"io"
	"testing"

	"go.uber.org/zap"
)

func BenchmarkRunner(b *testing.B) {
	cfg := fixtureConfig(b)

	for i := 0; i < b.N; i++ {
		state := NewState(cfg, zap.NewNop())
		if err := Run(context.Background(), state); err != nil {
			b.Fatalf("Pipeline failed: %v", err)
		}
		if err := Report(state, io.Discard); err != nil {
			b.Fatalf("Report failed: %v", err)
		}
	}
}
