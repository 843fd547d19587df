package benchmarks

import (
	"context"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/comalice/spaceteam/internal/core"
	"github.com/comalice/spaceteam/internal/primitives"
	"github.com/comalice/spaceteam/internal/radio"
)

// BenchmarkEngineFootprint measures what one board costs to build and start.
func BenchmarkEngineFootprint(b *testing.B) {
	cfg := primitives.DefaultBoardConfig(1)
	ctx := context.Background()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		eng, err := core.NewEngine(cfg, core.WithLogger(quiet), core.WithRadio(radio.NewStub()))
		if err != nil {
			b.Fatal(err)
		}
		if err := eng.Start(ctx); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSnapshotYAML(b *testing.B) {
	data := GenSnapshotYAML(4, 500)
	b.SetBytes(int64(len(data)))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var snap core.Snapshot
		if err := yaml.Unmarshal(data, &snap); err != nil {
			b.Fatal(err)
		}
		if _, err := yaml.Marshal(snap); err != nil {
			b.Fatal(err)
		}
	}
}
