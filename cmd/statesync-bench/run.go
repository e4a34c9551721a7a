package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/statesync/pkg/reactive"
	"github.com/vango-dev/statesync/pkg/statesync"
)

// profile is a named workload shape.
type profile struct {
	Name     string
	Mappings int
	Flushes  int
	Deep     bool
}

var profiles = map[string]profile{
	"fast": {
		Name:     "fast",
		Mappings: 20,
		Flushes:  1_000,
	},
	"standard": {
		Name:     "standard",
		Mappings: 100,
		Flushes:  10_000,
	},
	"stress": {
		Name:     "stress",
		Mappings: 500,
		Flushes:  20_000,
		Deep:     true,
	},
}

func runCmd() *cobra.Command {
	var (
		profileName string
		mappings    int
		flushes     int
		deep        bool
		verbose     bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute a synthetic workload and report throughput",
		RunE: func(cmd *cobra.Command, args []string) error {
			prof, ok := profiles[profileName]
			if !ok {
				return fmt.Errorf("unknown profile %q (have: fast, standard, stress)", profileName)
			}
			if cmd.Flags().Changed("mappings") {
				prof.Mappings = mappings
			}
			if cmd.Flags().Changed("flushes") {
				prof.Flushes = flushes
			}
			if cmd.Flags().Changed("deep") {
				prof.Deep = deep
			}

			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			logger := newLogger(level)

			stats := runWorkload(logger, prof)
			reportStats(prof, stats)
			return nil
		},
	}

	cmd.Flags().StringVarP(&profileName, "profile", "p", "standard", "workload profile: fast, standard, stress")
	cmd.Flags().IntVar(&mappings, "mappings", 0, "override mapping count")
	cmd.Flags().IntVar(&flushes, "flushes", 0, "override flush count")
	cmd.Flags().BoolVar(&deep, "deep", false, "use deep change detection")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	return cmd
}

// workload is one running synthetic scenario: a source with N items, one
// mapping per item value.
type workload struct {
	source  map[string]any
	items   []any
	cells   []*reactive.Signal[any]
	handle  *statesync.Handle
	counter int
}

type workloadStats struct {
	Elapsed time.Duration
	Applied uint64
	Skipped uint64
}

// newWorkload builds the source, targets, and engine.
func newWorkload(logger *slog.Logger, prof profile, opts ...statesync.Option) *workload {
	items := make([]any, prof.Mappings)
	cells := make([]*reactive.Signal[any], prof.Mappings)
	mappings := make([]statesync.Mapping, prof.Mappings)

	for i := range items {
		items[i] = map[string]any{"value": 0, "label": fmt.Sprintf("item-%d", i)}
		cells[i] = reactive.NewCell(nil)
		mappings[i] = statesync.Mapping{
			Path:   fmt.Sprintf("items[%d].value", i),
			Target: cells[i],
		}
	}
	source := map[string]any{"items": items}

	engineOpts := append([]statesync.Option{statesync.WithLogger(logger)}, opts...)
	if prof.Deep {
		engineOpts = append(engineOpts, statesync.DeepCompare())
	}

	return &workload{
		source: source,
		items:  items,
		cells:  cells,
		handle: statesync.Synchronize(source, mappings, engineOpts...),
	}
}

// flush mutates every item and delivers the change as one batch.
func (w *workload) flush() {
	w.counter++
	reactive.Batch(func() {
		for _, it := range w.items {
			it.(map[string]any)["value"] = w.counter
		}
		w.handle.Refresh()
	})
}

func runWorkload(logger *slog.Logger, prof profile) workloadStats {
	w := newWorkload(logger, prof)
	defer w.handle.Stop()

	start := time.Now()
	for f := 0; f < prof.Flushes; f++ {
		w.flush()
	}
	elapsed := time.Since(start)

	var stats workloadStats
	stats.Elapsed = elapsed
	for _, st := range w.handle.Snapshot() {
		switch st.LastResult {
		case statesync.ResultApplied:
			stats.Applied += st.Updates
		default:
			stats.Skipped += st.Updates
		}
	}
	return stats
}

func reportStats(prof profile, stats workloadStats) {
	total := prof.Mappings * prof.Flushes
	rate := float64(total) / stats.Elapsed.Seconds()

	fmt.Printf("profile:   %s\n", prof.Name)
	fmt.Printf("mappings:  %d\n", prof.Mappings)
	fmt.Printf("flushes:   %d\n", prof.Flushes)
	fmt.Printf("deep:      %v\n", prof.Deep)
	fmt.Printf("elapsed:   %s\n", stats.Elapsed.Round(time.Millisecond))
	fmt.Printf("applied:   %d\n", stats.Applied)
	fmt.Printf("skipped:   %d\n", stats.Skipped)
	fmt.Printf("updates/s: %.0f\n", rate)
}
