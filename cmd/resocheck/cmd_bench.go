package main

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/straja-ai/resocheck/internal/analyzer"
)

const defaultBenchText = "Run a marathon and learn Spanish in two weeks, 3x/week for 30 minutes"

type benchStats struct {
	N   int
	Avg time.Duration
	P50 time.Duration
	P95 time.Duration
}

func newBenchCmd(_ *app) *cobra.Command {
	var (
		n    int
		text string
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure analysis latency",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats := runBench(n, text)
			printBench(cmd.OutOrStdout(), stats)
			return nil
		},
	}

	cmd.Flags().IntVarP(&n, "iterations", "n", 2000, "number of iterations")
	cmd.Flags().StringVar(&text, "text", defaultBenchText, "resolution text to evaluate")
	return cmd
}

func runBench(n int, text string) benchStats {
	// Warmup
	for i := 0; i < 5; i++ {
		_ = analyzer.Analyze(text)
	}

	if n <= 0 {
		n = 1
	}

	durations := make([]time.Duration, 0, n)
	for i := 0; i < n; i++ {
		start := time.Now()
		_ = analyzer.Analyze(text)
		durations = append(durations, time.Since(start))
	}

	sort.Slice(durations, func(i, j int) bool { return durations[i] < durations[j] })

	var total time.Duration
	for _, d := range durations {
		total += d
	}

	return benchStats{
		N:   len(durations),
		Avg: total / time.Duration(len(durations)),
		P50: durations[len(durations)/2],
		P95: durations[int(float64(len(durations))*0.95)],
	}
}

func printBench(w io.Writer, s benchStats) {
	micros := func(d time.Duration) float64 { return float64(d.Nanoseconds()) / 1000.0 }
	fmt.Fprintf(w, "bench: n=%d avg_us=%.2f p50_us=%.2f p95_us=%.2f rules=%s\n",
		s.N,
		micros(s.Avg),
		micros(s.P50),
		micros(s.P95),
		analyzer.RuleSet(),
	)
}
