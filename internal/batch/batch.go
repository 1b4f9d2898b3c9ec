// Package batch analyzes many resolutions concurrently and summarizes them.
package batch

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/straja-ai/resocheck/internal/analyzer"
)

// Item pairs an input line with its analysis.
type Item struct {
	Index  int             `json:"index"`
	Text   string          `json:"text"`
	Result analyzer.Result `json:"result"`
}

// Analyze runs analyzer.Analyze over texts with at most workers goroutines.
// Results keep the input order.
func Analyze(ctx context.Context, texts []string, workers int) ([]Item, error) {
	if workers < 1 {
		workers = 1
	}
	items := make([]Item, len(texts))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, text := range texts {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			items[i] = Item{Index: i, Text: text, Result: analyzer.Analyze(text)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}

// ReadLines returns one resolution per non-blank line, skipping # comments.
func ReadLines(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read resolutions: %w", err)
	}
	return out, nil
}
