package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/straja-ai/resocheck/internal/batch"
)

const (
	formatTable    = "table"
	formatJSON     = "json"
	formatMarkdown = "markdown"
	formatPretty   = "pretty"
)

func newBatchCmd(a *app) *cobra.Command {
	var (
		format  string
		workers int
	)

	cmd := &cobra.Command{
		Use:   "batch FILE|-",
		Short: "Assess one resolution per line",
		Long: `Assess every non-empty line of FILE (or stdin for "-"). Lines starting
with # are ignored.

Formats: table (default), json, markdown, pretty (markdown rendered for the terminal).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			texts, err := batch.ReadLines(in)
			if err != nil {
				return err
			}
			if workers <= 0 {
				workers = a.cfg.Batch.Workers
			}

			items, err := batch.Analyze(cmd.Context(), texts, workers)
			if err != nil {
				return err
			}
			summary := batch.Summarize(items)
			a.logger.Debug("batch complete",
				zap.Int("items", summary.Total),
				zap.Int("workers", workers),
				zap.Float64("mean_score", summary.MeanScore))

			return writeBatch(cmd.OutOrStdout(), format, items, summary)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "output format: table|json|markdown|pretty")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "number of concurrent workers (default from config)")
	return cmd
}

func writeBatch(w io.Writer, format string, items []batch.Item, s batch.Summary) error {
	switch format {
	case formatTable:
		fmt.Fprintln(w, batchTable(items))
		fmt.Fprintf(w, "%d resolutions, mean score %.2f (min %d, max %d)\n", s.Total, s.MeanScore, s.MinScore, s.MaxScore)
		return nil
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Items   []batch.Item  `json:"items"`
			Summary batch.Summary `json:"summary"`
		}{items, s})
	case formatMarkdown:
		_, err := io.WriteString(w, batch.Markdown(items, s))
		return err
	case formatPretty:
		r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
		if err != nil {
			return fmt.Errorf("markdown renderer: %w", err)
		}
		out, err := r.Render(batch.Markdown(items, s))
		if err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		_, err = io.WriteString(w, out)
		return err
	default:
		return fmt.Errorf("unknown format %q (want table, json, markdown or pretty)", format)
	}
}

func batchTable(items []batch.Item) string {
	styles := cliStyles()
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styles.border).
		Headers("#", "VERDICT", "SCORE", "RESOLUTION").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styles.header
			}
			return styles.cell
		})
	for _, it := range items {
		t.Row(strconv.Itoa(it.Index+1), string(it.Result.Verdict), strconv.Itoa(it.Result.Score), truncate(it.Text, 60))
	}
	return t.String()
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

type styles struct {
	border lipgloss.Style
	header lipgloss.Style
	cell   lipgloss.Style
}

func cliStyles() styles {
	return styles{
		border: lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")),
		header: lipgloss.NewStyle().Bold(true).Padding(0, 1),
		cell:   lipgloss.NewStyle().Padding(0, 1),
	}
}
