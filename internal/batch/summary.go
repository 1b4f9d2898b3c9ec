package batch

import (
	"fmt"
	"strings"

	"github.com/straja-ai/resocheck/internal/analyzer"
)

// Summary aggregates a batch.
type Summary struct {
	Total     int                      `json:"total"`
	ByVerdict map[analyzer.Verdict]int `json:"by_verdict"`
	MeanScore float64                  `json:"mean_score"`
	MinScore  int                      `json:"min_score"`
	MaxScore  int                      `json:"max_score"`
}

// Summarize counts verdicts and score statistics. An empty batch has zero stats.
func Summarize(items []Item) Summary {
	s := Summary{ByVerdict: make(map[analyzer.Verdict]int, len(analyzer.Verdicts))}
	for _, v := range analyzer.Verdicts {
		s.ByVerdict[v] = 0
	}
	if len(items) == 0 {
		return s
	}

	s.Total = len(items)
	s.MinScore = items[0].Result.Score
	s.MaxScore = items[0].Result.Score
	sum := 0
	for _, it := range items {
		score := it.Result.Score
		s.ByVerdict[it.Result.Verdict]++
		sum += score
		if score < s.MinScore {
			s.MinScore = score
		}
		if score > s.MaxScore {
			s.MaxScore = score
		}
	}
	s.MeanScore = float64(sum) / float64(len(items))
	return s
}

// Markdown renders items and their summary as a markdown report.
func Markdown(items []Item, s Summary) string {
	var b strings.Builder
	b.WriteString("# Resolution reality check\n\n")
	fmt.Fprintf(&b, "%d resolutions · mean score %.1f · range %d–%d\n\n", s.Total, s.MeanScore, s.MinScore, s.MaxScore)
	for _, v := range analyzer.Verdicts {
		fmt.Fprintf(&b, "- **%s**: %d\n", v.Tag(), s.ByVerdict[v])
	}
	b.WriteString("\n| # | Resolution | Verdict | Score |\n|---|---|---|---|\n")
	for _, it := range items {
		fmt.Fprintf(&b, "| %d | %s | %s | %d |\n", it.Index+1, escapeCell(it.Text), it.Result.Verdict, it.Result.Score)
	}
	return b.String()
}

func escapeCell(s string) string {
	return strings.NewReplacer("|", `\|`, "\n", " ").Replace(s)
}
