package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/straja-ai/resocheck/internal/analyzer"
	"github.com/straja-ai/resocheck/internal/share"
	"github.com/straja-ai/resocheck/internal/tui"
	"github.com/straja-ai/resocheck/internal/watch"
)

type checkOptions struct {
	json      bool
	explain   bool
	share     bool
	watchPath string
	link      string
	failOn    string
}

type checkOutput struct {
	analyzer.Result
	ShareURL string           `json:"share_url,omitempty"`
	Explain  *analyzer.Report `json:"explain,omitempty"`
}

func newCheckCmd(a *app) *cobra.Command {
	var opts checkOptions

	cmd := &cobra.Command{
		Use:   "check [resolution...]",
		Short: "Assess a resolution",
		Long: `Assess a resolution given as arguments, or read from stdin when no
arguments are given.

Examples:
  resocheck check "Run 3x/week for 30 minutes"
  echo "get fit" | resocheck check --json
  resocheck check --watch resolution.txt
  resocheck check --link "http://localhost:8080/?q=get+fit"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var failOn analyzer.Verdict
			if opts.failOn != "" {
				v, err := analyzer.ParseVerdict(opts.failOn)
				if err != nil {
					return err
				}
				failOn = v
			}

			if opts.watchPath != "" {
				return a.watchFile(cmd, opts)
			}

			text := strings.Join(args, " ")
			switch {
			case opts.link != "":
				t, err := share.FromURL(opts.link)
				if err != nil {
					return err
				}
				text = t
			case len(args) == 0:
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				text = string(data)
			}

			report := analyzer.Explain(text)
			if err := a.printCheck(cmd.OutOrStdout(), opts, text, report); err != nil {
				return err
			}

			if failOn != "" && report.Result.Verdict.Severity() >= failOn.Severity() {
				return exitError{code: 2}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.json, "json", false, "print the result as JSON")
	cmd.Flags().BoolVar(&opts.explain, "explain", false, "show which rules fired")
	cmd.Flags().BoolVar(&opts.share, "share", false, "print a share link")
	cmd.Flags().StringVar(&opts.watchPath, "watch", "", "re-assess FILE every time it is saved")
	cmd.Flags().StringVar(&opts.link, "link", "", "assess the resolution carried by a share link")
	cmd.Flags().StringVar(&opts.failOn, "fail-on", "", "exit 2 when the verdict is at least this bad (optimistic|delusional)")
	return cmd
}

func (a *app) printCheck(w io.Writer, opts checkOptions, text string, report analyzer.Report) error {
	var link string
	if opts.share {
		l, err := share.Link(a.cfg.Server.PublicBaseURL, text)
		if err != nil {
			return err
		}
		link = l
	}

	if opts.json {
		out := checkOutput{Result: report.Result, ShareURL: link}
		if opts.explain {
			out.Explain = &report
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Fprint(w, tui.RenderResult(tui.DefaultStyles(), report.Result))
	if opts.explain {
		fmt.Fprint(w, renderReport(report))
	}
	if link != "" {
		fmt.Fprintf(w, "Share: %s\n", link)
	}
	return nil
}

func renderReport(r analyzer.Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\nPath: %s\n", r.Path)
	switch r.Path {
	case analyzer.PathHardFlag:
		fmt.Fprintf(&b, "Hard flag: %s\n", r.HardFlag)
	case analyzer.PathScored:
		fmt.Fprintf(&b, "Baseline: %d\n", r.Baseline)
		for _, h := range r.Hits {
			fmt.Fprintf(&b, "  %+4d  %s\n", h.Delta, h.RuleID)
		}
		fmt.Fprintf(&b, "Raw score: %d\n", r.RawScore)
	}
	return b.String()
}

func (a *app) watchFile(cmd *cobra.Command, opts checkOptions) error {
	w, err := watch.New(opts.watchPath, 200*time.Millisecond, a.logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	return w.Run(ctx, func(u watch.Update) {
		if !opts.json {
			fmt.Fprintf(out, "\n── %s ──\n", u.Path)
		}
		if err := a.printCheck(out, opts, u.Text, analyzer.Explain(u.Text)); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
		}
	})
}
