// Package console serves the single-page resolution checker.
package console

import (
	"bytes"
	"context"
	_ "embed"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/straja-ai/resocheck/internal/analyzer"
	"github.com/straja-ai/resocheck/internal/share"
)

const (
	RobotsTagHeader = "X-Robots-Tag"
	RobotsTagValue  = "noindex, nofollow"
)

//go:embed console.html
var consoleHTML string

var pageTemplate = template.Must(template.New("console").Parse(consoleHTML))

// Options configures the page handler.
type Options struct {
	// Action is the path the form submits to.
	Action string
	// ShareBaseURL is the absolute URL share links are built from.
	ShareBaseURL string
	// Analyze is called for prefilled requests; defaults to analyzer.Analyze.
	Analyze func(context.Context, string) analyzer.Result
	Logger  *zap.Logger
}

type pageData struct {
	Action   string
	Input    string
	ShareURL string
	Result   *analyzer.Result
}

// Handler renders the page. A ?q= parameter prefills the input and renders its verdict.
func Handler(opts Options) http.Handler {
	if opts.Action == "" {
		opts.Action = "/"
	}
	if opts.Analyze == nil {
		opts.Analyze = func(_ context.Context, text string) analyzer.Result {
			return analyzer.Analyze(text)
		}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(RobotsTagHeader, RobotsTagValue)
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		input := share.FromQuery(r.URL.Query())
		data := pageData{Action: opts.Action, Input: input}
		if link, err := share.Link(opts.ShareBaseURL, input); err == nil {
			data.ShareURL = link
		}
		if input != "" {
			res := opts.Analyze(r.Context(), input)
			data.Result = &res
		}

		var buf bytes.Buffer
		if err := pageTemplate.Execute(&buf, data); err != nil {
			opts.Logger.Error("render console page", zap.Error(err))
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write(buf.Bytes())
	})
}
