package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/straja-ai/resocheck/internal/analyzer"
	"github.com/straja-ai/resocheck/internal/batch"
	"github.com/straja-ai/resocheck/internal/redact"
	"github.com/straja-ai/resocheck/internal/share"
)

type analyzeRequest struct {
	Text string `json:"text"`
}

type analyzeResponse struct {
	Result    analyzer.Result  `json:"result"`
	ShareURL  string           `json:"share_url,omitempty"`
	RequestID string           `json:"request_id"`
	Explain   *analyzer.Report `json:"explain,omitempty"`
}

type batchRequest struct {
	Texts []string `json:"texts"`
}

type batchResponse struct {
	Items     []batch.Item  `json:"items"`
	Summary   batch.Summary `json:"summary"`
	RequestID string        `json:"request_id"`
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

var errBodyTooLarge = errors.New("request body too large")

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var text string
	switch r.Method {
	case http.MethodGet:
		text = share.FromQuery(r.URL.Query())
	case http.MethodPost:
		var req analyzeRequest
		if err := s.decodeJSON(w, r, &req); err != nil {
			s.writeDecodeError(w, err)
			return
		}
		text = req.Text
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "invalid_request_error")
		return
	}

	if err := s.checkInput(text); err != nil {
		writeError(w, http.StatusBadRequest, err.Error(), "invalid_request_error")
		return
	}

	ctx := r.Context()
	rep := analyzer.Explain(text)
	s.observe(ctx, text, rep)

	resp := analyzeResponse{
		Result:    rep.Result,
		RequestID: requestIDFrom(ctx),
	}
	if link, err := share.Link(s.cfg.Server.PublicBaseURL, text); err == nil {
		resp.ShareURL = link
	} else {
		s.logger.Warn("build share link", zap.Error(err))
	}
	if isTruthy(r.URL.Query().Get("explain")) {
		resp.Explain = &rep
	}
	writeJSON(w, http.StatusOK, resp, s.logger)
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "invalid_request_error")
		return
	}

	var req batchRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeDecodeError(w, err)
		return
	}
	if len(req.Texts) == 0 {
		writeError(w, http.StatusBadRequest, "texts must not be empty", "invalid_request_error")
		return
	}
	if len(req.Texts) > s.cfg.Server.MaxBatchItems {
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("too many texts: %d > %d", len(req.Texts), s.cfg.Server.MaxBatchItems),
			"invalid_request_error")
		return
	}
	for i, text := range req.Texts {
		if err := s.checkInput(text); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("texts[%d]: %v", i, err), "invalid_request_error")
			return
		}
	}

	ctx := r.Context()
	items, err := batch.Analyze(ctx, req.Texts, s.cfg.Batch.Workers)
	if err != nil {
		s.logger.Warn("batch aborted", zap.String("request_id", requestIDFrom(ctx)), zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "batch aborted", "server_error")
		return
	}
	for _, it := range items {
		s.telemetry.RecordAnalysis(ctx, it.Result.Verdict.String(), "batch", it.Result.Score)
	}

	summary := batch.Summarize(items)
	s.logger.Info("batch analysis",
		zap.String("request_id", requestIDFrom(ctx)),
		zap.Int("items", summary.Total),
		zap.Float64("mean_score", summary.MeanScore))

	writeJSON(w, http.StatusOK, batchResponse{
		Items:     items,
		Summary:   summary,
		RequestID: requestIDFrom(ctx),
	}, s.logger)
}

func (s *Server) handleRules(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", "invalid_request_error")
		return
	}
	writeJSON(w, http.StatusOK, analyzer.RuleSet(), s.logger)
}

// analyzePage is used by the console page for prefilled requests.
func (s *Server) analyzePage(ctx context.Context, text string) analyzer.Result {
	if s.checkInput(text) != nil {
		text = truncateRunes(text, s.cfg.Server.MaxInputChars)
	}
	rep := analyzer.Explain(text)
	s.observe(ctx, text, rep)
	return rep.Result
}

func (s *Server) observe(ctx context.Context, text string, rep analyzer.Report) {
	s.telemetry.RecordAnalysis(ctx, rep.Result.Verdict.String(), string(rep.Path), rep.Result.Score)

	fields := []zap.Field{
		zap.String("request_id", requestIDFrom(ctx)),
		zap.String("verdict", rep.Result.Verdict.String()),
		zap.Int("score", rep.Result.Score),
		zap.String("path", string(rep.Path)),
	}
	if rep.HardFlag != "" {
		fields = append(fields, zap.String("hard_flag", rep.HardFlag))
	}
	if p := redact.Preview(s.preview, text, maxPreviewRunes); p != "" {
		fields = append(fields, zap.String("input_preview", p))
	}
	s.logger.Info("analysis", fields...)
}

func (s *Server) checkInput(text string) error {
	if n := utf8.RuneCountInString(text); n > s.cfg.Server.MaxInputChars {
		return fmt.Errorf("text too long: %d > %d characters", n, s.cfg.Server.MaxInputChars)
	}
	return nil
}

func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxRequestBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errBodyTooLarge
		}
		return err
	}
	if _, err := io.Copy(io.Discard, body); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errBodyTooLarge
		}
	}
	return nil
}

func (s *Server) writeDecodeError(w http.ResponseWriter, err error) {
	if errors.Is(err, errBodyTooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, "request body too large", "invalid_request_error")
		return
	}
	writeError(w, http.StatusBadRequest, "invalid JSON body", "invalid_request_error")
}

// writeError writes a JSON error body.
func writeError(w http.ResponseWriter, status int, message, typ string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{
		Error: errorDetail{
			Message: message,
			Type:    typ,
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("failed to write response", zap.Error(err))
	}
}

func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
