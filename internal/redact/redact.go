// Package redact masks personal data in resolution text before it is logged.
package redact

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	emailRe  = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	urlRe    = regexp.MustCompile(`(?i)\bhttps?://[^\s"'<>]+`)
	phoneRe  = regexp.MustCompile(`\+?\d[\d\s().\-]{7,}\d`)
	tokenRe  = regexp.MustCompile(`[A-Za-z0-9_\-]{24,}`)
	handleRe = regexp.MustCompile(`(^|\s)@[A-Za-z0-9_.]{2,}`)
)

// Mode selects how much of a user's input reaches the logs.
type Mode string

const (
	ModeNone     Mode = "none"
	ModeRedacted Mode = "redacted"
	ModeFull     Mode = "full"
)

// ParseMode maps a config value to a Mode; unknown values map to ModeNone.
func ParseMode(s string) Mode {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeRedacted:
		return ModeRedacted
	case ModeFull:
		return ModeFull
	default:
		return ModeNone
	}
}

// String masks emails, URLs, phone numbers, social handles and long tokens.
func String(s string) string {
	if s == "" {
		return s
	}
	out := s
	out = urlRe.ReplaceAllString(out, "[REDACTED_URL]")
	out = emailRe.ReplaceAllString(out, "[REDACTED_EMAIL]")
	out = handleRe.ReplaceAllString(out, "${1}[REDACTED_HANDLE]")
	out = phoneRe.ReplaceAllString(out, "[REDACTED_PHONE]")
	out = tokenRe.ReplaceAllString(out, "[REDACTED_TOKEN]")
	return out
}

// Preview returns the loggable form of s for mode, truncated to max runes.
// ModeNone always yields "".
func Preview(mode Mode, s string, max int) string {
	switch mode {
	case ModeFull:
		return truncate(s, max)
	case ModeRedacted:
		return truncate(String(s), max)
	default:
		return ""
	}
}

func truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + "…"
}
