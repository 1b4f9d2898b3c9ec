// Package share encodes a resolution into a shareable link and reads it back.
package share

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// QueryParam carries the raw resolution text in share links.
const QueryParam = "q"

// ErrInvalidBase is returned when the base URL is not absolute.
var ErrInvalidBase = errors.New("share: base url must be absolute http(s)")

// Link returns base with the q parameter set to the trimmed text, or with
// q removed when the trimmed text is empty. Other query parameters are kept.
func Link(base, text string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(base))
	if err != nil {
		return "", fmt.Errorf("share: parse base url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", ErrInvalidBase
	}

	q := u.Query()
	if trimmed := strings.TrimSpace(text); trimmed != "" {
		q.Set(QueryParam, trimmed)
	} else {
		q.Del(QueryParam)
	}
	u.RawQuery = q.Encode()
	u.Fragment = ""
	return u.String(), nil
}

// FromQuery returns the resolution text carried in values, if any.
func FromQuery(values url.Values) string {
	return values.Get(QueryParam)
}

// FromURL extracts the resolution text from a share link.
func FromURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("share: parse url: %w", err)
	}
	return FromQuery(u.Query()), nil
}
