package console

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, target string) (*httptest.ResponseRecorder, *goquery.Document) {
	t.Helper()
	handler := Handler(Options{ShareBaseURL: "https://resolutions.example.com/"})
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rr.Body.String()))
	require.NoError(t, err)
	return rr, doc
}

func TestHandlerSetsRobotsHeader(t *testing.T) {
	rr, _ := render(t, "/")
	assert.Equal(t, RobotsTagValue, rr.Header().Get(RobotsTagHeader))
	assert.Equal(t, "no-store", rr.Header().Get("Cache-Control"))
	assert.Equal(t, "text/html; charset=utf-8", rr.Header().Get("Content-Type"))
}

func TestBarePageHasNoResult(t *testing.T) {
	rr, doc := render(t, "/")
	require.Equal(t, http.StatusOK, rr.Code)

	assert.Equal(t, 0, doc.Find("section.result").Length())
	assert.Equal(t, "", doc.Find("textarea#resolution").Text())
	assert.Equal(t, "https://resolutions.example.com/", doc.Find("#share").AttrOr("data-share-url", ""))
}

func TestPrefilledPageRendersVerdict(t *testing.T) {
	_, doc := render(t, "/?q="+url.QueryEscape("Run 3x/week for 30 minutes"))

	assert.Equal(t, "Run 3x/week for 30 minutes", doc.Find("textarea#resolution").Text())
	pill := doc.Find("section.result .pill")
	require.Equal(t, 1, pill.Length())
	assert.True(t, pill.HasClass("ok"))
	assert.Equal(t, "achievable", pill.AttrOr("data-verdict", ""))
	assert.Equal(t, "Actually achievable ✅", pill.Text())
	assert.Equal(t, "100", doc.Find(".score").Text())

	shareURL := doc.Find("#share").AttrOr("data-share-url", "")
	u, err := url.Parse(shareURL)
	require.NoError(t, err)
	assert.Equal(t, "Run 3x/week for 30 minutes", u.Query().Get("q"))
}

func TestDelusionalBadge(t *testing.T) {
	_, doc := render(t, "/?q=get+fit")
	pill := doc.Find("section.result .pill")
	assert.True(t, pill.HasClass("nope"))
	assert.Equal(t, "28", doc.Find(".score").Text())
}

func TestInputIsEscaped(t *testing.T) {
	rr, doc := render(t, "/?q="+url.QueryEscape("<script>alert(1)</script> read 12 books"))
	assert.NotContains(t, rr.Body.String(), "<script>alert(1)</script> read")
	assert.Equal(t, "<script>alert(1)</script> read 12 books", doc.Find("textarea#resolution").Text())
}

func TestRejectsPost(t *testing.T) {
	handler := Handler(Options{})
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
