package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"wikiqa/internal/qa"
	"wikiqa/internal/retrieval"
	"wikiqa/internal/wiki"
)

func postJSON(t *testing.T, r http.Handler, url string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", url, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestAnswerHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		stub     *stubAnswerer
		body     AnswerRequest
		wantCode int
		wantBody string
	}{
		{
			name:     "answered",
			stub:     &stubAnswerer{res: &qa.Result{Answer: "Paris", Candidates: []string{"Paris", "France"}}},
			body:     AnswerRequest{Context: "The tower is in Paris.", Question: "Where?"},
			wantCode: http.StatusOK,
			wantBody: `"answer":"Paris"`,
		},
		{
			name:     "empty context",
			stub:     &stubAnswerer{},
			body:     AnswerRequest{Question: "Where?"},
			wantCode: http.StatusBadRequest,
			wantBody: "Context is required",
		},
		{
			name:     "empty question",
			stub:     &stubAnswerer{},
			body:     AnswerRequest{Context: "text", Question: "   "},
			wantCode: http.StatusBadRequest,
			wantBody: "Question is required",
		},
		{
			name:     "breaker open",
			stub:     &stubAnswerer{err: fmt.Errorf("qa: %w", qa.ErrCircuitOpen)},
			body:     AnswerRequest{Context: "text", Question: "Where?"},
			wantCode: http.StatusServiceUnavailable,
			wantBody: "temporarily unavailable",
		},
		{
			name:     "half-open trial in flight",
			stub:     &stubAnswerer{err: qa.ErrTooManyRequests},
			body:     AnswerRequest{Context: "text", Question: "Where?"},
			wantCode: http.StatusServiceUnavailable,
			wantBody: "temporarily unavailable",
		},
		{
			name:     "model failure",
			stub:     &stubAnswerer{err: &qa.UpstreamError{Status: 500, Body: "boom"}},
			body:     AnswerRequest{Context: "text", Question: "Where?"},
			wantCode: http.StatusBadGateway,
			wantBody: "Model unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.POST("/api/answer", AnswerHandler(tt.stub))
			w := postJSON(t, r, "/api/answer", tt.body)
			assert.Equal(t, tt.wantCode, w.Code, w.Body.String())
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

func TestAnswerHandler_InvalidJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/answer", AnswerHandler(&stubAnswerer{}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/answer", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWikiHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		query    string
		stub     *stubWiki
		wantCode int
		wantBody string
	}{
		{
			name:     "found",
			query:    "mercury",
			stub:     &stubWiki{article: &wiki.Article{Query: "mercury", Title: "Mercury (planet)", Text: "Mercury is the smallest planet."}},
			wantCode: http.StatusOK,
			wantBody: `"paragraph":"Mercury is the smallest planet."`,
		},
		{
			name:     "missing q",
			query:    "",
			stub:     &stubWiki{},
			wantCode: http.StatusBadRequest,
			wantBody: "required",
		},
		{
			name:     "no results",
			query:    "zzzzqqq",
			stub:     &stubWiki{err: wiki.ErrNoResults},
			wantCode: http.StatusNotFound,
			wantBody: "No Wikipedia article found",
		},
		{
			name:     "missing page",
			query:    "ghost",
			stub:     &stubWiki{err: fmt.Errorf("summary: %w", &wiki.PageError{Title: "Ghost"})},
			wantCode: http.StatusNotFound,
			wantBody: "No Wikipedia article found",
		},
		{
			name:     "disambiguation without options",
			query:    "venus",
			stub:     &stubWiki{err: &wiki.DisambiguationError{Title: "Venus"}},
			wantCode: http.StatusNotFound,
			wantBody: "No Wikipedia article found",
		},
		{
			name:     "upstream",
			query:    "mercury",
			stub:     &stubWiki{err: errors.New("connection refused")},
			wantCode: http.StatusBadGateway,
			wantBody: "Wikipedia unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/api/wiki", WikiHandler(tt.stub))
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest("GET", "/api/wiki?q="+tt.query, nil))
			assert.Equal(t, tt.wantCode, w.Code, w.Body.String())
			assert.Contains(t, w.Body.String(), tt.wantBody)
		})
	}
}

func TestAskHandler_ReturnsView(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ret := retrieval.New(
		&stubAnswerer{res: &qa.Result{Answer: "Paris", Candidates: []string{"Paris"}}},
		&stubWiki{}, nil, "", 128)
	r := gin.New()
	r.POST("/api/ask", AskHandler(ret))

	w := postJSON(t, r, "/api/ask", retrieval.Form{OriginalText: "The tower is in Paris.", Question: "Where is the tower?"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var view retrieval.View
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, "Original Article", view.Title)
	require.NotNil(t, view.Banner)
	assert.Equal(t, retrieval.BannerSuccess, view.Banner.Kind)
	assert.Equal(t, "Paris", view.Banner.Text)
}

func TestAskHandler_WikipediaWarning(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ret := retrieval.New(&stubAnswerer{}, &stubWiki{err: wiki.ErrNoResults}, nil, "", 128)
	r := gin.New()
	r.POST("/api/ask", AskHandler(ret))

	w := postJSON(t, r, "/api/ask", retrieval.Form{UseWikipedia: true, WikiQuery: "zzzzqqq", Question: "What?"})
	require.Equal(t, http.StatusOK, w.Code)

	var view retrieval.View
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	require.NotNil(t, view.Banner)
	assert.Equal(t, retrieval.BannerWarning, view.Banner.Kind)
	assert.Equal(t, retrieval.MsgWikiNotFound, view.Banner.Text)
}
