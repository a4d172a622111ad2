package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/esqlc/internal/completion"
	"github.com/oakwood-commons/esqlc/internal/esql/definitions"
	"github.com/oakwood-commons/esqlc/internal/resources"
)

func newTestServer(t *testing.T) (*Server, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	engine := completion.New(
		completion.WithCallbacks(&resources.Static{
			Fields:  []completion.Field{{Name: "bytes", Type: definitions.TypeLong}},
			Sources: []completion.Source{{Name: "logs"}},
		}),
		completion.WithMetrics(completion.NewMetrics(reg)),
	)
	return New(Config{Engine: engine, Gatherer: reg, Log: logr.Discard()}), reg
}

func post(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/suggest", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeSuggestions(t *testing.T, rec *httptest.ResponseRecorder) []string {
	t.Helper()
	var resp suggestResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	labels := make([]string, len(resp.Suggestions))
	for i, s := range resp.Suggestions {
		labels[i] = s.Label
	}
	return labels
}

func TestSuggest(t *testing.T) {
	s, _ := newTestServer(t)

	rec := post(t, s.Handler(), `{"query": "FROM "}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, decodeSuggestions(t, rec), "logs")

	rec = post(t, s.Handler(), `{"query": "FROM logs | SORT bytes ", "trigger": {"kind": "character", "character": " "}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decodeSuggestions(t, rec), "desc")

	rec = post(t, s.Handler(), `{"query": "FROM logs | LIMIT 10", "offset": 0}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decodeSuggestions(t, rec), "FROM")
}

func TestSuggestBadRequests(t *testing.T) {
	s, _ := newTestServer(t)
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "malformed", body: `{"query":`, want: "decode request"},
		{name: "unknown field", body: `{"text": "FROM"}`, want: "unknown field"},
		{name: "bad trigger", body: `{"query": "FROM", "trigger": {"kind": "typed"}}`, want: "unknown trigger kind"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, s.Handler(), tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			var resp errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Contains(t, resp.Error, tt.want)
		})
	}
}

func TestSuggestMethodNotAllowed(t *testing.T) {
	s, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/suggest", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCatalog(t *testing.T) {
	s, _ := newTestServer(t)

	get := func(path string) (*httptest.ResponseRecorder, catalogResponse) {
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		var resp catalogResponse
		if rec.Code == http.StatusOK {
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		}
		return rec, resp
	}

	rec, all := get("/v1/catalog")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, all.Commands)
	assert.NotEmpty(t, all.Functions)

	_, cmds := get("/v1/catalog/commands")
	assert.NotEmpty(t, cmds.Commands)
	assert.Empty(t, cmds.Functions)

	rec, _ = get("/v1/catalog/operators")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, "ok\n", rec.Body.String())

	post(t, h, `{"query": "FROM "}`)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "esqlc_suggest_requests_total")
}

func TestServeShutsDownWithContext(t *testing.T) {
	s, _ := newTestServer(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	url := "http://" + ln.Addr().String()
	resp, err := http.Post(url+"/v1/suggest", "application/json", bytes.NewBufferString(`{"query": "FROM "}`))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
