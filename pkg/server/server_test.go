package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/flowplot/pkg/buildinfo"
	"github.com/matzehuels/flowplot/pkg/gates"
	"github.com/matzehuels/flowplot/pkg/pipeline"
	"github.com/matzehuels/flowplot/pkg/stats"
)

const violinsJSON = `{
  "binCentres": [0, 1, 2, 3],
  "density": [
    {"name": "T cells", "id": "tcells", "values": [0, 1, 0.5, 0]},
    {"name": "B cells", "id": "bcells", "values": [0.2, 0.4, 1, 0.1]}
  ]
}`

const boxplotsJSON = `{
  "records": [
    {"names": ["PopA", "CondX"], "count": 10},
    {"names": ["PopA", "CondY"], "count": 5},
    {"names": ["CondX"], "count": 20},
    {"names": ["CondY"], "count": 5}
  ],
  "populations": ["PopA"],
  "conditions": ["CondX", "CondY"]
}`

func newTestServer(t *testing.T, opts ...Option) (*httptest.Server, *gates.MemoryStore) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "violins.json"), []byte(violinsJSON), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "boxplots.json"), []byte(boxplotsJSON), 0o644))

	store := gates.NewMemoryStore(
		gates.Style{ID: "tcells", Name: "T cells", Fill: "#0088AA55", Stroke: "#0088AA55", Width: 2},
		gates.Style{ID: "bcells", Name: "B cells", Fill: "#AA008855", Stroke: "#AA008855", Width: 2},
	)
	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(nil, nil, store, logger)

	opts = append([]Option{
		WithLogger(logger),
		WithDataDir(dir),
		WithDefaultInput(pipeline.KindViolins, filepath.Join(dir, "violins.json")),
		WithDefaultInput(pipeline.KindBoxplots, filepath.Join(dir, "boxplots.json")),
	}, opts...)
	ts := httptest.NewServer(New(runner, opts...).Handler())
	t.Cleanup(ts.Close)
	return ts, store
}

func get(t *testing.T, ts *httptest.Server, path string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func post(t *testing.T, ts *httptest.Server, path, body string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Post(ts.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(out)
}

func TestChartRoutes(t *testing.T) {
	ts, _ := newTestServer(t)

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantBody   string
	}{
		{"violins", "/charts/violins.svg", http.StatusOK, `id="tcells"`},
		{"boxplots", "/charts/boxplots.svg?seed=3", http.StatusOK, `class="box"`},
		{"explicit input", "/charts/boxplots.svg?input=boxplots.json", http.StatusOK, `class="box"`},
		{"colorbar", "/charts/colorbar.svg?stops=0,5,10&palette=%23000000,%23808080,%23ffffff", http.StatusOK, `class="colorbar"`},
		{"unknown kind", "/charts/heatmap.svg", http.StatusNotFound, "CHART_NOT_FOUND"},
		{"unknown format", "/charts/violins.gif", http.StatusBadRequest, "INVALID_FORMAT"},
		{"traversal", "/charts/boxplots.svg?input=../secret.json", http.StatusBadRequest, "INVALID_PATH"},
		{"missing input", "/charts/boxplots.svg?input=nope.json", http.StatusNotFound, "FILE_NOT_FOUND"},
		{"bad seed", "/charts/boxplots.svg?seed=x", http.StatusBadRequest, "INVALID_INPUT"},
		{"bad colour", "/charts/violins.svg?color=teal", http.StatusBadRequest, "INVALID_COLOR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := get(t, ts, tt.path)
			assert.Equal(t, tt.wantStatus, resp.StatusCode, body)
			assert.Contains(t, body, tt.wantBody)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, _ := get(t, ts, "/api/gates")
	_, err := uuid.Parse(resp.Header.Get(RequestIDHeader))
	assert.NoError(t, err, "generated request id")
	assert.Equal(t, buildinfo.Short(), resp.Header.Get("Server"))

	id := uuid.NewString()
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/gates", nil)
	req.Header.Set(RequestIDHeader, id)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, id, resp.Header.Get(RequestIDHeader))

	_, body := get(t, ts, "/api/gates/nope")
	assert.Contains(t, body, `"request_id"`)
}

func TestGateRoutes(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, body := get(t, ts, "/api/gates")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var styles []gates.Style
	require.NoError(t, json.Unmarshal([]byte(body), &styles))
	require.Len(t, styles, 2)
	assert.Equal(t, "bcells", styles[0].ID)

	resp, body = get(t, ts, "/api/gates/tcells")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `"fill":"#0088AA55"`)

	resp, body = get(t, ts, "/api/gates/nope")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "GATE_NOT_FOUND")
}

func TestRecolorStoreOnly(t *testing.T) {
	ts, store := newTestServer(t)

	resp, body := post(t, ts, "/api/gates/tcells/color", `{"color": "#ff0000"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.JSONEq(t, `{"id": "tcells", "color": "#ff000055"}`, body)

	st, err := store.StyleFor(t.Context(), "tcells")
	require.NoError(t, err)
	assert.Equal(t, "#ff000055", st.Fill)
}

func TestRecolorLiveChart(t *testing.T) {
	ts, store := newTestServer(t)

	resp, _ := get(t, ts, "/charts/violins.svg")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := post(t, ts, "/api/gates/bcells/color", `{"color": "#00ff00"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Contains(t, body, "#00ff0055")

	_, svgBody := get(t, ts, "/charts/violins.svg")
	assert.Contains(t, svgBody, `fill="#00ff0055"`)

	st, _ := store.StyleFor(t.Context(), "bcells")
	assert.Equal(t, "#00ff0055", st.Stroke)
}

func TestRecolorErrors(t *testing.T) {
	ts, _ := newTestServer(t)

	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
	}{
		{"bad colour", "/api/gates/tcells/color", `{"color": "red"}`, http.StatusBadRequest},
		{"unknown gate", "/api/gates/nope/color", `{"color": "#ff0000"}`, http.StatusNotFound},
		{"bad body", "/api/gates/tcells/color", `{"colour": "#ff0000"}`, http.StatusBadRequest},
		{"markup id", "/api/gates/a%3Cb/color", `{"color": "#ff0000"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := post(t, ts, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, resp.StatusCode, body)
		})
	}
}

func TestSelect(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, _ := post(t, ts, "/api/boxplots/select", `{"population": "PopA", "condition": "CondX"}`)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestFrequencies(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, body := get(t, ts, "/api/frequencies")
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	var report stats.Report
	require.NoError(t, json.Unmarshal([]byte(body), &report))
	require.Len(t, report.Frequencies, 2)
	assert.Equal(t, "CondX", report.Frequencies[0].Condition)
	assert.InDelta(t, 0.5, report.Frequencies[1].Frequency, 1e-12)
}

func TestHierarchy(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, _ := get(t, ts, "/api/gates/hierarchy.svg")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	tri := []gates.Vertex{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}
	schema, err := gates.NewSchema([]gates.Gate{
		{ID: "cells", Name: "Cells", Channels: []string{"FSC-A", "SSC-A"}, Vertices: tri},
		{ID: "tcells", Name: "T cells", Parent: "cells", Channels: []string{"CD3", "CD19"}, Vertices: tri},
	})
	require.NoError(t, err)
	ts, _ = newTestServer(t, WithSchema(schema))
	resp, body := get(t, ts, "/api/gates/hierarchy.svg")
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Contains(t, body, "T cells")
}

func TestIndex(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, body := get(t, ts, "/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `<div id="violins">`)
	assert.Contains(t, body, `<div id="boxplots">`)
	assert.Contains(t, body, `data-recolor="/api/gates/{id}/color"`)
	assert.Contains(t, body, `data-select="/api/boxplots/select"`)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, statusFor(io.EOF))
}
