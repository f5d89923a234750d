package server

import (
	"context"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/flowplot/pkg/errors"
	"github.com/matzehuels/flowplot/pkg/gates"
	"github.com/matzehuels/flowplot/pkg/observability"
	"github.com/matzehuels/flowplot/pkg/pipeline"
	"github.com/matzehuels/flowplot/pkg/render/boxplot"
	"github.com/matzehuels/flowplot/pkg/render/svg"
	"github.com/matzehuels/flowplot/pkg/render/violin"
)

var contentTypes = map[string]string{
	pipeline.FormatSVG: "image/svg+xml",
	pipeline.FormatPNG: "image/png",
	pipeline.FormatPDF: "application/pdf",
}

// chartOptions builds pipeline options for kind from the request query.
func (s *Server) chartOptions(r *http.Request, kind, format string) (pipeline.Options, error) {
	q := r.URL.Query()
	input, err := s.resolveInput(kind, q.Get("input"))
	if err != nil {
		return pipeline.Options{}, err
	}
	opts := pipeline.Options{
		Kind:            kind,
		Input:           input,
		Formats:         []string{format},
		Color:           q.Get("color"),
		Refresh:         q.Get("refresh") == "true",
		RecolorEndpoint: RecolorEndpoint,
		SelectEndpoint:  SelectEndpoint,
		Logger:          s.logger,
		StopTicks:       q.Get("stop_ticks") == "true",
	}
	if v := q.Get("seed"); v != "" {
		if opts.Seed, err = strconv.ParseUint(v, 10, 64); err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "seed")
		}
	}
	if v := q.Get("stops"); v != "" {
		for _, part := range strings.Split(v, ",") {
			f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
			if err != nil {
				return opts, errors.Wrap(errors.ErrCodeInvalidInput, err, "stops")
			}
			opts.Stops = append(opts.Stops, f)
		}
	}
	if v := q.Get("palette"); v != "" {
		opts.Palette = strings.Split(v, ",")
	}
	// The live violin chart backs recolouring, so violin SVGs draw into the page.
	if kind == pipeline.KindViolins && format == pipeline.FormatSVG {
		opts.Page = s.page
	}
	return opts, nil
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	kind, format := chi.URLParam(r, "kind"), chi.URLParam(r, "format")
	if err := pipeline.ValidateKind(kind); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeChartNotFound, err, "unknown chart"))
		return
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := s.chartOptions(r, kind, format)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("X-Cache-Hit", strconv.FormatBool(result.CacheInfo.RenderHit))
	_, _ = w.Write(result.Artifacts[format])
}

func (s *Server) handleFrequencies(w http.ResponseWriter, r *http.Request) {
	opts, err := s.chartOptions(r, pipeline.KindBoxplots, pipeline.FormatSVG)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result.Report)
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var sel boxplot.Selection
	if err := decodeJSON(w, r, &sel); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info("box selected", "population", sel.Population, "condition", sel.Condition,
		"request_id", RequestID(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListGates(w http.ResponseWriter, r *http.Request) {
	styles, err := s.styles.List(r.Context())
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeStore, err, "list gates"))
		return
	}
	if styles == nil {
		styles = []gates.Style{}
	}
	writeJSON(w, http.StatusOK, styles)
}

func (s *Server) handleGetGate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateGateID(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	style, err := s.styles.StyleFor(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, style)
}

type recolorRequest struct {
	Color string `json:"color"`
}

type recolorResponse struct {
	ID    string `json:"id"`
	Color string `json:"color"`
}

func (s *Server) handleRecolor(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateGateID(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	var req recolorRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	color, err := s.recolor(r.Context(), id, req.Color)
	observability.Style().OnRecolor(r.Context(), id, color, err)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, recolorResponse{ID: id, Color: color})
}

// recolor updates the live violin chart when it shows id, and the style
// store either way. The picked colour keeps the previous alpha suffix.
func (s *Server) recolor(ctx context.Context, id, picked string) (string, error) {
	if target, ok := s.page.Lookup(svg.ViolinsSelector); ok {
		drawn := false
		target.View(func(root *svg.Element) { drawn = len(root.ByID(id)) > 0 })
		if drawn {
			return violin.Recolor(ctx, target, s.styles, id, picked)
		}
	}
	if err := errors.ValidateColor(picked); err != nil {
		return "", err
	}
	prev, err := s.styles.StyleFor(ctx, id)
	if err != nil {
		return "", err
	}
	color := gates.ComposeColor(prev.Fill, picked)
	if err := s.styles.SetColor(ctx, id, color); err != nil {
		return "", err
	}
	return color, nil
}

func (s *Server) handleHierarchy(w http.ResponseWriter, r *http.Request) {
	if s.schema == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeChartNotFound, "no gating schema loaded"))
		return
	}
	data, err := s.runner.Hierarchy(r.Context(), s.schema, pipeline.FormatSVG)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[pipeline.FormatSVG])
	_, _ = w.Write(data)
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>flowplot</title></head>
<body style="font-family: sans-serif">
{{range .}}<div id="{{.ID}}">
{{if .Err}}<p>{{.Err}}</p>{{else}}{{.SVG}}{{end}}
</div>
{{end}}</body>
</html>
`))

type panel struct {
	ID  string
	SVG template.HTML
	Err string
}

// handleIndex draws every chart with a default dataset into one page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var panels []panel
	for _, kind := range []string{pipeline.KindViolins, pipeline.KindBoxplots} {
		if _, ok := s.defaults[kind]; !ok {
			continue
		}
		p := panel{ID: kind}
		opts, err := s.chartOptions(r, kind, pipeline.FormatSVG)
		if err == nil {
			var result *pipeline.Result
			if result, err = s.runner.Execute(r.Context(), opts); err == nil {
				p.SVG = template.HTML(result.Artifacts[pipeline.FormatSVG])
			}
		}
		if err != nil {
			p.Err = errors.UserMessage(err)
		}
		panels = append(panels, p)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, panels); err != nil {
		s.logger.Error("index template", "err", err)
	}
}
