package server

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/matzehuels/overlay/pkg/cache"
	"github.com/matzehuels/overlay/pkg/config"
	"github.com/matzehuels/overlay/pkg/errors"
	"github.com/matzehuels/overlay/pkg/geom"
	"github.com/matzehuels/overlay/pkg/pipeline"
	"github.com/matzehuels/overlay/pkg/scene"
)

// PlaceRequest is the body of POST /v1/place.
type PlaceRequest struct {
	Viewport   scene.Viewport `json:"viewport"`
	Anchor     scene.Anchor   `json:"anchor"`
	Overlay    scene.Overlay  `json:"overlay"`
	Text       string         `json:"text,omitempty"`
	Position   string         `json:"position,omitempty"`
	Classes    []string       `json:"classes,omitempty"`
	Stylesheet string         `json:"stylesheet,omitempty"`
	Engine     config.Engine  `json:"engine,omitempty"`
	Trace      bool           `json:"trace,omitempty"`
}

// Rect is a rectangle in API responses.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Candidate is one step of the fallback search.
type Candidate struct {
	Side       string `json:"side"`
	Rect       Rect   `json:"rect"`
	Visible    bool   `json:"visible"`
	Compressed bool   `json:"compressed"`
}

// PlaceResponse is the body returned by POST /v1/place.
type PlaceResponse struct {
	Side            string      `json:"side"`
	Visible         bool        `json:"visible"`
	WidthCompressed bool        `json:"width_compressed"`
	Attempts        int         `json:"attempts"`
	Style           string      `json:"style"`
	Rect            Rect        `json:"rect"`
	Trace           []Candidate `json:"trace,omitempty"`
	Cached          bool        `json:"cached"`
}

const placeID = "anchor"

func (req PlaceRequest) scene() *scene.Scene {
	return &scene.Scene{
		Name:       "place",
		Viewport:   req.Viewport,
		Stylesheet: req.Stylesheet,
		Engine:     req.Engine,
		Tooltips: []scene.Tooltip{{
			ID:       placeID,
			Text:     req.Text,
			Position: req.Position,
			Classes:  req.Classes,
			Anchor:   req.Anchor,
			Overlay:  req.Overlay,
		}},
	}
}

func (s *Server) handlePlace(w http.ResponseWriter, r *http.Request) {
	var req PlaceRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request"))
		return
	}

	sc := req.scene()
	if err := sc.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}
	data, err := json.Marshal(sc)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "encode scene"))
		return
	}

	frame, hit, err := s.runner.PlaceWithCacheInfo(r.Context(), sc, cache.Hash(data), pipeline.Options{Logger: s.logger})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if len(frame.Placements) != 1 {
		s.writeError(w, r, errors.New(errors.ErrCodeInternal, "expected one placement, got %d", len(frame.Placements)))
		return
	}

	p := frame.Placements[0]
	res := p.Result
	out := PlaceResponse{
		Side:            res.Side.String(),
		Visible:         res.Visible,
		WidthCompressed: res.WidthCompressed,
		Attempts:        res.Attempts,
		Style:           p.Style,
		Rect:            toRect(res.Rect),
		Cached:          hit,
	}
	if req.Trace {
		for _, c := range res.Trace {
			out.Trace = append(out.Trace, Candidate{
				Side:       c.Side.String(),
				Rect:       toRect(c.Rect),
				Visible:    c.Visible,
				Compressed: c.Compressed,
			})
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request"))
		return
	}

	opts := pipeline.Options{
		Scene:       body,
		SceneFormat: sceneFormat(r),
		Formats:     []string{format},
		Trace:       queryBool(q.Get("trace")),
		Logger:      s.logger,
	}
	if v := q.Get("scale"); v != "" {
		scale, err := strconv.ParseFloat(v, 64)
		if err != nil {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "invalid scale %q", v))
			return
		}
		opts.Scale = scale
	}

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentType(format))
	w.Header().Set("X-Cache", cacheHeader(res.CacheInfo))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[format])
}

func sceneFormat(r *http.Request) scene.Format {
	if f := r.URL.Query().Get("scene_format"); f != "" {
		return scene.Format(f)
	}
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mt {
	case "application/toml", "text/toml":
		return scene.FormatTOML
	}
	return scene.FormatJSON
}

func contentType(format string) string {
	switch format {
	case pipeline.FormatSVG, pipeline.FormatTrace:
		return "image/svg+xml"
	case pipeline.FormatJSON:
		return "application/json"
	case pipeline.FormatDOT:
		return "text/vnd.graphviz"
	case pipeline.FormatPNG:
		return "image/png"
	case pipeline.FormatPDF:
		return "application/pdf"
	}
	return "application/octet-stream"
}

func cacheHeader(ci pipeline.CacheInfo) string {
	switch {
	case ci.RenderHit:
		return "hit"
	case ci.PlaceHit:
		return "partial"
	}
	return "miss"
}

func queryBool(v string) bool {
	b, _ := strconv.ParseBool(v)
	return b
}

func toRect(r geom.Rect) Rect {
	r = r.Round(2)
	return Rect{Left: r.Left, Top: r.Top, Width: r.Width(), Height: r.Height()}
}
