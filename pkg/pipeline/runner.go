package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/overlay/pkg/cache"
	"github.com/matzehuels/overlay/pkg/errors"
	"github.com/matzehuels/overlay/pkg/observability"
	"github.com/matzehuels/overlay/pkg/render/sink"
	"github.com/matzehuels/overlay/pkg/scene"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner holds no per-run state; multiple goroutines can share one
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  cache.Instrument(c),
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete parse → place → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{SceneHash: cache.Hash(opts.Scene)}
	hooks := observability.Pipeline()

	// Stage 1: Parse
	parseStart := time.Now()
	s, err := scene.Parse(opts.Scene, opts.SceneFormat)
	if err != nil {
		return nil, err
	}
	if s.Name == "" {
		s.Name = opts.SceneName
	}
	result.Scene = s
	result.Stats.ParseTime = time.Since(parseStart)

	// Stage 2: Place
	hooks.OnSceneStart(ctx, s.Name)
	placeStart := time.Now()
	frame, placeHit, err := r.PlaceWithCacheInfo(ctx, s, result.SceneHash, opts)
	result.Stats.PlaceTime = time.Since(placeStart)
	hooks.OnSceneComplete(ctx, s.Name, len(frame.Placements), result.Stats.PlaceTime, err)
	if err != nil {
		return nil, err
	}
	result.Frame = frame
	result.CacheInfo.PlaceHit = placeHit
	result.Stats.Tooltips = len(frame.Placements)
	for _, p := range frame.Placements {
		if p.Result.Visible {
			result.Stats.Visible++
		}
		if p.Result.WidthCompressed {
			result.Stats.Compressed++
		}
	}

	r.Logger.Info("placed tooltips",
		"scene", s.Name,
		"tooltips", result.Stats.Tooltips,
		"clipped", result.Stats.Tooltips-result.Stats.Visible,
		"cached", placeHit,
		"duration", result.Stats.PlaceTime)

	// Stage 3: Render
	hooks.OnRenderStart(ctx, opts.Formats)
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, frame, opts)
	result.Stats.RenderTime = time.Since(renderStart)
	hooks.OnRenderComplete(ctx, opts.Formats, result.Stats.RenderTime, err)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// PlaceWithCacheInfo places every tooltip of s and reports whether the
// frame came from cache.
func (r *Runner) PlaceWithCacheInfo(ctx context.Context, s *scene.Scene, sceneHash string, opts Options) (sink.Frame, bool, error) {
	r.applyLogger(&opts)
	key := r.Keyer.PlacementKey(opts.PlacementKeyInput(sceneHash))

	if !opts.Refresh {
		var cached sink.Frame
		err := cache.GetJSON(ctx, r.Cache, key, &cached)
		if err == nil {
			cached.Name = s.Name
			return cached, true, nil
		}
		if !cache.IsMiss(err) {
			opts.Logger.Debug("placement cache read failed", "error", err)
		}
	}

	frame, err := Place(ctx, s, opts)
	if err != nil {
		return sink.Frame{}, false, err
	}
	if err := cache.SetJSON(ctx, r.Cache, key, frame, cache.PlacementTTL); err != nil {
		opts.Logger.Debug("placement cache write failed", "error", err)
	}
	return frame, false, nil
}

// Place builds s, shows every tooltip and captures the resulting frame.
func Place(ctx context.Context, s *scene.Scene, opts Options) (sink.Frame, error) {
	page, err := scene.Build(s, scene.BuildOptions{
		Engine: opts.Engine,
		Logger: opts.Logger,
	})
	if err != nil {
		return sink.Frame{}, err
	}
	page.ShowAll(ctx)
	return sink.FrameOf(page), nil
}

// RenderWithCacheInfo renders every requested format of f and reports
// whether all of them came from cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, f sink.Frame, opts Options) (map[string][]byte, bool, error) {
	opts.SetRenderDefaults()
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, false, err
	}

	frameData, err := json.Marshal(f)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "serialize frame for cache key")
	}
	frameHash := cache.Hash(frameData)
	keyFor := func(format string) string {
		return r.Keyer.ArtifactKey(frameHash, cache.ArtifactKeyOpts{
			Format:  format,
			Options: opts.ArtifactOptions(format),
		})
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, keyFor(format)); err == nil && hit {
				artifacts[format] = data
				continue
			}
		}
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	missingOpts := opts
	missingOpts.Formats = missing
	rendered, err := Render(ctx, f, missingOpts)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		artifacts[format] = data
		_ = r.Cache.Set(ctx, keyFor(format), data, cache.ArtifactTTL)
	}
	return artifacts, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
