package config

import (
	"math"

	"github.com/matzehuels/overlay/pkg/dom"
	"github.com/matzehuels/overlay/pkg/errors"
	"github.com/matzehuels/overlay/pkg/placement"
	"github.com/matzehuels/overlay/pkg/tooltip"
	"github.com/matzehuels/overlay/pkg/viewport"
)

// Engine holds placement parameters. Zero or nil fields mean "inherit" when
// merged and "default" when applied.
type Engine struct {
	Gap         float64  `toml:"gap,omitempty" json:"gap,omitempty"`
	MaxAttempts *int     `toml:"max_attempts,omitempty" json:"max_attempts,omitempty"`
	WrapWidth   float64  `toml:"wrap_width,omitempty" json:"wrap_width,omitempty"`
	Epsilon     *float64 `toml:"epsilon,omitempty" json:"epsilon,omitempty"`
	RevealDelay Duration `toml:"reveal_delay,omitempty" json:"reveal_delay,omitempty"`
}

// DefaultEngine returns the engine defaults.
func DefaultEngine() Engine {
	attempts := placement.DefaultMaxAttempts
	eps := viewport.DefaultEpsilon
	return Engine{
		Gap:         placement.TriangleSize,
		MaxAttempts: &attempts,
		WrapWidth:   dom.DefaultWrapWidth,
		Epsilon:     &eps,
		RevealDelay: Duration(tooltip.DefaultRevealDelay),
	}
}

// Merge returns e with every set field of over applied on top.
func (e Engine) Merge(over Engine) Engine {
	if over.Gap != 0 {
		e.Gap = over.Gap
	}
	if over.MaxAttempts != nil {
		e.MaxAttempts = over.MaxAttempts
	}
	if over.WrapWidth != 0 {
		e.WrapWidth = over.WrapWidth
	}
	if over.Epsilon != nil {
		e.Epsilon = over.Epsilon
	}
	if over.RevealDelay != 0 {
		e.RevealDelay = over.RevealDelay
	}
	return e
}

// Validate rejects negative or non-finite values and a max_attempts below 1.
func (e Engine) Validate() error {
	check := func(name string, v float64) error {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return errors.New(errors.ErrCodeInvalidInput, "engine.%s must be a non-negative number", name)
		}
		return nil
	}
	if err := check("gap", e.Gap); err != nil {
		return err
	}
	if err := check("wrap_width", e.WrapWidth); err != nil {
		return err
	}
	if e.Epsilon != nil {
		if err := check("epsilon", *e.Epsilon); err != nil {
			return err
		}
	}
	if e.MaxAttempts != nil && *e.MaxAttempts < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "engine.max_attempts must be at least 1")
	}
	return nil
}

// SolverOptions converts e to solver options.
func (e Engine) SolverOptions() []placement.Option {
	var opts []placement.Option
	if e.Gap != 0 {
		opts = append(opts, placement.WithGap(e.Gap))
	}
	if e.MaxAttempts != nil {
		opts = append(opts, placement.WithMaxAttempts(*e.MaxAttempts))
	}
	return opts
}

// DocumentOptions converts e to document options.
func (e Engine) DocumentOptions() []dom.Option {
	var opts []dom.Option
	if e.WrapWidth != 0 {
		opts = append(opts, dom.WithWrapWidth(e.WrapWidth))
	}
	if e.Epsilon != nil {
		opts = append(opts, dom.WithEpsilon(*e.Epsilon))
	}
	return opts
}
