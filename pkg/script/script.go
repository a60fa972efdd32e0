// Package script runs JavaScript interaction scripts against a built scene.
//
// A script drives tooltips the way a user would and inspects the outcome:
//
//	hover("save");
//	wait(20);
//	var r = result("save");
//	assert(r.side === "top" && r.revealed, "save tooltip above the button");
//	resize(300, 600);
//	escape("save");
//
// Time only moves through wait, so a script against a page built with the
// default manual scheduler is deterministic.
package script

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dop251/goja"

	"github.com/matzehuels/overlay/pkg/errors"
	"github.com/matzehuels/overlay/pkg/scene"
	"github.com/matzehuels/overlay/pkg/tooltip"
)

// Report is what a script run leaves behind.
type Report struct {
	// Logs holds the lines passed to log().
	Logs []string `json:"logs,omitempty"`

	// Steps counts the interactions the script performed.
	Steps int `json:"steps"`

	// Placements is the final state of every tooltip in scene order.
	Placements []scene.Placement `json:"placements"`
}

// Runner executes scripts against one page. A Runner is not safe for
// concurrent use; goja runtimes are single-threaded.
type Runner struct {
	page   *scene.Page
	logger *log.Logger

	mu     sync.Mutex
	ctx    context.Context
	report *Report
}

// New creates a runner for page. logger may be nil.
func New(page *scene.Page, logger *log.Logger) *Runner {
	return &Runner{page: page, logger: logger}
}

// Run executes src. name labels error positions. Script exceptions, failed
// assertions and unknown tooltip ids are returned as INVALID_SCRIPT errors;
// a cancelled context interrupts the script.
func (r *Runner) Run(ctx context.Context, name, src string) (*Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ctx = ctx
	r.report = &Report{}

	vm := goja.New()
	vm.SetFieldNameMapper(goja.TagFieldNameMapper("json", true))
	r.register(vm)

	stop := context.AfterFunc(ctx, func() { vm.Interrupt(ctx.Err()) })
	defer stop()

	prog, err := goja.Compile(name, src, false)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidScript, err, "compile %s", name)
	}
	if _, err := vm.RunProgram(prog); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return r.report, errors.Wrap(errors.ErrCodeInvalidScript, err, "run %s", name)
	}

	r.report.Placements = r.page.Placements()
	return r.report, nil
}

func (r *Runner) register(vm *goja.Runtime) {
	for name, ev := range map[string]tooltip.Event{
		"hover":  tooltip.MouseOver,
		"focus":  tooltip.FocusIn,
		"leave":  tooltip.MouseLeave,
		"blur":   tooltip.FocusOut,
		"escape": tooltip.KeyEscape,
	} {
		vm.Set(name, func(id string) error { return r.dispatch(id, ev) })
	}
	vm.Set("resize", r.resize)
	vm.Set("wait", r.wait)
	vm.Set("result", r.result)
	vm.Set("ids", func() []string { return r.page.Tooltips.Keys() })
	vm.Set("log", func(call goja.FunctionCall) goja.Value {
		r.log(call.Arguments)
		return goja.Undefined()
	})
	vm.Set("assert", func(cond bool, msg string) error {
		if !cond {
			if msg == "" {
				msg = "assertion failed"
			}
			return fmt.Errorf("%s", msg)
		}
		return nil
	})
}

func (r *Runner) dispatch(id string, ev tooltip.Event) error {
	tip, err := r.page.Tooltips.Get(id)
	if err != nil {
		return err
	}
	r.report.Steps++
	r.debug("dispatch", "id", id, "event", ev)
	tip.Dispatch(r.ctx, ev)
	return nil
}

func (r *Runner) resize(width, height float64) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("resize(%v, %v): viewport must be positive", width, height)
	}
	r.report.Steps++
	r.debug("resize", "width", width, "height", height)
	r.page.Tooltips.Resize(r.ctx, width, height)
	return nil
}

// wait advances a manual scheduler, or sleeps when the page runs on the
// system clock.
func (r *Runner) wait(ms float64) error {
	if ms < 0 {
		return fmt.Errorf("wait(%v): negative duration", ms)
	}
	d := time.Duration(ms * float64(time.Millisecond))
	if m, ok := r.page.Scheduler.(*tooltip.ManualScheduler); ok {
		m.Advance(d)
		return nil
	}
	select {
	case <-time.After(d):
		return nil
	case <-r.ctx.Done():
		return r.ctx.Err()
	}
}

// Result is the script-facing view of a tooltip's state.
type Result struct {
	ID         string  `json:"id"`
	BodyID     string  `json:"bodyId"`
	Side       string  `json:"side"`
	Visible    bool    `json:"visible"`
	Compressed bool    `json:"compressed"`
	Attempts   int     `json:"attempts"`
	Shown      bool    `json:"shown"`
	Revealed   bool    `json:"revealed"`
	Style      string  `json:"style"`
	Left       float64 `json:"left"`
	Top        float64 `json:"top"`
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
}

func (r *Runner) result(id string) (*Result, error) {
	tip, err := r.page.Tooltips.Get(id)
	if err != nil {
		return nil, err
	}
	last := tip.Last()
	return &Result{
		ID:         id,
		BodyID:     tip.ID(),
		Side:       last.Side.String(),
		Visible:    last.Visible,
		Compressed: last.WidthCompressed,
		Attempts:   last.Attempts,
		Shown:      tip.Shown(),
		Revealed:   tip.Visible(),
		Style:      tip.Body().InlineStyle().CSS(),
		Left:       last.Rect.Left,
		Top:        last.Rect.Top,
		Width:      last.Rect.Width(),
		Height:     last.Rect.Height(),
	}, nil
}

func (r *Runner) log(args []goja.Value) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	line := strings.Join(parts, " ")
	r.report.Logs = append(r.report.Logs, line)
	if r.logger != nil {
		r.logger.Info(line)
	}
}

func (r *Runner) debug(msg string, kv ...any) {
	if r.logger != nil {
		r.logger.Debug(msg, kv...)
	}
}
