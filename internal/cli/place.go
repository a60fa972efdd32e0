package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/overlay/pkg/cache"
	"github.com/matzehuels/overlay/pkg/errors"
	"github.com/matzehuels/overlay/pkg/pipeline"
	"github.com/matzehuels/overlay/pkg/scene"
)

// placeID is the tooltip id of the one-off scene built from flags.
const placeID = "anchor"

// placeOpts holds the command-line flags for the place command.
type placeOpts struct {
	viewport   string // "WxH"
	anchor     string // "x,y,w,h"
	overlay    string // "WxH", empty estimates from text
	margin     string // CSS shorthand order, comma-separated
	text       string
	position   string
	classes    []string
	stylesheet string
	asJSON     bool
	trace      bool
	noCache    bool
	engine     engineOverride
}

// placeCommand creates the place command for positioning a single overlay.
func (c *CLI) placeCommand() *cobra.Command {
	opts := placeOpts{viewport: "1024x768", position: "top"}

	cmd := &cobra.Command{
		Use:   "place",
		Short: "Place one overlay around one anchor",
		Long: `Place positions an overlay of the given size around an anchor box and
prints the chosen side, the overlay rectangle and the inline style.`,
		Example: `  overlay place --anchor 500,500,100,40 --overlay 160x48
  overlay place --anchor 0,500,100,40 --text "Save file" --trace`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.scene()
			if err != nil {
				return err
			}
			return c.runPlace(cmd, s, opts)
		},
	}

	cmd.Flags().StringVar(&opts.viewport, "viewport", opts.viewport, "viewport size WIDTHxHEIGHT")
	cmd.Flags().StringVarP(&opts.anchor, "anchor", "a", "", "anchor box X,Y,WIDTH,HEIGHT in viewport coordinates")
	cmd.Flags().StringVar(&opts.overlay, "overlay", "", "overlay size WIDTHxHEIGHT (default estimated from --text)")
	cmd.Flags().StringVar(&opts.margin, "margin", "", "anchor margin, 1 to 4 comma-separated values")
	cmd.Flags().StringVarP(&opts.text, "text", "t", "", "tooltip text")
	cmd.Flags().StringVarP(&opts.position, "position", "p", opts.position, "preferred side: top, bottom, right, left")
	cmd.Flags().StringSliceVar(&opts.classes, "class", nil, "anchor classes matched against --stylesheet")
	cmd.Flags().StringVar(&opts.stylesheet, "stylesheet", "", "CSS used to compute the anchor margin")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the placement as JSON")
	cmd.Flags().BoolVar(&opts.trace, "trace", false, "include every candidate tried")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	opts.engine.register(cmd)
	_ = cmd.MarkFlagRequired("anchor")

	return cmd
}

func (c *CLI) runPlace(cmd *cobra.Command, s *scene.Scene, opts placeOpts) error {
	ctx := cmd.Context()
	if err := s.Validate(); err != nil {
		return err
	}
	data, err := json.Marshal(s)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode scene")
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	frame, hit, err := runner.PlaceWithCacheInfo(ctx, s, cache.Hash(data), pipeline.Options{
		Engine: c.engine(opts.engine),
		Logger: loggerFromContext(ctx),
	})
	if err != nil {
		return err
	}
	if len(frame.Placements) != 1 {
		return errors.New(errors.ErrCodeInternal, "expected one placement, got %d", len(frame.Placements))
	}
	p := frame.Placements[0]

	if opts.asJSON {
		if !opts.trace {
			p.Result.Trace = nil
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	}

	printResult(placeID, p.Result, p.Style)
	if opts.trace {
		fmt.Fprintln(stdout, traceTable(p.Result.Trace))
	}
	printStats(1, boolCount(p.Result.Visible), boolCount(p.Result.WidthCompressed), hit)
	return nil
}

// scene builds a one-tooltip scene from the flags.
func (o placeOpts) scene() (*scene.Scene, error) {
	vw, vh, err := parseSize("viewport", o.viewport)
	if err != nil {
		return nil, err
	}
	box, err := parseFloats("anchor", o.anchor, 4, 4)
	if err != nil {
		return nil, err
	}
	t := scene.Tooltip{
		ID:       placeID,
		Text:     o.text,
		Position: o.position,
		Classes:  o.classes,
		Anchor:   scene.Anchor{X: box[0], Y: box[1], Width: box[2], Height: box[3]},
	}
	if o.margin != "" {
		if t.Anchor.Margin, err = parseFloats("margin", o.margin, 1, 4); err != nil {
			return nil, err
		}
	}
	if o.overlay != "" {
		if t.Overlay.Width, t.Overlay.Height, err = parseSize("overlay", o.overlay); err != nil {
			return nil, err
		}
	}
	return &scene.Scene{
		Name:       "place",
		Viewport:   scene.Viewport{Width: vw, Height: vh},
		Stylesheet: o.stylesheet,
		Tooltips:   []scene.Tooltip{t},
	}, nil
}

// parseSize parses "WIDTHxHEIGHT".
func parseSize(name, s string) (float64, float64, error) {
	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, errors.New(errors.ErrCodeInvalidInput, "%s: want WIDTHxHEIGHT, got %q", name, s)
	}
	vals, err := parseFloats(name, w+","+h, 2, 2)
	if err != nil {
		return 0, 0, err
	}
	return vals[0], vals[1], nil
}

// parseFloats parses between minN and maxN comma-separated numbers.
func parseFloats(name, s string, minN, maxN int) ([]float64, error) {
	fields := strings.Split(s, ",")
	if s == "" || len(fields) < minN || len(fields) > maxN {
		if minN == maxN {
			return nil, errors.New(errors.ErrCodeInvalidInput, "%s: want %d comma-separated numbers, got %q", name, minN, s)
		}
		return nil, errors.New(errors.ErrCodeInvalidInput, "%s: want %d to %d comma-separated numbers, got %q", name, minN, maxN, s)
	}
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "%s: %q is not a number", name, f)
		}
		out[i] = v
	}
	return out, nil
}

func boolCount(b bool) int {
	if b {
		return 1
	}
	return 0
}
