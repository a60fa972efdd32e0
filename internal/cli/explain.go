package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/overlay/pkg/errors"
	"github.com/matzehuels/overlay/pkg/pipeline"
	"github.com/matzehuels/overlay/pkg/render/sink"
	"github.com/matzehuels/overlay/pkg/scene"
)

type explainOpts struct {
	ids    []string
	dot    bool
	engine engineOverride
}

// explainCommand prints the candidates the solver tried for each tooltip.
func (c *CLI) explainCommand() *cobra.Command {
	var opts explainOpts

	cmd := &cobra.Command{
		Use:   "explain [scene]",
		Short: "Show the fallback search for tooltips of a scene",
		Long: `Explain places the tooltips of a scene and prints, for each one, every
candidate side that was applied, its rectangle and whether it was clipped.`,
		Example: `  overlay explain page.toml --id save
  overlay explain page.toml --dot | dot -Tsvg > trace.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := scene.Load(args[0])
			if err != nil {
				return err
			}
			frame, err := pipeline.Place(cmd.Context(), s, pipeline.Options{
				Engine: c.engine(opts.engine),
				Logger: loggerFromContext(cmd.Context()),
			})
			if err != nil {
				return err
			}
			if frame, err = selectPlacements(frame, opts.ids); err != nil {
				return err
			}

			if opts.dot {
				_, err := fmt.Fprint(cmd.OutOrStdout(), sink.TraceDOT(frame))
				return err
			}
			for _, p := range frame.Placements {
				printResult(p.ID, p.Result, p.Style)
				fmt.Fprintln(stdout, traceTable(p.Result.Trace))
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&opts.ids, "id", nil, "tooltip id(s) to explain (default all)")
	cmd.Flags().BoolVar(&opts.dot, "dot", false, "print the search as a Graphviz DOT graph")
	opts.engine.register(cmd)

	return cmd
}

// selectPlacements keeps the placements named by ids, in ids order.
func selectPlacements(f sink.Frame, ids []string) (sink.Frame, error) {
	if len(ids) == 0 {
		return f, nil
	}
	byID := make(map[string]scene.Placement, len(f.Placements))
	for _, p := range f.Placements {
		byID[p.ID] = p
	}
	out := f
	out.Placements = make([]scene.Placement, 0, len(ids))
	for _, id := range ids {
		p, ok := byID[id]
		if !ok {
			return sink.Frame{}, errors.New(errors.ErrCodeElementNotFound, "no tooltip %q in scene %s", id, f.Name)
		}
		out.Placements = append(out.Placements, p)
	}
	return out, nil
}
