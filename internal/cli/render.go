package cli

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/overlay/pkg/errors"
	"github.com/matzehuels/overlay/pkg/pipeline"
	"github.com/matzehuels/overlay/pkg/scene"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string   // output file (single format) or base path
	formats []string // svg, json, dot, trace, png, pdf
	trace   bool     // draw rejected candidates
	scale   float64  // PNG scale factor
	refresh bool     // bypass cached placements and artifacts
	noCache bool
	engine  engineOverride
}

// renderCommand creates the render command for turning scenes into artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{scale: pipeline.DefaultScale}

	cmd := &cobra.Command{
		Use:   "render [scene]",
		Short: "Place every tooltip of a scene and write artifacts",
		Long: `Render loads a TOML or JSON scene, shows every tooltip and writes the
result in each requested format. Formats: svg (default), json, dot,
trace (the fallback search drawn with graphviz), png and pdf (both need
rsvg-convert).`,
		Example: `  overlay render page.toml
  overlay render page.toml -f svg,json --trace -o out/page`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats, err := parseFormats(formatsStr)
			if err != nil {
				return err
			}
			opts.formats = formats
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json, dot, trace, png, pdf (comma-separated)")
	cmd.Flags().BoolVar(&opts.trace, "trace", false, "draw rejected candidates")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached results")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	opts.engine.register(cmd)

	return cmd
}

// parseFormats parses the --format flag. Empty selects svg.
func parseFormats(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return []string{pipeline.FormatSVG}, nil
	}
	return pipeline.ParseFormats(s)
}

func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	data, err := readScene(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	var spin *Spinner
	if needsConverter(opts.formats) {
		spin = newSpinnerWithContext(ctx, "Converting "+input)
		spin.Start()
	}
	result, err := runner.Execute(ctx, pipeline.Options{
		Scene:       data,
		SceneFormat: scene.FormatFromPath(input),
		SceneName:   sceneName(input),
		Engine:      c.engine(opts.engine),
		Formats:     opts.formats,
		Trace:       opts.trace,
		Scale:       opts.scale,
		Refresh:     opts.refresh,
		Logger:      logger,
	})
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return err
	}

	paths, err := writeArtifacts(result.Artifacts, opts.output, input)
	if err != nil {
		return err
	}

	prog.done("Rendered " + result.Scene.Name)
	printSuccess("Rendered %s", result.Scene.Name)
	printStats(result.Stats.Tooltips, result.Stats.Visible, result.Stats.Compressed,
		result.CacheInfo.PlaceHit && result.CacheInfo.RenderHit)
	for _, p := range paths {
		printFile(p)
	}
	return nil
}

// writeArtifacts writes each artifact next to the output base and returns
// the paths in format order.
func writeArtifacts(artifacts map[string][]byte, output, input string) ([]string, error) {
	formats := make([]string, 0, len(artifacts))
	for f := range artifacts {
		formats = append(formats, f)
	}
	sort.Strings(formats)

	var paths []string
	for _, format := range formats {
		path := output
		if len(formats) > 1 || path == "" {
			path = basePath(output, input) + pipeline.Extension(format)
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInternal, err, "create %s", dir)
			}
		}
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .json, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	output = strings.TrimSuffix(output, pipeline.Extension(pipeline.FormatTrace))
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// readScene reads a scene file, mapping a missing file to FILE_NOT_FOUND.
func readScene(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "scene %s not found", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read scene %s", path)
	}
	return data, nil
}

func sceneName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

func needsConverter(formats []string) bool {
	for _, f := range formats {
		if f == pipeline.FormatPNG || f == pipeline.FormatPDF {
			return true
		}
	}
	return false
}
