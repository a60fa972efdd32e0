package cli

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/overlay/pkg/errors"
	"github.com/matzehuels/overlay/pkg/scene"
	"github.com/matzehuels/overlay/pkg/script"
)

const defaultScriptTimeout = 30 * time.Second

type scriptOpts struct {
	timeout time.Duration
	asJSON  bool
	engine  engineOverride
}

// scriptCommand runs a JavaScript interaction script against a scene.
func (c *CLI) scriptCommand() *cobra.Command {
	opts := scriptOpts{timeout: defaultScriptTimeout}

	cmd := &cobra.Command{
		Use:   "script [scene] [script.js]",
		Short: "Run an interaction script against a scene",
		Long: `Script builds a scene and runs a JavaScript file against it. The script
drives the tooltips with hover(id), focus(id), leave(id), blur(id),
escape(id), resize(w, h) and wait(ms), inspects them with result(id) and
ids(), and reports with log(...) and assert(cond, msg). Time only moves
when the script calls wait.`,
		Example: `  overlay script page.toml checks.js`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runScript(cmd, args[0], args[1], opts)
		},
	}

	cmd.Flags().DurationVar(&opts.timeout, "timeout", opts.timeout, "abort the script after this long")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the report as JSON")
	opts.engine.register(cmd)

	return cmd
}

func (c *CLI) runScript(cmd *cobra.Command, scenePath, scriptPath string, opts scriptOpts) error {
	logger := loggerFromContext(cmd.Context())

	s, err := scene.Load(scenePath)
	if err != nil {
		return err
	}
	src, err := os.ReadFile(scriptPath)
	if os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "script %s not found", scriptPath)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "read script %s", scriptPath)
	}

	page, err := scene.Build(s, scene.BuildOptions{
		Engine: c.engine(opts.engine),
		Logger: logger,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
	defer cancel()

	report, err := script.New(page, logger).Run(ctx, scriptPath, string(src))
	if report != nil && !opts.asJSON {
		for _, line := range report.Logs {
			printDetail("%s", line)
		}
	}
	if err != nil {
		return err
	}

	if opts.asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	printSuccess("%s: %d steps", scriptPath, report.Steps)
	for _, p := range report.Placements {
		if !p.Result.Skipped && p.Result.Attempts > 0 {
			printKeyValue(p.ID, p.Result.Side.String()+"  "+p.Style)
		}
	}
	return nil
}
