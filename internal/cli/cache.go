package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/overlay/pkg/cache"
	"github.com/matzehuels/overlay/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage cached placements and artifacts",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached placement and artifact",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.Config.Cache
			if cfg.Backend == config.BackendNone {
				printInfo("Caching is disabled")
				return nil
			}

			store, err := openCache(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			cleared, err := cache.Clear(cmd.Context(), store)
			if err != nil {
				return err
			}
			if !cleared {
				printWarning("The %s cache cannot be cleared", cfg.Backend)
				return nil
			}
			printSuccess("Cleared the %s cache", backendName(cfg.Backend))
			if fc, ok := store.(*cache.FileCache); ok {
				printDetail("Directory: %s", fc.Dir())
			}
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the cache lives",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.Config.Cache
			switch cfg.Backend {
			case config.BackendRedis:
				fmt.Fprintln(cmd.OutOrStdout(), "redis://" + cfg.RedisAddr)
			case config.BackendMongo:
				fmt.Fprintln(cmd.OutOrStdout(), cfg.MongoURI)
			case config.BackendNone:
				printInfo("Caching is disabled")
			default:
				dir, err := cacheDirFor(cfg)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), dir)
			}
			return nil
		},
	}
}

func backendName(b string) string {
	if b == "" {
		return config.BackendFile
	}
	return b
}
