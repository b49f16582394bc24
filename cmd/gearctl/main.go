// Command gearctl is the operator CLI of the gear search engine: it runs
// extraction and searches from the terminal, imports catalog files and
// manages database migrations.
//
// All commands support --json for automation.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/gearcatalog-backend/internal/app"
	"github.com/heartmarshall/gearcatalog-backend/internal/config"
)

// rootOptions holds the global flags shared by every subcommand.
type rootOptions struct {
	cfgFile    string
	outputJSON bool
	noColor    bool
	verbose    bool

	ui     *UI
	logger *slog.Logger
}

// loadConfig reads the config file (or CONFIG_PATH, or ./config.yaml).
// Commands that need no database never call it.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	path := o.cfgFile
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	cfg, err := config.LoadPath(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "gearctl",
		Short: "Gear search engine CLI",
		Long: `gearctl runs the gear search engine from the terminal.

Use this tool to:
- Extract gear candidates from chat messages
- Search and resolve against a catalog file or the database
- Import catalog files into PostgreSQL
- Apply and inspect database migrations`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			opts.ui = NewUI(cmd.OutOrStdout(), cmd.ErrOrStderr(), opts.outputJSON, opts.noColor)

			level := "warn"
			if opts.verbose {
				level = "debug"
			}
			opts.logger = app.NewLogger(config.LogConfig{Level: level, Format: "text"})
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&opts.cfgFile, "config", "c", "", "config file path (default: CONFIG_PATH or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&opts.outputJSON, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(newExtractCmd(opts))
	rootCmd.AddCommand(newSearchCmd(opts))
	rootCmd.AddCommand(newResolveCmd(opts))
	rootCmd.AddCommand(newImportCmd(opts))
	rootCmd.AddCommand(newMigrateCmd(opts))
	rootCmd.AddCommand(newVersionCmd(opts))

	return rootCmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "gearctl:", err)
		os.Exit(1)
	}
}

// newVersionCmd creates the version subcommand.
func newVersionCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.outputJSON {
				return opts.ui.JSON(app.ReadBuildInfo())
			}
			fmt.Fprintf(cmd.OutOrStdout(), "gearctl %s\n", app.BuildVersion())
			return nil
		},
	}
}
