package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"github.com/idelchi/treewalk/internal/config"
	"github.com/idelchi/treewalk/internal/integration"
)

// CLI represents the command-line interface.
type CLI struct {
	version string
}

// New creates a new CLI instance with the given version.
func New(version string) CLI {
	return CLI{version: version}
}

// Execute runs the CLI with the process arguments. Ctrl-C cancels the walk.
func (c CLI) Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return c.Command().ExecuteContext(ctx)
}

// Command builds the root command. Each call gets its own configuration
// instance.
//
//nolint:funlen // Flag declarations
func (c CLI) Command() *cobra.Command {
	var (
		configFile string
		initScript bool
	)

	v := config.New()

	cmd := &cobra.Command{
		Use:   "treewalk [flags] [path]",
		Short: "Walk a directory tree and apply an action to every file",
		Long: heredoc.Doc(`
			treewalk walks a directory tree and applies an action to every regular file.

			Directories are processed one at a time. A directory holding fewer files than
			the threshold is processed sequentially; larger directories are processed by a
			bounded pool of workers. Unreadable directories and failing files are reported
			and skipped without stopping the walk.

			Positional Arguments:
			  path                   Directory to walk. Defaults to current directory if not specified.

			Actions:
			  read    read every file in full (default)
			  stat    stat every file and sum the sizes
			  print   print every path, one per line
			  noop    do nothing, only count

			Every flag can also be set through a TREEWALK_<FLAG> environment variable
			or a YAML file passed with --config.

			The '--init' flag prints a zsh integration that pipes 'treewalk --action print'
			into 'fzf'.
		`),
		Example: heredoc.Doc(`
			treewalk ~/src
			treewalk --action stat --threshold 64 --output json /var/log
			TREEWALK_WORKERS=4 treewalk --verify .
		`),
		Args:          cobra.MaximumNArgs(1),
		Version:       c.version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if initScript {
				return printIntegration(cmd)
			}

			cfg, err := config.Load(v, configFile)
			if err != nil {
				return err
			}

			path := "."
			if len(args) > 0 {
				path = args[0]
			}

			return logic(cmd.Context(), cfg, path, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	flags := cmd.Flags()
	flags.SortFlags = false

	flags.StringP("action", "a", "read", "Action to apply to every file: noop, read, stat or print")
	flags.IntP("threshold", "T", runtime.NumCPU(), "Files per directory at which processing becomes parallel")
	flags.IntP("workers", "w", runtime.NumCPU(), "Maximum concurrent actions in a parallel directory")
	flags.StringSliceP("exclude", "e", config.DefaultExcludes, "Regex patterns to exclude")
	flags.StringSliceP(
		"ext",
		"x",
		[]string{},
		"File suffixes to include (e.g., .go,.md). Use '!' prefix to exclude (e.g., !.log,!_test.go)",
	)
	flags.IntP("depth", "d", 0, "Maximum traversal depth (0=unlimited)")
	flags.Bool("follow", false, "Follow symbolic links (cycles are not detected)")
	flags.StringP("output", "o", "table", "Output format: table, json, yaml or none")
	flags.Bool("verify", false, "Count files with a parallel census and fail on a mismatch")
	flags.Bool("debug", false, "Enable debug output")
	flags.StringVarP(&configFile, "config", "c", "", "YAML configuration file")
	flags.BoolVarP(&initScript, "init", "i", false, "Output init script for shell usage")

	for key, name := range map[string]string{
		config.KeyAction:     "action",
		config.KeyThreshold:  "threshold",
		config.KeyWorkers:    "workers",
		config.KeyExcludes:   "exclude",
		config.KeyExtensions: "ext",
		config.KeyDepth:      "depth",
		config.KeyFollow:     "follow",
		config.KeyOutput:     "output",
		config.KeyVerify:     "verify",
		config.KeyDebug:      "debug",
	} {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(fmt.Sprintf("binding flag %q: %v", name, err))
		}
	}

	return cmd
}

func printIntegration(cmd *cobra.Command) error {
	rendered, err := integration.Render()
	if err != nil {
		return fmt.Errorf("rendering integration script: %w", err)
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)

	return err
}

// errVerification is returned when the walk and the census disagree.
var errVerification = errors.New("verification failed")
