package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/handiism/book-catalog/internal/config"
	"github.com/handiism/book-catalog/internal/event"
	"github.com/handiism/book-catalog/internal/library"
	"github.com/handiism/book-catalog/internal/tui"
)

// app carries the flags and the state shared by every subcommand.
type app struct {
	configFlag  string
	envFlag     string
	storeFlag   string
	backendFlag string
	verboseFlag bool

	settings *config.Settings
	logger   *slog.Logger
	closeLog func() error
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{}
	err := newRootCmd(a).ExecuteContext(ctx)
	if a.closeLog != nil {
		a.closeLog()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "catalog",
		Short:         "Keep track of your books and who borrowed them",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !isTerminal() {
				return cmd.Help()
			}
			return a.runTUI(cmd.Context())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFlag, "config", "", "path to config file (default "+config.DefaultPath()+")")
	flags.StringVar(&a.envFlag, "env-file", ".env", "dotenv file with CATALOG_* overrides")
	flags.StringVar(&a.storeFlag, "store", "", "catalog file or database (overrides config)")
	flags.StringVar(&a.backendFlag, "backend", "", "storage backend: json or sqlite (overrides config)")
	flags.BoolVarP(&a.verboseFlag, "verbose", "v", false, "show debug logs and verbose events")

	root.AddCommand(
		newListCmd(a),
		newAuthorsCmd(a),
		newAddCmd(a),
		newSelectCmd(a),
		newEditCmd(a),
		newDeleteCmd(a),
		newLoanCmd(a),
		newReturnCmd(a),
		newLoansCmd(a),
		newCoversCmd(a),
		newTUICmd(a),
	)

	return root
}

// setup resolves settings from the config file, the environment and the
// flags, in that order.
func (a *app) setup(cmd *cobra.Command) error {
	path := a.configFlag
	if path == "" {
		path = config.DefaultPath()
	}

	settings, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	settings.ApplyEnv(a.envFlag)

	if a.storeFlag != "" {
		settings.StorePath = a.storeFlag
	}
	if a.backendFlag != "" {
		settings.StoreBackend = a.backendFlag
	}
	if a.verboseFlag {
		settings.LogLevel = "debug"
	}
	a.settings = settings

	// the TUI owns the terminal, so it only logs to a file
	fallback := cmd.ErrOrStderr()
	if cmd.Name() == "tui" || (cmd.Parent() == nil && isTerminal()) {
		fallback = nil
	}
	a.logger, a.closeLog, err = settings.OpenLogger(fallback)
	return err
}

func (a *app) open(ctx context.Context, cmd *cobra.Command) (*library.Manager, error) {
	return library.Open(ctx, a.settings, a.logger, a.printer(cmd))
}

// printer writes events for the user to the command's output.
func (a *app) printer(cmd *cobra.Command) event.Func {
	out := cmd.OutOrStdout()
	return func(e event.Event) {
		if e.Level == event.LevelVerbose && !a.verboseFlag {
			return
		}

		prefix := ""
		switch e.Level {
		case event.LevelError:
			prefix = "✗ "
		case event.LevelWarning:
			prefix = "! "
		case event.LevelSuccess:
			prefix = "✓ "
		case event.LevelInfo:
			prefix = "› "
		default:
			prefix = "  "
		}

		fmt.Fprintln(out, prefix+e.Message)
	}
}

func (a *app) runTUI(ctx context.Context) error {
	return tui.Start(ctx, a.settings, a.logger)
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
