package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "charm.land/bubbletea/v2"
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/oakwood-commons/tabc/internal/completion"
	"github.com/oakwood-commons/tabc/internal/config"
	"github.com/oakwood-commons/tabc/internal/console"
	"github.com/oakwood-commons/tabc/internal/watch"
	"github.com/oakwood-commons/tabc/pkg/logger"
	"github.com/oakwood-commons/tabc/pkg/settings"
)

var (
	configFile   string
	catalogPath  string
	backend      string
	watchCatalog bool
	insertMode   bool
	logLevel     int8
	logFormat    string
	logFile      string
	noColor      bool
	keepGoing    bool

	rootCtx   = context.Background()
	effective config.Config
	logSink   io.Closer
)

var rootCmd = &cobra.Command{
	Use:   settings.CliBinaryName,
	Short: "tabc - expression console with cycling tab completion",
	Long: `tabc runs an interactive console over an object graph. Tab and Shift+Tab
cycle through the names valid at the caret: instances, members after '.',
values assignable to the left-hand side after '=', and arguments matching
the parameter type inside a method call.

Without --catalog a built-in demo graph is loaded. When standard input is not
a terminal, commands are read from it one per line.`,
	Example:       "\n  tabc\n  tabc --catalog catalog.yaml --watch\n  echo 'foo.ToString()' | tabc\n  tabc complete --buffer 'foo.T' --times 2",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := resolveConfig(cmd)
		if err != nil {
			return err
		}
		effective = cfg
		run := runSettings(cfg)

		lgr, err := setupLogger(cmd, run)
		if err != nil {
			return err
		}
		lgr = logger.WithValues(lgr, logger.RootCommandKey, settings.CliBinaryName, logger.SubCommandKey, cmd.Name())
		rootCtx = settings.IntoContext(logger.WithLogger(context.Background(), lgr), run)
		return nil
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		logger.Sync()
		if logSink != nil {
			_ = logSink.Close()
			logSink = nil
		}
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runConsole(cmd)
	},
}

// resolveConfig loads the config file and lets explicitly set flags win.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	flags := cmd.Flags()
	if flags.Changed("catalog") {
		cfg.Catalog.Path = catalogPath
	}
	if flags.Changed("backend") {
		cfg.Console.Backend = backend
	}
	if flags.Changed("watch") {
		cfg.Catalog.Watch = watchCatalog
	}
	if flags.Changed("insert") && insertMode {
		cfg.Console.Mode = completion.ReplaceToken.String()
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = logFormat
	}
	if flags.Changed("log-file") {
		cfg.Log.File = logFile
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func runSettings(cfg config.Config) *settings.Run {
	run := settings.NewCliParams()
	run.MinLogLevel = cfg.Log.Level
	run.LogFormat = cfg.Log.Format
	run.LogFile = cfg.Log.File
	run.ConfigPath = configFile
	run.CatalogPath = cfg.Catalog.Path
	run.Backend = cfg.Console.Backend
	run.Mode = cfg.Console.Mode
	run.Watch = cfg.Catalog.Watch
	run.NoColor = noColor
	run.ExitOnError = !keepGoing
	return run
}

// setupLogger writes to the log file when one is configured. The interactive
// console otherwise logs nowhere so the terminal stays clean.
func setupLogger(cmd *cobra.Command, run *settings.Run) (*logr.Logger, error) {
	if run.LogFile != "" {
		f, err := logger.OpenFile(run.LogFile)
		if err != nil {
			return nil, err
		}
		logSink = f
		return logger.Setup(logger.Options{Level: run.MinLogLevel, Format: run.LogFormat, Output: f}), nil
	}
	if interactive(cmd) {
		return logger.GetNoopLogger(), nil
	}
	return logger.Setup(logger.Options{Level: run.MinLogLevel, Format: run.LogFormat, Output: cmd.ErrOrStderr()}), nil
}

// interactive reports whether cmd starts the terminal console: the root
// command reading from a TTY.
func interactive(cmd *cobra.Command) bool {
	return !cmd.HasParent() && isTerminal(cmd.InOrStdin())
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func runConsole(cmd *cobra.Command) error {
	ctx := rootCtx
	lgr := logger.FromContext(ctx)
	run := settings.FromContextOrDefault(ctx)

	sess, err := newSession(effective, *lgr)
	if err != nil {
		return err
	}

	if !isTerminal(cmd.InOrStdin()) {
		return console.RunScript(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(), sess.exec,
			console.ScriptOptions{StopOnError: run.ExitOnError, Logger: *lgr})
	}

	mode, _ := completion.ParseMode(effective.Console.Mode)
	opts := console.Options{
		Prompt:       effective.Console.Prompt,
		HistorySize:  effective.Console.HistorySize,
		PreviewLimit: effective.Console.PreviewLimit,
		NoColor:      run.NoColor,
		Mode:         mode,
		Logger:       *lgr,
	}
	if sess.path != "" {
		opts.Reload = sess.reload
		opts.Rebind = sess.harvester.Reharvest
	}
	m := console.New(ctx, sess.cat, sess.exec, opts)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	prog := tea.NewProgram(m, tea.WithContext(runCtx), tea.WithInput(cmd.InOrStdin()), tea.WithOutput(cmd.OutOrStdout()))

	if effective.Catalog.Watch && sess.path != "" {
		w, err := watch.New(sess.path, func() { prog.Send(console.ReloadMsg{}) },
			watch.WithDebounce(effective.Catalog.Debounce), watch.WithLogger(*lgr))
		if err != nil {
			return fmt.Errorf("watch catalog: %w", err)
		}
		if err := w.Start(runCtx); err != nil {
			return fmt.Errorf("watch catalog: %w", err)
		}
		defer w.Stop()
	}

	_, err = prog.Run()
	return err
}

func init() { //nolint:gochecknoinits
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "path to a YAML config file (default $XDG_CONFIG_HOME/tabc/config.yaml)")
	pf.StringVarP(&catalogPath, "catalog", "c", "", "catalog definition file (yaml|json|toml); the demo graph when empty")
	pf.StringVarP(&backend, "backend", "b", "expr", "command backend: expr|cel")
	pf.BoolVar(&insertMode, "insert", false, "replace only the completed token and keep the text after it")
	pf.Int8Var(&logLevel, "log-level", 0, "minimum log level (zap levels: -2 most verbose, 0 info)")
	pf.StringVar(&logFormat, "log-format", "json", "log encoding: json|console")
	pf.StringVar(&logFile, "log-file", "", "append logs to this file")
	pf.BoolVar(&noColor, "no-color", false, "disable color output")
	rootCmd.Flags().BoolVarP(&watchCatalog, "watch", "w", false, "reload the catalog file when it changes")
	rootCmd.Flags().BoolVar(&keepGoing, "keep-going", false, "with piped input, run every line even after a failure")

	rootCmd.Version = cliVersionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")
	rootCmd.AddCommand(versionCmd, completeCmd, catalogCmd, configCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
