package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tudu/internal"
)

// App carries the global flags and the loaded configuration.
type App struct {
	ConfigPath string
	File       string
	Backend    string
	Debug      bool

	config *internal.Config
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "tudu",
		Short:        "A todo list for the terminal and the browser",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Interactive mode
  tudu

  # Scriptable commands
  tudu add "Buy milk"
  tudu ls --filter active
  tudu toggle 3f2a
  tudu -t /tmp/test.json add "Test todo"

  # Serve the list over HTTP
  tudu httpd 127.0.0.1:7676
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd.Context(), app)
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.loadConfig()
	}

	cmd.PersistentFlags().StringVarP(&app.File, "file", "t", "", "Path to the todo store (default: ~/.tudu.json, or $TUDU_FILE)")
	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", "", "Path to the config file (default: ~/.config/tudu/config.toml)")
	cmd.PersistentFlags().StringVar(&app.Backend, "backend", "", "Storage backend (file|sqlite)")
	cmd.PersistentFlags().BoolVar(&app.Debug, "debug", false, "Log at debug level")

	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newToggleCmd(app))
	cmd.AddCommand(newRmCmd(app))
	cmd.AddCommand(newClearCmd(app))
	cmd.AddCommand(newHttpdCmd(app))
	cmd.AddCommand(newInitConfigCmd(app))

	return cmd
}

func Execute() {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func (app *App) loadConfig() error {
	config, err := internal.LoadConfig(app.ConfigPath)
	if err != nil {
		return err
	}
	if app.Backend != "" {
		config.Storage.Backend = app.Backend
	}
	if app.Debug {
		config.UI.Debug = true
	}
	if err := config.Validate(); err != nil {
		return err
	}
	app.config = config
	return nil
}

// storePath is --file when given, else the configured location.
func (app *App) storePath() string {
	if app.File != "" {
		return app.File
	}
	return app.config.StorePath()
}

func (app *App) openStore(ctx context.Context, logger *slog.Logger) (*internal.Store, error) {
	backend, err := internal.OpenBackend(ctx, app.config.Storage.Backend, app.storePath())
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	store, err := internal.OpenStore(ctx, backend, logger)
	if err != nil {
		backend.Close()
		return nil, fmt.Errorf("failed to load todos: %w", err)
	}
	store.UseTrash(internal.NewTrash(internal.TrashPath(app.storePath())))
	return store, nil
}

func (app *App) logLevel() slog.Level {
	if app.config.UI.Debug {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// newLogger logs to w, or nowhere when w is nil.
func (app *App) newLogger(w io.Writer) *slog.Logger {
	if w == nil {
		w = io.Discard
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: app.logLevel()}))
}
