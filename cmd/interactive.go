package cmd

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"tudu/internal"
)

// runInteractive starts the full-screen list. The alternate screen owns
// stdout, so logs only go to a file.
func runInteractive(ctx context.Context, app *App) error {
	logPath := os.Getenv("TUDU_LOG")
	if logPath == "" {
		logPath = app.config.UI.LogFile
	}

	logger := app.newLogger(nil)
	if logPath != "" {
		f, err := tea.LogToFile(logPath, "tudu")
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		logger = app.newLogger(f)
	}

	store, err := app.openStore(ctx, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	logger.Info("starting interactive mode", "store", app.storePath(), "backend", app.config.Storage.Backend)
	return internal.RunInteractive(ctx, store, internal.InteractiveOptions{
		Thresholds:     app.config.Breakpoints,
		Layout:         app.config.Layout.Table(),
		MinThumbHeight: float64(app.config.UI.MinThumbHeight),
		Logger:         logger,
	})
}
