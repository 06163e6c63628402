package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tudu/internal"
)

func newInitConfigCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "init-config",
		Short: "Create the default configuration file",
		Args:  cobra.NoArgs,
		// The existing file may be invalid; that is what init-config is for.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath := app.ConfigPath
			if configPath == "" {
				p, err := internal.UserConfigPath()
				if err != nil {
					return fmt.Errorf("failed to get config path: %w", err)
				}
				configPath = p
			}

			out := cmd.OutOrStdout()
			if content, err := os.ReadFile(configPath); err == nil {
				fmt.Fprintf(out, "Configuration file already exists at %s\n", configPath)
				fmt.Fprintln(out, "\nCurrent settings:")
				fmt.Fprintln(out, "=================")
				fmt.Fprintf(out, "%s\n", string(content))
				return nil
			}

			if err := internal.SaveDefaultConfig(configPath); err != nil {
				return fmt.Errorf("failed to create config file: %w", err)
			}
			fmt.Fprintf(out, "Created configuration file at %s\n", configPath)
			return nil
		},
	}
}
