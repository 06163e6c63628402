package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "add <text>",
		Aliases: []string{"a"},
		Short:   "Add a new todo",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := app.openStore(ctx, nil)
			if err != nil {
				return err
			}
			defer store.Close()

			todo, err := store.Add(ctx, strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("failed to add todo: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Todo added: %s %s\n", todo.ShortID(), todo.Text)
			return nil
		},
	}
}
