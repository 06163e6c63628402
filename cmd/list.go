package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"tudu/internal"
)

func newListCmd(app *App) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list", "l"},
		Short:   "List todos",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := app.openStore(ctx, nil)
			if err != nil {
				return err
			}
			defer store.Close()

			f := store.Filter()
			if cmd.Flags().Changed("filter") {
				if f, err = internal.ParseFilter(filter); err != nil {
					return err
				}
			}

			printTodos(cmd.OutOrStdout(), store.VisibleWith(f), store.ItemsLeft())
			return nil
		},
	}

	cmd.Flags().StringVarP(&filter, "filter", "f", "", "Show all, active or completed todos (default: the saved filter)")
	return cmd
}

func printTodos(w io.Writer, todos []internal.Todo, itemsLeft int) {
	if len(todos) == 0 {
		fmt.Fprintln(w, "No todos found.")
	}
	for _, todo := range todos {
		if todo.Completed {
			// Dim gray, like the completed rows of the terminal UI.
			fmt.Fprintf(w, "%s \x1b[90m%s %s\x1b[0m\n", todo.ShortID(), todo.DisplayCheckbox(), todo.Text)
		} else {
			fmt.Fprintf(w, "%s %s %s\n", todo.ShortID(), todo.DisplayCheckbox(), todo.Text)
		}
	}
	fmt.Fprintf(w, "\n%s\n", internal.ItemsLeftLabel(itemsLeft))
}
