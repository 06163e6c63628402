package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"tudu/internal"
)

// pickTodo asks the user to choose when no ID was given.
var pickTodo = internal.PickTodo

// resolveTodo finds the todo named by args[0], or asks for one.
func resolveTodo(store *internal.Store, args []string, prompt string) (internal.Todo, error) {
	if len(args) > 0 {
		return store.Find(args[0])
	}
	return pickTodo(prompt, store.Sorted())
}

func newToggleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "toggle [id]",
		Aliases: []string{"t", "done"},
		Short:   "Mark a todo completed, or active again",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), app, func(ctx context.Context, store *internal.Store) error {
				todo, err := resolveTodo(store, args, "Toggle which todo?")
				if err != nil {
					return err
				}
				todo, err = store.Toggle(ctx, todo.ID)
				if err != nil {
					return fmt.Errorf("failed to toggle todo: %w", err)
				}
				state := "active"
				if todo.Completed {
					state = "completed"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Todo %s: %s\n", state, todo.Text)
				return nil
			})
		},
	}
}

func newRmCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm [id]",
		Aliases: []string{"delete"},
		Short:   "Delete a todo",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), app, func(ctx context.Context, store *internal.Store) error {
				todo, err := resolveTodo(store, args, "Delete which todo?")
				if err != nil {
					return err
				}
				if err := store.Delete(ctx, todo.ID); err != nil {
					return fmt.Errorf("failed to delete todo: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Todo deleted: %s\n", todo.Text)
				return nil
			})
		},
	}
}

func newClearCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all completed todos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd.Context(), app, func(ctx context.Context, store *internal.Store) error {
				n, err := store.ClearCompleted(ctx)
				if err != nil {
					return fmt.Errorf("failed to clear completed todos: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d completed todo(s) cleared.\n", n)
				return nil
			})
		},
	}
}

func withStore(ctx context.Context, app *App, fn func(context.Context, *internal.Store) error) error {
	store, err := app.openStore(ctx, nil)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(ctx, store)
}
