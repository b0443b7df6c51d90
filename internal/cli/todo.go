package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada/internal/api"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/ui"
)

func newListCmd(e *env) *cobra.Command {
	var (
		tabFlag string
		group   bool
	)
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List todos",
		Args:    withUsage(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			tab, err := model.ParseTab(tabFlag)
			if err != nil {
				return usageErrorf("ls: %v", err)
			}
			client, err := e.client()
			if err != nil {
				return err
			}
			// Fetch everything and filter here, like the interactive lists.
			todos, err := client.GetAll(cmd.Context(), model.StatusCompleted, model.StatusPending)
			if err != nil {
				return fmt.Errorf("load: %w", err)
			}
			fmt.Fprintln(e.out, listPanel(todos, tab, group))
			return nil
		},
	}
	cmd.Flags().StringVarP(&tabFlag, "tab", "t", string(model.DefaultTab), "all, pending or completed")
	cmd.Flags().BoolVarP(&group, "group", "g", false, "group output by pending/completed")
	return cmd
}

func newAddCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "add <body...>",
		Short: "Add a new todo (body can be multiple words)",
		Args:  withUsage(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := model.NormalizeBody(strings.Join(args, " "))
			if err != nil {
				return usageErrorf("add: %v", err)
			}
			client, err := e.client()
			if err != nil {
				return err
			}
			t, err := client.Create(cmd.Context(), body)
			if err != nil {
				return fmt.Errorf("add: %w", err)
			}
			ui.OK(e.out, fmt.Sprintf("added #%d", t.ID))
			return nil
		},
	}
}

func newDoneCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:     "done <id>",
		Aliases: []string{"toggle"},
		Short:   "Toggle a todo between pending and completed",
		Args:    withUsage(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("done", args[0])
			if err != nil {
				return err
			}
			client, err := e.client()
			if err != nil {
				return err
			}
			todos, err := client.GetAll(cmd.Context(), model.StatusCompleted, model.StatusPending)
			if err != nil {
				return fmt.Errorf("load: %w", err)
			}
			todo, ok := model.Find(todos, id)
			if !ok {
				return notFound(e, "done", id)
			}
			next := todo.Status.Toggled()
			if _, err := client.UpdateStatus(cmd.Context(), id, next); err != nil {
				if api.IsNotFound(err) {
					return notFound(e, "done", id)
				}
				return fmt.Errorf("done: %w", err)
			}
			ui.OK(e.out, fmt.Sprintf("#%d marked %s", id, next))
			return nil
		},
	}
}

func newRemoveCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a todo",
		Args:    withUsage(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("rm", args[0])
			if err != nil {
				return err
			}
			client, err := e.client()
			if err != nil {
				return err
			}
			if err := client.Delete(cmd.Context(), id); err != nil {
				if api.IsNotFound(err) {
					return notFound(e, "rm", id)
				}
				return fmt.Errorf("rm: %w", err)
			}
			ui.OK(e.out, fmt.Sprintf("removed #%d", id))
			return nil
		},
	}
}

func parseID(op, s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(s, "#"), 10, 64)
	if err != nil || id < 1 {
		return 0, usageErrorf("%s: not a todo id: %s", op, s)
	}
	return id, nil
}

func notFound(e *env, op string, id int64) error {
	ui.Fail(e.errOut, fmt.Sprintf("%s: no todo with id %d", op, id))
	fmt.Fprintln(e.errOut, ui.Current().Muted.Render("Hint: run `tada ls` to see valid ids"))
	return &exitErr{code: exitUsage}
}
