package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"kanban/internal/app"
	"kanban/internal/domain"
)

func taskCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "task", Short: "Manage tasks"}
	cmd.AddCommand(taskAddCmd())
	cmd.AddCommand(taskShowCmd())
	cmd.AddCommand(taskEditCmd())
	cmd.AddCommand(taskMoveCmd())
	cmd.AddCommand(taskDeleteCmd())
	cmd.AddCommand(taskToggleSubtaskCmd())
	return cmd
}

func printTask(a *app.App, taskID string) error {
	t, boardID, columnID, ok := a.Store.Task(taskID)
	if !ok {
		return fmt.Errorf("task %s not found", taskID)
	}
	if viper.GetBool("json") {
		return printJSON(map[string]any{"boardId": boardID, "columnId": columnID, "task": t})
	}
	fmt.Printf("%s (%s)\n", t.Title, t.ID)
	fmt.Printf("status: %s  board: %s  column: %s\n", t.Status, boardID, columnID)
	if t.Description != "" {
		fmt.Println(t.Description)
	}
	fmt.Printf("Subtasks (%d of %d)\n", t.CompletedSubtasks(), len(t.Subtasks))
	tw := newTable()
	tw.AppendHeader(table.Row{"", "ID", "Title"})
	for _, st := range t.Subtasks {
		mark := "[ ]"
		if st.IsCompleted {
			mark = "[x]"
		}
		tw.AppendRow(table.Row{mark, st.ID, st.Title})
	}
	tw.Render()
	return nil
}

func taskAddCmd() *cobra.Command {
	var columnID, title, description, status string
	var subtasks []string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a task to a column",
		Long: `Add a task to the column given by --column. Without --column (or when no
column has that id) the task goes to the first column named --status, on the
active board first.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(title) == "" {
				return fmt.Errorf("--title required")
			}
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				in := domain.TaskInput{Title: title, Description: description, Status: status}
				for _, s := range subtasks {
					in.Subtasks = append(in.Subtasks, domain.Subtask{Title: s})
				}
				t, ok := a.Store.AddTask(ctx, columnID, in)
				if !ok {
					return fmt.Errorf("no column %q or column named %q", columnID, status)
				}
				return printTask(a, t.ID)
			})
		},
	}
	cmd.Flags().StringVar(&columnID, "column", "", "column id")
	cmd.Flags().StringVar(&title, "title", "", "task title")
	cmd.Flags().StringVar(&description, "description", "", "task description")
	cmd.Flags().StringVar(&status, "status", "", "column name, used when --column does not match")
	cmd.Flags().StringArrayVar(&subtasks, "subtask", nil, "subtask title (repeatable)")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func taskShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <task-id>",
		Short: "Show a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				return printTask(a, args[0])
			})
		},
	}
}

func taskEditCmd() *cobra.Command {
	var title, description, status string
	var subtasks []string
	cmd := &cobra.Command{
		Use:   "edit <task-id>",
		Short: "Edit a task; a new --status moves it to that column",
		Long: `Edit a task. Only flags given are changed. A --status naming another column
of the same board moves the task there. --subtask replaces the checklist: pass
"<subtask-id>=<title>" to keep an existing item (and its completion) or
"<title>" for a new one.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				current, _, _, ok := a.Store.Task(args[0])
				if !ok {
					return fmt.Errorf("task %s not found", args[0])
				}
				var upd domain.TaskUpdate
				if cmd.Flags().Changed("title") {
					upd.Title = &title
				}
				if cmd.Flags().Changed("description") {
					upd.Description = &description
				}
				if cmd.Flags().Changed("status") {
					upd.Status = &status
				}
				if cmd.Flags().Changed("subtask") {
					subs := parseSubtasks(current.Subtasks, subtasks)
					upd.Subtasks = &subs
				}
				if !a.Store.EditTask(ctx, args[0], upd) {
					return fmt.Errorf("no column named %q on the task's board", status)
				}
				return printTask(a, args[0])
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "task title")
	cmd.Flags().StringVar(&description, "description", "", "task description")
	cmd.Flags().StringVar(&status, "status", "", "column name to move the task to")
	cmd.Flags().StringArrayVar(&subtasks, "subtask", nil, `subtask "[id=]title" (repeatable)`)
	return cmd
}

func parseSubtasks(existing []domain.Subtask, values []string) []domain.Subtask {
	done := map[string]bool{}
	for _, st := range existing {
		done[st.ID] = st.IsCompleted
	}
	out := make([]domain.Subtask, 0, len(values))
	for _, s := range values {
		if id, title, ok := strings.Cut(s, "="); ok {
			if completed, known := done[id]; known {
				out = append(out, domain.Subtask{ID: id, Title: title, IsCompleted: completed})
				continue
			}
		}
		out = append(out, domain.Subtask{Title: s})
	}
	return out
}

func taskMoveCmd() *cobra.Command {
	var to string
	var index int
	cmd := &cobra.Command{
		Use:   "move <task-id>",
		Short: "Move a task to another column of its board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				_, _, from, ok := a.Store.Task(args[0])
				if !ok {
					return fmt.Errorf("task %s not found", args[0])
				}
				var at *int
				if cmd.Flags().Changed("index") {
					at = &index
				}
				if !a.Store.MoveTask(ctx, args[0], from, to, at) {
					return fmt.Errorf("column %s is not on the task's board", to)
				}
				return printTask(a, args[0])
			})
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "destination column id")
	cmd.Flags().IntVar(&index, "index", 0, "position in the destination column (default: end)")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func taskDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <task-id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				if !a.Store.DeleteTask(ctx, args[0]) {
					return fmt.Errorf("task %s not found", args[0])
				}
				fmt.Printf("deleted %s\n", args[0])
				return nil
			})
		},
	}
}

func taskToggleSubtaskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle-subtask <task-id> <subtask-id>",
		Short: "Flip a subtask's completion",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				if !a.Store.ToggleSubtask(ctx, args[0], args[1]) {
					return fmt.Errorf("subtask %s not found on task %s", args[1], args[0])
				}
				return printTask(a, args[0])
			})
		},
	}
}
