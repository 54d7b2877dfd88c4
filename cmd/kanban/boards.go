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

func boardCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "board", Short: "Manage boards"}
	cmd.AddCommand(boardListCmd())
	cmd.AddCommand(boardShowCmd())
	cmd.AddCommand(boardCreateCmd())
	cmd.AddCommand(boardEditCmd())
	cmd.AddCommand(boardDeleteCmd())
	cmd.AddCommand(boardUseCmd())
	return cmd
}

func printBoards(a *app.App) error {
	st := a.Store.State()
	if viper.GetBool("json") {
		return printJSON(st)
	}
	activeID := ""
	if st.ActiveBoard != nil {
		activeID = st.ActiveBoard.ID
	}
	tw := newTable()
	tw.AppendHeader(table.Row{"", "ID", "Name", "Columns", "Tasks"})
	for _, b := range st.Boards {
		marker := ""
		if b.ID == activeID {
			marker = "*"
		}
		tasks := 0
		for _, c := range b.Columns {
			tasks += len(c.Tasks)
		}
		tw.AppendRow(table.Row{marker, b.ID, b.Name, len(b.Columns), tasks})
	}
	tw.Render()
	return nil
}

func printBoard(b domain.Board) error {
	if viper.GetBool("json") {
		return printJSON(b)
	}
	fmt.Printf("%s (%s)\n", b.Name, b.ID)
	tw := newTable()
	tw.AppendHeader(table.Row{"Column", "Task ID", "Title", "Subtasks"})
	for _, c := range b.Columns {
		label := fmt.Sprintf("%s (%d)", c.Name, len(c.Tasks))
		if len(c.Tasks) == 0 {
			tw.AppendRow(table.Row{label, "", "", ""})
			continue
		}
		for i, t := range c.Tasks {
			if i > 0 {
				label = ""
			}
			tw.AppendRow(table.Row{label, t.ID, t.Title, fmt.Sprintf("%d of %d", t.CompletedSubtasks(), len(t.Subtasks))})
		}
		tw.AppendSeparator()
	}
	tw.Render()
	return nil
}

func boardListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List boards (* marks the active board)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				return printBoards(a)
			})
		},
	}
}

func boardShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [board-id]",
		Short: "Show a board's columns and tasks (default: active board)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				b, err := resolveBoard(a, args)
				if err != nil {
					return err
				}
				return printBoard(b)
			})
		},
	}
}

func resolveBoard(a *app.App, args []string) (domain.Board, error) {
	if len(args) == 0 {
		active := a.Store.ActiveBoard()
		if active == nil {
			return domain.Board{}, fmt.Errorf("no boards")
		}
		return *active, nil
	}
	b, ok := a.Store.Board(args[0])
	if !ok {
		return domain.Board{}, fmt.Errorf("board %s not found", args[0])
	}
	return b, nil
}

func boardCreateCmd() *cobra.Command {
	var name string
	var columns []string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a board",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(name) == "" {
				return fmt.Errorf("--name required")
			}
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				return printBoard(a.Store.AddBoard(ctx, name, columns))
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "board name")
	cmd.Flags().StringArrayVar(&columns, "column", nil, "column name (repeatable, in order)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

// parseColumnEdits reads "[id=]name" values; a value without an id is a new column.
func parseColumnEdits(values []string) []domain.ColumnEdit {
	out := make([]domain.ColumnEdit, 0, len(values))
	for _, s := range values {
		if id, name, ok := strings.Cut(s, "="); ok {
			out = append(out, domain.ColumnEdit{ID: strings.TrimSpace(id), Name: name})
			continue
		}
		out = append(out, domain.ColumnEdit{Name: s})
	}
	return out
}

func boardEditCmd() *cobra.Command {
	var name string
	var columns []string
	cmd := &cobra.Command{
		Use:   "edit <board-id>",
		Short: "Rename a board and/or replace its columns",
		Long: `Rename a board and/or replace its column set.
Pass --column once per column, in order, as "<column-id>=<name>" to keep an
existing column (and its tasks) or "<name>" for a new empty column. Columns not
listed are removed together with their tasks.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				b, ok := a.Store.Board(args[0])
				if !ok {
					return fmt.Errorf("board %s not found", args[0])
				}
				newName := b.Name
				if cmd.Flags().Changed("name") {
					newName = name
				}
				edits := make([]domain.ColumnEdit, 0, len(b.Columns))
				for _, c := range b.Columns {
					edits = append(edits, domain.ColumnEdit{ID: c.ID, Name: c.Name})
				}
				if cmd.Flags().Changed("column") {
					edits = parseColumnEdits(columns)
				}
				if !a.Store.EditBoard(ctx, b.ID, newName, edits) {
					return fmt.Errorf("board %s not found", b.ID)
				}
				updated, _ := a.Store.Board(b.ID)
				return printBoard(updated)
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new board name")
	cmd.Flags().StringArrayVar(&columns, "column", nil, `column "[id=]name" (repeatable, in order)`)
	return cmd
}

func boardDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <board-id>",
		Short: "Delete a board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				if !a.Store.DeleteBoard(ctx, args[0]) {
					return fmt.Errorf("board %s not found", args[0])
				}
				return printBoards(a)
			})
		},
	}
}

func boardUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use <board-id>",
		Short: "Select the active board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				if !a.Store.SetActiveBoardByID(ctx, args[0]) {
					return fmt.Errorf("board %s not found", args[0])
				}
				return printBoards(a)
			})
		},
	}
}

func columnCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "column", Short: "Manage columns"}
	cmd.AddCommand(columnAddCmd())
	cmd.AddCommand(columnRenameCmd())
	cmd.AddCommand(columnDeleteCmd())
	return cmd
}

func columnAddCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "add [board-id]",
		Short: "Append a column (default: active board)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				b, err := resolveBoard(a, args)
				if err != nil {
					return err
				}
				if _, ok := a.Store.AddColumn(ctx, b.ID, name); !ok {
					return fmt.Errorf("board %s not found", b.ID)
				}
				updated, _ := a.Store.Board(b.ID)
				return printBoard(updated)
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "column name")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func columnRenameCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "rename <column-id>",
		Short: "Rename a column; its tasks follow the new name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				if !a.Store.EditColumn(ctx, args[0], name) {
					return fmt.Errorf("column %s not found", args[0])
				}
				_, boardID, _ := a.Store.Column(args[0])
				b, _ := a.Store.Board(boardID)
				return printBoard(b)
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "new column name")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func columnDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <column-id>",
		Short: "Delete a column and its tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				_, boardID, ok := a.Store.Column(args[0])
				if !ok || !a.Store.DeleteColumn(ctx, args[0]) {
					return fmt.Errorf("column %s not found", args[0])
				}
				b, _ := a.Store.Board(boardID)
				return printBoard(b)
			})
		},
	}
}
