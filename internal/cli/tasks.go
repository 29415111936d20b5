package cli

import (
	"errors"
	"strings"

	"todobar-cli/internal/clipboard"
	"todobar-cli/internal/engine"
	"todobar-cli/internal/pathcmd"
	"todobar-cli/internal/store"

	"github.com/spf13/cobra"
)

// listRow is the flattened JSON shape for list/show output.
type listRow struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Completed    bool   `json:"completed"`
	Depth        int    `json:"depth"`
	DisplayOrder int    `json:"displayOrder"`
	ParentID     string `json:"parentId,omitempty"`
	Collapsed    bool   `json:"collapsed,omitempty"`
}

func rowsOf(view *store.ViewState, rows []engine.VisibleRow) []listRow {
	out := make([]listRow, len(rows))
	for i, r := range rows {
		parent := ""
		if r.Node.ParentID != nil {
			parent = *r.Node.ParentID
		}
		out[i] = listRow{
			ID:           r.Node.ID,
			Name:         r.Node.Name,
			Completed:    r.Node.Completed,
			Depth:        r.Depth,
			DisplayOrder: r.Node.DisplayOrder,
			ParentID:     parent,
			Collapsed:    view.IsCollapsed(r.Node.ID),
		}
	}
	return out
}

func newAddCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <path>",
		Short: "Add a task by slash path, creating missing ancestors",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			insert, _ := policies(s)
			snap := db.Snapshot()
			n, err := pathcmd.AddFromPath(db, strings.Join(args, " "), insert)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := saveDB(s, db, snap); err != nil {
				return writeErr(cmd, err)
			}
			p, _ := pathcmd.PathString(db, n.ID)
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"task": n, "path": p}})
		},
	}
	return cmd
}

func newSubtaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subtask <parent-id> <name>",
		Short: "Add a subtask under an existing task",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			parentID := strings.TrimSpace(args[0])
			name := strings.TrimSpace(strings.Join(args[1:], " "))
			if name == "" {
				return writeErr(cmd, errors.New("empty subtask name"))
			}
			p, ok := db.FindNode(parentID)
			if !ok || p.Template {
				return writeErr(cmd, errNotFound("task", parentID))
			}
			insert, _ := policies(s)
			snap := db.Snapshot()
			n := engine.CreateNode(db, p.ID, name, false, insert.AtTop(p.ID))
			if err := saveDB(s, db, snap); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": n})
		},
	}
	return cmd
}

func newListCmd(app *App) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks in display order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			view, err := s.LoadViewState()
			if err != nil {
				return writeErr(cmd, err)
			}
			var rows []engine.VisibleRow
			if all {
				rows = engine.ChildrenRows(db, "", false)
			} else {
				rows = engine.VisibleOrder(db, view)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"tasks": rowsOf(view, rows)}})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Include tasks hidden by collapsed ancestors")
	return cmd
}

func newShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a task and its subtree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			view, err := s.LoadViewState()
			if err != nil {
				return writeErr(cmd, err)
			}
			id := strings.TrimSpace(args[0])
			n, ok := db.FindNode(id)
			if !ok {
				return writeErr(cmd, errNotFound("task", id))
			}
			p, _ := pathcmd.PathString(db, n.ID)
			return writeOut(cmd, app, map[string]any{"data": map[string]any{
				"task":    n,
				"path":    p,
				"subtree": rowsOf(view, engine.SubtreeRows(db, n.ID)),
			}})
		},
	}
	return cmd
}

func newToggleCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "toggle <id>...",
		Short: "Toggle completion",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			snap := db.Snapshot()
			var out []any
			for _, id := range args {
				n, ok := db.FindNode(strings.TrimSpace(id))
				if !ok {
					return writeErr(cmd, errNotFound("task", id))
				}
				n.Completed = !n.Completed
				out = append(out, n)
			}
			if err := saveDB(s, db, snap); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	}
	return cmd
}

func newRenameCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Rename a task (blank names leave it unchanged)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id := strings.TrimSpace(args[0])
			n, ok := db.FindNode(id)
			if !ok {
				return writeErr(cmd, errNotFound("task", id))
			}
			name := strings.TrimSpace(strings.Join(args[1:], " "))
			if name == "" || name == n.Name {
				// Committing an empty edit keeps the old name.
				return writeOut(cmd, app, map[string]any{"data": n})
			}
			snap := db.Snapshot()
			n.Name = name
			if err := saveDB(s, db, snap); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": n})
		},
	}
	return cmd
}

func newMoveCmd(app *App) *cobra.Command {
	var up, down bool
	var before, after string
	cmd := &cobra.Command{
		Use:   "move <id>",
		Short: "Reorder a task among its siblings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			modes := 0
			for _, on := range []bool{up, down, before != "", after != ""} {
				if on {
					modes++
				}
			}
			if modes != 1 {
				return writeErr(cmd, errors.New("provide exactly one of --up, --down, --before or --after"))
			}

			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			id := strings.TrimSpace(args[0])
			n, ok := db.FindNode(id)
			if !ok {
				return writeErr(cmd, errNotFound("task", id))
			}
			parentID := ""
			if n.ParentID != nil {
				parentID = strings.TrimSpace(*n.ParentID)
			}
			template := n.Template

			snap := db.Snapshot()
			moved := true
			switch {
			case up || down:
				dir := engine.Up
				if down {
					dir = engine.Down
				}
				moved, err = engine.Move(db, id, dir)
			default:
				refID := before
				placeBefore := true
				if after != "" {
					refID = after
					placeBefore = false
				}
				ref, ok := db.FindNode(strings.TrimSpace(refID))
				if !ok {
					return writeErr(cmd, errNotFound("task", refID))
				}
				refParent := ""
				if ref.ParentID != nil {
					refParent = strings.TrimSpace(*ref.ParentID)
				}
				if refParent != parentID || ref.Template != template {
					return writeErr(cmd, errors.New("tasks must share a parent to reorder"))
				}
				err = engine.ReorderByDrag(db, id, ref.ID, parentID, template, placeBefore)
			}
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := saveDB(s, db, snap); err != nil {
				return writeErr(cmd, err)
			}
			n, _ = db.FindNode(id)
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"task": n, "moved": moved}})
		},
	}
	cmd.Flags().BoolVar(&up, "up", false, "Swap with the sibling above")
	cmd.Flags().BoolVar(&down, "down", false, "Swap with the sibling below")
	cmd.Flags().StringVar(&before, "before", "", "Move before sibling id")
	cmd.Flags().StringVar(&after, "after", "", "Move after sibling id")
	return cmd
}

func newDuplicateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "duplicate <id>...",
		Short: "Deep-copy tasks next to their originals",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			for _, id := range args {
				if _, ok := db.FindNode(strings.TrimSpace(id)); !ok {
					return writeErr(cmd, errNotFound("task", id))
				}
			}
			snap := db.Snapshot()
			created, err := engine.DuplicateMany(db, args, nil)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := saveDB(s, db, snap); err != nil {
				return writeErr(cmd, err)
			}
			var out []any
			for _, id := range created {
				if n, ok := db.FindNode(id); ok {
					out = append(out, n)
				}
			}
			return writeOut(cmd, app, map[string]any{"data": out})
		},
	}
	return cmd
}

func newDeleteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete tasks with their whole subtrees",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			view, err := s.LoadViewState()
			if err != nil {
				return writeErr(cmd, err)
			}
			snap := db.Snapshot()
			if err := engine.DeleteMany(db, args, view, nil); err != nil {
				return writeErr(cmd, err)
			}
			if err := saveDB(s, db, snap); err != nil {
				return writeErr(cmd, err)
			}
			_ = s.SaveViewState(view)
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"deleted": args}})
		},
	}
	return cmd
}

func newClearCompletedCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear-completed",
		Short: "Delete completed tasks per the configured policy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			view, err := s.LoadViewState()
			if err != nil {
				return writeErr(cmd, err)
			}
			_, clear := policies(s)
			snap := db.Snapshot()
			cleared, err := engine.ClearCompleted(db, clear, view, nil)
			if err != nil {
				return writeErr(cmd, err)
			}
			if len(cleared) > 0 {
				if err := saveDB(s, db, snap); err != nil {
					return writeErr(cmd, err)
				}
				_ = s.SaveViewState(view)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"cleared": cleared}})
		},
	}
	return cmd
}

func newCollapseCmd(app *App) *cobra.Command {
	return newCollapseStateCmd(app, "collapse", "Hide a task's children", true)
}

func newExpandCmd(app *App) *cobra.Command {
	return newCollapseStateCmd(app, "expand", "Show a task's children", false)
}

func newCollapseStateCmd(app *App, use, short string, collapsed bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use + " <id>...",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			view, err := s.LoadViewState()
			if err != nil {
				return writeErr(cmd, err)
			}
			for _, id := range args {
				if _, ok := db.FindNode(strings.TrimSpace(id)); !ok {
					return writeErr(cmd, errNotFound("task", id))
				}
				view.SetCollapsed(id, collapsed)
			}
			if err := s.SaveViewState(view); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"ids": args, "collapsed": collapsed}})
		},
	}
	return cmd
}

func newPathCmd(app *App) *cobra.Command {
	var copyFlag bool
	cmd := &cobra.Command{
		Use:   "path <id>",
		Short: "Print a task's canonical slash path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			p, err := pathcmd.PathString(db, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if copyFlag {
				if err := clipboard.Copy(p); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"path": p, "copied": copyFlag}})
		},
	}
	cmd.Flags().BoolVar(&copyFlag, "copy", false, "Also copy the path to the clipboard")
	return cmd
}

func newSuggestCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suggest <partial-path>",
		Short: "Autocomplete the last segment of a slash path",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, _, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			ac := pathcmd.NewAutocomplete()
			ac.Update(db, strings.Join(args, " "))
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"suggestions": ac.Suggestions}})
		},
	}
	return cmd
}
