package cli

import (
	"errors"
	"strings"

	"todobar-cli/internal/engine"

	"github.com/spf13/cobra"
)

func newTemplateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Manage reusable task templates",
	}
	cmd.AddCommand(newTemplateCreateCmd(app))
	cmd.AddCommand(newTemplateListCmd(app))
	cmd.AddCommand(newTemplateAddCmd(app))
	cmd.AddCommand(newTemplateDeleteCmd(app))
	cmd.AddCommand(newTemplateApplyCmd(app))
	return cmd
}

func newTemplateCreateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create an empty template",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			name := strings.TrimSpace(strings.Join(args, " "))
			if name == "" {
				return writeErr(cmd, errors.New("empty template name"))
			}
			snap := db.Snapshot()
			t, err := engine.CreateTemplate(db, name)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := saveDB(s, db, snap); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": t})
		},
	}
	return cmd
}

func newTemplateListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List templates with their tasks",
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
			type templateView struct {
				ID    string    `json:"id"`
				Name  string    `json:"name"`
				Tasks []listRow `json:"tasks"`
			}
			out := make([]templateView, 0, len(db.Templates))
			for i := range db.Templates {
				t := &db.Templates[i]
				out = append(out, templateView{
					ID:    t.ID,
					Name:  t.Name,
					Tasks: rowsOf(view, engine.ChildrenRows(db, t.RootNodeID, true)),
				})
			}
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"templates": out}})
		},
	}
	return cmd
}

func newTemplateAddCmd(app *App) *cobra.Command {
	var parent string
	cmd := &cobra.Command{
		Use:   "add <template-id> <name>",
		Short: "Add a task to a template",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			name := strings.TrimSpace(strings.Join(args[1:], " "))
			if name == "" {
				return writeErr(cmd, errors.New("empty task name"))
			}
			snap := db.Snapshot()
			n, err := engine.AddTemplateTask(db, args[0], parent, name)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := saveDB(s, db, snap); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": n})
		},
	}
	cmd.Flags().StringVar(&parent, "parent", "", "Parent task id inside the template (default: top level)")
	return cmd
}

func newTemplateDeleteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <template-id>",
		Short: "Delete a template and its tasks",
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
			snap := db.Snapshot()
			if err := engine.DeleteTemplate(db, args[0], view); err != nil {
				return writeErr(cmd, err)
			}
			if err := saveDB(s, db, snap); err != nil {
				return writeErr(cmd, err)
			}
			_ = s.SaveViewState(view)
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"deleted": args[0]}})
		},
	}
	return cmd
}

func newTemplateApplyCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply <template-id>",
		Short: "Copy a template's tasks into the top-level list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			insert, _ := policies(s)
			snap := db.Snapshot()
			created, err := engine.InstantiateTemplate(db, args[0], insert)
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
