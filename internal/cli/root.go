package cli

import (
	"fmt"
	"os"
	"strings"

	"todobar-cli/internal/engine"
	"todobar-cli/internal/format"
	"todobar-cli/internal/store"
	"todobar-cli/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	Dir        string
	PrettyJSON bool
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "todobar",
		Short:        "Hierarchical to-do list (local-first) CLI + TUI",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive outline
  todobar

  # Scriptable commands
  todobar add /Work/Inbox/Call supplier
  todobar list
  todobar suggest /Wo
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("TODOBAR_DIR", ""), "Path to store dir (default: nearest .todobar, else ./.todobar)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")

	cmd.AddCommand(newInitCmd(app))
	cmd.AddCommand(newDocsCmd(app))
	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newSubtaskCmd(app))
	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newShowCmd(app))
	cmd.AddCommand(newToggleCmd(app))
	cmd.AddCommand(newRenameCmd(app))
	cmd.AddCommand(newMoveCmd(app))
	cmd.AddCommand(newDuplicateCmd(app))
	cmd.AddCommand(newDeleteCmd(app))
	cmd.AddCommand(newClearCompletedCmd(app))
	cmd.AddCommand(newCollapseCmd(app))
	cmd.AddCommand(newExpandCmd(app))
	cmd.AddCommand(newPathCmd(app))
	cmd.AddCommand(newSuggestCmd(app))
	cmd.AddCommand(newTemplateCmd(app))
	cmd.AddCommand(newSettingsCmd(app))

	return cmd
}

func runTUI(app *App) error {
	db, s, err := loadDB(app)
	if err != nil {
		return err
	}
	return tui.Run(s, db)
}

func loadDB(app *App) (*store.DB, store.Store, error) {
	dir := app.Dir
	if dir == "" {
		d, err := store.DefaultDir()
		if err != nil {
			return nil, store.Store{}, err
		}
		dir = d
		app.Dir = dir
	}
	s := store.Store{Dir: dir}
	db, err := s.Load()
	if err != nil {
		return nil, s, err
	}
	return db, s, nil
}

// saveDB persists the mutated state; on failure the in-memory state rolls
// back to snap so the process view never diverges from disk.
func saveDB(s store.Store, db *store.DB, snap *store.DB) error {
	if err := s.Save(db); err != nil {
		db.Restore(snap)
		return err
	}
	return nil
}

// policies translates the persisted settings into the explicit policy values
// engine operations take.
func policies(s store.Store) (engine.InsertPolicy, engine.ClearPolicy) {
	st, err := s.LoadSettings()
	if err != nil {
		st = &store.Settings{Version: 1}
	}
	insert := engine.InsertPolicy{RootAtTop: st.AddToTopRoot, ChildAtTop: st.AddToTopChild}
	clear := engine.ClearPolicy{StruckDescendants: st.ClearStruckDescendants, SkipHidden: st.SkipHidden()}
	return insert, clear
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
