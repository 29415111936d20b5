package cli

import (
	"fmt"
	"strconv"
	"strings"

	"todobar-cli/internal/store"

	"github.com/spf13/cobra"
)

func settingsView(st *store.Settings) map[string]any {
	return map[string]any{
		"addToTopRoot":           st.AddToTopRoot,
		"addToTopChild":          st.AddToTopChild,
		"clearStruckDescendants": st.ClearStruckDescendants,
		"skipHiddenDescendants":  st.SkipHidden(),
	}
}

func newSettingsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			st, err := s.LoadSettings()
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": settingsView(st)})
		},
	}
	cmd.AddCommand(newSettingsSetCmd(app))
	return cmd
}

func newSettingsSetCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <key> <true|false>",
		Short: "Change one setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, s, err := loadDB(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			st, err := s.LoadSettings()
			if err != nil {
				return writeErr(cmd, err)
			}
			val, err := strconv.ParseBool(args[1])
			if err != nil {
				return writeErr(cmd, fmt.Errorf("invalid boolean %q", args[1]))
			}
			switch strings.TrimSpace(args[0]) {
			case "addToTopRoot":
				st.AddToTopRoot = val
			case "addToTopChild":
				st.AddToTopChild = val
			case "clearStruckDescendants":
				st.ClearStruckDescendants = val
			case "skipHiddenDescendants":
				st.SkipHiddenDescendants = &val
			default:
				return writeErr(cmd, fmt.Errorf("unknown setting %q (keys: addToTopRoot, addToTopChild, clearStruckDescendants, skipHiddenDescendants)", args[0]))
			}
			if err := s.SaveSettings(st); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": settingsView(st)})
		},
	}
	return cmd
}
