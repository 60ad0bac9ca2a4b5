package commands

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/smartmcq/smartmcq/internal/logger"
	"github.com/smartmcq/smartmcq/internal/ui/tui"
)

// Author returns the author command, which runs the wizard in the terminal.
func Author() *cobra.Command {
	var owner string
	cmd := &cobra.Command{
		Use:   "author",
		Short: "Create a test interactively in the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Log lines would corrupt the terminal UI.
			a, err := newApp(cmd.Context(), logger.Nop())
			if err != nil {
				return err
			}
			defer a.Close()

			final, err := tea.NewProgram(tui.NewModel(cmd.Context(), a.authoring(), owner)).Run()
			if err != nil {
				return err
			}
			m, ok := final.(tui.Model)
			if !ok {
				return errors.New("unexpected model")
			}
			if m.Err != nil {
				return m.Err
			}
			if m.Done {
				fmt.Fprintln(cmd.OutOrStdout(), "published test", m.TestID())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "user id that owns the new test")
	_ = cmd.MarkFlagRequired("owner")
	return cmd
}
