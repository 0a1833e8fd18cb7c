package main

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"driveqa/internal/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the library interactively",
	Long: `Start the interactive browser.

Type an item number such as 2 or 2.3 to open a folder or download a file.
Press tab to switch between browse, search and ask modes.`,
	RunE: runBrowse,
}

func runBrowse(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer a.Close()

	s, err := a.newSession()
	if err != nil {
		return err
	}
	a.log.Info().Str("session", s.ID()).Str("store", a.cfg.Remote.Type).Msg("starting browser")
	m := tui.New(cmd.Context(), s)
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
	return err
}
