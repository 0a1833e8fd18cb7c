package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"driveqa/internal/session"
)

var askCmd = &cobra.Command{
	Use:   "ask <question...>",
	Short: "Answer a question from the matching documents",
	Long: `Search the library for the question, download and extract the matching
files and print the sentences most similar to the question, grouped by file.

Examples:
  driveqa ask how many vacation days do new employees get`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.Close()

		s, err := a.newSession()
		if err != nil {
			return err
		}
		resp, err := s.Handle(cmd.Context(), session.QuestionInput(strings.Join(args, " ")))
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), resp.Text())
		return nil
	},
}
