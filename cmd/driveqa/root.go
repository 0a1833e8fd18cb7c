package main

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	siteName string
)

var rootCmd = &cobra.Command{
	Use:   "driveqa",
	Short: "Browse a document library and ask questions about its files",
	Long: `driveqa browses a remote document library (a Microsoft Graph drive or a
local directory) as a numbered tree and answers questions from the text of
matching documents using TF-IDF sentence ranking.

Running driveqa without a subcommand starts the interactive browser.`,
	SilenceUsage: true,
	RunE:         runBrowse,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.config/driveqa/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&siteName, "site", "", "SharePoint site name to browse instead of the configured drive",
	)
	rootCmd.AddCommand(browseCmd, askCmd, lsCmd, sitesCmd)
}
