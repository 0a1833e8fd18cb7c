package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"driveqa/internal/navigator"
	"driveqa/internal/nodecache"
	"driveqa/internal/session"
)

var (
	lsPage   int
	lsExpand string
)

var lsCmd = &cobra.Command{
	Use:   "ls [folder]",
	Short: "Print one page of a folder listing",
	Long: `Print one page of the numbered listing of a folder (default: the root).

Examples:
  driveqa ls
  driveqa ls Finance --page 2
  driveqa ls --expand Finance/Reports`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.Close()

		folder := ""
		if len(args) == 1 {
			folder = args[0]
		}
		engine := navigator.NewEngine(a.store, nodecache.New(), a.log)
		listing, err := engine.ListChildrenAt(cmd.Context(), folder, lsExpand)
		if err != nil {
			return err
		}
		pageSize := a.cfg.Navigation.PageSize
		page := navigator.ClampPage(lsPage, navigator.TotalPages(listing.Len(), pageSize))
		window, total := navigator.Paginate(listing.Nodes, page, pageSize)
		resp := session.Response{
			Kind: session.KindListing,
			Listing: &session.View{
				FolderPath:  folder,
				Nodes:       window,
				Page:        page,
				TotalPages:  total,
				FileCount:   listing.FileCount,
				FolderCount: listing.FolderCount,
				Empty:       listing.Empty,
			},
		}
		fmt.Fprint(cmd.OutOrStdout(), resp.Text())
		return nil
	},
}

func init() {
	lsCmd.Flags().IntVar(&lsPage, "page", 1, "page to print")
	lsCmd.Flags().StringVar(&lsExpand, "expand", "", "folder path to expand inline")
}
