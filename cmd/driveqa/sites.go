package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var sitesCmd = &cobra.Command{
	Use:   "sites [name]",
	Short: "List the SharePoint sites the token can reach",
	Long: `List the SharePoint sites visible to the access token, or resolve one site
by name. Pass a listed name to --site to browse that site's document library.

Examples:
  driveqa sites
  driveqa sites "Finance Team"
  driveqa --site "Finance Team" ls`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, closer, err := setup(false)
		if err != nil {
			return err
		}
		defer closer.Close()
		if cfg.Remote.Type != "graph" {
			return fmt.Errorf("sites needs a graph store, config uses %q", cfg.Remote.Type)
		}
		store, err := graphStore(cfg, "", log)
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		defer w.Flush()
		if len(args) == 1 {
			site, err := store.ResolveSite(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", site, site.WebURL, site.ID)
			return nil
		}
		sites, err := store.Sites(cmd.Context())
		if err != nil {
			return err
		}
		if len(sites) == 0 {
			fmt.Fprintln(w, "No sites found.")
			return nil
		}
		for _, site := range sites {
			fmt.Fprintf(w, "%s\t%s\t%s\n", site, site.WebURL, site.ID)
		}
		return nil
	},
}
