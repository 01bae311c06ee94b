package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var catalogJSON bool

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List every series the forecast API serves",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := newService()
		infos, err := svc.Catalog(cmd.Context())
		if err != nil {
			return err
		}

		if catalogJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(infos)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		for _, info := range infos {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", info.ID, info.Unit, info.SourceAgency, info.Description)
		}
		return w.Flush()
	},
}

func init() {
	catalogCmd.Flags().BoolVar(&catalogJSON, "json", false, "emit JSON instead of a table")
	rootCmd.AddCommand(catalogCmd)
}
