package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var roundsJSON bool

var roundsCmd = &cobra.Command{
	Use:   "rounds",
	Short: "List published monetary-policy rounds",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := newService()
		rounds, err := svc.Rounds(cmd.Context())
		if err != nil {
			return err
		}

		if roundsJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(rounds)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		for _, r := range rounds {
			fmt.Fprintf(w, "%s\tyear %d\titeration %d\n", r.ID, r.Year, r.Iteration)
		}
		return w.Flush()
	},
}

func init() {
	roundsCmd.Flags().BoolVar(&roundsJSON, "json", false, "emit JSON instead of a table")
	rootCmd.AddCommand(roundsCmd)
}
