package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	swestrFrom string
	swestrTo   string
	swestrJSON bool
)

var swestrCmd = &cobra.Command{
	Use:   "swestr",
	Short: "Fetch SWESTR reference-rate fixings",
	Long: `Fetch SWESTR (Swedish krona Short Term Rate) fixings.

Without --from, prints the latest published fixing. With --from (and
optionally --to), prints every fixing in the period.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc := newService()

		if swestrFrom == "" {
			latest, err := svc.SwestrLatest(ctx)
			if err != nil {
				return err
			}
			if latest == nil {
				fmt.Println("no fixing published yet")
				return nil
			}
			if swestrJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(latest)
			}
			fmt.Printf("%s\t%s\n", latest.Date, latest.Value)
			return nil
		}

		obs, err := svc.Swestr(ctx, swestrFrom, swestrTo)
		if err != nil {
			return err
		}
		if swestrJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(obs)
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		for _, o := range obs {
			fmt.Fprintf(w, "%s\t%s\n", o.Date, o.Value)
		}
		return w.Flush()
	},
}

func init() {
	swestrCmd.Flags().StringVar(&swestrFrom, "from", "", "start date (YYYY-MM-DD)")
	swestrCmd.Flags().StringVar(&swestrTo, "to", "", "end date (YYYY-MM-DD)")
	swestrCmd.Flags().BoolVar(&swestrJSON, "json", false, "emit JSON instead of a table")
	rootCmd.AddCommand(swestrCmd)
}
