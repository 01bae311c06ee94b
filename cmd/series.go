package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aerugo/swemo-mcp/internal/model"
	"github.com/aerugo/swemo-mcp/internal/series"
)

var (
	seriesRound    string
	seriesRealized bool
	seriesJSON     bool
)

var seriesCmd = &cobra.Command{
	Use:   "series <series-id|name> [series-id|name...]",
	Short: "Fetch forecast vintages for one or more series",
	Long: `Fetch forecast vintages for one or more monetary-policy series.

A series may be given as a raw Riksbank identifier (SEQGDPNAYCA) or as a
mnemonic (gdp, cpi, policy-rate; see "swemo series --list").

--round selects the policy-round view: omit it for the full vintage
history, pass a YYYY:N label for the what-was-known-at-the-time prefix,
or pass "latest" for the single merged best-known series.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if list, _ := cmd.Flags().GetBool("list"); list {
			return nil
		}
		return cobra.MinimumNArgs(1)(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if list, _ := cmd.Flags().GetBool("list"); list {
			return printNamedSeries()
		}

		ctx := cmd.Context()
		svc := newService()

		var responses []*model.SeriesResponse
		if len(args) == 1 {
			fetch := svc.Fetch
			if seriesRealized {
				fetch = svc.FetchRealized
			}
			resp, err := fetch(ctx, args[0], seriesRound)
			if err != nil {
				return err
			}
			responses = append(responses, resp)
		} else {
			// Realized enrichment is per-series; keep the multi-series path simple.
			if seriesRealized {
				return fmt.Errorf("--realized supports a single series")
			}
			many, err := svc.FetchMany(ctx, args, seriesRound)
			if err != nil {
				return err
			}
			responses = many
		}

		for _, resp := range responses {
			zap.L().Debug("fetched series",
				zap.String("series", resp.SeriesID),
				zap.Int("vintages", len(resp.Vintages)),
			)
			if err := printSeries(resp, seriesJSON); err != nil {
				return err
			}
		}
		return nil
	},
}

func printSeries(resp *model.SeriesResponse, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "series\t%s\n", resp.SeriesID)
	for _, v := range resp.Vintages {
		fmt.Fprintf(w, "round\t%s\tcutoff %s\trevised %s\n",
			v.PolicyRound, v.CutoffDate, v.RevisionTime.Format("2006-01-02 15:04"))
		for _, o := range v.Observations {
			kind := "outcome"
			if o.Forecast {
				kind = "forecast"
			}
			line := fmt.Sprintf("\t%s\t%s\t%s", o.Date, o.Value, kind)
			if o.Realized != nil && o.Forecast {
				line += fmt.Sprintf("\trealized %s", o.Realized)
			}
			fmt.Fprintln(w, line)
		}
	}
	return w.Flush()
}

func printNamedSeries() error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, s := range series.Registry() {
		fmt.Fprintf(w, "%s\t%s\t%s\n", s.Name, s.ID, s.Description)
	}
	return w.Flush()
}

func init() {
	seriesCmd.Flags().StringVar(&seriesRound, "round", "", `policy round: "2024:3", "latest", or empty for all vintages`)
	seriesCmd.Flags().BoolVar(&seriesRealized, "realized", false, "annotate forecast rows with realized outcomes")
	seriesCmd.Flags().BoolVar(&seriesJSON, "json", false, "emit JSON instead of a table")
	seriesCmd.Flags().Bool("list", false, "list known series mnemonics and exit")
	rootCmd.AddCommand(seriesCmd)
}
