package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/aerugo/swemo-mcp/internal/model"
)

var (
	sweaFrom        string
	sweaTo          string
	sweaAggregation string
	sweaLanguage    string
	sweaJSON        bool
)

var sweaCmd = &cobra.Command{
	Use:   "swea",
	Short: "Query the SWEA API (daily rates, calendar days, cross rates)",
	Long: `Query the Riksbank's SWEA API.

SWEA serves the daily published series: the policy rate, exchange rates
against the krona, the average mortgage rate, plus calendar days, cross
rates and period aggregates. A series may be given as a raw identifier
(SE0001, USD_SEK) or as a mnemonic (policy-rate, mortgage-rate, usd, eur,
gbp).`,
}

var sweaRatesCmd = &cobra.Command{
	Use:   "rates <series-id|name>",
	Short: "Fetch daily observations for a SWEA series",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := newService()

		if sweaFrom == "" {
			latest, err := svc.SweaLatest(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if latest == nil {
				fmt.Println("no observation published yet")
				return nil
			}
			if sweaJSON {
				return printJSON(latest)
			}
			fmt.Printf("%s\t%s\n", latest.Date, latest.Value)
			return nil
		}

		obs, err := svc.SweaObservations(cmd.Context(), args[0], sweaFrom, sweaTo)
		if err != nil {
			return err
		}
		return printObservations(obs)
	},
}

var sweaCalendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "Fetch Swedish calendar days",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := newService()
		days, err := svc.CalendarDays(cmd.Context(), sweaFrom, sweaTo)
		if err != nil {
			return err
		}
		if sweaJSON {
			return printJSON(days)
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		for _, d := range days {
			bankday := "bankday"
			if !d.SwedishBankday {
				bankday = "holiday"
			}
			fmt.Fprintf(w, "%s\t%s\tweek %d/%d\tQ%d\n",
				d.Date, bankday, d.WeekYear, d.WeekNumber, d.QuarterNumber)
		}
		return w.Flush()
	},
}

var sweaCrossCmd = &cobra.Command{
	Use:   "cross <base> <counter>",
	Short: "Fetch the cross rate between two currency series",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := newService()

		if sweaAggregation != "" {
			aggs, err := svc.CrossRateAggregates(cmd.Context(), args[0], args[1], sweaAggregation, sweaFrom, sweaTo)
			if err != nil {
				return err
			}
			if sweaJSON {
				return printJSON(aggs)
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			for _, a := range aggs {
				fmt.Fprintf(w, "%d/%d\t%s\n", a.Year, a.SeqNr, a.Value)
			}
			return w.Flush()
		}

		obs, err := svc.CrossRates(cmd.Context(), args[0], args[1], sweaFrom, sweaTo)
		if err != nil {
			return err
		}
		return printObservations(obs)
	},
}

var sweaAggregatesCmd = &cobra.Command{
	Use:   "aggregates <series-id|name> <aggregation>",
	Short: "Fetch period-aggregated observations for a SWEA series",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := newService()
		aggs, err := svc.ObservationAggregates(cmd.Context(), args[0], args[1], sweaFrom, sweaTo)
		if err != nil {
			return err
		}
		if sweaJSON {
			return printJSON(aggs)
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		for _, a := range aggs {
			fmt.Fprintf(w, "%d/%d\t%s - %s\tavg %s\tmin %s\tmax %s\tultimo %s\t(%d obs)\n",
				a.Year, a.SeqNr, a.From, a.To, a.Average, a.Min, a.Max, a.Ultimo, a.ObservationCount)
		}
		return w.Flush()
	},
}

var sweaCatalogCmd = &cobra.Command{
	Use:   "catalog [series-id]",
	Short: "List the SWEA series catalogue",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := newService()
		seriesID := ""
		if len(args) == 1 {
			seriesID = args[0]
		}
		raw, err := svc.SweaCatalog(cmd.Context(), seriesID, sweaLanguage)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(append(raw, '\n'))
		return err
	},
}

var sweaGroupsCmd = &cobra.Command{
	Use:   "groups [group-id]",
	Short: "List the SWEA series groups",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := newService()
		groupID := 0
		if len(args) == 1 {
			if _, err := fmt.Sscanf(args[0], "%d", &groupID); err != nil || groupID <= 0 {
				return fmt.Errorf("group id must be a positive integer, got %q", args[0])
			}
		}
		raw, err := svc.SweaGroups(cmd.Context(), groupID, sweaLanguage)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(append(raw, '\n'))
		return err
	},
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printObservations(obs []model.Observation) error {
	if sweaJSON {
		return printJSON(obs)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, o := range obs {
		fmt.Fprintf(w, "%s\t%s\n", o.Date, o.Value)
	}
	return w.Flush()
}

func init() {
	sweaCmd.PersistentFlags().StringVar(&sweaFrom, "from", "", "start date (YYYY-MM-DD)")
	sweaCmd.PersistentFlags().StringVar(&sweaTo, "to", "", "end date (YYYY-MM-DD)")
	sweaCmd.PersistentFlags().BoolVar(&sweaJSON, "json", false, "emit JSON instead of a table")
	sweaCmd.PersistentFlags().StringVar(&sweaLanguage, "language", "en", "catalogue language")
	sweaCrossCmd.Flags().StringVar(&sweaAggregation, "aggregation", "", "aggregate per period (Monthly, Quarterly, Yearly)")

	sweaCmd.AddCommand(sweaRatesCmd, sweaCalendarCmd, sweaCrossCmd, sweaAggregatesCmd, sweaCatalogCmd, sweaGroupsCmd)
	rootCmd.AddCommand(sweaCmd)
}
