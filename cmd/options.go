package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/arbordata/saaddr/internal/model"
)

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "Show available presets and dataset composition",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := initEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)

		fmt.Fprintln(tw, "PRESET\tDESCRIPTION")
		descriptions := e.presets.Describe()
		for _, name := range e.presets.Names() {
			fmt.Fprintf(tw, "%s\t%s\n", name, descriptions[name])
		}
		fmt.Fprintln(tw)

		minPC, maxPC := e.pop.PostcodeRange()
		fmt.Fprintf(tw, "Suburbs\t%d\n", e.pop.Len())
		fmt.Fprintf(tw, "Councils\t%d\n", len(e.pop.Councils()))
		fmt.Fprintf(tw, "Postcodes\t%d-%d\n", minPC, maxPC)
		fmt.Fprintf(tw, "Tiers\t%v\n", e.pop.Tiers())
		fmt.Fprintln(tw)

		fmt.Fprintln(tw, "REMOTENESS\tSUBURBS")
		dist := e.pop.RemotenessDistribution()
		for _, class := range []model.RemotenessClass{
			model.RemotenessMajorCities,
			model.RemotenessInnerRegional,
			model.RemotenessOuterRegional,
			model.RemotenessRemote,
			model.RemotenessVeryRemote,
		} {
			if n, ok := dist[class]; ok {
				fmt.Fprintf(tw, "%s\t%d\n", class, n)
			}
		}

		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(optionsCmd)
}
