package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/Sena-ops/sinkguard/internal/scanner"
	"github.com/spf13/cobra"
)

var detectorsCmd = &cobra.Command{
	Use:   "detectors",
	Short: "Lista os detectores registrados e seu nível de risco",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tRISCO\tTIPO\tDESCRIÇÃO")
		for _, d := range scanner.DefaultRegistry().All() {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.ID, d.Tier, d.Kind, d.Description)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(detectorsCmd)
}
