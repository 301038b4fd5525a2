package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ppiankov/syllogix/internal/validate"
)

// moodsCmd lists the rule table in precedence order
var moodsCmd = &cobra.Command{
	Use:   "moods",
	Short: "List the valid moods in the order they are tried",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "#\tMOOD\tFORM\tFIGURE\tSCHEMA")
		for i, r := range validate.DefaultRuleSet().Rules() {
			_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", i+1, r.Mood, r.Form(), r.Figure.Pattern(), r.Describe())
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(moodsCmd)
}
