package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMatchCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match <script>",
		Short: "Match a script against transcribed takes and write the report",
		Long: `Rank candidate takes for every script line, plan automatic selections at
the configured confidence threshold, and write the matching report to the
output directory. The report is the durable record of the run: later
commands can replay it instead of re-matching.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := ctx.openSession()
			if err != nil {
				return err
			}
			defer sess.Close()

			result, err := sess.MatchScript(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			selections, gaps := sess.Plan(result, nil)

			reportPath, err := sess.WriteReport(result, selections)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(selections) > 0 {
				fmt.Fprintln(out, renderSelections(selections))
			}
			if len(gaps) > 0 {
				fmt.Fprintln(out, renderGaps(gaps))
			}
			fmt.Fprintf(out, "%d line(s) matched, %d gap(s); report written to %s\n",
				len(result.CandidatesByLine), len(gaps), reportPath)
			return nil
		},
	}
	return cmd
}
