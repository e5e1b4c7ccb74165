package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"stitch/internal/selector"
	"stitch/internal/services"
)

func newPickCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pick <script>",
		Short: "Interactively choose a take for each script line",
		Long: `Walk the script line by line at the terminal, showing ranked candidates
for each. Enter a candidate number to pick it, 's' to leave the line to
the automatic planner, or 'q' to stop early; picks made before quitting
are kept. The resulting selections are written to the matching report.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !selector.StdinIsTerminal() {
				return services.Wrap(services.ErrValidation, "pick", "stdin",
					"interactive selection needs a terminal; use `stitch match` instead", nil)
			}

			sess, err := ctx.openSession()
			if err != nil {
				return err
			}
			defer sess.Close()

			runCtx := cmd.Context()
			result, err := sess.MatchScript(runCtx, args[0])
			if err != nil {
				return err
			}

			picker := selector.NewInteractive(cmd.InOrStdin(), cmd.OutOrStdout())
			overrides, err := selector.Run(runCtx, picker, result.Lines, result.CandidatesByLine)
			if err != nil {
				return err
			}

			selections, gaps := sess.Plan(result, overrides)
			reportPath, err := sess.WriteReport(result, selections)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(selections) > 0 {
				fmt.Fprintln(out, renderSelections(selections))
			}
			fmt.Fprintf(out, "%d manual pick(s), %d gap(s); report written to %s\n",
				len(overrides), len(gaps), reportPath)
			return nil
		},
	}
	return cmd
}
