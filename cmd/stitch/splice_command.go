package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"stitch/internal/assemble"
	"stitch/internal/plan"
	"stitch/internal/selector"
)

func newSpliceCommand(ctx *commandContext) *cobra.Command {
	var outputFlag string
	var fastConcat bool
	var fromReport string

	cmd := &cobra.Command{
		Use:   "splice <script>",
		Short: "Match, plan, and render the final spliced video",
		Long: `Run the whole pipeline: match the script against transcribed takes, plan
selections, cut each chosen segment, and concatenate the cuts in script
order. With --from-report the selections recorded in a prior matching
report are replayed instead of being chosen fresh.

Examples:
  stitch splice script.txt
  stitch splice script.txt -o final.mp4 --fast
  stitch splice script.txt --from-report output/matching_report.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			var overrides map[int]plan.Selection
			if strings.TrimSpace(fromReport) != "" {
				doc, err := sess.ReadReport(fromReport)
				if err != nil {
					return err
				}
				replay := selector.NewReplay(doc)
				overrides, err = selector.Run(runCtx, replay, result.Lines, result.CandidatesByLine)
				if err != nil {
					return err
				}
			}

			selections, gaps := sess.Plan(result, overrides)
			if len(selections) == 0 {
				return fmt.Errorf("no script line matched any take; nothing to splice")
			}

			if _, err := sess.WriteReport(result, selections); err != nil {
				return err
			}

			registry, err := sess.Takes(runCtx)
			if err != nil {
				return err
			}
			timeline, err := assemble.Build(selections, registry, sess.Config.Assembly.PaddingSeconds)
			if err != nil {
				return err
			}

			output := strings.TrimSpace(outputFlag)
			if output == "" {
				output = filepath.Join(sess.Config.Paths.OutputDir, "final.mp4")
			}

			if fastConcat {
				sess.Config.Assembly.FastConcat = true
			}
			renderer := assemble.NewRenderer(sess.Config, sess.Logger)
			if err := renderer.Render(runCtx, timeline, output); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderSelections(selections))
			if len(gaps) > 0 {
				fmt.Fprintln(out, renderGaps(gaps))
			}
			fmt.Fprintf(out, "Spliced %d segment(s) into %s\n", len(timeline.Segments), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output video path (default: <output_dir>/final.mp4)")
	cmd.Flags().BoolVar(&fastConcat, "fast", false, "Container-level concat instead of the final re-encode")
	cmd.Flags().StringVar(&fromReport, "from-report", "", "Replay selections from a prior matching report")
	return cmd
}
