package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newOrderCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order <script>",
		Short: "Copy selected takes into the output directory in script order",
		Long: `Match the script, plan selections, and copy each selected take into the
output directory under an ordinal-prefixed name (01_take.mp4, ...). Useful
for reviewing or hand-editing the chosen takes without rendering.`,
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
			selections, gaps := sess.Plan(result, nil)
			if len(selections) == 0 {
				return fmt.Errorf("no script line matched any take; nothing to copy")
			}

			if _, err := sess.WriteReport(result, selections); err != nil {
				return err
			}

			copied, err := sess.Order(runCtx, selections)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, path := range copied {
				fmt.Fprintln(out, filepath.Base(path))
			}
			fmt.Fprintf(out, "Copied %d take(s) to %s (%d gap(s))\n",
				len(copied), sess.Config.Paths.OutputDir, len(gaps))
			return nil
		},
	}
	return cmd
}
