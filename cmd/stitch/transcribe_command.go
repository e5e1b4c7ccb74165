package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"stitch/internal/transcribe"
)

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "transcribe",
		Short: "Register video takes and transcribe any that are pending",
		Long: `Scan the configured video directory for takes, register new ones, and run
the external ASR tool over every take that has no transcript yet. Takes
abandoned by an interrupted run are returned to pending first.

Examples:
  stitch transcribe
  stitch transcribe --force    # re-transcribe even when artifacts exist`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := ctx.openSession()
			if err != nil {
				return err
			}
			defer sess.Close()

			runCtx := cmd.Context()
			registered, err := sess.ScanVideos(runCtx)
			if err != nil {
				return err
			}

			reset, err := sess.Store.ResetStuckTranscribing(runCtx)
			if err != nil {
				return err
			}

			svc := transcribe.NewService(sess.Config, sess.Logger)
			svc.Force = force
			completed, err := svc.ProcessPending(runCtx, sess.Store)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Registered %d new take(s), recovered %d stuck, transcribed %d\n",
				registered, reset, completed)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Re-transcribe takes whose artifacts already exist")
	return cmd
}
