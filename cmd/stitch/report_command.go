package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"stitch/internal/report"
	"stitch/internal/session"
)

func newReportCommand(ctx *commandContext) *cobra.Command {
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Matching report utilities",
	}
	reportCmd.AddCommand(newReportShowCommand(ctx))
	return reportCmd
}

func newReportShowCommand(ctx *commandContext) *cobra.Command {
	var anyExtension bool

	cmd := &cobra.Command{
		Use:   "show [path]",
		Short: "Parse a matching report and summarize its selections",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			path := ""
			if len(args) > 0 {
				path = strings.TrimSpace(args[0])
			}
			if path == "" {
				path = filepath.Join(cfg.Paths.OutputDir, session.ReportName)
			}

			codec := &report.Codec{AnyExtension: anyExtension || cfg.Matching.AnyExtension}
			doc, err := codec.ReadFile(path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Report: %s\n", path)
			fmt.Fprintf(out, "Script lines: %d, takes: %d, selections: %d\n",
				doc.ScriptLineCount, doc.TakeCount, len(doc.Selections))
			if len(doc.Selections) > 0 {
				fmt.Fprintln(out, renderSelections(doc.Selections))
			}

			candidateLines := 0
			for range doc.CandidatesByLine {
				candidateLines++
			}
			fmt.Fprintf(out, "Candidate lists recorded for %d line(s)\n", candidateLines)
			return nil
		},
	}

	cmd.Flags().BoolVar(&anyExtension, "any-extension", false, "Accept take names with arbitrary file extensions")
	return cmd
}
