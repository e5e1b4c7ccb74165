package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"stitch/internal/media/ffmpeg"
	"stitch/internal/media/ffprobe"
)

func newMusicCommand(ctx *commandContext) *cobra.Command {
	var outputFlag string

	cmd := &cobra.Command{
		Use:   "music <video> <music>",
		Short: "Lay a background music bed under a finished video",
		Long: `Mix a local music file under the video's dialogue track using the
configured volumes, fades, and looping. The video stream is copied
untouched; only the audio is re-encoded.

Examples:
  stitch music output/final.mp4 bed.mp3
  stitch music output/final.mp4 bed.mp3 -o output/final_scored.mp4`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			videoPath, musicPath := args[0], args[1]
			runCtx := cmd.Context()

			duration, err := ffprobe.Duration(runCtx, cfg.Assembly.FFprobeBinary, videoPath)
			if err != nil {
				return err
			}

			output := strings.TrimSpace(outputFlag)
			if output == "" {
				ext := filepath.Ext(videoPath)
				output = strings.TrimSuffix(videoPath, ext) + "_scored" + ext
			}

			processor := ffmpeg.NewProcessor(ffmpeg.SettingsFromConfig(cfg.Assembly))
			mix := ffmpeg.MusicMix{
				MusicPath:       musicPath,
				Volume:          cfg.Music.Volume,
				DialogueVolume:  cfg.Music.DialogueVolume,
				FadeIn:          cfg.Music.FadeIn,
				FadeOut:         cfg.Music.FadeOut,
				Loop:            cfg.Music.Loop,
				DurationSeconds: duration,
			}
			if err := processor.AddMusic(runCtx, videoPath, output, mix); err != nil {
				return err
			}

			logger.Info("music mix complete", "video", videoPath, "music", musicPath, "output", output)
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output video path (default: <video>_scored.<ext>)")
	return cmd
}
