// Package ffmpeg drives segment extraction, concatenation, and music mixing
// through the ffmpeg binary.
//
// Every extracted segment is re-encoded to one shared codec profile
// (H.264/AAC with loudness normalization), which is what makes the optional
// stream-copy concat safe.
package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"stitch/internal/config"
	"stitch/internal/services"
)

// Settings carries the encode profile shared by every ffmpeg invocation.
type Settings struct {
	Binary       string
	FrameRate    int
	CRF          int
	Preset       string
	AudioBitrate string
	SampleRate   int
	LoudnormI    float64
	LoudnormTP   float64
	LoudnormLRA  float64
}

// SettingsFromConfig builds Settings from the assembly configuration.
func SettingsFromConfig(cfg config.Assembly) Settings {
	return Settings{
		Binary:       cfg.FFmpegBinary,
		FrameRate:    cfg.FrameRate,
		CRF:          cfg.CRF,
		Preset:       cfg.Preset,
		AudioBitrate: cfg.AudioBitrate,
		SampleRate:   cfg.SampleRate,
		LoudnormI:    cfg.LoudnormI,
		LoudnormTP:   cfg.LoudnormTP,
		LoudnormLRA:  cfg.LoudnormLRA,
	}
}

// Processor executes ffmpeg commands. Runner defaults to the shared
// subprocess runner and exists so tests can intercept invocations.
type Processor struct {
	Settings Settings
	Runner   services.CommandRunner
}

// NewProcessor builds a Processor using the real subprocess runner.
func NewProcessor(settings Settings) *Processor {
	return &Processor{Settings: settings, Runner: services.RunCommand}
}

func (p *Processor) run(ctx context.Context, step string, args []string) error {
	binary := strings.TrimSpace(p.Settings.Binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	runner := p.Runner
	if runner == nil {
		runner = services.RunCommand
	}
	if err := runner(ctx, binary, args...); err != nil {
		return fmt.Errorf("ffmpeg %s: %w", step, err)
	}
	return nil
}

// Extract cuts [startSeconds, endSeconds) out of source into output,
// re-encoding to the shared profile.
func (p *Processor) Extract(ctx context.Context, source, output string, startSeconds, endSeconds float64) error {
	if endSeconds <= startSeconds {
		return fmt.Errorf("extract %s: empty range [%f, %f)", source, startSeconds, endSeconds)
	}
	args := []string{
		"-y", "-hide_banner", "-loglevel", "error",
		"-ss", formatSeconds(startSeconds),
		"-i", source,
		"-t", formatSeconds(endSeconds - startSeconds),
	}
	args = append(args, p.encodeArgs()...)
	args = append(args, output)
	return p.run(ctx, "extract", args)
}

// WriteConcatList writes an ffmpeg concat demuxer list for the given inputs.
func WriteConcatList(path string, inputs []string) error {
	if len(inputs) == 0 {
		return errors.New("concat list: no inputs")
	}
	var b strings.Builder
	for _, input := range inputs {
		// concat demuxer quoting: single quotes closed around embedded quotes
		escaped := strings.ReplaceAll(input, "'", `'\''`)
		fmt.Fprintf(&b, "file '%s'\n", escaped)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write concat list: %w", err)
	}
	return nil
}

// Concat joins the segments listed at listPath into output. With fastCopy the
// streams are copied at the container level; otherwise the result is
// re-encoded once more with constant frame rate to keep audio and video in
// sync across splice points.
func (p *Processor) Concat(ctx context.Context, listPath, output string, fastCopy bool) error {
	args := []string{
		"-y", "-hide_banner", "-loglevel", "error",
		"-f", "concat", "-safe", "0",
		"-i", listPath,
	}
	if fastCopy {
		args = append(args, "-c", "copy")
	} else {
		args = append(args, p.encodeArgs()...)
		args = append(args,
			"-r", strconv.Itoa(p.Settings.FrameRate),
			"-vsync", "cfr",
			"-async", "1",
		)
	}
	args = append(args, output)
	return p.run(ctx, "concat", args)
}

// MusicMix describes a background music pass over a finished video.
type MusicMix struct {
	MusicPath      string
	Volume         float64
	DialogueVolume float64
	FadeIn         float64
	FadeOut        float64
	Loop           bool
	// DurationSeconds is the video's length, used to place the fade-out.
	DurationSeconds float64
}

// AddMusic lays mix.MusicPath under the dialogue track of source.
func (p *Processor) AddMusic(ctx context.Context, source, output string, mix MusicMix) error {
	if strings.TrimSpace(mix.MusicPath) == "" {
		return errors.New("music mix: no music path")
	}

	args := []string{
		"-y", "-hide_banner", "-loglevel", "error",
		"-i", source,
	}
	if mix.Loop {
		args = append(args, "-stream_loop", "-1")
	}
	args = append(args, "-i", mix.MusicPath)

	music := fmt.Sprintf("[1:a]volume=%s", formatSeconds(mix.Volume))
	if mix.FadeIn > 0 {
		music += fmt.Sprintf(",afade=t=in:st=0:d=%s", formatSeconds(mix.FadeIn))
	}
	if mix.FadeOut > 0 && mix.DurationSeconds > mix.FadeOut {
		music += fmt.Sprintf(",afade=t=out:st=%s:d=%s",
			formatSeconds(mix.DurationSeconds-mix.FadeOut), formatSeconds(mix.FadeOut))
	}
	filter := fmt.Sprintf("%s[music];[0:a]volume=%s[dialogue];[dialogue][music]amix=inputs=2:duration=first[mixed]",
		music, formatSeconds(mix.DialogueVolume))

	args = append(args,
		"-filter_complex", filter,
		"-map", "0:v",
		"-map", "[mixed]",
		"-c:v", "copy",
		"-c:a", "aac",
		"-b:a", p.Settings.AudioBitrate,
		"-ar", strconv.Itoa(p.Settings.SampleRate),
		"-shortest",
		output,
	)
	return p.run(ctx, "music", args)
}

func (p *Processor) encodeArgs() []string {
	return []string{
		"-c:v", "libx264",
		"-preset", p.Settings.Preset,
		"-crf", strconv.Itoa(p.Settings.CRF),
		"-pix_fmt", "yuv420p",
		"-c:a", "aac",
		"-b:a", p.Settings.AudioBitrate,
		"-ar", strconv.Itoa(p.Settings.SampleRate),
		"-af", fmt.Sprintf("loudnorm=I=%s:TP=%s:LRA=%s",
			formatSeconds(p.Settings.LoudnormI),
			formatSeconds(p.Settings.LoudnormTP),
			formatSeconds(p.Settings.LoudnormLRA)),
		"-movflags", "+faststart",
	}
}

func formatSeconds(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
