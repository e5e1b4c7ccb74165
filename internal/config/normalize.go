package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTranscriber()
	c.normalizeAssembly()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.VideoDir, err = expandPath(c.Paths.VideoDir); err != nil {
		return fmt.Errorf("paths.video_dir: %w", err)
	}
	if c.Paths.TranscriptDir, err = expandPath(c.Paths.TranscriptDir); err != nil {
		return fmt.Errorf("paths.transcript_dir: %w", err)
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTranscriber() {
	c.Transcriber.Binary = strings.TrimSpace(c.Transcriber.Binary)
	if c.Transcriber.Binary == "" {
		c.Transcriber.Binary = defaultTranscriberBinary
	}
	c.Transcriber.Model = strings.TrimSpace(c.Transcriber.Model)
	if c.Transcriber.Model == "" {
		c.Transcriber.Model = defaultTranscriberModel
	}
	c.Transcriber.Language = strings.TrimSpace(c.Transcriber.Language)
}

func (c *Config) normalizeAssembly() {
	c.Assembly.FFmpegBinary = strings.TrimSpace(c.Assembly.FFmpegBinary)
	if c.Assembly.FFmpegBinary == "" {
		c.Assembly.FFmpegBinary = defaultFFmpegBinary
	}
	c.Assembly.FFprobeBinary = strings.TrimSpace(c.Assembly.FFprobeBinary)
	if c.Assembly.FFprobeBinary == "" {
		c.Assembly.FFprobeBinary = defaultFFprobeBinary
	}
	c.Assembly.Preset = strings.TrimSpace(c.Assembly.Preset)
	if c.Assembly.Preset == "" {
		c.Assembly.Preset = defaultPreset
	}
	c.Assembly.AudioBitrate = strings.TrimSpace(c.Assembly.AudioBitrate)
	if c.Assembly.AudioBitrate == "" {
		c.Assembly.AudioBitrate = defaultAudioBitrate
	}
	if c.Assembly.FrameRate <= 0 {
		c.Assembly.FrameRate = defaultFrameRate
	}
	if c.Assembly.SampleRate <= 0 {
		c.Assembly.SampleRate = defaultSampleRate
	}
	if c.Assembly.Workers <= 0 {
		c.Assembly.Workers = defaultWorkers
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
