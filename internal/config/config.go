package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	VideoDir      string `toml:"video_dir"`
	TranscriptDir string `toml:"transcript_dir"`
	WorkDir       string `toml:"work_dir"`
	OutputDir     string `toml:"output_dir"`
	LogDir        string `toml:"log_dir"`
}

// Matching contains configuration for script line matching.
type Matching struct {
	// MinScore is the threshold a transcript must clear to be kept as a
	// candidate in batch matching. Single-best matching has no floor.
	MinScore float64 `toml:"min_score"`
	// MinConfidence is the score required for automatic selection of the
	// top candidate. Lines below it are reported as unmatched.
	MinConfidence float64 `toml:"min_confidence"`
	// AnyExtension relaxes the report parser to accept take names with any
	// file extension instead of the known video extensions. Off by default
	// because it changes which report lines are recognized.
	AnyExtension bool `toml:"any_extension"`
}

// Transcriber contains configuration for the external ASR tool.
type Transcriber struct {
	Binary   string `toml:"binary"`
	Model    string `toml:"model"`
	Language string `toml:"language"`
}

// Assembly contains configuration for segment extraction and concatenation.
type Assembly struct {
	FFmpegBinary  string `toml:"ffmpeg_binary"`
	FFprobeBinary string `toml:"ffprobe_binary"`
	// PaddingSeconds is subtracted from each segment start and added to its
	// end to avoid clipping word boundaries, clamped to the take duration.
	PaddingSeconds float64 `toml:"padding_seconds"`
	FrameRate      int     `toml:"frame_rate"`
	CRF            int     `toml:"crf"`
	Preset         string  `toml:"preset"`
	AudioBitrate   string  `toml:"audio_bitrate"`
	SampleRate     int     `toml:"sample_rate"`
	// Loudness normalization targets applied uniformly to every segment.
	LoudnormI   float64 `toml:"loudnorm_i"`
	LoudnormTP  float64 `toml:"loudnorm_tp"`
	LoudnormLRA float64 `toml:"loudnorm_lra"`
	// FastConcat performs a container-level copy instead of the final
	// re-encode. Valid only because extraction already normalized every
	// segment to identical codec settings.
	FastConcat bool `toml:"fast_concat"`
	// Workers bounds concurrent segment extractions.
	Workers int `toml:"workers"`
}

// Music contains configuration for the background music mix.
type Music struct {
	Volume         float64 `toml:"volume"`
	DialogueVolume float64 `toml:"dialogue_volume"`
	FadeIn         float64 `toml:"fade_in"`
	FadeOut        float64 `toml:"fade_out"`
	Loop           bool    `toml:"loop"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for stitch.
//
// Configuration sections by subsystem:
//   - Paths: source videos, transcript artifacts, work/output/log directories
//   - Matching: candidate thresholds and report parsing behaviour
//   - Transcriber: external ASR tool invocation
//   - Assembly: ffmpeg/ffprobe settings for extraction and concatenation
//   - Music: background music mixing
//   - Logging: log format and level
type Config struct {
	Paths       Paths       `toml:"paths"`
	Matching    Matching    `toml:"matching"`
	Transcriber Transcriber `toml:"transcriber"`
	Assembly    Assembly    `toml:"assembly"`
	Music       Music       `toml:"music"`
	Logging     Logging     `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/stitch/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("stitch.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates every configured directory, the video source
// directory included so a fresh install has a place to drop takes.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.VideoDir, c.Paths.TranscriptDir, c.Paths.WorkDir, c.Paths.OutputDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
