package config

const (
	defaultVideoDir      = "~/stitch/takes"
	defaultTranscriptDir = "~/stitch/transcripts"
	defaultWorkDir       = "~/.local/share/stitch/work"
	defaultOutputDir     = "~/stitch/output"
	defaultLogDir        = "~/.local/share/stitch/logs"

	defaultMinScore      = 0.5
	defaultMinConfidence = 0.3

	defaultTranscriberBinary = "whisper"
	defaultTranscriberModel  = "base"

	defaultFFmpegBinary   = "ffmpeg"
	defaultFFprobeBinary  = "ffprobe"
	defaultPaddingSeconds = 0.1
	defaultFrameRate      = 24
	defaultCRF            = 23
	defaultPreset         = "veryfast"
	defaultAudioBitrate   = "192k"
	defaultSampleRate     = 48000
	defaultLoudnormI      = -16.0
	defaultLoudnormTP     = -1.5
	defaultLoudnormLRA    = 11.0
	defaultWorkers        = 2

	defaultMusicVolume         = 0.15
	defaultMusicDialogueVolume = 1.0
	defaultMusicFadeIn         = 2.0
	defaultMusicFadeOut        = 3.0

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			VideoDir:      defaultVideoDir,
			TranscriptDir: defaultTranscriptDir,
			WorkDir:       defaultWorkDir,
			OutputDir:     defaultOutputDir,
			LogDir:        defaultLogDir,
		},
		Matching: Matching{
			MinScore:      defaultMinScore,
			MinConfidence: defaultMinConfidence,
		},
		Transcriber: Transcriber{
			Binary: defaultTranscriberBinary,
			Model:  defaultTranscriberModel,
		},
		Assembly: Assembly{
			FFmpegBinary:   defaultFFmpegBinary,
			FFprobeBinary:  defaultFFprobeBinary,
			PaddingSeconds: defaultPaddingSeconds,
			FrameRate:      defaultFrameRate,
			CRF:            defaultCRF,
			Preset:         defaultPreset,
			AudioBitrate:   defaultAudioBitrate,
			SampleRate:     defaultSampleRate,
			LoudnormI:      defaultLoudnormI,
			LoudnormTP:     defaultLoudnormTP,
			LoudnormLRA:    defaultLoudnormLRA,
			Workers:        defaultWorkers,
		},
		Music: Music{
			Volume:         defaultMusicVolume,
			DialogueVolume: defaultMusicDialogueVolume,
			FadeIn:         defaultMusicFadeIn,
			FadeOut:        defaultMusicFadeOut,
			Loop:           true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
