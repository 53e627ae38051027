package config

const (
	// Output frame and encode settings
	VideoWidth   = 1080
	VideoHeight  = 1920
	VideoFPS     = 30
	VideoCodec   = "libx264"
	VideoPreset  = "fast"
	VideoCRF     = "23"
	AudioCodec   = "aac"
	AudioBitrate = "192k"

	// Timing
	MinSceneSeconds = 2.0
	ThumbnailAtSec  = 1.0

	// Subtitles
	SubtitlePlayResX     = 1080
	SubtitlePlayResY     = 1920
	SubtitleOutlineWidth = 4
	SubtitleShadow       = 2
	SubtitleMarginX      = 40
	SubtitleMarginV      = 80

	// Default request values
	DefaultNumScenes    = 6
	DefaultStyle        = "realistic"
	DefaultVoice        = "rachel"
	DefaultCaptionStyle = "classic"

	// Background music gain relative to narration (narration stays at 1.0)
	DefaultMusicVolume = 0.15

	// Directories
	OutputDir = "output"
)

// Progress milestones. Image generation advances proportionally inside the
// [ProgressScriptDone, ProgressImagesDone] band; everything else is a fixed
// checkpoint. Values only ever move forward during a run.
const (
	ProgressScriptStart = 10
	ProgressScriptDone  = 20
	ProgressImagesDone  = 60
	ProgressAudioStart  = 65
	ProgressAudioDone   = 80
	ProgressAssembling  = 85
	ProgressComplete    = 100
)
