package assembler

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"clipcast/config"
	"clipcast/types"
)

// probeDuration measures a media file's duration in seconds via ffprobe.
func probeDuration(path string) (float64, error) {
	raw, err := ffmpeg.Probe(path)
	if err != nil {
		return 0, fmt.Errorf("%w: ffprobe %s: %v", types.ErrCollaboratorFailure, filepath.Base(path), err)
	}

	var probed struct {
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}
	if err := json.Unmarshal([]byte(raw), &probed); err != nil {
		return 0, fmt.Errorf("%w: parse ffprobe output: %v", types.ErrCollaboratorFailure, err)
	}
	seconds, err := strconv.ParseFloat(strings.TrimSpace(probed.Format.Duration), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: parse duration %q: %v", types.ErrCollaboratorFailure, probed.Format.Duration, err)
	}
	if seconds <= 0 {
		return 0, fmt.Errorf("%w: media reports duration %.3fs", types.ErrInvalidInput, seconds)
	}
	return seconds, nil
}

// normalizeImage scales an image to fit the target frame then pads with
// black, center-aligned, so every output is exactly width x height whatever
// the source aspect ratio.
func normalizeImage(src, dst string, width, height int) error {
	err := ffmpeg.Input(src).
		Filter("scale", ffmpeg.Args{fmt.Sprintf("%d:%d", width, height)}, ffmpeg.KwArgs{"force_original_aspect_ratio": "decrease"}).
		Filter("pad", ffmpeg.Args{strconv.Itoa(width), strconv.Itoa(height), "(ow-iw)/2", "(oh-ih)/2", "black"}).
		Output(dst).
		OverWriteOutput().
		Run()
	if err != nil {
		return fmt.Errorf("ffmpeg normalize %s: %w", filepath.Base(src), err)
	}
	return nil
}

// encode runs the single final ffmpeg invocation: the image sequence at a
// fixed frame rate, subtitle burn-in when an ASS file is given, and either
// plain narration or a narration+music mix. Output is truncated to the
// narration duration, which is authoritative for total video length.
func encode(concatPath, audioPath, assPath, musicPath, outPath string, musicVolume, audioDuration float64) error {
	video := ffmpeg.Input(concatPath, ffmpeg.KwArgs{"f": "concat", "safe": "0"}).
		Filter("fps", ffmpeg.Args{strconv.Itoa(config.VideoFPS)})
	if assPath != "" {
		video = video.Filter("ass", ffmpeg.Args{escapeFilterPath(assPath)})
	}

	audio := ffmpeg.Input(audioPath)
	if musicPath != "" {
		// Narration keeps full gain; music is attenuated to the configured
		// fraction. The mix is as long as the first (narration) input.
		voice := audio.Filter("volume", ffmpeg.Args{"1.0"})
		bgm := ffmpeg.Input(musicPath).Filter("volume", ffmpeg.Args{fmt.Sprintf("%.3f", musicVolume)})
		audio = ffmpeg.Filter([]*ffmpeg.Stream{voice, bgm}, "amix", ffmpeg.Args{},
			ffmpeg.KwArgs{"inputs": 2, "duration": "first", "dropout_transition": 0})
	}

	err := ffmpeg.Output([]*ffmpeg.Stream{video, audio}, outPath, ffmpeg.KwArgs{
		"c:v":      config.VideoCodec,
		"preset":   config.VideoPreset,
		"crf":      config.VideoCRF,
		"c:a":      config.AudioCodec,
		"b:a":      config.AudioBitrate,
		"movflags": "+faststart",
		"t":        fmt.Sprintf("%.3f", audioDuration),
	}).OverWriteOutput().Run()
	if err != nil {
		return fmt.Errorf("ffmpeg encode: %w", err)
	}
	return nil
}

// extractThumbnail grabs a single frame near the start of the finished
// video as a still image.
func extractThumbnail(videoPath, thumbPath string) error {
	err := ffmpeg.Input(videoPath, ffmpeg.KwArgs{"ss": fmt.Sprintf("%.1f", config.ThumbnailAtSec)}).
		Output(thumbPath, ffmpeg.KwArgs{"vframes": "1", "q:v": "2"}).
		OverWriteOutput().
		Run()
	if err != nil {
		return fmt.Errorf("ffmpeg thumbnail: %w", err)
	}
	return nil
}

// escapeFilterPath converts a path into the form ffmpeg filter arguments
// expect: forward slashes with escaped colons.
func escapeFilterPath(path string) string {
	p := filepath.ToSlash(path)
	return strings.ReplaceAll(p, ":", "\\:")
}
