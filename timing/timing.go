// Package timing derives per-scene display windows from narration length.
//
// The scriptwriter's advisory durations are routinely wrong, so timing is
// estimated from word counts against the measured narration duration: a
// scene with twice the words gets twice the screen time. A short floor keeps
// even one-word scenes readable, which means the summed estimate can drift
// slightly past the audio length; assembly truncates the final encode to the
// audio, so the drift never reaches viewers.
package timing

import (
	"fmt"
	"math"
	"strings"

	"clipcast/config"
	"clipcast/types"
)

// Estimate produces contiguous, non-overlapping timed scenes covering the
// narration. totalAudioDuration must be the probed duration of the real
// narration track, in seconds.
func Estimate(scenes []types.Scene, totalAudioDuration float64) ([]types.TimedScene, error) {
	if len(scenes) == 0 {
		return nil, fmt.Errorf("%w: no scenes", types.ErrInvalidInput)
	}
	if totalAudioDuration <= 0 {
		return nil, fmt.Errorf("%w: audio duration must be positive, got %.3fs", types.ErrInvalidInput, totalAudioDuration)
	}

	totalWords := 0
	for _, s := range scenes {
		totalWords += wordCount(s.Text)
	}
	if totalWords == 0 {
		return nil, fmt.Errorf("%w: narration text is empty", types.ErrInvalidInput)
	}

	wordsPerSecond := float64(totalWords) / totalAudioDuration

	timed := make([]types.TimedScene, 0, len(scenes))
	current := 0.0
	for _, s := range scenes {
		d := math.Max(config.MinSceneSeconds, float64(wordCount(s.Text))/wordsPerSecond)
		timed = append(timed, types.TimedScene{
			Text:      s.Text,
			StartTime: current,
			Duration:  d,
		})
		current += d
	}
	return timed, nil
}

func wordCount(text string) int {
	return len(strings.Fields(text))
}
