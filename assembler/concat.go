package assembler

import (
	"fmt"
	"strings"

	"clipcast/types"
)

// buildConcatFile renders the ffmpeg concat demuxer descriptor: each
// normalized image shown for its scene's computed duration. The final image
// is listed once more without a duration: the demuxer needs a closing
// sentinel entry to honor the last duration; it is not a visual repeat.
func buildConcatFile(timed []types.TimedScene) string {
	var b strings.Builder
	for _, scene := range timed {
		fmt.Fprintf(&b, "file '%s'\n", scene.ImagePath)
		fmt.Fprintf(&b, "duration %.3f\n", scene.Duration)
	}
	if len(timed) > 0 {
		fmt.Fprintf(&b, "file '%s'\n", timed[len(timed)-1].ImagePath)
	}
	return b.String()
}
