// Package subtitles renders timed scenes into an ASS (Advanced SubStation)
// document for ffmpeg's subtitle burn-in filter, with one global style block
// derived from a named caption preset.
package subtitles

import (
	"fmt"
	"strconv"
	"strings"

	"clipcast/config"
	"clipcast/types"
)

// ASS stores colors as &HAABBGGRR: alpha first (00 = opaque), then channels
// in reverse order from the usual #RRGGBB.
func assColor(hex string) string {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) != 6 {
		return "&H00FFFFFF"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return "&H00FFFFFF"
	}
	r := (v >> 16) & 0xFF
	g := (v >> 8) & 0xFF
	b := v & 0xFF
	return fmt.Sprintf("&H00%02X%02X%02X", b, g, r)
}

// Numpad-style anchor codes: 2 bottom-center, 5 middle-center, 8 top-center.
func alignmentCode(p Position) int {
	switch p {
	case PositionTop:
		return 8
	case PositionCenter:
		return 5
	default:
		return 2
	}
}

func verticalMargin(p Position) int {
	if p == PositionCenter {
		return 0
	}
	return config.SubtitleMarginV
}

// formatTimestamp converts seconds to the ASS H:MM:SS.cc form.
func formatTimestamp(seconds float64) string {
	hours := int(seconds / 3600)
	minutes := int((seconds - float64(hours*3600)) / 60)
	secs := int(seconds) % 60
	centisecs := int((seconds - float64(int(seconds))) * 100)
	return fmt.Sprintf("%d:%02d:%02d.%02d", hours, minutes, secs, centisecs)
}

// escapeText neutralizes the ASS directive delimiters so narration text can
// never be read as an override block.
func escapeText(text string) string {
	text = strings.ReplaceAll(text, `\`, `\\`)
	text = strings.ReplaceAll(text, "{", `\{`)
	text = strings.ReplaceAll(text, "}", `\}`)
	return text
}

// Document renders a complete subtitle document: header, one style derived
// from the caption preset, and one dialogue event per timed scene. Unknown
// style ids silently use the default preset.
func Document(timed []types.TimedScene, styleID string) string {
	style := StyleByID(styleID)

	outline := 0
	outlineColor := "&H00000000"
	if style.OutlineColor != "none" {
		outline = config.SubtitleOutlineWidth
		outlineColor = assColor(style.OutlineColor)
	}

	var b strings.Builder
	b.WriteString("[Script Info]\n")
	b.WriteString("Title: clipcast\n")
	b.WriteString("ScriptType: v4.00+\n")
	b.WriteString("PlayDepth: 0\n")
	fmt.Fprintf(&b, "PlayResX: %d\n", config.SubtitlePlayResX)
	fmt.Fprintf(&b, "PlayResY: %d\n", config.SubtitlePlayResY)
	b.WriteString("\n[V4+ Styles]\n")
	b.WriteString("Format: Name, Fontname, Fontsize, PrimaryColour, SecondaryColour, OutlineColour, BackColour, Bold, Italic, Underline, StrikeOut, ScaleX, ScaleY, Spacing, Angle, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV, Encoding\n")
	fmt.Fprintf(&b, "Style: Default,%s,%d,%s,&H000000FF,%s,&H80000000,-1,0,0,0,100,100,0,0,1,%d,%d,%d,%d,%d,%d,1\n",
		style.Font,
		style.FontSize,
		assColor(style.TextColor),
		outlineColor,
		outline,
		config.SubtitleShadow,
		alignmentCode(style.Position),
		config.SubtitleMarginX,
		config.SubtitleMarginX,
		verticalMargin(style.Position),
	)
	b.WriteString("\n[Events]\n")
	b.WriteString("Format: Layer, Start, End, Style, Name, MarginL, MarginR, MarginV, Effect, Text\n")

	for _, scene := range timed {
		fmt.Fprintf(&b, "Dialogue: 0,%s,%s,Default,,0,0,0,,%s\n",
			formatTimestamp(scene.StartTime),
			formatTimestamp(scene.End()),
			escapeText(scene.Text),
		)
	}
	return b.String()
}
