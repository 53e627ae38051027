package subtitles

// Position anchors captions vertically on the frame.
type Position string

const (
	PositionTop    Position = "top"
	PositionCenter Position = "center"
	PositionBottom Position = "bottom"
)

// CaptionStyle is a named preset for burned-in captions. Colors are plain
// #RRGGBB hex; OutlineColor may be "none" to disable the outline entirely.
type CaptionStyle struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Font         string   `json:"font"`
	FontSize     int      `json:"fontSize"`
	TextColor    string   `json:"textColor"`
	OutlineColor string   `json:"outlineColor"`
	Position     Position `json:"position"`
}

// DefaultStyleID is used whenever a requested style id is unknown.
const DefaultStyleID = "classic"

var captionStyles = []CaptionStyle{
	{
		ID:           "classic",
		Name:         "Classic",
		Font:         "Arial",
		FontSize:     72,
		TextColor:    "#FFFFFF",
		OutlineColor: "#000000",
		Position:     PositionBottom,
	},
	{
		ID:           "bold",
		Name:         "Bold Pop",
		Font:         "Impact",
		FontSize:     80,
		TextColor:    "#FFFF00",
		OutlineColor: "#000000",
		Position:     PositionBottom,
	},
	{
		ID:           "minimal",
		Name:         "Minimal",
		Font:         "Helvetica",
		FontSize:     64,
		TextColor:    "#FFFFFF",
		OutlineColor: "none",
		Position:     PositionCenter,
	},
	{
		ID:           "headline",
		Name:         "Headline",
		Font:         "Arial",
		FontSize:     68,
		TextColor:    "#FFFFFF",
		OutlineColor: "#1A1A2E",
		Position:     PositionTop,
	},
}

// Styles returns the full caption style catalog.
func Styles() []CaptionStyle {
	out := make([]CaptionStyle, len(captionStyles))
	copy(out, captionStyles)
	return out
}

// StyleByID resolves a style id, falling back to the default style for
// unknown ids. Selection never fails.
func StyleByID(id string) CaptionStyle {
	for _, s := range captionStyles {
		if s.ID == id {
			return s
		}
	}
	for _, s := range captionStyles {
		if s.ID == DefaultStyleID {
			return s
		}
	}
	return captionStyles[0]
}
