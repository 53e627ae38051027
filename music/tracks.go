// Package music holds the background music catalog: royalty-free CC0 tracks
// keyed by id, with mood tags used to suggest tracks for a visual style.
package music

// Mood groups tracks for style-based suggestions.
type Mood string

const (
	MoodNone       Mood = "none"
	MoodDramatic   Mood = "dramatic"
	MoodUpbeat     Mood = "upbeat"
	MoodMysterious Mood = "mysterious"
	MoodCalm       Mood = "calm"
)

// Track is one selectable background music option. The "none" track has an
// empty URL and means voice-only output.
type Track struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	URL         string  `json:"url"`
	Duration    float64 `json:"duration"`
	Mood        Mood    `json:"mood"`
}

var tracks = []Track{
	{
		ID:          "none",
		Name:        "No Music",
		Description: "Voice only",
		Mood:        MoodNone,
	},
	{
		ID:          "dramatic-orchestral",
		Name:        "Epic Journey",
		Description: "Cinematic orchestral",
		URL:         "https://cdn.pixabay.com/audio/2022/01/18/audio_d1718ab41b.mp3",
		Duration:    120,
		Mood:        MoodDramatic,
	},
	{
		ID:          "mysterious",
		Name:        "Dark Secrets",
		Description: "Mysterious ambient",
		URL:         "https://cdn.pixabay.com/audio/2022/10/25/audio_946276e959.mp3",
		Duration:    150,
		Mood:        MoodMysterious,
	},
	{
		ID:          "upbeat",
		Name:        "Energy Rise",
		Description: "Motivational electronic",
		URL:         "https://cdn.pixabay.com/audio/2022/05/27/audio_1808fbf07a.mp3",
		Duration:    100,
		Mood:        MoodUpbeat,
	},
	{
		ID:          "calm",
		Name:        "Gentle Flow",
		Description: "Peaceful piano",
		URL:         "https://cdn.pixabay.com/audio/2022/01/27/audio_15bd58c2cf.mp3",
		Duration:    180,
		Mood:        MoodCalm,
	},
}

// Tracks returns the full catalog.
func Tracks() []Track {
	out := make([]Track, len(tracks))
	copy(out, tracks)
	return out
}

// TrackByID looks up a track; ok is false for unknown ids.
func TrackByID(id string) (Track, bool) {
	for _, t := range tracks {
		if t.ID == id {
			return t, true
		}
	}
	return Track{}, false
}

var styleMoods = map[string][]Mood{
	"realistic":   {MoodCalm, MoodDramatic},
	"anime":       {MoodUpbeat, MoodDramatic},
	"horror":      {MoodMysterious, MoodDramatic},
	"documentary": {MoodCalm, MoodDramatic},
	"fantasy":     {MoodDramatic, MoodMysterious},
	"minimalist":  {MoodCalm},
}

// TracksForStyle suggests tracks matching a visual style. The "none" track
// is always included so voice-only stays selectable.
func TracksForStyle(style string) []Track {
	moods, ok := styleMoods[style]
	if !ok {
		moods = []Mood{MoodCalm, MoodDramatic}
	}
	var out []Track
	for _, t := range tracks {
		if t.Mood == MoodNone || containsMood(moods, t.Mood) {
			out = append(out, t)
		}
	}
	return out
}

func containsMood(moods []Mood, m Mood) bool {
	for _, mood := range moods {
		if mood == m {
			return true
		}
	}
	return false
}
