package types

import "time"

// Status tracks a project through the generation pipeline.
// The progression is strictly linear; Complete and Error are terminal.
type Status string

const (
	StatusPending          Status = "pending"
	StatusGeneratingScript Status = "generating_script"
	StatusGeneratingImages Status = "generating_images"
	StatusGeneratingAudio  Status = "generating_audio"
	StatusAssembling       Status = "assembling"
	StatusComplete         Status = "complete"
	StatusError            Status = "error"
)

// Terminal reports whether no further transitions are allowed from s.
func (s Status) Terminal() bool {
	return s == StatusComplete || s == StatusError
}

// Scene is one narration beat with its visual prompt. The Duration field is
// the scriptwriter's suggestion only; real timing is derived from the
// narration audio after synthesis.
type Scene struct {
	Text        string  `json:"text"`
	ImagePrompt string  `json:"imagePrompt"`
	Duration    float64 `json:"duration"`
}

// TimedScene is a scene annotated with its computed on-screen window and the
// local image file backing it during assembly.
type TimedScene struct {
	Text      string  `json:"text"`
	ImagePath string  `json:"imagePath,omitempty"`
	StartTime float64 `json:"startTime"`
	Duration  float64 `json:"duration"`
}

// End returns the scene's end time in seconds.
func (t TimedScene) End() float64 {
	return t.StartTime + t.Duration
}

// Project is the shared record a pipeline run mutates and status queries read.
type Project struct {
	ID           string    `json:"id"`
	Topic        string    `json:"topic"`
	Style        string    `json:"style"`
	Voice        string    `json:"voice"`
	Music        string    `json:"music"`
	CaptionStyle string    `json:"captionStyle"`
	NumScenes    int       `json:"numScenes"`
	Scenes       []Scene   `json:"scenes"`
	Status       Status    `json:"status"`
	Progress     int       `json:"progress"`
	VideoPath    string    `json:"videoUrl,omitempty"`
	Thumbnail    string    `json:"thumbnailUrl,omitempty"`
	Duration     float64   `json:"duration,omitempty"`
	ImageURLs    []string  `json:"imageUrls,omitempty"`
	Error        string    `json:"error,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Clone returns a deep copy so callers can hand out read-only snapshots.
func (p *Project) Clone() *Project {
	c := *p
	c.Scenes = append([]Scene(nil), p.Scenes...)
	c.ImageURLs = append([]string(nil), p.ImageURLs...)
	return &c
}
