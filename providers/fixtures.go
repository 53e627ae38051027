package providers

import (
	"bytes"
	"context"
	"sync/atomic"

	"clipcast/types"
)

// Fixture providers answer every request with canned content so the full
// pipeline runs end to end without any API credentials. The images are
// real fetchable stock photos in the output aspect ratio; the audio is a
// short run of silent MP3 frames that ffprobe accepts.

var fixtureScenes = []types.Scene{
	{Text: "Did you know the ancient Mayans predicted solar eclipses with incredible accuracy?", ImagePrompt: "Ancient Mayan observatory with starry night sky", Duration: 6},
	{Text: "But one day, their entire civilization just... vanished.", ImagePrompt: "Abandoned Mayan temple overtaken by jungle", Duration: 5},
	{Text: "Theories range from drought to warfare to disease.", ImagePrompt: "Dried cracked earth with Mayan ruins in background", Duration: 5},
	{Text: "But the truth might be even stranger.", ImagePrompt: "Mysterious glowing symbols on Mayan stone wall", Duration: 4},
	{Text: "What really happened to the Maya?", ImagePrompt: "Mayan calendar stone with dramatic lighting", Duration: 4},
}

var fixtureImages = []string{
	"https://images.unsplash.com/photo-1518638150340-f706e86654de?w=1080&h=1920&fit=crop",
	"https://images.unsplash.com/photo-1568402102990-bc541580b59f?w=1080&h=1920&fit=crop",
	"https://images.unsplash.com/photo-1509316785289-025f5b846b35?w=1080&h=1920&fit=crop",
	"https://images.unsplash.com/photo-1547471080-7cc2caa01a7e?w=1080&h=1920&fit=crop",
	"https://images.unsplash.com/photo-1464817739973-0128fe77aaa1?w=1080&h=1920&fit=crop",
}

var silentMP3Frame = []byte{
	0xFF, 0xFB, 0x90, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
}

// NewFixtureSet returns a provider set backed entirely by canned content.
func NewFixtureSet() *Set {
	f := &Fixtures{}
	return &Set{Script: f, Image: f, Speech: f}
}

// Fixtures implements all three provider roles with canned responses.
type Fixtures struct {
	imageIndex atomic.Int64
}

func (f *Fixtures) GenerateScript(ctx context.Context, topic, style string, numScenes int) ([]types.Scene, error) {
	scenes := make([]types.Scene, len(fixtureScenes))
	copy(scenes, fixtureScenes)
	return scenes, nil
}

// GenerateImage cycles through the stock photos so consecutive scenes get
// distinct images.
func (f *Fixtures) GenerateImage(ctx context.Context, prompt, style string) (string, error) {
	i := f.imageIndex.Add(1) - 1
	return fixtureImages[int(i)%len(fixtureImages)], nil
}

func (f *Fixtures) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	return bytes.Repeat(silentMP3Frame, 500), nil
}
