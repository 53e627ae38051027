// Package providers defines the collaborator contracts the pipeline
// consumes (script writing, image generation, speech synthesis) and one
// implementation per back-end. The binding is resolved once from the
// environment at construction; the timing/composition core never sees
// which back-end is in play.
package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"regexp"
	"strings"

	"clipcast/types"
)

// ScriptProvider writes a scene-by-scene script for a topic.
type ScriptProvider interface {
	GenerateScript(ctx context.Context, topic, style string, numScenes int) ([]types.Scene, error)
}

// ImageProvider renders one scene image and returns a fetchable URL.
type ImageProvider interface {
	GenerateImage(ctx context.Context, prompt, style string) (string, error)
}

// SpeechProvider narrates the full concatenated script as one audio track.
type SpeechProvider interface {
	Synthesize(ctx context.Context, text, voice string) ([]byte, error)
}

// Set bundles one provider per collaborator role.
type Set struct {
	Script ScriptProvider
	Image  ImageProvider
	Speech SpeechProvider
}

// NewSetFromEnv binds providers from environment configuration. Script
// generation prefers Cohere when COHERE_API_KEY is set, otherwise OpenAI;
// images come from OpenAI; speech from ElevenLabs. When no key for a role
// is configured the whole set falls back to fixtures so the service stays
// usable for demos.
func NewSetFromEnv() *Set {
	var script ScriptProvider
	if key := strings.TrimSpace(os.Getenv("COHERE_API_KEY")); key != "" {
		script = NewCohereScript(key)
	} else if key := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); key != "" {
		script = NewOpenAIScript(key)
	}

	var image ImageProvider
	if key := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); key != "" {
		image = NewOpenAIImage(key)
	}

	var speech SpeechProvider
	if key := strings.TrimSpace(os.Getenv("ELEVENLABS_API_KEY")); key != "" {
		speech = NewElevenLabsSpeech(key)
	}

	if script == nil || image == nil || speech == nil {
		log.Println("collaborator credentials incomplete; using fixture providers")
		return NewFixtureSet()
	}
	return &Set{Script: script, Image: image, Speech: speech}
}

var styleSuffixes = map[string]string{
	"realistic":   "photorealistic, cinematic lighting, 8k, highly detailed",
	"anime":       "anime style, vibrant colors, studio ghibli inspired",
	"horror":      "dark, eerie, horror movie aesthetic, dramatic shadows",
	"documentary": "documentary style, realistic, historical accuracy",
	"fantasy":     "fantasy art, magical, ethereal lighting, detailed",
	"minimalist":  "minimalist, clean, modern design, simple",
}

// StyledPrompt appends the style's rendering suffix to an image prompt.
func StyledPrompt(prompt, style string) string {
	suffix, ok := styleSuffixes[style]
	if !ok {
		suffix = styleSuffixes["realistic"]
	}
	return prompt + ", " + suffix
}

var codeFenceRe = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")

// parseSceneList decodes an LLM response into scenes. Models wrap JSON in
// markdown fences or an object with a "scenes" key often enough that both
// shapes are tolerated; anything else is a malformed collaborator output.
func parseSceneList(raw string) ([]types.Scene, error) {
	raw = strings.TrimSpace(raw)
	if m := codeFenceRe.FindStringSubmatch(raw); m != nil {
		raw = m[1]
	}

	var scenes []types.Scene
	if err := json.Unmarshal([]byte(raw), &scenes); err != nil {
		var wrapped struct {
			Scenes []types.Scene `json:"scenes"`
		}
		if err2 := json.Unmarshal([]byte(raw), &wrapped); err2 != nil || len(wrapped.Scenes) == 0 {
			return nil, fmt.Errorf("%w: script output is not a scene list: %v", types.ErrInvalidInput, err)
		}
		scenes = wrapped.Scenes
	}

	if len(scenes) == 0 {
		return nil, fmt.Errorf("%w: script output contains no scenes", types.ErrInvalidInput)
	}
	for i, s := range scenes {
		if strings.TrimSpace(s.Text) == "" {
			return nil, fmt.Errorf("%w: scene %d has empty narration", types.ErrInvalidInput, i)
		}
	}
	return scenes, nil
}

// scriptSystemPrompt is shared by all script back-ends so switching
// providers does not change the output contract.
func scriptSystemPrompt(style string, numScenes int) string {
	return fmt.Sprintf(`You are a viral video scriptwriter. Create engaging, hook-driven scripts for short-form video content.

Style: %s

Output ONLY a JSON array of EXACTLY %d scenes. Each scene should be 6-10 seconds of narration.
Format:
[
  {
    "text": "The narration text for this scene",
    "imagePrompt": "Detailed image generation prompt for this scene",
    "duration": 7
  }
]

Rules:
- Start with a strong hook that grabs attention in the first 2 seconds
- Keep sentences short and punchy
- Each scene should be visually distinct
- Image prompts should be detailed and cinematic
- Total video should be ~%d seconds
- Output ONLY valid JSON, no other text`, style, numScenes, numScenes*8)
}
