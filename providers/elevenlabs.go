package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"clipcast/types"
)

const (
	elevenLabsBaseURL = "https://api.elevenlabs.io/v1"
	elevenLabsModel   = "eleven_multilingual_v2"
	elevenLabsFormat  = "mp3_44100_128"
	defaultVoiceName  = "rachel"
)

// elevenLabsVoices maps friendly voice names to ElevenLabs default voice IDs.
var elevenLabsVoices = map[string]string{
	"rachel": "21m00Tcm4TlvDq8ikWAM",
	"drew":   "29vD33N1CtxCmqQRPOHJ",
	"clyde":  "2EiwWnXFnvU5JabPnv8n",
	"paul":   "5Q0t7uMcjvnagumLfvZi",
	"domi":   "AZnzlk1XvdvUeBnXmlld",
	"dave":   "CYw3kZ02Hs0563khs1Fj",
	"fin":    "D38z5RcWu1voky8WS1ja",
	"sarah":  "EXAVITQu4vr4xnSDxMaL",
	"antoni": "ErXwobaYiN019PkySvjV",
	"elli":   "MF3mGyEYCl7XYWbV9V6O",
	"josh":   "TxGEqnHWrfWFTfGW9XjX",
	"arnold": "VR6AewLTigWG4xSOukaG",
	"adam":   "pNInz6obpgDQGcFmaJgB",
	"sam":    "yoZ06aMxZJJ28mfd3POQ",
}

// ValidVoice reports whether a friendly voice name is known.
func ValidVoice(name string) bool {
	_, ok := elevenLabsVoices[name]
	return ok
}

// VoiceNames lists the friendly voice names available for narration.
func VoiceNames() []string {
	names := make([]string, 0, len(elevenLabsVoices))
	for name := range elevenLabsVoices {
		names = append(names, name)
	}
	return names
}

// ElevenLabsSpeech synthesizes narration through the ElevenLabs REST API.
type ElevenLabsSpeech struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewElevenLabsSpeech(apiKey string) *ElevenLabsSpeech {
	return &ElevenLabsSpeech{
		apiKey:  apiKey,
		baseURL: elevenLabsBaseURL,
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

func (e *ElevenLabsSpeech) Synthesize(ctx context.Context, text, voice string) ([]byte, error) {
	voiceID, ok := elevenLabsVoices[voice]
	if !ok {
		voiceID = elevenLabsVoices[defaultVoiceName]
	}

	payload, err := json.Marshal(map[string]string{
		"text":     text,
		"model_id": elevenLabsModel,
	})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/text-to-speech/%s?output_format=%s", e.baseURL, voiceID, elevenLabsFormat)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("xi-api-key", e.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: elevenlabs request: %v", types.ErrCollaboratorFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: elevenlabs: %s - %s", types.ErrCollaboratorFailure, resp.Status, string(body))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read elevenlabs audio: %v", types.ErrCollaboratorFailure, err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("%w: elevenlabs returned empty audio", types.ErrCollaboratorFailure)
	}
	return audio, nil
}
