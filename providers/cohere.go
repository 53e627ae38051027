package providers

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"time"

	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereclient "github.com/cohere-ai/cohere-go/v2/client"

	"clipcast/types"
)

const cohereScriptModel = "command-r-08-2024"

// CohereScript generates scripts through the Cohere chat API. Responses are
// plain text, so the scene list goes through the tolerant JSON parser.
type CohereScript struct {
	client *cohereclient.Client
}

func NewCohereScript(apiKey string) *CohereScript {
	// Force HTTP/1.1; the Cohere endpoint intermittently resets HTTP/2 streams.
	httpClient := &http.Client{
		Timeout: 60 * time.Second,
		Transport: &http.Transport{
			TLSNextProto:      make(map[string]func(authority string, c *tls.Conn) http.RoundTripper),
			ForceAttemptHTTP2: false,
		},
	}
	client := cohereclient.NewClient(
		cohereclient.WithToken(apiKey),
		cohereclient.WithHTTPClient(httpClient),
	)
	return &CohereScript{client: client}
}

func (c *CohereScript) GenerateScript(ctx context.Context, topic, style string, numScenes int) ([]types.Scene, error) {
	resp, err := c.client.Chat(ctx, &cohere.ChatRequest{
		Message:  fmt.Sprintf("Create a video script about: %s", topic),
		Model:    cohere.String(cohereScriptModel),
		Preamble: cohere.String(scriptSystemPrompt(style, numScenes)),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: cohere chat: %v", types.ErrCollaboratorFailure, err)
	}
	if resp == nil || resp.Text == "" {
		return nil, fmt.Errorf("%w: cohere returned empty response", types.ErrCollaboratorFailure)
	}
	return parseSceneList(resp.Text)
}
