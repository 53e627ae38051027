package providers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"clipcast/types"
)

// sceneListResponse is the structured output contract for script generation.
type sceneListResponse struct {
	Scenes []sceneItem `json:"scenes" jsonschema_description:"The ordered list of scenes making up the video script."`
}

type sceneItem struct {
	Text        string  `json:"text" jsonschema_description:"The narration text spoken during this scene."`
	ImagePrompt string  `json:"imagePrompt" jsonschema_description:"A detailed, cinematic image generation prompt for this scene."`
	Duration    float64 `json:"duration" jsonschema_description:"Approximate scene duration in seconds."`
}

// GenerateSchema builds a JSON schema for structured outputs.
func GenerateSchema[T any]() interface{} {
	reflector := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

var sceneListSchema = GenerateSchema[sceneListResponse]()

// OpenAIScript generates scripts with chat completions constrained to a
// JSON schema, so the scene list never needs fence stripping.
type OpenAIScript struct {
	client openai.Client
}

func NewOpenAIScript(apiKey string) *OpenAIScript {
	return &OpenAIScript{client: openai.NewClient(option.WithAPIKey(apiKey))}
}

func (o *OpenAIScript) GenerateScript(ctx context.Context, topic, style string, numScenes int) ([]types.Scene, error) {
	schemaParam := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        "scene_list",
		Description: openai.String("Scene-by-scene short video script"),
		Schema:      sceneListSchema,
		Strict:      openai.Bool(true),
	}

	completion, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(scriptSystemPrompt(style, numScenes)),
			openai.UserMessage(fmt.Sprintf("Create a video script about: %s", topic)),
		},
		Model: openai.ChatModelGPT4oMini,
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: schemaParam,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: openai chat: %v", types.ErrCollaboratorFailure, err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("%w: openai returned no choices", types.ErrCollaboratorFailure)
	}

	var parsed sceneListResponse
	if err := json.Unmarshal([]byte(completion.Choices[0].Message.Content), &parsed); err != nil {
		return nil, fmt.Errorf("%w: parse script response: %v", types.ErrInvalidInput, err)
	}

	scenes := make([]types.Scene, 0, len(parsed.Scenes))
	for _, s := range parsed.Scenes {
		scenes = append(scenes, types.Scene{Text: s.Text, ImagePrompt: s.ImagePrompt, Duration: s.Duration})
	}
	if len(scenes) == 0 {
		return nil, fmt.Errorf("%w: script contains no scenes", types.ErrInvalidInput)
	}
	return scenes, nil
}

// OpenAIImage renders scene stills with DALL-E 3 in a vertical format.
type OpenAIImage struct {
	client openai.Client
}

func NewOpenAIImage(apiKey string) *OpenAIImage {
	return &OpenAIImage{client: openai.NewClient(option.WithAPIKey(apiKey))}
}

func (o *OpenAIImage) GenerateImage(ctx context.Context, prompt, style string) (string, error) {
	resp, err := o.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Model:  openai.ImageModelDallE3,
		Prompt: StyledPrompt(prompt, style),
		N:      openai.Int(1),
		// Closest DALL-E size to the 9:16 output frame.
		Size:    openai.ImageGenerateParamsSize1024x1792,
		Quality: openai.ImageGenerateParamsQualityStandard,
	})
	if err != nil {
		return "", fmt.Errorf("%w: openai image: %v", types.ErrCollaboratorFailure, err)
	}
	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return "", fmt.Errorf("%w: openai returned no image", types.ErrCollaboratorFailure)
	}
	return resp.Data[0].URL, nil
}
