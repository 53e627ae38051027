// Package publish uploads finished videos to YouTube as Shorts.
package publish

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"clipcast/types"
)

// Metadata describes the listing for an uploaded video.
type Metadata struct {
	Title       string
	Description string
	Tags        []string
	CategoryID  string
}

// Uploader publishes videos through a service-account credential.
type Uploader struct {
	service *youtube.Service
}

// NewUploaderFromEnv builds an uploader from YOUTUBE_SERVICE_ACCOUNT_FILE.
// Returns nil without error when unset; uploading is optional.
func NewUploaderFromEnv(ctx context.Context) (*Uploader, error) {
	file := os.Getenv("YOUTUBE_SERVICE_ACCOUNT_FILE")
	if file == "" {
		return nil, nil
	}
	return NewUploader(ctx, file)
}

func NewUploader(ctx context.Context, serviceAccountFile string) (*Uploader, error) {
	data, err := os.ReadFile(serviceAccountFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read service account file: %w", err)
	}

	config, err := google.JWTConfigFromJSON(data, youtube.YoutubeUploadScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse service account: %w", err)
	}

	service, err := youtube.NewService(ctx, option.WithHTTPClient(config.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("unable to create YouTube service: %w", err)
	}

	return &Uploader{service: service}, nil
}

// Upload pushes a finished video file and returns the Shorts URL.
func (u *Uploader) Upload(ctx context.Context, videoPath string, metadata Metadata) (string, error) {
	file, err := os.Open(videoPath)
	if err != nil {
		return "", fmt.Errorf("failed to open video file: %w", err)
	}
	defer file.Close()

	fileInfo, err := file.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat video file: %w", err)
	}

	log.Printf("uploading %s (%.2f MB)", videoPath, float64(fileInfo.Size())/(1024*1024))

	video := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:       metadata.Title,
			Description: metadata.Description,
			Tags:        metadata.Tags,
			CategoryId:  metadata.CategoryID,
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus:           "public",
			SelfDeclaredMadeForKids: false,
		},
	}

	call := u.service.Videos.Insert([]string{"snippet", "status"}, video).
		Context(ctx).
		Media(file)

	response, err := call.Do()
	if err != nil {
		return "", fmt.Errorf("failed to upload video: %w", err)
	}

	url := "https://youtube.com/shorts/" + response.Id
	log.Printf("uploaded %s", url)
	return url, nil
}

// UploadProject publishes a finished project's video with derived metadata.
func (u *Uploader) UploadProject(ctx context.Context, p *types.Project, videoPath string) (string, error) {
	return u.Upload(ctx, videoPath, MetadataForProject(p))
}

// MetadataForProject derives a Shorts listing from a finished project.
func MetadataForProject(p *types.Project) Metadata {
	title := p.Topic
	if len(title) > 100 {
		title = title[:97] + "..."
	}

	var hook string
	if len(p.Scenes) > 0 {
		hook = p.Scenes[0].Text
	}

	description := strings.TrimSpace(fmt.Sprintf(
		"%s\n\nGenerated short about: %s\n#shorts #%s", hook, p.Topic, p.Style))

	return Metadata{
		Title:       title,
		Description: description,
		Tags:        []string{p.Topic, p.Style, "shorts"},
		CategoryID:  "24",
	}
}
