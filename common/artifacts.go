package common

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ArtifactStore publishes finished videos and thumbnails to an S3 bucket
// and hands back their public URLs.
type ArtifactStore struct {
	s3        *S3
	bucket    string
	prefix    string
	publicURL string
	region    string
}

// NewArtifactStoreFromEnv builds an artifact store from ARTIFACT_BUCKET,
// AWS_REGION and optional ARTIFACT_PREFIX / ARTIFACT_PUBLIC_URL. Returns
// nil without error when no bucket is configured; publishing is optional.
func NewArtifactStoreFromEnv(ctx context.Context) (*ArtifactStore, error) {
	bucket := os.Getenv("ARTIFACT_BUCKET")
	if bucket == "" {
		return nil, nil
	}
	region := os.Getenv("AWS_REGION")

	s3, err := NewS3(ctx, S3Config{Region: region})
	if err != nil {
		return nil, fmt.Errorf("init s3: %w", err)
	}

	prefix := os.Getenv("ARTIFACT_PREFIX")
	if prefix == "" {
		prefix = "videos"
	}
	if region == "" {
		region = "us-east-1"
	}

	return &ArtifactStore{
		s3:        s3,
		bucket:    bucket,
		prefix:    strings.Trim(prefix, "/"),
		publicURL: strings.TrimRight(os.Getenv("ARTIFACT_PUBLIC_URL"), "/"),
		region:    region,
	}, nil
}

// Publish uploads a local artifact and returns its public URL. The key is
// the artifact's own timestamped file name under the configured prefix.
func (a *ArtifactStore) Publish(ctx context.Context, localPath, contentType string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("open artifact: %w", err)
	}
	defer f.Close()

	key := a.prefix + "/" + filepath.Base(localPath)
	if err := a.s3.Put(ctx, a.bucket, key, f, contentType, "public, max-age=86400", ""); err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return a.url(key), nil
}

func (a *ArtifactStore) url(key string) string {
	if a.publicURL != "" {
		return a.publicURL + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", a.bucket, a.region, key)
}
