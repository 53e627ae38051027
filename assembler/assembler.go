// Package assembler is the media composition engine: it turns per-scene
// images plus a narration track into one finished vertical MP4, with
// burned-in captions and optional background music, by driving ffmpeg
// through a single composed invocation.
package assembler

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"clipcast/config"
	"clipcast/subtitles"
	"clipcast/timing"
	"clipcast/types"
)

// Options configures one composition run.
type Options struct {
	Width        int
	Height       int
	Captions     bool
	CaptionStyle string
	MusicURL     string
	MusicVolume  float64
	Thumbnail    bool
}

// Result describes the finished artifacts. ThumbnailPath is empty when
// thumbnail extraction was disabled or failed (extraction is best-effort).
type Result struct {
	VideoPath     string
	ThumbnailPath string
	Duration      float64
}

// Engine downloads scene assets into a scratch directory, runs the encode
// and writes finished artifacts under outputDir.
type Engine struct {
	client    *http.Client
	outputDir string
}

// New returns an engine writing finished videos to outputDir.
func New(outputDir string) *Engine {
	return &Engine{
		client:    &http.Client{Timeout: 2 * time.Minute},
		outputDir: outputDir,
	}
}

// Compose runs the full assembly sequence. Every step feeds the next; the
// probed narration duration is the single source of truth for total length.
// Any image fetch, probe or encode failure aborts the run with no surfaced
// output. The scratch directory is released on every exit path.
func (e *Engine) Compose(ctx context.Context, scenes []types.Scene, imageURLs []string, narration []byte, opts Options) (*Result, error) {
	if len(scenes) == 0 {
		return nil, fmt.Errorf("%w: no scenes to compose", types.ErrInvalidInput)
	}
	if len(imageURLs) != len(scenes) {
		return nil, fmt.Errorf("%w: %d scenes but %d images", types.ErrInvalidInput, len(scenes), len(imageURLs))
	}
	if len(narration) == 0 {
		return nil, fmt.Errorf("%w: empty narration audio", types.ErrInvalidInput)
	}
	if opts.Width <= 0 {
		opts.Width = config.VideoWidth
	}
	if opts.Height <= 0 {
		opts.Height = config.VideoHeight
	}
	if opts.MusicVolume < 0 {
		opts.MusicVolume = 0
	}
	if opts.MusicVolume > 1 {
		opts.MusicVolume = 1
	}

	tempDir, err := os.MkdirTemp("", "clipcast-")
	if err != nil {
		return nil, fmt.Errorf("failed to create scratch dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	// Persist narration and measure its true duration.
	audioPath := filepath.Join(tempDir, "narration.mp3")
	if err := os.WriteFile(audioPath, narration, 0644); err != nil {
		return nil, fmt.Errorf("failed to write narration: %w", err)
	}
	audioDuration, err := probeDuration(audioPath)
	if err != nil {
		return nil, err
	}

	timed, err := timing.Estimate(scenes, audioDuration)
	if err != nil {
		return nil, err
	}

	// Fetch and normalize every scene image to the exact frame size.
	localImages, err := e.fetchSceneImages(ctx, tempDir, imageURLs)
	if err != nil {
		return nil, err
	}
	for i, src := range localImages {
		normalized := filepath.Join(tempDir, fmt.Sprintf("frame-%03d.png", i))
		if err := normalizeImage(src, normalized, opts.Width, opts.Height); err != nil {
			return nil, fmt.Errorf("%w: normalize image %d: %v", types.ErrEncodingFailure, i, err)
		}
		timed[i].ImagePath = normalized
	}

	assPath := ""
	if opts.Captions {
		assPath = filepath.Join(tempDir, "captions.ass")
		doc := subtitles.Document(timed, opts.CaptionStyle)
		if err := os.WriteFile(assPath, []byte(doc), 0644); err != nil {
			return nil, fmt.Errorf("failed to write subtitles: %w", err)
		}
	}

	concatPath := filepath.Join(tempDir, "concat.txt")
	if err := os.WriteFile(concatPath, []byte(buildConcatFile(timed)), 0644); err != nil {
		return nil, fmt.Errorf("failed to write image sequence: %w", err)
	}

	musicPath := ""
	if opts.MusicURL != "" {
		musicPath = filepath.Join(tempDir, "music.mp3")
		if err := e.downloadFile(ctx, opts.MusicURL, musicPath); err != nil {
			return nil, fmt.Errorf("%w: fetch music: %v", types.ErrCollaboratorFailure, err)
		}
	}

	if err := os.MkdirAll(e.outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}
	stamp := time.Now()
	outPath := filepath.Join(e.outputDir, artifactName("video", "mp4", stamp))
	if err := encode(concatPath, audioPath, assPath, musicPath, outPath, opts.MusicVolume, audioDuration); err != nil {
		// A partial file is not a valid artifact.
		os.Remove(outPath)
		return nil, fmt.Errorf("%w: %v", types.ErrEncodingFailure, err)
	}

	result := &Result{VideoPath: outPath, Duration: audioDuration}
	if opts.Thumbnail {
		thumbPath := filepath.Join(e.outputDir, artifactName("thumb", "jpg", stamp))
		if err := extractThumbnail(outPath, thumbPath); err != nil {
			log.Printf("thumbnail extraction failed (continuing): %v", err)
			os.Remove(thumbPath)
		} else {
			result.ThumbnailPath = thumbPath
		}
	}
	return result, nil
}

// artifactName builds the deterministic timestamp-named artifact file name.
func artifactName(prefix, ext string, ts time.Time) string {
	return fmt.Sprintf("%s-%d.%s", prefix, ts.UnixMilli(), ext)
}
