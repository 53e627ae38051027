// Package pipeline orchestrates a full generation run: script, images,
// narration, then media assembly, updating the stored project after every
// stage so status polling always sees current progress.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"clipcast/assembler"
	"clipcast/config"
	"clipcast/music"
	"clipcast/providers"
	"clipcast/store"
	"clipcast/subtitles"
	"clipcast/types"
)

// Composer is the assembly half of the pipeline. A nil composer switches the
// orchestrator into preview mode, where the first scene image stands in for
// the finished video.
type Composer interface {
	Compose(ctx context.Context, scenes []types.Scene, imageURLs []string, narration []byte, opts assembler.Options) (*assembler.Result, error)
}

// Publisher pushes a finished artifact to external storage and returns its
// public URL. Publishing is best-effort; local paths remain valid without it.
type Publisher interface {
	Publish(ctx context.Context, localPath, contentType string) (string, error)
}

// Uploader posts a finished project's video to a sharing platform and
// returns the watch URL.
type Uploader interface {
	UploadProject(ctx context.Context, p *types.Project, videoPath string) (string, error)
}

// Request carries the user's generation parameters. Zero values fall back to
// the configured defaults.
type Request struct {
	Topic        string `json:"topic"`
	Style        string `json:"style"`
	Voice        string `json:"voice"`
	Music        string `json:"music"`
	CaptionStyle string `json:"captionStyle"`
	NumScenes    int    `json:"numScenes"`
}

// Orchestrator drives projects through the generation stages one at a time.
type Orchestrator struct {
	store     store.Store
	providers *providers.Set
	composer  Composer
	publisher Publisher
	uploader  Uploader
}

func New(st store.Store, set *providers.Set, composer Composer) *Orchestrator {
	return &Orchestrator{store: st, providers: set, composer: composer}
}

// WithPublisher attaches an artifact publisher for finished videos.
func (o *Orchestrator) WithPublisher(p Publisher) *Orchestrator {
	o.publisher = p
	return o
}

// WithUploader attaches a sharing-platform uploader for finished videos.
func (o *Orchestrator) WithUploader(u Uploader) *Orchestrator {
	o.uploader = u
	return o
}

// Start validates the request, persists a pending project and kicks off the
// run in the background. The returned project is the initial snapshot.
func (o *Orchestrator) Start(ctx context.Context, req Request) (*types.Project, error) {
	if strings.TrimSpace(req.Topic) == "" {
		return nil, fmt.Errorf("%w: topic is required", types.ErrInvalidInput)
	}
	if req.Style == "" {
		req.Style = config.DefaultStyle
	}
	if req.Voice == "" {
		req.Voice = config.DefaultVoice
	}
	if req.Music == "" {
		req.Music = "none"
	}
	if req.CaptionStyle == "" {
		req.CaptionStyle = subtitles.DefaultStyleID
	}
	if req.NumScenes <= 0 {
		req.NumScenes = config.DefaultNumScenes
	}

	project := &types.Project{
		ID:           uuid.NewString(),
		Topic:        req.Topic,
		Style:        req.Style,
		Voice:        req.Voice,
		Music:        req.Music,
		CaptionStyle: req.CaptionStyle,
		NumScenes:    req.NumScenes,
		Status:       types.StatusPending,
		CreatedAt:    time.Now().UTC(),
	}
	if err := o.store.Put(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to persist project: %w", err)
	}

	go func() {
		// The run outlives the HTTP request that triggered it.
		runCtx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()
		if err := o.Run(runCtx, project.ID); err != nil {
			log.Printf("project %s failed: %v", project.ID, err)
		}
	}()

	return project.Clone(), nil
}

// Run executes the generation stages for an existing project synchronously.
// A failure in any stage marks the project as errored and stops the run;
// terminal projects are never re-entered.
func (o *Orchestrator) Run(ctx context.Context, id string) error {
	project, err := o.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if project.Status.Terminal() {
		return nil
	}

	scenes, err := o.runScript(ctx, project)
	if err != nil {
		return o.fail(ctx, id, err)
	}

	imageURLs, err := o.runImages(ctx, project, scenes)
	if err != nil {
		return o.fail(ctx, id, err)
	}

	narration, err := o.runNarration(ctx, project, scenes)
	if err != nil {
		return o.fail(ctx, id, err)
	}

	if err := o.runAssembly(ctx, project, scenes, imageURLs, narration); err != nil {
		return o.fail(ctx, id, err)
	}
	return nil
}

func (o *Orchestrator) runScript(ctx context.Context, project *types.Project) ([]types.Scene, error) {
	o.advance(ctx, project.ID, types.StatusGeneratingScript, config.ProgressScriptStart)

	scenes, err := o.providers.Script.GenerateScript(ctx, project.Topic, project.Style, project.NumScenes)
	if err != nil {
		return nil, fmt.Errorf("script generation: %w", err)
	}

	o.update(ctx, project.ID, func(p *types.Project) {
		p.Scenes = scenes
		p.Progress = config.ProgressScriptDone
	})
	return scenes, nil
}

func (o *Orchestrator) runImages(ctx context.Context, project *types.Project, scenes []types.Scene) ([]string, error) {
	o.advance(ctx, project.ID, types.StatusGeneratingImages, config.ProgressScriptDone)

	urls := make([]string, 0, len(scenes))
	for i, scene := range scenes {
		url, err := o.providers.Image.GenerateImage(ctx, scene.ImagePrompt, project.Style)
		if err != nil {
			return nil, fmt.Errorf("image %d of %d: %w", i+1, len(scenes), err)
		}
		urls = append(urls, url)

		// Interpolate within the image band so per-scene progress is visible.
		done := i + 1
		progress := config.ProgressScriptDone +
			done*(config.ProgressImagesDone-config.ProgressScriptDone)/len(scenes)
		o.update(ctx, project.ID, func(p *types.Project) {
			p.ImageURLs = append([]string(nil), urls...)
			p.Progress = progress
		})
	}
	return urls, nil
}

func (o *Orchestrator) runNarration(ctx context.Context, project *types.Project, scenes []types.Scene) ([]byte, error) {
	o.advance(ctx, project.ID, types.StatusGeneratingAudio, config.ProgressAudioStart)

	texts := make([]string, 0, len(scenes))
	for _, s := range scenes {
		texts = append(texts, s.Text)
	}
	narration, err := o.providers.Speech.Synthesize(ctx, strings.Join(texts, " "), project.Voice)
	if err != nil {
		return nil, fmt.Errorf("speech synthesis: %w", err)
	}

	o.update(ctx, project.ID, func(p *types.Project) {
		p.Progress = config.ProgressAudioDone
	})
	return narration, nil
}

func (o *Orchestrator) runAssembly(ctx context.Context, project *types.Project, scenes []types.Scene, imageURLs []string, narration []byte) error {
	o.advance(ctx, project.ID, types.StatusAssembling, config.ProgressAssembling)

	if o.composer == nil {
		// Preview mode: surface the stills and let the first one stand in
		// for the video so the client flow still completes.
		o.update(ctx, project.ID, func(p *types.Project) {
			if len(imageURLs) > 0 {
				p.VideoPath = imageURLs[0]
			}
			p.Status = types.StatusComplete
			p.Progress = config.ProgressComplete
		})
		return nil
	}

	opts := assembler.Options{
		Captions:     true,
		CaptionStyle: project.CaptionStyle,
		Thumbnail:    true,
	}
	if track, ok := music.TrackByID(project.Music); ok && track.URL != "" {
		opts.MusicURL = track.URL
		opts.MusicVolume = config.GetEnvFloat("MUSIC_VOLUME", config.DefaultMusicVolume)
	}

	result, err := o.composer.Compose(ctx, scenes, imageURLs, narration, opts)
	if err != nil {
		return fmt.Errorf("media assembly: %w", err)
	}

	videoURL := result.VideoPath
	thumbURL := result.ThumbnailPath
	if o.publisher != nil {
		if url, err := o.publisher.Publish(ctx, result.VideoPath, "video/mp4"); err != nil {
			log.Printf("project %s: video publish failed, serving local file: %v", project.ID, err)
		} else {
			videoURL = url
		}
		if result.ThumbnailPath != "" {
			if url, err := o.publisher.Publish(ctx, result.ThumbnailPath, "image/jpeg"); err != nil {
				log.Printf("project %s: thumbnail publish failed: %v", project.ID, err)
			} else {
				thumbURL = url
			}
		}
	}

	o.update(ctx, project.ID, func(p *types.Project) {
		p.VideoPath = videoURL
		p.Thumbnail = thumbURL
		p.Duration = result.Duration
		p.Status = types.StatusComplete
		p.Progress = config.ProgressComplete
	})

	if o.uploader != nil {
		// Upload failures never fail the run; the video already exists.
		snapshot, err := o.store.Get(ctx, project.ID)
		if err != nil {
			snapshot = project
		}
		if url, err := o.uploader.UploadProject(ctx, snapshot, result.VideoPath); err != nil {
			log.Printf("project %s: upload failed: %v", project.ID, err)
		} else {
			log.Printf("project %s: published at %s", project.ID, url)
		}
	}
	return nil
}

// advance moves the project to a new stage. Progress never decreases even if
// stage boundaries and per-scene interpolation disagree.
func (o *Orchestrator) advance(ctx context.Context, id string, status types.Status, progress int) {
	o.update(ctx, id, func(p *types.Project) {
		p.Status = status
		if progress > p.Progress {
			p.Progress = progress
		}
	})
}

func (o *Orchestrator) update(ctx context.Context, id string, fn func(*types.Project)) {
	if _, err := o.store.Update(ctx, id, fn); err != nil {
		log.Printf("project %s: state update failed: %v", id, err)
	}
}

func (o *Orchestrator) fail(ctx context.Context, id string, cause error) error {
	o.update(ctx, id, func(p *types.Project) {
		p.Status = types.StatusError
		p.Error = cause.Error()
	})
	return cause
}
