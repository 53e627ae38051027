package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"clipcast/assembler"
	"clipcast/providers"
	"clipcast/store"
	"clipcast/types"
)

// recordingStore wraps a store and records every progress value written, in
// order, so tests can assert on the progression.
type recordingStore struct {
	store.Store
	mu       sync.Mutex
	progress []int
	statuses []types.Status
}

func newRecordingStore() *recordingStore {
	return &recordingStore{Store: store.NewMemoryStore()}
}

func (r *recordingStore) Update(ctx context.Context, id string, fn func(*types.Project)) (*types.Project, error) {
	p, err := r.Store.Update(ctx, id, fn)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.progress = append(r.progress, p.Progress)
	r.statuses = append(r.statuses, p.Status)
	r.mu.Unlock()
	return p, nil
}

type failingScript struct{}

func (failingScript) GenerateScript(ctx context.Context, topic, style string, n int) ([]types.Scene, error) {
	return nil, errors.New("model unavailable")
}

type stubComposer struct {
	gotScenes    []types.Scene
	gotURLs      []string
	gotNarration []byte
	gotOpts      assembler.Options
	result       *assembler.Result
	err          error
}

func (s *stubComposer) Compose(ctx context.Context, scenes []types.Scene, urls []string, narration []byte, opts assembler.Options) (*assembler.Result, error) {
	s.gotScenes = scenes
	s.gotURLs = urls
	s.gotNarration = narration
	s.gotOpts = opts
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

type stubPublisher struct {
	published map[string]string
	err       error
}

func (s *stubPublisher) Publish(ctx context.Context, localPath, contentType string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if s.published == nil {
		s.published = make(map[string]string)
	}
	url := "https://cdn.example.com/" + contentType + "/" + localPath
	s.published[localPath] = url
	return url, nil
}

func startProject(t *testing.T, o *Orchestrator, st store.Store) string {
	t.Helper()
	p := &types.Project{
		ID:    "test-project",
		Topic: "the lost city",
		Style: "realistic", Voice: "rachel", Music: "none",
		CaptionStyle: "classic", NumScenes: 5,
		Status: types.StatusPending,
	}
	if err := st.Put(context.Background(), p); err != nil {
		t.Fatalf("seed project: %v", err)
	}
	return p.ID
}

func TestRunCompletesWithComposer(t *testing.T) {
	st := newRecordingStore()
	composer := &stubComposer{result: &assembler.Result{
		VideoPath:     "/out/video-1.mp4",
		ThumbnailPath: "/out/thumb-1.jpg",
		Duration:      24.5,
	}}
	o := New(st, providers.NewFixtureSet(), composer)
	id := startProject(t, o, st)

	if err := o.Run(context.Background(), id); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	got, _ := st.Get(context.Background(), id)
	if got.Status != types.StatusComplete || got.Progress != 100 {
		t.Errorf("status = %s progress = %d", got.Status, got.Progress)
	}
	if got.VideoPath != "/out/video-1.mp4" || got.Thumbnail != "/out/thumb-1.jpg" {
		t.Errorf("artifacts = %q %q", got.VideoPath, got.Thumbnail)
	}
	if got.Duration != 24.5 {
		t.Errorf("duration = %v", got.Duration)
	}
	if len(got.Scenes) == 0 || len(got.ImageURLs) != len(got.Scenes) {
		t.Errorf("scenes = %d images = %d", len(got.Scenes), len(got.ImageURLs))
	}

	// The composer sees one image per scene and the concatenated narration.
	if len(composer.gotURLs) != len(composer.gotScenes) {
		t.Errorf("composer got %d urls for %d scenes", len(composer.gotURLs), len(composer.gotScenes))
	}
	if len(composer.gotNarration) == 0 {
		t.Error("composer got empty narration")
	}
	if !composer.gotOpts.Captions || composer.gotOpts.CaptionStyle != "classic" {
		t.Errorf("caption opts = %+v", composer.gotOpts)
	}
	if composer.gotOpts.MusicURL != "" {
		t.Errorf("music 'none' should yield no music url, got %q", composer.gotOpts.MusicURL)
	}
}

func TestRunProgressIsMonotonic(t *testing.T) {
	st := newRecordingStore()
	composer := &stubComposer{result: &assembler.Result{VideoPath: "/out/v.mp4", Duration: 10}}
	o := New(st, providers.NewFixtureSet(), composer)
	id := startProject(t, o, st)

	if err := o.Run(context.Background(), id); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	last := -1
	for i, p := range st.progress {
		if p < last {
			t.Fatalf("progress went backwards at step %d: %v", i, st.progress)
		}
		last = p
	}
	if last != 100 {
		t.Errorf("final progress = %d: %v", last, st.progress)
	}
}

func TestRunMusicSelectionSetsVolume(t *testing.T) {
	st := store.NewMemoryStore()
	composer := &stubComposer{result: &assembler.Result{VideoPath: "/out/v.mp4", Duration: 10}}
	o := New(st, providers.NewFixtureSet(), composer)

	p := &types.Project{
		ID: "with-music", Topic: "space", Style: "realistic",
		Voice: "rachel", Music: "upbeat", CaptionStyle: "classic",
		NumScenes: 3, Status: types.StatusPending,
	}
	st.Put(context.Background(), p)

	if err := o.Run(context.Background(), p.ID); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if composer.gotOpts.MusicURL == "" {
		t.Error("expected a music url for track 'upbeat'")
	}
	if composer.gotOpts.MusicVolume != 0.15 {
		t.Errorf("music volume = %v", composer.gotOpts.MusicVolume)
	}
}

func TestRunScriptFailureIsTerminal(t *testing.T) {
	st := newRecordingStore()
	set := providers.NewFixtureSet()
	set.Script = failingScript{}
	o := New(st, set, &stubComposer{})
	id := startProject(t, o, st)

	if err := o.Run(context.Background(), id); err == nil {
		t.Fatal("expected Run to fail")
	}

	got, _ := st.Get(context.Background(), id)
	if got.Status != types.StatusError {
		t.Errorf("status = %s", got.Status)
	}
	if !strings.Contains(got.Error, "model unavailable") {
		t.Errorf("error = %q", got.Error)
	}

	// A terminal project is never re-entered.
	if err := o.Run(context.Background(), id); err != nil {
		t.Errorf("re-running terminal project returned %v", err)
	}
	after, _ := st.Get(context.Background(), id)
	if after.Status != types.StatusError || after.Error != got.Error {
		t.Errorf("terminal project mutated: %+v", after)
	}
}

func TestRunAssemblyFailure(t *testing.T) {
	st := store.NewMemoryStore()
	composer := &stubComposer{err: errors.New("encoder exploded")}
	o := New(st, providers.NewFixtureSet(), composer)
	id := startProject(t, o, st)

	if err := o.Run(context.Background(), id); err == nil {
		t.Fatal("expected Run to fail")
	}
	got, _ := st.Get(context.Background(), id)
	if got.Status != types.StatusError || !strings.Contains(got.Error, "encoder exploded") {
		t.Errorf("project = %+v", got)
	}
	if got.VideoPath != "" {
		t.Errorf("failed run surfaced a video: %q", got.VideoPath)
	}
}

func TestRunPreviewModeWithoutComposer(t *testing.T) {
	st := store.NewMemoryStore()
	o := New(st, providers.NewFixtureSet(), nil)
	id := startProject(t, o, st)

	if err := o.Run(context.Background(), id); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	got, _ := st.Get(context.Background(), id)
	if got.Status != types.StatusComplete || got.Progress != 100 {
		t.Errorf("status = %s progress = %d", got.Status, got.Progress)
	}
	if len(got.ImageURLs) == 0 || got.VideoPath != got.ImageURLs[0] {
		t.Errorf("preview video = %q images = %v", got.VideoPath, got.ImageURLs)
	}
}

func TestRunPublishesArtifacts(t *testing.T) {
	st := store.NewMemoryStore()
	composer := &stubComposer{result: &assembler.Result{
		VideoPath: "/out/v.mp4", ThumbnailPath: "/out/t.jpg", Duration: 12,
	}}
	pub := &stubPublisher{}
	o := New(st, providers.NewFixtureSet(), composer).WithPublisher(pub)
	id := startProject(t, o, st)

	if err := o.Run(context.Background(), id); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	got, _ := st.Get(context.Background(), id)
	if !strings.HasPrefix(got.VideoPath, "https://cdn.example.com/") {
		t.Errorf("video not published: %q", got.VideoPath)
	}
	if !strings.HasPrefix(got.Thumbnail, "https://cdn.example.com/") {
		t.Errorf("thumbnail not published: %q", got.Thumbnail)
	}
}

func TestRunPublishFailureKeepsLocalPath(t *testing.T) {
	st := store.NewMemoryStore()
	composer := &stubComposer{result: &assembler.Result{VideoPath: "/out/v.mp4", Duration: 12}}
	pub := &stubPublisher{err: errors.New("bucket gone")}
	o := New(st, providers.NewFixtureSet(), composer).WithPublisher(pub)
	id := startProject(t, o, st)

	if err := o.Run(context.Background(), id); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	got, _ := st.Get(context.Background(), id)
	if got.Status != types.StatusComplete || got.VideoPath != "/out/v.mp4" {
		t.Errorf("project = %+v", got)
	}
}

type stubUploader struct {
	gotPath string
	err     error
}

func (s *stubUploader) UploadProject(ctx context.Context, p *types.Project, videoPath string) (string, error) {
	s.gotPath = videoPath
	if s.err != nil {
		return "", s.err
	}
	return "https://youtube.com/shorts/abc123", nil
}

func TestRunUploadsAfterCompletion(t *testing.T) {
	st := store.NewMemoryStore()
	composer := &stubComposer{result: &assembler.Result{VideoPath: "/out/v.mp4", Duration: 9}}
	up := &stubUploader{}
	o := New(st, providers.NewFixtureSet(), composer).WithUploader(up)
	id := startProject(t, o, st)

	if err := o.Run(context.Background(), id); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if up.gotPath != "/out/v.mp4" {
		t.Errorf("uploader got %q", up.gotPath)
	}

	// An upload failure must not mark the project as errored.
	st2 := store.NewMemoryStore()
	o2 := New(st2, providers.NewFixtureSet(), &stubComposer{result: &assembler.Result{VideoPath: "/out/v.mp4", Duration: 9}}).
		WithUploader(&stubUploader{err: errors.New("quota")})
	id2 := startProject(t, o2, st2)
	if err := o2.Run(context.Background(), id2); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	got, _ := st2.Get(context.Background(), id2)
	if got.Status != types.StatusComplete {
		t.Errorf("status = %s", got.Status)
	}
}

func TestStartValidatesAndDefaults(t *testing.T) {
	st := store.NewMemoryStore()
	o := New(st, providers.NewFixtureSet(), nil)

	if _, err := o.Start(context.Background(), Request{Topic: "   "}); !errors.Is(err, types.ErrInvalidInput) {
		t.Errorf("blank topic err = %v, want ErrInvalidInput", err)
	}

	p, err := o.Start(context.Background(), Request{Topic: "deep sea creatures"})
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if p.ID == "" || p.Status != types.StatusPending {
		t.Errorf("initial project = %+v", p)
	}
	if p.Style != "realistic" || p.Voice != "rachel" || p.Music != "none" ||
		p.CaptionStyle != "classic" || p.NumScenes != 6 {
		t.Errorf("defaults not applied: %+v", p)
	}

	if _, err := st.Get(context.Background(), p.ID); err != nil {
		t.Errorf("project not persisted: %v", err)
	}
}
