package assembler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"clipcast/types"
)

func TestBuildConcatFile(t *testing.T) {
	timed := []types.TimedScene{
		{ImagePath: "/tmp/a.png", Duration: 2.5},
		{ImagePath: "/tmp/b.png", Duration: 10},
	}

	got := buildConcatFile(timed)
	want := "file '/tmp/a.png'\n" +
		"duration 2.500\n" +
		"file '/tmp/b.png'\n" +
		"duration 10.000\n" +
		"file '/tmp/b.png'\n"
	if got != want {
		t.Errorf("concat file = %q, want %q", got, want)
	}
}

func TestBuildConcatFileSentinelIsLastImage(t *testing.T) {
	timed := []types.TimedScene{
		{ImagePath: "one.png", Duration: 3},
		{ImagePath: "two.png", Duration: 3},
		{ImagePath: "three.png", Duration: 3},
	}
	lines := strings.Split(strings.TrimSpace(buildConcatFile(timed)), "\n")
	if len(lines) != 7 {
		t.Fatalf("expected 7 lines, got %d: %v", len(lines), lines)
	}
	if lines[6] != "file 'three.png'" {
		t.Errorf("sentinel line = %q", lines[6])
	}
}

func TestBuildConcatFileEmpty(t *testing.T) {
	if got := buildConcatFile(nil); got != "" {
		t.Errorf("empty input produced %q", got)
	}
}

func TestEscapeFilterPath(t *testing.T) {
	// Colons separate filter options, so they must be escaped in paths.
	if got := escapeFilterPath("/tmp/run:1/subs.ass"); got != `/tmp/run\:1/subs.ass` {
		t.Errorf("escapeFilterPath = %q", got)
	}
	if got := escapeFilterPath("/tmp/subs.ass"); got != "/tmp/subs.ass" {
		t.Errorf("plain path altered: %q", got)
	}
}

func TestArtifactName(t *testing.T) {
	ts := time.UnixMilli(1700000000123)
	if got := artifactName("video", "mp4", ts); got != "video-1700000000123.mp4" {
		t.Errorf("artifactName = %q", got)
	}
	// Video and thumbnail from the same run share the stamp.
	if artifactName("video", "mp4", ts)[6:19] != artifactName("thumb", "jpg", ts)[6:19] {
		t.Error("artifacts from one run should share a timestamp")
	}
}

func TestFetchSceneImages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/missing") {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("imagedata:" + r.URL.Path))
	}))
	defer srv.Close()

	engine := &Engine{client: srv.Client(), outputDir: t.TempDir()}
	dir := t.TempDir()

	paths, err := engine.fetchSceneImages(context.Background(), dir, []string{
		srv.URL + "/one.png",
		srv.URL + "/two.png",
	})
	if err != nil {
		t.Fatalf("fetchSceneImages failed: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("got %d paths", len(paths))
	}
	// Order must follow scene order, not completion order.
	for i, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			t.Fatalf("read %s: %v", p, err)
		}
		want := []string{"imagedata:/one.png", "imagedata:/two.png"}[i]
		if string(data) != want {
			t.Errorf("path %d content = %q, want %q", i, data, want)
		}
	}
}

func TestFetchSceneImagesSingleFailureAborts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/bad.png" {
			http.Error(w, "nope", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	engine := &Engine{client: srv.Client(), outputDir: t.TempDir()}

	_, err := engine.fetchSceneImages(context.Background(), t.TempDir(), []string{
		srv.URL + "/good.png",
		srv.URL + "/bad.png",
		srv.URL + "/also-good.png",
	})
	if !errors.Is(err, types.ErrCollaboratorFailure) {
		t.Errorf("err = %v, want ErrCollaboratorFailure", err)
	}
}

func TestComposeValidation(t *testing.T) {
	engine := New(t.TempDir())
	scenes := []types.Scene{{Text: "hello world"}}

	cases := []struct {
		name      string
		scenes    []types.Scene
		urls      []string
		narration []byte
	}{
		{"no scenes", nil, nil, []byte("audio")},
		{"image count mismatch", scenes, []string{"a", "b"}, []byte("audio")},
		{"empty narration", scenes, []string{"a"}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := engine.Compose(context.Background(), tc.scenes, tc.urls, tc.narration, Options{})
			if !errors.Is(err, types.ErrInvalidInput) {
				t.Errorf("err = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestComposeFailedFetchLeavesNoOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	outDir := t.TempDir()
	engine := &Engine{client: srv.Client(), outputDir: outDir}

	// A valid-looking MP3 header is enough for probing a real file, but the
	// image fetch fails first here only if probing succeeded; either way the
	// run must fail and leave the output directory empty.
	_, err := engine.Compose(context.Background(),
		[]types.Scene{{Text: "some words here"}},
		[]string{srv.URL + "/img.png"},
		[]byte{0xFF, 0xFB, 0x90, 0x00},
		Options{})
	if err == nil {
		t.Fatal("expected compose to fail")
	}

	entries, readErr := os.ReadDir(outDir)
	if readErr != nil {
		t.Fatalf("read output dir: %v", readErr)
	}
	for _, entry := range entries {
		t.Errorf("unexpected artifact left behind: %s", filepath.Join(outDir, entry.Name()))
	}
}
