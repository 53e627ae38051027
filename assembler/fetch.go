package assembler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"clipcast/types"
)

// fetchSceneImages downloads every scene image into the scratch directory,
// preserving scene order in the returned paths. Any single failure aborts
// the whole run.
func (e *Engine) fetchSceneImages(ctx context.Context, dir string, urls []string) ([]string, error) {
	paths := make([]string, 0, len(urls))
	for i, url := range urls {
		dest := filepath.Join(dir, fmt.Sprintf("image-%03d.src", i))
		if err := e.downloadFile(ctx, url, dest); err != nil {
			return nil, fmt.Errorf("%w: fetch image %d: %v", types.ErrCollaboratorFailure, i, err)
		}
		paths = append(paths, dest)
	}
	return paths, nil
}

func (e *Engine) downloadFile(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download %s: status %d", url, resp.StatusCode)
	}

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("write %s: %w", dest, err)
	}
	return nil
}
