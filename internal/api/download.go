package api

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"codeberg.org/practicetestbulk/client/internal/errors"
)

// POSTs body to endpoint, expects a blob, and saves it as filename in the
// download dir. the file only appears once fully written; on any failure no
// file is left behind.
func (c *Client) DownloadFile(ctx context.Context, endpoint, filename string, body any) (*Download, error) {
	res, err := c.Post(ctx, endpoint, body, CallOptions{Timeout: c.generateTimeout})
	if err != nil {
		return nil, err
	}

	if res.Kind != ResultBlob {
		return nil, errors.RequestFailed(res.Status, fmt.Sprintf("expected a file, got %q", res.ContentType))
	}

	path, err := saveAtomically(c.downloadDir, filepath.Base(filename), res.Body)
	if err != nil {
		return nil, err
	}

	return &Download{Path: path, Bytes: len(res.Body), Data: res.Body}, nil
}

func saveAtomically(dir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:gosec // G301: user download dir
		return "", fmt.Errorf("failed to create download dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+name+".part-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck,gosec // already failing
		return "", fmt.Errorf("failed to write download: %w", err)
	}

	if err := tmp.Chmod(0o644); err != nil { //nolint:gosec // G302: a CSV the user asked for
		tmp.Close() //nolint:errcheck,gosec // already failing
		return "", fmt.Errorf("failed to chmod download: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close download: %w", err)
	}

	path := filepath.Join(dir, name)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("failed to save %s: %w", path, err)
	}

	return path, nil
}
