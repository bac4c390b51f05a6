package bdl

import (
	"archive/zip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

func decodeJSON(r io.Reader, v interface{}) error {
	return json.NewDecoder(r).Decode(v)
}

// DownloadArchive downloads one ZIP bundle from the BDL sharing service
// into the data directory and returns its path.
func (c *Client) DownloadArchive(ctx context.Context, url string) (string, error) {
	name := archiveName(url)
	path := filepath.Join(c.dataDir, name)

	body, err := c.get(ctx, url)
	if err != nil {
		return "", err
	}
	defer body.Close()

	if err := os.MkdirAll(c.dataDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create data dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, body); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	c.log.Info("archive downloaded", map[string]interface{}{
		"file": name,
	})
	return path, nil
}

// ExtractArchive unpacks a downloaded ZIP bundle into
// <dataDir>/extracted/<bundle-stem>/ and returns the extraction directory.
// Entries escaping the target directory are rejected.
func (c *Client) ExtractArchive(zipPath string) (string, error) {
	stem := strings.TrimSuffix(filepath.Base(zipPath), filepath.Ext(zipPath))
	destDir := filepath.Join(c.dataDir, "extracted", stem)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", destDir, err)
	}

	reader, err := zip.OpenReader(zipPath)
	if err != nil {
		return "", fmt.Errorf("failed to open archive %s: %w", zipPath, err)
	}
	defer reader.Close()

	for _, entry := range reader.File {
		if err := extractEntry(entry, destDir); err != nil {
			return "", err
		}
	}

	c.log.Info("archive extracted", map[string]interface{}{
		"archive": filepath.Base(zipPath),
		"dest":    destDir,
	})
	return destDir, nil
}

func extractEntry(entry *zip.File, destDir string) error {
	target := filepath.Join(destDir, filepath.Clean(entry.Name))
	if !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) {
		return fmt.Errorf("archive entry %s escapes extraction directory", entry.Name)
	}

	if entry.FileInfo().IsDir() {
		return os.MkdirAll(target, 0o755)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	src, err := entry.Open()
	if err != nil {
		return fmt.Errorf("failed to open archive entry %s: %w", entry.Name, err)
	}
	defer src.Close()

	dst, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", target, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to extract %s: %w", entry.Name, err)
	}
	return nil
}

// archiveName derives a file name from a sharing-service URL, which carries
// the bundle name in a file= query parameter.
func archiveName(url string) string {
	if idx := strings.Index(url, "file="); idx >= 0 {
		if name := url[idx+len("file="):]; name != "" {
			return filepath.Base(name)
		}
	}
	return "download.zip"
}
