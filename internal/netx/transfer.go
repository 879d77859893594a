package netx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
)

// UploadFileToPresignedURL streams the file at path to url with an HTTP PUT.
// The file size is sent as Content-Length so the storage backend can verify
// the body. mediaType is sent as Content-Type; an empty value falls back to
// application/octet-stream.
func UploadFileToPresignedURL(ctx context.Context, url string, path string, mediaType string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, f)
	if err != nil {
		return err
	}
	req.ContentLength = fi.Size()
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", mediaType)

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("upload failed: %s; body: %s", resp.Status, string(b))
	}
	return nil
}

// DownloadFromPresignedURL fetches url with an HTTP GET and writes the body
// to destPath. On any failure the partially written file is removed.
func DownloadFromPresignedURL(ctx context.Context, url string, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("download failed: %s; body: %s", resp.Status, string(b))
	}

	f, err := os.Create(destPath)
	if err != nil {
		return err
	}

	if _, err := io.Copy(f, resp.Body); err != nil {
		_ = f.Close()
		_ = os.Remove(destPath)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(destPath)
		return err
	}
	return nil
}
