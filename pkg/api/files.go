package api

import (
	"context"
	"net/http"

	"github.com/xhad/infuse/internal/models"
	"github.com/xhad/infuse/internal/types"
)

// ListFiles returns the server's canonical file listing.
func (c *Client) ListFiles(ctx context.Context) ([]models.FileInfo, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	var resp struct {
		Files []models.FileInfo `json:"files"`
	}
	r, err := c.http.R().SetContext(ctx).SetResult(&resp).Get("/files")
	if err != nil {
		return nil, err
	}
	if r.IsError() {
		return nil, remoteError(r)
	}
	return resp.Files, nil
}

// UploadFile streams the raw file content as a multipart form.
func (c *Client) UploadFile(ctx context.Context, file types.LocalFile) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	r, err := c.http.R().SetContext(ctx).
		SetFileReader("file", file.Name, file.Content).
		Post("/upload")
	if err != nil {
		return err
	}
	if r.IsError() {
		return remoteError(r)
	}
	return nil
}

// DeleteFile removes a file server-side. A file that is already gone
// counts as deleted.
func (c *Client) DeleteFile(ctx context.Context, fileID string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	r, err := c.http.R().SetContext(ctx).Delete("/files/" + fileID)
	if err != nil {
		return err
	}
	if r.IsError() && r.StatusCode() != http.StatusNotFound {
		return remoteError(r)
	}
	return nil
}
