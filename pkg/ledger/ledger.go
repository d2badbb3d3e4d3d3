package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/xhad/infuse/internal/models"
	"github.com/xhad/infuse/internal/types"
)

// Ledger owns the local view of "what files exist and in what state"
// across the asynchronous upload call. The view layer only reads
// snapshots and issues commands; nothing else mutates the list.
type Ledger struct {
	remote types.FileService

	mu    sync.Mutex
	files []models.UploadRecord
}

func New(remote types.FileService) *Ledger {
	return &Ledger{remote: remote}
}

// Snapshot returns a copy of the current file list. Never blocks on
// the network.
func (l *Ledger) Snapshot() []models.UploadRecord {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]models.UploadRecord, len(l.files))
	copy(out, l.files)
	return out
}

// Refresh replaces the whole local list with the server's canonical
// listing. Processing and Error placeholders do not survive a
// refresh; there is no merge.
func (l *Ledger) Refresh(ctx context.Context) error {
	infos, err := l.remote.ListFiles(ctx)
	if err != nil {
		return fmt.Errorf("list files: %w", err)
	}

	files := make([]models.UploadRecord, 0, len(infos))
	for _, f := range infos {
		files = append(files, models.UploadRecord{
			ID:         f.FileID,
			Name:       f.FileName,
			SizeBytes:  f.FileSize,
			UploadedAt: f.UploadedAt,
			Status:     models.StatusReady,
		})
	}

	l.mu.Lock()
	l.files = files
	l.mu.Unlock()
	return nil
}

// placeholderID stands in for a not-yet-confirmed upload. It lives in
// a different namespace than server-issued file ids and must not
// collide within a session.
func placeholderID(f types.LocalFile) string {
	return fmt.Sprintf("%s-%d-%d-%s", f.Name, f.SizeBytes, time.Now().UnixNano(), uuid.NewString()[:8])
}

// Upload runs each file's full upload-then-refresh cycle to completion
// before the next file starts, so two uploads never race on the
// list-replacing refresh and error attribution stays per file. A
// failed upload is absorbed into the placeholder's Error status
// instead of being returned; the record stays visible so the user
// sees what failed. Zero files is a no-op.
func (l *Ledger) Upload(ctx context.Context, files ...types.LocalFile) {
	for _, f := range files {
		id := placeholderID(f)

		l.mu.Lock()
		l.files = append(l.files, models.UploadRecord{
			ID:         id,
			Name:       f.Name,
			SizeBytes:  f.SizeBytes,
			UploadedAt: time.Now(),
			Status:     models.StatusProcessing,
		})
		l.mu.Unlock()

		if err := l.remote.UploadFile(ctx, f); err != nil {
			l.markError(id)
			continue
		}
		// The refresh supersedes the placeholder with the server's
		// authoritative entry. If the listing itself fails the
		// placeholder degrades to Error rather than staying
		// Processing forever.
		if err := l.Refresh(ctx); err != nil {
			l.markError(id)
		}
	}
}

func (l *Ledger) markError(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.files {
		if l.files[i].ID == id {
			l.files[i].Status = models.StatusError
			l.files[i].Progress = 0
			return
		}
	}
}

// Delete removes a file remotely first; local state changes only once
// the server confirms. On failure the list is untouched and the error
// is surfaced so the view can notify the user.
func (l *Ledger) Delete(ctx context.Context, id string) error {
	if err := l.remote.DeleteFile(ctx, id); err != nil {
		return fmt.Errorf("delete file %s: %w", id, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.files {
		if l.files[i].ID == id {
			l.files = append(l.files[:i], l.files[i+1:]...)
			break
		}
	}
	return nil
}
