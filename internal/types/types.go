package types

import (
	"context"
	"io"

	"github.com/xhad/infuse/internal/models"
)

// LocalFile is a file the user selected for upload, before the server
// knows it exists.
type LocalFile struct {
	Name      string
	SizeBytes int64
	Content   io.Reader
}

// Core interfaces
type FileService interface {
	ListFiles(ctx context.Context) ([]models.FileInfo, error)
	UploadFile(ctx context.Context, file LocalFile) error
	DeleteFile(ctx context.Context, fileID string) error
}

type ChatService interface {
	Ask(ctx context.Context, question, fileID string) (*models.Answer, error)
	History(ctx context.Context) ([]models.QARecord, error)
	DeleteMessage(ctx context.Context, messageID string) error
	DeleteAll(ctx context.Context) error
}

type AuthService interface {
	Signup(ctx context.Context, username, password, email string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*models.User, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*models.User, error)
}
