package models

import "time"

// UploadStatus tracks a file through the local-then-remote existence
// transition.
type UploadStatus string

const (
	StatusProcessing UploadStatus = "processing"
	StatusReady      UploadStatus = "ready"
	StatusError      UploadStatus = "error"
)

// UploadRecord is one file from the user's perspective. While an
// upload is in flight the ID is a client-generated placeholder; after
// the server confirms, the record carries the server-issued file id.
type UploadRecord struct {
	ID         string
	Name       string
	SizeBytes  int64
	UploadedAt time.Time
	Status     UploadStatus
	Progress   int // 0-100, meaningful only while Status is processing
}

// FileInfo is one entry of the server's file listing.
type FileInfo struct {
	FileID     string    `json:"fileId"`
	FileName   string    `json:"fileName"`
	FileSize   int64     `json:"fileSize,omitempty"`
	UploadedAt time.Time `json:"uploadedAt"`
}
