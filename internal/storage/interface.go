package storage

import (
	"context"
	"io"
)

// ReelStorage stores short video files under a fixed key prefix.
type ReelStorage interface {
	UploadReel(ctx context.Context, filename, contentType string, body io.Reader, size int64) (*UploadResult, error)
	ListReels(ctx context.Context) ([]string, error)
	DeleteReel(ctx context.Context, filename string) error
}

var _ ReelStorage = (*S3Store)(nil)
