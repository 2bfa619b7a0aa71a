package ports

import (
	"context"
	"io"
)

// ObjectStorage is the media blob store. Paths are slash-separated keys, e.g.
// "videos/42/index.mp4". Folder operations act on a key prefix.
type ObjectStorage interface {
	Get(ctx context.Context, path string) (io.ReadCloser, error)
	Put(ctx context.Context, path string, data io.Reader, size int64, contentType string) error
	Remove(ctx context.Context, path string) error
	RemoveFolder(ctx context.Context, prefix string) error
	ListFiles(ctx context.Context, prefix string) ([]string, error)
}
