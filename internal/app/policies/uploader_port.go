package policies

import (
	"context"
	"io"
)

// Uploader stores billboard images and returns a public URL.
type Uploader interface {
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) (publicURL string, err error)
	Remove(ctx context.Context, publicURL string) error
}
