package coverrepo

import (
	"context"
	"io"
)

// Store is the external cover-asset host. Upload returns the public URL that
// gets persisted on the book row; Delete accepts that same URL back.
type Store interface {
	Upload(ctx context.Context, filename, contentType string, r io.Reader) (string, error)
	Delete(ctx context.Context, coverURL string) error
}
