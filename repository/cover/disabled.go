package coverrepo

import (
	"context"
	"errors"
	"io"
)

var ErrDisabled = errors.New("cover storage not configured")

type disabled struct{}

// NewDisabled returns a Store for deployments without a cover bucket. Uploads
// fail loudly; deletes are a no-op so catalog rows stay removable.
func NewDisabled() Store { return disabled{} }

func (disabled) Upload(context.Context, string, string, io.Reader) (string, error) {
	return "", ErrDisabled
}

func (disabled) Delete(context.Context, string) error { return nil }
