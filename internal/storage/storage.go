// Package storage forwards uploaded images to the external image host.
package storage

//go:generate mockgen -source=storage.go -destination=mocks/image_host_mock.go -package=mocks

import (
	"context"
	"io"
)

// ImageHost stores an image under key and returns its stable public URL.
type ImageHost interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}
