package model

import (
	"context"
	"io"
	"path"
	"strings"
)

// Blob folders.
const (
	FolderProfiles = "profiles"
	FolderParcels  = "parcels"
)

// MaxUploadSize is the largest image accepted.
const MaxUploadSize = 16 << 20

var allowedImageExtensions = map[string]struct{}{
	"png":  {},
	"jpg":  {},
	"jpeg": {},
	"gif":  {},
}

// BlobStore stores opaque objects and hands back keys for them.
type BlobStore interface {
	// Put stores the object under folder with a generated name and returns its key.
	Put(ctx context.Context, folder, ext string, reader io.Reader, size int64) (string, error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// Image is an uploaded picture.
type Image struct {
	Filename string
	Size     int64
	Reader   io.Reader
}

// Extension validates the image and returns its lowercase extension.
func (i Image) Extension() (string, error) {
	if i.Size <= 0 {
		return "", ErrInvalidImage.WithMessage("empty image")
	}
	if i.Size > MaxUploadSize {
		return "", ErrInvalidImage.WithMessage("image exceeds %d bytes", MaxUploadSize)
	}
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(i.Filename), "."))
	if _, ok := allowedImageExtensions[ext]; !ok {
		return "", ErrInvalidImage.WithMessage("unsupported image extension %q", ext)
	}
	return ext, nil
}
