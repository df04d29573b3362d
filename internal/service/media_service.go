package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"explorer-be/internal/logging"
	"explorer-be/internal/repository"
	"explorer-be/internal/storage"
)

const maxConcurrentUploads = 4

// MediaService attaches uploaded images to places
type MediaService interface {
	// Upload forwards every image part to the image host and appends the
	// resulting URLs. Non-image parts are skipped. URLs of parts that
	// succeeded are kept even when a sibling failed; the failures are
	// returned wrapped in ErrUploadFailed together with the current images.
	Upload(ctx context.Context, placeID string, files []*multipart.FileHeader) ([]string, error)
	// DeleteImage drops every image URL containing filename. The hosted
	// asset is left in place.
	DeleteImage(ctx context.Context, placeID, filename string) ([]string, error)
}

type mediaService struct {
	places    repository.PlaceRepository
	host      storage.ImageHost
	uploadDir string
}

func NewMediaService(places repository.PlaceRepository, host storage.ImageHost, uploadDir string) MediaService {
	return &mediaService{places: places, host: host, uploadDir: uploadDir}
}

func isImage(fh *multipart.FileHeader) bool {
	return fh != nil && fh.Filename != "" &&
		strings.HasPrefix(strings.ToLower(fh.Header.Get("Content-Type")), "image/")
}

func (s *mediaService) Upload(ctx context.Context, placeID string, files []*multipart.FileHeader) ([]string, error) {
	place, err := s.places.FindByID(ctx, placeID)
	if err != nil {
		return nil, err
	}

	images := make([]*multipart.FileHeader, 0, len(files))
	for _, fh := range files {
		if isImage(fh) {
			images = append(images, fh)
		}
	}
	if len(images) == 0 {
		return place.Images, nil
	}

	if err := os.MkdirAll(s.uploadDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}

	urls := make([]string, len(images))
	errs := make([]error, len(images))

	var g errgroup.Group
	g.SetLimit(maxConcurrentUploads)
	for i, fh := range images {
		g.Go(func() error {
			urls[i], errs[i] = s.uploadOne(ctx, placeID, fh)
			return nil
		})
	}
	_ = g.Wait()

	uploaded := make([]string, 0, len(urls))
	for _, u := range urls {
		if u != "" {
			uploaded = append(uploaded, u)
		}
	}

	current := place.Images
	if len(uploaded) > 0 {
		current, err = s.places.AppendImages(ctx, placeID, uploaded)
		if err != nil {
			return nil, err
		}
	}

	log := logging.Ctx(ctx)
	uploadErr := multierr.Combine(errs...)
	if uploadErr != nil {
		for _, e := range multierr.Errors(uploadErr) {
			log.Error().Err(e).Str("place_id", placeID).Msg("image upload failed")
		}
		return current, fmt.Errorf("%w: %w", ErrUploadFailed, uploadErr)
	}

	log.Info().Str("place_id", placeID).Int("count", len(uploaded)).Msg("images uploaded")
	return current, nil
}

// uploadOne stages the part in a temp file, forwards it and removes the copy.
func (s *mediaService) uploadOne(ctx context.Context, placeID string, fh *multipart.FileHeader) (string, error) {
	name := uuid.NewString() + "-" + safeFilename(fh.Filename)

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", fh.Filename, err)
	}
	defer src.Close()

	tmp, err := os.CreateTemp(s.uploadDir, name+".*")
	if err != nil {
		return "", fmt.Errorf("failed to stage %s: %w", fh.Filename, err)
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	if _, err := io.Copy(tmp, src); err != nil {
		return "", fmt.Errorf("failed to stage %s: %w", fh.Filename, err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to rewind %s: %w", fh.Filename, err)
	}

	return s.host.Upload(ctx, "pois/"+placeID+"/"+name, fh.Header.Get("Content-Type"), tmp)
}

// safeFilename keeps the base name, restricted to URL-safe characters.
func safeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		case r == ' ':
			return '_'
		default:
			return -1
		}
	}, name)
	if cleaned == "" || cleaned == "." || cleaned == ".." {
		return "image"
	}
	return cleaned
}

func (s *mediaService) DeleteImage(ctx context.Context, placeID, filename string) ([]string, error) {
	if filename == "" {
		return nil, repository.ErrNotFound
	}
	return s.places.RemoveImages(ctx, placeID, filename)
}
