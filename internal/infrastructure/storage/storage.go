package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/alimikegami/e-commerce/storefront-service/internal/dto"
	"github.com/alimikegami/e-commerce/storefront-service/pkg/errs"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog/log"
)

var imageExtensions = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".gif":  true,
}

// FileStorage keeps product images on the local filesystem. Stored images
// are served as static assets under urlPrefix.
type FileStorage struct {
	dir       string
	urlPrefix string
	maxSize   int64
}

func CreateFileStorage(dir string, urlPrefix string, maxSize int64) (*FileStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	return &FileStorage{dir: dir, urlPrefix: strings.TrimRight(urlPrefix, "/"), maxSize: maxSize}, nil
}

func (s *FileStorage) Dir() string {
	return s.dir
}

func (s *FileStorage) URLPrefix() string {
	return s.urlPrefix
}

// Save stores upload under a fresh ULID name and returns its public path.
func (s *FileStorage) Save(ctx context.Context, upload dto.FileUpload) (string, error) {
	ext := strings.ToLower(filepath.Ext(upload.Filename))
	if !imageExtensions[ext] {
		return "", errs.ErrNotAnImage
	}

	if s.maxSize > 0 && upload.Size > s.maxSize {
		return "", errs.ErrFileSizeExceedingLimit
	}

	name := ulid.Make().String() + ext
	dst, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "SaveImage").Msg("")
		return "", err
	}

	src := upload.Content
	if s.maxSize > 0 {
		src = io.LimitReader(upload.Content, s.maxSize+1)
	}

	written, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err == nil && s.maxSize > 0 && written > s.maxSize {
		err = errs.ErrFileSizeExceedingLimit
	}
	if err != nil {
		os.Remove(filepath.Join(s.dir, name))
		if !errors.Is(err, errs.ErrFileSizeExceedingLimit) {
			log.Ctx(ctx).Error().Err(err).Str("component", "SaveImage").Msg("")
		}
		return "", err
	}

	return path.Join(s.urlPrefix, name), nil
}

// Delete removes an image previously returned by Save. Paths outside the
// storage prefix are ignored.
func (s *FileStorage) Delete(ctx context.Context, imagePath string) error {
	prefix := s.urlPrefix + "/"
	if !strings.HasPrefix(imagePath, prefix) {
		return nil
	}

	name := strings.TrimPrefix(imagePath, prefix)
	if name == "" || strings.ContainsAny(name, `/\`) || name == ".." {
		return fmt.Errorf("refusing to delete %q", imagePath)
	}

	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Ctx(ctx).Error().Err(err).Str("component", "DeleteImage").Msg("")
		return err
	}

	return nil
}
