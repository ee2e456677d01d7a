package catalog

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidImage is returned when an image payload is not a decodable
// data URL.
var ErrInvalidImage = errors.New("invalid image payload")

// ImageStore writes product images to a local directory. Browsers send
// images as base64 data URLs; the store decodes them and keeps only the
// generated file name in the product record.
type ImageStore struct {
	dir string
}

// NewImageStore creates the image directory if needed.
func NewImageStore(dir string) (*ImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create image directory: %w", err)
	}
	return &ImageStore{dir: dir}, nil
}

// Dir returns the directory images are stored in.
func (s *ImageStore) Dir() string {
	return s.dir
}

// IsDataURL reports whether the payload is an inline image upload
// rather than an already-stored file name.
func IsDataURL(payload string) bool {
	return strings.HasPrefix(payload, "data:image")
}

// SaveDataURL decodes a base64 image data URL and writes it under a
// unique generated name, which it returns.
func (s *ImageStore) SaveDataURL(payload string) (string, error) {
	_, encoded, found := strings.Cut(payload, ",")
	if !found {
		return "", ErrInvalidImage
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	name := fmt.Sprintf("product_%s_%s.jpg",
		time.Now().Format("200601021504"), uuid.New().String()[:8])
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image file: %w", err)
	}
	return name, nil
}

// Remove deletes a stored image. A missing file is not an error; the
// record may reference an image that was never uploaded.
func (s *ImageStore) Remove(name string) error {
	if name == "" {
		return nil
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove image file: %w", err)
	}
	return nil
}
