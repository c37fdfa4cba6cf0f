// Package logo stores uploaded invoice logos on disk and hands their bytes
// to the renderer.
package logo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxSize is the upload ceiling enforced at ingestion; the renderer itself
// places no explicit limit.
const MaxSize = 1 << 20 // 1 MB

// URLPrefix is the public path under which stored logos are served.
const URLPrefix = "/uploads/"

var (
	ErrTooLarge          = errors.New("logo_too_large")
	ErrUnsupportedFormat = errors.New("logo_unsupported_format")
	ErrLogoNotFound      = errors.New("logo_not_found")
)

var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// Store persists logo files under a single directory.
type Store struct {
	dir string
	log *zap.Logger
}

func NewStore(dir string, log *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: dir, log: log}, nil
}

// Dir returns the backing directory, for static file serving.
func (s *Store) Dir() string { return s.dir }

// Save writes logo bytes under a unique name and returns the public URL
// path for the stored file.
func (s *Store) Save(originalName string, data []byte) (string, error) {
	if len(data) > MaxSize {
		return "", ErrTooLarge
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedExtensions[ext] {
		return "", ErrUnsupportedFormat
	}

	name := "logo-" + uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write logo file: %w", err)
	}

	s.log.Info("logo stored", zap.String("file", name), zap.Int("bytes", len(data)))
	return URLPrefix + name, nil
}

// Load reads back the bytes for a stored logo URL. Only paths produced by
// Save are accepted; anything else is treated as not found.
func (s *Store) Load(logoURL string) ([]byte, error) {
	name, ok := strings.CutPrefix(logoURL, URLPrefix)
	if !ok || name == "" || name != filepath.Base(name) {
		return nil, ErrLogoNotFound
	}

	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrLogoNotFound
		}
		return nil, fmt.Errorf("read logo file: %w", err)
	}
	return data, nil
}
