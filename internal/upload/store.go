package upload

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"question-analyzer/internal/util"
)

var (
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file too large")
	ErrEmptyFile           = errors.New("empty file")
)

// Allowed image MIME types.
var allowedMIMETypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// Image is a transient handle to one uploaded image on disk. It lives
// only for the duration of a single analysis.
type Image struct {
	Path string
	Name string // filename as uploaded
	MIME string
	Size int64

	once sync.Once
}

// Remove deletes the backing temp file. Safe to call more than once;
// only the first call touches the filesystem.
func (img *Image) Remove() error {
	var err error
	img.once.Do(func() {
		err = os.Remove(img.Path)
		if errors.Is(err, os.ErrNotExist) {
			err = nil
		}
	})
	return err
}

// Store writes uploaded images into a private temp directory.
type Store struct {
	dir      string
	maxBytes int64
}

// NewStore creates a store backed by a fresh temp directory. maxBytes
// caps a single image; zero means no cap.
func NewStore(maxBytes int64) (*Store, error) {
	dir, err := os.MkdirTemp("", "question-analyzer-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	return &Store{dir: dir, maxBytes: maxBytes}, nil
}

// Dir returns the store's temp directory.
func (s *Store) Dir() string { return s.dir }

// Save validates one uploaded image and writes it under a UUID filename.
// contentType may be empty; the MIME type is then sniffed from the bytes.
func (s *Store) Save(data []byte, filename, contentType string) (*Image, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}

	// Generic client types carry no information; sniff instead.
	if strings.TrimSpace(contentType) == "application/octet-stream" {
		contentType = ""
	}
	mime := util.PickMIME(contentType, "", data)
	ext, ok := allowedMIMETypes[mime]
	if !ok {
		return nil, fmt.Errorf("%w: %s (allowed: %s)",
			ErrUnsupportedFileType, mime, strings.Join(allowedTypes(), ", "))
	}

	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return nil, fmt.Errorf("%w: %d bytes (max: %d)", ErrFileTooLarge, len(data), s.maxBytes)
	}

	name := uuid.New().String() + ext
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("write file: %w", err)
	}

	display := filepath.Base(strings.TrimSpace(filename))
	if display == "." || display == "/" || display == "" {
		display = name
	}
	return &Image{Path: path, Name: display, MIME: mime, Size: int64(len(data))}, nil
}

// Close removes the temp directory and anything left inside it.
func (s *Store) Close() error {
	return os.RemoveAll(s.dir)
}

func allowedTypes() []string {
	types := make([]string, 0, len(allowedMIMETypes))
	for t := range allowedMIMETypes {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
