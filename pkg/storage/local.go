package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrExtensionNotAllowed = errors.New("file type is not allowed")
	ErrOutsideRoot         = errors.New("path escapes the upload directory")
)

// Kind groups uploads into sub directories with their own allowed extensions
type Kind string

const (
	KindImage  Kind = "images"
	KindSource Kind = "sources"
)

var allowedExtensions = map[Kind][]string{
	KindImage:  {".jpg", ".jpeg", ".png", ".gif", ".webp"},
	KindSource: {".zip", ".rar", ".7z", ".tar", ".gz"},
}

// Local stores uploaded files below a single root directory
type Local struct {
	root string
}

func NewLocal(root string) (*Local, error) {
	for kind := range allowedExtensions {
		if err := os.MkdirAll(filepath.Join(root, string(kind)), 0o755); err != nil {
			return nil, fmt.Errorf("create upload dir: %w", err)
		}
	}
	return &Local{root: root}, nil
}

func (l *Local) Root() string {
	return l.root
}

// Reserve validates the original file name and returns a fresh relative path
// ("images/<uuid>.png") plus the absolute destination to write to.
func (l *Local) Reserve(kind Kind, originalName string) (rel, abs string, err error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !extensionAllowed(kind, ext) {
		return "", "", fmt.Errorf("%w: %s", ErrExtensionNotAllowed, ext)
	}
	rel = filepath.ToSlash(filepath.Join(string(kind), uuid.NewString()+ext))
	return rel, filepath.Join(l.root, filepath.FromSlash(rel)), nil
}

// Path resolves a stored relative path to an absolute one
func (l *Local) Path(rel string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(rel))
	if clean == "." || filepath.IsAbs(clean) || strings.HasPrefix(clean, "..") {
		return "", ErrOutsideRoot
	}
	return filepath.Join(l.root, clean), nil
}

// Remove deletes a stored file; missing files are not an error
func (l *Local) Remove(rel string) error {
	if rel == "" {
		return nil
	}
	abs, err := l.Path(rel)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func extensionAllowed(kind Kind, ext string) bool {
	for _, e := range allowedExtensions[kind] {
		if e == ext {
			return true
		}
	}
	return false
}
