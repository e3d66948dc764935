package upload

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ariefcatur/go-artisan-market/internal/clock"
)

var (
	ErrNotAllowed = errors.New("file type not allowed")
	ErrTooLarge   = errors.New("file too large")
	ErrBadName    = errors.New("invalid file name")
)

const stampLayout = "20060102_150405_"

// Store writes uploaded images into one flat directory.
type Store struct {
	dir      string
	maxBytes int64
	allowed  map[string]struct{}
	clock    clock.Clock
}

func NewStore(dir string, maxBytes int64, extensions []string, c clock.Clock) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	if c == nil {
		c = clock.RealClock{}
	}
	allowed := make(map[string]struct{}, len(extensions))
	for _, e := range extensions {
		allowed[strings.ToLower(strings.TrimPrefix(e, "."))] = struct{}{}
	}
	return &Store{dir: dir, maxBytes: maxBytes, allowed: allowed, clock: c}, nil
}

func (s *Store) MaxBytes() int64 { return s.maxBytes }

func (s *Store) Allowed(filename string) bool {
	if !strings.Contains(filename, ".") {
		return false
	}
	_, ok := s.allowed[Extension(filename)]
	return ok
}

// Save stores r under "<timestamp>_<secure name>" and returns that name.
func (s *Store) Save(filename string, r io.Reader) (string, error) {
	if !s.Allowed(filename) {
		return "", ErrNotAllowed
	}
	clean := SecureFilename(filename)
	if clean == "" {
		return "", ErrBadName
	}
	name := s.clock.Now().Format(stampLayout) + clean

	f, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmp := f.Name()
	defer func() {
		if tmp != "" {
			_ = os.Remove(tmp)
		}
	}()

	n, err := io.Copy(f, io.LimitReader(r, s.maxBytes+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	if n > s.maxBytes {
		return "", ErrTooLarge
	}
	if err := os.Rename(tmp, filepath.Join(s.dir, name)); err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}
	tmp = ""
	return name, nil
}

// Path resolves a stored name to its file, refusing anything that is not a plain name.
func (s *Store) Path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", ErrBadName
	}
	return filepath.Join(s.dir, name), nil
}

// Remove deletes a stored file. A missing file is not an error.
func (s *Store) Remove(name string) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove upload: %w", err)
	}
	return nil
}
