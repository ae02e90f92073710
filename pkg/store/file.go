package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	ferrors "github.com/matzehuels/formwork/pkg/errors"
	"github.com/matzehuels/formwork/pkg/io"
	"github.com/matzehuels/formwork/pkg/template"
)

// FileStore is a file-based template store for CLI applications.
// Templates are stored as JSON files named after their ID.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a new file-based template store.
// If baseDir is empty, defaults to ~/.config/formwork/templates/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "formwork", "templates")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create template dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) templatePath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

func (s *FileStore) Put(ctx context.Context, d *template.Definition) error {
	if err := checkPut(d); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return io.ExportJSON(d, s.templatePath(d.ID))
}

func (s *FileStore) Get(ctx context.Context, id string) (*template.Definition, error) {
	if err := ferrors.ValidateTemplateID(id); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, err := io.ImportJSON(s.templatePath(id))
	if ferrors.Is(err, ferrors.ErrCodeFileNotFound) {
		return nil, notFound(id)
	}
	return d, err
}

// List reads every template file in the directory. Files that fail to
// decode are skipped.
func (s *FileStore) List(ctx context.Context) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read template dir: %w", err)
	}
	var out []Summary
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" || strings.HasPrefix(name, ".") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		d, err := io.ImportJSON(filepath.Join(s.baseDir, name))
		if err != nil {
			continue
		}
		out = append(out, summarize(d, info.ModTime()))
	}
	sortSummaries(out)
	return out, nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	if err := ferrors.ValidateTemplateID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.templatePath(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove template file: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the base directory for template files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)
