package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/aretw0/trmc/pkg/domain"
)

// Ext is the extension of program files.
const Ext = ".trmc"

// Metadata lives in a comment block that only encode writes, so a program's own
// comments are never mistaken for it.
const (
	metadataStart     = "// trmc:metadata"
	metadataEnd       = "// trmc:end"
	descriptionHeader = "// description: "
	inputHeader       = "// input: "
)

// Store implements ports.ProgramStore on a directory of .trmc files.
// Metadata is kept in leading comment lines, so stored files stay runnable.
type Store struct {
	BasePath string
}

// New creates a new Store rooted at basePath ("programs" when empty).
func New(basePath string) *Store {
	if basePath == "" {
		basePath = "programs"
	}
	return &Store{BasePath: basePath}
}

func (s *Store) path(id string) string {
	return filepath.Join(s.BasePath, filepath.FromSlash(id)+Ext)
}

// Save writes the program atomically: temp file, fsync, rename.
func (s *Store) Save(ctx context.Context, src *domain.ProgramSource) error {
	if err := domain.ValidateProgramID(src.ID); err != nil {
		return err
	}

	destPath := s.path(src.ID)
	dir := filepath.Dir(destPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to ensure program directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, "tmp-*"+Ext)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.WriteString(encode(src)); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// Windows refuses to rename over an existing file.
	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("failed to remove existing program for overwrite: %w", err)
		}
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// Load reads a program file.
func (s *Store) Load(ctx context.Context, id string) (*domain.ProgramSource, error) {
	if err := domain.ValidateProgramID(id); err != nil {
		return nil, domain.ErrProgramNotFound
	}

	filePath := s.path(id)
	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrProgramNotFound
		}
		return nil, fmt.Errorf("failed to read program file: %w", err)
	}

	src := decode(string(data))
	src.ID = id
	if info, err := os.Stat(filePath); err == nil {
		src.UpdatedAt = info.ModTime().UTC()
	}
	return src, nil
}

// Delete removes the program file.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := domain.ValidateProgramID(id); err != nil {
		return err
	}

	err := os.Remove(s.path(id))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete program file: %w", err)
	}
	return nil
}

// List walks the directory tree; nested files get slash-separated IDs.
func (s *Store) List(ctx context.Context) ([]string, error) {
	var ids []string
	err := filepath.WalkDir(s.BasePath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && path == s.BasePath {
				return fs.SkipAll
			}
			return err
		}
		if d.IsDir() || filepath.Ext(path) != Ext || strings.HasPrefix(d.Name(), "tmp-") {
			return nil
		}
		rel, err := filepath.Rel(s.BasePath, path)
		if err != nil {
			return err
		}
		id := filepath.ToSlash(strings.TrimSuffix(rel, Ext))
		if domain.ValidateProgramID(id) == nil {
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list programs: %w", err)
	}

	slices.Sort(ids)
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

func encode(src *domain.ProgramSource) string {
	if src.Description == "" && src.Input == "" {
		return src.Source
	}

	var sb strings.Builder
	sb.WriteString(metadataStart + "\n")
	if src.Description != "" {
		sb.WriteString(descriptionHeader + firstLine(src.Description) + "\n")
	}
	if src.Input != "" {
		sb.WriteString(inputHeader + firstLine(src.Input) + "\n")
	}
	sb.WriteString(metadataEnd + "\n")
	sb.WriteString(src.Source)
	return sb.String()
}

// decode splits a stored file into metadata and source. Files without a complete
// metadata block are returned verbatim as source.
func decode(data string) *domain.ProgramSource {
	first, rest, _ := strings.Cut(data, "\n")
	if strings.TrimRight(first, "\r") != metadataStart {
		return &domain.ProgramSource{Source: data}
	}

	meta := &domain.ProgramSource{}
	for rest != "" {
		var line string
		line, rest, _ = strings.Cut(rest, "\n")
		line = strings.TrimRight(line, "\r")
		switch {
		case line == metadataEnd:
			meta.Source = rest
			return meta
		case strings.HasPrefix(line, descriptionHeader):
			meta.Description = strings.TrimPrefix(line, descriptionHeader)
		case strings.HasPrefix(line, inputHeader):
			meta.Input = strings.TrimPrefix(line, inputHeader)
		}
	}
	return &domain.ProgramSource{Source: data}
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return strings.TrimRight(line, "\r")
}
