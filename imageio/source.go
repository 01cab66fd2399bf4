package imageio

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultPatterns matches the image formats FileLoader can decode.
var DefaultPatterns = []string{"**/*.{jpg,jpeg,png,gif,bmp,tif,tiff,webp}"}

// Source enumerates the images of a build.
// Identifiers must be unique; order must be deterministic.
type Source interface {
	Images(ctx context.Context) ([]string, error)
}

// StaticSource is a fixed list of image identifiers.
type StaticSource []string

// Images returns a copy of the list.
func (s StaticSource) Images(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return slices.Clone(s), nil
}

// DirSource walks a directory and returns files matching its patterns.
// Matching is case-insensitive; results are sorted.
type DirSource struct {
	root     string
	patterns []string
}

// NewDirSource creates a DirSource rooted at root. Without patterns, DefaultPatterns is used.
func NewDirSource(root string, patterns ...string) *DirSource {
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}
	lower := make([]string, len(patterns))
	for i, p := range patterns {
		lower[i] = strings.ToLower(filepath.ToSlash(p))
	}
	return &DirSource{root: root, patterns: lower}
}

// Root returns the walked directory.
func (s *DirSource) Root() string { return s.root }

// Validate checks the configured patterns.
func (s *DirSource) Validate() error {
	for _, p := range s.patterns {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("imageio: invalid pattern %q", p)
		}
	}
	return nil
}

// Match reports whether rel, a slash-separated path relative to the root, is selected.
func (s *DirSource) Match(rel string) bool {
	rel = strings.ToLower(rel)
	for _, p := range s.patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// Images walks the root directory.
func (s *DirSource) Images(ctx context.Context) ([]string, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	info, err := os.Stat(s.root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("imageio: %s is not a directory", s.root)
	}

	var paths []string
	err = filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // unreadable entries are skipped
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || d.Type()&fs.ModeSymlink != 0 {
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return nil //nolint:nilerr
		}
		if s.Match(filepath.ToSlash(rel)) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.Sort(paths)
	return paths, nil
}
