package assets

import (
	"fmt"
	"os"
	"path/filepath"
)

// Resolver finds texture folders under a resources root.
type Resolver struct {
	ResourcesPath string
}

// Candidates returns the locations tried for folder, in order.
func (r Resolver) Candidates(folder string) []string {
	if filepath.IsAbs(folder) {
		return []string{folder}
	}
	return []string{
		filepath.Join(r.ResourcesPath, "mars_graphics", "resources", "Textures", folder),
		filepath.Join(r.ResourcesPath, "Textures", folder),
		folder,
	}
}

// ResolveFolder returns the first candidate that is an existing directory.
func (r Resolver) ResolveFolder(folder string) (string, error) {
	if folder == "" {
		return "", fmt.Errorf("%w: empty folder", ErrNotFound)
	}
	for _, c := range r.Candidates(folder) {
		if info, err := os.Stat(c); err == nil && info.IsDir() {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: folder %s under %s", ErrNotFound, folder, r.ResourcesPath)
}

// ResolveFile returns path if it exists, else path under ResourcesPath.
func (r Resolver) ResolveFile(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: empty path", ErrNotFound)
	}
	candidates := []string{path}
	if !filepath.IsAbs(path) {
		candidates = append(candidates, filepath.Join(r.ResourcesPath, path))
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: file %s", ErrNotFound, path)
}
