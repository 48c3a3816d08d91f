package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"ecomkpi/internal/config"
)

// SourceExtensions are the readable extract formats, in resolution order
var SourceExtensions = []string{".csv", ".xlsx"}

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Discovery provides file discovery operations
type Discovery struct {
	basePath string
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

// FindSourceFiles lists the readable extract files in the base directory,
// sorted by name. Excel lock files (~$...) are ignored.
func (d *Discovery) FindSourceFiles() ([]FileInfo, error) {
	entries, err := os.ReadDir(d.basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", d.basePath, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), "~$") {
			continue
		}
		if !isSourceExt(filepath.Ext(entry.Name())) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Path:    filepath.Join(d.basePath, entry.Name()),
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})
	return files, nil
}

// ResolveSources returns sources with each path pointing at an existing
// file. A source whose path does not exist is tried with the same name and
// each other extension in SourceExtensions; the first match wins. Sources
// with no match keep their original path.
func (d *Discovery) ResolveSources(sources []config.Source) []config.Source {
	resolved := make([]config.Source, len(sources))
	for i, src := range sources {
		resolved[i] = src
		if fileExists(src.Path) {
			continue
		}

		stem := strings.TrimSuffix(src.Path, filepath.Ext(src.Path))
		for _, ext := range SourceExtensions {
			if candidate := stem + ext; fileExists(candidate) {
				resolved[i].Path = candidate
				break
			}
		}
	}
	return resolved
}

func isSourceExt(ext string) bool {
	for _, e := range SourceExtensions {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
