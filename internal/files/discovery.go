package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Discovery finds input files relative to a base path
type Discovery struct {
	basePath string
	accept   func(name string) bool
}

// NewDiscovery creates a discovery rooted at basePath that returns files
// for which accept reports true
func NewDiscovery(basePath string, accept func(name string) bool) *Discovery {
	return &Discovery{basePath: basePath, accept: accept}
}

// FindSpreadsheets lists the accepted files directly inside dir, sorted by
// name. Subdirectories and hidden files are skipped.
func (d *Discovery) FindSpreadsheets(dir string) ([]FileInfo, error) {
	fullPath := d.resolve(dir)

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", fullPath, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		if d.accept != nil && !d.accept(name) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Path:    filepath.Join(fullPath, name),
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})
	return files, nil
}

// FindFilesByPattern finds accepted files matching a glob pattern in dir
func (d *Discovery) FindFilesByPattern(dir string, pattern string) ([]FileInfo, error) {
	matches, err := filepath.Glob(filepath.Join(d.resolve(dir), pattern))
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
	}

	var files []FileInfo
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil || info.IsDir() {
			continue
		}
		if d.accept != nil && !d.accept(info.Name()) {
			continue
		}
		files = append(files, FileInfo{
			Path:    match,
			Name:    info.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	return files, nil
}

// TotalSize sums the sizes of files
func TotalSize(files []FileInfo) int64 {
	var total int64
	for _, f := range files {
		total += f.Size
	}
	return total
}

func (d *Discovery) resolve(dir string) string {
	if filepath.IsAbs(dir) || d.basePath == "" {
		return dir
	}
	return filepath.Join(d.basePath, dir)
}
