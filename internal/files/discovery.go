package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// FileInfo describes one discovered data file.
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Discovery lists the data files of one experiment directory.
type Discovery struct {
	dataDir string
}

// NewDiscovery creates a discovery instance rooted at the data directory.
func NewDiscovery(dataDir string) *Discovery {
	return &Discovery{dataDir: dataDir}
}

// FindCSVFiles returns the CSV files in the data directory, sorted by
// normalized name.
func (d *Discovery) FindCSVFiles() ([]FileInfo, error) {
	return d.findBySuffix(".csv")
}

// FindExcelFiles returns the XLSX files in the data directory, sorted by
// normalized name.
func (d *Discovery) FindExcelFiles() ([]FileInfo, error) {
	return d.findBySuffix(".xlsx")
}

func (d *Discovery) findBySuffix(suffix string) ([]FileInfo, error) {
	entries, err := os.ReadDir(d.dataDir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", d.dataDir, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(strings.ToLower(name), suffix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Path:    filepath.Join(d.dataDir, name),
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return Normalize(files[i].Name) < Normalize(files[j].Name)
	})

	return files, nil
}
