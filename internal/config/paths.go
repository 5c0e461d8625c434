package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths holds the resolved filesystem layout of the application. All
// relative configuration paths are anchored at the executable directory,
// never the current working directory, so the binary behaves the same no
// matter where it is launched from.
//
//	growlab/
//	  ├── data/      (environment CSVs + growth workbook)
//	  ├── reports/   (generated summary reports)
//	  └── logs/
type Paths struct {
	ExecutableDir string
	DataDir       string
	ReportsDir    string
	LogsDir       string
}

// ResolvePaths builds the path layout for the given configuration.
func ResolvePaths(cfg *Config) (*Paths, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("get executable path: %w", err)
	}
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return nil, fmt.Errorf("resolve executable symlinks: %w", err)
	}
	exeDir := filepath.Dir(exe)

	dataDir := cfg.Data.Dir
	if !filepath.IsAbs(dataDir) {
		dataDir = filepath.Join(exeDir, dataDir)
	}

	return &Paths{
		ExecutableDir: exeDir,
		DataDir:       dataDir,
		ReportsDir:    filepath.Join(exeDir, "reports"),
		LogsDir:       filepath.Join(exeDir, "logs"),
	}, nil
}

// EnsureDirectories creates the writable directories if absent. The data
// directory is deliberately not created: its absence is a condition the
// loaders report, not one to mask.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.ReportsDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// ReportPath returns the full path for a generated report file.
func (p *Paths) ReportPath(name string) string {
	return filepath.Join(p.ReportsDir, name)
}
