package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/text/unicode/norm"
)

// ErrNotFound reports that no directory entry matched the requested name
// after Unicode normalization. It is an expected, recoverable condition,
// not a failure of the lookup itself.
var ErrNotFound = errors.New("file not found")

// Normalize returns the canonical (NFC) form of a file name.
func Normalize(name string) string {
	return norm.NFC.String(name)
}

// Resolve locates a file named target inside dir, tolerating Unicode
// normalization-form mismatches between the requested name and the names
// on disk. It returns the full path of the first entry whose NFC form
// equals the NFC form of target, or ErrNotFound after scanning the whole
// directory. Directory read failures are returned as-is.
func Resolve(dir, target string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("read directory %s: %w", dir, err)
	}

	want := Normalize(target)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if Normalize(entry.Name()) == want {
			return filepath.Join(dir, entry.Name()), nil
		}
	}

	return "", fmt.Errorf("%w: %s in %s", ErrNotFound, target, dir)
}
