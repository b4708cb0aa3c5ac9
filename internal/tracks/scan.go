// Package tracks discovers playable audio files.
package tracks

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var recognized = map[string]bool{
	".mp3": true,
	".wav": true,
}

// Scan returns the audio filenames in dir, in directory order. Only the
// extension is inspected, case-insensitively; subdirectories and other
// files are ignored. The directory is read once and never re-scanned.
func Scan(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scan music dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if recognized[ext] {
			names = append(names, entry.Name())
		}
	}

	return names, nil
}
