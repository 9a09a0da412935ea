package gen

import (
	"os"
	"path/filepath"
	"strings"
)

// writeDebugUnformatted writes source that failed formatting to a sidecar
// next to the intended output. Best-effort.
func writeDebugUnformatted(path string, content []byte) error {
	if path == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return err
	}

	// Keep a .go extension for editors without colliding with real output.
	debugPath := strings.TrimSuffix(path, ".go") + ".unformatted.go"

	return os.WriteFile(debugPath, content, filePerm)
}
