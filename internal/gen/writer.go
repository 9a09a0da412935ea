package gen

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/zeebo/xxh3"

	"factory-generator/internal/common"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// WriteFiles writes every file whose content differs from the one on disk and
// returns the paths actually written.
func WriteFiles(files []GeneratedFile, logger *slog.Logger) ([]string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var written []string

	for _, file := range files {
		same, err := unchanged(file)
		if err != nil {
			return written, err
		}

		if same {
			logger.Debug("unchanged", slog.String("path", file.Path))

			continue
		}

		if err := os.MkdirAll(filepath.Dir(file.Path), dirPerm); err != nil {
			return written, fmt.Errorf("creating output directory: %w", err)
		}

		if err := os.WriteFile(file.Path, file.Content, filePerm); err != nil {
			return written, fmt.Errorf("writing file %s: %w", file.Path, err)
		}

		logger.Info("wrote", slog.String("path", file.Path))

		written = append(written, file.Path)
	}

	return written, nil
}

// Stale returns the paths of files that are missing on disk or differ from
// the generated content.
func Stale(files []GeneratedFile) ([]string, error) {
	var stale []string

	for _, file := range files {
		same, err := unchanged(file)
		if err != nil {
			return nil, err
		}

		if !same {
			stale = append(stale, file.Path)
		}
	}

	return stale, nil
}

// unchanged compares content hashes of file and its on-disk counterpart.
func unchanged(file GeneratedFile) (bool, error) {
	current, err := os.ReadFile(file.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}

	if err != nil {
		return false, fmt.Errorf("reading %s: %w", file.Path, err)
	}

	return len(current) == len(file.Content) && xxh3.Hash(current) == xxh3.Hash(file.Content), nil
}

// Orphans lists files in dir that carry our generated marker and suffix but
// are not part of keep, e.g. output left behind by a deleted declaration.
func Orphans(dir, suffix string, keep []GeneratedFile) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	kept := make(map[string]struct{}, len(keep))
	for _, f := range keep {
		kept[filepath.Clean(f.Path)] = struct{}{}
	}

	var orphans []string

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), suffix) {
			continue
		}

		p := filepath.Join(dir, e.Name())
		if _, ok := kept[filepath.Clean(p)]; ok {
			continue
		}

		generated, err := hasMarker(p)
		if err != nil {
			return nil, err
		}

		if generated {
			orphans = append(orphans, p)
		}
	}

	return orphans, nil
}

func hasMarker(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	if !sc.Scan() {
		return false, sc.Err()
	}

	return strings.TrimSpace(sc.Text()) == common.GeneratedMarker, nil
}
