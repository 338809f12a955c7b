package importer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ScanDirectory lists the .csv files in dir, creating dir when it does not
// exist. created reports whether the directory had to be made. Files are
// returned in name order.
func ScanDirectory(dir string) (files []string, created bool, err error) {
	info, err := os.Stat(dir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, false, fmt.Errorf("%w: create %s: %v", ErrDirectory, dir, err)
		}
		created = true
	case err != nil:
		return nil, false, fmt.Errorf("%w: stat %s: %v", ErrDirectory, dir, err)
	case !info.IsDir():
		return nil, false, fmt.Errorf("%w: %s is not a directory", ErrDirectory, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, created, fmt.Errorf("%w: list %s: %v", ErrDirectory, dir, err)
	}

	for _, e := range entries {
		if !strings.HasSuffix(strings.ToLower(e.Name()), ".csv") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if !isRegular(e, path) {
			continue
		}
		files = append(files, path)
	}
	return files, created, nil
}

func isRegular(e fs.DirEntry, path string) bool {
	if e.Type().IsRegular() {
		return true
	}
	if e.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
