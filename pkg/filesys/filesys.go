// Package filesys wraps the handful of filesystem operations the store
// and segment-discovery code need: creating the data directory, checking
// whether a path exists, and globbing for segment files.
package filesys

import (
	"errors"
	"os"
	"path/filepath"
)

var ErrIsNotDir = errors.New("path isn't a directory")

// CreateDir creates dirPath (and missing parents) with permission, then
// sets its mode to 0755. If force is false and dirPath already exists (or
// cannot be stat'ed), it returns the os.Stat result without creating or
// checking anything. Otherwise it returns ErrIsNotDir if dirPath exists as
// a non-directory.
func CreateDir(dirPath string, permission os.FileMode, force bool) error {
	stat, err := os.Stat(dirPath)
	if !force && !os.IsNotExist(err) {
		return err
	}
	if stat != nil && !stat.IsDir() {
		return ErrIsNotDir
	}
	if err := os.MkdirAll(dirPath, permission); err != nil {
		return err
	}
	return os.Chmod(dirPath, 0755)
}

// ReadDir returns every path matching the glob pattern dirName.
func ReadDir(dirName string) ([]string, error) {
	return filepath.Glob(dirName)
}

// Exists reports whether a file or directory exists at file.
func Exists(file string) (bool, error) {
	_, err := os.Stat(file)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}
