// Package backup keeps verified copies of a collection file next to it.
package backup

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DirName is the directory, beside the collection, that holds backups.
const DirName = "streakkeeper-backups"

const stampLayout = "20060102-150405.000"

// Dir returns the backup directory for a collection file.
func Dir(collectionPath string) string {
	return filepath.Join(filepath.Dir(collectionPath), DirName)
}

// Create copies the collection file into its backup directory and returns the
// copy's path and SHA-256 hash.
func Create(collectionPath string, now time.Time) (string, string, error) {
	//nolint:gosec // G304: path is the collection chosen by the user
	src, err := os.Open(collectionPath)
	if err != nil {
		return "", "", fmt.Errorf("failed to open collection for backup: %w", err)
	}
	defer func() {
		_ = src.Close()
	}()

	dir := Dir(collectionPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	dst, path, err := createUnique(dir, baseName(collectionPath), extension(collectionPath), now)
	if err != nil {
		return "", "", err
	}

	hasher := sha256.New()
	if _, err := io.Copy(io.MultiWriter(dst, hasher), src); err != nil {
		_ = dst.Close()
		_ = os.Remove(path)
		return "", "", fmt.Errorf("failed to copy collection: %w", err)
	}
	if err := dst.Sync(); err != nil {
		_ = dst.Close()
		_ = os.Remove(path)
		return "", "", fmt.Errorf("failed to flush backup: %w", err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(path)
		return "", "", fmt.Errorf("failed to close backup: %w", err)
	}

	return path, hex.EncodeToString(hasher.Sum(nil)), nil
}

// FileExists reports whether the given path exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Verify ensures the file exists and its SHA-256 hash matches the expected hash.
func Verify(path, expectedHash string) (bool, error) {
	if !FileExists(path) {
		return false, nil
	}

	actualHash, err := hashFile(path)
	if err != nil {
		return false, err
	}
	return actualHash == expectedHash, nil
}

// List returns the backups of a collection, oldest first.
func List(collectionPath string) ([]string, error) {
	dir := Dir(collectionPath)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	prefix := baseName(collectionPath) + "-"
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, prefix) && strings.HasSuffix(name, extension(collectionPath)) {
			paths = append(paths, filepath.Join(dir, name))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// Prune removes all but the newest keep backups and returns how many were
// removed. keep <= 0 disables pruning.
func Prune(collectionPath string, keep int) (int, error) {
	if keep <= 0 {
		return 0, nil
	}

	paths, err := List(collectionPath)
	if err != nil {
		return 0, err
	}
	if len(paths) <= keep {
		return 0, nil
	}

	removed := 0
	for _, path := range paths[:len(paths)-keep] {
		if err := os.Remove(path); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

func baseName(collectionPath string) string {
	base := filepath.Base(collectionPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func extension(collectionPath string) string {
	if ext := filepath.Ext(collectionPath); ext != "" {
		return ext
	}
	return ".anki2"
}

// createUnique opens a new file named <base>-<stamp>[-<n>]<ext> that did not
// exist before.
func createUnique(dir, base, ext string, now time.Time) (*os.File, string, error) {
	stamp := now.UTC().Format(stampLayout)
	for n := 0; n < 100; n++ {
		name := base + "-" + stamp
		if n > 0 {
			name += "-" + strconv.Itoa(n)
		}
		path := filepath.Join(dir, name+ext)

		//nolint:gosec // G304: path is built from the collection location
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
		if err == nil {
			return f, path, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, "", fmt.Errorf("failed to create backup file: %w", err)
		}
	}
	return nil, "", fmt.Errorf("too many backups for %s at %s", base, stamp)
}

func hashFile(path string) (string, error) {
	//nolint:gosec // G304: path is a backup created by this package
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = f.Close()
	}()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
