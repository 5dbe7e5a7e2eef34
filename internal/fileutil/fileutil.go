package fileutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"syscall"
)

// CopyFile streams src to dst using io.Copy with default permissions (0o644).
func CopyFile(src, dst string) error {
	return CopyFileMode(src, dst, 0o644)
}

// CopyFileMode streams src to dst, setting the given file mode on dst.
func CopyFileMode(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}

// MoveFile renames src to dst, creating dst's parent as needed. When the
// rename crosses filesystems it falls back to copy + remove.
func MoveFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	renameErr := os.Rename(src, dst)
	if renameErr == nil {
		return nil
	}
	var linkErr *os.LinkError
	if errors.As(renameErr, &linkErr) && errors.Is(linkErr.Err, syscall.EXDEV) {
		if err := copyAny(src, dst); err != nil {
			return fmt.Errorf("cross-device move: %w", err)
		}
		return os.RemoveAll(src)
	}
	return renameErr
}

func copyAny(src, dst string) error {
	info, err := os.Lstat(src)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return CopyTree(src, dst)
	}
	return CopyFileMode(src, dst, info.Mode().Perm())
}

// CopyTree recursively copies the directory at src to dst.
func CopyTree(src, dst string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return err
	}
	for _, entry := range entries {
		s := filepath.Join(src, entry.Name())
		d := filepath.Join(dst, entry.Name())
		if entry.IsDir() {
			if err := CopyTree(s, d); err != nil {
				return err
			}
			continue
		}
		if err := CopyFile(s, d); err != nil {
			return err
		}
	}
	return nil
}

// SortedEntries returns the directory entries of dir ordered by name so
// repeated walks over an unchanged tree are deterministic.
func SortedEntries(dir string) ([]os.DirEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

// IsEmptyDir reports whether dir exists and contains no entries.
func IsEmptyDir(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, err
	}
	return len(entries) == 0, nil
}

// ContainsFiles reports whether any regular file exists anywhere under dir.
func ContainsFiles(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			found, err := ContainsFiles(filepath.Join(dir, entry.Name()))
			if err != nil {
				return false, err
			}
			if found {
				return true, nil
			}
			continue
		}
		return true, nil
	}
	return false, nil
}

// RemoveEmptyTree deletes dir if the subtree beneath it holds no files.
// Directories that still contain files are left untouched.
func RemoveEmptyTree(dir string) (bool, error) {
	hasFiles, err := ContainsFiles(dir)
	if err != nil {
		return false, err
	}
	if hasFiles {
		return false, nil
	}
	if err := os.RemoveAll(dir); err != nil {
		return false, err
	}
	return true, nil
}
