package services

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

type FileService struct{}

func NewFileService() *FileService {
	return &FileService{}
}

// Exists reports whether anything exists at path.
func (f *FileService) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsDir reports whether path is an existing directory.
func (f *FileService) IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// IsEmptyDir reports whether path is a directory with no entries.
func (f *FileService) IsEmptyDir(path string) (bool, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return false, err
	}
	return len(entries) == 0, nil
}

// MkdirAll creates a directory and all necessary parents.
func (f *FileService) MkdirAll(path string, perm os.FileMode) error {
	if err := os.MkdirAll(path, perm); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	return nil
}

// RemoveAll deletes path and everything below it.
func (f *FileService) RemoveAll(path string) error {
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}

// Move renames src to dst, falling back to copy-and-delete when the two
// paths live on different filesystems.
func (f *FileService) Move(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	var linkErr *os.LinkError
	if !errors.As(err, &linkErr) {
		return fmt.Errorf("failed to move %s to %s: %w", src, dst, err)
	}
	if err := f.CopyTree(src, dst); err != nil {
		return err
	}
	return f.RemoveAll(src)
}

// CopyTree copies the directory tree rooted at src to dst, preserving file
// modes and symlinks.
func (f *FileService) CopyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		info, err := d.Info()
		if err != nil {
			return err
		}
		switch {
		case d.IsDir():
			return f.MkdirAll(target, info.Mode().Perm())
		case info.Mode()&os.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}
			return os.Symlink(link, target)
		default:
			return f.CopyFile(path, target, info.Mode().Perm())
		}
	})
}

// CopyFile copies a file from src to dst, preserving permissions.
func (f *FileService) CopyFile(src, dst string, perm os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source file %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create destination file %s: %w", dst, err)
	}
	defer out.Close()

	if _, err = io.Copy(out, in); err != nil {
		return fmt.Errorf("failed to copy file %s to %s: %w", src, dst, err)
	}
	if err = out.Chmod(perm); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", dst, err)
	}
	return nil
}

// ReplaceFirst rewrites path with the first occurrence of old replaced by
// repl. It reports whether a replacement was made; a missing file is not an
// error.
func (f *FileService) ReplaceFirst(path, old, repl string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	text := string(data)
	if !strings.Contains(text, old) {
		return false, nil
	}
	text = strings.Replace(text, old, repl, 1)
	return true, os.WriteFile(path, []byte(text), 0644)
}

// ListFiles returns the sorted names of regular files in dir with the given
// extension. A missing directory yields no names and no error.
func (f *FileService) ListFiles(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ext {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}
