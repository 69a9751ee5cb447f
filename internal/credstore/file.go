// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package credstore

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/oops"

	"github.com/holomush/teamauth/internal/xdg"
)

// FileBackend keeps the token in a single 0600 file.
type FileBackend struct {
	path string
}

// NewFileBackend returns a backend writing to path. An empty path selects
// team_token inside the XDG state directory.
func NewFileBackend(path string) (*FileBackend, error) {
	if path == "" {
		dir, err := xdg.StateDir()
		if err != nil {
			return nil, oops.Code("CREDSTORE_PATH_FAILED").Wrap(err)
		}
		path = filepath.Join(dir, Key)
	}
	return &FileBackend{path: path}, nil
}

// Path returns the token file location.
func (b *FileBackend) Path() string {
	return b.path
}

// Put writes value atomically through a temp file in the same directory.
func (b *FileBackend) Put(_ context.Context, value string) error {
	dir := filepath.Dir(b.path)
	if err := xdg.EnsureDir(dir); err != nil {
		return oops.Code("CREDSTORE_WRITE_FAILED").With("path", b.path).Wrap(err)
	}

	tmp, err := os.CreateTemp(dir, "."+Key+"-*")
	if err != nil {
		return oops.Code("CREDSTORE_WRITE_FAILED").With("path", b.path).Wrap(err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // no-op after a successful rename

	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close() //nolint:errcheck // chmod error takes precedence
		return oops.Code("CREDSTORE_WRITE_FAILED").With("path", tmpName).Wrap(err)
	}
	if _, err := tmp.WriteString(value); err != nil {
		_ = tmp.Close() //nolint:errcheck // write error takes precedence
		return oops.Code("CREDSTORE_WRITE_FAILED").With("path", tmpName).Wrap(err)
	}
	if err := tmp.Close(); err != nil {
		return oops.Code("CREDSTORE_WRITE_FAILED").With("path", tmpName).Wrap(err)
	}
	if err := os.Rename(tmpName, b.path); err != nil {
		return oops.Code("CREDSTORE_WRITE_FAILED").With("path", b.path).Wrap(err)
	}
	return nil
}

// Get reads the token file. A missing file means no token.
func (b *FileBackend) Get(_ context.Context) (string, bool, error) {
	data, err := os.ReadFile(b.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, oops.Code("CREDSTORE_READ_FAILED").With("path", b.path).Wrap(err)
	}
	value := strings.TrimSpace(string(data))
	return value, value != "", nil
}

// Delete removes the token file. A missing file is not an error.
func (b *FileBackend) Delete(_ context.Context) error {
	if err := os.Remove(b.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return oops.Code("CREDSTORE_DELETE_FAILED").With("path", b.path).Wrap(err)
	}
	return nil
}
