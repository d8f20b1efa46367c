// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package cache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"

	xlog "github.com/ManuGH/tivoctl/internal/log"
)

// DefaultDirName is the subdirectory of the system temp dir used when no
// cache directory is configured.
const DefaultDirName = "tivo"

// FileStore keeps one "<key>.xml" file per entry under Dir.
type FileStore struct {
	Dir string
}

// NewFileStore returns a store rooted at dir, or at $TMPDIR/tivo when dir
// is empty.
func NewFileStore(dir string) *FileStore {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), DefaultDirName)
	}
	return &FileStore{Dir: filepath.Clean(dir)}
}

// Path returns the file backing key.
func (s *FileStore) Path(key string) (string, error) {
	if err := ValidateKey(key); err != nil {
		return "", err
	}
	return filepath.Join(s.Dir, key+".xml"), nil
}

// Get reads the entry for key; its ModTime is the file's modification time.
func (s *FileStore) Get(_ context.Context, key string) (Entry, bool, error) {
	path, err := s.Path(key)
	if err != nil {
		return Entry{}, false, err
	}
	// #nosec G304 -- path is confined to Dir by ValidateKey
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Entry{}, false, nil
		}
		return Entry{}, false, fmt.Errorf("open cache entry: %w", err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return Entry{}, false, fmt.Errorf("stat cache entry: %w", err)
	}
	if info.IsDir() {
		return Entry{}, false, fmt.Errorf("cache entry %s is a directory", path)
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return Entry{}, false, fmt.Errorf("read cache entry: %w", err)
	}
	return Entry{Data: data, ModTime: info.ModTime()}, true, nil
}

// Put writes data durably: fsync of a temp file, then an atomic rename.
func (s *FileStore) Put(ctx context.Context, key string, data []byte) error {
	path, err := s.Path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	logger := xlog.FromContext(ctx)

	pendingFile, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644))
	if err != nil {
		return fmt.Errorf("create pending cache file: %w", err)
	}
	defer func() {
		// Cleanup is a no-op once the file has been committed.
		if err := pendingFile.Cleanup(); err != nil {
			logger.Debug().Err(err).Str(xlog.FieldCacheKey, key).Msg("cleanup pending cache file")
		}
	}()

	if _, err := pendingFile.Write(data); err != nil {
		return fmt.Errorf("write cache data: %w", err)
	}
	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace cache file: %w", err)
	}
	return nil
}
