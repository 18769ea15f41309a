// Package files stores completed game records as individual JSON files.
package files

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/mcoot/solitaire-server/internal/model"
	"github.com/mcoot/solitaire-server/internal/storage"
)

const recordExt = ".json"

// maxNameAttempts bounds the suffixes tried when several records land in the
// same millisecond
const maxNameAttempts = 100

// Storage keeps one file per game record under a directory
type Storage struct {
	fs  afero.Fs
	dir string
}

// New creates the record directory if needed and returns a store over it
func New(fs afero.Fs, dir string) (*Storage, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create records dir: %w", err)
	}
	return &Storage{fs: fs, dir: dir}, nil
}

// NewOS creates a store on the real filesystem
func NewOS(dir string) (*Storage, error) {
	return New(afero.NewOsFs(), dir)
}

// Ensure Storage implements the interface
var _ storage.GameRecordStore = (*Storage)(nil)

// SaveGameRecord writes data as <unix-millis>.json, adding a -N suffix on collision
func (s *Storage) SaveGameRecord(ctx context.Context, data []byte, at time.Time) (string, error) {
	base := fmt.Sprintf("%d", at.UnixMilli())

	for attempt := 0; attempt < maxNameAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		name := base + recordExt
		if attempt > 0 {
			name = fmt.Sprintf("%s-%d%s", base, attempt, recordExt)
		}

		f, err := s.fs.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create record %s: %w", name, err)
		}

		_, werr := f.Write(data)
		cerr := f.Close()
		if werr != nil || cerr != nil {
			_ = s.fs.Remove(filepath.Join(s.dir, name))
			return "", fmt.Errorf("write record %s: %w", name, errors.Join(werr, cerr))
		}
		return name, nil
	}
	return "", fmt.Errorf("no free record name for %s", base)
}

// ListGameRecords returns record names in lexical order
func (s *Storage) ListGameRecords(ctx context.Context) ([]string, error) {
	entries, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		return nil, fmt.Errorf("read records dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), recordExt) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// GetGameRecord reads a record by name
func (s *Storage) GetGameRecord(ctx context.Context, name string) ([]byte, error) {
	// names come from ListGameRecords, but never follow a path out of dir
	if name != filepath.Base(name) {
		return nil, fmt.Errorf("invalid record name %q", name)
	}

	data, err := afero.ReadFile(s.fs, filepath.Join(s.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, model.ErrNoGameRecords
	}
	if err != nil {
		return nil, fmt.Errorf("read record %s: %w", name, err)
	}
	return data, nil
}
