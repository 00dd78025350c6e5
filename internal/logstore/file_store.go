// Package logstore keeps the log collection as a single JSON array on disk.
//
// Every append rewrites the whole document (read, append, write to a temp file, rename), so
// appends cost O(N) in the collection size. Readers never lock: the document is only ever
// replaced by rename, so a reader sees either the previous or the next full collection.
package logstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"logviewer-backend/internal/apperror"
	"logviewer-backend/internal/model"
)

const (
	filePerm = 0o644
	dirPerm  = 0o755

	snapshotPrefix = "logs-"
	snapshotSuffix = ".json"
	snapshotLayout = "20060102T150405Z"
)

type Store interface {
	// EnsureInitialized creates the document as an empty collection if it does not exist.
	EnsureInitialized(ctx context.Context) error
	// LoadAll returns the collection in insertion order.
	LoadAll(ctx context.Context) ([]model.LogEntry, error)
	// Append normalizes entry, persists it after all previously accepted entries and returns it.
	Append(ctx context.Context, entry model.LogEntry) (model.LogEntry, error)
	// Snapshot copies the current document into dir and returns the file written.
	Snapshot(ctx context.Context, dir string, at time.Time) (string, error)
	// PruneSnapshots keeps the newest retain snapshots in dir and returns the removed files.
	PruneSnapshots(ctx context.Context, dir string, retain int) ([]string, error)
	Path() string
}

type Option func(*fileLogStore)

// WithClock overrides the clock used to default missing timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *fileLogStore) {
		s.now = now
	}
}

type fileLogStore struct {
	fs       afero.Fs
	filePath string
	now      func() time.Time
	mu       sync.Mutex // single writer per document
}

func NewFileLogStore(fsys afero.Fs, filePath string, opts ...Option) Store {
	s := &fileLogStore{
		fs:       fsys,
		filePath: filePath,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *fileLogStore) Path() string {
	return s.filePath
}

func (s *fileLogStore) EnsureInitialized(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureInitializedLocked()
}

func (s *fileLogStore) ensureInitializedLocked() error {
	if err := s.fs.MkdirAll(filepath.Dir(s.filePath), dirPerm); err != nil {
		log.Error().Err(err).Str("file", s.filePath).Msg("Failed to create log store directory")
		return apperror.Wrap(apperror.StorageUnavailable, "failed to initialize log store", err)
	}
	exists, err := afero.Exists(s.fs, s.filePath)
	if err != nil {
		return apperror.Wrap(apperror.StorageUnavailable, "failed to initialize log store", err)
	}
	if exists {
		return nil
	}
	if err := s.writeAtomic(s.filePath, []byte("[]")); err != nil {
		log.Error().Err(err).Str("file", s.filePath).Msg("Failed to create empty log store")
		return apperror.Wrap(apperror.StorageUnavailable, "failed to initialize log store", err)
	}
	log.Info().Str("file", s.filePath).Msg("Initialized empty log store")
	return nil
}

func (s *fileLogStore) LoadAll(ctx context.Context) ([]model.LogEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	elements, err := s.load()
	if errors.Is(err, fs.ErrNotExist) {
		log.Warn().Str("file", s.filePath).Msg("Log store not found, initializing empty collection")
		if err := s.EnsureInitialized(ctx); err != nil {
			return nil, err
		}
		return []model.LogEntry{}, nil
	}
	if err != nil {
		return nil, err
	}
	return s.decodeEntries(elements), nil
}

// load reads the document and returns its raw elements. A missing document is reported as
// fs.ErrNotExist; only a document that is not a JSON array is corrupt.
func (s *fileLogStore) load() ([]json.RawMessage, error) {
	data, err := afero.ReadFile(s.fs, s.filePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		log.Error().Err(err).Str("file", s.filePath).Msg("Failed to read log store")
		return nil, apperror.Wrap(apperror.StorageUnavailable, "failed to retrieve logs", err)
	}
	elements, err := decodeCollection(data)
	if err != nil {
		log.Error().Err(err).Str("file", s.filePath).Msg("Failed to unmarshal log store")
		return nil, apperror.Wrap(apperror.StorageUnavailable, "log store is corrupt", err)
	}
	return elements, nil
}

func decodeCollection(data []byte) ([]json.RawMessage, error) {
	elements := []json.RawMessage{}
	if len(bytes.TrimSpace(data)) == 0 {
		return elements, nil
	}
	if err := json.Unmarshal(data, &elements); err != nil {
		return nil, err
	}
	if elements == nil {
		elements = []json.RawMessage{}
	}
	return elements, nil
}

// decodeEntries turns raw elements into entries. Elements that are not objects are skipped on
// read but stay in the document.
func (s *fileLogStore) decodeEntries(elements []json.RawMessage) []model.LogEntry {
	entries := make([]model.LogEntry, 0, len(elements))
	for i, raw := range elements {
		entry, err := model.DecodeStoredEntry(raw)
		if err != nil {
			log.Warn().Err(err).Str("file", s.filePath).Int("index", i).Msg("Skipping unreadable stored log entry")
			continue
		}
		entries = append(entries, entry)
	}
	log.Debug().Str("file", s.filePath).Int("entries", len(entries)).Msg("Loaded log store")
	return entries
}

func (s *fileLogStore) Append(ctx context.Context, entry model.LogEntry) (model.LogEntry, error) {
	if err := ctx.Err(); err != nil {
		return model.LogEntry{}, err
	}
	entry = entry.Normalize(s.now())

	s.mu.Lock()
	defer s.mu.Unlock()

	elements, err := s.load()
	if errors.Is(err, fs.ErrNotExist) {
		if err := s.ensureInitializedLocked(); err != nil {
			return model.LogEntry{}, apperror.Wrap(apperror.StorageWriteFailed, "failed to add log", err)
		}
		elements = []json.RawMessage{}
	} else if err != nil {
		// Never overwrite a document we could not read.
		return model.LogEntry{}, err
	}

	encoded, err := json.Marshal(entry)
	if err != nil {
		return model.LogEntry{}, apperror.Wrap(apperror.StorageWriteFailed, "failed to add log", err)
	}
	// Existing elements are written back as stored, so legacy entries are never rewritten.
	elements = append(elements, encoded)
	data, err := json.MarshalIndent(elements, "", "  ")
	if err != nil {
		return model.LogEntry{}, apperror.Wrap(apperror.StorageWriteFailed, "failed to add log", err)
	}
	if err := s.writeAtomic(s.filePath, data); err != nil {
		log.Error().Err(err).Str("file", s.filePath).Msg("Failed to persist log store")
		return model.LogEntry{}, apperror.Wrap(apperror.StorageWriteFailed, "failed to add log", err)
	}
	log.Debug().Str("file", s.filePath).Int("entries", len(elements)).Msg("Appended log entry")
	return entry, nil
}

// writeAtomic writes data next to target and renames it into place.
func (s *fileLogStore) writeAtomic(target string, data []byte) error {
	tmp, err := afero.TempFile(s.fs, filepath.Dir(target), "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	cleanup := func() {
		_ = s.fs.Remove(tmpName)
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return err
	}
	if err := s.fs.Chmod(tmpName, filePerm); err != nil {
		cleanup()
		return err
	}
	if err := s.fs.Rename(tmpName, target); err != nil {
		log.Error().Err(err).Str("from", tmpName).Str("to", target).Msg("Failed to rename log store")
		cleanup()
		return err
	}
	return nil
}

func (s *fileLogStore) Snapshot(ctx context.Context, dir string, at time.Time) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := afero.ReadFile(s.fs, s.filePath)
	if errors.Is(err, fs.ErrNotExist) {
		data = []byte("[]")
	} else if err != nil {
		return "", apperror.Wrap(apperror.StorageUnavailable, "failed to read log store for snapshot", err)
	}
	if _, err := decodeCollection(data); err != nil {
		return "", apperror.Wrap(apperror.StorageUnavailable, "log store is corrupt", err)
	}

	if err := s.fs.MkdirAll(dir, dirPerm); err != nil {
		return "", apperror.Wrap(apperror.StorageWriteFailed, "failed to create snapshot directory", err)
	}
	target := filepath.Join(dir, snapshotPrefix+at.UTC().Format(snapshotLayout)+snapshotSuffix)
	if err := s.writeAtomic(target, data); err != nil {
		return "", apperror.Wrap(apperror.StorageWriteFailed, "failed to write snapshot", err)
	}
	log.Info().Str("file", target).Int("bytes", len(data)).Msg("Wrote log store snapshot")
	return target, nil
}

func (s *fileLogStore) PruneSnapshots(ctx context.Context, dir string, retain int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	infos, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, apperror.Wrap(apperror.StorageUnavailable, "failed to list snapshots", err)
	}

	var names []string
	for _, info := range infos {
		name := info.Name()
		if info.IsDir() || !strings.HasPrefix(name, snapshotPrefix) || !strings.HasSuffix(name, snapshotSuffix) {
			continue
		}
		names = append(names, name)
	}
	if retain < 0 {
		retain = 0
	}
	if len(names) <= retain {
		return nil, nil
	}

	// The timestamp layout sorts lexically in time order; newest first.
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	var removed []string
	for _, name := range names[retain:] {
		p := filepath.Join(dir, name)
		if err := s.fs.Remove(p); err != nil {
			log.Warn().Err(err).Str("file", p).Msg("Failed to remove old snapshot")
			continue
		}
		removed = append(removed, p)
	}
	return removed, nil
}
