package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/julianstephens/remindme/internal/constants"
	"github.com/julianstephens/remindme/internal/logger"
)

// JSONStore keeps every key in a single JSON document that is rewritten on each Set.
// Values must themselves be valid JSON. The file is shared with other processes:
// Get and Set reread it whenever it was replaced since this store last read or wrote it.
type JSONStore struct {
	path string

	mu   sync.Mutex
	doc  map[string]json.RawMessage
	seen os.FileInfo // file state doc corresponds to
	subs subscribers
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{
		path: path,
	}
}

func (s *JSONStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = make(map[string]json.RawMessage)
	return s.save()
}

func (s *JSONStore) Load() error {
	doc, info, err := s.read()
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.doc, s.seen = doc, info
	s.mu.Unlock()
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

// read parses the file along with the state of the exact file it read.
func (s *JSONStore) read() (map[string]json.RawMessage, os.FileInfo, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("storage not initialized, run '%s init' first", constants.AppName)
		}
		return nil, nil, fmt.Errorf("failed to read storage: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read storage: %w", err)
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read storage: %w", err)
	}

	doc := make(map[string]json.RawMessage)
	if len(bytes.TrimSpace(data)) == 0 {
		return doc, info, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("failed to parse storage: %w", err)
	}
	for key, value := range doc {
		compacted, err := compactJSON(value)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse storage key %s: %w", key, err)
		}
		doc[key] = compacted
	}
	return doc, info, nil
}

// syncLocked rereads the file if another process replaced it and returns the keys
// whose values changed. A missing file keeps the in-memory document. Callers must hold s.mu.
func (s *JSONStore) syncLocked() (map[string]json.RawMessage, error) {
	info, err := os.Stat(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read storage: %w", err)
	}
	if s.seen != nil && os.SameFile(s.seen, info) &&
		info.ModTime().Equal(s.seen.ModTime()) && info.Size() == s.seen.Size() {
		return nil, nil
	}

	doc, info, err := s.read()
	if err != nil {
		return nil, err
	}
	changed := make(map[string]json.RawMessage)
	for key, value := range doc {
		if prev, ok := s.doc[key]; !ok || !bytes.Equal(prev, value) {
			changed[key] = value
		}
	}
	s.doc, s.seen = doc, info
	return changed, nil
}

func (s *JSONStore) notifyChanged(changed map[string]json.RawMessage) {
	for key, value := range changed {
		logger.Debug("Storage key changed externally", "key", key)
		s.subs.notify(key, value)
	}
}

// save writes the document through a temp file so watchers never observe a partial write.
// Callers must hold s.mu.
func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Chmod(tmpName, 0600); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write storage: %w", err)
	}

	// A failed stat only costs one extra reread on the next access.
	s.seen, _ = os.Stat(s.path)
	return nil
}

func (s *JSONStore) Get(key string) ([]byte, error) {
	s.mu.Lock()
	if s.doc == nil {
		s.mu.Unlock()
		return nil, ErrNotLoaded
	}
	changed, err := s.syncLocked()
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	value, ok := s.doc[key]
	value = bytes.Clone(value)
	s.mu.Unlock()

	s.notifyChanged(changed)
	if !ok {
		return nil, ErrNotFound
	}
	return value, nil
}

// Set merges key into the current file contents, so keys written by other
// processes since the last read survive.
func (s *JSONStore) Set(key string, value []byte) error {
	compacted, err := compactJSON(value)
	if err != nil {
		return fmt.Errorf("value for %s is not valid JSON: %w", key, err)
	}

	s.mu.Lock()
	if s.doc == nil {
		s.mu.Unlock()
		return ErrNotLoaded
	}
	changed, err := s.syncLocked()
	if err != nil {
		s.mu.Unlock()
		return err
	}
	prev, existed := s.doc[key]
	s.doc[key] = compacted
	if err := s.save(); err != nil {
		if existed {
			s.doc[key] = prev
		} else {
			delete(s.doc, key)
		}
		s.mu.Unlock()
		s.notifyChanged(changed)
		return err
	}
	delete(changed, key)
	s.mu.Unlock()

	s.notifyChanged(changed)
	s.subs.notify(key, compacted)
	return nil
}

func (s *JSONStore) Subscribe(key string, fn func([]byte)) func() {
	return s.subs.add(key, fn)
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}

// Watch reloads the document whenever another process replaces or writes the file,
// notifying subscribers of every key whose value changed.
func (s *JSONStore) Watch(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer w.Close()

	// Watch the directory: atomic replacement swaps the file's inode.
	if err := w.Add(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(s.path), err)
	}
	target := filepath.Clean(s.path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := s.reload(); err != nil {
				logger.Warn("Failed to reload storage after external change", "path", s.path, "error", err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Storage watcher error", "path", s.path, "error", err)
		}
	}
}

func (s *JSONStore) reload() error {
	s.mu.Lock()
	if s.doc == nil {
		s.mu.Unlock()
		return ErrNotLoaded
	}
	changed, err := s.syncLocked()
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.notifyChanged(changed)
	return nil
}

func compactJSON(value []byte) (json.RawMessage, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, value); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
