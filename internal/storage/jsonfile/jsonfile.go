// Package jsonfile persists the store snapshot as a single UTF-8 JSON document.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
	"tourneybot/entity"
	"tourneybot/lib/sl"
)

const DefaultFileName = "tournament_data.json"

type Store struct {
	path string
	mu   sync.Mutex
	log  *slog.Logger
}

func New(path string, log *slog.Logger) *Store {
	if path == "" {
		path = DefaultFileName
	}
	return &Store{
		path: path,
		log:  log.With(sl.Module("jsonfile"), slog.String("path", path)),
	}
}

func (s *Store) Path() string {
	return s.path
}

// Load returns nil, nil when the file does not exist. A file that cannot be
// decoded is renamed to <name>.corrupt-<timestamp> so the next save does not
// overwrite the evidence.
func (s *Store) Load(_ context.Context) (*entity.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var snapshot entity.Snapshot
	if err = json.Unmarshal(data, &snapshot); err != nil {
		s.quarantine()
		return nil, fmt.Errorf("decoding %s: %w", s.path, err)
	}
	snapshot.Normalize()
	return &snapshot, nil
}

// Save writes to a temp file in the same directory and renames it over the
// target, so a crash never leaves a truncated document behind.
func (s *Store) Save(_ context.Context, snapshot *entity.Snapshot) error {
	data, err := Encode(snapshot)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err = os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replacing %s: %w", s.path, err)
	}
	return nil
}

// Encode renders a snapshot the way it is stored on disk: indented, with
// non-ASCII text and HTML characters left unescaped.
func Encode(snapshot *entity.Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snapshot); err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *Store) quarantine() {
	target := fmt.Sprintf("%s.corrupt-%s", s.path, time.Now().UTC().Format("20060102T150405"))
	if err := os.Rename(s.path, target); err != nil {
		s.log.Error("preserving corrupt state file", sl.Err(err))
		return
	}
	s.log.With(slog.String("moved_to", target)).Warn("corrupt state file preserved")
}
