package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// StoreKey names the persisted state, in the file envelope and in the
// SQLite kv table.
const StoreKey = "todo-store"

// State is everything the store persists.
type State struct {
	Todos  []Todo `json:"todos"`
	Filter Filter `json:"filterOption"`
}

func (s State) clone() State {
	out := State{Filter: s.Filter}
	if s.Todos != nil {
		out.Todos = make([]Todo, len(s.Todos))
		copy(out.Todos, s.Todos)
	}
	return out
}

// Backend persists State. Update runs fn on the freshest stored state and
// saves the result atomically with respect to other processes.
type Backend interface {
	Load(ctx context.Context) (State, error)
	Update(ctx context.Context, fn func(*State) error) (State, error)
	Close() error
}

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// OpenBackend opens the backend named kind at path.
func OpenBackend(ctx context.Context, kind, path string) (Backend, error) {
	switch kind {
	case "", BackendFile:
		return NewFileBackend(path), nil
	case BackendSQLite:
		return OpenSQLiteBackend(ctx, path)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", kind)
	}
}

// DefaultStorePath is $TUDU_FILE, or ~/.tudu.json (~/.tudu.db for SQLite).
func DefaultStorePath(kind string) string {
	if path := os.Getenv("TUDU_FILE"); path != "" {
		return filepath.Clean(path)
	}
	name := ".tudu.json"
	if kind == BackendSQLite {
		name = ".tudu.db"
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(home, name)
}

type fileEnvelope struct {
	Name    string `json:"name"`
	Version int    `json:"version"`
	State   State  `json:"state"`
}

// FileBackend keeps State as JSON in a single file, guarded by a sibling
// lock file.
type FileBackend struct {
	Path string
	lock *flock.Flock
}

func NewFileBackend(path string) *FileBackend {
	return &FileBackend{
		Path: path,
		lock: flock.New(path + ".lock"),
	}
}

func (b *FileBackend) Load(ctx context.Context) (State, error) {
	if err := b.acquire(ctx, false); err != nil {
		return State{}, err
	}
	defer b.lock.Unlock()
	return b.read()
}

func (b *FileBackend) Update(ctx context.Context, fn func(*State) error) (State, error) {
	if err := b.acquire(ctx, true); err != nil {
		return State{}, err
	}
	defer b.lock.Unlock()

	state, err := b.read()
	if err != nil {
		return State{}, err
	}
	if err := fn(&state); err != nil {
		return State{}, err
	}
	if err := b.write(state); err != nil {
		return State{}, err
	}
	return state, nil
}

func (b *FileBackend) Close() error {
	return b.lock.Close()
}

func (b *FileBackend) acquire(ctx context.Context, exclusive bool) error {
	if err := os.MkdirAll(filepath.Dir(b.Path), 0o755); err != nil {
		return err
	}
	var (
		ok  bool
		err error
	)
	if exclusive {
		ok, err = b.lock.TryLockContext(ctx, 25*time.Millisecond)
	} else {
		ok, err = b.lock.TryRLockContext(ctx, 25*time.Millisecond)
	}
	if err != nil {
		return fmt.Errorf("lock %s: %w", b.lock.Path(), err)
	}
	if !ok {
		return fmt.Errorf("lock %s: not acquired", b.lock.Path())
	}
	return nil
}

func (b *FileBackend) read() (State, error) {
	data, err := os.ReadFile(b.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return State{Filter: FilterAll}, nil
		}
		return State{}, err
	}
	if len(data) == 0 {
		return State{Filter: FilterAll}, nil
	}

	var env fileEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return State{}, fmt.Errorf("parse %s: %w", b.Path, err)
	}
	if env.State.Filter == "" {
		env.State.Filter = FilterAll
	}
	return env.State, nil
}

func (b *FileBackend) write(state State) error {
	data, err := json.MarshalIndent(fileEnvelope{Name: StoreKey, State: state}, "", "  ")
	if err != nil {
		return err
	}

	tempFile, err := os.CreateTemp(filepath.Dir(b.Path), ".tudu-*.tmp")
	if err != nil {
		return err
	}
	tempPath := tempFile.Name()

	defer func() {
		tempFile.Close()
		os.Remove(tempPath)
	}()

	if _, err := tempFile.Write(data); err != nil {
		return err
	}
	if err := tempFile.Sync(); err != nil {
		return err
	}
	if err := tempFile.Close(); err != nil {
		return err
	}
	return os.Rename(tempPath, b.Path)
}
