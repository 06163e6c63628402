package internal

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// TrashedTodo is a removed todo and when it went.
type TrashedTodo struct {
	Todo
	DeletedAt time.Time `json:"deletedAt"`
}

// Trash keeps removed todos as JSON lines, newest last.
type Trash struct {
	Path string
	lock *flock.Flock
}

func NewTrash(path string) *Trash {
	return &Trash{
		Path: path,
		lock: flock.New(path + ".lock"),
	}
}

// TrashPath is $TUDU_TRASH_FILE, or a .trash file next to the store.
func TrashPath(storePath string) string {
	if path := os.Getenv("TUDU_TRASH_FILE"); path != "" {
		return filepath.Clean(path)
	}
	return storePath + ".trash"
}

// Append adds todos to the trash, stamped with now.
func (t *Trash) Append(ctx context.Context, todos []Todo, now time.Time) error {
	if len(todos) == 0 {
		return nil
	}
	if err := t.acquire(ctx, true); err != nil {
		return err
	}
	defer t.lock.Unlock()

	all, err := t.read()
	if err != nil {
		return err
	}
	for _, todo := range todos {
		all = append(all, TrashedTodo{Todo: todo, DeletedAt: now})
	}
	return t.write(all)
}

// Load returns everything in the trash.
func (t *Trash) Load(ctx context.Context) ([]TrashedTodo, error) {
	if err := t.acquire(ctx, false); err != nil {
		return nil, err
	}
	defer t.lock.Unlock()
	return t.read()
}

func (t *Trash) Close() error {
	return t.lock.Close()
}

func (t *Trash) acquire(ctx context.Context, exclusive bool) error {
	if err := os.MkdirAll(filepath.Dir(t.Path), 0o755); err != nil {
		return err
	}
	var (
		ok  bool
		err error
	)
	if exclusive {
		ok, err = t.lock.TryLockContext(ctx, 25*time.Millisecond)
	} else {
		ok, err = t.lock.TryRLockContext(ctx, 25*time.Millisecond)
	}
	if err != nil {
		return fmt.Errorf("lock %s: %w", t.lock.Path(), err)
	}
	if !ok {
		return fmt.Errorf("lock %s: not acquired", t.lock.Path())
	}
	return nil
}

func (t *Trash) read() ([]TrashedTodo, error) {
	file, err := os.Open(t.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	var out []TrashedTodo
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var item TrashedTodo
		// Unreadable lines are skipped.
		if err := json.Unmarshal(line, &item); err != nil {
			continue
		}
		out = append(out, item)
	}
	return out, scanner.Err()
}

func (t *Trash) write(items []TrashedTodo) error {
	tempFile, err := os.CreateTemp(filepath.Dir(t.Path), ".trash-*.tmp")
	if err != nil {
		return err
	}
	tempPath := tempFile.Name()

	defer func() {
		tempFile.Close()
		os.Remove(tempPath)
	}()

	writer := bufio.NewWriter(tempFile)
	for _, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			return err
		}
		if _, err := writer.Write(data); err != nil {
			return err
		}
		if err := writer.WriteByte('\n'); err != nil {
			return err
		}
	}
	if err := writer.Flush(); err != nil {
		return err
	}
	if err := tempFile.Sync(); err != nil {
		return err
	}
	if err := tempFile.Close(); err != nil {
		return err
	}
	return os.Rename(tempPath, t.Path)
}
