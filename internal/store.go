package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"
)

var (
	ErrNotFound    = errors.New("todo not found")
	ErrAmbiguousID = errors.New("todo id is ambiguous")
	ErrEmptyText   = errors.New("todo text is empty")
)

// Store holds the todo list and the filter selection, persists every change
// through a Backend and notifies subscribers after each one.
//
// Store is safe for concurrent use. Subscribers are called without the
// store's lock held.
type Store struct {
	backend Backend
	trash   *Trash
	logger  *slog.Logger
	now     func() time.Time

	mu      sync.Mutex
	state   State
	subs    map[int]func()
	nextSub int
}

// OpenStore loads the current state from backend.
func OpenStore(ctx context.Context, backend Backend, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Store{
		backend: backend,
		logger:  logger,
		now:     time.Now,
		subs:    make(map[int]func()),
	}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// UseTrash makes Delete and ClearCompleted move removed todos to t.
func (s *Store) UseTrash(t *Trash) {
	s.mu.Lock()
	s.trash = t
	s.mu.Unlock()
}

// Close closes the backend and the trash.
func (s *Store) Close() error {
	err := s.backend.Close()
	if s.trash != nil {
		err = errors.Join(err, s.trash.Close())
	}
	return err
}

// Subscribe registers fn to run after every change and returns a function
// that removes it.
func (s *Store) Subscribe(fn func()) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSub++
	id := s.nextSub
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Reload replaces the in-memory state with the stored one.
func (s *Store) Reload(ctx context.Context) error {
	state, err := s.backend.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load todos: %w", err)
	}
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
	s.notify()
	return nil
}

// Add appends a todo. Surrounding whitespace is trimmed; blank text is
// rejected with ErrEmptyText.
func (s *Store) Add(ctx context.Context, text string) (Todo, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Todo{}, ErrEmptyText
	}
	todo := NewTodo(text, s.now())
	err := s.update(ctx, "add", func(st *State) error {
		st.Todos = append(st.Todos, *todo)
		return nil
	})
	if err != nil {
		return Todo{}, err
	}
	return *todo, nil
}

// Toggle flips the completion of the todo with the given id.
func (s *Store) Toggle(ctx context.Context, id string) (Todo, error) {
	var out Todo
	err := s.update(ctx, "toggle", func(st *State) error {
		for i := range st.Todos {
			if st.Todos[i].ID == id {
				st.Todos[i].SetCompleted(!st.Todos[i].Completed, s.now())
				out = st.Todos[i]
				return nil
			}
		}
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	})
	return out, err
}

// Delete removes the todo with the given id.
func (s *Store) Delete(ctx context.Context, id string) error {
	var removed []Todo
	err := s.update(ctx, "delete", func(st *State) error {
		removed = nil
		for i := range st.Todos {
			if st.Todos[i].ID == id {
				removed = append(removed, st.Todos[i])
				st.Todos = append(st.Todos[:i], st.Todos[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	})
	if err != nil {
		return err
	}
	s.moveToTrash(ctx, removed)
	return nil
}

// ClearCompleted removes every completed todo and returns how many went.
func (s *Store) ClearCompleted(ctx context.Context) (int, error) {
	var removed []Todo
	err := s.update(ctx, "clear completed", func(st *State) error {
		removed = nil
		kept := make([]Todo, 0, len(st.Todos))
		for _, t := range st.Todos {
			if t.Completed {
				removed = append(removed, t)
				continue
			}
			kept = append(kept, t)
		}
		st.Todos = kept
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.moveToTrash(ctx, removed)
	return len(removed), nil
}

// moveToTrash records removed todos. The removal itself has already been
// saved, so a failure here is only logged.
func (s *Store) moveToTrash(ctx context.Context, removed []Todo) {
	s.mu.Lock()
	trash := s.trash
	s.mu.Unlock()
	if trash == nil || len(removed) == 0 {
		return
	}
	if err := trash.Append(ctx, removed, s.now()); err != nil {
		s.logger.Warn("failed to save to trash", "path", trash.Path, "err", err)
	}
}

// SetFilter changes the filter selection.
func (s *Store) SetFilter(ctx context.Context, f Filter) error {
	f, err := ParseFilter(string(f))
	if err != nil {
		return err
	}
	return s.update(ctx, "set filter", func(st *State) error {
		st.Filter = f
		return nil
	})
}

// Todos returns the todos in insertion order.
func (s *Store) Todos() []Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone().Todos
}

func (s *Store) Filter() Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Filter
}

// Sorted returns all todos, active first.
func (s *Store) Sorted() []Todo {
	todos := s.Todos()
	SortTodos(todos)
	return todos
}

// Visible returns the sorted todos that pass the current filter.
func (s *Store) Visible() []Todo {
	return s.VisibleWith(s.Filter())
}

// VisibleWith returns the sorted todos that pass f.
func (s *Store) VisibleWith(f Filter) []Todo {
	return FilterTodos(s.Sorted(), f)
}

// ItemsLeft counts todos that are not completed, whatever the filter.
func (s *Store) ItemsLeft() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return CountActive(s.state.Todos)
}

// Find looks a todo up by full id or unique id prefix.
func (s *Store) Find(ref string) (Todo, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Todo{}, ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var match *Todo
	for i := range s.state.Todos {
		t := &s.state.Todos[i]
		if t.ID == ref {
			return *t, nil
		}
		if strings.HasPrefix(t.ID, ref) {
			if match != nil {
				return Todo{}, fmt.Errorf("%w: %s", ErrAmbiguousID, ref)
			}
			match = t
		}
	}
	if match == nil {
		return Todo{}, fmt.Errorf("%w: %s", ErrNotFound, ref)
	}
	return *match, nil
}

func (s *Store) update(ctx context.Context, op string, fn func(*State) error) error {
	s.mu.Lock()
	state, err := s.backend.Update(ctx, fn)
	if err != nil {
		s.mu.Unlock()
		s.logger.Debug("store update failed", "op", op, "err", err)
		return err
	}
	s.state = state
	s.mu.Unlock()

	s.logger.Debug("store updated", "op", op, "todos", len(state.Todos))
	s.notify()
	return nil
}

func (s *Store) notify() {
	s.mu.Lock()
	subs := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn()
	}
}
