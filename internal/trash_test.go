package internal

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrashAppend(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "trash")
	trash := NewTrash(path)
	defer trash.Close()

	items, err := trash.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, trash.Append(ctx, []Todo{{ID: "1", Text: "one"}}, now))
	require.NoError(t, trash.Append(ctx, []Todo{{ID: "2", Text: "two"}, {ID: "3", Text: "three"}}, now))
	require.NoError(t, trash.Append(ctx, nil, now))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("trash has %d lines, want 3:\n%s", len(lines), data)
	}
	assert.Contains(t, lines[0], `"text":"one"`)
	assert.Contains(t, lines[0], `"deletedAt":"2025-01-02T03:04:05Z"`)

	items, err = trash.Load(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "three", items[2].Text)
	assert.True(t, now.Equal(items[2].DeletedAt))
}

func TestTrashSkipsUnreadableLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trash")
	require.NoError(t, os.WriteFile(path, []byte("{broken\n\n{\"id\":\"ok\",\"text\":\"fine\"}\n"), 0o644))

	trash := NewTrash(path)
	defer trash.Close()

	items, err := trash.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "fine", items[0].Text)
}

func TestTrashPath(t *testing.T) {
	t.Setenv("TUDU_TRASH_FILE", "")
	assert.Equal(t, "/tmp/todo.json.trash", TrashPath("/tmp/todo.json"))

	t.Setenv("TUDU_TRASH_FILE", "/tmp/x/../removed.jsonl")
	assert.Equal(t, "/tmp/removed.jsonl", TrashPath("/tmp/todo.json"))
}
