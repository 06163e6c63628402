package internal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilter(t *testing.T) {
	tests := []struct {
		in      string
		want    Filter
		wantErr bool
	}{
		{"", FilterAll, false},
		{"all", FilterAll, false},
		{"Active", FilterActive, false},
		{" completed ", FilterCompleted, false},
		{"done", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFilter(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestFilterNextCycles(t *testing.T) {
	assert.Equal(t, FilterActive, FilterAll.Next())
	assert.Equal(t, FilterCompleted, FilterActive.Next())
	assert.Equal(t, FilterAll, FilterCompleted.Next())
	assert.Equal(t, FilterAll, Filter("bogus").Next())
}

func TestSortTodos(t *testing.T) {
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	todos := []Todo{
		{ID: "a", Created: base, Completed: true},
		{ID: "b", Created: base.Add(time.Minute)},
		{ID: "c", Created: base.Add(2 * time.Minute), Completed: true},
		{ID: "d", Created: base.Add(-time.Minute)},
	}

	SortTodos(todos)

	var ids []string
	for _, td := range todos {
		ids = append(ids, td.ID)
	}
	assert.Equal(t, []string{"d", "b", "a", "c"}, ids)
}

func TestFilterTodos(t *testing.T) {
	todos := []Todo{
		{ID: "1"},
		{ID: "2", Completed: true},
		{ID: "3"},
	}

	assert.Len(t, FilterTodos(todos, FilterAll), 3)
	assert.Len(t, FilterTodos(todos, FilterActive), 2)
	assert.Len(t, FilterTodos(todos, FilterCompleted), 1)
	assert.Equal(t, 2, CountActive(todos))
}

func TestSetCompleted(t *testing.T) {
	now := time.Now()
	td := NewTodo("  write report ", now)
	assert.Equal(t, "write report", td.Text)

	td.SetCompleted(true, now)
	require.NotNil(t, td.CompletedAt)
	assert.True(t, td.Completed)

	td.SetCompleted(false, now)
	assert.Nil(t, td.CompletedAt)
	assert.False(t, td.Completed)
}

func TestItemsLeftLabel(t *testing.T) {
	assert.Equal(t, "0 items left", ItemsLeftLabel(0))
	assert.Equal(t, "1 item left", ItemsLeftLabel(1))
	assert.Equal(t, "7 items left", ItemsLeftLabel(7))
}
