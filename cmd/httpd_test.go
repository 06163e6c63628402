package cmd

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tudu/internal"
)

func newTestServer(t *testing.T) (*httptest.Server, *internal.Store) {
	t.Helper()
	return newTestServerAt(t, filepath.Join(t.TempDir(), "todo.json"))
}

// newTestServerAt serves a store on the file at path.
func newTestServerAt(t *testing.T, path string) (*httptest.Server, *internal.Store) {
	t.Helper()
	backend := internal.NewFileBackend(path)
	store, err := internal.OpenStore(context.Background(), backend, nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := httptest.NewServer(NewServer(store, logger).Routes())
	t.Cleanup(srv.Close)
	return srv, store
}

func doRequest(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, r)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestAPITodosLifecycle(t *testing.T) {
	srv, store := newTestServer(t)

	resp := doRequest(t, "POST", srv.URL+"/api/todos", `{"text":"buy milk"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[internal.Todo](t, resp)
	assert.Equal(t, "buy milk", created.Text)
	assert.False(t, created.Completed)

	resp = doRequest(t, "POST", srv.URL+"/api/todos", `{"text":"   "}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doRequest(t, "POST", srv.URL+"/api/todos/"+created.ShortID()+"/toggle", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	toggled := decode[internal.Todo](t, resp)
	assert.True(t, toggled.Completed)

	resp = doRequest(t, "GET", srv.URL+"/api/todos?filter=active", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[[]internal.Todo](t, resp))

	resp = doRequest(t, "GET", srv.URL+"/api/todos?filter=completed", "")
	assert.Len(t, decode[[]internal.Todo](t, resp), 1)

	resp = doRequest(t, "DELETE", srv.URL+"/api/todos/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, store.Todos())

	resp = doRequest(t, "DELETE", srv.URL+"/api/todos/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPIClearCompleted(t *testing.T) {
	srv, store := newTestServer(t)
	ctx := context.Background()

	a, err := store.Add(ctx, "a")
	require.NoError(t, err)
	_, err = store.Add(ctx, "b")
	require.NoError(t, err)
	_, err = store.Toggle(ctx, a.ID)
	require.NoError(t, err)

	resp := doRequest(t, "DELETE", srv.URL+"/api/todos", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Len(t, store.Todos(), 2)

	resp = doRequest(t, "DELETE", srv.URL+"/api/todos?completed=true", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]int{"cleared": 1}, decode[map[string]int](t, resp))
	assert.Len(t, store.Todos(), 1)
}

func TestAPIFilter(t *testing.T) {
	srv, store := newTestServer(t)

	resp := doRequest(t, "GET", srv.URL+"/api/filter", "")
	assert.Equal(t, map[string]string{"filter": "all"}, decode[map[string]string](t, resp))

	resp = doRequest(t, "PUT", srv.URL+"/api/filter", `{"filter":"active"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, internal.FilterActive, store.Filter())

	resp = doRequest(t, "PUT", srv.URL+"/api/filter", `{"filter":"done"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, internal.FilterActive, store.Filter())
}

func TestAPILayout(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		query           string
		breakpoint      string
		containerHeight int
		scrollbar       bool
	}{
		// 4 rows of 88px; 5 items overflow 352px.
		{"width=1280&items=5", "large-desktop", 352, true},
		{"width=900&items=4", "desktop", 352, false},
		// 6 rows of 72px.
		{"width=600&items=7", "tablet", 432, true},
		// Mobile keeps the native scrollbar.
		{"width=375&items=20", "mobile", 330, false},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp := doRequest(t, "GET", srv.URL+"/api/layout?"+tt.query, "")
			require.Equal(t, http.StatusOK, resp.StatusCode)
			got := decode[listLayout](t, resp)
			assert.Equal(t, tt.breakpoint, got.Breakpoint)
			assert.Equal(t, tt.containerHeight, got.ContainerHeight)
			assert.Equal(t, tt.scrollbar, got.Scrollbar)
		})
	}

	resp := doRequest(t, "GET", srv.URL+"/api/layout?width=wide", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestIndexPage(t *testing.T) {
	srv, store := newTestServer(t)
	ctx := context.Background()
	for _, text := range []string{"**bold** move", "<script>x</script>plain", "three", "four", "five"} {
		_, err := store.Add(ctx, text)
		require.NoError(t, err)
	}

	resp := doRequest(t, "GET", srv.URL+"/?width=1280", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	page := string(body)

	assert.Contains(t, page, "<strong>bold</strong> move")
	assert.NotContains(t, page, "<script>x</script>")
	assert.Contains(t, page, `data-breakpoint="large-desktop"`)
	assert.Contains(t, page, "height: 352px")
	assert.Contains(t, page, `id="scrollbar-thumb"`)
	assert.Contains(t, page, "5 items left")

	resp = doRequest(t, "GET", srv.URL+"/?width=375", "")
	body, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotContains(t, string(body), `id="scrollbar-thumb"`, "mobile uses the native scrollbar")

	resp = doRequest(t, "GET", srv.URL+"/?filter=bogus", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestIndexPageFollowsBreakpoints(t *testing.T) {
	srv, store := newTestServer(t)
	ctx := context.Background()
	for i := 0; i < 8; i++ {
		_, err := store.Add(ctx, "item")
		require.NoError(t, err)
	}

	resp := doRequest(t, "GET", srv.URL+"/?width=600", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	page := string(body)

	assert.Contains(t, page, `data-breakpoint="tablet"`)
	// The script re-requests the page when a resize crosses one of these.
	assert.Contains(t, page, `data-large-desktop="1025"`)
	assert.Contains(t, page, `data-desktop="769"`)
	assert.Contains(t, page, `data-tablet="481"`)
	assert.Contains(t, page, `window.addEventListener("resize"`)

	// Dragging works for touch as well as the mouse.
	for _, event := range []string{"pointerdown", "pointermove", "pointerup", "pointercancel", "setPointerCapture"} {
		assert.Contains(t, page, event)
	}
	assert.NotContains(t, page, "mousedown")

	req := httptest.NewRequest("GET", "/static/style.css", nil)
	w := httptest.NewRecorder()
	styleHandler(w, req)
	assert.Contains(t, w.Body.String(), "touch-action: none")
}

func TestServerSeesChangesFromOtherStores(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "todo.json")
	srv, _ := newTestServerAt(t, path)

	cli, err := internal.OpenStore(ctx, internal.NewFileBackend(path), nil)
	require.NoError(t, err)
	defer cli.Close()

	added, err := cli.Add(ctx, "added from cli")
	require.NoError(t, err)

	resp := doRequest(t, "GET", srv.URL+"/api/todos", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	todos := decode[[]internal.Todo](t, resp)
	require.Len(t, todos, 1)
	assert.Equal(t, "added from cli", todos[0].Text)

	resp = doRequest(t, "GET", srv.URL+"/?width=1280", "")
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "added from cli")

	// Short ids resolve against the stored list too.
	resp = doRequest(t, "POST", srv.URL+"/api/todos/"+added.ShortID()+"/toggle", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, cli.SetFilter(ctx, internal.FilterCompleted))
	resp = doRequest(t, "GET", srv.URL+"/api/filter", "")
	assert.Equal(t, map[string]string{"filter": "completed"}, decode[map[string]string](t, resp))
}

func TestServerReloadFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todo.json")
	srv, _ := newTestServerAt(t, path)

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	resp := doRequest(t, "GET", srv.URL+"/api/todos", "")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestStyleHandler(t *testing.T) {
	req := httptest.NewRequest("GET", "/static/style.css", nil)
	w := httptest.NewRecorder()

	styleHandler(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/css" {
		t.Errorf("Expected Content-Type text/css, got %s", ct)
	}
	if !strings.Contains(w.Body.String(), ".scrollbar-thumb") {
		t.Error("CSS should style the scrollbar thumb")
	}
}

func TestRenderMarkdown(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"*em*", "<em>em</em>"},
		{"`code`", "<code>code</code>"},
	}
	for _, tt := range tests {
		if got := string(renderMarkdown(tt.in)); got != tt.want {
			t.Errorf("renderMarkdown(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
