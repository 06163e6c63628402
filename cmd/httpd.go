package cmd

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/russross/blackfriday/v2"
	"github.com/spf13/cobra"

	"tudu/internal"
	"tudu/internal/breakpoint"
	"tudu/internal/layout"
	"tudu/internal/scrollbar"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static/style.css
var cssStyles []byte

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"markdown": renderMarkdown,
}).ParseFS(templatesFS, "templates/*.html"))

// renderMarkdown renders a todo's text as inline markdown. Raw HTML in the
// text is dropped.
func renderMarkdown(text string) template.HTML {
	renderer := blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
		Flags: blackfriday.SkipHTML | blackfriday.Safelink | blackfriday.HrefTargetBlank,
	})
	output := blackfriday.Run([]byte(text),
		blackfriday.WithRenderer(renderer),
		blackfriday.WithExtensions(blackfriday.CommonExtensions),
	)
	html := strings.TrimSpace(string(output))
	html = strings.TrimPrefix(html, "<p>")
	html = strings.TrimSuffix(html, "</p>")
	return template.HTML(html)
}

func newHttpdCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "httpd [addr]",
		Short: "Serve the todo list over HTTP",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr := app.config.Httpd.Addr
			if len(args) > 0 {
				addr = args[0]
			}

			logger := app.newLogger(cmd.ErrOrStderr())
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			store, err := app.openStore(ctx, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "Starting HTTP server on http://%s\n", addr)
			fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl+C to stop")
			return serve(ctx, addr, NewServer(store, logger).Routes(), logger)
		},
	}
}

func serve(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Server exposes a Store over HTTP. List sizing follows the browser
// breakpoints.
type Server struct {
	store      *internal.Store
	logger     *slog.Logger
	thresholds breakpoint.Thresholds
	table      layout.Table
}

func NewServer(store *internal.Store, logger *slog.Logger) *Server {
	return &Server{
		store:      store,
		logger:     logger,
		thresholds: breakpoint.WebThresholds,
		table:      layout.WebTable,
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/static/style.css", styleHandler)

	r.Group(func(r chi.Router) {
		r.Use(s.reload)

		r.Get("/", s.indexHandler)
		r.Route("/api", func(r chi.Router) {
			r.Get("/todos", s.apiListHandler)
			r.Post("/todos", s.apiAddHandler)
			r.Delete("/todos", s.apiClearHandler)
			r.Post("/todos/{id}/toggle", s.apiToggleHandler)
			r.Delete("/todos/{id}", s.apiDeleteHandler)
			r.Get("/filter", s.apiGetFilterHandler)
			r.Put("/filter", s.apiSetFilterHandler)
			r.Get("/layout", s.apiLayoutHandler)
		})
	})
	return r
}

// reload picks up changes other processes made to the store before the
// request reads it.
func (s *Server) reload(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := s.store.Reload(r.Context()); err != nil {
			s.logger.Error("reload store", "err", err)
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// listLayout is the list sizing for one viewport width and item count.
type listLayout struct {
	Breakpoint      string        `json:"breakpoint"`
	Policy          layout.Policy `json:"policy"`
	ContainerHeight int           `json:"containerHeight"`
	ContentHeight   int           `json:"contentHeight"`
	Scrollbar       bool          `json:"scrollbar"`
}

func (s *Server) layoutFor(width, items int) listLayout {
	bp, _ := s.thresholds.Classify(width)
	p := s.table.For(bp)
	return listLayout{
		Breakpoint:      bp.String(),
		Policy:          p,
		ContainerHeight: p.ContainerHeight(),
		ContentHeight:   p.ContentHeight(items),
		Scrollbar:       p.ScrollbarVisible(items),
	}
}

type pageData struct {
	Title      string
	Todos      []internal.Todo
	Filter     internal.Filter
	Filters    []internal.Filter
	ItemsLeft  string
	Total      int
	Width      int
	Thresholds breakpoint.Thresholds
	Layout     listLayout
	Thumb      scrollbar.ThumbGeometry
	MinThumb   float64
}

func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	filter := s.store.Filter()
	if q := r.URL.Query().Get("filter"); q != "" {
		f, err := internal.ParseFilter(q)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		filter = f
	}
	width, err := intParam(r, "width")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	todos := s.store.VisibleWith(filter)
	lay := s.layoutFor(width, len(todos))

	// The page opens scrolled to the top; the script keeps the thumb in
	// step from there.
	geom := scrollbar.NewScrollGeometry(0, float64(lay.ContentHeight), float64(lay.ContainerHeight))
	thumb := scrollbar.ComputeThumbGeometry(geom, float64(lay.ContainerHeight), scrollbar.DefaultMinThumbHeight)

	data := pageData{
		Title:      "tudu",
		Todos:      todos,
		Filter:     filter,
		Filters:    internal.GetAllFilters(),
		ItemsLeft:  internal.ItemsLeftLabel(s.store.ItemsLeft()),
		Total:      len(s.store.Todos()),
		Width:      width,
		Thresholds: s.thresholds,
		Layout:     lay,
		Thumb:      thumb,
		MinThumb:   scrollbar.DefaultMinThumbHeight,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.ExecuteTemplate(w, "index.html", data); err != nil {
		s.logger.Error("render index", "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) apiListHandler(w http.ResponseWriter, r *http.Request) {
	filter := s.store.Filter()
	if q := r.URL.Query().Get("filter"); q != "" {
		f, err := internal.ParseFilter(q)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		filter = f
	}
	todos := s.store.VisibleWith(filter)
	if todos == nil {
		todos = []internal.Todo{}
	}
	writeJSON(w, http.StatusOK, todos)
}

func (s *Server) apiAddHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	todo, err := s.store.Add(r.Context(), req.Text)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, todo)
}

func (s *Server) apiToggleHandler(w http.ResponseWriter, r *http.Request) {
	todo, err := s.store.Find(chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	todo, err = s.store.Toggle(r.Context(), todo.ID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, todo)
}

func (s *Server) apiDeleteHandler(w http.ResponseWriter, r *http.Request) {
	todo, err := s.store.Find(chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if err := s.store.Delete(r.Context(), todo.ID); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) apiClearHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("completed") != "true" {
		writeError(w, http.StatusBadRequest, errors.New("only ?completed=true is supported"))
		return
	}
	n, err := s.store.ClearCompleted(r.Context())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"cleared": n})
}

func (s *Server) apiGetFilterHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]internal.Filter{"filter": s.store.Filter()})
}

func (s *Server) apiSetFilterHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Filter string `json:"filter"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	f, err := internal.ParseFilter(req.Filter)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.store.SetFilter(r.Context(), f); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]internal.Filter{"filter": f})
}

func (s *Server) apiLayoutHandler(w http.ResponseWriter, r *http.Request) {
	width, err := intParam(r, "width")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	items, err := intParam(r, "items")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if r.URL.Query().Get("items") == "" {
		items = len(s.store.VisibleWith(s.store.Filter()))
	}
	writeJSON(w, http.StatusOK, s.layoutFor(width, items))
}

func styleHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/css")
	w.Write(cssStyles)
}

// intParam reads a non-negative integer query parameter; absent is 0.
func intParam(r *http.Request, name string) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s %q", name, v)
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, internal.ErrNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, internal.ErrEmptyText), errors.Is(err, internal.ErrAmbiguousID):
		writeError(w, http.StatusBadRequest, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}
