package cli

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cellgraph/pkg/buildinfo"
	"github.com/matzehuels/cellgraph/pkg/errors"
	"github.com/matzehuels/cellgraph/pkg/formula"
	"github.com/matzehuels/cellgraph/pkg/history"
	pkgio "github.com/matzehuels/cellgraph/pkg/io"
	"github.com/matzehuels/cellgraph/pkg/observability"
	"github.com/matzehuels/cellgraph/pkg/render/nodelink"
	"github.com/matzehuels/cellgraph/pkg/spreadsheet"
)

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		autosave bool
	)

	cmd := &cobra.Command{
		Use:   "serve FILE",
		Short: "Serve a sheet over an HTTP JSON API",
		Long: `Serve a sheet over HTTP.

Routes:
  GET    /cells           all non-empty cells
  GET    /cells/{name}    one cell
  PUT    /cells/{name}    set a cell from {"contents": "..."}
  DELETE /cells/{name}    clear a cell
  POST   /undo, /redo     undo or redo the last edit
  POST   /save            write the sheet back to FILE
  GET    /graph           dependency graph (?format=dot|svg&detailed=true)
  GET    /metrics         Prometheus metrics

The file is created on the first save if it does not exist.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.Config.Server.Addr
			}
			return c.runServe(cmd.Context(), args[0], addr, autosave)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, 127.0.0.1:8080)")
	cmd.Flags().BoolVar(&autosave, "autosave", false, "save the sheet after every successful edit")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, path, addr string, autosave bool) error {
	s, err := c.openSheet(path, true)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	metrics := newServerMetrics(logHooks{logger: c.Logger})
	metrics.MustRegister(registry)
	metrics.install()

	srv := newServer(s, path)
	srv.autosave = autosave
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.routes(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "listen on %s", addr)
	}
	printSuccess("Serving %s", path)
	printDetail("http://%s", ln.Addr())

	errCh := make(chan error, 1)
	go func() { errCh <- httpServer.Serve(ln) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if srv.changed() {
		printWarning("Stopped with unsaved changes")
	}
	return ctx.Err()
}

// =============================================================================
// Server
// =============================================================================

// server serializes API access to one sheet and its edit history.
type server struct {
	mu       sync.Mutex
	sheet    *spreadsheet.Spreadsheet
	history  *history.History
	path     string
	autosave bool
}

func newServer(s *spreadsheet.Spreadsheet, path string) *server {
	return &server{sheet: s, history: history.New(), path: path}
}

func (s *server) changed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sheet.Changed()
}

// routes builds the router. metrics, if non-nil, is mounted at /metrics.
func (s *server) routes(metrics http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observeRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "version": buildinfo.Version})
	})
	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics)
	}

	r.Route("/cells", func(r chi.Router) {
		r.Get("/", s.handleListCells)
		r.Get("/{name}", s.handleGetCell)
		r.Put("/{name}", s.handleSetCell)
		r.Delete("/{name}", s.handleClearCell)
	})
	r.Post("/undo", s.handleHistory((*history.History).Undo))
	r.Post("/redo", s.handleHistory((*history.History).Redo))
	r.Post("/save", s.handleSave)
	r.Get("/graph", s.handleGraph)

	return r
}

// observeRequests reports every request to the HTTP observability hooks.
func observeRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		observability.HTTP().OnRequest(r.Context(), r.Method, r.URL.Path)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		observability.HTTP().OnResponse(r.Context(), r.Method, r.URL.Path, status, time.Since(start))
	})
}

// =============================================================================
// Handlers
// =============================================================================

// cellJSON is the API representation of a cell.
type cellJSON struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Contents string `json:"contents"`
	Value    any    `json:"value"`
	Error    string `json:"error,omitempty"`
}

func toCellJSON(s *spreadsheet.Spreadsheet, name string) (cellJSON, error) {
	contents, err := s.CellContents(name)
	if err != nil {
		return cellJSON{}, err
	}
	value, _ := s.CellValue(name)
	normalized, _ := s.Normalize(name)

	out := cellJSON{Name: normalized, Kind: contents.Kind.String(), Contents: contents.String()}
	switch value.Kind {
	case spreadsheet.KindNumber:
		// JSON has no Inf or NaN; those are sent as their display string.
		if math.IsInf(value.Number, 0) || math.IsNaN(value.Number) {
			out.Value = formula.FormatNumber(value.Number)
		} else {
			out.Value = value.Number
		}
	case spreadsheet.KindText:
		out.Value = value.Text
	case spreadsheet.KindError:
		out.Error = value.Err.Reason
	}
	return out, nil
}

// editResponse reports the cells recomputed by an edit.
type editResponse struct {
	Affected []string   `json:"affected"`
	Cells    []cellJSON `json:"cells"`
	Saved    bool       `json:"saved"`
}

func (s *server) handleListCells(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := s.sheet.NonemptyCells()
	cells := make([]cellJSON, 0, len(names))
	for _, name := range names {
		cell, _ := toCellJSON(s.sheet, name)
		cells = append(cells, cell)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"version": s.sheet.Version(),
		"changed": s.sheet.Changed(),
		"cells":   cells,
	})
}

func (s *server) handleGetCell(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cell, err := toCellJSON(s.sheet, chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cell)
}

func (s *server) handleSetCell(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Contents *string `json:"contents"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body"))
		return
	}
	if body.Contents == nil {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "request body needs a contents field"))
		return
	}
	s.edit(w, chi.URLParam(r, "name"), *body.Contents)
}

func (s *server) handleClearCell(w http.ResponseWriter, r *http.Request) {
	s.edit(w, chi.URLParam(r, "name"), "")
}

func (s *server) edit(w http.ResponseWriter, name, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	affected, err := s.history.Edit(s.sheet, name, text)
	if err != nil {
		writeError(w, err)
		return
	}
	s.respondEdit(w, affected)
}

func (s *server) handleHistory(op func(*history.History, spreadsheet.Sheet) ([]string, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()

		affected, err := op(s.history, s.sheet)
		if err != nil {
			writeError(w, err)
			return
		}
		s.respondEdit(w, affected)
	}
}

// respondEdit writes the affected cells, saving first with autosave. It must
// be called with s.mu held.
func (s *server) respondEdit(w http.ResponseWriter, affected []string) {
	resp := editResponse{Affected: affected, Cells: make([]cellJSON, 0, len(affected))}
	for _, name := range affected {
		cell, _ := toCellJSON(s.sheet, name)
		resp.Cells = append(resp.Cells, cell)
	}
	if s.autosave {
		if err := pkgio.ExportJSON(s.sheet, s.path); err != nil {
			writeError(w, err)
			return
		}
		resp.Saved = true
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleSave(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := pkgio.ExportJSON(s.sheet, s.path); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"saved": true, "path": s.path})
}

func (s *server) handleGraph(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "svg"
	}
	if format != "dot" && format != "svg" {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "unsupported graph format %q (want dot or svg)", format))
		return
	}
	detailed, _ := strconv.ParseBool(r.URL.Query().Get("detailed"))

	s.mu.Lock()
	d := nodelink.Build(s.sheet, nodelink.Options{Detailed: detailed})
	s.mu.Unlock()

	data, err := nodelink.Render(r.Context(), d, format)
	if err != nil {
		writeError(w, err)
		return
	}
	contentType := "text/vnd.graphviz; charset=utf-8"
	if format == "svg" {
		contentType = "image/svg+xml"
	}
	w.Header().Set("Content-Type", contentType)
	_, _ = w.Write(data)
}

// =============================================================================
// Responses
// =============================================================================

// statusCode maps an error to the HTTP status reported for it.
func statusCode(err error) int {
	switch {
	case errors.Has(err, errors.ErrCodeInvalidName),
		errors.Has(err, errors.ErrCodeInvalidFormula),
		errors.Has(err, errors.ErrCodeInvalidInput):
		return http.StatusBadRequest
	case errors.Has(err, errors.ErrCodeCircular),
		stderrors.Is(err, history.ErrNothingToUndo),
		stderrors.Is(err, history.ErrNothingToRedo):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// writeJSON encodes payload before writing the header, so an encoding
// failure is reported as a 500 instead of an empty 200 body.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"error": "encode response: " + err.Error(),
			"code":  string(errors.ErrCodeInternal),
		})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func writeError(w http.ResponseWriter, err error) {
	body := map[string]any{"error": errors.UserMessage(err)}
	if code := errors.GetCode(err); code != "" {
		body["code"] = code
	}
	writeJSON(w, statusCode(err), body)
}
