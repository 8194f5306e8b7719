// Package server exposes the caption pipeline over HTTP.
//
// Routes:
//   - POST /v1/caption: multipart form with an "image" file, option fields named
//     like the config keys and an optional "data" JSON object for ${path}
//     placeholders; responds with the captioned PNG.
//   - GET /v1/node: parameter metadata (names, defaults, ranges, choices).
//   - GET /healthz: liveness probe.
//
// Every response carries an X-Request-ID header.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/ByLCY/snaptext/config"
	"github.com/ByLCY/snaptext/frame"
	"github.com/ByLCY/snaptext/layout"
	"github.com/ByLCY/snaptext/logging"
	"github.com/ByLCY/snaptext/overlay"
)

// RequestIDHeader is echoed back when the client sends one, generated otherwise.
const RequestIDHeader = "X-Request-ID"

// DefaultMaxUpload bounds the multipart body size.
const DefaultMaxUpload = 32 << 20

// Server renders captions for HTTP clients. Per-request options start from
// Defaults; form fields override them.
type Server struct {
	Defaults  config.Options
	Fonts     overlay.FontSource
	Logger    *log.Logger
	MaxUpload int64

	mu        sync.Mutex
	renderers map[string]*overlay.Compositor
}

// New creates a server. A nil logger falls back to log.Default().
func New(defaults config.Options, fonts overlay.FontSource, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		Defaults:  defaults,
		Fonts:     fonts,
		Logger:    logger,
		MaxUpload: DefaultMaxUpload,
		renderers: map[string]*overlay.Compositor{},
	}
}

// Handler returns the chi router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	r.Route("/v1", func(r chi.Router) {
		r.Get("/node", s.handleNode)
		r.Post("/caption", s.handleCaption)
	})
	return r
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.Logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		logger := s.Logger.With("request_id", id)
		logger.Debug("request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r.WithContext(logging.WithLogger(r.Context(), logger)))
	})
}

type nodeInfo struct {
	Name       string          `json:"name"`
	Category   string          `json:"category"`
	Params     []config.Param  `json:"params"`
	Placements []layout.Policy `json:"placements"`
}

func (s *Server) handleNode(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, nodeInfo{
		Name:       "SnapText",
		Category:   "image/text",
		Params:     config.Params(),
		Placements: layout.Policies(),
	})
}

func (s *Server) handleCaption(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())
	r.Body = http.MaxBytesReader(w, r.Body, s.MaxUpload)
	if err := r.ParseMultipartForm(s.MaxUpload); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid multipart form: %w", err))
		return
	}

	opts, data, err := s.options(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("missing image file: %w", err))
		return
	}
	defer file.Close()
	batch, err := frame.Decode(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	c, err := s.compositor(opts.Backend)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	progress := logging.NewProgress(logger)
	out, err := c.Apply(r.Context(), batch, opts, data)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, config.ErrInvalidOption) || errors.Is(err, frame.ErrInvalidShape) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err)
		return
	}
	progress.Done("captioned", "width", batch.Width(), "height", batch.Height())

	w.Header().Set("Content-Type", "image/png")
	if err := frame.Encode(w, out, 0, imaging.PNG); err != nil {
		logger.Error("encode response", "err", err)
	}
}

// options overlays the form fields on the defaults.
func (s *Server) options(r *http.Request) (config.Options, map[string]any, error) {
	opts := s.Defaults
	for _, p := range config.Params() {
		if v, ok := r.MultipartForm.Value[p.Name]; ok && len(v) > 0 {
			if err := opts.Set(p.Name, v[0]); err != nil {
				return opts, nil, err
			}
		}
	}
	if err := opts.Validate(); err != nil {
		return opts, nil, err
	}
	var data map[string]any
	if raw := r.FormValue("data"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			return opts, nil, fmt.Errorf("invalid data JSON: %w", err)
		}
	}
	return opts, data, nil
}

func (s *Server) compositor(backend string) (*overlay.Compositor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.renderers[backend]; ok {
		return c, nil
	}
	r, err := overlay.NewRenderer(backend)
	if err != nil {
		return nil, err
	}
	c := overlay.New(r, s.Fonts)
	if s.renderers == nil {
		s.renderers = map[string]*overlay.Compositor{}
	}
	s.renderers[backend] = c
	return c, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
