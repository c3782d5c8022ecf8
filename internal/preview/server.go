// Package preview implements the local HTTP preview service behind
// "flowdraw preview". It serves a page with a randomly generated
// flowchart, re-renders on demand, and supports sharing diagrams through
// a pluggable store.
package preview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/flowdraw/pkg/cache"
	"github.com/matzehuels/flowdraw/pkg/layout"
	"github.com/matzehuels/flowdraw/pkg/pipeline"
	"github.com/matzehuels/flowdraw/pkg/store"
)

// DefaultAddr is the listen address the preview service binds when none
// is configured. Loopback only: the service is a local tool, not a
// public endpoint.
const DefaultAddr = "127.0.0.1:7878"

// imageCacheSize caps the in-memory rendered-SVG cache.
const imageCacheSize = 32

// Config configures a preview server. Zero values select defaults: an
// in-memory diagram store, no artifact cache, and a seed derived from
// the clock.
type Config struct {
	Addr   string
	Store  store.Store
	Cache  cache.Cache
	Logger *log.Logger
	Style  layout.Style

	// Seed fixes the random diagram sequence. Zero means seed from the
	// current time.
	Seed uint64
}

// Server serves the preview pages and images.
type Server struct {
	router chi.Router
	runner *pipeline.Runner
	store  store.Store
	logger *log.Logger
	style  layout.Style

	mu      sync.Mutex
	rand    *rng
	current diagramPage

	images *imageCache
}

// diagramPage is what the index page shows: source text plus the image
// id it renders under.
type diagramPage struct {
	Source  string
	ImageID string
	ShareID string
	Title   string
}

// NewServer wires the routes and prepares the first random diagram.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Store == nil {
		cfg.Store = store.NewMemoryStore()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
	}
	cfg.Style.ApplyDefaults()

	s := &Server{
		runner: pipeline.NewRunner(cfg.Cache, nil, cfg.Logger),
		store:  cfg.Store,
		logger: cfg.Logger,
		style:  cfg.Style,
		rand:   newRNG(cfg.Seed),
		images: newImageCache(imageCacheSize),
	}

	r := chi.NewRouter()
	r.Get("/", s.handleIndex)
	r.Get("/next", s.handleNext)
	r.Get("/image", s.handleImage)
	r.Post("/share", s.handleShare)
	r.Get("/d/{id}", s.handleShared)
	s.router = r

	if err := s.rotate(); err != nil {
		return nil, fmt.Errorf("generate initial diagram: %w", err)
	}
	return s, nil
}

// ServeHTTP implements http.Handler by delegating to the chi router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Run serves on addr (DefaultAddr when empty) until the context is
// cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("preview service listening", "addr", "http://"+addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	}
}

// rotate generates and renders a fresh random diagram as the current page.
func (s *Server) rotate() error {
	s.mu.Lock()
	source := RandomSource(s.rand.next())
	s.mu.Unlock()

	id, err := s.renderImage(source)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.current = diagramPage{Source: source, ImageID: id}
	s.mu.Unlock()
	return nil
}

// renderImage renders source to SVG, caches it, and returns its image id.
func (s *Server) renderImage(source string) (string, error) {
	result, err := s.runner.Execute(context.Background(), pipeline.Options{
		Text:    source,
		Style:   s.style,
		Formats: []string{pipeline.FormatSVG},
	})
	if err != nil {
		return "", err
	}
	s.images.put(result.GraphHash, result.Artifacts[pipeline.FormatSVG])
	return result.GraphHash, nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	page := s.current
	s.mu.Unlock()
	s.renderPage(w, page)
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	if err := s.rotate(); err != nil {
		s.logger.Error("generate diagram", "error", err)
		http.Error(w, "failed to generate diagram", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	data, ok := s.images.get(id)
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "max-age=86400, immutable")
	w.Write(data)
}

func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	source := r.FormValue("source")
	if strings.TrimSpace(source) == "" {
		s.mu.Lock()
		source = s.current.Source
		s.mu.Unlock()
	}

	// Reject sources that don't parse before storing them.
	if _, err := pipeline.Parse(r.Context(), pipeline.Options{Text: source, Logger: s.logger}); err != nil {
		http.Error(w, fmt.Sprintf("invalid diagram: %v", err), http.StatusBadRequest)
		return
	}

	d := store.NewDiagram(source, r.FormValue("title"), store.DefaultTTL)
	if err := s.store.Put(r.Context(), d); err != nil {
		s.logger.Error("store diagram", "error", err)
		http.Error(w, "failed to store diagram", http.StatusInternalServerError)
		return
	}
	s.logger.Info("shared diagram", "id", d.ID)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{
		"id":  d.ID,
		"url": "/d/" + d.ID,
	})
}

func (s *Server) handleShared(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	d, err := s.store.Get(r.Context(), id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		http.NotFound(w, r)
		return
	case errors.Is(err, store.ErrExpired):
		http.Error(w, "diagram expired", http.StatusGone)
		return
	case err != nil:
		s.logger.Error("load diagram", "id", id, "error", err)
		http.Error(w, "failed to load diagram", http.StatusInternalServerError)
		return
	}

	imageID, err := s.renderImage(d.Source)
	if err != nil {
		s.logger.Error("render diagram", "id", id, "error", err)
		http.Error(w, "failed to render diagram", http.StatusInternalServerError)
		return
	}
	s.renderPage(w, diagramPage{
		Source:  d.Source,
		ImageID: imageID,
		ShareID: d.ID,
		Title:   d.Title,
	})
}

func (s *Server) renderPage(w http.ResponseWriter, page diagramPage) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, page); err != nil {
		s.logger.Error("render page", "error", err)
	}
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<title>flowdraw preview</title>
<style>
body { font-family: monospace; margin: 2rem; background: #fafafa; }
img { border: 1px solid #ddd; background: #fff; padding: 1rem; max-width: 100%; }
pre { background: #f0f0f0; padding: 1rem; overflow-x: auto; }
nav a, nav button { margin-right: 1rem; }
</style>
</head>
<body>
<h1>{{if .Title}}{{.Title}}{{else}}flowdraw preview{{end}}</h1>
<nav>
{{if not .ShareID}}<a href="/next">Next</a>
<form method="post" action="/share" style="display:inline"><button type="submit">Share</button></form>{{end}}
</nav>
<p><img src="/image?id={{.ImageID}}" alt="flowchart"></p>
<pre>{{.Source}}</pre>
</body>
</html>
`))

// imageCache is a small LRU of rendered SVGs keyed by graph hash.
type imageCache struct {
	mu      sync.Mutex
	cap     int
	entries map[string][]byte
	order   []string
}

func newImageCache(capacity int) *imageCache {
	return &imageCache{
		cap:     capacity,
		entries: make(map[string][]byte),
	}
}

func (c *imageCache) get(id string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.entries[id]
	if ok {
		c.touch(id)
	}
	return data, ok
}

func (c *imageCache) put(id string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[id]; ok {
		c.entries[id] = data
		c.touch(id)
		return
	}
	c.entries[id] = data
	c.order = append(c.order, id)
	for len(c.order) > c.cap {
		evicted := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, evicted)
	}
}

// touch moves id to the most recently used position. Callers hold c.mu.
func (c *imageCache) touch(id string) {
	for i, v := range c.order {
		if v == id {
			c.order = append(append(c.order[:i:i], c.order[i+1:]...), id)
			return
		}
	}
}
