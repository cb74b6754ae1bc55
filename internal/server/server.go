// Package server provides the HTTP server and handlers.
package server

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/bryan-buckman/quill/internal/api"
	"github.com/bryan-buckman/quill/internal/config"
	"github.com/bryan-buckman/quill/internal/database"
	"github.com/bryan-buckman/quill/internal/feed"
	"github.com/bryan-buckman/quill/internal/markdown"
	"github.com/bryan-buckman/quill/internal/model"
	"github.com/bryan-buckman/quill/internal/slug"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static/*
var staticFS embed.FS

// Server is the main HTTP server: the rendered front end, the feed and the
// /api dispatch endpoint.
type Server struct {
	store      database.Store
	dispatcher *api.Dispatcher
	config     *config.ServerConfig
	router     chi.Router
	templates  *template.Template
	log        *zap.SugaredLogger
}

// New creates a new server over the given store.
func New(store database.Store, cfg *config.ServerConfig, log *zap.SugaredLogger) (*Server, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"markdown":  renderMarkdown,
		"published": formatPublished,
		"slugify":   slug.ToSlug,
		"teaser":    teaser,
	}).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		store:      store,
		dispatcher: api.NewDispatcher(store, store, log),
		config:     cfg,
		templates:  tmpl,
		log:        log,
	}
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	// Serve static files.
	staticSub, _ := fs.Sub(staticFS, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))

	// Pages.
	r.Get("/", s.handleIndex)
	r.Get("/article/{slug}", s.handleArticle)
	r.Get("/rss", s.handleFeed)

	// API.
	r.Post("/api", s.handleAPI)

	r.NotFound(s.handleNotFound)

	s.router = r
}

// Router exposes the handler for mounting into an http.Server.
func (s *Server) Router() http.Handler {
	return s.router
}

// --- Page Handlers ---

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	articles, err := s.store.ListArticlesByPublishedDesc(r.Context())
	if err != nil {
		s.log.Errorw("list articles", "err", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	s.renderPage(w, "index.html", http.StatusOK, map[string]interface{}{
		"Config":   s.config,
		"Articles": articles,
	})
}

// handleArticle resolves the public permalink. The path segment is a slug;
// a raw article id is accepted too so render links can use either.
func (s *Server) handleArticle(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "slug")

	article, err := s.store.ArticleBySlug(r.Context(), key)
	if errors.Is(err, database.ErrNotFound) {
		article, err = s.store.ArticleByID(r.Context(), key)
	}
	if errors.Is(err, database.ErrNotFound) {
		s.handleNotFound(w, r)
		return
	}
	if err != nil {
		s.log.Errorw("get article", "key", key, "err", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	s.renderPage(w, "article.html", http.StatusOK, map[string]interface{}{
		"Config":  s.config,
		"Article": article,
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, "404.html", http.StatusNotFound, map[string]interface{}{
		"Config": s.config,
	})
}

// --- Feed Handler ---

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	articles, err := s.store.ListArticlesByPublishedDesc(r.Context())
	if err != nil {
		s.log.Errorw("list articles for feed", "err", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	rss, err := feed.Build(s.config, articles)
	if err != nil {
		s.log.Errorw("build feed", "err", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/rss+xml")
	w.Write([]byte(rss))
}

// --- API Handler ---

// handleAPI decodes the request envelope and hands it to the dispatcher.
// A malformed envelope is rejected here, before dispatch; everything past
// this point answers 200 with a typed response envelope.
func (s *Server) handleAPI(w http.ResponseWriter, r *http.Request) {
	var env api.Envelope
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	resp := s.dispatcher.Dispatch(r.Context(), env)
	render.JSON(w, r, resp)
}

// --- Helpers ---

func (s *Server) renderPage(w http.ResponseWriter, name string, status int, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		s.log.Errorw("template error", "template", name, "err", err)
	}
}

func renderMarkdown(source string) (template.HTML, error) {
	html, err := markdown.Render(source)
	if err != nil {
		return "", err
	}
	return template.HTML(html), nil
}

func formatPublished(t time.Time) string {
	return t.Format("02.01.2006 15:04")
}

// teaser returns the first five lines of an article for the index page.
func teaser(a model.Article) string {
	lines := 0
	for i := 0; i < len(a.Content); i++ {
		if a.Content[i] == '\n' {
			lines++
			if lines == 5 {
				return a.Content[:i]
			}
		}
	}
	return a.Content
}
