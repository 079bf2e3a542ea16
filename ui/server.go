package ui

import (
	"context"
	"errors"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"rankboard/adapters/excel"
	"rankboard/app"
)

// Options wire the server to the rest of the application
type Options struct {
	Service *app.DashboardService
	// Cache is nil when caching is disabled
	Cache *excel.Cache
	// Assets holds ui/templates and ui/static
	Assets  fs.FS
	GinMode string
	Logger  *slog.Logger
}

// Server is the web dashboard: HTML pages from gin, JSON API from chi under /api
type Server struct {
	router    *gin.Engine
	service   *app.DashboardService
	cache     *excel.Cache
	templates *template.Template
	assets    fs.FS
	logger    *slog.Logger
	started   time.Time
}

// NewServer creates a new web server instance
func NewServer(opts Options) (*Server, error) {
	if opts.GinMode != "" {
		gin.SetMode(opts.GinMode)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	templates, err := parseTemplates(opts.Assets)
	if err != nil {
		return nil, err
	}

	s := &Server{
		router:    gin.New(),
		service:   opts.Service,
		cache:     opts.Cache,
		templates: templates,
		assets:    opts.Assets,
		logger:    logger.With("component", "ui"),
		started:   time.Now(),
	}

	s.setupMiddleware()
	s.setupRoutes()
	return s, nil
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.GET("/pages/:slug", s.handlePage)

	api := gin.WrapH(newAPI(s.service, s.cache, s.logger, s.started))
	s.router.Any("/api/*path", api)
	s.router.GET("/healthz", api)

	s.router.NoRoute(func(c *gin.Context) {
		s.renderTemplate(c, http.StatusNotFound, "error.html", errorPage{
			Title:   "Not found",
			Message: "No page at " + c.Request.URL.Path,
		})
	})
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting dashboard", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down dashboard")
	return srv.Shutdown(shutdownCtx)
}
