package ui

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"rankboard/adapters/excel"
	"rankboard/app"
	"rankboard/internal/errors"
)

// api serves the JSON endpoints. Tables carry normalized values: numbers stay
// numbers and missing cells are null.
type api struct {
	router  *chi.Mux
	service *app.DashboardService
	cache   *excel.Cache
	logger  *slog.Logger
	started time.Time
}

func newAPI(service *app.DashboardService, cache *excel.Cache, logger *slog.Logger, started time.Time) *api {
	a := &api{
		router:  chi.NewRouter(),
		service: service,
		cache:   cache,
		logger:  logger.With("component", "ui.api"),
		started: started,
	}

	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.SetHeader("Cache-Control", "no-store"))

	a.router.Get("/healthz", a.handleHealth)
	a.router.Route("/api", func(r chi.Router) {
		r.Get("/pages", a.handleListPages)
		r.Get("/pages/{slug}", a.handleGetPage)
		r.Get("/cache", a.handleCacheStats)
		r.Post("/cache/purge", a.handleCachePurge)
	})
	a.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		a.writeError(w, errors.NotFound("endpoint "+r.URL.Path))
	})
	a.router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		a.writeJSON(w, http.StatusMethodNotAllowed, map[string]string{
			"error": "method " + r.Method + " not allowed",
			"code":  errors.CodeInvalidInput,
		})
	})
	return a
}

func (a *api) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

func (a *api) handleHealth(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"pages":  len(a.service.Pages()),
		"uptime": time.Since(a.started).Round(time.Second).String(),
	})
}

func (a *api) handleListPages(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, map[string]interface{}{
		"pages": a.service.Pages(),
	})
}

func (a *api) handleGetPage(w http.ResponseWriter, r *http.Request) {
	view, err := a.service.RenderPage(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, view)
}

func (a *api) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	if a.cache == nil {
		a.writeJSON(w, http.StatusOK, map[string]interface{}{"enabled": false})
		return
	}
	a.writeJSON(w, http.StatusOK, map[string]interface{}{
		"enabled": true,
		"stats":   a.cache.Stats(),
	})
}

func (a *api) handleCachePurge(w http.ResponseWriter, r *http.Request) {
	if a.cache == nil {
		a.writeJSON(w, http.StatusOK, map[string]interface{}{"enabled": false, "purged": 0})
		return
	}
	n := a.cache.Purge()
	a.logger.Info("cache purged", "entries", n, "request_id", middleware.GetReqID(r.Context()))
	a.writeJSON(w, http.StatusOK, map[string]interface{}{"enabled": true, "purged": n})
}

func (a *api) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		a.logger.Error("api error", "error", err)
	}
	a.writeJSON(w, status, map[string]string{
		"error": err.Error(),
		"code":  errors.GetCode(err),
	})
}

func (a *api) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		a.logger.Warn("error writing json response", "error", err)
	}
}
