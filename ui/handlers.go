package ui

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rankboard/app"
	"rankboard/internal/errors"
)

type indexPage struct {
	Title string
	Pages []app.PageSummary
}

type errorPage struct {
	Title   string
	Message string
	Code    string
}

// handleIndex lists every configured page
func (s *Server) handleIndex(c *gin.Context) {
	title := s.service.Site().Title
	if title == "" {
		title = "Dashboards"
	}
	s.renderTemplate(c, http.StatusOK, "index.html", indexPage{
		Title: title,
		Pages: s.service.Pages(),
	})
}

// handlePage renders one dashboard page. Section failures are shown inline;
// only an unknown slug or a cancelled request fails the whole page.
func (s *Server) handlePage(c *gin.Context) {
	slug := c.Param("slug")
	view, err := s.service.RenderPage(c.Request.Context(), slug)
	if err != nil {
		status := statusFor(err)
		s.renderTemplate(c, status, "error.html", errorPage{
			Title:   http.StatusText(status),
			Message: err.Error(),
			Code:    errors.GetCode(err),
		})
		return
	}
	s.renderTemplate(c, http.StatusOK, "page.html", view)
}

// statusFor maps an application error to an HTTP status
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.CodeNotFound:
		return http.StatusNotFound
	case errors.CodeInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
