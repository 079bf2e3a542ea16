package ui

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// icons maps the shortcodes used in page definitions to emoji
var icons = map[string]string{
	":bar_chart:":                "📊",
	":chart_with_upwards_trend:": "📈",
	":globe_with_meridians:":     "🌐",
	":moneybag:":                 "💰",
	":trophy:":                   "🏆",
}

// iconFor resolves a shortcode; anything that is not a known shortcode is shown as is
func iconFor(code string) string {
	if emoji, ok := icons[code]; ok {
		return emoji
	}
	if strings.HasPrefix(code, ":") && strings.HasSuffix(code, ":") {
		return ""
	}
	return code
}

// renderMarkdown converts a trusted markdown snippet to HTML. Raw HTML in the
// source is dropped.
func renderMarkdown(src string) template.HTML {
	if strings.TrimSpace(src) == "" {
		return ""
	}
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	r := mdhtml.NewRenderer(mdhtml.RendererOptions{
		Flags: mdhtml.CommonFlags | mdhtml.SkipHTML | mdhtml.HrefTargetBlank,
	})
	return template.HTML(markdown.ToHTML([]byte(src), p, r))
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"markdown": renderMarkdown,
		"icon":     iconFor,
	}
}

// parseTemplates parses every page and fragment template under templates/ in assets
func parseTemplates(assets fs.FS) (*template.Template, error) {
	templatesFS, err := fs.Sub(assets, "ui/templates")
	if err != nil {
		return nil, fmt.Errorf("failed to create templates filesystem: %w", err)
	}
	tmpl, err := template.New("").Funcs(templateFuncs()).ParseFS(templatesFS, "*.html", "fragments/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return tmpl, nil
}

// renderTemplate executes a template into a buffer first so a failure never
// leaves a half-written page
func (s *Server) renderTemplate(c *gin.Context, status int, templateName string, data interface{}) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, templateName, data); err != nil {
		s.logger.Error("template error", "template", templateName, "error", err)
		c.AbortWithStatusJSON(500, gin.H{"error": "Template rendering failed", "code": "INTERNAL_ERROR"})
		return
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Writer.WriteHeader(status)
	if _, err := buf.WriteTo(c.Writer); err != nil {
		s.logger.Warn("error writing template response", "error", err)
	}
}
