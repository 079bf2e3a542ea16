package app

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"rankboard/domain/core"
	"rankboard/domain/page"
	"rankboard/domain/table"
	"rankboard/internal/errors"
	"rankboard/internal/format"
	"rankboard/internal/normalize"
	"rankboard/ports"
)

// sectionConcurrency bounds parallel section loads within one page render
const sectionConcurrency = 4

// Defaults apply to every section that does not override them
type Defaults struct {
	SchemaMode   page.SchemaMode
	CoercionMode page.CoercionMode
	Missing      string
}

// DashboardService renders configured pages: load, normalize and format every section
type DashboardService struct {
	loader   ports.TableLoader
	site     *page.Site
	baseDir  string
	defaults Defaults
	logger   *slog.Logger
}

func NewDashboardService(loader ports.TableLoader, site *page.Site, baseDir string, defaults Defaults, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	if defaults.SchemaMode == "" {
		defaults.SchemaMode = page.SchemaStrict
	}
	if defaults.CoercionMode == "" {
		defaults.CoercionMode = page.CoercePerCell
	}
	return &DashboardService{
		loader:   loader,
		site:     site,
		baseDir:  baseDir,
		defaults: defaults,
		logger:   logger.With("component", "app.dashboard"),
	}
}

// Site returns the site definition being served
func (s *DashboardService) Site() *page.Site {
	return s.site
}

// PageSummary is a page listing entry
type PageSummary struct {
	Slug     string `json:"slug"`
	Title    string `json:"title"`
	Icon     string `json:"icon,omitempty"`
	Updated  string `json:"updated,omitempty"`
	Sections int    `json:"sections"`
}

// Pages lists every configured page in definition order
func (s *DashboardService) Pages() []PageSummary {
	out := make([]PageSummary, len(s.site.Pages))
	for i, p := range s.site.Pages {
		out[i] = PageSummary{
			Slug:     p.Slug,
			Title:    p.Title,
			Icon:     p.Icon,
			Updated:  p.Updated,
			Sections: len(p.Sections),
		}
	}
	return out
}

// SectionError is a failure confined to one section
type SectionError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// TableData is the normalized table of a section; numbers stay numbers and missing is null
type TableData struct {
	Columns []string        `json:"columns"`
	Rows    [][]table.Value `json:"rows"`
}

// SectionView is one rendered section
type SectionView struct {
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	Sheet       string           `json:"sheet"`
	Table       *format.Table    `json:"table,omitempty"`
	Data        *TableData       `json:"data,omitempty"`
	Report      normalize.Report `json:"report"`
	Error       *SectionError    `json:"error,omitempty"`
}

// Failed reports whether the section could not be rendered
func (v SectionView) Failed() bool {
	return v.Error != nil
}

// PageView is the outcome of one render pass over a page
type PageView struct {
	RenderID   core.RenderID `json:"render_id"`
	Slug       string        `json:"slug"`
	Title      string        `json:"title"`
	Icon       string        `json:"icon,omitempty"`
	Updated    string        `json:"updated,omitempty"`
	Intro      string        `json:"intro,omitempty"`
	Sections   []SectionView `json:"sections"`
	RenderedAt time.Time     `json:"rendered_at"`
	Duration   time.Duration `json:"duration_ns"`
}

// Failures counts sections that rendered an error
func (v *PageView) Failures() int {
	n := 0
	for _, sec := range v.Sections {
		if sec.Failed() {
			n++
		}
	}
	return n
}

// RenderPage renders every section of the page named by slug. A section that fails
// carries its error in the view; the other sections still render. An unknown slug
// yields a NOT_FOUND error.
func (s *DashboardService) RenderPage(ctx context.Context, slug string) (*PageView, error) {
	p, ok := s.site.Page(slug)
	if !ok {
		return nil, errors.NotFound("page " + slug)
	}

	start := time.Now()
	renderID := core.NewRenderID()
	logger := s.logger.With("render_id", renderID.String(), "page", p.Slug)

	view := &PageView{
		RenderID:   renderID,
		Slug:       p.Slug,
		Title:      p.Title,
		Icon:       p.Icon,
		Updated:    p.Updated,
		Intro:      p.Intro,
		Sections:   make([]SectionView, len(p.Sections)),
		RenderedAt: start,
	}

	var g errgroup.Group
	g.SetLimit(sectionConcurrency)
	for i, sec := range p.Sections {
		g.Go(func() error {
			view.Sections[i] = s.renderSection(ctx, p, sec, logger)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	view.Duration = time.Since(start)
	logger.Info("page rendered",
		"sections", len(view.Sections),
		"failed", view.Failures(),
		"duration", view.Duration)
	return view, nil
}

func (s *DashboardService) renderSection(ctx context.Context, p *page.Page, sec page.Section, logger *slog.Logger) SectionView {
	view := SectionView{
		Title:       sec.Title,
		Description: sec.Description,
		Sheet:       sec.Sheet,
	}

	normalized, report, err := s.NormalizeSection(ctx, p, sec, logger)
	view.Report = report
	if err != nil {
		logger.Error("section failed",
			"section", sec.Title,
			"sheet", sec.Sheet,
			"code", errors.GetCode(err),
			"error", err)
		view.Error = &SectionError{Code: errors.GetCode(err), Message: err.Error()}
		return view
	}

	view.Table = format.Render(normalized, sec, sec.MissingPlaceholder(s.defaults.Missing))
	view.Data = dataOf(normalized)
	return view
}

// NormalizeSection loads a section's table and projects it through the section
// schema. It does no formatting.
func (s *DashboardService) NormalizeSection(ctx context.Context, p *page.Page, sec page.Section, logger *slog.Logger) (*table.Table, normalize.Report, error) {
	if logger == nil {
		logger = s.logger
	}
	req := p.LoadRequest(sec, s.baseDir)

	loaded, err := s.loader.Load(ctx, req)
	if err != nil {
		return nil, normalize.Report{}, err
	}

	return normalize.Project(loaded, normalize.SchemaFromSection(sec), normalize.Options{
		SchemaMode:   sec.EffectiveSchemaMode(s.defaults.SchemaMode),
		CoercionMode: sec.EffectiveCoercionMode(s.defaults.CoercionMode),
		Logger:       logger.With("section", sec.Title, "sheet", sec.Sheet),
	})
}

// CheckResult is the outcome of loading one section during a dry run
type CheckResult struct {
	Page    string
	Section string
	Rows    int
	Err     error
}

// Check loads and normalizes every section of every page without formatting.
// It stops early only when ctx is done.
func (s *DashboardService) Check(ctx context.Context) ([]CheckResult, error) {
	var results []CheckResult
	for i := range s.site.Pages {
		p := &s.site.Pages[i]
		for _, sec := range p.Sections {
			if err := ctx.Err(); err != nil {
				return results, err
			}
			res := CheckResult{Page: p.Slug, Section: sec.Title}
			tbl, _, err := s.NormalizeSection(ctx, p, sec, nil)
			if err != nil {
				res.Err = err
			} else {
				res.Rows = tbl.NumRows()
			}
			results = append(results, res)
		}
	}
	return results, nil
}

func dataOf(t *table.Table) *TableData {
	rows := make([][]table.Value, t.NumRows())
	for i := range rows {
		rows[i] = t.Row(i)
	}
	return &TableData{Columns: t.Names(), Rows: rows}
}
