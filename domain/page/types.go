package page

import (
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"rankboard/domain/table"
)

// FormatKind selects how a column is displayed
type FormatKind string

const (
	FormatPercent FormatKind = "percent" // fraction shown as "N.N%"
	FormatFixed   FormatKind = "fixed"   // number shown as "N.N"
	FormatText    FormatKind = "text"    // pass-through
)

// DefaultDecimals is used when a format does not name its precision
const DefaultDecimals = 1

// Format is a per-column display directive. In YAML it is either a bare kind
// ("fixed") or a mapping ({kind: fixed, decimals: 2}).
type Format struct {
	Kind     FormatKind `yaml:"kind" json:"kind"`
	Decimals *int       `yaml:"decimals,omitempty" json:"decimals,omitempty"`
}

// UnmarshalYAML accepts the scalar shorthand as well as the mapping form
func (f *Format) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		f.Kind = FormatKind(strings.ToLower(strings.TrimSpace(node.Value)))
		f.Decimals = nil
		return nil
	}
	type plain Format
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	p.Kind = FormatKind(strings.ToLower(strings.TrimSpace(string(p.Kind))))
	*f = Format(p)
	return nil
}

// Places returns the number of decimals to render
func (f Format) Places() int {
	if f.Decimals == nil || *f.Decimals < 0 {
		return DefaultDecimals
	}
	return *f.Decimals
}

// Valid reports whether the kind is one we know how to render
func (f Format) Valid() bool {
	switch f.Kind {
	case FormatPercent, FormatFixed, FormatText:
		return true
	}
	return false
}

// SchemaMode controls rename-by-position when the declared schema length differs
// from the loaded column count.
type SchemaMode string

const (
	// SchemaStrict fails with SCHEMA_MISMATCH
	SchemaStrict SchemaMode = "strict"
	// SchemaPad renames what fits, adds absent expected columns as all-missing and keeps surplus source columns
	SchemaPad SchemaMode = "pad"
	// SchemaLenient leaves the source names untouched and only logs
	SchemaLenient SchemaMode = "lenient"
)

// ParseSchemaMode validates a textual schema mode
func ParseSchemaMode(s string) (SchemaMode, error) {
	switch m := SchemaMode(strings.ToLower(strings.TrimSpace(s))); m {
	case SchemaStrict, SchemaPad, SchemaLenient:
		return m, nil
	}
	return "", fmt.Errorf("unknown schema mode %q (want strict, pad or lenient)", s)
}

// CoercionMode controls how percent-like columns choose between pass-through and text parsing.
type CoercionMode string

const (
	// CoercePerCell inspects every cell on its own
	CoercePerCell CoercionMode = "per-cell"
	// CoerceColumn picks one branch for the whole column: any non-number cell sends
	// every cell through text parsing
	CoerceColumn CoercionMode = "column"
)

// ParseCoercionMode validates a textual coercion mode
func ParseCoercionMode(s string) (CoercionMode, error) {
	switch m := CoercionMode(strings.ToLower(strings.TrimSpace(s))); m {
	case CoercePerCell, CoerceColumn:
		return m, nil
	}
	return "", fmt.Errorf("unknown coercion mode %q (want per-cell or column)", s)
}

// Section is one table on a page
type Section struct {
	Title        string            `yaml:"title" json:"title" validate:"required"`
	Description  string            `yaml:"description" json:"description,omitempty"`
	Source       string            `yaml:"source" json:"source,omitempty"`
	Sheet        string            `yaml:"sheet" json:"sheet" validate:"required"`
	Columns      string            `yaml:"columns" json:"columns" validate:"required"`
	HeaderRow    int               `yaml:"header_row" json:"header_row" validate:"gte=0"`
	MaxRows      int               `yaml:"max_rows" json:"max_rows,omitempty" validate:"gte=0"`
	Expected     []string          `yaml:"expected" json:"expected,omitempty" validate:"unique,dive,required"`
	Percent      []string          `yaml:"percent" json:"percent,omitempty" validate:"dive,required"`
	Display      []string          `yaml:"display" json:"display,omitempty" validate:"unique,dive,required"`
	Formats      map[string]Format `yaml:"formats" json:"formats,omitempty"`
	Bold         []string          `yaml:"bold" json:"bold,omitempty"`
	SchemaMode   SchemaMode        `yaml:"schema_mode" json:"schema_mode,omitempty" validate:"omitempty,oneof=strict pad lenient"`
	CoercionMode CoercionMode      `yaml:"coercion_mode" json:"coercion_mode,omitempty" validate:"omitempty,oneof=per-cell column"`
	Missing      *string           `yaml:"missing" json:"missing,omitempty"`
}

// Page is one dashboard page: chrome plus an ordered list of sections
type Page struct {
	Slug     string    `yaml:"slug" json:"slug" validate:"required"`
	Title    string    `yaml:"title" json:"title" validate:"required"`
	Icon     string    `yaml:"icon" json:"icon,omitempty"`
	Updated  string    `yaml:"updated" json:"updated,omitempty"`
	Intro    string    `yaml:"intro" json:"intro,omitempty"`
	Source   string    `yaml:"source" json:"source,omitempty"`
	Sections []Section `yaml:"sections" json:"sections" validate:"required,min=1,dive"`
}

// Site is the whole declarative dashboard
type Site struct {
	Title string `yaml:"title" json:"title"`
	Pages []Page `yaml:"pages" json:"pages" validate:"required,min=1,dive"`
}

// Page looks a page up by slug
func (s *Site) Page(slug string) (*Page, bool) {
	for i := range s.Pages {
		if s.Pages[i].Slug == slug {
			return &s.Pages[i], true
		}
	}
	return nil, false
}

// SourceFor resolves the workbook a section reads, relative to baseDir
func (p *Page) SourceFor(sec Section, baseDir string) string {
	src := sec.Source
	if src == "" {
		src = p.Source
	}
	if src == "" || filepath.IsAbs(src) || baseDir == "" {
		return src
	}
	return filepath.Join(baseDir, src)
}

// LoadRequest builds the loader request for a section of this page
func (p *Page) LoadRequest(sec Section, baseDir string) table.LoadRequest {
	return table.LoadRequest{
		Source:    p.SourceFor(sec, baseDir),
		Sheet:     sec.Sheet,
		Columns:   sec.Columns,
		HeaderRow: sec.HeaderRow,
		MaxRows:   sec.MaxRows,
	}
}

// FormatFor returns the display directive of a column: an explicit entry wins,
// percent-like columns default to percent, everything else passes through.
func (sec Section) FormatFor(column string) Format {
	if f, ok := sec.Formats[column]; ok {
		return f
	}
	for _, c := range sec.Percent {
		if c == column {
			return Format{Kind: FormatPercent}
		}
	}
	return Format{Kind: FormatText}
}

// IsBold reports whether a column is emphasised
func (sec Section) IsBold(column string) bool {
	for _, c := range sec.Bold {
		if c == column {
			return true
		}
	}
	return false
}

// EffectiveSchemaMode falls back to def when the section does not override it
func (sec Section) EffectiveSchemaMode(def SchemaMode) SchemaMode {
	if sec.SchemaMode != "" {
		return sec.SchemaMode
	}
	return def
}

// EffectiveCoercionMode falls back to def when the section does not override it
func (sec Section) EffectiveCoercionMode(def CoercionMode) CoercionMode {
	if sec.CoercionMode != "" {
		return sec.CoercionMode
	}
	return def
}

// MissingPlaceholder falls back to def when the section does not override it
func (sec Section) MissingPlaceholder(def string) string {
	if sec.Missing != nil {
		return *sec.Missing
	}
	return def
}
