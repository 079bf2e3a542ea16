// Package pages loads and validates the declarative dashboard definition.
package pages

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"rankboard/domain/core"
	"rankboard/domain/page"
	"rankboard/domain/table"
	"rankboard/internal/errors"
)

//go:embed default.yaml
var defaultYAML []byte

var validate = validator.New()

// Default returns the built-in site definition
func Default() (*page.Site, error) {
	return Parse(defaultYAML)
}

// Load reads a site definition from path, or the built-in one when path is empty
func Load(path string) (*page.Site, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, fmt.Errorf("read pages file %s: %w", path, err))
	}
	site, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "pages file %s", path)
	}
	return site, nil
}

// Parse decodes and validates a YAML site definition. Unknown keys are rejected.
func Parse(data []byte) (*page.Site, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var site page.Site
	if err := dec.Decode(&site); err != nil {
		return nil, errors.ConfigInvalid("decode pages: " + err.Error())
	}
	if err := Validate(&site); err != nil {
		return nil, err
	}
	return &site, nil
}

// Validate checks struct constraints plus the rules tags cannot express:
// unique well-formed slugs, parseable column ranges, known formats, and a
// workbook source for every section.
func Validate(site *page.Site) error {
	if err := validate.Struct(site); err != nil {
		return errors.ConfigInvalid(describe(err))
	}

	var problems []string
	seen := make(map[string]bool, len(site.Pages))
	for _, p := range site.Pages {
		if _, err := core.ParsePageSlug(p.Slug); err != nil {
			problems = append(problems, err.Error())
		}
		if seen[p.Slug] {
			problems = append(problems, fmt.Sprintf("duplicate page slug %q", p.Slug))
		}
		seen[p.Slug] = true

		for i, sec := range p.Sections {
			where := fmt.Sprintf("page %s section %d (%s)", p.Slug, i, sec.Title)
			if p.SourceFor(sec, "") == "" {
				problems = append(problems, where+": no workbook source")
			}
			if _, err := table.ParseColumnRange(sec.Columns); err != nil {
				problems = append(problems, where+": "+err.Error())
			}
			for col, f := range sec.Formats {
				if !f.Valid() {
					problems = append(problems, fmt.Sprintf("%s: column %s has unknown format %q", where, col, f.Kind))
				}
			}
		}
	}

	if len(problems) > 0 {
		return errors.ConfigInvalid(strings.Join(problems, "; "))
	}
	return nil
}

func describe(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed '%s'", fe.Namespace(), fe.Tag()))
	}
	return strings.Join(msgs, "; ")
}
