package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"rankboard/adapters/excel"
	"rankboard/app"
	"rankboard/domain/page"
	"rankboard/internal/config"
	"rankboard/internal/logging"
	"rankboard/internal/pages"
	"rankboard/ports"
)

// options are shared by every subcommand; flags override the environment
type options struct {
	pagesFile    string
	workbookDir  string
	schemaMode   string
	coercionMode string
	missing      string
	logLevel     string
}

func main() {
	// a missing .env file is fine
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "rankboard-cli",
		Short:         "Render and check spreadsheet dashboards from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.pagesFile, "pages", "", "YAML page definition (default: PAGES_FILE or the built-in pages)")
	flags.StringVar(&opts.workbookDir, "dir", "", "directory for relative workbook paths (default: WORKBOOK_DIR)")
	flags.StringVar(&opts.schemaMode, "schema-mode", "", "strict, pad or lenient (default: SCHEMA_MODE)")
	flags.StringVar(&opts.coercionMode, "coercion-mode", "", "per-cell or column (default: COERCION_MODE)")
	flags.StringVar(&opts.missing, "missing", "", "placeholder for missing values (default: MISSING_PLACEHOLDER)")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "debug, info, warn or error")

	rootCmd.AddCommand(
		newPagesCmd(opts),
		newRenderCmd(opts),
		newCheckCmd(opts),
	)
	return rootCmd
}

func newPagesCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "pages",
		Short: "List configured pages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := buildService(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SLUG\tTITLE\tSECTIONS\tUPDATED")
			for _, p := range svc.Pages() {
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", p.Slug, p.Title, p.Sections, p.Updated)
			}
			return w.Flush()
		},
	}
}

func newRenderCmd(opts *options) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "render [slug]",
		Short: "Render a page as aligned text tables",
		Long: `Render every section of a page. Sections that fail print their error and
the command exits non-zero once the whole page has been printed.

Example: rankboard-cli render country-trading-strategy --dir ./data`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := buildService(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			view, err := svc.RenderPage(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(view); err != nil {
					return err
				}
			} else if err := printPage(out, view); err != nil {
				return err
			}

			if n := view.Failures(); n > 0 {
				return fmt.Errorf("%d of %d sections failed", n, len(view.Sections))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the page view as JSON")
	return cmd
}

func newCheckCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the page definition and load every section",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := buildService(opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			results, err := svc.Check(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			failed := 0
			for _, r := range results {
				if r.Err != nil {
					failed++
					fmt.Fprintf(w, "FAIL\t%s\t%s\t%v\n", r.Page, r.Section, r.Err)
					continue
				}
				fmt.Fprintf(w, "ok\t%s\t%s\t%d rows\n", r.Page, r.Section, r.Rows)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d sections failed", failed, len(results))
			}
			return nil
		},
	}
}

// buildService assembles the same pipeline the web dashboard uses, without a cache
func buildService(opts *options, logOut io.Writer) (*app.DashboardService, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger, _ := logging.Setup(logging.Options{Level: opts.logLevel, Format: "text", Writer: logOut})

	pagesFile := cfg.Data.PagesFile
	if opts.pagesFile != "" {
		pagesFile = opts.pagesFile
	}
	site, err := pages.Load(pagesFile)
	if err != nil {
		return nil, err
	}

	defaults := app.Defaults{
		SchemaMode:   cfg.Render.SchemaMode,
		CoercionMode: cfg.Render.CoercionMode,
		Missing:      cfg.Render.Missing,
	}
	if opts.schemaMode != "" {
		if defaults.SchemaMode, err = page.ParseSchemaMode(opts.schemaMode); err != nil {
			return nil, err
		}
	}
	if opts.coercionMode != "" {
		if defaults.CoercionMode, err = page.ParseCoercionMode(opts.coercionMode); err != nil {
			return nil, err
		}
	}
	if opts.missing != "" {
		defaults.Missing = opts.missing
	}

	dir := cfg.Data.WorkbookDir
	if opts.workbookDir != "" {
		dir = opts.workbookDir
	}

	var loader ports.TableLoader = excel.NewReader(logger)
	return app.NewDashboardService(loader, site, dir, defaults, logger), nil
}

func printPage(w io.Writer, view *app.PageView) error {
	fmt.Fprintln(w, view.Title)
	if view.Updated != "" {
		fmt.Fprintf(w, "Updated: %s\n", view.Updated)
	}

	for _, sec := range view.Sections {
		fmt.Fprintf(w, "\n## %s\n", sec.Title)
		if sec.Description != "" {
			fmt.Fprintln(w, strings.TrimSpace(sec.Description))
		}
		fmt.Fprintln(w)

		if sec.Failed() {
			fmt.Fprintf(w, "error [%s]: %s\n", sec.Error.Code, sec.Error.Message)
			continue
		}
		if sec.Table.Empty() {
			fmt.Fprintln(w, "(no rows)")
			continue
		}

		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
		names := make([]string, len(sec.Table.Headers))
		for i, h := range sec.Table.Headers {
			names[i] = h.Name
		}
		fmt.Fprintln(tw, strings.Join(names, "\t")+"\t")
		for _, row := range sec.Table.Rows {
			cells := make([]string, len(row))
			for i, c := range row {
				cells[i] = c.Text
			}
			fmt.Fprintln(tw, strings.Join(cells, "\t")+"\t")
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}
