package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/formwork/pkg/element"
	ferrors "github.com/matzehuels/formwork/pkg/errors"
	"github.com/matzehuels/formwork/pkg/io"
	"github.com/matzehuels/formwork/pkg/layout"
	"github.com/matzehuels/formwork/pkg/session"
	"github.com/matzehuels/formwork/pkg/store"
	"github.com/matzehuels/formwork/pkg/template"
)

// newSession starts an editing session over d configured from cfg.
func (c *CLI) newSession(ctx context.Context, cfg *Config, d *template.Definition, opts ...session.Option) *session.Session {
	base := []session.Option{
		session.WithLogger(loggerFromContext(ctx)),
		session.WithLayoutOptions(cfg.Layout),
		session.WithMeasurer(cfg.measurer()),
	}
	return session.New(d, append(base, opts...)...)
}

// =============================================================================
// new
// =============================================================================

func (c *CLI) newCommand() *cobra.Command {
	var (
		output    string
		size      string
		landscape bool
		margin    float64
	)

	cmd := &cobra.Command{
		Use:   "new <name>",
		Short: "Create an empty template",
		Long: `Create an empty template file.

Page size, orientation and margins default to the [page] section of the
config file. Known page sizes: A3, A4, A5, Letter, Legal.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if size == "" {
				size = cfg.Page.Size
			}
			ps, ok := template.LookupPageSize(size)
			if !ok {
				return ferrors.New(ferrors.ErrCodeInvalidInput, "unknown page size %q", size)
			}
			o := cfg.Page.Orientation
			if landscape {
				o = template.Landscape
			}
			if !cmd.Flags().Changed("margin") {
				margin = cfg.Page.Margin
			}

			d := template.New(args[0], ps, o)
			d.Margins = template.UniformMargins(margin)
			if err := d.Validate(); err != nil {
				return err
			}
			if output == "" {
				output = args[0] + ".json"
			}
			if err := io.ExportJSON(d, output); err != nil {
				return err
			}

			printSuccess("Created %s", StyleHighlight.Render(d.Name))
			printDetail("%s %s, %g x %g pt", ps.Name, o, d.PageWidth, d.PageHeight)
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <name>.json)")
	cmd.Flags().StringVar(&size, "page", "", "page size")
	cmd.Flags().BoolVar(&landscape, "landscape", false, "landscape orientation")
	cmd.Flags().Float64Var(&margin, "margin", 0, "uniform page margin in points")

	return cmd
}

// =============================================================================
// variants
// =============================================================================

func (c *CLI) variantsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "variants",
		Short: "List the element kinds a template can hold",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := element.NewRegistry()
			t := newTable("KIND", "NAME", "CATEGORY", "DEFAULT SIZE", "PROPERTIES")
			for _, v := range reg.Variants() {
				el := v.Factory()
				t.Row(
					string(v.Kind),
					v.DisplayName,
					string(v.Category),
					fmt.Sprintf("%g x %g", el.Width, el.Height),
					strconv.Itoa(len(element.Properties(v.Kind))),
				)
			}
			fmt.Println(t)
			return nil
		},
	}
}

// =============================================================================
// validate
// =============================================================================

func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>...",
		Short: "Check templates for structural errors",
		Long: `Check templates for structural errors.

Every problem in a template is reported, not just the first. Elements that
extend past the page are reported as warnings and do not fail validation.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, path := range args {
				d, err := io.ImportJSON(path, io.WithValidation())
				if err != nil {
					failed++
					printError("%s", path)
					for _, line := range errorLines(err) {
						printDetail("%s", line)
					}
					continue
				}
				printSuccess("%s %s", path, StyleDim.Render(fmt.Sprintf("(%d elements)", d.Len())))
				for _, el := range d.OutOfBounds() {
					printWarning("%s %s extends past the page", el.Kind, el.ID)
				}
			}
			if failed > 0 {
				return ferrors.New(ferrors.ErrCodeValidation, "%d of %d templates invalid", failed, len(args))
			}
			return nil
		},
	}
}

// errorLines flattens joined errors into one message per line.
func errorLines(err error) []string {
	var multi interface{ Unwrap() []error }
	if !errors.As(err, &multi) {
		return []string{ferrors.UserMessage(err)}
	}
	var lines []string
	for _, e := range multi.Unwrap() {
		lines = append(lines, errorLines(e)...)
	}
	return lines
}

// =============================================================================
// layout
// =============================================================================

func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output       string
		distribution string
		measurer     string
		force        bool
	)

	cmd := &cobra.Command{
		Use:   "layout <file>",
		Short: "Compute table column widths and row heights",
		Long: `Compute table column widths and row heights and store them in the template.

Only tables whose content, geometry or layout options changed since the last
run are recomputed, unless --force is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if distribution != "" {
				cfg.Layout.Distribution = layout.Distribution(distribution)
			}
			if measurer != "" {
				cfg.Measurer = measurer
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			d, err := io.ImportJSON(args[0], io.WithValidation())
			if err != nil {
				return err
			}
			if force {
				for _, el := range d.Tables() {
					el.Table.LayoutKey = ""
				}
			}

			ctx := cmd.Context()
			prog := newProgress(loggerFromContext(ctx))
			sess := c.newSession(ctx, cfg, d)
			defer sess.Close()
			updated, err := sess.Layout(ctx)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Laid out %d tables", len(updated)))

			if len(updated) == 0 {
				printInfo("All tables are up to date")
				return nil
			}
			out := outputPath(args[0], output)
			if err := io.ExportJSON(d, out); err != nil {
				return err
			}
			printSuccess("Laid out %d tables", len(updated))
			for _, el := range updated {
				printKeyValue(shortID(el.ID), "columns "+formatVector(el.Table.ColumnWidths))
				printKeyValue("", "rows    "+formatVector(el.Table.RowHeights))
			}
			printFile(out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: edit in place)")
	cmd.Flags().StringVar(&distribution, "distribution", "", "slack distribution: proportional, equal, none")
	cmd.Flags().StringVar(&measurer, "measurer", "", "text measurer: font, rune")
	cmd.Flags().BoolVar(&force, "force", false, "recompute every table")

	return cmd
}

func formatVector(v []float64) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = strconv.FormatFloat(x, 'f', 1, 64)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// =============================================================================
// apply
// =============================================================================

func (c *CLI) applyCommand() *cobra.Command {
	var (
		output     string
		autoLayout bool
		autosave   bool
		dryRun     bool
	)

	cmd := &cobra.Command{
		Use:   "apply <file> <script.toml>",
		Short: "Run a TOML edit script against a template",
		Long: `Run a TOML edit script against a template.

Each [[op]] table in the script is one undoable edit. Supported actions:
add, set, remove, duplicate, cell, insert-row, delete-row, insert-column,
delete-column, front, back, forward, backward, undo, redo and layout.

With --autosave the template is also written to the configured store after
every edit.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			d, err := io.ImportJSON(args[0], io.WithValidation())
			if err != nil {
				return err
			}
			src, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("read script: %w", err)
			}
			script, err := ParseScript(string(src))
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			opts := []session.Option{session.WithAutoLayout(autoLayout)}
			if autosave && !dryRun {
				st, err := store.Open(ctx, cfg.Store)
				if err != nil {
					return err
				}
				defer st.Close()
				opts = append(opts, session.WithAutosaver(session.NewAutosaver(st, session.WithAutosaveLogger(logger))))
			}

			sess := c.newSession(ctx, cfg, d, opts...)
			n, runErr := script.Run(ctx, sess)
			if err := sess.Close(); err != nil {
				logger.Warn("autosave failed", "err", err)
			}
			if runErr != nil {
				printError("Applied %d of %d ops", n, len(script.Ops))
				return runErr
			}

			printSuccess("Applied %d ops", n)
			printDetail("%d undoable edits, %d elements", sess.History().UndoLen(), d.Len())
			if dryRun {
				printInfo("Dry run, template not written")
				return nil
			}
			out := outputPath(args[0], output)
			if err := io.ExportJSON(d, out); err != nil {
				return err
			}
			printFile(out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: edit in place)")
	cmd.Flags().BoolVar(&autoLayout, "layout", false, "lay out tables after every edit")
	cmd.Flags().BoolVar(&autosave, "autosave", false, "save to the configured store after every edit")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "run the script without writing the result")

	return cmd
}
