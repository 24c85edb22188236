package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"goeda/adapters/excel"
	"goeda/adapters/render"
	"goeda/adapters/tabular"
	"goeda/domain/dataset"
	"goeda/domain/views"
	"goeda/internal/analysis"
	"goeda/internal/config"
	"goeda/internal/errors"
	"goeda/internal/report"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "goeda",
		Short:         "Exploratory data analysis for CSV and XLSX files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newInfoCmd(),
		newViewCmd(),
		newReportCmd(),
	)
	return rootCmd
}

func newInfoCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "info [file]",
		Short: "Print shape, types, missing and unique counts of a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := loadTable(args[0])
			if err != nil {
				return err
			}
			return writeResult(cmd.OutOrStdout(), analysis.BasicInfo(table), format)
		},
	}

	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, json or yaml")
	return cmd
}

func newViewCmd() *cobra.Command {
	var sel views.Selection
	var format string
	var outDir string

	cmd := &cobra.Command{
		Use:   "view [file] [view]",
		Short: "Render one analysis view of a dataset",
		Long: `Render one analysis view of a dataset.

Views: basic_info, summary_statistics, correlation_matrix, outlier_detection,
pairplot, scatter_plot, histogram, box_plot. Charts are written as SVG files
into --out when it is set.

Example: goeda view sales.csv scatter_plot --x price --y quantity --out charts`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := views.Parse(args[1])
			if err != nil {
				return errors.InvalidInput(err.Error())
			}
			table, err := loadTable(args[0])
			if err != nil {
				return err
			}

			sel.ColumnsSet = cmd.Flags().Changed("columns")
			res, err := analysis.Dispatch(table, view, sel)
			if err != nil {
				return err
			}
			if err := writeResult(cmd.OutOrStdout(), res, format); err != nil {
				return err
			}
			if outDir == "" {
				return nil
			}
			return writeCharts(cmd.OutOrStdout(), res, outDir)
		},
	}

	cmd.Flags().StringSliceVar(&sel.Columns, "columns", nil, "Columns for outlier_detection and pairplot (comma separated)")
	cmd.Flags().StringVar(&sel.X, "x", "", "X-axis column for scatter_plot")
	cmd.Flags().StringVar(&sel.Y, "y", "", "Y-axis column for scatter_plot")
	cmd.Flags().StringVar(&sel.Column, "column", "", "Column for histogram and box_plot")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, json or yaml")
	cmd.Flags().StringVar(&outDir, "out", "", "Directory to write chart SVGs into")
	return cmd
}

func newReportCmd() *cobra.Command {
	var out string
	var asMarkdown bool

	cmd := &cobra.Command{
		Use:   "report [file]",
		Short: "Write every view of a dataset into one HTML or Markdown report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			table, err := loadTable(args[0])
			if err != nil {
				return err
			}

			builder := report.NewBuilder(render.NewRenderer(cfg.Charts.WidthCm, cfg.Charts.HeightCm), cfg.Report.Workers)
			var doc []byte
			if asMarkdown {
				doc, err = builder.Markdown(cmd.Context(), table)
			} else {
				doc, err = builder.HTML(cmd.Context(), table)
			}
			if err != nil {
				return err
			}

			if out == "" {
				_, err = cmd.OutOrStdout().Write(doc)
				return err
			}
			if err := os.WriteFile(out, doc, 0o644); err != nil {
				return errors.Wrapf(err, "write report %s", out)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "File to write the report to (default stdout)")
	cmd.Flags().BoolVar(&asMarkdown, "markdown", false, "Write Markdown instead of HTML")
	return cmd
}

func loadTable(path string) (*dataset.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, err)
	}
	defer f.Close()

	return tabular.NewLoader(excel.DefaultReaderConfig()).Load(path, f)
}

func writeResult(w io.Writer, res *views.Result, format string) error {
	switch format {
	case "text", "":
		_, err := io.WriteString(w, report.Section(res))
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(res)
	default:
		return errors.InvalidInput(fmt.Sprintf("unknown format %q: use text, json or yaml", format))
	}
}

func writeCharts(w io.Writer, res *views.Result, dir string) error {
	if len(res.Charts) == 0 {
		return nil
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "create %s", dir)
	}

	renderer := render.NewRenderer(cfg.Charts.WidthCm, cfg.Charts.HeightCm)
	for i, spec := range res.Charts {
		svg, err := renderer.RenderSVG(spec)
		if err != nil {
			return err
		}
		path := filepath.Join(dir, fmt.Sprintf("%s-%d.svg", res.View, i))
		if err := os.WriteFile(path, svg, 0o644); err != nil {
			return errors.Wrapf(err, "write %s", path)
		}
		fmt.Fprintf(w, "Chart written to %s\n", path)
	}
	return nil
}
