package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ha1tch/attackplan/pkg/plan"
	"github.com/ha1tch/attackplan/pkg/planfile"
)

var (
	exportOutput string
	exportFormat string
	exportTitle  string
	exportWidth  int
)

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export a plan to SVG, PNG or DOT",
	Long: `Export a plan to SVG, PNG or Graphviz DOT.

The format is taken from --format, or from the extension of --output.
Without --output the export is written to stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadPlan(args[0])
		if err != nil {
			return err
		}

		format := strings.ToLower(exportFormat)
		if format == "" {
			if exportOutput == "" {
				return fmt.Errorf("--format is required when writing to stdout")
			}
			if format, err = planfile.FormatFromPath(exportOutput); err != nil {
				return err
			}
		}

		title := exportTitle
		if title == "" {
			title = doc.Name
		}

		if exportOutput == "" {
			return writeExport(cmd.OutOrStdout(), format, doc.Graph(), title)
		}

		f, err := os.Create(exportOutput)
		if err != nil {
			return err
		}
		if err := writeExport(f, format, doc.Graph(), title); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		logger.Debug("exported plan", "format", format, "path", exportOutput)
		fmt.Fprintf(cmd.ErrOrStderr(), "%s wrote %s\n", good.Sprint("✓"), exportOutput)
		return nil
	},
}

func writeExport(w io.Writer, format string, g *plan.Graph, title string) error {
	switch format {
	case planfile.FormatSVG:
		opts := planfile.DefaultSVGOptions()
		opts.Title = title
		opts.Width = exportWidth
		_, err := io.WriteString(w, planfile.GenerateSVG(g, opts))
		return err
	case planfile.FormatPNG:
		opts := planfile.DefaultPNGOptions()
		opts.Title = title
		if exportWidth > 0 {
			opts.Width = exportWidth
		}
		return planfile.RenderPNG(g, w, opts)
	}
	return planfile.Export(g, format, w, title)
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "svg, png or dot")
	exportCmd.Flags().StringVar(&exportTitle, "title", "", "diagram title (default: plan name)")
	exportCmd.Flags().IntVar(&exportWidth, "width", 0, "maximum width in pixels for svg and png")
}
