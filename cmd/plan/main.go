// Command plan inspects, validates and exports attack-plan documents.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ha1tch/attackplan/pkg/planfile"
)

var (
	verbose    bool
	jsonOutput bool

	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
)

// Output colours.
var (
	bold   = color.New(color.Bold)
	subtle = color.New(color.FgHiBlack)
	good   = color.New(color.FgGreen)
	bad    = color.New(color.FgRed)
	warn   = color.New(color.FgYellow)
)

var rootCmd = &cobra.Command{
	Use:           "plan <command>",
	Short:         "Attack plan toolkit",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	},
	Example: `  plan info attack.json
  plan validate attack.json
  plan export attack.json -o attack.svg
  plan arrange attack.json --layout phases
  plan palette custom.yaml`,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(paletteCmd)
	rootCmd.AddCommand(arrangeCmd)
}

func loadPlan(path string) (*planfile.Document, error) {
	doc, err := planfile.ReadFile(path, logger)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded plan", "path", path, "nodes", len(doc.Nodes), "edges", len(doc.Edges))
	return doc, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", bad.Sprint("Error:"), err)
		os.Exit(1)
	}
}
