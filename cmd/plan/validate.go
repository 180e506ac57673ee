package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ha1tch/attackplan/pkg/plan"
)

var errInvalid = errors.New("validation failed")

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a plan file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadPlan(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if err := plan.Validate(doc.Nodes, doc.Edges); err != nil {
			fmt.Fprintf(out, "%s %s\n", bad.Sprint("✗"), args[0])
			fmt.Fprintln(out, err)
			return errInvalid
		}

		fmt.Fprintf(out, "%s %s: %d nodes, %d edges\n",
			good.Sprint("✓"), args[0], len(doc.Nodes), len(doc.Edges))
		return nil
	},
}
