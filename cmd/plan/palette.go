package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ha1tch/attackplan/pkg/plan"
	"github.com/ha1tch/attackplan/pkg/planfile"
	"github.com/ha1tch/attackplan/pkg/render"
)

var paletteCmd = &cobra.Command{
	Use:   "palette [catalog.yaml]",
	Short: "List palette entries (built-in catalog by default)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := planfile.DefaultCatalog()
		if len(args) == 1 {
			var err error
			if c, err = planfile.LoadCatalog(args[0]); err != nil {
				return err
			}
		}
		out := cmd.OutOrStdout()

		if jsonOutput {
			data, err := json.MarshalIndent(c, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		var kind plan.Kind
		for _, e := range c.Entries() {
			if e.Descriptor.Kind != kind {
				kind = e.Descriptor.Kind
				fmt.Fprintln(out, bold.Sprint(strings.ToUpper(string(kind[:1]))+string(kind[1:])+"s"))
			}
			icon := " "
			if d, ok := e.Descriptor.Data.(*plan.PhaseData); ok {
				icon = render.Icon(d.IconName)
			}
			fmt.Fprintf(out, "  %s %-32s %s\n", icon, e.Label, subtle.Sprint(e.Detail))
		}
		return nil
	},
}
