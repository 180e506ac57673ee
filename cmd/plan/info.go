package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ha1tch/attackplan/pkg/plan"
	"github.com/ha1tch/attackplan/pkg/planfile"
)

type planInfo struct {
	Name        string         `json:"name,omitempty"`
	Description string         `json:"description,omitempty"`
	Nodes       map[string]int `json:"nodes"`
	Edges       int            `json:"edges"`
	Dangling    []string       `json:"dangling,omitempty"`
	Placeholder []string       `json:"placeholders,omitempty"`
}

func collectInfo(doc *planfile.Document) planInfo {
	info := planInfo{
		Name:        doc.Name,
		Description: doc.Description,
		Nodes:       make(map[string]int),
		Edges:       len(doc.Edges),
	}
	ids := make(map[string]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		ids[n.ID()] = true
		info.Nodes[string(n.Kind())]++
		if n.Data == nil {
			info.Placeholder = append(info.Placeholder, n.ID())
		}
	}
	for _, e := range doc.Edges {
		if !ids[e.Source] || !ids[e.Target] {
			info.Dangling = append(info.Dangling, e.ID)
		}
	}
	return info
}

var infoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "Show plan information",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadPlan(args[0])
		if err != nil {
			return err
		}
		info := collectInfo(doc)
		out := cmd.OutOrStdout()

		if jsonOutput {
			data, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		if info.Name != "" {
			fmt.Fprintf(out, "Name:        %s\n", bold.Sprint(info.Name))
		}
		if info.Description != "" {
			fmt.Fprintf(out, "Description: %s\n", info.Description)
		}
		fmt.Fprintf(out, "Phases:      %d\n", info.Nodes[string(plan.KindPhase)])
		fmt.Fprintf(out, "Techniques:  %d\n", info.Nodes[string(plan.KindTechnique)])
		fmt.Fprintf(out, "Text boxes:  %d\n", info.Nodes[string(plan.KindText)])
		fmt.Fprintf(out, "Edges:       %d\n", info.Edges)
		if len(info.Dangling) > 0 {
			fmt.Fprintf(out, "Dangling:    %s\n", warn.Sprint(info.Dangling))
		}
		if len(info.Placeholder) > 0 {
			fmt.Fprintf(out, "No data:     %s\n", subtle.Sprint(info.Placeholder))
		}
		return nil
	},
}
