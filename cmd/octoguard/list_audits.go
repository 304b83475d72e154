// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/octoguard/octoguard/internal/audit"
	_ "github.com/octoguard/octoguard/internal/audit/rules"
)

func init() {
	rootCmd.AddCommand(listAuditsCmd)
}

var listAuditsCmd = &cobra.Command{
	Use:   "list-audits",
	Short: "Print the registered audit catalogue",
	RunE: func(cmd *cobra.Command, args []string) error {
		audits := audit.All()
		sort.Slice(audits, func(i, j int) bool { return audits[i].ID() < audits[j].ID() })

		tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tKIND")
		for _, a := range audits {
			fmt.Fprintf(tw, "%s\t%s\n", a.ID(), kindName(a.Kind()))
		}
		return tw.Flush()
	},
}

func kindName(k audit.Kind) string {
	switch k {
	case audit.KindAction:
		return "action"
	case audit.KindDependabot:
		return "dependabot"
	default:
		return "workflow"
	}
}
