package main

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/ByLCY/asslint/checks"
)

func newChecksCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "checks",
		Short: "列出全部检查及其运行顺序",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := table.NewWriter()
			tw.SetStyle(table.StyleRounded)
			tw.AppendHeader(table.Row{"#", "Check", "Kind", "Thorough"})
			for i, reg := range checks.Registrations() {
				thorough := ""
				if reg.Thorough {
					thorough = "--full"
				}
				tw.AppendRow(table.Row{i + 1, reg.Name, reg.Kind.String(), thorough})
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), tw.Render())
			return err
		},
	}
}
