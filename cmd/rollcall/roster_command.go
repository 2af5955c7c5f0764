package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"rollcall/internal/model"
	"rollcall/internal/parser"
)

func newRosterCommand() *cobra.Command {
	rosterCmd := &cobra.Command{
		Use:   "roster",
		Short: "Inspect roster files",
	}
	rosterCmd.AddCommand(newRosterInspectCommand())
	return rosterCmd
}

func newRosterInspectCommand() *cobra.Command {
	var sheet string

	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Parse a roster file and print the records it would load",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			var result *parser.ParseResult
			if sheet != "" {
				result, err = parser.ParseWorkbook(f, sheet)
			} else {
				result, err = parser.ParseFile(filepath.Base(path), f)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"#", "Student Number", "Name", "Email Address"},
				rosterRows(result.Records),
				[]columnAlignment{alignRight},
			))
			fmt.Fprintf(out, "Records: %d  Skipped (empty Student Number): %d\n", len(result.Records), result.SkippedRows)
			for _, w := range result.Warnings {
				fmt.Fprintf(out, "Warning: %s\n", w)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sheet, "sheet", "", "Worksheet name for .xlsx rosters (default: first sheet)")
	return cmd
}

func rosterRows(records []model.Record) [][]string {
	rows := make([][]string, 0, len(records))
	for i, r := range records {
		rows = append(rows, []string{strconv.Itoa(i + 1), r.ID, r.DisplayName, r.Fields.Get(model.ColEmailAddress)})
	}
	return rows
}
