package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/cricketml/prematch/internal/artifact"
	"github.com/cricketml/prematch/internal/form"
	"github.com/cricketml/prematch/internal/handlers"
	"github.com/cricketml/prematch/internal/logic"
)

var inspectRows int

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print the dataset summary, the form fields and a preview",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if inspectRows < 1 || inspectRows > handlers.MaxPreviewRows {
			return fmt.Errorf("--rows must be between 1 and %d", handlers.MaxPreviewRows)
		}
		bundle, err := artifact.Load(cmd.Context(), artifactOptions(cfg), logger)
		if err != nil {
			return fmt.Errorf("load artifacts: %w", err)
		}
		writeInspect(cmd.OutOrStdout(), bundle, inspectRows)
		return nil
	},
}

func init() {
	inspectCmd.Flags().IntVarP(&inspectRows, "rows", "n", logic.DefaultPreviewRows, "number of dataset rows to preview")
}

func writeInspect(w io.Writer, bundle *artifact.Bundle, rows int) {
	ds := logic.NewDatasetService(bundle)

	summary := ds.Summary()
	fmt.Fprintf(w, "Rows: %d\nFeatures: %d\nMissing Values: %d\n", summary.Rows, summary.Features, summary.MissingValues)
	fmt.Fprintf(w, "Model inputs: %d columns\n\n", len(bundle.FeatureColumns))

	fields := tablewriter.NewWriter(w)
	fields.SetHeader([]string{"Column", "Label", "Kind", "Options / Default"})
	fields.SetBorder(false)
	fields.SetAutoWrapText(false)
	fields.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	fields.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, f := range ds.Fields() {
		fields.Append([]string{f.Column, f.Label, string(f.Kind), describeField(f)})
	}
	fields.Render()
	fmt.Fprintln(w)

	preview := ds.Preview(rows)
	table := tablewriter.NewWriter(w)
	table.SetHeader(preview.Columns)
	table.SetBorder(false)
	table.SetAutoFormatHeaders(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, r := range preview.Rows {
		table.Append(r)
	}
	table.Render()
}

func describeField(f form.Field) string {
	if f.Kind == form.KindNumber {
		return strconv.FormatFloat(f.Default, 'f', 2, 64)
	}
	labels := make([]string, len(f.Options))
	for i, o := range f.Options {
		labels[i] = o.Label
	}
	return strings.Join(labels, ", ")
}
