package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shanawarAnsari/intelliplan-sub001/internal/exporter"
	"github.com/shanawarAnsari/intelliplan-sub001/internal/middleware"
	"github.com/shanawarAnsari/intelliplan-sub001/internal/services"
	api "github.com/shanawarAnsari/intelliplan-sub001/pkg/contracts/api/v1"
)

type exportOptions struct {
	selection selectionFlags
	columns   []string
	format    string
	output    string
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	var eo exportOptions

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the forecast view as CSV or XLSX into the reports directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, opts, eo)
		},
	}

	eo.selection.register(cmd)
	cmd.Flags().StringSliceVar(&eo.columns, "columns", nil, "Column ids to export in order (default: every column)")
	cmd.Flags().StringVar(&eo.format, "format", "csv", "Output format: csv or xlsx")
	cmd.Flags().StringVarP(&eo.output, "output", "o", "", "Output file; relative names go to the reports directory (default: run_rate_export_<date>)")

	return cmd
}

func runExport(cmd *cobra.Command, opts *rootOptions, eo exportOptions) error {
	compute, err := eo.selection.request()
	if err != nil {
		return err
	}

	req := api.ExportRequest{ComputeRequest: compute}
	for _, c := range eo.columns {
		req.Columns = append(req.Columns, strings.ToUpper(strings.TrimSpace(c)))
	}
	if err := middleware.ValidateStruct(middleware.NewValidator(), req); err != nil {
		return describeError(err)
	}

	q := services.QueryFromRequest(req.ComputeRequest, req.Columns)

	var res services.ExportResult
	switch strings.ToLower(eo.format) {
	case "csv":
		res, err = opts.service.Export(cmd.Context(), q)
	case "xlsx":
		res, err = opts.service.ExportXLSX(cmd.Context(), q)
	default:
		return fmt.Errorf("unsupported --format %q: expected csv or xlsx", eo.format)
	}
	if err != nil {
		return err
	}

	name := eo.output
	if name == "" {
		name = res.Filename
	}

	// Workbooks never carry a BOM.
	bom := opts.cfg.Forecast.ExportBOM && res.ContentType == services.ContentTypeCSV
	path, err := exporter.NewCSVWriter(opts.paths, opts.logger).WriteFile(name, res.Data, exporter.WriteOptions{BOMPrefix: bom})
	if err != nil {
		return err
	}

	opts.logger.InfoContext(cmd.Context(), "export written",
		slog.String("export_id", res.ID),
		slog.String("path", path),
		slog.Int("rows", res.Rows))
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}
