package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"assetdesk/internal/common"
	"assetdesk/internal/reports"
	"assetdesk/internal/services"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <assets|maintenances|transfers>",
		Short: "Build a report and write it to disk",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer a.close()

			flags := cmd.Flags()
			formatFlag, _ := flags.GetString("format")
			startFlag, _ := flags.GetString("start")
			endFlag, _ := flags.GetString("end")
			category, _ := flags.GetString("category")
			outDir, _ := flags.GetString("out")
			archive, _ := flags.GetBool("archive")
			requestedBy, _ := flags.GetString("requested-by")

			format, err := reports.ParseFormat(formatFlag)
			if err != nil {
				return err
			}
			start, err := common.ParseDate(startFlag, "start", a.location)
			if err != nil {
				return err
			}
			end, err := common.ParseDate(endFlag, "end", a.location)
			if err != nil {
				return err
			}

			var minioSvc services.MinioService
			if archive {
				if minioSvc, err = a.minio(); err != nil {
					return err
				}
			}
			if _, err := a.datasets.Reload(cmd.Context()); err != nil {
				return err
			}

			reportSvc := services.NewReportService(a.datasets, minioSvc, a.archiveConfig(), a.logger)
			result, err := reportSvc.Generate(cmd.Context(), services.ReportRequest{
				Entity:      args[0],
				Format:      format,
				Criteria:    reports.Criteria{Start: start, End: end, Category: category},
				RequestedBy: requestedBy,
				Archive:     archive,
			})
			if err != nil {
				return err
			}

			path := filepath.Join(outDir, result.FileName)
			if err := os.WriteFile(path, result.Data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			a.logger.Info("report written", zap.String("path", path), zap.Int("records", result.Records), zap.String("archive_key", result.ArchiveKey))
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().String("format", string(reports.FormatPDF), "pdf or xlsx")
	cmd.Flags().String("start", "", "First day, YYYY-MM-DD")
	cmd.Flags().String("end", "", "Last day, YYYY-MM-DD")
	cmd.Flags().String("category", reports.AllCategories, "Category value or 'all'")
	cmd.Flags().String("out", ".", "Output directory")
	cmd.Flags().Bool("archive", false, "Also upload the report to the archive bucket")
	cmd.Flags().String("requested-by", "cli", "Name stamped on the report")
	return cmd
}
