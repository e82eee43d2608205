package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pierreQuevedo/digitaljouss-crm-sub000/internal/logger"
	"github.com/pierreQuevedo/digitaljouss-crm-sub000/internal/sheets"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export reminders and delay statistics to Google Sheets",
	Long: `Compute the reminder list and the first-payment delay statistics and
append them to the "Relances" and "Delais" worksheets of the spreadsheet in
GOOGLE_SHEET_URL. Missing worksheets are created with a header row.

Required environment variables:
  GOOGLE_SHEET_URL - URL of the target spreadsheet
  GOOGLE_APPLICATION_CREDENTIALS - Path to service account JSON file, OR
  GOOGLE_CREDENTIALS - Inline JSON credentials string`,
	Example: `  crm export
  crm export --today 2024-06-30 --dry-run`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	addThresholdFlags(exportCmd)
	exportCmd.Flags().Bool("dry-run", false, "Compute the rows but don't write to the spreadsheet")
}

func runExport(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("export")

	dryRun, _ := cmd.Flags().GetBool("dry-run")

	today, err := parseToday(cmd)
	if err != nil {
		return err
	}

	cfg := appConfig()
	if !dryRun {
		if err := cfg.RequireSheet(); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	src, closeSrc, err := openSource(ctx, cmd, cfg)
	if err != nil {
		return err
	}
	defer closeSrc()

	list, _, err := buildRelances(ctx, cmd, src, cfg, today)
	if err != nil {
		return err
	}
	stats, err := buildDelays(ctx, src)
	if err != nil {
		return err
	}

	tables := []struct {
		sheet string
		table sheets.Table
	}{
		{sheets.RelancesSheet, sheets.RelanceRows(list, today)},
		{sheets.DelaysSheet, sheets.DelayRows(stats)},
	}

	if dryRun {
		for _, t := range tables {
			log.Info().
				Str("sheet", t.sheet).
				Int("rows", len(t.table.Rows)).
				Msg("Dry run, nothing written")
			fmt.Printf("%s: %d ligne(s)\n", t.sheet, len(t.table.Rows))
		}
		return nil
	}

	sheetsService, err := sheets.NewSheetsService(ctx, cfg.GoogleSheetURL)
	if err != nil {
		return fmt.Errorf("failed to initialize Google Sheets service: %w", err)
	}

	for _, t := range tables {
		if err := sheetsService.WriteTable(ctx, t.sheet, t.table); err != nil {
			return fmt.Errorf("failed to export %s: %w", t.sheet, err)
		}
		fmt.Printf("%s: %d ligne(s) exportée(s)\n", t.sheet, len(t.table.Rows))
	}

	log.Info().Msg("Export completed successfully")
	return nil
}
