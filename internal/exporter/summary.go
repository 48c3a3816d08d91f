package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"ecomkpi/internal/errors"
	"ecomkpi/pkg/contracts/domain"
)

// SummaryExporter writes the KPI summary table as CSV and as a workbook
type SummaryExporter struct {
	csvWriter *CSVWriter
	sheet     string
	logger    *slog.Logger
}

// NewSummaryExporter creates a summary exporter writing workbooks with the
// given sheet name
func NewSummaryExporter(logger *slog.Logger, sheet string) *SummaryExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SummaryExporter{
		csvWriter: NewCSVWriter(logger),
		sheet:     sheet,
		logger:    logger,
	}
}

// ExportCSV writes the summary table to path
func (e *SummaryExporter) ExportCSV(ctx context.Context, path string, summary domain.KPISummary) error {
	table := summary.Table()
	records := make([][]string, 0, len(table))
	for _, m := range table {
		records = append(records, []string{m.Name, formatDecimal(m.Value)})
	}

	if err := e.csvWriter.WriteCSV(path, WriteOptions{Headers: domain.SummaryHeaders, Records: records}); err != nil {
		return errors.NewExportError(path, err)
	}

	e.logger.InfoContext(ctx, "KPI summary written", slog.String("path", path))
	return nil
}

// ExportXLSX writes the summary table to a single-sheet workbook at path
func (e *SummaryExporter) ExportXLSX(ctx context.Context, path string, summary domain.KPISummary) error {
	if err := e.writeWorkbook(path, summary.Table()); err != nil {
		return errors.NewExportError(path, err)
	}

	e.logger.InfoContext(ctx, "KPI workbook written",
		slog.String("path", path),
		slog.String("sheet", e.sheet))
	return nil
}

// Export writes both summary files. Each failure is returned and neither
// stops the other.
func (e *SummaryExporter) Export(ctx context.Context, csvPath, xlsxPath string, summary domain.KPISummary) []error {
	var errs []error
	if err := e.ExportCSV(ctx, csvPath, summary); err != nil {
		errs = append(errs, err)
	}
	if err := e.ExportXLSX(ctx, xlsxPath, summary); err != nil {
		errs = append(errs, err)
	}
	return errs
}

func (e *SummaryExporter) writeWorkbook(path string, table []domain.KPIMetric) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), e.sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]interface{}, len(domain.SummaryHeaders))
	for i, h := range domain.SummaryHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(e.sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	if err := f.SetCellStyle(e.sheet, "A1", "B1", boldStyle); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	valueStyle, err := f.NewStyle(&excelize.Style{NumFmt: summaryNumFmt})
	if err != nil {
		return fmt.Errorf("create value style: %w", err)
	}

	for i, m := range table {
		row := i + 2
		if err := f.SetCellValue(e.sheet, fmt.Sprintf("A%d", row), m.Name); err != nil {
			return fmt.Errorf("write row %d: %w", row, err)
		}
		cell := fmt.Sprintf("B%d", row)
		if err := f.SetCellValue(e.sheet, cell, cellValue(m.Value)); err != nil {
			return fmt.Errorf("write row %d: %w", row, err)
		}
		if err := f.SetCellStyle(e.sheet, cell, cell, valueStyle); err != nil {
			return fmt.Errorf("style row %d: %w", row, err)
		}
	}

	if err := f.SetColWidth(e.sheet, "A", "A", 24); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return f.SaveAs(path)
}
