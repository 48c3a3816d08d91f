package exporter

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"ecomkpi/internal/errors"
	"ecomkpi/internal/frame"
)

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{logger: logger}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes headers and records to path, replacing any existing file
func (w *CSVWriter) WriteCSV(path string, options WriteOptions) error {
	stream, err := w.CreateStreamWriter(path, options.Headers, options.BOMPrefix)
	if err != nil {
		return err
	}

	for i, record := range options.Records {
		if err := stream.WriteRecord(record); err != nil {
			stream.Close()
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	return stream.Close()
}

// WriteFrame writes every column and row of f to path. There is no index
// column; null cells are written empty. A failure is returned as an EXPORT
// error naming the destination.
func (w *CSVWriter) WriteFrame(ctx context.Context, path string, f *frame.Frame) error {
	w.logger.InfoContext(ctx, "Writing CSV file",
		slog.String("path", path),
		slog.Int("record_count", f.Len()),
		slog.Int("column_count", len(f.Columns())))

	stream, err := w.CreateStreamWriter(path, f.Columns(), false)
	if err != nil {
		return errors.NewExportError(path, err)
	}

	record := make([]string, len(f.Columns()))
	for i := 0; i < f.Len(); i++ {
		row := f.Row(i)
		for c, name := range f.Columns() {
			record[c] = row.Get(name).Text()
		}
		if err := stream.WriteRecord(record); err != nil {
			stream.Close()
			return errors.NewExportError(path, fmt.Errorf("failed to write record %d: %w", i, err))
		}
	}

	if err := stream.Close(); err != nil {
		return errors.NewExportError(path, err)
	}
	return nil
}

// StreamWriter provides streaming CSV writing for large datasets
type StreamWriter struct {
	file   *os.File
	writer *csv.Writer
}

// CreateStreamWriter creates the file at path, writes the optional BOM and
// the header row, and returns a writer for the data rows
func (w *CSVWriter) CreateStreamWriter(path string, headers []string, bom bool) (*StreamWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	if bom {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)
	if len(headers) > 0 {
		if err := writer.Write(headers); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to write headers: %w", err)
		}
	}

	return &StreamWriter{file: file, writer: writer}, nil
}

// WriteRecord writes a single record to the stream
func (s *StreamWriter) WriteRecord(record []string) error {
	return s.writer.Write(record)
}

// Close flushes and closes the stream writer
func (s *StreamWriter) Close() error {
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}
