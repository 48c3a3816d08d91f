package dataprocessing

import (
	"context"
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"ecomkpi/internal/config"
	"ecomkpi/internal/errors"
	"ecomkpi/internal/frame"
	"ecomkpi/pkg/contracts/domain"
)

// utf8BOM is stripped from the first header cell of CSV sources
const utf8BOM = "\ufeff"

// Datasets holds the three loaded extracts
type Datasets struct {
	Orders     *frame.Frame
	OrderItems *frame.Frame
	Customers  *frame.Frame
}

// Loader reads the raw extracts into frames
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a loader
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load reads every source. All sources are checked for existence before any
// is read; each missing one yields its own MISSING_SOURCE error and the
// errors are joined. Any other read or parse failure is a LOAD error.
// Nothing is returned unless all three datasets loaded.
func (l *Loader) Load(ctx context.Context, sources []config.Source) (*Datasets, error) {
	var missing []error
	for _, src := range sources {
		if _, err := os.Stat(src.Path); err != nil {
			if stderrors.Is(err, fs.ErrNotExist) {
				l.logger.ErrorContext(ctx, "Source file not found",
					slog.String("dataset", string(src.Dataset)),
					slog.String("file", filepath.Base(src.Path)),
					slog.String("path", src.Path))
				missing = append(missing, errors.NewMissingSourceError(string(src.Dataset), src.Path))
				continue
			}
			return nil, errors.NewLoadError(string(src.Dataset), src.Path, err)
		}
	}
	if len(missing) > 0 {
		return nil, stderrors.Join(missing...)
	}

	ds := &Datasets{}
	for _, src := range sources {
		f, err := readSource(src.Path)
		if err != nil {
			l.logger.ErrorContext(ctx, "Failed to load source",
				slog.String("dataset", string(src.Dataset)),
				slog.String("path", src.Path),
				slog.String("error", err.Error()))
			return nil, errors.NewLoadError(string(src.Dataset), src.Path, err)
		}

		l.logger.InfoContext(ctx, "Dataset loaded",
			slog.String("dataset", string(src.Dataset)),
			slog.Int("rows", f.Len()),
			slog.Int("columns", len(f.Columns())))

		switch src.Dataset {
		case domain.DatasetOrders:
			ds.Orders = f
		case domain.DatasetOrderItems:
			ds.OrderItems = f
		case domain.DatasetCustomers:
			ds.Customers = f
		default:
			return nil, errors.NewLoadError(string(src.Dataset), src.Path, fmt.Errorf("unknown dataset"))
		}
	}

	if ds.Orders == nil || ds.OrderItems == nil || ds.Customers == nil {
		return nil, errors.NewAppError(errors.ErrTypeLoad, "orders, order_items and customers sources are all required", nil)
	}
	return ds, nil
}

// readSource dispatches on the file extension
func readSource(path string) (*frame.Frame, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return readXLSX(path)
	}
	return readCSV(path)
}

func readCSV(path string) (*frame.Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return parseCSV(file)
}

func parseCSV(r io.Reader) (*frame.Frame, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("parse csv: no header row")
	}

	header := records[0]
	header[0] = strings.TrimPrefix(header[0], utf8BOM)
	return frame.FromRecords(header, records[1:])
}

// readXLSX reads the first sheet of a workbook; row 1 is the header. Short
// rows are padded with empty cells, a row wider than the header is an error.
func readXLSX(path string) (*frame.Frame, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %s: no header row", sheets[0])
	}

	header := rows[0]
	records := make([][]string, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) > len(header) {
			return nil, fmt.Errorf("sheet %s row %d: %w (got %d, want %d)", sheets[0], i+2, frame.ErrRowWidth, len(row), len(header))
		}
		// excelize drops trailing empty cells
		padded := make([]string, len(header))
		copy(padded, row)
		records = append(records, padded)
	}
	return frame.FromRecords(header, records)
}
