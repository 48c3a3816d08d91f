package config

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"ecomkpi/pkg/contracts/domain"
)

// Paths holds every file location of a run, resolved against one base directory
type Paths struct {
	BaseDir string

	OrdersFile     string
	OrderItemsFile string
	CustomersFile  string

	ProcessedCSV string
	SummaryCSV   string
	SummaryXLSX  string
	MetricsFile  string
}

// Source is one input extract and its resolved location
type Source struct {
	Dataset domain.Dataset
	Path    string
}

// NewPaths resolves all input and output locations under baseDir
func NewPaths(baseDir string) (*Paths, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("base directory is empty")
	}
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory %s: %w", baseDir, err)
	}

	return &Paths{
		BaseDir:        abs,
		OrdersFile:     filepath.Join(abs, OrdersFileName),
		OrderItemsFile: filepath.Join(abs, OrderItemsFileName),
		CustomersFile:  filepath.Join(abs, CustomersFileName),
		ProcessedCSV:   filepath.Join(abs, ProcessedFileName),
		SummaryCSV:     filepath.Join(abs, SummaryCSVFileName),
		SummaryXLSX:    filepath.Join(abs, SummaryXLSXFileName),
		MetricsFile:    filepath.Join(abs, MetricsFileName),
	}, nil
}

// Sources lists the three extracts in load order
func (p *Paths) Sources() []Source {
	return []Source{
		{Dataset: domain.DatasetOrders, Path: p.OrdersFile},
		{Dataset: domain.DatasetOrderItems, Path: p.OrderItemsFile},
		{Dataset: domain.DatasetCustomers, Path: p.CustomersFile},
	}
}

// LogPathResolution logs all resolved paths for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	logger.Debug("Resolved pipeline paths",
		slog.String("base_dir", p.BaseDir),
		slog.String("orders", p.OrdersFile),
		slog.String("order_items", p.OrderItemsFile),
		slog.String("customers", p.CustomersFile),
		slog.String("processed_csv", p.ProcessedCSV),
		slog.String("summary_csv", p.SummaryCSV),
		slog.String("summary_xlsx", p.SummaryXLSX))
}
