package pipeline

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"ecomkpi/internal/config"
	"ecomkpi/internal/dataprocessing"
	"ecomkpi/internal/errors"
	"ecomkpi/internal/exporter"
	"ecomkpi/internal/files"
	"ecomkpi/internal/frame"
	"ecomkpi/internal/infrastructure"
	"ecomkpi/pkg/contracts/domain"
)

// Result is the outcome of one run
type Result struct {
	RunID   string
	Paths   *config.Paths
	Fact    *frame.Frame
	Summary domain.KPISummary
	Stages  []*StageState

	// AbsentColumns lists expected columns missing from the extracts
	AbsentColumns []string

	// ExportErrors are the non-fatal output failures of the run
	ExportErrors []error
}

// Stage returns the state of the stage with the given id, or nil
func (r *Result) Stage(id string) *StageState {
	for _, s := range r.Stages {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// Pipeline runs the ETL stages in a fixed order over one base directory
type Pipeline struct {
	cfg       *config.Config
	logger    *slog.Logger
	telemetry *infrastructure.Telemetry

	loader     *dataprocessing.Loader
	normalizer *dataprocessing.Normalizer
	joiner     *dataprocessing.Joiner
	csvWriter  *exporter.CSVWriter
	summary    *exporter.SummaryExporter
}

// New creates a pipeline. telemetry may be nil, in which case no spans or
// metrics are recorded.
func New(cfg *config.Config, logger *slog.Logger, telemetry *infrastructure.Telemetry) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	logger = infrastructure.WithComponent(logger, "pipeline")

	return &Pipeline{
		cfg:        cfg,
		logger:     logger,
		telemetry:  telemetry,
		loader:     dataprocessing.NewLoader(logger),
		normalizer: dataprocessing.NewNormalizer(logger),
		joiner:     dataprocessing.NewJoiner(logger),
		csvWriter:  exporter.NewCSVWriter(logger),
		summary:    exporter.NewSummaryExporter(logger, config.SummarySheetName),
	}
}

// Run executes load, normalize, filter, join, derive, aggregate and export.
// A load, join or transform failure stops the run before anything is
// exported; the returned Result still carries the stage states. Non-fatal
// stage errors (export failures) are collected in Result.ExportErrors and do
// not fail the run.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	ctx = infrastructure.EnsureRunID(ctx)
	res := &Result{
		RunID:  infrastructure.GetRunID(ctx),
		Stages: newStageStates(),
	}

	paths, err := config.NewPaths(p.cfg.Pipeline.BaseDir)
	if err != nil {
		err = errors.NewConfigError("invalid base directory", err)
		p.skipFrom(res, 0, "invalid base directory")
		return res, err
	}
	res.Paths = paths
	paths.LogPathResolution(p.logger)

	p.logger.InfoContext(ctx, "Pipeline started",
		slog.String("base_dir", paths.BaseDir))

	runCtx, span := p.startSpan(ctx, "pipeline.run")
	err = p.run(runCtx, res)
	span.End()

	if p.cfg.Telemetry.WriteMetrics && p.telemetry != nil {
		if werr := p.telemetry.WriteMetrics(paths.MetricsFile); werr != nil {
			p.logger.WarnContext(ctx, "Metrics textfile not written",
				slog.String("path", paths.MetricsFile),
				slog.String("error", werr.Error()))
			res.ExportErrors = append(res.ExportErrors, errors.NewExportError(paths.MetricsFile, werr))
		}
	}

	if err != nil {
		p.logger.ErrorContext(ctx, "Pipeline failed", slog.String("error", err.Error()))
		return res, err
	}

	p.logger.InfoContext(ctx, "Pipeline completed",
		slog.Int("fact_rows", res.Fact.Len()),
		slog.Int("export_errors", len(res.ExportErrors)))
	return res, nil
}

func (p *Pipeline) run(ctx context.Context, res *Result) error {
	var (
		ds        *dataprocessing.Datasets
		delivered *frame.Frame
	)

	steps := []func(context.Context) (int, error){
		func(ctx context.Context) (int, error) {
			discovery := files.NewDiscovery(res.Paths.BaseDir)
			var err error
			ds, err = p.loader.Load(ctx, discovery.ResolveSources(res.Paths.Sources()))
			if err != nil {
				p.logAvailableSources(ctx, discovery)
				return -1, err
			}
			return ds.Orders.Len(), nil
		},
		func(ctx context.Context) (int, error) {
			absent := p.normalizer.ParseDates(ctx, ds.Orders, string(domain.DatasetOrders), domain.OrderDateColumns()...)
			res.AbsentColumns = append(res.AbsentColumns, absent...)
			return ds.Orders.Len(), nil
		},
		func(ctx context.Context) (int, error) {
			if !ds.Orders.HasColumn(domain.ColOrderStatus) {
				p.logger.WarnContext(ctx, "Status column not found, no orders pass the filter",
					slog.String("column", domain.ColOrderStatus))
				res.AbsentColumns = append(res.AbsentColumns, domain.ColOrderStatus)
			}
			delivered = dataprocessing.FilterByStatus(ds.Orders, domain.OrderStatusDelivered)
			p.logger.InfoContext(ctx, "Delivered orders selected",
				slog.Int("orders", ds.Orders.Len()),
				slog.Int("delivered", delivered.Len()))
			return delivered.Len(), nil
		},
		func(ctx context.Context) (int, error) {
			fact, err := p.joiner.BuildFactTable(ctx, delivered, ds.OrderItems, ds.Customers)
			if err != nil {
				return -1, err
			}
			res.Fact = fact
			return fact.Len(), nil
		},
		func(ctx context.Context) (int, error) {
			absent := p.normalizer.ParseDates(ctx, res.Fact, "fact", domain.ColShippingLimitDate)
			res.AbsentColumns = append(res.AbsentColumns, absent...)
			if err := dataprocessing.DeriveItemRevenue(res.Fact); err != nil {
				return -1, err
			}
			p.logDescribe(ctx, res.Fact)
			return res.Fact.Len(), nil
		},
		func(ctx context.Context) (int, error) {
			summary, err := dataprocessing.Aggregate(res.Fact)
			if err != nil {
				return -1, err
			}
			res.Summary = summary
			if p.telemetry != nil {
				p.telemetry.RecordKPIs(ctx, summary)
			}
			p.logger.InfoContext(ctx, "KPIs computed",
				slog.Float64("total_revenue", summary.TotalRevenue),
				slog.Int("total_orders", summary.TotalOrders),
				slog.Float64("average_order_value", summary.AverageOrderValue),
				slog.Int("unique_customers", summary.UniqueCustomers))
			return -1, nil
		},
		func(ctx context.Context) (int, error) {
			return res.Fact.Len(), stderrors.Join(p.export(ctx, res)...)
		},
	}

	for i, step := range steps {
		err := p.runStage(ctx, res.Stages[i], step)
		if err == nil {
			continue
		}
		if !errors.IsFatal(err) {
			res.ExportErrors = append(res.ExportErrors, errors.Leaves(err)...)
			continue
		}
		p.skipFrom(res, i+1, fmt.Sprintf("%s failed", res.Stages[i].ID))
		return err
	}
	return nil
}

// export writes the processed fact table and the KPI summary files. Every
// failure is logged and returned; none stops the others.
func (p *Pipeline) export(ctx context.Context, res *Result) []error {
	var errs []error
	if err := p.csvWriter.WriteFrame(ctx, res.Paths.ProcessedCSV, res.Fact); err != nil {
		errs = append(errs, err)
	}
	errs = append(errs, p.summary.Export(ctx, res.Paths.SummaryCSV, res.Paths.SummaryXLSX, res.Summary)...)

	for _, err := range errs {
		p.logger.WarnContext(ctx, "Export failed", slog.String("error", err.Error()))
		if p.telemetry != nil {
			p.telemetry.RecordError(ctx, StageExport)
		}
	}
	return errs
}

// runStage runs one stage, tracking its state, span and metrics. A
// non-fatal error completes the stage and is returned to the caller.
func (p *Pipeline) runStage(ctx context.Context, state *StageState, fn func(context.Context) (int, error)) error {
	ctx, span := p.startSpan(ctx, "stage."+state.ID)
	defer span.End()

	state.Start()
	p.logger.DebugContext(ctx, "Stage started", slog.String("stage", state.ID))

	rows, err := fn(ctx)
	fatal := err != nil && errors.IsFatal(err)
	switch {
	case err == nil:
		state.Complete(rows)
	case fatal:
		state.Fail(err)
	default:
		state.CompleteWithErrors(rows, err)
		span.RecordError(err)
	}

	if p.telemetry != nil {
		var stageErr error
		if fatal {
			stageErr = err
		}
		p.telemetry.RecordStage(ctx, state.ID, rows, state.Duration(), stageErr)
	}

	attrs := []any{
		slog.String("stage", state.ID),
		slog.String("status", string(state.Status)),
		slog.Duration("duration", state.Duration()),
	}
	if rows >= 0 {
		attrs = append(attrs, slog.Int("rows", rows))
	}
	switch {
	case fatal:
		p.logger.ErrorContext(ctx, "Stage failed", append(attrs, slog.String("error", err.Error()))...)
	case err != nil:
		p.logger.WarnContext(ctx, "Stage completed with errors", append(attrs, slog.String("error", err.Error()))...)
	default:
		p.logger.InfoContext(ctx, "Stage completed", attrs...)
	}
	return err
}

func (p *Pipeline) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if p.telemetry == nil {
		return ctx, noop.Span{}
	}
	return p.telemetry.StartSpan(ctx, name)
}

// skipFrom marks every stage from index i on as skipped
func (p *Pipeline) skipFrom(res *Result, i int, reason string) {
	for _, s := range res.Stages[i:] {
		s.Skip(reason)
	}
}

// logDescribe logs the per-column summary of the fact table at debug level
func (p *Pipeline) logDescribe(ctx context.Context, f *frame.Frame) {
	if !p.logger.Enabled(ctx, slog.LevelDebug) {
		return
	}
	for _, info := range f.Describe() {
		p.logger.DebugContext(ctx, "Fact column",
			slog.String("column", info.Name),
			slog.String("kind", info.Kind.String()),
			slog.Int("non_null", info.NonNull))
	}
}

// logAvailableSources lists the extract files that do exist, to help spot a
// misnamed input
func (p *Pipeline) logAvailableSources(ctx context.Context, d *files.Discovery) {
	found, err := d.FindSourceFiles()
	if err != nil {
		p.logger.WarnContext(ctx, "Base directory not readable", slog.String("error", err.Error()))
		return
	}
	names := make([]string, 0, len(found))
	for _, f := range found {
		names = append(names, f.Name)
	}
	p.logger.InfoContext(ctx, "Extract files present in base directory",
		slog.Int("count", len(found)),
		slog.Any("files", names))
}
