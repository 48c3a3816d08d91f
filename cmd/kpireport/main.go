package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"ecomkpi/internal/config"
	"ecomkpi/internal/errors"
	"ecomkpi/internal/infrastructure"
	"ecomkpi/internal/pipeline"
	"ecomkpi/pkg/contracts/domain"
)

var rootFlags struct {
	baseDir    string
	configFile string
	logLevel   string
	trace      bool
	metrics    bool
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kpireport",
		Short: "Build the delivered-orders fact table and headline KPIs",
		Long: `kpireport loads the orders, order items and customers extracts from the
base directory, keeps delivered orders, joins them into one fact table,
derives item revenue and reports four KPIs:

  Total Revenue, Total Orders, Average Order Value, Unique Customers

The processed fact table and the KPI summary are written next to the inputs.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVarP(&rootFlags.baseDir, "base-dir", "d", "", "Directory holding the input extracts (default \"data\")")
	cmd.Flags().StringVarP(&rootFlags.configFile, "config", "c", "", "Path to a YAML config file")
	cmd.Flags().StringVar(&rootFlags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	cmd.Flags().BoolVar(&rootFlags.trace, "trace", false, "Print pipeline spans to stderr")
	cmd.Flags().BoolVar(&rootFlags.metrics, "metrics", true, "Write the Prometheus metrics textfile")

	return cmd
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig layers command-line flags over the file and environment config
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(rootFlags.configFile)
	if err != nil {
		return nil, errors.NewConfigError("failed to load configuration", err)
	}

	flags := cmd.Flags()
	if flags.Changed("base-dir") {
		cfg.Pipeline.BaseDir = rootFlags.baseDir
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = rootFlags.logLevel
	}
	if flags.Changed("trace") {
		cfg.Telemetry.TraceExporter = "none"
		if rootFlags.trace {
			cfg.Telemetry.TraceExporter = "stdout"
		}
	}
	if flags.Changed("metrics") {
		cfg.Telemetry.WriteMetrics = rootFlags.metrics
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.NewConfigError("invalid configuration", err)
	}
	return cfg, nil
}

// run executes one pipeline pass and prints the KPIs to out. Logs and
// spans go to errOut.
func run(ctx context.Context, cfg *config.Config, out, errOut io.Writer) error {
	logger, err := infrastructure.InitializeLogger(cfg.Logging, errOut)
	if err != nil {
		return errors.NewConfigError("failed to initialize logger", err)
	}
	defer infrastructure.CloseLogFile()

	telemetry, err := infrastructure.InitializeTelemetry(cfg.Telemetry, logger, errOut)
	if err != nil {
		return errors.NewConfigError("failed to initialize telemetry", err)
	}
	defer func() {
		if err := telemetry.Shutdown(context.Background()); err != nil {
			logger.Warn("Telemetry shutdown failed", slog.String("error", err.Error()))
		}
	}()

	fmt.Fprintf(out, "%s %s\n", config.AppName, config.AppVersion)

	res, err := pipeline.New(cfg, logger, telemetry).Run(ctx)
	if err != nil {
		printMissingSources(errOut, err)
		return err
	}

	printReport(out, res)
	return nil
}

// printMissingSources names every missing extract and the directory they
// were expected in
func printMissingSources(w io.Writer, err error) {
	missing := errors.All(err, errors.ErrTypeMissingSource)
	if len(missing) == 0 {
		return
	}
	fmt.Fprintln(w, "Required input files are missing:")
	for _, m := range missing {
		fmt.Fprintf(w, "  %v (%v)\n", m.Context["dataset"], m.Context["path"])
	}
	fmt.Fprintln(w, "Place all three extracts in the base directory and run again.")
}

func printReport(w io.Writer, res *pipeline.Result) {
	s := res.Summary

	fmt.Fprintln(w)
	fmt.Fprintln(w, "--- KPIs ---")
	fmt.Fprintf(w, "%s: %s\n", domain.KPITotalRevenue, formatAmount(s.TotalRevenue))
	fmt.Fprintf(w, "%s: %d\n", domain.KPITotalOrders, s.TotalOrders)
	fmt.Fprintf(w, "%s: %s\n", domain.KPIAverageOrderValue, formatAmount(s.AverageOrderValue))
	fmt.Fprintf(w, "%s: %d\n", domain.KPIUniqueCustomers, s.UniqueCustomers)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "--- KPI Summary ---")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "%s\t%s\t\n", domain.SummaryHeaders[0], domain.SummaryHeaders[1])
	for _, rec := range s.Records() {
		fmt.Fprintf(tw, "%s\t%s\t\n", rec[0], rec[1])
	}
	tw.Flush()

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Processed data: %s (%d rows)\n", res.Paths.ProcessedCSV, res.Fact.Len())
	fmt.Fprintf(w, "KPI summary:    %s, %s\n", res.Paths.SummaryCSV, res.Paths.SummaryXLSX)

	if len(res.ExportErrors) > 0 {
		fmt.Fprintf(w, "\n%d output(s) could not be written:\n", len(res.ExportErrors))
		for _, err := range res.ExportErrors {
			fmt.Fprintf(w, "  %v\n", err)
		}
	}
}

// formatAmount renders v with two decimals and comma thousands separators
func formatAmount(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}

	intPart, frac := s[:len(s)-3], s[len(s)-3:]
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + b.String() + frac
}
