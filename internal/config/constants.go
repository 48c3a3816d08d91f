package config

// Application constants
const (
	AppName     = "ecomkpi"
	AppVersion  = "1.0.0"
	ServiceName = "ecomkpi-report"

	DefaultBaseDir = "data"

	// Input extracts
	OrdersFileName     = "olist_orders_dataset.csv"
	OrderItemsFileName = "olist_order_items_dataset.csv"
	CustomersFileName  = "olist_customers_dataset.csv"

	// Outputs, written to the base directory
	ProcessedFileName   = "e-commerce_data_processed.csv"
	SummaryCSVFileName  = "kpi_summary.csv"
	SummaryXLSXFileName = "kpi_summary.xlsx"
	MetricsFileName     = "pipeline_metrics.prom"
	SummarySheetName    = "KPIs"
)
