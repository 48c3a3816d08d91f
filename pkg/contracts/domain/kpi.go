package domain

import (
	"math"

	"github.com/shopspring/decimal"
)

// KPI labels, in the order they appear in the summary table
const (
	KPITotalRevenue      = "Total Revenue"
	KPITotalOrders       = "Total Orders"
	KPIAverageOrderValue = "Average Order Value"
	KPIUniqueCustomers   = "Unique Customers"
)

// SummaryHeaders is the header row of the KPI summary table
var SummaryHeaders = []string{"KPI", "Value"}

// KPISummary holds the four headline metrics computed over the fact table
type KPISummary struct {
	TotalRevenue      float64 `json:"total_revenue"`
	TotalOrders       int     `json:"total_orders"`
	AverageOrderValue float64 `json:"average_order_value"`
	UniqueCustomers   int     `json:"unique_customers"`
}

// KPIMetric is one row of the summary table
type KPIMetric struct {
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
}

// Table returns the summary as ordered (name, value) rows rounded to two decimals.
func (s KPISummary) Table() []KPIMetric {
	return []KPIMetric{
		{Name: KPITotalRevenue, Value: amount(s.TotalRevenue)},
		{Name: KPITotalOrders, Value: decimal.NewFromInt(int64(s.TotalOrders))},
		{Name: KPIAverageOrderValue, Value: amount(s.AverageOrderValue)},
		{Name: KPIUniqueCustomers, Value: decimal.NewFromInt(int64(s.UniqueCustomers))},
	}
}

// Records renders the summary table as string rows for tabular writers
func (s KPISummary) Records() [][]string {
	table := s.Table()
	records := make([][]string, 0, len(table))
	for _, m := range table {
		records = append(records, []string{m.Name, m.Value.StringFixed(2)})
	}
	return records
}

// amount rounds v to two decimals. Non-finite values have no decimal form
// and are shown as zero.
func amount(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v).Round(2)
}
