package exporter

import (
	"github.com/shopspring/decimal"
)

// summaryNumFmt is the built-in Excel number format "0.00"
const summaryNumFmt = 2

// formatDecimal renders a KPI value with exactly two decimal places
func formatDecimal(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// cellValue converts a KPI value to the float written into a workbook cell
func cellValue(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
