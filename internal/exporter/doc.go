// Package exporter writes pipeline outputs.
//
// CSVWriter writes a frame as a headed CSV file with no index column, and
// plain header/record tables. SummaryExporter writes the KPI summary table
// to CSV and to a one-sheet xlsx workbook.
//
// Every write failure is returned as an EXPORT error carrying the
// destination path; callers treat these as non-fatal.
package exporter
