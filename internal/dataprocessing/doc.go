// Package dataprocessing implements the stages of the order KPI pipeline.
//
// # Architecture
//
// Each stage is a small component working on frame.Frame values:
//
//  1. Loader: reads the orders, order items and customers extracts (CSV or XLSX)
//  2. Normalizer: turns known date columns into timestamps, coercing bad values to null
//  3. FilterByStatus: keeps delivered orders only
//  4. Joiner: orders ⋈ items on order_id, then ⋈ customers on customer_id
//  5. DeriveItemRevenue: item_revenue = price + freight_value
//  6. Aggregate: total revenue, distinct orders, average order value, distinct customers
//
// # Data Flow
//
//	CSV → Loader → Datasets → Normalizer → Filter → Joiner → Deriver → Aggregate → KPISummary
//
// # Error Handling
//
// Missing sources are reported one error per file, joined together, so the
// caller sees every missing extract at once. Unparseable dates never fail a
// stage; they become null cells. Null prices or freight propagate to a null
// item_revenue, which then counts as zero in the revenue total.
package dataprocessing
