// Package frame is a small in-memory table: named columns, rows of typed
// cells and an explicit null marker for absent or unparseable values.
//
// It carries just enough relational behaviour for the order pipeline:
// row selection, column derivation and an inner hash join with
// suffixing of overlapping column names.
//
//	orders := frame.New("order_id", "customer_id")
//	orders.AppendRow(frame.String("o1"), frame.String("c1"))
//	joined, err := frame.InnerJoin(orders, items, "order_id")
package frame
