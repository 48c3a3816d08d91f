package dataprocessing

import (
	"fmt"

	"ecomkpi/internal/errors"
	"ecomkpi/internal/frame"
	"ecomkpi/pkg/contracts/domain"
)

// DeriveItemRevenue adds item_revenue = price + freight_value to every row.
// Inputs are read cell by cell, so a text cell that holds a number still
// counts. A null or unparseable input gives a null revenue for that row
// only; missing is never read as zero.
func DeriveItemRevenue(fact *frame.Frame) error {
	for _, col := range []string{domain.ColPrice, domain.ColFreightValue} {
		if !fact.HasColumn(col) {
			return errors.NewTransformError("cannot derive item_revenue", fmt.Errorf("%w: %s", frame.ErrColumnNotFound, col))
		}
	}

	err := fact.AddColumn(domain.ColItemRevenue, func(r frame.Row) frame.Value {
		price, ok := frame.ParseNumber(r.Get(domain.ColPrice))
		if !ok {
			return frame.Null()
		}
		freight, ok := frame.ParseNumber(r.Get(domain.ColFreightValue))
		if !ok {
			return frame.Null()
		}
		return frame.Float(price + freight)
	})
	if err != nil {
		return errors.NewTransformError("cannot derive item_revenue", err)
	}
	return nil
}
