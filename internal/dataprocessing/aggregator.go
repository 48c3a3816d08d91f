package dataprocessing

import (
	"ecomkpi/internal/errors"
	"ecomkpi/internal/frame"
	"ecomkpi/pkg/contracts/domain"
)

// Aggregate computes the four KPIs over every row of the fact table.
// Null item_revenue cells add nothing to the total. Average order value is
// exactly 0 when there are no orders.
func Aggregate(fact *frame.Frame) (domain.KPISummary, error) {
	var summary domain.KPISummary

	revenue, err := fact.Sum(domain.ColItemRevenue)
	if err != nil {
		return summary, errors.NewTransformError("total revenue", err)
	}

	orders, err := fact.Distinct(domain.ColOrderID)
	if err != nil {
		return summary, errors.NewTransformError("total orders", err)
	}

	customers, err := fact.Distinct(domain.ColCustomerUniqueID)
	if err != nil {
		return summary, errors.NewTransformError("unique customers", err)
	}

	summary.TotalRevenue = revenue
	summary.TotalOrders = orders
	summary.UniqueCustomers = customers
	if orders > 0 {
		summary.AverageOrderValue = revenue / float64(orders)
	}
	return summary, nil
}
