package dataprocessing

import (
	"ecomkpi/internal/frame"
	"ecomkpi/pkg/contracts/domain"
)

// FilterByStatus returns the orders whose order_status equals status exactly
// (case-sensitive). Rows with a null or non-text status are dropped. The
// input frame is not modified.
func FilterByStatus(orders *frame.Frame, status domain.OrderStatus) *frame.Frame {
	return orders.Filter(func(r frame.Row) bool {
		s, ok := r.Get(domain.ColOrderStatus).Str()
		return ok && s == string(status)
	})
}
