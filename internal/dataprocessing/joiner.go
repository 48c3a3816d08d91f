package dataprocessing

import (
	"context"
	"log/slog"

	"ecomkpi/internal/errors"
	"ecomkpi/internal/frame"
	"ecomkpi/pkg/contracts/domain"
)

// Joiner builds the denormalized fact table
type Joiner struct {
	logger *slog.Logger
}

// NewJoiner creates a joiner
func NewJoiner(logger *slog.Logger) *Joiner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Joiner{logger: logger}
}

// BuildFactTable inner-joins orders with their items on order_id, then the
// result with customers on customer_id. Orders without items, items without
// an order and rows without a customer are dropped.
func (j *Joiner) BuildFactTable(ctx context.Context, orders, items, customers *frame.Frame) (*frame.Frame, error) {
	withItems, err := frame.InnerJoin(orders, items, domain.ColOrderID)
	if err != nil {
		return nil, errors.NewJoinError(domain.ColOrderID, err)
	}
	j.logger.InfoContext(ctx, "Orders and order items joined",
		slog.Int("rows", withItems.Len()),
		slog.Int("columns", len(withItems.Columns())))

	fact, err := frame.InnerJoin(withItems, customers, domain.ColCustomerID)
	if err != nil {
		return nil, errors.NewJoinError(domain.ColCustomerID, err)
	}
	j.logger.InfoContext(ctx, "Fact table joined with customers",
		slog.Int("rows", fact.Len()),
		slog.Int("columns", len(fact.Columns())))

	return fact, nil
}
