package usecase

import (
	"context"
	"errors"

	"github.com/shandysiswandi/goorder/internal/orderimport/entity"
	"github.com/shandysiswandi/goorder/internal/pkg/pkguid"
)

// orderWriter is the row handler of every import: it assigns the order id
// and persists the row.
type orderWriter struct {
	orders OrderRepository
	ids    pkguid.NumberID
}

func (w orderWriter) HandleRow(ctx context.Context, order entity.Order) error {
	if w.orders == nil {
		return errors.New("order repository is not configured")
	}
	if w.ids != nil {
		order.ID = w.ids.Generate()
	}
	return w.orders.SaveOrder(ctx, order)
}
