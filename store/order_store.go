package store

import (
	"github.com/yeremiapane/table-order/models"
)

// OrderPatch carries the mutable order fields for a partial update. The order
// ID and table reference are immutable through this path.
type OrderPatch struct {
	Status       *models.OrderStatus
	CustomerName *string
}

// Empty reports whether the patch changes nothing.
func (p OrderPatch) Empty() bool {
	return p.Status == nil && p.CustomerName == nil
}

// RequestItemInput is one line of a customer submission.
type RequestItemInput struct {
	MenuID   uint
	Quantity int
	Notes    string
}

// OrderStore is the boundary the lifecycle and sync logic talk through.
// Reads that miss return (nil, nil): "no data" is not a failure.
type OrderStore interface {
	CreateOrder(tableID uint, customerName string) (*models.Order, error)

	// OrderByID fetches an order regardless of status, with table and
	// restaurant context preloaded.
	OrderByID(orderID uint) (*models.Order, error)

	// Active lookups return the most recently created PENDING/ORDERED order.
	ActiveOrderByID(orderID uint) (*models.Order, error)
	ActiveOrderByTable(tableID uint) (*models.Order, error)
	ActiveOrderByTableAndID(orderID, tableID uint) (*models.Order, error)

	OrdersByTable(tableID uint) ([]models.Order, error)
	CompletedOrdersByTable(tableID uint) ([]models.Order, error)

	UpdateOrder(orderID uint, patch OrderPatch) (*models.Order, error)

	CreateOrderRequest(orderID uint, items []RequestItemInput) (*models.OrderRequest, error)
	RejectOrderRequest(requestID uint, reason string) (*models.OrderRequest, error)
	AcceptOrderRequest(requestID uint) (*models.OrderRequest, error)

	// AnnouncementsByOrder projects the order's rejected, not yet
	// acknowledged requests for notification rendering.
	AnnouncementsByOrder(orderID uint) ([]models.Announcement, error)

	// ClearRejectionNotices resets the rejected flag for the whole order in
	// one statement. Idempotent: an already-clear flag stays clear.
	ClearRejectionNotices(orderID uint) (int64, error)
}

// AnnouncementSource is the slice of the store the reconciler needs.
type AnnouncementSource interface {
	AnnouncementsByOrder(orderID uint) ([]models.Announcement, error)
	ClearRejectionNotices(orderID uint) (int64, error)
}

// OrderFetcher is the slice of the store the sync loop needs.
type OrderFetcher interface {
	OrderByID(orderID uint) (*models.Order, error)
}
