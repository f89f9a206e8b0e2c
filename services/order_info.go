package services

import (
	"sync"

	"github.com/yeremiapane/table-order/models"
)

// OrderSummary is the slice of order state shared with sibling views.
type OrderSummary struct {
	OrderID     uint               `json:"order_id"`
	Status      models.OrderStatus `json:"status"`
	TableID     uint               `json:"table_id"`
	TableNumber uint               `json:"table_number"`
}

// SharedOrderInfo holds the latest summary. Readers see it eventually
// consistent; the only write path is the OrderInfoWriter handed out once at
// construction, which keeps the single-writer discipline in the types.
type SharedOrderInfo struct {
	mu      sync.RWMutex
	current *OrderSummary
}

// OrderInfoWriter is the sync loop's write handle.
type OrderInfoWriter struct {
	info *SharedOrderInfo
}

func NewSharedOrderInfo() (*SharedOrderInfo, *OrderInfoWriter) {
	info := &SharedOrderInfo{}
	return info, &OrderInfoWriter{info: info}
}

// Get returns the latest summary, or nil before the first publish.
func (s *SharedOrderInfo) Get() *OrderSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	copied := *s.current
	return &copied
}

func (w *OrderInfoWriter) Publish(summary OrderSummary) {
	w.info.mu.Lock()
	defer w.info.mu.Unlock()
	w.info.current = &summary
}

// OrderInfoSink receives summary updates from the sync loop.
type OrderInfoSink interface {
	Publish(summary OrderSummary)
}
