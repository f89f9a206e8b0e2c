package services

import (
	"fmt"
	"strings"
	"sync"

	"github.com/yeremiapane/table-order/models"
	"github.com/yeremiapane/table-order/store"
	"github.com/yeremiapane/table-order/utils"
)

// AnnouncementReconciler surfaces rejected order requests to the customer and
// acknowledges them afterwards. Notifications for a batch always go out
// before the single clearing update; a clear failure never takes back a toast
// that was already shown. One reconciler is shared by every sync session so
// the in-flight set is keyed per order, not per connection.
type AnnouncementReconciler struct {
	source store.AnnouncementSource

	mu       sync.Mutex
	inFlight map[uint]bool
}

func NewAnnouncementReconciler(source store.AnnouncementSource) *AnnouncementReconciler {
	return &AnnouncementReconciler{
		source:   source,
		inFlight: make(map[uint]bool),
	}
}

// Tick runs one reconciliation cycle for an order, delivering toasts through
// the calling view's notifier. Ticks are serialized per order: while a
// previous cycle's clearing update is outstanding, a new tick returns
// immediately so a flag is never cleared for a notice the customer has not
// seen, even when the ticks come from different connections.
func (r *AnnouncementReconciler) Tick(orderID uint, notifier Notifier) error {
	r.mu.Lock()
	if r.inFlight[orderID] {
		r.mu.Unlock()
		return nil
	}
	r.inFlight[orderID] = true
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		delete(r.inFlight, orderID)
		r.mu.Unlock()
	}()

	announcements, err := r.source.AnnouncementsByOrder(orderID)
	if err != nil {
		return err
	}
	if len(announcements) == 0 {
		return nil
	}

	for _, announcement := range announcements {
		if announcement.RejectedReason == "" {
			continue
		}
		notifier.Toast(ToastPreserve, RejectionMessage(announcement), true)
	}

	// One batched acknowledgement for the whole tick.
	if _, err := r.source.ClearRejectionNotices(orderID); err != nil {
		utils.ErrorLogger.Printf("Failed to clear rejection notices for order %d: %v", orderID, err)
		return err
	}
	return nil
}

// RejectionMessage renders the durable notice for one rejected request.
func RejectionMessage(a models.Announcement) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Request %s placed %s: ",
		utils.FormatRequestNumber(a.RequestNumber),
		utils.FormatDisplayTime(a.CreatedAt))

	if len(a.ItemNames) > 0 {
		b.WriteString(a.ItemNames[0])
		if len(a.ItemNames) > 1 {
			fmt.Fprintf(&b, " and %d more item(s)", len(a.ItemNames)-1)
		}
		b.WriteString(" ")
	}
	b.WriteString("could not be served. Please order something else. Reason: ")
	fmt.Fprintf(&b, "%q", a.RejectedReason)

	return b.String()
}
