package services

import (
	"sync"
	"time"

	"github.com/yeremiapane/table-order/models"
	"github.com/yeremiapane/table-order/store"
	"github.com/yeremiapane/table-order/utils"
)

// SyncState is the per-view state machine of the customer order page.
type SyncState string

const (
	SyncInitializing SyncState = "INITIALIZING"
	SyncLive         SyncState = "LIVE"
	SyncNotification SyncState = "NOTIFICATION"
	SyncError        SyncState = "ERROR"
	SyncRedirected   SyncState = "REDIRECTED"
)

const msgTableNotFound = "Not found restaurant table. Please contact the staff"

// OrderSyncSession keeps one customer's order view consistent with the store.
// It polls on a ticker, re-runs the disposition rules on every fresh snapshot,
// propagates the order summary to sibling views and drives the announcement
// reconciler. A failed tick surfaces a toast and waits for the next tick;
// the loop itself never dies.
type OrderSyncSession struct {
	fetcher    store.OrderFetcher
	reconciler *AnnouncementReconciler
	notifier   Notifier
	navigator  Navigator
	sink       OrderInfoSink

	OrderID  uint
	Interval time.Duration

	stopChan chan struct{}
	stopOnce sync.Once

	mu               sync.Mutex
	state            SyncState
	stopped          bool
	lastStatus       models.OrderStatus
	lastTableStatus  models.TableStatus
	lastUpdatedAt    time.Time
	lastFetchErr     string
	lastReconcileErr string
}

// StartOrderSync resolves the opaque order token, seeds the session with the
// initial snapshot and starts the polling loop. Initialization failures leave
// the session in REDIRECTED with the navigation and toast already issued.
func StartOrderSync(
	token string,
	fetcher store.OrderFetcher,
	reconciler *AnnouncementReconciler,
	notifier Notifier,
	navigator Navigator,
	sink OrderInfoSink,
	interval time.Duration,
) *OrderSyncSession {
	session := &OrderSyncSession{
		fetcher:    fetcher,
		reconciler: reconciler,
		notifier:   notifier,
		navigator:  navigator,
		sink:       sink,
		Interval:   interval,
		state:      SyncInitializing,
		stopChan:   make(chan struct{}),
	}

	decoded, err := utils.DecodeOrderToken(token)
	if err != nil {
		session.redirect(DestNotFound, msgTableNotFound)
		return session
	}

	orderID, ok := utils.ParseOrderID(decoded)
	if !ok {
		session.redirect(DestNotFound, msgTableNotFound)
		return session
	}

	seed, err := fetcher.OrderByID(orderID)
	if err != nil {
		session.redirect(DestServerError, err.Error())
		return session
	}
	if seed == nil {
		session.redirect(DestNotFound, msgTableNotFound)
		return session
	}

	session.OrderID = orderID
	session.apply(seed)

	go session.loop()
	return session
}

// State returns the current view state.
func (s *OrderSyncSession) State() SyncState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Stop cancels the polling loop. No further state writes happen afterwards.
func (s *OrderSyncSession) Stop() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		s.stopped = true
		s.mu.Unlock()
		close(s.stopChan)
	})
}

func (s *OrderSyncSession) loop() {
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

func (s *OrderSyncSession) tick() {
	order, err := s.fetcher.OrderByID(s.OrderID)
	if err != nil {
		s.mu.Lock()
		if s.stopped {
			s.mu.Unlock()
			return
		}
		s.state = SyncError
		msg := err.Error()
		// One toast per distinct error, not one per tick.
		notify := msg != s.lastFetchErr
		s.lastFetchErr = msg
		s.mu.Unlock()

		if notify {
			s.notifier.Toast(ToastError, msg, false)
		}
		return
	}

	s.mu.Lock()
	s.lastFetchErr = ""
	if order == nil || s.stopped {
		// An order is never deleted within a session; keep the last good view.
		s.mu.Unlock()
		return
	}
	// A successful fetch always leaves ERROR, even when the snapshot is
	// identical to the last good one.
	changed := s.state == SyncError ||
		order.Status != s.lastStatus ||
		order.Table.Status != s.lastTableStatus ||
		!order.UpdatedAt.Equal(s.lastUpdatedAt)
	s.mu.Unlock()

	if changed {
		s.apply(order)
	}

	if s.reconciler != nil {
		s.runReconciler()
	}
}

func (s *OrderSyncSession) runReconciler() {
	err := s.reconciler.Tick(s.OrderID, s.notifier)

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	var notifyMsg string
	if err != nil {
		if msg := err.Error(); msg != s.lastReconcileErr {
			s.lastReconcileErr = msg
			notifyMsg = msg
		}
	} else {
		s.lastReconcileErr = ""
	}
	s.mu.Unlock()

	if notifyMsg != "" {
		s.notifier.Toast(ToastError, notifyMsg, false)
	}
}

// apply recomputes the disposition for a fresh snapshot and propagates the
// derived summary to the shared state.
func (s *OrderSyncSession) apply(order *models.Order) {
	disposition := DecideDisposition(order.Table.Status, order.Status)

	s.mu.Lock()
	if s.stopped || s.state == SyncRedirected {
		s.mu.Unlock()
		return
	}
	if disposition == DispositionRestricted {
		s.state = SyncNotification
	} else {
		s.state = SyncLive
	}
	s.lastStatus = order.Status
	s.lastTableStatus = order.Table.Status
	s.lastUpdatedAt = order.UpdatedAt

	// Publish under the same lock as the stopped check so no summary write
	// escapes after Stop.
	if s.sink != nil {
		s.sink.Publish(OrderSummary{
			OrderID:     order.ID,
			Status:      order.Status,
			TableID:     order.TableID,
			TableNumber: order.Table.Number,
		})
	}
	s.mu.Unlock()
}

func (s *OrderSyncSession) redirect(destination, message string) {
	s.mu.Lock()
	s.state = SyncRedirected
	s.mu.Unlock()

	if s.navigator != nil {
		s.navigator.Navigate(destination)
	}
	if s.notifier != nil {
		s.notifier.Toast(ToastError, message, false)
	}
}
