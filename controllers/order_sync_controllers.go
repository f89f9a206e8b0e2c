package controllers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/yeremiapane/table-order/services"
	"github.com/yeremiapane/table-order/utils"
)

var orderPageUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// orderPageClient bridges a sync session to one customer websocket. It is the
// session's toast, navigation and shared-state outlet.
type orderPageClient struct {
	conn   *websocket.Conn
	writer *services.OrderInfoWriter
	mu     sync.Mutex
}

type orderPageEvent struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

func (pc *orderPageClient) send(event string, data interface{}) {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	payload, err := json.Marshal(orderPageEvent{Event: event, Data: data})
	if err != nil {
		return
	}
	_ = pc.conn.WriteMessage(websocket.TextMessage, payload)
}

func (pc *orderPageClient) Toast(severity services.ToastSeverity, message string, preserve bool) {
	pc.send("toast", gin.H{
		"severity": severity,
		"message":  message,
		"preserve": preserve,
	})
}

func (pc *orderPageClient) Navigate(destination string) {
	pc.send("navigate", gin.H{"destination": destination})
}

func (pc *orderPageClient) Publish(summary services.OrderSummary) {
	pc.writer.Publish(summary)
	pc.send("order_info", summary)
}

// SyncInterval is set from SYNC_INTERVAL_MS at startup; tests override it to
// poll fast.
var SyncInterval = 2 * time.Second

// WatchOrder -> websocket endpoint backing the customer order page. A session
// starts on connect and stops when the socket goes away.
func (oc *OrderController) WatchOrder(c *gin.Context) {
	token := c.Param("order_token")

	ws, err := orderPageUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	info, writer := services.NewSharedOrderInfo()
	client := &orderPageClient{conn: ws, writer: writer}

	session := services.StartOrderSync(token, oc.Store, oc.Reconciler, client, client, client, SyncInterval)
	defer session.Stop()

	utils.InfoLogger.Printf("Order sync session opened (state=%s)", session.State())

	for {
		_, message, err := ws.ReadMessage()
		if err != nil {
			break
		}
		// The page can ask for the latest shared summary at any time.
		if string(message) == "info" {
			if summary := info.Get(); summary != nil {
				client.send("order_info", *summary)
			}
		}
	}

	ws.Close()
}
