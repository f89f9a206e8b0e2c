package hub

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/yeremiapane/table-order/models"
)

// Event types
const (
	EventOrderUpdate    = "order_update"
	EventRequestUpdate  = "request_update"
	EventTableUpdate    = "table_update"
	EventTableCreate    = "table_create"
	EventTableDelete    = "table_delete"
	EventStaffNotif     = "staff_notification"
	EventDashboardStats = "dashboard_stats"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// dashboardHub holds every connected dashboard client keyed by role.
type dashboardHub struct {
	clients map[*websocket.Conn]string
	mutex   sync.Mutex
}

var dashHub = dashboardHub{
	clients: make(map[*websocket.Conn]string),
}

// RegisterClient adds a connection with its role.
func RegisterClient(conn *websocket.Conn, role string) {
	dashHub.mutex.Lock()
	defer dashHub.mutex.Unlock()
	dashHub.clients[conn] = role
}

// UnregisterClient drops and closes a connection.
func UnregisterClient(conn *websocket.Conn) {
	dashHub.mutex.Lock()
	defer dashHub.mutex.Unlock()
	delete(dashHub.clients, conn)
	conn.Close()
}

func BroadcastOrderUpdate(order models.Order) {
	broadcast(Message{Event: EventOrderUpdate, Data: order})
}

func BroadcastRequestUpdate(request models.OrderRequest) {
	broadcast(Message{Event: EventRequestUpdate, Data: request})
}

func BroadcastTableUpdate(table models.Table) {
	broadcast(Message{Event: EventTableUpdate, Data: table})
}

func BroadcastTableCreate(table models.Table) {
	broadcast(Message{Event: EventTableCreate, Data: table})
}

func BroadcastTableDelete(table models.Table) {
	broadcast(Message{Event: EventTableDelete, Data: table})
}

func BroadcastStaffNotification(message string) {
	broadcast(Message{Event: EventStaffNotif, Data: message})
}

func BroadcastMessage(msg Message) {
	broadcast(msg)
}

func broadcast(msg Message) {
	dashHub.mutex.Lock()
	defer dashHub.mutex.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	for conn := range dashHub.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			continue
		}
	}
}
