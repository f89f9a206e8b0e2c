package models

import "time"

// OrderStatus is a closed set; switches over it must cover all four values.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusOrdered   OrderStatus = "ORDERED"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusOrdered, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// Active reports whether an order in this status still drives the table session.
func (s OrderStatus) Active() bool {
	return s == OrderStatusPending || s == OrderStatusOrdered
}

// Terminal reports whether no further transition is allowed.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

type Order struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	TableID       uint           `gorm:"not null;index" json:"table_id"`
	Table         Table          `gorm:"foreignKey:TableID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"table"`
	Status        OrderStatus    `gorm:"type:varchar(20);not null;default:'ORDERED'" json:"status"`
	CustomerName  string         `gorm:"type:varchar(100);not null;default:''" json:"customer_name"`
	OrderRequests []OrderRequest `gorm:"foreignKey:OrderID" json:"order_requests,omitempty"`
	CreatedAt     time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"not null" json:"updated_at"`
}
