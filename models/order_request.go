package models

import "time"

// RequestStatus tracks the staff decision on a batch of requested items.
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "PENDING"
	RequestStatusAccepted RequestStatus = "ACCEPTED"
	RequestStatusRejected RequestStatus = "REJECTED"
)

// OrderRequest is one customer submission inside an order. When staff reject
// it, RejectedReason carries the explanation and RejectedFlag stays true until
// the customer page acknowledges the notice.
type OrderRequest struct {
	ID             uint          `gorm:"primaryKey" json:"id"`
	OrderID        uint          `gorm:"not null;index" json:"order_id"`
	Order          Order         `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Status         RequestStatus `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	RejectedReason *string       `gorm:"type:text" json:"rejected_reason,omitempty"`
	RejectedFlag   bool          `gorm:"not null;default:false;index" json:"rejected_flag"`
	Items          []RequestItem `gorm:"foreignKey:OrderRequestID" json:"items"`
	CreatedAt      time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time     `gorm:"not null" json:"updated_at"`
}

type RequestItem struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	OrderRequestID uint      `gorm:"not null;index" json:"order_request_id"`
	MenuID         uint      `gorm:"not null" json:"menu_id"`
	Menu           Menu      `gorm:"foreignKey:MenuID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"menu"`
	Quantity       int       `gorm:"not null" json:"quantity"`
	Notes          string    `gorm:"type:text" json:"notes"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null" json:"updated_at"`
}
