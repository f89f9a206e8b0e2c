package models

import "time"

// Restaurant carries the operating hours shown on the order page.
// Times are stored as "HH:MM" wall-clock strings, the way the staff enters them.
type Restaurant struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	StartTime string    `gorm:"type:varchar(5);not null;default:'10:00'" json:"start_time"`
	EndTime   string    `gorm:"type:varchar(5);not null;default:'22:00'" json:"end_time"`
	LastOrder string    `gorm:"type:varchar(5);not null;default:'21:30'" json:"last_order"`
	Tables    []Table   `gorm:"foreignKey:RestaurantID" json:"tables,omitempty"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
