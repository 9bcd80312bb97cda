package models

import (
	"time"

	"gorm.io/datatypes"
)

// Room is a bookable unit of inventory. Archived rooms (IsActive=false) stay
// in the table so historical bookings keep a valid foreign key; rooms without
// booking history are removed outright instead.
type Room struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Description string  `gorm:"type:text" json:"description"`
	Price       float64 `gorm:"type:decimal(18,2)" json:"price"`
	IsActive    bool    `gorm:"column:is_active;default:true" json:"isActive"`

	Amenities datatypes.JSON `gorm:"column:amenities" json:"amenities,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Bookings []Booking `gorm:"foreignKey:RoomID;constraint:OnDelete:RESTRICT" json:"-"`
}
