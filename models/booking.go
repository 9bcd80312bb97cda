package models

import "time"

// Booking binds one user to one room. The unique index on room_id is the
// authoritative guard for the one-booking-per-room invariant: the application
// pre-check only improves the common-case error, the index decides races.
type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID        string `gorm:"column:user_id;size:255;index" json:"userId"`
	RoomID        uint   `gorm:"column:room_id;uniqueIndex" json:"roomId"`
	ReferenceCode string `gorm:"column:reference_code;size:64" json:"referenceCode"`

	// Set by the server at acceptance time, never by the caller.
	BookingDate time.Time `gorm:"column:booking_date" json:"bookingDate"`

	CreatedAt time.Time `json:"created_at"`

	Room Room `gorm:"foreignKey:RoomID;references:ID" json:"room,omitempty"`
}
