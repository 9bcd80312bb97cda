package models

import "time"

// Admin accounts manage room inventory. Passwords are stored bcrypt-hashed.
type Admin struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FullName  string    `gorm:"size:255" json:"full_name"`
	Username  string    `gorm:"uniqueIndex;size:150" json:"username"`
	Password  string    `gorm:"size:255" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AuthToken is an opaque admin session token issued at login.
type AuthToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AdminID   uint      `gorm:"index;column:admin_id" json:"admin_id"`
	Token     string    `gorm:"uniqueIndex;size:128" json:"-"`
	ExpiresAt time.Time `gorm:"column:expires_at" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`

	Admin Admin `gorm:"foreignKey:AdminID;references:ID" json:"-"`
}
