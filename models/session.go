package models

import (
	"time"
)

// Session is the per-login application state. It is created on login and
// deleted on logout, which resets every field below.
type Session struct {
	ID        string    `gorm:"primarykey;type:varchar(36)" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Username  string    `gorm:"type:varchar(100);not null" json:"username"`
	RMCode    string    `gorm:"type:varchar(32);not null;index" json:"rm_code"`
	Token     string    `gorm:"uniqueIndex;not null;type:varchar(128)" json:"-"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
	IPAddress string    `gorm:"type:varchar(45)" json:"ip_address"`
	UserAgent string    `gorm:"type:text" json:"user_agent"`

	// UI selection state
	SelectedCustomerID *int `json:"selected_customer_id,omitempty"` // Make Calls tab
	HistoryCustomerID  *int `json:"history_customer_id,omitempty"`  // Call History Lookup tab
}

// TableName specifies the table name for Session model
func (Session) TableName() string {
	return "sessions"
}

// IsExpired checks if the session has expired
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// HasSelectedCustomer reports whether a customer is queued on the Make Calls tab
func (s *Session) HasSelectedCustomer() bool {
	return s.SelectedCustomerID != nil
}
