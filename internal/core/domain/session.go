package domain

import "time"

// Session represents a customer chat session on a product page.
type Session struct {
	SessionID     string        `json:"session_id"`
	ProductID     int64         `json:"product_id"`
	CustomerName  string        `json:"customer_name,omitempty"`
	CustomerEmail string        `json:"customer_email,omitempty"`
	Status        SessionStatus `json:"status"`
	UnreadCount   int           `json:"unread_count"`
	LastMessageAt time.Time     `json:"last_message_at"`
	CreatedAt     time.Time     `json:"created_at"`
}

type SessionStatus string

const (
	SessionOpen   SessionStatus = "open"
	SessionClosed SessionStatus = "closed"
)

// ProductStats is the per-product dashboard summary.
type ProductStats struct {
	ProductID      int64     `json:"product_id"`
	OpenSessions   int       `json:"open_sessions"`
	UnreadMessages int       `json:"unread_messages"`
	MessagesToday  int       `json:"messages_today"`
	LastActivityAt time.Time `json:"last_activity_at"`
}
