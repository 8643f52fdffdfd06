package domain

import "time"

// Message represents a chat message within a session.
type Message struct {
	ID            int64       `json:"id" db:"id"`
	SessionID     string      `json:"session_id" db:"session_id"`
	ProductID     int64       `json:"product_id" db:"product_id"`
	MessageText   string      `json:"message_text" db:"message_text"`
	SenderType    SenderType  `json:"sender_type" db:"sender_type"`
	SenderName    string      `json:"sender_name,omitempty" db:"sender_name"`
	CustomerEmail string      `json:"customer_email,omitempty" db:"customer_email"`
	MessageType   MessageType `json:"message_type" db:"message_type"`
	IsRead        bool        `json:"is_read" db:"is_read"`
	CreatedAt     time.Time   `json:"created_at" db:"created_at"`
}

type SenderType string

const (
	SenderCustomer SenderType = "customer"
	SenderAgent    SenderType = "agent"
	SenderSystem   SenderType = "system"
)

type MessageType string

const (
	MessageTypeText MessageType = "text"
	MessageTypeNote MessageType = "note"
)

// MessageDraft is the caller-supplied content of a new message.
type MessageDraft struct {
	MessageText   string      `json:"message_text"`
	SenderType    SenderType  `json:"sender_type,omitempty"`
	SenderName    string      `json:"sender_name,omitempty"`
	CustomerEmail string      `json:"customer_email,omitempty"`
	MessageType   MessageType `json:"message_type,omitempty"`
}
