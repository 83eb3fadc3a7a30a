package models

import (
	"time"
)

// MaxMessageContentLength bounds the content of a single direct message,
// counted in characters, not bytes.
const MaxMessageContentLength = 1000

// Message is a single direct message between two users. Rows are append-only:
// IsRead is the only field that ever changes, and it only goes false -> true.
type Message struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	SenderID   uint `gorm:"index;not null" json:"sender_id"`
	ReceiverID uint `gorm:"index;not null" json:"receiver_id"`

	// Optional listing this message is about. Loose contextual tag only: the
	// product may disappear later and the message stays valid.
	ProductID *uint `gorm:"index" json:"product_id,omitempty"`

	Content string `gorm:"size:1000;not null" json:"content"`
	IsRead  bool   `gorm:"default:false;not null" json:"is_read"`

	// Assigned by the store at insert time. Display order inside a conversation
	// is CreatedAt ascending, ties broken by ID.
	CreatedAt time.Time `json:"created_at"`
}
