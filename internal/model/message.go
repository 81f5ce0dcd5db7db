package model

import "time"

type Message struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SenderID   uint      `gorm:"index;not null" json:"sender_id"`
	ReceiverID uint      `gorm:"index;not null" json:"receiver_id"`
	ProductID  *uint     `gorm:"index" json:"product_id,omitempty"` // Product the conversation started from
	Message    string    `gorm:"type:text;not null" json:"message"`
	IsRead     bool      `gorm:"default:false;index" json:"is_read"`
	CreatedAt  time.Time `json:"created_at"`

	Sender *User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
}

// Conversation summarises the thread between the current user and one partner
type Conversation struct {
	PartnerID       uint      `json:"partner_id"`
	PartnerUsername string    `json:"partner_username"`
	LastMessage     string    `json:"last_message"`
	LastMessageAt   time.Time `json:"last_message_at"`
	UnreadCount     int64     `json:"unread_count"`
}
