package models

import "time"

// Message is one persisted direct message. Live websocket delivery is a
// separate channel with no relation to this store: a message can be
// relayed without being persisted and persisted without being delivered.
type Message struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	SenderID   uint       `json:"sender_id" gorm:"not null;index"`
	Sender     User       `json:"sender" gorm:"foreignKey:SenderID"`
	ReceiverID uint       `json:"receiver_id" gorm:"not null;index"`
	Receiver   User       `json:"receiver" gorm:"foreignKey:ReceiverID"`
	JobID      *uint      `json:"job_id"`
	Content    string     `json:"content" gorm:"type:text;not null"`
	IsRead     bool       `json:"is_read" gorm:"default:false"`
	ReadAt     *time.Time `json:"read_at"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (Message) TableName() string {
	return "messages"
}

// ConversationSummary is one entry of the conversations list: the other
// party, the latest message exchanged with them, and how many of their
// messages are still unread.
type ConversationSummary struct {
	OtherUser   ConversationUser `json:"other_user"`
	LastMessage Message          `json:"last_message"`
	UnreadCount int              `json:"unread_count"`
}

// ConversationUser is the slim user projection embedded in a
// conversation summary
type ConversationUser struct {
	ID             uint     `json:"id"`
	Name           string   `json:"name"`
	ProfilePicture string   `json:"profile_picture"`
	UserType       UserType `json:"user_type"`
}
