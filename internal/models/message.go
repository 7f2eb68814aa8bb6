package models

import "time"

// MessageType classifies a chat message.
type MessageType string

const (
	MessageText   MessageType = "text"
	MessageImage  MessageType = "image"
	MessageFile   MessageType = "file"
	MessageSystem MessageType = "system"
)

// ValidMessageType reports whether s is one of the four message types.
func ValidMessageType(s string) bool {
	switch MessageType(s) {
	case MessageText, MessageImage, MessageFile, MessageSystem:
		return true
	}
	return false
}

// Message is one append-only entry in an emergency request's chat thread.
type Message struct {
	ID                 string      `json:"id" gorm:"primaryKey"`
	EmergencyRequestID string      `json:"emergency_request_id" gorm:"not null"`
	SenderID           string      `json:"sender_id" gorm:"not null"`
	Content            string      `json:"message" gorm:"column:message;not null"`
	MessageType        MessageType `json:"message_type" gorm:"not null;default:text"`
	CreatedAt          time.Time   `json:"created_at" gorm:"autoCreateTime"`

	Emergency *EmergencyRequest `json:"-" gorm:"foreignKey:EmergencyRequestID"`
	Sender    *User             `json:"-" gorm:"foreignKey:SenderID"`
}

// MessageWithSender is the display row: the message joined with who sent it.
type MessageWithSender struct {
	Message
	SenderName string `json:"sender_name"`
	SenderRole Role   `json:"sender_role"`
}
