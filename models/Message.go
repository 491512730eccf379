package models

import (
	"time"

	"gorm.io/gorm"
)

// Conversation links a citizen with an officer over a subject. One side
// starts it; messages hang off it.
type Conversation struct {
	gorm.Model
	CitizenID uint   `json:"citizenID" gorm:"not null;index"`
	Citizen   User   `json:"citizen" gorm:"foreignKey:CitizenID"`
	OfficerID uint   `json:"officerID" gorm:"not null;index"`
	Officer   User   `json:"officer" gorm:"foreignKey:OfficerID"`
	Subject   string `json:"subject" gorm:"size:200"`

	Messages []Message `json:"messages,omitempty" gorm:"foreignKey:ConversationID"`
}

type Message struct {
	gorm.Model
	ConversationID uint   `json:"conversationID" gorm:"not null;index"`
	SenderID       uint   `json:"senderID" gorm:"not null;index"`
	ReceiverID     uint   `json:"receiverID" gorm:"not null;index"`
	Text           string `json:"text" gorm:"type:text"`

	// Optional reference to an entity the message is about.
	RefType string `json:"refType" gorm:"size:32"` // application | order
	RefID   *uint  `json:"refID" gorm:"index"`

	ReadAt *time.Time `json:"readAt"`
}
