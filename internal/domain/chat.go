package domain

import "time"

// Conversation is a chat thread between two or more users.
type Conversation struct {
	ID    int64   `json:"id" gorm:"primaryKey"`
	Title *string `json:"title,omitempty"`

	// Used for sorting the conversation list, newest activity first.
	LastMessageAt time.Time `json:"last_message_at" gorm:"default:CURRENT_TIMESTAMP"`
	CreatedAt     time.Time `json:"created_at" gorm:"default:CURRENT_TIMESTAMP"`

	// Filled by the service, not columns.
	Participants []User   `json:"participants,omitempty" gorm:"-"`
	LastMessage  *Message `json:"last_message,omitempty" gorm:"-"`
	UnreadCount  int64    `json:"unread_count" gorm:"-"`
}

func (Conversation) TableName() string { return "conversations" }

// ConversationParticipant joins users to conversations.
type ConversationParticipant struct {
	ID             int64     `json:"id" gorm:"primaryKey"`
	ConversationID int64     `json:"conversation_id" gorm:"not null;uniqueIndex:idx_conv_participant"`
	UserID         int64     `json:"user_id" gorm:"not null;uniqueIndex:idx_conv_participant"`
	JoinedAt       time.Time `json:"joined_at" gorm:"default:CURRENT_TIMESTAMP"`
}

func (ConversationParticipant) TableName() string { return "conversation_participants" }

type Message struct {
	ID             int64  `json:"id" gorm:"primaryKey"`
	ConversationID int64  `json:"conversation_id" gorm:"not null;index"`
	SenderID       int64  `json:"sender_id" gorm:"not null"`
	Content        string `json:"content" gorm:"not null"`

	IsRead bool       `json:"is_read" gorm:"default:false"`
	ReadAt *time.Time `json:"read_at,omitempty"`

	CreatedAt time.Time `json:"created_at" gorm:"default:CURRENT_TIMESTAMP"`

	// Filled by the service.
	Sender *User `json:"sender,omitempty" gorm:"-"`
}

func (Message) TableName() string { return "messages" }
