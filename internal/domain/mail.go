package domain

import "time"

type MailFolder string

const (
	FolderInbox   MailFolder = "inbox"
	FolderSent    MailFolder = "sent"
	FolderStarred MailFolder = "starred"
	FolderTrash   MailFolder = "trash"
)

// Email is a stored message. Inbox/sent come from the Folder column;
// starred and trash are flag-based views layered on top of it.
type Email struct {
	ID      int64      `json:"id" gorm:"primaryKey"`
	OwnerID int64      `json:"owner_id" gorm:"not null;index"`
	Folder  MailFolder `json:"folder" gorm:"not null;default:'inbox'"`

	FromAddress string `json:"from_address" gorm:"not null"`
	ToAddress   string `json:"to_address" gorm:"not null"`
	Subject     string `json:"subject"`
	Body        string `json:"body" gorm:"type:text"`

	IsRead    bool `json:"is_read" gorm:"default:false"`
	IsStarred bool `json:"is_starred" gorm:"default:false"`
	IsTrashed bool `json:"is_trashed" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at"`
}

func (Email) TableName() string { return "emails" }
