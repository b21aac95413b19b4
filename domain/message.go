package domain

import (
	"context"
	"time"
)

// MessageMaxLength bounds the text of a single message.
const MessageMaxLength = 140

// Message is a short post authored by exactly one user. Messages are
// immutable after creation, the only mutation is a hard delete by the owner.
type Message struct {
	ID     int    `json:"id"`
	UserID int    `json:"user_id" gorm:"notNull;index"`
	User   User   `json:"user"`
	Text   string `json:"text" gorm:"size:140;notNull"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Likes []Like `json:"likes" gorm:"foreignKey:MessageID"`
}

// MessageService is a set of methods to manipulate and work with the Message model.
type MessageService interface {
	ByID(ctx context.Context, id int) (*Message, error)
	// ByUserID returns a user's messages, most recent first.
	ByUserID(ctx context.Context, userID int) ([]Message, error)
	// Recent returns the newest messages across all users.
	Recent(ctx context.Context, limit int) ([]Message, error)
	// Feed returns the user's own messages plus those of everyone they
	// follow, most recent first.
	Feed(ctx context.Context, userID int, limit int) ([]Message, error)
	Create(ctx context.Context, message *Message) error
	Delete(ctx context.Context, message *Message) error
}
