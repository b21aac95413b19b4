package domain

import (
	"context"
	"time"
)

// Like represents a many-to-many relationship between a User and a Message.
// A Like is created when a user likes a message and destroyed when they
// unlike it, or when the message itself gets deleted. The (user, message)
// pair is unique.
type Like struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id" gorm:"notNull;index;uniqueIndex:idx_user_message"`
	MessageID int       `json:"message_id" gorm:"notNull;uniqueIndex:idx_user_message"`
	Message   Message   `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LikeService is a set of methods to manipulate and work with the Like model.
type LikeService interface {
	Create(ctx context.Context, like *Like) error
	// Delete removes the edge if present and is a no-op otherwise.
	Delete(ctx context.Context, like *Like) error
	IsLiked(ctx context.Context, userID, messageID int) (bool, error)
	// MessagesLikedBy returns the messages a user has liked, most recently
	// liked first.
	MessagesLikedBy(ctx context.Context, userID int) ([]Message, error)
}
