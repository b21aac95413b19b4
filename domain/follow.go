package domain

import (
	"context"
	"time"
)

// Follow represents a self-referential many-to-many relationship between two
// users. The FollowerID is the ID of the user that follows, the FollowedID is
// the ID of the user being followed. The pair is unique, so following the
// same user twice is a constraint violation rather than a second edge.
type Follow struct {
	ID         int       `json:"id"`
	FollowerID int       `json:"-" gorm:"notNull;index;uniqueIndex:idx_follower_followed"`
	Follower   User      `json:"follower"`
	FollowedID int       `json:"-" gorm:"notNull;index;uniqueIndex:idx_follower_followed"`
	Followed   User      `json:"followed"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// FollowService is a set of methods to manipulate and work with the Follow model.
type FollowService interface {
	Create(ctx context.Context, follow *Follow) error
	// Delete removes the edge if present and is a no-op otherwise.
	Delete(ctx context.Context, follow *Follow) error
	IsFollowing(ctx context.Context, followerID, followedID int) (bool, error)
	IsFollowedBy(ctx context.Context, userID, followerID int) (bool, error)
	Following(ctx context.Context, userID int) ([]User, error)
	Followers(ctx context.Context, userID int) ([]User, error)
	CountFollowing(ctx context.Context, userID int) (int64, error)
	CountFollowers(ctx context.Context, userID int) (int64, error)
}
