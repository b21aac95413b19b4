package domain

import (
	"context"
	"time"
)

// User represents a registered account. The Password field only ever holds
// plaintext in memory while a signup, login or profile edit is in flight;
// what gets stored is PasswordHash. Remember is the plaintext session token
// handed to the browser as a cookie, RememberHash is what the users table
// actually holds.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username" gorm:"uniqueIndex;size:50;not null"`
	Email    string `json:"email" gorm:"uniqueIndex;size:255;not null"`

	Password     string `json:"-" gorm:"-"`
	PasswordHash string `json:"-" gorm:"not null"`
	Remember     string `json:"-" gorm:"-"`
	RememberHash string `json:"-" gorm:"index"`

	Bio            string `json:"bio"`
	Location       string `json:"location"`
	ImageURL       string `json:"image_url"`
	HeaderImageURL string `json:"header_image_url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Messages []Message `json:"messages" gorm:"foreignKey:UserID"`
	Likes    []Like    `json:"likes" gorm:"foreignKey:UserID"`
}

// UserService is a set of methods to manipulate and work with the User model.
type UserService interface {
	Authenticate(ctx context.Context, username, password string) (*User, error)
	ByID(ctx context.Context, id int) (*User, error)
	ByUsername(ctx context.Context, username string) (*User, error)
	ByEmail(ctx context.Context, email string) (*User, error)
	ByRemember(ctx context.Context, token string) (*User, error)
	All(ctx context.Context) ([]User, error)
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id int) error
}
