package crud

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"warbler/domain"
)

// testDB creates an in-memory SQLite database with the full schema.
// TranslateError is on, same as the production connection, so constraint
// violations surface as gorm.ErrDuplicatedKey.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.User{},
		&domain.Message{},
		&domain.Follow{},
		&domain.Like{},
	))
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})
	return db
}

// testServices builds the full services container on a fresh test database.
func testServices(t *testing.T) *Services {
	t.Helper()
	services, err := NewServices(
		testDB(t),
		WithUser("test-pepper", "test-hmac-key"),
		WithMessage(),
		WithFollow(),
		WithLike(),
	)
	require.NoError(t, err)
	return services
}

// createTestUser signs up a user with the given username and email.
func createTestUser(t *testing.T, s *Services, username, email string) *domain.User {
	t.Helper()
	user := &domain.User{
		Username: username,
		Email:    email,
		Password: "HASHED_PASSWORD",
	}
	require.NoError(t, s.User.Create(context.Background(), user))
	return user
}

// createTestMessage posts a message as the given user.
func createTestMessage(t *testing.T, s *Services, user *domain.User, text string) *domain.Message {
	t.Helper()
	message := &domain.Message{
		UserID: user.ID,
		Text:   text,
	}
	require.NoError(t, s.Message.Create(context.Background(), message))
	return message
}
