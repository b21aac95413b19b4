package crud

import (
	"context"
	"errors"
	"unicode/utf8"

	"gorm.io/gorm"

	"warbler/domain"
	"warbler/errs"
)

// MessageService manages Messages.
// It implements the domain.MessageService interface.
type MessageService struct {
	messageValidator
}

// messageValidator runs validations on incoming Message data.
// On success, it passes the data on to messageGorm.
// Otherwise, it returns the error of the validation that has failed.
type messageValidator struct {
	messageGorm
}

// messageGorm runs CRUD operations on the database using incoming Message data.
// It assumes that data has been validated.
type messageGorm struct {
	db *gorm.DB
}

// NewMessageService returns an instance of MessageService.
func NewMessageService(db *gorm.DB) *MessageService {
	return &MessageService{
		messageValidator{
			messageGorm{
				db: db,
			},
		},
	}
}

// Ensure the MessageService struct properly implements the domain.MessageService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.MessageService = &MessageService{}

// Create runs validations needed for creating new Message database records.
func (mv *messageValidator) Create(ctx context.Context, message *domain.Message) error {
	err := runMessageValFns(message,
		mv.userIDValid,
		mv.textMinLength,
		mv.textMaxLength)
	if err != nil {
		return err
	}
	return mv.messageGorm.Create(ctx, message)
}

// Delete runs validations needed for deleting existing Message database records.
func (mv *messageValidator) Delete(ctx context.Context, message *domain.Message) error {
	err := runMessageValFns(message, mv.idValid)
	if err != nil {
		return err
	}
	return mv.messageGorm.Delete(ctx, message)
}

// runMessageValFns runs any number of functions of type messageValFn on the
// passed in Message object. If none of them returns an error, it returns nil.
// Otherwise, it returns the respective error.
func runMessageValFns(message *domain.Message, fns ...messageValFn) error {
	for _, fn := range fns {
		if err := fn(message); err != nil {
			return err
		}
	}
	return nil
}

// A messageValFn is any function that takes in a pointer to a domain.Message
// object and returns an error.
type messageValFn func(message *domain.Message) error

// idValid makes sure the message ID is set.
func (mv *messageValidator) idValid(message *domain.Message) error {
	if message.ID <= 0 {
		return errs.Errorf(errs.EINVALID, "Invalid message ID.")
	}
	return nil
}

// userIDValid makes sure the message has an owner.
func (mv *messageValidator) userIDValid(message *domain.Message) error {
	if message.UserID <= 0 {
		return errs.Errorf(errs.EINVALID, "A message must have an owner.")
	}
	return nil
}

// textMinLength makes sure the message text is not empty.
func (mv *messageValidator) textMinLength(message *domain.Message) error {
	if message.Text == "" {
		return errs.Errorf(errs.EINVALID, "The message must not be empty.")
	}
	return nil
}

// textMaxLength makes sure the message text does not exceed the length bound.
func (mv *messageValidator) textMaxLength(message *domain.Message) error {
	if utf8.RuneCountInString(message.Text) > domain.MessageMaxLength {
		return errs.Errorf(errs.EINVALID, "The message must not have more than %d characters.", domain.MessageMaxLength)
	}
	return nil
}

// ByID retrieves a Message database record by ID, along with its author.
func (mg *messageGorm) ByID(ctx context.Context, id int) (*domain.Message, error) {
	var message domain.Message
	err := mg.db.WithContext(ctx).Preload("User").First(&message, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "The message does not exist.")
		}
		return nil, err
	}
	return &message, nil
}

// ByUserID retrieves all messages of a user, most recent first.
func (mg *messageGorm) ByUserID(ctx context.Context, userID int) ([]domain.Message, error) {
	var messages []domain.Message
	err := mg.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// Recent retrieves the newest messages across all users, along with their
// authors.
func (mg *messageGorm) Recent(ctx context.Context, limit int) ([]domain.Message, error) {
	var messages []domain.Message
	err := mg.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// Feed retrieves the user's own messages plus those of everyone they follow,
// most recent first.
func (mg *messageGorm) Feed(ctx context.Context, userID int, limit int) ([]domain.Message, error) {
	var messages []domain.Message
	followed := mg.db.Model(&domain.Follow{}).
		Select("followed_id").
		Where("follower_id = ?", userID)
	err := mg.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ? OR user_id IN (?)", userID, followed).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// Create stores the data from the Message object in a new database record.
// The creation timestamp is stamped by gorm on insert.
func (mg *messageGorm) Create(ctx context.Context, message *domain.Message) error {
	return mg.db.WithContext(ctx).Create(message).Error
}

// Delete permanently removes a message record, together with any likes
// pointing at it, in one transaction.
func (mg *messageGorm) Delete(ctx context.Context, message *domain.Message) error {
	return mg.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("message_id = ?", message.ID).Delete(&domain.Like{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Message{}, message.ID).Error
	})
}
