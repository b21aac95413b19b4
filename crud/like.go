package crud

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"warbler/domain"
	"warbler/errs"
)

// LikeService manages Like edges between users and messages.
// It implements the domain.LikeService interface.
type LikeService struct {
	likeValidator
}

// likeValidator runs validations on incoming Like data.
// On success, it passes the data on to likeGorm.
type likeValidator struct {
	likeGorm
}

// likeGorm runs CRUD operations on the database using incoming Like data.
// It assumes that data has been validated.
type likeGorm struct {
	db *gorm.DB
}

// NewLikeService returns an instance of LikeService.
func NewLikeService(db *gorm.DB) *LikeService {
	return &LikeService{
		likeValidator{
			likeGorm{
				db: db,
			},
		},
	}
}

var _ domain.LikeService = &LikeService{}

// Create runs validations needed for creating new Like database records.
func (lv *likeValidator) Create(ctx context.Context, like *domain.Like) error {
	err := runLikeValFns(ctx, like,
		lv.userIDValid,
		lv.likedMessageExists,
		lv.notAlreadyLiked)
	if err != nil {
		return err
	}
	return lv.likeGorm.Create(ctx, like)
}

// Delete removes a Like edge. Unliking a message that was never liked is a
// no-op.
func (lv *likeValidator) Delete(ctx context.Context, like *domain.Like) error {
	err := runLikeValFns(ctx, like, lv.userIDValid)
	if err != nil {
		return err
	}
	return lv.likeGorm.Delete(ctx, like)
}

// runLikeValFns runs any number of functions of type likeValFn on the passed
// in Like object. If none of them returns an error, it returns nil.
// Otherwise, it returns the respective error.
func runLikeValFns(ctx context.Context, like *domain.Like, fns ...likeValFn) error {
	for _, fn := range fns {
		if err := fn(ctx, like); err != nil {
			return err
		}
	}
	return nil
}

// A likeValFn is any function that takes in a pointer to a domain.Like object
// and returns an error. Validations that touch the database run on the
// caller's context.
type likeValFn func(ctx context.Context, like *domain.Like) error

// likedMessageExists makes sure that the message to be liked actually exists.
func (lv *likeValidator) likedMessageExists(ctx context.Context, like *domain.Like) error {
	var message domain.Message
	err := lv.db.WithContext(ctx).First(&message, "id = ?", like.MessageID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.Errorf(errs.ENOTFOUND, "The liked message does not exist.")
		}
		return err
	}
	return nil
}

// notAlreadyLiked makes sure that the user doesn't already like the message.
func (lv *likeValidator) notAlreadyLiked(ctx context.Context, like *domain.Like) error {
	var existing domain.Like
	err := lv.db.WithContext(ctx).First(&existing, "user_id = ? AND message_id = ?", like.UserID, like.MessageID).Error
	if err == nil {
		return errs.Errorf(errs.ECONFLICT, "You already like this message.")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}

// userIDValid ensures that the userID is not empty.
func (lv *likeValidator) userIDValid(ctx context.Context, like *domain.Like) error {
	if like.UserID <= 0 {
		return errs.Errorf(errs.EINVALID, "A like must have a user.")
	}
	return nil
}

// IsLiked reports whether the user has liked the message.
func (lg *likeGorm) IsLiked(ctx context.Context, userID, messageID int) (bool, error) {
	var count int64
	err := lg.db.WithContext(ctx).Model(&domain.Like{}).
		Where("user_id = ? AND message_id = ?", userID, messageID).
		Count(&count).Error
	return count > 0, err
}

// MessagesLikedBy returns the messages a user has liked, most recently liked
// first, each with its author loaded.
func (lg *likeGorm) MessagesLikedBy(ctx context.Context, userID int) ([]domain.Message, error) {
	var messages []domain.Message
	err := lg.db.WithContext(ctx).
		Joins("JOIN likes ON likes.message_id = messages.id").
		Where("likes.user_id = ?", userID).
		Order("likes.created_at DESC, likes.id DESC").
		Preload("User").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// Create stores a new Like edge. A duplicate key at commit time comes back
// as a conflict, mirroring the pre-check above for concurrent requests.
func (lg *likeGorm) Create(ctx context.Context, like *domain.Like) error {
	err := lg.db.WithContext(ctx).Create(like).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errs.Errorf(errs.ECONFLICT, "You already like this message.")
	}
	return err
}

// Delete removes the edge matching the pair, if any.
func (lg *likeGorm) Delete(ctx context.Context, like *domain.Like) error {
	return lg.db.WithContext(ctx).
		Where("user_id = ? AND message_id = ?", like.UserID, like.MessageID).
		Delete(&domain.Like{}).Error
}
