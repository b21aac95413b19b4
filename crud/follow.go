package crud

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"warbler/domain"
	"warbler/errs"
)

// FollowService manages Follow edges between users.
// It implements the domain.FollowService interface.
type FollowService struct {
	followValidator
}

type followValidator struct {
	followGorm
}

type followGorm struct {
	db *gorm.DB
}

// NewFollowService returns an instance of FollowService.
func NewFollowService(db *gorm.DB) *FollowService {
	return &FollowService{
		followValidator{
			followGorm{
				db: db,
			},
		},
	}
}

var _ domain.FollowService = &FollowService{}

// Create runs validations needed for creating new Follow database records.
func (fv *followValidator) Create(ctx context.Context, follow *domain.Follow) error {
	err := runFollowValFns(ctx, follow,
		fv.followedIsNotFollower,
		fv.followedUserExists,
		fv.notAlreadyFollowed)
	if err != nil {
		return err
	}
	return fv.followGorm.Create(ctx, follow)
}

// Delete removes a Follow edge. Deleting an edge that does not exist is a
// no-op, so unfollow is safe to retry.
func (fv *followValidator) Delete(ctx context.Context, follow *domain.Follow) error {
	if follow.FollowerID <= 0 || follow.FollowedID <= 0 {
		return errs.Errorf(errs.EINVALID, "Invalid follow edge.")
	}
	return fv.followGorm.Delete(ctx, follow)
}

func runFollowValFns(ctx context.Context, follow *domain.Follow, fns ...followValFn) error {
	for _, fn := range fns {
		if err := fn(ctx, follow); err != nil {
			return err
		}
	}
	return nil
}

type followValFn func(ctx context.Context, follow *domain.Follow) error

// followedIsNotFollower rejects self-follows.
func (fv *followValidator) followedIsNotFollower(ctx context.Context, follow *domain.Follow) error {
	if follow.FollowerID == follow.FollowedID {
		return errs.Errorf(errs.EINVALID, "You cannot follow yourself.")
	}
	return nil
}

// followedUserExists makes sure the user to be followed exists. A missing
// target is a not-found condition, not an authorization failure.
func (fv *followValidator) followedUserExists(ctx context.Context, follow *domain.Follow) error {
	var user domain.User
	err := fv.db.WithContext(ctx).First(&user, "id = ?", follow.FollowedID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.Errorf(errs.ENOTFOUND, "The user to be followed does not exist.")
		}
		return err
	}
	return nil
}

// notAlreadyFollowed makes sure the edge does not already exist.
func (fv *followValidator) notAlreadyFollowed(ctx context.Context, follow *domain.Follow) error {
	var existing domain.Follow
	err := fv.db.WithContext(ctx).First(&existing, "follower_id = ? AND followed_id = ?", follow.FollowerID, follow.FollowedID).Error
	if err == nil {
		return errs.Errorf(errs.ECONFLICT, "You already follow this user.")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}

// IsFollowing reports whether an edge follower -> followed exists.
func (fg *followGorm) IsFollowing(ctx context.Context, followerID, followedID int) (bool, error) {
	var count int64
	err := fg.db.WithContext(ctx).Model(&domain.Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&count).Error
	return count > 0, err
}

// IsFollowedBy reports whether an edge follower -> user exists, i.e. whether
// the given user is being followed by followerID.
func (fg *followGorm) IsFollowedBy(ctx context.Context, userID, followerID int) (bool, error) {
	return fg.IsFollowing(ctx, followerID, userID)
}

// Following returns the users that the given user follows, ordered by username.
func (fg *followGorm) Following(ctx context.Context, userID int) ([]domain.User, error) {
	var users []domain.User
	err := fg.db.WithContext(ctx).
		Joins("JOIN follows ON follows.followed_id = users.id").
		Where("follows.follower_id = ?", userID).
		Order("users.username ASC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// Followers returns the users that follow the given user, ordered by username.
func (fg *followGorm) Followers(ctx context.Context, userID int) ([]domain.User, error) {
	var users []domain.User
	err := fg.db.WithContext(ctx).
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.followed_id = ?", userID).
		Order("users.username ASC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// CountFollowing returns the number of users the given user follows.
func (fg *followGorm) CountFollowing(ctx context.Context, userID int) (int64, error) {
	var count int64
	err := fg.db.WithContext(ctx).Model(&domain.Follow{}).
		Where("follower_id = ?", userID).
		Count(&count).Error
	return count, err
}

// CountFollowers returns the number of users following the given user.
func (fg *followGorm) CountFollowers(ctx context.Context, userID int) (int64, error) {
	var count int64
	err := fg.db.WithContext(ctx).Model(&domain.Follow{}).
		Where("followed_id = ?", userID).
		Count(&count).Error
	return count, err
}

// Create stores a new Follow edge. The composite unique index on the pair is
// the authority of record under concurrent requests, so a duplicate key at
// commit comes back as a conflict.
func (fg *followGorm) Create(ctx context.Context, follow *domain.Follow) error {
	err := fg.db.WithContext(ctx).Create(follow).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errs.Errorf(errs.ECONFLICT, "You already follow this user.")
	}
	return err
}

// Delete removes the edge matching the pair, if any.
func (fg *followGorm) Delete(ctx context.Context, follow *domain.Follow) error {
	return fg.db.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ?", follow.FollowerID, follow.FollowedID).
		Delete(&domain.Follow{}).Error
}
