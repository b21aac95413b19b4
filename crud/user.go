package crud

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"warbler/auth"
	"warbler/domain"
	"warbler/errs"
)

// DefaultImageURL and DefaultHeaderImageURL are applied to accounts that
// sign up without providing their own images.
const (
	DefaultImageURL       = "/static/images/default-pic.png"
	DefaultHeaderImageURL = "/static/images/warbler-hero.jpg"
)

// UserService manages Users. It also contains the part of the session system
// that handles database interactions and token hashing. It's the backend of
// the auth system, with http/auth.go dealing with requests, middleware and
// cookies being the frontend. It implements the domain.UserService interface.
type UserService struct {
	userValidator
}

// userValidator runs validations on incoming User data.
// On success, it passes the data on to userGorm.
// Otherwise, it returns the error of the validation that has failed.
type userValidator struct {
	hmac       HMAC
	pepper     string
	emailRegex *regexp.Regexp
	userGorm
}

// userGorm runs CRUD operations on the database using incoming User data.
// It assumes that data has been validated. On success, it returns nil.
// Otherwise, it returns the error of the operation that has failed.
type userGorm struct {
	db *gorm.DB
}

// NewUserService returns an instance of UserService.
func NewUserService(db *gorm.DB, pepper, hmacKey string) *UserService {
	return &UserService{
		userValidator{
			hmac:       newHMAC(hmacKey),
			pepper:     pepper,
			emailRegex: regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,16}$`),
			userGorm: userGorm{
				db: db,
			},
		},
	}
}

// Ensure the UserService struct properly implements the domain.UserService interface.
// If it does not, then this expression becomes invalid and won't compile.
var _ domain.UserService = &UserService{}

// Authenticate checks a submitted username and password for existence and
// correctness. Unknown username and wrong password both come back as the
// same unauthorized error, so callers can't probe which accounts exist.
// System errors keep their own codes.
func (uv *userValidator) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	found, err := uv.userGorm.ByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.EUNAUTHORIZED, "Invalid username or password.")
		}
		return nil, err
	}

	err = bcrypt.CompareHashAndPassword([]byte(found.PasswordHash), []byte(password+uv.pepper))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, errs.Errorf(errs.EUNAUTHORIZED, "Invalid username or password.")
		}
		return nil, err
	}
	return found, nil
}

// ByRemember runs validations on a session token, then passes the HASHED
// token on to userGorm.ByRemember, which looks it up in the database.
func (uv *userValidator) ByRemember(ctx context.Context, token string) (*domain.User, error) {
	user := domain.User{
		Remember: token,
	}
	if err := runUserValFns(ctx, &user, uv.rememberHmac); err != nil {
		return nil, err
	}
	return uv.userGorm.ByRemember(ctx, user.RememberHash)
}

// Create runs validations needed for creating new User database records.
// It will create a session token if none is provided.
func (uv *userValidator) Create(ctx context.Context, user *domain.User) error {
	err := runUserValFns(ctx, user,
		uv.passwordRequired,
		uv.passwordMinLength,
		uv.passwordBcrypt,
		uv.passwordHashRequired,
		uv.rememberSetIfUnset,
		uv.rememberMinBytes,
		uv.rememberHmac,
		uv.rememberHashRequired,
		uv.usernameNormalize,
		uv.usernameRequired,
		uv.usernameIsAvail,
		uv.emailNormalize,
		uv.emailRequired,
		uv.emailFormat,
		uv.emailIsAvail,
		uv.imagesDefault)
	if err != nil {
		return err
	}
	return uv.userGorm.Create(ctx, user)
}

// Update runs validations needed for updating a User record in the database.
// It will hash a session token if one is provided (and will not complain if
// none is).
func (uv *userValidator) Update(ctx context.Context, user *domain.User) error {
	err := runUserValFns(ctx, user,
		uv.passwordMinLength,
		uv.passwordBcrypt,
		uv.passwordHashRequired,
		uv.rememberMinBytes,
		uv.rememberHmac,
		uv.rememberHashRequired,
		uv.usernameNormalize,
		uv.usernameRequired,
		uv.usernameIsAvail,
		uv.emailNormalize,
		uv.emailRequired,
		uv.emailFormat,
		uv.emailIsAvail)
	if err != nil {
		return err
	}
	return uv.userGorm.Update(ctx, user)
}

// Delete runs validations needed for deleting a User record, then removes
// the record and everything hanging off it.
func (uv *userValidator) Delete(ctx context.Context, id int) error {
	if id <= 0 {
		return errs.Errorf(errs.EINVALID, "Invalid user ID.")
	}
	return uv.userGorm.Delete(ctx, id)
}

// runUserValFns runs any number of functions of type userValFn on the passed
// in User object. If none of them returns an error, it returns nil.
// Otherwise, it returns the respective error.
func runUserValFns(ctx context.Context, user *domain.User, fns ...userValFn) error {
	for _, fn := range fns {
		if err := fn(ctx, user); err != nil {
			return err
		}
	}
	return nil
}

// A userValFn is any function that takes in a pointer to a domain.User object
// and returns an error. Validations that touch the database run on the
// caller's context.
type userValFn func(ctx context.Context, user *domain.User) error

// emailFormat makes sure that a provided email address matches a predefined
// regex pattern.
func (uv *userValidator) emailFormat(ctx context.Context, user *domain.User) error {
	if user.Email == "" {
		return nil
	}
	if !uv.emailRegex.MatchString(user.Email) {
		return errs.Errorf(errs.EINVALID, "The email address is invalid.")
	}
	return nil
}

// emailIsAvail makes sure that a provided email address is not yet taken.
func (uv *userValidator) emailIsAvail(ctx context.Context, user *domain.User) error {
	existing, err := uv.userGorm.ByEmail(ctx, user.Email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Address is not taken.
		return nil
	}
	if err != nil {
		return err
	}
	if user.ID != existing.ID {
		return errs.Errorf(errs.ECONFLICT, "This email address is already taken.")
	}
	return nil
}

// emailNormalize converts the email to all lowercase and trims its whitespaces.
func (uv *userValidator) emailNormalize(ctx context.Context, user *domain.User) error {
	user.Email = strings.ToLower(user.Email)
	user.Email = strings.TrimSpace(user.Email)
	return nil
}

// emailRequired makes sure that the email is not the empty string.
func (uv *userValidator) emailRequired(ctx context.Context, user *domain.User) error {
	if user.Email == "" {
		return errs.Errorf(errs.EINVALID, "An email address is required.")
	}
	return nil
}

// usernameNormalize trims whitespace around the username.
func (uv *userValidator) usernameNormalize(ctx context.Context, user *domain.User) error {
	user.Username = strings.TrimSpace(user.Username)
	return nil
}

// usernameRequired makes sure that the username is not the empty string.
func (uv *userValidator) usernameRequired(ctx context.Context, user *domain.User) error {
	if user.Username == "" {
		return errs.Errorf(errs.EINVALID, "A username is required.")
	}
	return nil
}

// usernameIsAvail makes sure that a provided username is not yet taken.
func (uv *userValidator) usernameIsAvail(ctx context.Context, user *domain.User) error {
	existing, err := uv.userGorm.ByUsername(ctx, user.Username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if user.ID != existing.ID {
		return errs.Errorf(errs.ECONFLICT, "This username is already taken.")
	}
	return nil
}

// passwordBcrypt hashes a user's password with a predefined pepper.
// It bcrypts it, if the Password field is not the empty string.
// It then clears the plaintext password on the user object in memory.
func (uv *userValidator) passwordBcrypt(ctx context.Context, user *domain.User) error {
	if user.Password == "" {
		return nil
	}
	pwBytes := []byte(user.Password + uv.pepper)
	hashedBytes, err := bcrypt.GenerateFromPassword(pwBytes, bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hashedBytes)
	user.Password = ""
	return nil
}

// passwordHashRequired makes sure that the user's password hash is not the
// empty string.
func (uv *userValidator) passwordHashRequired(ctx context.Context, user *domain.User) error {
	if user.PasswordHash == "" {
		return errs.Errorf(errs.EINVALID, "A password is required.")
	}
	return nil
}

// passwordMinLength makes sure that the user's password is at least 6
// characters long.
func (uv *userValidator) passwordMinLength(ctx context.Context, user *domain.User) error {
	if user.Password == "" {
		return nil
	}
	if utf8.RuneCountInString(user.Password) < 6 {
		return errs.Errorf(errs.EINVALID, "The password must have at least 6 characters.")
	}
	return nil
}

// passwordRequired makes sure that the user's password is not the empty string.
func (uv *userValidator) passwordRequired(ctx context.Context, user *domain.User) error {
	if user.Password == "" {
		return errs.Errorf(errs.EINVALID, "A password is required.")
	}
	return nil
}

// rememberHashRequired makes sure the user's session token hash is not the
// empty string.
func (uv *userValidator) rememberHashRequired(ctx context.Context, user *domain.User) error {
	if user.RememberHash == "" {
		return errs.Errorf(errs.EINVALID, "A session token hash is required.")
	}
	return nil
}

// rememberHmac creates the user's session token hash, if a token has been provided.
func (uv *userValidator) rememberHmac(ctx context.Context, user *domain.User) error {
	if user.Remember == "" {
		return nil
	}
	user.RememberHash = uv.hmac.hash(user.Remember)
	return nil
}

// rememberMinBytes makes sure that the user's session token is not too short.
func (uv *userValidator) rememberMinBytes(ctx context.Context, user *domain.User) error {
	if user.Remember == "" {
		return nil
	}
	n, err := auth.NBytes(user.Remember)
	if err != nil {
		return err
	}
	if n < auth.RememberTokenBytes {
		return errs.Errorf(errs.EINVALID, "The session token is too short.")
	}
	return nil
}

// rememberSetIfUnset creates the user's session token if none is provided.
func (uv *userValidator) rememberSetIfUnset(ctx context.Context, user *domain.User) error {
	if user.Remember != "" {
		return nil
	}
	token, err := auth.MakeRememberToken()
	if err != nil {
		return err
	}
	user.Remember = token
	return nil
}

// imagesDefault fills in the stock profile images for accounts that sign up
// without their own.
func (uv *userValidator) imagesDefault(ctx context.Context, user *domain.User) error {
	if user.ImageURL == "" {
		user.ImageURL = DefaultImageURL
	}
	if user.HeaderImageURL == "" {
		user.HeaderImageURL = DefaultHeaderImageURL
	}
	return nil
}

// ByID retrieves a User database record by ID.
func (ug *userGorm) ByID(ctx context.Context, id int) (*domain.User, error) {
	var user domain.User
	err := ug.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "The user does not exist.")
		}
		return nil, err
	}
	return &user, nil
}

// ByUsername retrieves a User database record by username. A missing record
// surfaces as gorm.ErrRecordNotFound so the validator layer can decide how
// to present it.
func (ug *userGorm) ByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	err := ug.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ByEmail retrieves a User database record by email.
func (ug *userGorm) ByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := ug.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ByRemember retrieves a User database record by its hashed session token.
// The checkUser middleware calls this on every request, trying to identify
// a user by matching a request cookie's token against the stored hash.
func (ug *userGorm) ByRemember(ctx context.Context, rememberHash string) (*domain.User, error) {
	var user domain.User
	err := ug.db.WithContext(ctx).Where("remember_hash = ?", rememberHash).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Errorf(errs.ENOTFOUND, "No user for this session.")
		}
		return nil, err
	}
	return &user, nil
}

// All retrieves all User records, ordered by username.
func (ug *userGorm) All(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	err := ug.db.WithContext(ctx).Order("username ASC").Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// Create stores the data from the User object in a new database record.
// A duplicate key failure at commit time is the authority on uniqueness
// under concurrent signups, so it comes back as a conflict rather than a
// generic database error.
func (ug *userGorm) Create(ctx context.Context, user *domain.User) error {
	err := ug.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errs.Errorf(errs.ECONFLICT, "Username or email already taken.")
	}
	return err
}

// Update saves changes to an existing user record in the database.
func (ug *userGorm) Update(ctx context.Context, user *domain.User) error {
	err := ug.db.WithContext(ctx).Save(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errs.Errorf(errs.ECONFLICT, "Username or email already taken.")
	}
	return err
}

// Delete removes a user record and cascades over everything that references
// it: likes on the user's messages, likes the user authored, follow edges in
// both directions, and the user's messages. All of it happens in a single
// transaction so no dangling edges survive a partial failure.
func (ug *userGorm) Delete(ctx context.Context, id int) error {
	return ug.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var messageIDs []int
		if err := tx.Model(&domain.Message{}).Where("user_id = ?", id).Pluck("id", &messageIDs).Error; err != nil {
			return err
		}
		if len(messageIDs) > 0 {
			if err := tx.Where("message_id IN ?", messageIDs).Delete(&domain.Like{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("user_id = ?", id).Delete(&domain.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("follower_id = ? OR followed_id = ?", id, id).Delete(&domain.Follow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&domain.Message{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.User{}, id).Error
	})
}

// HMAC is a wrapper around the crypto/hmac package making it easier to use.
// It only holds the key; each call builds its own mac, so the session
// middleware can hash tokens from concurrent requests safely.
type HMAC struct {
	key []byte
}

// newHMAC creates and returns a new HMAC object.
func newHMAC(key string) HMAC {
	return HMAC{
		key: []byte(key),
	}
}

// hash hashes an input string using HMAC with the secret key
// provided when the HMAC object was created in NewUserService.
func (h HMAC) hash(input string) string {
	mac := hmac.New(sha256.New, h.key)
	mac.Write([]byte(input))
	b := mac.Sum(nil)
	return base64.URLEncoding.EncodeToString(b)
}
