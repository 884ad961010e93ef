package service

import (
	"time"

	"github.com/nestboard-dev/nestboard/shared/domain"
	"github.com/nestboard-dev/nestboard/shared/errors"
	"github.com/nestboard-dev/nestboard/shared/logger"
)

const resetTokenTTL = time.Hour

type UserService interface {
	Create(username, email, password string) (domain.User, error)
	Import(data domain.UserImportData) (domain.User, error)
	Get(id domain.Id) (domain.User, error)
	GetByUsername(username string) (domain.User, error)
	GetByEmail(email string) (domain.User, error)
	GetByLegacyId(legacy int64) (domain.User, error)
	Update(id domain.Id, upd UserUpdate) (domain.User, error)
	Delete(id domain.Id) error
	Purge(id domain.Id) error
	CheckPassword(email, password string) (domain.User, error)
	RequestPasswordReset(email string) (string, error)
	ResetPassword(email, token, newPassword string) error
}

// UserUpdate carries the caller-facing mutable fields. Password arrives
// in plaintext and is hashed before it reaches storage.
type UserUpdate struct {
	Username *string
	Email    *string
	Password *string
}

type User struct {
	storage   UserStorage
	validator UserValidator
	hasher    PasswordHasher
	tokens    TokenSource
}

type UserStorage interface {
	CreateUser(data domain.UserCreationData) (domain.User, error)
	ImportUser(data domain.UserImportData) (domain.User, error)
	GetUser(id domain.Id) (domain.User, error)
	GetUserByUsername(username string) (domain.User, error)
	GetUserByEmail(email string) (domain.User, error)
	GetUserByLegacyId(legacy int64) (domain.User, error)
	UpdateUser(id domain.Id, upd domain.UserUpdateData) (domain.User, error)
	DeleteUser(id domain.Id) error
	PurgeUser(id domain.Id) error
}

type UserValidator interface {
	Username(username string) error
	Email(email string) error
	Password(password string) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenSource issues reset tokens and produces the keyed digest that is
// stored instead of the raw token.
type TokenSource interface {
	New() (string, error)
	Obscure(token string) string
}

func NewUser(storage UserStorage, validator UserValidator, hasher PasswordHasher, tokens TokenSource) UserService {
	return &User{storage, validator, hasher, tokens}
}

func (u *User) Create(username, email, password string) (domain.User, error) {
	if err := u.validator.Username(username); err != nil {
		return domain.User{}, err
	}
	if err := u.validator.Email(email); err != nil {
		return domain.User{}, err
	}
	if err := u.validator.Password(password); err != nil {
		return domain.User{}, err
	}
	passHash, err := u.hasher.Hash(password)
	if err != nil {
		logger.Log.Error("failed to hash password", "error", err)
		return domain.User{}, err
	}
	return u.storage.CreateUser(domain.UserCreationData{Username: username, Email: email, PassHash: passHash})
}

// Import trusts the legacy hash as-is; only username and email are checked.
func (u *User) Import(data domain.UserImportData) (domain.User, error) {
	if err := u.validator.Username(data.Username); err != nil {
		return domain.User{}, err
	}
	if err := u.validator.Email(data.Email); err != nil {
		return domain.User{}, err
	}
	return u.storage.ImportUser(data)
}

func (u *User) Get(id domain.Id) (domain.User, error) {
	return u.storage.GetUser(id)
}

func (u *User) GetByUsername(username string) (domain.User, error) {
	return u.storage.GetUserByUsername(username)
}

func (u *User) GetByEmail(email string) (domain.User, error) {
	return u.storage.GetUserByEmail(email)
}

func (u *User) GetByLegacyId(legacy int64) (domain.User, error) {
	return u.storage.GetUserByLegacyId(legacy)
}

func (u *User) Update(id domain.Id, upd UserUpdate) (domain.User, error) {
	var data domain.UserUpdateData
	if upd.Username != nil {
		if err := u.validator.Username(*upd.Username); err != nil {
			return domain.User{}, err
		}
		data.Username = upd.Username
	}
	if upd.Email != nil {
		if err := u.validator.Email(*upd.Email); err != nil {
			return domain.User{}, err
		}
		data.Email = upd.Email
	}
	if upd.Password != nil {
		if err := u.validator.Password(*upd.Password); err != nil {
			return domain.User{}, err
		}
		passHash, err := u.hasher.Hash(*upd.Password)
		if err != nil {
			logger.Log.Error("failed to hash password", "user_id", id, "error", err)
			return domain.User{}, err
		}
		data.PassHash = &passHash
	}
	return u.storage.UpdateUser(id, data)
}

func (u *User) Delete(id domain.Id) error {
	return u.storage.DeleteUser(id)
}

func (u *User) Purge(id domain.Id) error {
	return u.storage.PurgeUser(id)
}

// CheckPassword verifies credentials without leaking which part was wrong.
func (u *User) CheckPassword(email, password string) (domain.User, error) {
	user, err := u.storage.GetUserByEmail(email)
	if err != nil {
		if errors.IsNotFound(err) {
			return domain.User{}, &errors.ValidationError{Message: "Invalid credentials"}
		}
		return domain.User{}, err
	}
	if err := u.hasher.Compare(user.PassHash, password); err != nil {
		logger.Log.Error("password verification failed", "user_id", user.Id, "error", err)
		return domain.User{}, &errors.ValidationError{Message: "Invalid credentials"}
	}
	return user, nil
}

// RequestPasswordReset issues a fresh token and stores its digest with an
// expiration. The raw token is returned to the caller exactly once.
func (u *User) RequestPasswordReset(email string) (string, error) {
	user, err := u.storage.GetUserByEmail(email)
	if err != nil {
		return "", err
	}
	token, err := u.tokens.New()
	if err != nil {
		logger.Log.Error("failed to generate reset token", "user_id", user.Id, "error", err)
		return "", err
	}
	digest := u.tokens.Obscure(token)
	expires := domain.Timestamp(time.Now().Add(resetTokenTTL).UnixMilli())
	_, err = u.storage.UpdateUser(user.Id, domain.UserUpdateData{ResetToken: &digest, ResetExpiration: &expires})
	if err != nil {
		return "", err
	}
	return token, nil
}

func (u *User) ResetPassword(email, token, newPassword string) error {
	user, err := u.storage.GetUserByEmail(email)
	if err != nil {
		return err
	}
	if user.ResetToken == "" || user.ResetExpiration < domain.Timestamp(time.Now().UnixMilli()) {
		return &errors.ValidationError{Message: "Reset token expired"}
	}
	if u.tokens.Obscure(token) != user.ResetToken {
		return &errors.ValidationError{Message: "Wrong reset token"}
	}
	if err := u.validator.Password(newPassword); err != nil {
		return err
	}
	passHash, err := u.hasher.Hash(newPassword)
	if err != nil {
		logger.Log.Error("failed to hash password", "user_id", user.Id, "error", err)
		return err
	}
	cleared := ""
	_, err = u.storage.UpdateUser(user.Id, domain.UserUpdateData{PassHash: &passHash, ResetToken: &cleared})
	return err
}
