package db

import (
	"context"

	"github.com/pkg/errors"
	apiError "github.com/techagentng/chatrelay/errors"
	"github.com/techagentng/chatrelay/models"
	"gorm.io/gorm"
)

type AuthRepository interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	IsEmailExist(ctx context.Context, email string) error
	IsUsernameExist(ctx context.Context, username string) error
	FindUserByID(ctx context.Context, id string) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
}

type authRepo struct {
	DB *gorm.DB
}

func NewAuthRepo(db *GormDB) AuthRepository {
	return &authRepo{db.DB}
}

func (a *authRepo) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	if user == nil {
		return nil, errors.New("user is nil")
	}
	if err := a.DB.WithContext(ctx).Create(user).Error; err != nil {
		return nil, errors.Wrap(err, "create user")
	}
	return user, nil
}

// IsEmailExist returns a conflict error when the email is taken.
func (a *authRepo) IsEmailExist(ctx context.Context, email string) error {
	var count int64
	err := a.DB.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		return errors.Wrap(err, "gorm count error")
	}
	if count > 0 {
		return apiError.ErrEmailExists
	}
	return nil
}

// IsUsernameExist returns a conflict error when the username is taken.
func (a *authRepo) IsUsernameExist(ctx context.Context, username string) error {
	var count int64
	err := a.DB.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Count(&count).Error
	if err != nil {
		return errors.Wrap(err, "gorm count error")
	}
	if count > 0 {
		return apiError.ErrUsernameExists
	}
	return nil
}

func (a *authRepo) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	return a.findUser(ctx, "id = ?", id)
}

func (a *authRepo) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return a.findUser(ctx, "email = ?", email)
}

func (a *authRepo) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return a.findUser(ctx, "username = ?", username)
}

func (a *authRepo) findUser(ctx context.Context, query string, args ...interface{}) (*models.User, error) {
	var user models.User
	err := a.DB.WithContext(ctx).Where(query, args...).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apiError.NotFound("user not found", err)
		}
		return nil, errors.Wrap(err, "error finding user")
	}
	return &user, nil
}
