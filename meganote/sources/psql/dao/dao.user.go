package dao

import (
	"context"
	"errors"
	"fmt"

	"meganote/meganote/sources/psql/models"

	"gorm.io/gorm"
)

type UserDAO struct {
	DB *gorm.DB
}

func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{DB: db}
}

// GetUserByID returns nil, nil when no such user exists.
func (dao *UserDAO) GetUserByID(ctx context.Context, id int) (*models.User, error) {
	var user models.User
	err := dao.DB.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return &user, nil
}

// GetUserByUsername returns nil, nil when no such user exists.
func (dao *UserDAO) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := dao.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	return &user, nil
}

// CreateUser is a single INSERT; a taken username yields ErrDuplicateKey.
func (dao *UserDAO) CreateUser(ctx context.Context, username, passwordDigest string) (*models.User, error) {
	user := models.User{
		Username:       username,
		PasswordDigest: passwordDigest,
	}
	if err := dao.DB.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, wrapInsertError("create user", err)
	}
	return &user, nil
}
