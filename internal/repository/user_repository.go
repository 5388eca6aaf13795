package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/marcussmith0/todo-api/internal/domain"
)

// UserRepository defines the data operations for user accounts and their
// token lists.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByIDAndToken returns the user only when the given token string
	// is present in that user's stored token list with the given purpose.
	// This is the revocation check: a signed token whose row has been
	// deleted no longer resolves to a user.
	FindByIDAndToken(ctx context.Context, id, tokenString, purpose string) (*domain.User, error)
	AddToken(ctx context.Context, userID string, token domain.UserToken) error
	RemoveToken(ctx context.Context, userID, tokenString string) error
}

// gormUserRepository implements UserRepository using GORM.
type gormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GORM user repository.
func NewGormUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepository{db: db}
}

func (r *gormUserRepository) Create(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *gormUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	result := r.db.WithContext(ctx).Where("email = ?", email).First(&user)
	if result.Error != nil {
		return nil, result.Error
	}
	return &user, nil
}

func (r *gormUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	result := r.db.WithContext(ctx).First(&user, "id = ?", id)
	if result.Error != nil {
		return nil, result.Error
	}
	return &user, nil
}

func (r *gormUserRepository) FindByIDAndToken(ctx context.Context, id, tokenString, purpose string) (*domain.User, error) {
	var user domain.User
	result := r.db.WithContext(ctx).
		Joins("JOIN user_tokens ON user_tokens.user_id = users.id").
		Where("users.id = ? AND user_tokens.token = ? AND user_tokens.purpose = ?", id, tokenString, purpose).
		First(&user)
	if result.Error != nil {
		return nil, result.Error
	}
	return &user, nil
}

func (r *gormUserRepository) AddToken(ctx context.Context, userID string, token domain.UserToken) error {
	token.UserID = userID
	return r.db.WithContext(ctx).Create(&token).Error
}

func (r *gormUserRepository) RemoveToken(ctx context.Context, userID, tokenString string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND token = ?", userID, tokenString).
		Delete(&domain.UserToken{}).Error
}
