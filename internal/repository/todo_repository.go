package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/marcussmith0/todo-api/internal/domain"
)

// TodoRepository defines the data operations for todos. Every read and write
// is scoped by the creator id at the query, so ownership never depends on a
// check the caller might forget.
type TodoRepository interface {
	Create(ctx context.Context, todo *domain.Todo) error
	FindAllByCreator(ctx context.Context, creatorID string) ([]domain.Todo, error)
	FindByIDAndCreator(ctx context.Context, id, creatorID string) (*domain.Todo, error)
	Update(ctx context.Context, todo *domain.Todo) error
	DeleteByIDAndCreator(ctx context.Context, id, creatorID string) error
}

// gormTodoRepository implements TodoRepository using GORM.
type gormTodoRepository struct {
	db *gorm.DB
}

// NewGormTodoRepository creates a new GORM todo repository.
func NewGormTodoRepository(db *gorm.DB) TodoRepository {
	return &gormTodoRepository{db: db}
}

func (r *gormTodoRepository) Create(ctx context.Context, todo *domain.Todo) error {
	return r.db.WithContext(ctx).Create(todo).Error
}

func (r *gormTodoRepository) FindAllByCreator(ctx context.Context, creatorID string) ([]domain.Todo, error) {
	var todos []domain.Todo
	result := r.db.WithContext(ctx).
		Where("creator_id = ?", creatorID).
		Order("created_at").
		Find(&todos)
	if result.Error != nil {
		return nil, result.Error
	}
	return todos, nil
}

func (r *gormTodoRepository) FindByIDAndCreator(ctx context.Context, id, creatorID string) (*domain.Todo, error) {
	var todo domain.Todo
	result := r.db.WithContext(ctx).
		Where("id = ? AND creator_id = ?", id, creatorID).
		First(&todo)
	if result.Error != nil {
		// Callers check for gorm.ErrRecordNotFound.
		return nil, result.Error
	}
	return &todo, nil
}

func (r *gormTodoRepository) Update(ctx context.Context, todo *domain.Todo) error {
	// Save writes every column, which is what we want here: the service
	// hands us a fully populated row, and CompletedAt must be able to go
	// back to NULL.
	return r.db.WithContext(ctx).Save(todo).Error
}

func (r *gormTodoRepository) DeleteByIDAndCreator(ctx context.Context, id, creatorID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND creator_id = ?", id, creatorID).
		Delete(&domain.Todo{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
