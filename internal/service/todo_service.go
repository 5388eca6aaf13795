package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/marcussmith0/todo-api/internal/domain"
	"github.com/marcussmith0/todo-api/internal/repository"
)

// CreateTodoRequest holds the data needed to create a new todo.
type CreateTodoRequest struct {
	Text string `json:"text"`
}

// UpdateTodoRequest holds the data for updating an existing todo. Pointers
// distinguish a field being omitted from being set to its zero value.
type UpdateTodoRequest struct {
	Text      *string `json:"text"`
	Completed *bool   `json:"completed"`
}

// TodoResponse is the standard representation of a todo returned by the
// service.
type TodoResponse struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	Completed   bool   `json:"completed"`
	CompletedAt *int64 `json:"completedAt"`
	CreatorID   string `json:"creatorId"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

// TodoService defines the operations for managing todos. Every operation is
// scoped to a creator; a todo owned by someone else behaves exactly like a
// todo that does not exist.
type TodoService interface {
	Create(ctx context.Context, creatorID string, req CreateTodoRequest) (*TodoResponse, error)
	List(ctx context.Context, creatorID string) ([]TodoResponse, error)
	Get(ctx context.Context, id, creatorID string) (*TodoResponse, error)
	Update(ctx context.Context, id, creatorID string, req UpdateTodoRequest) (*TodoResponse, error)
	// Delete removes the todo and returns it.
	Delete(ctx context.Context, id, creatorID string) (*TodoResponse, error)
}

type todoService struct {
	repo repository.TodoRepository
}

// NewTodoService creates a new instance of todoService.
func NewTodoService(repo repository.TodoRepository) TodoService {
	return &todoService{repo: repo}
}

func toTodoResponse(todo *domain.Todo) *TodoResponse {
	return &TodoResponse{
		ID:          todo.ID,
		Text:        todo.Text,
		Completed:   todo.Completed,
		CompletedAt: todo.CompletedAt,
		CreatorID:   todo.CreatorID,
		CreatedAt:   todo.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   todo.UpdatedAt.Format(time.RFC3339),
	}
}

func (s *todoService) Create(ctx context.Context, creatorID string, req CreateTodoRequest) (*TodoResponse, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, fmt.Errorf("%w: text must not be empty", domain.ErrValidation)
	}

	todo := &domain.Todo{
		ID:        uuid.NewString(),
		Text:      text,
		Completed: false,
		CreatorID: creatorID,
	}
	if err := s.repo.Create(ctx, todo); err != nil {
		log.Printf("Error creating todo in repository: %v", err)
		return nil, errors.New("failed to create todo item")
	}

	return toTodoResponse(todo), nil
}

func (s *todoService) List(ctx context.Context, creatorID string) ([]TodoResponse, error) {
	todos, err := s.repo.FindAllByCreator(ctx, creatorID)
	if err != nil {
		log.Printf("Error fetching todos from repository: %v", err)
		return nil, errors.New("failed to retrieve todo items")
	}

	responses := make([]TodoResponse, 0, len(todos))
	for i := range todos {
		responses = append(responses, *toTodoResponse(&todos[i]))
	}
	return responses, nil
}

// findOwned fetches a todo scoped to its creator. A malformed id, an absent
// row and a row owned by a different creator all come back as ErrNotFound so
// the response never reveals which case it was.
func (s *todoService) findOwned(ctx context.Context, id, creatorID string) (*domain.Todo, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}

	todo, err := s.repo.FindByIDAndCreator(ctx, id, creatorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		log.Printf("Error fetching todo %s from repository: %v", id, err)
		return nil, errors.New("failed to retrieve todo item")
	}
	return todo, nil
}

func (s *todoService) Get(ctx context.Context, id, creatorID string) (*TodoResponse, error) {
	todo, err := s.findOwned(ctx, id, creatorID)
	if err != nil {
		return nil, err
	}
	return toTodoResponse(todo), nil
}

func (s *todoService) Update(ctx context.Context, id, creatorID string, req UpdateTodoRequest) (*TodoResponse, error) {
	todo, err := s.findOwned(ctx, id, creatorID)
	if err != nil {
		return nil, err
	}

	if req.Text != nil {
		text := strings.TrimSpace(*req.Text)
		if text == "" {
			return nil, fmt.Errorf("%w: text must not be empty", domain.ErrValidation)
		}
		todo.Text = text
	}
	if req.Completed != nil {
		todo.Completed = *req.Completed
		if todo.Completed {
			now := time.Now().UnixMilli()
			todo.CompletedAt = &now
		} else {
			todo.CompletedAt = nil
		}
	}

	if err := s.repo.Update(ctx, todo); err != nil {
		log.Printf("Error updating todo %s in repository: %v", id, err)
		return nil, errors.New("failed to update todo item")
	}

	return toTodoResponse(todo), nil
}

func (s *todoService) Delete(ctx context.Context, id, creatorID string) (*TodoResponse, error) {
	todo, err := s.findOwned(ctx, id, creatorID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.DeleteByIDAndCreator(ctx, id, creatorID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		log.Printf("Error deleting todo %s from repository: %v", id, err)
		return nil, errors.New("failed to delete todo item")
	}

	return toTodoResponse(todo), nil
}
