package service

import (
	"context"

	"gorm.io/gorm"

	"github.com/marcussmith0/todo-api/internal/domain"
)

// In-memory repository fakes. They honor the same error contract as the GORM
// implementations (gorm.ErrRecordNotFound for missing rows) so the services
// under test cannot tell the difference.

type fakeUserRepo struct {
	users  []domain.User
	tokens []domain.UserToken
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	r.users = append(r.users, *user)
	return nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			user := u
			return &user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByIDAndToken(ctx context.Context, id, tokenString, purpose string) (*domain.User, error) {
	for _, t := range r.tokens {
		if t.UserID == id && t.Token == tokenString && t.Purpose == purpose {
			return r.FindByID(ctx, id)
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) AddToken(_ context.Context, userID string, token domain.UserToken) error {
	token.UserID = userID
	r.tokens = append(r.tokens, token)
	return nil
}

func (r *fakeUserRepo) RemoveToken(_ context.Context, userID, tokenString string) error {
	kept := r.tokens[:0]
	for _, t := range r.tokens {
		if !(t.UserID == userID && t.Token == tokenString) {
			kept = append(kept, t)
		}
	}
	r.tokens = kept
	return nil
}

func (r *fakeUserRepo) tokenCount(userID string) int {
	n := 0
	for _, t := range r.tokens {
		if t.UserID == userID {
			n++
		}
	}
	return n
}

type fakeTodoRepo struct {
	todos []domain.Todo
}

func newFakeTodoRepo() *fakeTodoRepo {
	return &fakeTodoRepo{}
}

func (r *fakeTodoRepo) Create(_ context.Context, todo *domain.Todo) error {
	r.todos = append(r.todos, *todo)
	return nil
}

func (r *fakeTodoRepo) FindAllByCreator(_ context.Context, creatorID string) ([]domain.Todo, error) {
	var out []domain.Todo
	for _, t := range r.todos {
		if t.CreatorID == creatorID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeTodoRepo) FindByIDAndCreator(_ context.Context, id, creatorID string) (*domain.Todo, error) {
	for _, t := range r.todos {
		if t.ID == id && t.CreatorID == creatorID {
			todo := t
			return &todo, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeTodoRepo) Update(_ context.Context, todo *domain.Todo) error {
	for i, t := range r.todos {
		if t.ID == todo.ID {
			r.todos[i] = *todo
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakeTodoRepo) DeleteByIDAndCreator(_ context.Context, id, creatorID string) error {
	for i, t := range r.todos {
		if t.ID == id && t.CreatorID == creatorID {
			r.todos = append(r.todos[:i], r.todos[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}
