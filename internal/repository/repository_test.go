package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/marcussmith0/todo-api/internal/domain"
	"github.com/marcussmith0/todo-api/internal/repository"
)

// setupTestDB starts a throwaway postgres container and returns a migrated
// GORM handle. Requires a local docker daemon; skipped with -short.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-backed repository tests in short mode")
	}

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("todoapp_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		tcpostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.UserToken{}, &domain.Todo{}))
	return db
}

func newUser(email string) *domain.User {
	return &domain.User{
		ID:       uuid.NewString(),
		Email:    email,
		Password: "$2a$10$notarealhashbutlongenoughtostore1234567890abcdefgh",
	}
}

func TestUserRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewGormUserRepository(db)
	ctx := context.Background()

	user := newUser("marcus@example.com")
	require.NoError(t, repo.Create(ctx, user))

	t.Run("duplicate email rejected by unique index", func(t *testing.T) {
		dup := newUser("marcus@example.com")
		assert.Error(t, repo.Create(ctx, dup))
	})

	t.Run("find by email", func(t *testing.T) {
		found, err := repo.FindByEmail(ctx, "marcus@example.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)

		_, err = repo.FindByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	t.Run("token membership and revocation", func(t *testing.T) {
		require.NoError(t, repo.AddToken(ctx, user.ID, domain.UserToken{
			Purpose: "auth",
			Token:   "signed-token-string",
		}))

		found, err := repo.FindByIDAndToken(ctx, user.ID, "signed-token-string", "auth")
		require.NoError(t, err)
		assert.Equal(t, user.Email, found.Email)

		// Wrong purpose does not match.
		_, err = repo.FindByIDAndToken(ctx, user.ID, "signed-token-string", "reset")
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

		// After removal the same lookup fails.
		require.NoError(t, repo.RemoveToken(ctx, user.ID, "signed-token-string"))
		_, err = repo.FindByIDAndToken(ctx, user.ID, "signed-token-string", "auth")
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}

func TestTodoRepository(t *testing.T) {
	db := setupTestDB(t)
	userRepo := repository.NewGormUserRepository(db)
	todoRepo := repository.NewGormTodoRepository(db)
	ctx := context.Background()

	userA := newUser("a@example.com")
	userB := newUser("b@example.com")
	require.NoError(t, userRepo.Create(ctx, userA))
	require.NoError(t, userRepo.Create(ctx, userB))

	todo := &domain.Todo{
		ID:        uuid.NewString(),
		Text:      "buy milk",
		CreatorID: userA.ID,
	}
	require.NoError(t, todoRepo.Create(ctx, todo))

	t.Run("find scoped to creator", func(t *testing.T) {
		found, err := todoRepo.FindByIDAndCreator(ctx, todo.ID, userA.ID)
		require.NoError(t, err)
		assert.Equal(t, "buy milk", found.Text)

		_, err = todoRepo.FindByIDAndCreator(ctx, todo.ID, userB.ID)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	t.Run("list scoped to creator", func(t *testing.T) {
		todosA, err := todoRepo.FindAllByCreator(ctx, userA.ID)
		require.NoError(t, err)
		assert.Len(t, todosA, 1)

		todosB, err := todoRepo.FindAllByCreator(ctx, userB.ID)
		require.NoError(t, err)
		assert.Empty(t, todosB)
	})

	t.Run("update writes completed_at back to null", func(t *testing.T) {
		now := time.Now().UnixMilli()
		todo.Completed = true
		todo.CompletedAt = &now
		require.NoError(t, todoRepo.Update(ctx, todo))

		found, err := todoRepo.FindByIDAndCreator(ctx, todo.ID, userA.ID)
		require.NoError(t, err)
		require.NotNil(t, found.CompletedAt)
		assert.Equal(t, now, *found.CompletedAt)

		todo.Completed = false
		todo.CompletedAt = nil
		require.NoError(t, todoRepo.Update(ctx, todo))

		found, err = todoRepo.FindByIDAndCreator(ctx, todo.ID, userA.ID)
		require.NoError(t, err)
		assert.False(t, found.Completed)
		assert.Nil(t, found.CompletedAt)
	})

	t.Run("delete scoped to creator", func(t *testing.T) {
		err := todoRepo.DeleteByIDAndCreator(ctx, todo.ID, userB.ID)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

		require.NoError(t, todoRepo.DeleteByIDAndCreator(ctx, todo.ID, userA.ID))

		err = todoRepo.DeleteByIDAndCreator(ctx, todo.ID, userA.ID)
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}
