package repo

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CesarOvidioGutierrez/dashboard-SaaS-gestion-de-tareas/internal/model"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	pool, err := pgxpool.New(context.Background(), dbURL)
	if err != nil {
		t.Fatal(err)
	}

	pool.Exec(context.Background(), "TRUNCATE tasks, users RESTART IDENTITY CASCADE")

	return pool
}

func seedUser(t *testing.T, pool *pgxpool.Pool, username string) model.User {
	t.Helper()

	users := NewUserRepo(pool)
	u, err := users.Create(context.Background(), model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "hash-" + username,
	})
	require.NoError(t, err)
	return u
}

func TestUserRepo_CreateAndGet(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	users := NewUserRepo(pool)
	ctx := context.Background()

	created := seedUser(t, pool, "alice")
	assert.NotZero(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := users.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	byName, err := users.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)

	_, err = users.Get(ctx, 99999)
	assert.ErrorIs(t, err, ErrorNotFound)
}

func TestUserRepo_UniqueConstraints(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	users := NewUserRepo(pool)
	ctx := context.Background()

	seedUser(t, pool, "alice")

	// Same username, different email
	_, err := users.Create(ctx, model.User{
		Username: "alice", Email: "alice2@example.com", PasswordHash: "h",
	})
	assert.ErrorIs(t, err, ErrorConflict)

	// Same email, different username
	_, err = users.Create(ctx, model.User{
		Username: "alice2", Email: "alice@example.com", PasswordHash: "h",
	})
	assert.ErrorIs(t, err, ErrorConflict)

	exists, err := users.ExistsByUsernameOrEmail(ctx, "alice", "unused@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = users.ExistsByUsernameOrEmail(ctx, "nobody", "unused@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestTaskRepo_CRUD(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	owner := seedUser(t, pool, "alice")
	tasks := NewTaskRepo(pool)
	ctx := context.Background()

	due := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	created, err := tasks.Create(ctx, model.Task{
		Title:    "Test",
		Status:   model.StatusPending,
		Priority: model.PriorityHigh,
		DueDate:  &due,
		UserID:   owner.ID,
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, model.StatusPending, created.Status)
	require.NotNil(t, created.DueDate)
	assert.True(t, created.DueDate.Equal(due))

	got, err := tasks.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Title, got.Title)

	got.Status = model.StatusCompleted
	updated, err := tasks.Update(ctx, got)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, updated.Status)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt) || updated.UpdatedAt.Equal(created.UpdatedAt))

	require.NoError(t, tasks.Delete(ctx, created.ID))
	_, err = tasks.Get(ctx, created.ID)
	assert.ErrorIs(t, err, ErrorNotFound)
	assert.ErrorIs(t, tasks.Delete(ctx, created.ID), ErrorNotFound)
}

func TestTaskRepo_ListByOwner(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	alice := seedUser(t, pool, "alice")
	bob := seedUser(t, pool, "bob")
	tasks := NewTaskRepo(pool)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := tasks.Create(ctx, model.Task{
			Title:    fmt.Sprintf("alice %d", i),
			Status:   model.StatusPending,
			Priority: model.PriorityMedium,
			UserID:   alice.ID,
		})
		require.NoError(t, err)
	}
	_, err := tasks.Create(ctx, model.Task{
		Title:    "bob 0",
		Status:   model.StatusPending,
		Priority: model.PriorityMedium,
		UserID:   bob.ID,
	})
	require.NoError(t, err)

	list, err := tasks.ListByOwner(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)

	// Insertion order, owner's tasks only
	for i, task := range list {
		assert.Equal(t, alice.ID, task.UserID)
		assert.Equal(t, fmt.Sprintf("alice %d", i), task.Title)
	}
}

func TestTaskRepo_StatsByOwner(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	alice := seedUser(t, pool, "alice")
	bob := seedUser(t, pool, "bob")
	tasks := NewTaskRepo(pool)
	ctx := context.Background()

	for _, status := range []string{model.StatusPending, model.StatusPending, model.StatusCompleted} {
		_, err := tasks.Create(ctx, model.Task{
			Title: "t", Status: status, Priority: model.PriorityMedium, UserID: alice.ID,
		})
		require.NoError(t, err)
	}
	_, err := tasks.Create(ctx, model.Task{
		Title: "t", Status: model.StatusPending, Priority: model.PriorityMedium, UserID: bob.ID,
	})
	require.NoError(t, err)

	stats, err := tasks.StatsByOwner(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalTasks)
	assert.Equal(t, 2, stats.ByStatus[model.StatusPending])
	assert.Equal(t, 1, stats.ByStatus[model.StatusCompleted])
}

func TestTaskRepo_CascadeOnUserDelete(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()

	alice := seedUser(t, pool, "alice")
	tasks := NewTaskRepo(pool)
	ctx := context.Background()

	created, err := tasks.Create(ctx, model.Task{
		Title: "t", Status: model.StatusPending, Priority: model.PriorityMedium, UserID: alice.ID,
	})
	require.NoError(t, err)

	_, err = pool.Exec(ctx, "DELETE FROM users WHERE id = $1", alice.ID)
	require.NoError(t, err)

	_, err = tasks.Get(ctx, created.ID)
	assert.ErrorIs(t, err, ErrorNotFound)
}
