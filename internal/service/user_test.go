package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidtseymour/personal-productivity-system/internal/model"
	"github.com/davidtseymour/personal-productivity-system/internal/repository"
	"github.com/davidtseymour/personal-productivity-system/internal/testutil"
)

func newUserService(t *testing.T) *UserService {
	t.Helper()
	conn := testutil.NewDB(t)
	return NewUserService(repository.NewUserRepository(conn), repository.NewCategoryRepository(conn))
}

func TestUserCreateWithDefaults(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	user, err := svc.CreateWithDefaults(ctx, " alice ", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice", user.DisplayName)

	categories, err := svc.Categories(ctx, user.ID)
	require.NoError(t, err)
	var names []string
	for _, c := range categories {
		names = append(names, c.Name)
	}
	assert.Equal(t, model.DefaultCategories, names)

	got, err := svc.ByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = svc.CreateWithDefaults(ctx, "alice", "Alice", nil)
	assert.ErrorIs(t, err, repository.ErrDuplicateUsername)
}

func TestUserCreateWithCategories(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	user, err := svc.CreateWithDefaults(ctx, "bob", "Bob", []string{"Deep Work", "deep  work", "Gym"})
	require.NoError(t, err)

	categories, err := svc.Categories(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Deep Work", categories[0].Name)
	assert.Equal(t, 1, categories[0].SortOrder)
	assert.Equal(t, "Gym", categories[1].Name)

	require.NoError(t, svc.SetCategories(ctx, user.ID, []string{"Gym", "Deep Work"}))
	categories, err = svc.Categories(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gym", categories[0].Name)

	_, err = svc.CreateWithDefaults(ctx, "carol", "", []string{" "})
	assert.Error(t, err)
	_, err = svc.CreateWithDefaults(ctx, " ", "", nil)
	assert.ErrorIs(t, err, ErrInvalidUsername)
}

func TestUserListAndDeactivate(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	alice, err := svc.CreateWithDefaults(ctx, "alice", "", []string{})
	require.NoError(t, err)
	_, err = svc.CreateWithDefaults(ctx, "bob", "", []string{})
	require.NoError(t, err)

	users, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	require.NoError(t, svc.SetActive(ctx, alice.ID, false))
	users, err = svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "bob", users[0].Username)

	_, err = svc.ByUsername(ctx, "alice")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)

	byID, err := svc.ByID(ctx, alice.ID)
	require.NoError(t, err)
	assert.False(t, byID.IsActive)
}
