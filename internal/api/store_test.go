package api

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soaringjerry/Rally/internal/services"
)

func seededStore(t *testing.T) *memoryStore {
	t.Helper()
	ctx := context.Background()
	s := newMemoryStore()
	require.NoError(t, s.AddUser(ctx, &User{ID: "u1", Name: "Ana", Email: "Ana@Example.com"}))
	for _, sp := range []*Sport{{ID: "s1", Name: "Tenis Singles"}, {ID: "s2", Name: "Pádel"}, {ID: "s3", Name: "Pickleball"}} {
		require.NoError(t, s.AddSport(ctx, sp))
	}
	return s
}

func codeOf(t *testing.T, err error) services.ErrorCode {
	t.Helper()
	se, ok := services.AsServiceError(err)
	require.True(t, ok, "not a service error: %v", err)
	return se.Code
}

func TestMemoryStoreUsers(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)

	u, err := s.FindUserByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "u1", u.ID)

	err = s.AddUser(ctx, &User{ID: "u2", Email: "ANA@example.com"})
	assert.Equal(t, services.ErrorConflict, codeOf(t, err))

	u, err = s.FindUserByID(ctx, "missing")
	assert.NoError(t, err)
	assert.Nil(t, u)
}

func TestMemoryStoreSports(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)

	list, err := s.ListSports(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Pickleball", list[0].Name)

	assert.Equal(t, services.ErrorConflict, codeOf(t, s.AddSport(ctx, &Sport{ID: "s9", Name: "Pádel"})))
	assert.Equal(t, services.ErrorInvalid, codeOf(t, s.AddSport(ctx, &Sport{ID: "s9"})))
}

func TestMemoryStoreUserSportsAndPoints(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.AddUserSport(ctx, "u1", "s2"))
	require.NoError(t, s.AddUserSport(ctx, "u1", "s1"))
	assert.Equal(t, services.ErrorConflict, codeOf(t, s.AddUserSport(ctx, "u1", "s1")))
	assert.Equal(t, services.ErrorNotFound, codeOf(t, s.AddUserSport(ctx, "u1", "nope")))
	assert.Equal(t, services.ErrorNotFound, codeOf(t, s.AddUserSport(ctx, "ghost", "s1")))

	require.NoError(t, s.UpsertInitialPoints(ctx, "u1", "s2", 1060, at))
	require.NoError(t, s.UpsertInitialPoints(ctx, "u1", "s2", 1200, at))
	assert.Equal(t, services.ErrorNotFound, codeOf(t, s.UpsertInitialPoints(ctx, "u1", "s3", 75, at)))

	list, err := s.ListUserSports(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "s2", list[0].Sport.ID)
	require.NotNil(t, list[0].Points)
	assert.Equal(t, 1200, list[0].Points.InitPoints)
	assert.Equal(t, 1200, list[0].Points.ActualPoints)
	assert.Nil(t, list[1].Points)

	// s2 stays with its points, s1 goes, s3 is appended
	require.NoError(t, s.ReplaceUserSports(ctx, "u1", []string{"s3", "s2"}))
	list, err = s.ListUserSports(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "s2", list[0].Sport.ID)
	assert.NotNil(t, list[0].Points)
	assert.Equal(t, "s3", list[1].Sport.ID)

	require.NoError(t, s.RemoveUserSport(ctx, "u1", "s2"))
	require.NoError(t, s.AddUserSport(ctx, "u1", "s2"))
	list, err = s.ListUserSports(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, list[1].Points, "points must not survive removal")
}

func TestSeedSports(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	seeded, err := SeedSports(ctx, s, DefaultSports)
	require.NoError(t, err)
	assert.True(t, seeded)

	seeded, err = SeedSports(ctx, s, DefaultSports)
	require.NoError(t, err)
	assert.False(t, seeded)

	list, err := s.ListSports(ctx)
	require.NoError(t, err)
	assert.Len(t, list, len(DefaultSports))
}
