package api

import (
	"context"
	"time"
)

// Store is the persistence boundary shared by the in-memory store and the
// SQLite store. Lookups return (nil, nil) when nothing matches.
type Store interface {
	AddUser(ctx context.Context, u *User) error
	FindUserByEmail(ctx context.Context, email string) (*User, error)
	FindUserByID(ctx context.Context, id string) (*User, error)

	AddSport(ctx context.Context, sp *Sport) error
	GetSport(ctx context.Context, id string) (*Sport, error)
	ListSports(ctx context.Context) ([]*Sport, error)

	AddUserSport(ctx context.Context, userID, sportID string) error
	RemoveUserSport(ctx context.Context, userID, sportID string) error
	ReplaceUserSports(ctx context.Context, userID string, sportIDs []string) error
	ListUserSports(ctx context.Context, userID string) ([]*UserSport, error)

	// UpsertInitialPoints sets init and actual points for a user sport in one
	// atomic write.
	UpsertInitialPoints(ctx context.Context, userID, sportID string, points int, at time.Time) error
}

var _ Store = (*memoryStore)(nil)
