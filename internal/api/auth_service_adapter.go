package api

import (
	"context"

	"github.com/soaringjerry/Rally/internal/services"
)

type authStoreAdapter struct {
	store Store
}

func newAuthStoreAdapter(store Store) services.AuthStore {
	return &authStoreAdapter{store: store}
}

func convertAPIUser(u *User) *services.User {
	if u == nil {
		return nil
	}
	return &services.User{ID: u.ID, Name: u.Name, Email: u.Email, PassHash: u.PassHash, CreatedAt: u.CreatedAt}
}

func (a *authStoreAdapter) FindUserByEmail(ctx context.Context, email string) (*services.User, error) {
	u, err := a.store.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return convertAPIUser(u), nil
}

func (a *authStoreAdapter) FindUserByID(ctx context.Context, id string) (*services.User, error) {
	u, err := a.store.FindUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return convertAPIUser(u), nil
}

func (a *authStoreAdapter) AddUser(ctx context.Context, u *services.User) error {
	if u == nil {
		return services.NewInvalidError("user required")
	}
	return a.store.AddUser(ctx, &User{ID: u.ID, Name: u.Name, Email: u.Email, PassHash: u.PassHash, CreatedAt: u.CreatedAt})
}

var _ services.AuthStore = (*authStoreAdapter)(nil)
