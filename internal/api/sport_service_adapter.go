package api

import (
	"context"
	"time"

	"github.com/soaringjerry/Rally/internal/services"
)

// sportStoreAdapter serves both the sport service and the calibration
// service; they share the user_points upsert.
type sportStoreAdapter struct {
	store Store
	now   func() time.Time
}

func newSportStoreAdapter(store Store) *sportStoreAdapter {
	return &sportStoreAdapter{store: store, now: func() time.Time { return time.Now().UTC() }}
}

func convertAPISport(sp *Sport) services.Sport {
	return services.Sport{ID: sp.ID, Name: sp.Name}
}

func (a *sportStoreAdapter) ListSports(ctx context.Context) ([]services.Sport, error) {
	list, err := a.store.ListSports(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]services.Sport, 0, len(list))
	for _, sp := range list {
		out = append(out, convertAPISport(sp))
	}
	return out, nil
}

func (a *sportStoreAdapter) GetSport(ctx context.Context, id string) (*services.Sport, error) {
	sp, err := a.store.GetSport(ctx, id)
	if err != nil || sp == nil {
		return nil, err
	}
	out := convertAPISport(sp)
	return &out, nil
}

func (a *sportStoreAdapter) ListUserSports(ctx context.Context, userID string) ([]services.UserSport, error) {
	list, err := a.store.ListUserSports(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]services.UserSport, 0, len(list))
	for _, us := range list {
		item := services.UserSport{Sport: convertAPISport(&us.Sport)}
		if us.Points != nil {
			item.Points = &services.UserPoints{
				InitPoints:   us.Points.InitPoints,
				ActualPoints: us.Points.ActualPoints,
				UpdatedAt:    us.Points.UpdatedAt,
			}
		}
		out = append(out, item)
	}
	return out, nil
}

func (a *sportStoreAdapter) AddUserSport(ctx context.Context, userID, sportID string) error {
	return a.store.AddUserSport(ctx, userID, sportID)
}

func (a *sportStoreAdapter) RemoveUserSport(ctx context.Context, userID, sportID string) error {
	return a.store.RemoveUserSport(ctx, userID, sportID)
}

func (a *sportStoreAdapter) ReplaceUserSports(ctx context.Context, userID string, sportIDs []string) error {
	return a.store.ReplaceUserSports(ctx, userID, sportIDs)
}

func (a *sportStoreAdapter) SaveInitialPoints(ctx context.Context, userID, sportID string, points int) error {
	return a.store.UpsertInitialPoints(ctx, userID, sportID, points, a.now())
}

var (
	_ services.SportStore       = (*sportStoreAdapter)(nil)
	_ services.CalibrationStore = (*sportStoreAdapter)(nil)
)
