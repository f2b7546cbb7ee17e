package main

import (
	"context"
	"strings"

	"github.com/soaringjerry/Rally/internal/services"
)

// localStore keeps one terminal user's sports for the duration of a run.
type localStore struct {
	sports []services.UserSport
}

func newLocalStore(names []string) *localStore {
	s := &localStore{}
	seen := map[string]bool{}
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || seen[strings.ToLower(n)] {
			continue
		}
		seen[strings.ToLower(n)] = true
		s.sports = append(s.sports, services.UserSport{Sport: services.Sport{ID: strings.ToLower(n), Name: n}})
	}
	return s
}

func (s *localStore) ListUserSports(_ context.Context, _ string) ([]services.UserSport, error) {
	return append([]services.UserSport(nil), s.sports...), nil
}

func (s *localStore) SaveInitialPoints(_ context.Context, _ string, sportID string, points int) error {
	for i := range s.sports {
		if s.sports[i].Sport.ID == sportID {
			s.sports[i].Points = &services.UserPoints{InitPoints: points, ActualPoints: points}
			return nil
		}
	}
	return services.NewNotFoundError("sport not in user profile")
}

var _ services.CalibrationStore = (*localStore)(nil)
