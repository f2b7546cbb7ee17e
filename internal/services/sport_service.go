package services

import (
	"context"
	"strings"
)

// Fixed-form initial points entered by hand, outside the questionnaire.
const (
	MinManualPoints = 1
	MaxManualPoints = 10000
)

type SportStore interface {
	ListSports(ctx context.Context) ([]Sport, error)
	GetSport(ctx context.Context, id string) (*Sport, error)
	ListUserSports(ctx context.Context, userID string) ([]UserSport, error)
	AddUserSport(ctx context.Context, userID, sportID string) error
	RemoveUserSport(ctx context.Context, userID, sportID string) error
	ReplaceUserSports(ctx context.Context, userID string, sportIDs []string) error
	SaveInitialPoints(ctx context.Context, userID, sportID string, points int) error
}

type SportService struct {
	store SportStore
}

func NewSportService(store SportStore) *SportService {
	return &SportService{store: store}
}

func (s *SportService) ListSports(ctx context.Context) ([]Sport, error) {
	return s.store.ListSports(ctx)
}

func (s *SportService) UserSports(ctx context.Context, uid string) ([]UserSport, error) {
	if strings.TrimSpace(uid) == "" {
		return nil, NewUnauthorizedError("unauthorized")
	}
	return s.store.ListUserSports(ctx, uid)
}

func (s *SportService) requireSport(ctx context.Context, sportID string) error {
	if strings.TrimSpace(sportID) == "" {
		return NewInvalidError("sportId required")
	}
	sp, err := s.store.GetSport(ctx, sportID)
	if err != nil {
		return err
	}
	if sp == nil {
		return NewNotFoundError("sport not found")
	}
	return nil
}

func (s *SportService) findUserSport(ctx context.Context, uid, sportID string) (*UserSport, error) {
	list, err := s.store.ListUserSports(ctx, uid)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].Sport.ID == sportID {
			return &list[i], nil
		}
	}
	return nil, nil
}

func (s *SportService) AddSport(ctx context.Context, uid, sportID string) error {
	if strings.TrimSpace(uid) == "" {
		return NewUnauthorizedError("unauthorized")
	}
	if err := s.requireSport(ctx, sportID); err != nil {
		return err
	}
	existing, err := s.findUserSport(ctx, uid, sportID)
	if err != nil {
		return err
	}
	if existing != nil {
		return NewConflictError("sport already added")
	}
	return s.store.AddUserSport(ctx, uid, sportID)
}

func (s *SportService) RemoveSport(ctx context.Context, uid, sportID string) error {
	if strings.TrimSpace(uid) == "" {
		return NewUnauthorizedError("unauthorized")
	}
	existing, err := s.findUserSport(ctx, uid, sportID)
	if err != nil {
		return err
	}
	if existing == nil {
		return NewNotFoundError("sport not in user profile")
	}
	return s.store.RemoveUserSport(ctx, uid, sportID)
}

// ReplaceSports sets the user's sports to exactly sportIDs. Duplicates are
// collapsed; points of sports that stay are kept.
func (s *SportService) ReplaceSports(ctx context.Context, uid string, sportIDs []string) ([]UserSport, error) {
	if strings.TrimSpace(uid) == "" {
		return nil, NewUnauthorizedError("unauthorized")
	}
	seen := make(map[string]struct{}, len(sportIDs))
	ids := make([]string, 0, len(sportIDs))
	for _, id := range sportIDs {
		id = strings.TrimSpace(id)
		if _, dup := seen[id]; dup {
			continue
		}
		if err := s.requireSport(ctx, id); err != nil {
			return nil, err
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	if err := s.store.ReplaceUserSports(ctx, uid, ids); err != nil {
		return nil, err
	}
	return s.store.ListUserSports(ctx, uid)
}

// SetInitPoints stores hand-entered initial points for one of the user's sports.
func (s *SportService) SetInitPoints(ctx context.Context, uid, sportID string, points int) error {
	if strings.TrimSpace(uid) == "" {
		return NewUnauthorizedError("unauthorized")
	}
	if points < MinManualPoints || points > MaxManualPoints {
		return NewInvalidError("initPoints must be between 1 and 10000")
	}
	existing, err := s.findUserSport(ctx, uid, sportID)
	if err != nil {
		return err
	}
	if existing == nil {
		return NewNotFoundError("sport not in user profile")
	}
	return s.store.SaveInitialPoints(ctx, uid, sportID, points)
}
