package api

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/soaringjerry/Rally/internal/services"
)

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	PassHash  []byte    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

type Sport struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type UserPoints struct {
	InitPoints   int       `json:"init_points"`
	ActualPoints int       `json:"actual_points"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type UserSport struct {
	Sport  Sport       `json:"sport"`
	Points *UserPoints `json:"points,omitempty"`
}

type memoryStore struct {
	mu           sync.RWMutex
	users        map[string]*User
	usersByEmail map[string]*User
	sports       map[string]*Sport
	sportByName  map[string]string
	// userSports keeps each user's sports in insertion order.
	userSports map[string][]string
	points     map[string]*UserPoints
}

// NewMemoryStore returns a Store that lives only as long as the process.
func NewMemoryStore() Store {
	return newMemoryStore()
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:        map[string]*User{},
		usersByEmail: map[string]*User{},
		sports:       map[string]*Sport{},
		sportByName:  map[string]string{},
		userSports:   map[string][]string{},
		points:       map[string]*UserPoints{},
	}
}

func pointsKey(userID, sportID string) string { return userID + "\x00" + sportID }

func (s *memoryStore) AddUser(_ context.Context, u *User) error {
	if u == nil {
		return services.NewInvalidError("user required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	email := strings.ToLower(u.Email)
	if _, ok := s.usersByEmail[email]; ok {
		return services.NewConflictError("email exists")
	}
	cp := *u
	s.users[u.ID] = &cp
	s.usersByEmail[email] = &cp
	return nil
}

func (s *memoryStore) FindUserByEmail(_ context.Context, email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.usersByEmail[strings.ToLower(email)]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (s *memoryStore) FindUserByID(_ context.Context, id string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (s *memoryStore) AddSport(_ context.Context, sp *Sport) error {
	if sp == nil || strings.TrimSpace(sp.Name) == "" {
		return services.NewInvalidError("sport name required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sportByName[sp.Name]; ok {
		return services.NewConflictError("sport exists")
	}
	cp := *sp
	s.sports[sp.ID] = &cp
	s.sportByName[sp.Name] = sp.ID
	return nil
}

func (s *memoryStore) GetSport(_ context.Context, id string) (*Sport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if sp, ok := s.sports[id]; ok {
		cp := *sp
		return &cp, nil
	}
	return nil, nil
}

func (s *memoryStore) ListSports(_ context.Context) ([]*Sport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Sport, 0, len(s.sports))
	for _, sp := range s.sports {
		cp := *sp
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *memoryStore) hasUserSport(userID, sportID string) bool {
	for _, id := range s.userSports[userID] {
		if id == sportID {
			return true
		}
	}
	return false
}

func (s *memoryStore) AddUserSport(_ context.Context, userID, sportID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[userID]; !ok {
		return services.NewNotFoundError("user not found")
	}
	if _, ok := s.sports[sportID]; !ok {
		return services.NewNotFoundError("sport not found")
	}
	if s.hasUserSport(userID, sportID) {
		return services.NewConflictError("sport already added")
	}
	s.userSports[userID] = append(s.userSports[userID], sportID)
	return nil
}

func (s *memoryStore) RemoveUserSport(_ context.Context, userID, sportID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeUserSportLocked(userID, sportID)
	return nil
}

func (s *memoryStore) removeUserSportLocked(userID, sportID string) {
	ids := s.userSports[userID]
	kept := ids[:0]
	for _, id := range ids {
		if id != sportID {
			kept = append(kept, id)
		}
	}
	s.userSports[userID] = kept
	delete(s.points, pointsKey(userID, sportID))
}

func (s *memoryStore) ReplaceUserSports(_ context.Context, userID string, sportIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[userID]; !ok {
		return services.NewNotFoundError("user not found")
	}
	want := map[string]bool{}
	for _, id := range sportIDs {
		if _, ok := s.sports[id]; !ok {
			return services.NewNotFoundError("sport not found")
		}
		want[id] = true
	}
	for _, id := range append([]string(nil), s.userSports[userID]...) {
		if !want[id] {
			s.removeUserSportLocked(userID, id)
		}
	}
	for _, id := range sportIDs {
		if !s.hasUserSport(userID, id) {
			s.userSports[userID] = append(s.userSports[userID], id)
		}
	}
	return nil
}

func (s *memoryStore) ListUserSports(_ context.Context, userID string) ([]*UserSport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.userSports[userID]
	out := make([]*UserSport, 0, len(ids))
	for _, id := range ids {
		sp := s.sports[id]
		if sp == nil {
			continue
		}
		us := &UserSport{Sport: *sp}
		if p, ok := s.points[pointsKey(userID, id)]; ok {
			cp := *p
			us.Points = &cp
		}
		out = append(out, us)
	}
	return out, nil
}

func (s *memoryStore) UpsertInitialPoints(_ context.Context, userID, sportID string, points int, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasUserSport(userID, sportID) {
		return services.NewNotFoundError("sport not in user profile")
	}
	s.points[pointsKey(userID, sportID)] = &UserPoints{InitPoints: points, ActualPoints: points, UpdatedAt: at}
	return nil
}
