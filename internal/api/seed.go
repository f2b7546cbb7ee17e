package api

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// DefaultSports are created on first start.
var DefaultSports = []string{"Tenis Singles", "Tenis Dobles", "Pádel", "Pickleball"}

// SeedSports inserts names when the sports catalogue is empty. It reports
// whether anything was inserted.
func SeedSports(ctx context.Context, store Store, names []string) (bool, error) {
	existing, err := store.ListSports(ctx)
	if err != nil {
		return false, fmt.Errorf("list sports: %w", err)
	}
	if len(existing) > 0 {
		return false, nil
	}
	for _, name := range names {
		if err := store.AddSport(ctx, &Sport{ID: uuid.NewString(), Name: name}); err != nil {
			return false, fmt.Errorf("seed sport %q: %w", name, err)
		}
	}
	return len(names) > 0, nil
}
