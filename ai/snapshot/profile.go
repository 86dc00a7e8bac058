package snapshot

import (
	"context"

	"github.com/sezginpak/lifestyles/store"
)

// BuildUserProfile projects the user's self-reported profile, or nil when
// none is recorded.
func BuildUserProfile(ctx context.Context, s store.Store) (*UserProfile, error) {
	p, err := s.GetUserProfile(ctx)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, nil
	}
	return &UserProfile{
		Name:       p.Name,
		Age:        p.Age,
		Occupation: p.Occupation,
		City:       p.City,
	}, nil
}
