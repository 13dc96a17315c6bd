package datasource

import (
	"context"
	"errors"

	"commonwealth/internal/config"
	"commonwealth/internal/types"
)

var ErrCommunityNotFound = errors.New("community not found")

type Source interface {
	Load(ctx context.Context, communityID string) (*types.CommunityData, error)
}

type staticSource struct {
	data map[string]*types.CommunityData
}

func Static(data map[string]*types.CommunityData) Source {
	return staticSource{data: data}
}

func (s staticSource) Load(ctx context.Context, communityID string) (*types.CommunityData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, ok := s.data[communityID]
	if !ok || data == nil {
		return nil, ErrCommunityNotFound
	}
	copied := *data
	return &copied, nil
}

// FromConfig picks the fixture file when one is configured, then the API.
func FromConfig(cfg config.Config) (Source, error) {
	path, err := cfg.FixturePath()
	if err != nil {
		return nil, err
	}
	if path != "" {
		return NewFixtureSource(path), nil
	}
	if base := cfg.APIBaseURL(); base != "" {
		return NewHTTPSource(base, WithTimeout(cfg.APITimeout())), nil
	}
	return nil, errors.New("no community source configured: set community.fixture or community.api_base_url")
}
