package datasource

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"commonwealth/internal/types"
)

type fixtureFile struct {
	User        *types.User                     `yaml:"user"`
	Communities map[string]*types.CommunityData `yaml:"communities"`
}

// FixtureSource reads community data from a YAML file on every Load so edits
// show up on the next refresh.
type FixtureSource struct {
	path string
}

func NewFixtureSource(path string) *FixtureSource {
	return &FixtureSource{path: strings.TrimSpace(path)}
}

func (s *FixtureSource) Load(ctx context.Context, communityID string) (*types.CommunityData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	var file fixtureFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", s.path, err)
	}
	data, ok := file.Communities[communityID]
	if !ok || data == nil {
		return nil, fmt.Errorf("%w: %s", ErrCommunityNotFound, communityID)
	}
	if data.Community == nil {
		data.Community = &types.Community{ID: communityID, Name: communityID}
	}
	if data.Community.ID == "" {
		data.Community.ID = communityID
	}
	if data.User == nil && file.User != nil {
		user := *file.User
		data.User = &user
	}
	return data, nil
}
