package service

import (
	"context"
	"errors"
	"strings"

	"github.com/iliyamo/pandit-seva/internal/apperr"
	"github.com/iliyamo/pandit-seva/internal/model"
	"github.com/iliyamo/pandit-seva/internal/repository"
)

// DirectoryService lists provider profiles.
type DirectoryService struct {
	profiles ProfileStore
}

func NewDirectoryService(profiles ProfileStore) *DirectoryService {
	return &DirectoryService{profiles: profiles}
}

// List returns providers newest first, keeping those whose name,
// specialization or address contains query (case-insensitive).  An empty
// query keeps everyone.
func (s *DirectoryService) List(ctx context.Context, query string) ([]model.Profile, error) {
	all, err := s.profiles.ListProviders(ctx)
	if err != nil {
		return nil, apperr.Transient("could not list pandits", err)
	}
	return FilterProviders(all, query), nil
}

// Get returns one provider profile.
func (s *DirectoryService) Get(ctx context.Context, id string) (*model.Profile, error) {
	p, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("pandit")
		}
		return nil, apperr.Transient("could not load pandit", err)
	}
	if !p.IsPandit {
		return nil, apperr.NotFound("pandit")
	}
	return p, nil
}

// FilterProviders applies the directory search to an already loaded list,
// preserving order.
func FilterProviders(all []model.Profile, query string) []model.Profile {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return all
	}
	out := make([]model.Profile, 0, len(all))
	for _, p := range all {
		if containsFold(p.FullName, q) || containsFoldPtr(p.Specialization, q) || containsFoldPtr(p.Address, q) {
			out = append(out, p)
		}
	}
	return out
}

func containsFold(s, lowerQ string) bool { return strings.Contains(strings.ToLower(s), lowerQ) }

func containsFoldPtr(s *string, lowerQ string) bool {
	return s != nil && containsFold(*s, lowerQ)
}
