package service

import (
	"context"
	"errors"
	"strings"

	"github.com/iliyamo/pandit-seva/internal/apperr"
	"github.com/iliyamo/pandit-seva/internal/logger"
	"github.com/iliyamo/pandit-seva/internal/model"
	"github.com/iliyamo/pandit-seva/internal/repository"
	"github.com/iliyamo/pandit-seva/internal/validator"
)

// ProfileService applies owner edits to a profile.  The role flag and
// email are never writable here.
type ProfileService struct {
	profiles ProfileStore
	validate *validator.Validator
	log      *logger.Logger
}

func NewProfileService(profiles ProfileStore, v *validator.Validator, log *logger.Logger) *ProfileService {
	return &ProfileService{profiles: profiles, validate: v, log: log.With("component", "profiles")}
}

// UpdateProfile patches ownerID's profile and returns the stored result.
func (s *ProfileService) UpdateProfile(ctx context.Context, ownerID string, patch model.ProfilePatch) (*model.Profile, error) {
	if patch.FullName != nil {
		trimmed := strings.TrimSpace(*patch.FullName)
		if trimmed == "" {
			return nil, apperr.Field("full_name", "full_name cannot be empty")
		}
		patch.FullName = &trimmed
	}
	if err := s.validate.Validate(&patch); err != nil {
		return nil, err
	}

	p, err := s.profiles.GetByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("profile")
		}
		return nil, apperr.Transient("could not load profile", err)
	}
	if !p.IsPandit && patch.TouchesProviderFields() {
		return nil, apperr.Validation("only pandits can set specialization, experience or rate", map[string]any{
			"role": p.Role().String(),
		})
	}

	patch.Apply(p)
	if err := s.profiles.Update(ctx, p); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, apperr.Validation("profile values out of range", nil)
		}
		return nil, apperr.Transient("could not save profile", err)
	}
	s.log.Info("profile updated", "profile_id", p.ID)
	return p, nil
}
