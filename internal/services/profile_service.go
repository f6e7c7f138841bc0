package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/vytor/mathadventures/internal/errors"
	"github.com/vytor/mathadventures/internal/logger"
	"github.com/vytor/mathadventures/internal/models"
	"github.com/vytor/mathadventures/internal/repository"
)

const maxProfileNameLength = 40

// ProfileService handles profile-related business logic
type ProfileService interface {
	ListProfiles(ctx context.Context) ([]models.Profile, error)
	CreateProfile(ctx context.Context, name string) (*models.Profile, error)
	GetProfile(ctx context.Context, id int64) (*models.Profile, error)
	DeleteProfile(ctx context.Context, id int64) error
}

// PlayerRegistry releases the in-memory state held for a profile.
type PlayerRegistry interface {
	Forget(profileID int64)
}

type profileService struct {
	profileRepo repository.ProfileRepository
	historyRepo repository.HistoryRepository
	players     PlayerRegistry
}

// NewProfileService creates a new ProfileService
func NewProfileService(profileRepo repository.ProfileRepository, historyRepo repository.HistoryRepository, players PlayerRegistry) ProfileService {
	return &profileService{profileRepo: profileRepo, historyRepo: historyRepo, players: players}
}

func (s *profileService) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing profiles")

	profiles, err := s.profileRepo.List(ctx)
	if err != nil {
		log.Error("failed to list profiles: %v", err)
		return nil, errors.NewInternalError(err)
	}

	return profiles, nil
}

func (s *profileService) CreateProfile(ctx context.Context, name string) (*models.Profile, error) {
	log := logger.FromContext(ctx)
	name = strings.TrimSpace(name)
	log.Debug("creating profile: name=%s", name)

	if name == "" {
		return nil, errors.NewValidationError("name", "cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxProfileNameLength {
		return nil, errors.NewValidationError("name", "must be at most 40 characters")
	}

	profile, err := s.profileRepo.Upsert(ctx, name)
	if err != nil {
		log.Error("failed to create profile: %v", err)
		return nil, errors.NewInternalError(err)
	}

	return profile, nil
}

func (s *profileService) GetProfile(ctx context.Context, id int64) (*models.Profile, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting profile: id=%d", id)

	profile, err := s.profileRepo.Get(ctx, id)
	if err != nil {
		log.Error("failed to get profile: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if profile == nil {
		return nil, errors.NewNotFoundError("profile", id)
	}

	return profile, nil
}

// DeleteProfile removes the profile and its stored session history. The
// profile row goes first so the player cannot be loaded again, then the
// cached history is closed before its key is deleted.
func (s *profileService) DeleteProfile(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx)
	log.Debug("deleting profile: id=%d", id)

	if _, err := s.GetProfile(ctx, id); err != nil {
		return err
	}
	if err := s.profileRepo.Delete(ctx, id); err != nil {
		log.Error("failed to delete profile: %v", err)
		return errors.NewInternalError(err)
	}
	s.players.Forget(id)
	if err := s.historyRepo.Delete(ctx, repository.HistoryKey(id)); err != nil {
		log.Error("failed to delete history: %v", err)
		return errors.NewInternalError(err)
	}

	log.Info("profile deleted: id=%d", id)
	return nil
}
