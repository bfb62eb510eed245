package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Nahimba/MotoCRM-sub001/internal/model"
	"github.com/Nahimba/MotoCRM-sub001/internal/repository"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrInvalidRole     = errors.New("invalid role")
)

type ProfileService interface {
	Ensure(ctx context.Context, userID string) (*model.Profile, error)
	Get(ctx context.Context, userID string) (*model.Profile, error)
	UpdateSelf(ctx context.Context, userID string, req model.UpdateProfileRequest) (*model.Profile, error)
	SetRole(ctx context.Context, userID string, role string) (*model.Profile, error)
	List(ctx context.Context) ([]model.Profile, error)
}

type profileService struct {
	repo repository.ProfileRepository
}

func NewProfileService(repo repository.ProfileRepository) ProfileService {
	return &profileService{repo: repo}
}

// Ensure returns the user's profile, creating a rider profile on first use.
func (s *profileService) Ensure(ctx context.Context, userID string) (*model.Profile, error) {
	profile, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}
	if profile != nil {
		return profile, nil
	}

	now := time.Now()
	profile, err = s.repo.CreateIfMissing(ctx, &model.Profile{
		ID:        userID,
		Role:      model.DefaultRole,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create default profile: %w", err)
	}
	return profile, nil
}

func (s *profileService) Get(ctx context.Context, userID string) (*model.Profile, error) {
	profile, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	return profile, nil
}

func (s *profileService) UpdateSelf(ctx context.Context, userID string, req model.UpdateProfileRequest) (*model.Profile, error) {
	profile, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		profile.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Phone != nil {
		profile.Phone = emptyToNil(req.Phone)
	}
	if req.AvatarURL != nil {
		profile.AvatarURL = emptyToNil(req.AvatarURL)
	}

	if err := s.repo.Update(ctx, profile); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to update profile in repo: %w", err)
	}
	return profile, nil
}

func (s *profileService) SetRole(ctx context.Context, userID string, role string) (*model.Profile, error) {
	parsed := model.ParseRole(role)
	if !parsed.Valid() {
		return nil, ErrInvalidRole
	}
	profile, err := s.repo.SetRole(ctx, userID, parsed)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to set role in repo: %w", err)
	}
	return profile, nil
}

func (s *profileService) List(ctx context.Context) ([]model.Profile, error) {
	profiles, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles from repo: %w", err)
	}
	return profiles, nil
}

// emptyToNil lets clients clear an optional field by sending "".
func emptyToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
