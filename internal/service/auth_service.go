package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Nahimba/MotoCRM-sub001/internal/model"
	"github.com/Nahimba/MotoCRM-sub001/internal/repository"
	"github.com/Nahimba/MotoCRM-sub001/internal/utils"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var (
	ErrUserAlreadyExists  = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// AuthService checks credentials. Issuing session cookies is the
// session manager's job.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*model.Profile, error)
	Login(ctx context.Context, email, password string) (*model.Profile, error)
}

type RegisterRequest struct {
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=6"`
	FullName string  `json:"full_name" binding:"required,min=1,max=200"`
	Phone    *string `json:"phone" binding:"omitempty,max=32"`
}

type authService struct {
	userRepo          repository.UserRepository
	profiles          ProfileService
	initialAdminEmail string
}

// NewAuthService creates a new AuthService. A sign-up with
// initialAdminEmail becomes an admin.
func NewAuthService(userRepo repository.UserRepository, profiles ProfileService, initialAdminEmail string) AuthService {
	return &authService{
		userRepo:          userRepo,
		profiles:          profiles,
		initialAdminEmail: normalizeEmail(initialAdminEmail),
	}
}

// Register creates the credentials and the profile together
func (s *authService) Register(ctx context.Context, req RegisterRequest) (*model.Profile, error) {
	email := normalizeEmail(req.Email)

	existingUser, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil {
		return nil, ErrUserAlreadyExists
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := model.DefaultRole
	if s.initialAdminEmail != "" && email == s.initialAdminEmail {
		role = model.RoleAdmin
		log.WithField("email", email).Info("Registering initial admin via INITIAL_ADMIN_EMAIL")
	}

	now := time.Now()
	user := &model.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hashedPassword,
		CreatedAt:    now,
	}
	profile := &model.Profile{
		ID:        user.ID,
		FullName:  strings.TrimSpace(req.FullName),
		Role:      role,
		Phone:     req.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.userRepo.CreateWithProfile(ctx, user, profile); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user in repository: %w", err)
	}
	return profile, nil
}

// Login verifies the password and returns the caller's profile,
// creating a default one if it went missing.
func (s *authService) Login(ctx context.Context, email, password string) (*model.Profile, error) {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("error finding user by email: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	profile, err := s.profiles.Ensure(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return profile, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
