package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Nahimba/MotoCRM-sub001/internal/model"
	"github.com/Nahimba/MotoCRM-sub001/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrServiceNotFound = errors.New("service not found")
	ErrNegativePrice   = errors.New("price must not be negative")
)

// CatalogService manages the list of sellable training packages.
type CatalogService interface {
	Create(ctx context.Context, req model.CreateServiceRequest) (*model.Service, error)
	Get(ctx context.Context, id string) (*model.Service, error)
	List(ctx context.Context) ([]model.Service, error)
}

type catalogService struct {
	repo repository.ServiceRepository
}

func NewCatalogService(repo repository.ServiceRepository) CatalogService {
	return &catalogService{repo: repo}
}

func (s *catalogService) Create(ctx context.Context, req model.CreateServiceRequest) (*model.Service, error) {
	if req.DefaultPrice.IsNegative() {
		return nil, ErrNegativePrice
	}
	svc := &model.Service{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(req.Name),
		DefaultHours: req.DefaultHours,
		DefaultPrice: req.DefaultPrice.Round(2),
		CreatedAt:    time.Now(),
	}
	if err := s.repo.Create(ctx, svc); err != nil {
		return nil, fmt.Errorf("failed to create service in repo: %w", err)
	}
	return svc, nil
}

func (s *catalogService) Get(ctx context.Context, id string) (*model.Service, error) {
	svc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find service: %w", err)
	}
	if svc == nil {
		return nil, ErrServiceNotFound
	}
	return svc, nil
}

func (s *catalogService) List(ctx context.Context) ([]model.Service, error) {
	services, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list services from repo: %w", err)
	}
	return services, nil
}
