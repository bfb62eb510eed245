package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Nahimba/MotoCRM-sub001/internal/model"

	"github.com/jackc/pgx/v5"
)

// ServiceRepository stores the catalogue of sellable services
type ServiceRepository interface {
	Create(ctx context.Context, s *model.Service) error
	FindByID(ctx context.Context, id string) (*model.Service, error)
	List(ctx context.Context) ([]model.Service, error)
}

type serviceRepository struct {
	db DB
}

func NewServiceRepository(db DB) ServiceRepository {
	return &serviceRepository{db: db}
}

func (r *serviceRepository) Create(ctx context.Context, s *model.Service) error {
	sql := `INSERT INTO services (id, name, default_hours, default_price, created_at)
            VALUES ($1, $2, $3, $4, $5) RETURNING created_at`
	if err := r.db.QueryRow(ctx, sql, s.ID, s.Name, s.DefaultHours, s.DefaultPrice, s.CreatedAt).Scan(&s.CreatedAt); err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	return nil
}

func (r *serviceRepository) FindByID(ctx context.Context, id string) (*model.Service, error) {
	s := &model.Service{}
	sql := `SELECT id, name, default_hours, default_price, created_at FROM services WHERE id = $1`
	err := r.db.QueryRow(ctx, sql, id).Scan(&s.ID, &s.Name, &s.DefaultHours, &s.DefaultPrice, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find service by ID: %w", err)
	}
	return s, nil
}

func (r *serviceRepository) List(ctx context.Context) ([]model.Service, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, default_hours, default_price, created_at FROM services ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query services: %w", err)
	}
	defer rows.Close()

	var services []model.Service
	for rows.Next() {
		var s model.Service
		if err := rows.Scan(&s.ID, &s.Name, &s.DefaultHours, &s.DefaultPrice, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan service row: %w", err)
		}
		services = append(services, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating service rows: %w", err)
	}
	return services, nil
}
