package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Nahimba/MotoCRM-sub001/internal/model"

	"github.com/jackc/pgx/v5"
)

// ProfileRepository defines operations for profiles
type ProfileRepository interface {
	CreateIfMissing(ctx context.Context, profile *model.Profile) (*model.Profile, error)
	FindByID(ctx context.Context, id string) (*model.Profile, error)
	Update(ctx context.Context, profile *model.Profile) error
	SetRole(ctx context.Context, id string, role model.Role) (*model.Profile, error)
	List(ctx context.Context) ([]model.Profile, error)
}

type profileRepository struct {
	db DB
}

func NewProfileRepository(db DB) ProfileRepository {
	return &profileRepository{db: db}
}

const profileColumns = `id, full_name, role, phone, avatar_url, created_at, updated_at`

func scanProfile(row pgx.Row) (*model.Profile, error) {
	p := &model.Profile{}
	var role string
	if err := row.Scan(&p.ID, &p.FullName, &role, &p.Phone, &p.AvatarURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Role = model.ParseRole(role)
	return p, nil
}

// CreateIfMissing inserts the profile unless one already exists and
// returns whichever row is stored. Two concurrent first sign-ins both
// end up with the same row.
func (r *profileRepository) CreateIfMissing(ctx context.Context, profile *model.Profile) (*model.Profile, error) {
	sql := `INSERT INTO profiles (` + profileColumns + `)
            VALUES ($1, $2, $3, $4, $5, $6, $7)
            ON CONFLICT (id) DO NOTHING`
	if _, err := r.db.Exec(ctx, sql, profile.ID, profile.FullName, profile.Role, profile.Phone, profile.AvatarURL, profile.CreatedAt, profile.UpdatedAt); err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	stored, err := r.FindByID(ctx, profile.ID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, ErrNotFound
	}
	return stored, nil
}

// FindByID retrieves a profile by its ID
func (r *profileRepository) FindByID(ctx context.Context, id string) (*model.Profile, error) {
	sql := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	p, err := scanProfile(r.db.QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find profile by ID: %w", err)
	}
	return p, nil
}

// Update saves the self-editable fields. The role is never touched here.
func (r *profileRepository) Update(ctx context.Context, p *model.Profile) error {
	sql := `UPDATE profiles SET full_name = $1, phone = $2, avatar_url = $3, updated_at = NOW()
            WHERE id = $4 RETURNING updated_at`
	err := r.db.QueryRow(ctx, sql, p.FullName, p.Phone, p.AvatarURL, p.ID).Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

func (r *profileRepository) SetRole(ctx context.Context, id string, role model.Role) (*model.Profile, error) {
	sql := `UPDATE profiles SET role = $1, updated_at = NOW() WHERE id = $2 RETURNING ` + profileColumns
	p, err := scanProfile(r.db.QueryRow(ctx, sql, role, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to set profile role: %w", err)
	}
	return p, nil
}

func (r *profileRepository) List(ctx context.Context) ([]model.Profile, error) {
	sql := `SELECT ` + profileColumns + ` FROM profiles ORDER BY full_name, created_at`
	rows, err := r.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}
	defer rows.Close()

	var profiles []model.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile row: %w", err)
		}
		profiles = append(profiles, *p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating profile rows: %w", err)
	}
	return profiles, nil
}
