package repository

import (
	"context"
	"time"

	"github.com/adityaghosh149/digievent/internal/crypto"
	"github.com/adityaghosh149/digievent/internal/model"
)

func (s *Store) CreateOrganizer(ctx context.Context, organizer model.Organizer, password string) (model.Organizer, error) {
	hash, err := crypto.HashPassword(password)
	if err != nil {
		return model.Organizer{}, err
	}
	organizer.PasswordHash = hash

	now := time.Now().UTC()
	organizer.CreatedAt = now
	organizer.UpdatedAt = now

	_, err = s.pool.Exec(ctx, `
		INSERT INTO organizers (id, admin_id, organizer_name, email, phone_number, password_hash, refresh_token, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, '', FALSE, $7, $8)
	`, organizer.ID, organizer.AdminID, organizer.OrganizerName, organizer.Email, organizer.PhoneNumber,
		organizer.PasswordHash, organizer.CreatedAt, organizer.UpdatedAt)
	if err != nil {
		return model.Organizer{}, mapErr(err)
	}

	organizer.RefreshToken = ""
	organizer.IsDeleted = false
	return organizer, nil
}

func (s *Store) OrganizerByID(ctx context.Context, id string) (model.Organizer, error) {
	var organizer model.Organizer
	row := s.pool.QueryRow(ctx, `
		SELECT id, admin_id, organizer_name, email, phone_number, password_hash, refresh_token, is_deleted, created_at, updated_at
		FROM organizers WHERE id = $1
	`, id)
	err := row.Scan(&organizer.ID, &organizer.AdminID, &organizer.OrganizerName, &organizer.Email, &organizer.PhoneNumber,
		&organizer.PasswordHash, &organizer.RefreshToken, &organizer.IsDeleted, &organizer.CreatedAt, &organizer.UpdatedAt)
	return organizer, mapErr(err)
}

type OrganizerUpdate struct {
	OrganizerName *string
	PhoneNumber   *string
	Password      *string
}

// UpdateOrganizer applies the partial update in one transaction; a failing
// field leaves nothing half-written.
func (s *Store) UpdateOrganizer(ctx context.Context, id string, update OrganizerUpdate) (model.Organizer, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return model.Organizer{}, err
	}
	defer tx.Rollback(ctx)

	if update.OrganizerName != nil {
		if _, err := tx.Exec(ctx, `UPDATE organizers SET organizer_name = $1, updated_at = now() WHERE id = $2`, *update.OrganizerName, id); err != nil {
			return model.Organizer{}, mapErr(err)
		}
	}
	if update.PhoneNumber != nil {
		if _, err := tx.Exec(ctx, `UPDATE organizers SET phone_number = $1, updated_at = now() WHERE id = $2`, *update.PhoneNumber, id); err != nil {
			return model.Organizer{}, mapErr(err)
		}
	}
	if update.Password != nil {
		hash, err := crypto.HashPassword(*update.Password)
		if err != nil {
			return model.Organizer{}, err
		}
		if _, err := tx.Exec(ctx, `UPDATE organizers SET password_hash = $1, updated_at = now() WHERE id = $2`, hash, id); err != nil {
			return model.Organizer{}, mapErr(err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return model.Organizer{}, mapErr(err)
	}
	return s.OrganizerByID(ctx, id)
}

func (s *Store) ListOrganizersByAdmin(ctx context.Context, adminID string, limit int) ([]model.Organizer, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, admin_id, organizer_name, email, phone_number, is_deleted, created_at, updated_at
		FROM organizers WHERE admin_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, adminID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var organizers []model.Organizer
	for rows.Next() {
		var organizer model.Organizer
		if err := rows.Scan(&organizer.ID, &organizer.AdminID, &organizer.OrganizerName, &organizer.Email,
			&organizer.PhoneNumber, &organizer.IsDeleted, &organizer.CreatedAt, &organizer.UpdatedAt); err != nil {
			return nil, err
		}
		organizers = append(organizers, organizer)
	}
	return organizers, rows.Err()
}
