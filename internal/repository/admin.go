package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/adityaghosh149/digievent/internal/crypto"
	"github.com/adityaghosh149/digievent/internal/model"
)

func (s *Store) CreateAdmin(ctx context.Context, admin model.Admin, password string) (model.Admin, error) {
	hash, err := crypto.HashPassword(password)
	if err != nil {
		return model.Admin{}, err
	}
	admin.PasswordHash = hash

	now := time.Now().UTC()
	admin.CreatedAt = now
	admin.UpdatedAt = now
	if admin.SubscriptionStatus == "" {
		admin.SubscriptionStatus = model.SubscriptionActive
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO admins (id, super_admin_id, university_name, email, phone_number, password_hash, avatar_url, avatar_key, address, state, country, subscription_status, subscription_end_date, refresh_token, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, '', FALSE, $14, $15)
	`, admin.ID, admin.SuperAdminID, admin.UniversityName, admin.Email, admin.PhoneNumber, admin.PasswordHash,
		admin.AvatarURL, admin.AvatarKey, admin.Address, admin.State, admin.Country,
		admin.SubscriptionStatus, admin.SubscriptionEndDate, admin.CreatedAt, admin.UpdatedAt)
	if err != nil {
		return model.Admin{}, mapErr(err)
	}

	admin.RefreshToken = ""
	admin.IsDeleted = false
	return admin, nil
}

func (s *Store) AdminByID(ctx context.Context, id string) (model.Admin, error) {
	var admin model.Admin
	row := s.pool.QueryRow(ctx, `
		SELECT id, super_admin_id, university_name, email, phone_number, password_hash, avatar_url, avatar_key, address, state, country, subscription_status, subscription_end_date, refresh_token, is_deleted, created_at, updated_at
		FROM admins WHERE id = $1
	`, id)
	err := row.Scan(&admin.ID, &admin.SuperAdminID, &admin.UniversityName, &admin.Email, &admin.PhoneNumber, &admin.PasswordHash,
		&admin.AvatarURL, &admin.AvatarKey, &admin.Address, &admin.State, &admin.Country,
		&admin.SubscriptionStatus, &admin.SubscriptionEndDate, &admin.RefreshToken, &admin.IsDeleted, &admin.CreatedAt, &admin.UpdatedAt)
	return admin, mapErr(err)
}

func (s *Store) ListAdmins(ctx context.Context, superAdminID string, limit int) ([]model.Admin, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, super_admin_id, university_name, email, phone_number, avatar_url, address, state, country, subscription_status, subscription_end_date, is_deleted, created_at, updated_at
		FROM admins WHERE super_admin_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, superAdminID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var admins []model.Admin
	for rows.Next() {
		var admin model.Admin
		if err := rows.Scan(&admin.ID, &admin.SuperAdminID, &admin.UniversityName, &admin.Email, &admin.PhoneNumber,
			&admin.AvatarURL, &admin.Address, &admin.State, &admin.Country,
			&admin.SubscriptionStatus, &admin.SubscriptionEndDate, &admin.IsDeleted, &admin.CreatedAt, &admin.UpdatedAt); err != nil {
			return nil, err
		}
		admins = append(admins, admin)
	}
	return admins, rows.Err()
}

// SetAdminSuspended toggles the soft-delete flag. Suspension also drops the
// stored refresh token so the admin cannot rotate back in.
func (s *Store) SetAdminSuspended(ctx context.Context, id string, suspended bool) error {
	var tag pgconn.CommandTag
	var err error
	if suspended {
		tag, err = s.pool.Exec(ctx, `UPDATE admins SET is_deleted = TRUE, refresh_token = '', updated_at = now() WHERE id = $1`, id)
	} else {
		tag, err = s.pool.Exec(ctx, `UPDATE admins SET is_deleted = FALSE, updated_at = now() WHERE id = $1`, id)
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type AdminUpdate struct {
	UniversityName *string
	PhoneNumber    *string
	Address        *string
	State          *string
	Country        *string
	Password       *string
}

// UpdateAdmin applies the partial update in one transaction; a failing field
// leaves nothing half-written.
func (s *Store) UpdateAdmin(ctx context.Context, id string, update AdminUpdate) (model.Admin, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return model.Admin{}, err
	}
	defer tx.Rollback(ctx)

	set := func(column, value string) error {
		_, err := tx.Exec(ctx, `UPDATE admins SET `+column+` = $1, updated_at = now() WHERE id = $2`, value, id)
		return mapErr(err)
	}
	if update.UniversityName != nil {
		if err := set("university_name", *update.UniversityName); err != nil {
			return model.Admin{}, err
		}
	}
	if update.PhoneNumber != nil {
		if err := set("phone_number", *update.PhoneNumber); err != nil {
			return model.Admin{}, err
		}
	}
	if update.Address != nil {
		if err := set("address", *update.Address); err != nil {
			return model.Admin{}, err
		}
	}
	if update.State != nil {
		if err := set("state", *update.State); err != nil {
			return model.Admin{}, err
		}
	}
	if update.Country != nil {
		if err := set("country", *update.Country); err != nil {
			return model.Admin{}, err
		}
	}
	if update.Password != nil {
		hash, err := crypto.HashPassword(*update.Password)
		if err != nil {
			return model.Admin{}, err
		}
		if err := set("password_hash", hash); err != nil {
			return model.Admin{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return model.Admin{}, mapErr(err)
	}
	return s.AdminByID(ctx, id)
}
