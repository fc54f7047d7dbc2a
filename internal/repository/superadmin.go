package repository

import (
	"context"
	"time"

	"github.com/adityaghosh149/digievent/internal/crypto"
	"github.com/adityaghosh149/digievent/internal/model"
)

// CreateSuperAdmin hashes the plaintext password and inserts the record.
// When the record claims root, the write runs in a transaction that first
// checks for another live root and fails with ErrRootConflict if one exists.
func (s *Store) CreateSuperAdmin(ctx context.Context, sa model.SuperAdmin, password string) (model.SuperAdmin, error) {
	hash, err := crypto.HashPassword(password)
	if err != nil {
		return model.SuperAdmin{}, err
	}
	sa.PasswordHash = hash

	now := time.Now().UTC()
	sa.CreatedAt = now
	sa.UpdatedAt = now

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return model.SuperAdmin{}, err
	}
	defer tx.Rollback(ctx)

	if sa.IsRoot {
		var exists bool
		row := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM super_admins WHERE is_root AND NOT is_deleted AND id <> $1)`, sa.ID)
		if err := row.Scan(&exists); err != nil {
			return model.SuperAdmin{}, err
		}
		if exists {
			return model.SuperAdmin{}, ErrRootConflict
		}
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO super_admins (id, email, name, phone_number, password_hash, avatar_url, avatar_key, refresh_token, is_root, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, '', $8, FALSE, $9, $10)
	`, sa.ID, sa.Email, sa.Name, sa.PhoneNumber, sa.PasswordHash, sa.AvatarURL, sa.AvatarKey, sa.IsRoot, sa.CreatedAt, sa.UpdatedAt)
	if err != nil {
		return model.SuperAdmin{}, mapErr(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return model.SuperAdmin{}, mapErr(err)
	}

	sa.RefreshToken = ""
	sa.IsDeleted = false
	return sa, nil
}

func (s *Store) SuperAdminByID(ctx context.Context, id string) (model.SuperAdmin, error) {
	var sa model.SuperAdmin
	row := s.pool.QueryRow(ctx, `
		SELECT id, email, name, phone_number, password_hash, avatar_url, avatar_key, refresh_token, is_root, is_deleted, created_at, updated_at
		FROM super_admins WHERE id = $1
	`, id)
	err := row.Scan(&sa.ID, &sa.Email, &sa.Name, &sa.PhoneNumber, &sa.PasswordHash, &sa.AvatarURL, &sa.AvatarKey, &sa.RefreshToken, &sa.IsRoot, &sa.IsDeleted, &sa.CreatedAt, &sa.UpdatedAt)
	return sa, mapErr(err)
}

type SuperAdminUpdate struct {
	Name        *string
	PhoneNumber *string
	Password    *string
}

// UpdateSuperAdmin applies the partial update in one transaction, so a
// failing field leaves nothing half-written. A password change is hashed
// here; untouched passwords are never re-hashed.
func (s *Store) UpdateSuperAdmin(ctx context.Context, id string, update SuperAdminUpdate) (model.SuperAdmin, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return model.SuperAdmin{}, err
	}
	defer tx.Rollback(ctx)

	if update.Name != nil {
		if _, err := tx.Exec(ctx, `UPDATE super_admins SET name = $1, updated_at = now() WHERE id = $2`, *update.Name, id); err != nil {
			return model.SuperAdmin{}, mapErr(err)
		}
	}
	if update.PhoneNumber != nil {
		if _, err := tx.Exec(ctx, `UPDATE super_admins SET phone_number = $1, updated_at = now() WHERE id = $2`, *update.PhoneNumber, id); err != nil {
			return model.SuperAdmin{}, mapErr(err)
		}
	}
	if update.Password != nil {
		hash, err := crypto.HashPassword(*update.Password)
		if err != nil {
			return model.SuperAdmin{}, err
		}
		if _, err := tx.Exec(ctx, `UPDATE super_admins SET password_hash = $1, updated_at = now() WHERE id = $2`, hash, id); err != nil {
			return model.SuperAdmin{}, mapErr(err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return model.SuperAdmin{}, mapErr(err)
	}
	return s.SuperAdminByID(ctx, id)
}

// SoftDeleteSuperAdmin marks the record deleted and drops its session.
func (s *Store) SoftDeleteSuperAdmin(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE super_admins SET is_deleted = TRUE, refresh_token = '', updated_at = now() WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// HasRootSuperAdmin reports whether a live root exists. Used by the seed CLI.
func (s *Store) HasRootSuperAdmin(ctx context.Context) (bool, error) {
	var exists bool
	row := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM super_admins WHERE is_root AND NOT is_deleted)`)
	err := row.Scan(&exists)
	return exists, err
}

// SetAvatar records the media location for a super admin or admin profile.
func (s *Store) SetAvatar(ctx context.Context, role model.Role, id, url, key string) error {
	var table string
	switch role {
	case model.RoleSuperAdmin:
		table = "super_admins"
	case model.RoleAdmin:
		table = "admins"
	default:
		return ErrNotFound
	}
	tag, err := s.pool.Exec(ctx, `UPDATE `+table+` SET avatar_url = $1, avatar_key = $2, updated_at = now() WHERE id = $3`, url, key, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
