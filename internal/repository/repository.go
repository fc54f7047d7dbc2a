package repository

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adityaghosh149/digievent/internal/model"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicate    = errors.New("duplicate email or phone number")
	ErrRootConflict = errors.New("a root super admin already exists")
)

//go:embed schema.sql
var schema string

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// EnsureSchema applies the embedded DDL. Statements are idempotent.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, schema)
	return err
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// tableFor maps a role tag to its collection. The switch is exhaustive over
// the four variants; anything else is a caller bug surfaced as an error.
func tableFor(role model.Role) (string, error) {
	switch role {
	case model.RoleSuperAdmin:
		return "super_admins", nil
	case model.RoleAdmin:
		return "admins", nil
	case model.RoleOrganizer:
		return "organizers", nil
	case model.RoleStudent:
		return "students", nil
	default:
		return "", fmt.Errorf("invalid role %q", role)
	}
}

// AccountByEmail returns the principal's role-neutral view including the
// password hash, for credential verification.
func (s *Store) AccountByEmail(ctx context.Context, role model.Role, email string) (model.Account, error) {
	switch role {
	case model.RoleSuperAdmin:
		var account model.Account
		row := s.pool.QueryRow(ctx, `
			SELECT id, email, name, phone_number, password_hash, is_root, is_deleted
			FROM super_admins WHERE email = $1
		`, email)
		err := row.Scan(&account.ID, &account.Email, &account.Name, &account.PhoneNumber, &account.PasswordHash, &account.IsRoot, &account.IsDeleted)
		account.Role = role
		return account, mapErr(err)
	case model.RoleAdmin:
		var account model.Account
		row := s.pool.QueryRow(ctx, `
			SELECT id, email, university_name, phone_number, password_hash, is_deleted
			FROM admins WHERE email = $1
		`, email)
		err := row.Scan(&account.ID, &account.Email, &account.Name, &account.PhoneNumber, &account.PasswordHash, &account.IsDeleted)
		account.Role = role
		return account, mapErr(err)
	case model.RoleOrganizer:
		var account model.Account
		row := s.pool.QueryRow(ctx, `
			SELECT id, email, organizer_name, phone_number, password_hash, is_deleted
			FROM organizers WHERE email = $1
		`, email)
		err := row.Scan(&account.ID, &account.Email, &account.Name, &account.PhoneNumber, &account.PasswordHash, &account.IsDeleted)
		account.Role = role
		return account, mapErr(err)
	case model.RoleStudent:
		var account model.Account
		row := s.pool.QueryRow(ctx, `
			SELECT id, email, name, phone_number, password_hash, is_deleted
			FROM students WHERE email = $1
		`, email)
		err := row.Scan(&account.ID, &account.Email, &account.Name, &account.PhoneNumber, &account.PasswordHash, &account.IsDeleted)
		account.Role = role
		return account, mapErr(err)
	default:
		return model.Account{}, fmt.Errorf("invalid role %q", role)
	}
}

// AccountByID returns the sanitized view used on authenticated requests.
// The password hash and refresh token are never selected here.
func (s *Store) AccountByID(ctx context.Context, role model.Role, id string) (model.Account, error) {
	switch role {
	case model.RoleSuperAdmin:
		var account model.Account
		row := s.pool.QueryRow(ctx, `
			SELECT id, email, name, phone_number, is_root, is_deleted
			FROM super_admins WHERE id = $1
		`, id)
		err := row.Scan(&account.ID, &account.Email, &account.Name, &account.PhoneNumber, &account.IsRoot, &account.IsDeleted)
		account.Role = role
		return account, mapErr(err)
	case model.RoleAdmin:
		var account model.Account
		row := s.pool.QueryRow(ctx, `
			SELECT id, email, university_name, phone_number, is_deleted
			FROM admins WHERE id = $1
		`, id)
		err := row.Scan(&account.ID, &account.Email, &account.Name, &account.PhoneNumber, &account.IsDeleted)
		account.Role = role
		return account, mapErr(err)
	case model.RoleOrganizer:
		var account model.Account
		row := s.pool.QueryRow(ctx, `
			SELECT id, email, organizer_name, phone_number, is_deleted
			FROM organizers WHERE id = $1
		`, id)
		err := row.Scan(&account.ID, &account.Email, &account.Name, &account.PhoneNumber, &account.IsDeleted)
		account.Role = role
		return account, mapErr(err)
	case model.RoleStudent:
		var account model.Account
		row := s.pool.QueryRow(ctx, `
			SELECT id, email, name, phone_number, is_deleted
			FROM students WHERE id = $1
		`, id)
		err := row.Scan(&account.ID, &account.Email, &account.Name, &account.PhoneNumber, &account.IsDeleted)
		account.Role = role
		return account, mapErr(err)
	default:
		return model.Account{}, fmt.Errorf("invalid role %q", role)
	}
}

// StoredRefreshToken returns the principal's single active refresh token,
// empty when logged out.
func (s *Store) StoredRefreshToken(ctx context.Context, role model.Role, id string) (string, error) {
	table, err := tableFor(role)
	if err != nil {
		return "", err
	}
	var token string
	row := s.pool.QueryRow(ctx, `SELECT refresh_token FROM `+table+` WHERE id = $1`, id)
	if err := row.Scan(&token); err != nil {
		return "", mapErr(err)
	}
	return token, nil
}

// SetRefreshToken overwrites the stored refresh token, invalidating any
// previously issued one.
func (s *Store) SetRefreshToken(ctx context.Context, role model.Role, id, token string) error {
	table, err := tableFor(role)
	if err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx, `UPDATE `+table+` SET refresh_token = $1, updated_at = now() WHERE id = $2`, token, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ClearRefreshToken(ctx context.Context, role model.Role, id string) error {
	return s.SetRefreshToken(ctx, role, id, "")
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		if pgErr.ConstraintName == "super_admins_single_root" {
			return ErrRootConflict
		}
		return ErrDuplicate
	}
	return err
}
