package repository

import (
	"context"
	"time"

	"github.com/adityaghosh149/digievent/internal/crypto"
	"github.com/adityaghosh149/digievent/internal/model"
)

func (s *Store) CreateStudent(ctx context.Context, student model.Student, password string) (model.Student, error) {
	hash, err := crypto.HashPassword(password)
	if err != nil {
		return model.Student{}, err
	}
	student.PasswordHash = hash

	now := time.Now().UTC()
	student.CreatedAt = now
	student.UpdatedAt = now

	_, err = s.pool.Exec(ctx, `
		INSERT INTO students (id, admin_id, name, email, phone_number, password_hash, stream, section, semester, year, refresh_token, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, '', FALSE, $11, $12)
	`, student.ID, student.AdminID, student.Name, student.Email, student.PhoneNumber, student.PasswordHash,
		student.Stream, student.Section, student.Semester, student.Year, student.CreatedAt, student.UpdatedAt)
	if err != nil {
		return model.Student{}, mapErr(err)
	}

	student.RefreshToken = ""
	student.IsDeleted = false
	return student, nil
}

func (s *Store) StudentByID(ctx context.Context, id string) (model.Student, error) {
	var student model.Student
	row := s.pool.QueryRow(ctx, `
		SELECT id, admin_id, name, email, phone_number, password_hash, stream, section, semester, year, refresh_token, is_deleted, created_at, updated_at
		FROM students WHERE id = $1
	`, id)
	err := row.Scan(&student.ID, &student.AdminID, &student.Name, &student.Email, &student.PhoneNumber, &student.PasswordHash,
		&student.Stream, &student.Section, &student.Semester, &student.Year, &student.RefreshToken, &student.IsDeleted,
		&student.CreatedAt, &student.UpdatedAt)
	return student, mapErr(err)
}

type StudentUpdate struct {
	Name        *string
	PhoneNumber *string
	Stream      *string
	Section     *string
	Semester    *int
	Year        *int
	Password    *string
}

// UpdateStudent applies the partial update in one transaction; a failing
// field leaves nothing half-written.
func (s *Store) UpdateStudent(ctx context.Context, id string, update StudentUpdate) (model.Student, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return model.Student{}, err
	}
	defer tx.Rollback(ctx)

	setText := func(column, value string) error {
		_, err := tx.Exec(ctx, `UPDATE students SET `+column+` = $1, updated_at = now() WHERE id = $2`, value, id)
		return mapErr(err)
	}
	if update.Name != nil {
		if err := setText("name", *update.Name); err != nil {
			return model.Student{}, err
		}
	}
	if update.PhoneNumber != nil {
		if err := setText("phone_number", *update.PhoneNumber); err != nil {
			return model.Student{}, err
		}
	}
	if update.Stream != nil {
		if err := setText("stream", *update.Stream); err != nil {
			return model.Student{}, err
		}
	}
	if update.Section != nil {
		if err := setText("section", *update.Section); err != nil {
			return model.Student{}, err
		}
	}
	if update.Semester != nil {
		if _, err := tx.Exec(ctx, `UPDATE students SET semester = $1, updated_at = now() WHERE id = $2`, *update.Semester, id); err != nil {
			return model.Student{}, mapErr(err)
		}
	}
	if update.Year != nil {
		if _, err := tx.Exec(ctx, `UPDATE students SET year = $1, updated_at = now() WHERE id = $2`, *update.Year, id); err != nil {
			return model.Student{}, mapErr(err)
		}
	}
	if update.Password != nil {
		hash, err := crypto.HashPassword(*update.Password)
		if err != nil {
			return model.Student{}, err
		}
		if err := setText("password_hash", hash); err != nil {
			return model.Student{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return model.Student{}, mapErr(err)
	}
	return s.StudentByID(ctx, id)
}

func (s *Store) ListStudentsByAdmin(ctx context.Context, adminID string, limit int) ([]model.Student, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, admin_id, name, email, phone_number, stream, section, semester, year, is_deleted, created_at, updated_at
		FROM students WHERE admin_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, adminID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []model.Student
	for rows.Next() {
		var student model.Student
		if err := rows.Scan(&student.ID, &student.AdminID, &student.Name, &student.Email, &student.PhoneNumber,
			&student.Stream, &student.Section, &student.Semester, &student.Year, &student.IsDeleted,
			&student.CreatedAt, &student.UpdatedAt); err != nil {
			return nil, err
		}
		students = append(students, student)
	}
	return students, rows.Err()
}
