package repository

import (
	"context"
	"time"

	"github.com/adityaghosh149/digievent/internal/model"
)

func (s *Store) CreateCourse(ctx context.Context, course model.Course) (model.Course, error) {
	now := time.Now().UTC()
	course.CreatedAt = now
	course.UpdatedAt = now

	_, err := s.pool.Exec(ctx, `
		INSERT INTO courses (id, admin_id, name, duration, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, course.ID, course.AdminID, course.Name, course.Duration, course.CreatedAt, course.UpdatedAt)
	if err != nil {
		return model.Course{}, mapErr(err)
	}
	return course, nil
}

func (s *Store) ListCoursesByAdmin(ctx context.Context, adminID string) ([]model.Course, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, admin_id, name, duration, created_at, updated_at
		FROM courses WHERE admin_id = $1
		ORDER BY name
	`, adminID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var courses []model.Course
	for rows.Next() {
		var course model.Course
		if err := rows.Scan(&course.ID, &course.AdminID, &course.Name, &course.Duration, &course.CreatedAt, &course.UpdatedAt); err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}
	return courses, rows.Err()
}

func (s *Store) CreateEvent(ctx context.Context, event model.Event) (model.Event, error) {
	now := time.Now().UTC()
	event.CreatedAt = now
	event.UpdatedAt = now

	_, err := s.pool.Exec(ctx, `
		INSERT INTO events (id, organizer_id, title, description, venue, cover_image_url, total_tickets, booked_tickets, starts_at, ends_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 0, $8, $9, $10, $11)
	`, event.ID, event.OrganizerID, event.Title, event.Description, event.Venue, event.CoverImageURL,
		event.TotalTickets, event.StartsAt, event.EndsAt, event.CreatedAt, event.UpdatedAt)
	if err != nil {
		return model.Event{}, mapErr(err)
	}
	event.BookedTickets = 0
	return event, nil
}

func (s *Store) ListEventsByOrganizer(ctx context.Context, organizerID string, limit int) ([]model.Event, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, organizer_id, title, description, venue, cover_image_url, total_tickets, booked_tickets, starts_at, ends_at, created_at, updated_at
		FROM events WHERE organizer_id = $1
		ORDER BY starts_at DESC
		LIMIT $2
	`, organizerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var event model.Event
		if err := rows.Scan(&event.ID, &event.OrganizerID, &event.Title, &event.Description, &event.Venue,
			&event.CoverImageURL, &event.TotalTickets, &event.BookedTickets, &event.StartsAt, &event.EndsAt,
			&event.CreatedAt, &event.UpdatedAt); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
