package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/adityaghosh149/digievent/internal/model"
)

type createEventRequest struct {
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Venue        string    `json:"venue"`
	TotalTickets int       `json:"totalTickets"`
	StartsAt     time.Time `json:"startsAt"`
	EndsAt       time.Time `json:"endsAt"`
}

type eventView struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Venue         string    `json:"venue"`
	TotalTickets  int       `json:"totalTickets"`
	BookedTickets int       `json:"bookedTickets"`
	StartsAt      time.Time `json:"startsAt"`
	EndsAt        time.Time `json:"endsAt"`
}

func eventViewOf(ev model.Event) eventView {
	return eventView{
		ID:            ev.ID,
		Title:         ev.Title,
		Description:   ev.Description,
		Venue:         ev.Venue,
		TotalTickets:  ev.TotalTickets,
		BookedTickets: ev.BookedTickets,
		StartsAt:      ev.StartsAt,
		EndsAt:        ev.EndsAt,
	}
}

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	requester := mustAccount(r.Context())

	var req createEventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Venue = strings.TrimSpace(req.Venue)
	if req.Title == "" || req.Venue == "" {
		writeError(w, http.StatusBadRequest, "title and venue are required")
		return
	}
	if req.TotalTickets < 0 {
		writeError(w, http.StatusBadRequest, "total tickets cannot be negative")
		return
	}
	if req.StartsAt.IsZero() || req.EndsAt.IsZero() || !req.EndsAt.After(req.StartsAt) {
		writeError(w, http.StatusBadRequest, "event must end after it starts")
		return
	}

	event := model.Event{
		ID:           uuid.NewString(),
		OrganizerID:  requester.ID,
		Title:        req.Title,
		Description:  req.Description,
		Venue:        req.Venue,
		TotalTickets: req.TotalTickets,
		StartsAt:     req.StartsAt,
		EndsAt:       req.EndsAt,
	}

	created, err := s.store.CreateEvent(r.Context(), event)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]eventView{"event": eventViewOf(created)})
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	requester := mustAccount(r.Context())

	events, err := s.store.ListEventsByOrganizer(r.Context(), requester.ID, listLimit(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}

	views := make([]eventView, 0, len(events))
	for _, ev := range events {
		views = append(views, eventViewOf(ev))
	}
	writeJSON(w, http.StatusOK, views)
}
