package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/adityaghosh149/digievent/internal/model"
	"github.com/adityaghosh149/digievent/internal/repository"
	"github.com/adityaghosh149/digievent/internal/validate"
)

const weakPasswordMessage = "weak password: must include uppercase, lowercase, number, special character and be at least 8 characters"

func listLimit(r *http.Request) int {
	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	return limit
}

type registerOrganizerRequest struct {
	OrganizerName string `json:"organizerName"`
	Email         string `json:"email"`
	PhoneNumber   string `json:"phoneNumber"`
	Password      string `json:"password"`
}

type organizerView struct {
	ID            string `json:"id"`
	OrganizerName string `json:"organizerName"`
	Email         string `json:"email"`
	PhoneNumber   string `json:"phoneNumber"`
	CreatedAt     int64  `json:"createdAt"`
}

func organizerViewOf(o model.Organizer) organizerView {
	return organizerView{
		ID:            o.ID,
		OrganizerName: o.OrganizerName,
		Email:         o.Email,
		PhoneNumber:   o.PhoneNumber,
		CreatedAt:     o.CreatedAt.Unix(),
	}
}

func (s *Server) handleRegisterOrganizer(w http.ResponseWriter, r *http.Request) {
	requester := mustAccount(r.Context())

	var req registerOrganizerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.OrganizerName = strings.TrimSpace(req.OrganizerName)
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	if req.OrganizerName == "" || req.Email == "" || req.PhoneNumber == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "all fields are required")
		return
	}
	if !validate.IsEmail(req.Email) {
		writeError(w, http.StatusBadRequest, "invalid email format")
		return
	}
	if !validate.IsPhoneNumber(req.PhoneNumber) {
		writeError(w, http.StatusBadRequest, "invalid phone number")
		return
	}
	if !validate.IsStrongPassword(req.Password) {
		writeError(w, http.StatusBadRequest, weakPasswordMessage)
		return
	}

	organizer := model.Organizer{
		ID:            uuid.NewString(),
		AdminID:       requester.ID,
		OrganizerName: req.OrganizerName,
		Email:         req.Email,
		PhoneNumber:   req.PhoneNumber,
	}

	created, err := s.store.CreateOrganizer(r.Context(), organizer, req.Password)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			writeError(w, http.StatusConflict, "organizer with this email or phone number already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]organizerView{"organizer": organizerViewOf(created)})
}

func (s *Server) handleListOrganizers(w http.ResponseWriter, r *http.Request) {
	requester := mustAccount(r.Context())

	organizers, err := s.store.ListOrganizersByAdmin(r.Context(), requester.ID, listLimit(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}

	views := make([]organizerView, 0, len(organizers))
	for _, o := range organizers {
		views = append(views, organizerViewOf(o))
	}
	writeJSON(w, http.StatusOK, views)
}

type updateOrganizerRequest struct {
	OrganizerName *string `json:"organizerName,omitempty"`
	PhoneNumber   *string `json:"phoneNumber,omitempty"`
	Password      *string `json:"password,omitempty"`
}

func (s *Server) handleUpdateOrganizer(w http.ResponseWriter, r *http.Request) {
	requester := mustAccount(r.Context())
	organizerID := chi.URLParam(r, "organizerId")

	organizer, err := s.store.OrganizerByID(r.Context(), organizerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "organizer not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	if organizer.AdminID != requester.ID {
		writeError(w, http.StatusForbidden, "access denied")
		return
	}

	var req updateOrganizerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	update := repository.OrganizerUpdate{}
	if req.OrganizerName != nil && strings.TrimSpace(*req.OrganizerName) != "" {
		name := strings.TrimSpace(*req.OrganizerName)
		update.OrganizerName = &name
	}
	if req.PhoneNumber != nil {
		phone := strings.TrimSpace(*req.PhoneNumber)
		if !validate.IsPhoneNumber(phone) {
			writeError(w, http.StatusBadRequest, "invalid phone number")
			return
		}
		update.PhoneNumber = &phone
	}
	if req.Password != nil {
		if !validate.IsStrongPassword(*req.Password) {
			writeError(w, http.StatusBadRequest, weakPasswordMessage)
			return
		}
		update.Password = req.Password
	}

	updated, err := s.store.UpdateOrganizer(r.Context(), organizerID, update)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			writeError(w, http.StatusConflict, "phone number already in use")
			return
		}
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}

	s.invalidateAccount(r.Context(), model.RoleOrganizer, organizerID)
	writeJSON(w, http.StatusOK, map[string]organizerView{"organizer": organizerViewOf(updated)})
}

type registerStudentRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
	Stream      string `json:"stream"`
	Section     string `json:"section"`
	Semester    int    `json:"semester"`
	Year        int    `json:"year"`
}

type studentView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Stream      string `json:"stream"`
	Section     string `json:"section"`
	Semester    int    `json:"semester"`
	Year        int    `json:"year"`
	CreatedAt   int64  `json:"createdAt"`
}

func studentViewOf(st model.Student) studentView {
	return studentView{
		ID:          st.ID,
		Name:        st.Name,
		Email:       st.Email,
		PhoneNumber: st.PhoneNumber,
		Stream:      st.Stream,
		Section:     st.Section,
		Semester:    st.Semester,
		Year:        st.Year,
		CreatedAt:   st.CreatedAt.Unix(),
	}
}

func (s *Server) handleRegisterStudent(w http.ResponseWriter, r *http.Request) {
	requester := mustAccount(r.Context())

	var req registerStudentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	if req.Name == "" || req.Email == "" || req.PhoneNumber == "" || req.Password == "" || req.Stream == "" || req.Section == "" {
		writeError(w, http.StatusBadRequest, "all fields are required")
		return
	}
	if !validate.IsEmail(req.Email) {
		writeError(w, http.StatusBadRequest, "invalid email format")
		return
	}
	if !validate.IsPhoneNumber(req.PhoneNumber) {
		writeError(w, http.StatusBadRequest, "invalid phone number")
		return
	}
	if !validate.IsStrongPassword(req.Password) {
		writeError(w, http.StatusBadRequest, weakPasswordMessage)
		return
	}
	if req.Semester < 1 || req.Year < 1 {
		writeError(w, http.StatusBadRequest, "semester and year must be positive")
		return
	}

	student := model.Student{
		ID:          uuid.NewString(),
		AdminID:     requester.ID,
		Name:        req.Name,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Stream:      req.Stream,
		Section:     req.Section,
		Semester:    req.Semester,
		Year:        req.Year,
	}

	created, err := s.store.CreateStudent(r.Context(), student, req.Password)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			writeError(w, http.StatusConflict, "student with this email or phone number already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]studentView{"student": studentViewOf(created)})
}

func (s *Server) handleListStudents(w http.ResponseWriter, r *http.Request) {
	requester := mustAccount(r.Context())

	students, err := s.store.ListStudentsByAdmin(r.Context(), requester.ID, listLimit(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}

	views := make([]studentView, 0, len(students))
	for _, st := range students {
		views = append(views, studentViewOf(st))
	}
	writeJSON(w, http.StatusOK, views)
}

type updateStudentRequest struct {
	Name        *string `json:"name,omitempty"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
	Stream      *string `json:"stream,omitempty"`
	Section     *string `json:"section,omitempty"`
	Semester    *int    `json:"semester,omitempty"`
	Year        *int    `json:"year,omitempty"`
	Password    *string `json:"password,omitempty"`
}

func (s *Server) handleUpdateStudent(w http.ResponseWriter, r *http.Request) {
	requester := mustAccount(r.Context())
	studentID := chi.URLParam(r, "studentId")

	student, err := s.store.StudentByID(r.Context(), studentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "student not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	if student.AdminID != requester.ID {
		writeError(w, http.StatusForbidden, "access denied")
		return
	}

	var req updateStudentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	update := repository.StudentUpdate{
		Name:    req.Name,
		Stream:  req.Stream,
		Section: req.Section,
	}
	if req.PhoneNumber != nil {
		phone := strings.TrimSpace(*req.PhoneNumber)
		if !validate.IsPhoneNumber(phone) {
			writeError(w, http.StatusBadRequest, "invalid phone number")
			return
		}
		update.PhoneNumber = &phone
	}
	if req.Semester != nil {
		if *req.Semester < 1 {
			writeError(w, http.StatusBadRequest, "semester must be positive")
			return
		}
		update.Semester = req.Semester
	}
	if req.Year != nil {
		if *req.Year < 1 {
			writeError(w, http.StatusBadRequest, "year must be positive")
			return
		}
		update.Year = req.Year
	}
	if req.Password != nil {
		if !validate.IsStrongPassword(*req.Password) {
			writeError(w, http.StatusBadRequest, weakPasswordMessage)
			return
		}
		update.Password = req.Password
	}

	updated, err := s.store.UpdateStudent(r.Context(), studentID, update)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			writeError(w, http.StatusConflict, "phone number already in use")
			return
		}
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}

	s.invalidateAccount(r.Context(), model.RoleStudent, studentID)
	writeJSON(w, http.StatusOK, map[string]studentView{"student": studentViewOf(updated)})
}

type addCourseRequest struct {
	Name     string `json:"name"`
	Duration int    `json:"duration"`
}

type courseView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Duration int    `json:"duration"`
}

func (s *Server) handleAddCourse(w http.ResponseWriter, r *http.Request) {
	requester := mustAccount(r.Context())

	var req addCourseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "course name is required")
		return
	}
	if req.Duration < 1 || req.Duration > 5 {
		writeError(w, http.StatusBadRequest, "course duration must be between 1 and 5 years")
		return
	}

	course := model.Course{
		ID:       uuid.NewString(),
		AdminID:  requester.ID,
		Name:     req.Name,
		Duration: req.Duration,
	}

	created, err := s.store.CreateCourse(r.Context(), course)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			writeError(w, http.StatusConflict, "course already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]courseView{"course": courseView{
		ID:       created.ID,
		Name:     created.Name,
		Duration: created.Duration,
	}})
}

func (s *Server) handleListCourses(w http.ResponseWriter, r *http.Request) {
	requester := mustAccount(r.Context())

	courses, err := s.store.ListCoursesByAdmin(r.Context(), requester.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}

	views := make([]courseView, 0, len(courses))
	for _, c := range courses {
		views = append(views, courseView{ID: c.ID, Name: c.Name, Duration: c.Duration})
	}
	writeJSON(w, http.StatusOK, views)
}
