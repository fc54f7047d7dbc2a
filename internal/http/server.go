package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/adityaghosh149/digievent/internal/config"
	"github.com/adityaghosh149/digievent/internal/media"
	"github.com/adityaghosh149/digievent/internal/model"
	"github.com/adityaghosh149/digievent/internal/repository"
)

// Store is the credential/data store surface the server consumes. The pgx
// repository implements it; tests substitute an in-memory fake.
type Store interface {
	Ping(ctx context.Context) error

	AccountByEmail(ctx context.Context, role model.Role, email string) (model.Account, error)
	AccountByID(ctx context.Context, role model.Role, id string) (model.Account, error)
	StoredRefreshToken(ctx context.Context, role model.Role, id string) (string, error)
	SetRefreshToken(ctx context.Context, role model.Role, id, token string) error
	ClearRefreshToken(ctx context.Context, role model.Role, id string) error

	CreateSuperAdmin(ctx context.Context, sa model.SuperAdmin, password string) (model.SuperAdmin, error)
	SuperAdminByID(ctx context.Context, id string) (model.SuperAdmin, error)
	UpdateSuperAdmin(ctx context.Context, id string, update repository.SuperAdminUpdate) (model.SuperAdmin, error)
	SoftDeleteSuperAdmin(ctx context.Context, id string) error
	SetAvatar(ctx context.Context, role model.Role, id, url, key string) error

	CreateAdmin(ctx context.Context, admin model.Admin, password string) (model.Admin, error)
	AdminByID(ctx context.Context, id string) (model.Admin, error)
	UpdateAdmin(ctx context.Context, id string, update repository.AdminUpdate) (model.Admin, error)
	ListAdmins(ctx context.Context, superAdminID string, limit int) ([]model.Admin, error)
	SetAdminSuspended(ctx context.Context, id string, suspended bool) error

	CreateOrganizer(ctx context.Context, organizer model.Organizer, password string) (model.Organizer, error)
	OrganizerByID(ctx context.Context, id string) (model.Organizer, error)
	UpdateOrganizer(ctx context.Context, id string, update repository.OrganizerUpdate) (model.Organizer, error)
	ListOrganizersByAdmin(ctx context.Context, adminID string, limit int) ([]model.Organizer, error)

	CreateStudent(ctx context.Context, student model.Student, password string) (model.Student, error)
	StudentByID(ctx context.Context, id string) (model.Student, error)
	UpdateStudent(ctx context.Context, id string, update repository.StudentUpdate) (model.Student, error)
	ListStudentsByAdmin(ctx context.Context, adminID string, limit int) ([]model.Student, error)

	CreateCourse(ctx context.Context, course model.Course) (model.Course, error)
	ListCoursesByAdmin(ctx context.Context, adminID string) ([]model.Course, error)

	CreateEvent(ctx context.Context, event model.Event) (model.Event, error)
	ListEventsByOrganizer(ctx context.Context, organizerID string, limit int) ([]model.Event, error)
}

type Server struct {
	cfg     config.Config
	store   Store
	redis   *redis.Client
	media   media.Store
	started time.Time
}

func NewServer(cfg config.Config, store Store, redisClient *redis.Client, mediaStore media.Store) *Server {
	return &Server{
		cfg:     cfg,
		store:   store,
		redis:   redisClient,
		media:   mediaStore,
		started: time.Now().UTC(),
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/superadmin", func(r chi.Router) {
		r.Post("/login", s.handleLogin(model.RoleSuperAdmin))
		r.Post("/refresh-token", s.handleRefresh(model.RoleSuperAdmin))
		r.With(s.authenticate).Post("/logout", s.handleLogout)
		r.With(s.authenticate, s.requireRootSuperAdmin).Post("/register", s.handleRegisterSuperAdmin)
		r.With(s.authenticate, s.requireSuperAdmin).Patch("/{superAdminId}", s.handleUpdateSuperAdmin)
		r.With(s.authenticate, s.requireRootSuperAdmin).Delete("/{superAdminId}", s.handleDeleteSuperAdmin)
		r.With(s.authenticate, s.requireSuperAdmin).Put("/avatar", s.handleUploadAvatar(model.RoleSuperAdmin))

		r.Route("/admins", func(r chi.Router) {
			r.Use(s.authenticate, s.requireSuperAdmin)
			r.Post("/", s.handleRegisterAdmin)
			r.Get("/", s.handleListAdmins)
			r.Patch("/{adminId}", s.handleUpdateAdmin)
			r.Post("/{adminId}/suspend", s.handleSuspendAdmin)
			r.Post("/{adminId}/resume", s.handleResumeAdmin)
		})
	})

	r.Route("/admin", func(r chi.Router) {
		r.Post("/login", s.handleLogin(model.RoleAdmin))
		r.Post("/refresh-token", s.handleRefresh(model.RoleAdmin))
		r.With(s.authenticate).Post("/logout", s.handleLogout)
		r.With(s.authenticate, s.requireAdmin).Put("/avatar", s.handleUploadAvatar(model.RoleAdmin))

		r.Route("/organizers", func(r chi.Router) {
			r.Use(s.authenticate, s.requireAdmin)
			r.Post("/", s.handleRegisterOrganizer)
			r.Get("/", s.handleListOrganizers)
			r.Patch("/{organizerId}", s.handleUpdateOrganizer)
		})

		r.Route("/students", func(r chi.Router) {
			r.Use(s.authenticate, s.requireAdmin)
			r.Post("/", s.handleRegisterStudent)
			r.Get("/", s.handleListStudents)
			r.Patch("/{studentId}", s.handleUpdateStudent)
		})

		r.Route("/courses", func(r chi.Router) {
			r.Use(s.authenticate, s.requireAdmin)
			r.Post("/", s.handleAddCourse)
			r.Get("/", s.handleListCourses)
		})
	})

	r.Route("/organizer", func(r chi.Router) {
		r.Post("/login", s.handleLogin(model.RoleOrganizer))
		r.Post("/refresh-token", s.handleRefresh(model.RoleOrganizer))
		r.With(s.authenticate).Post("/logout", s.handleLogout)

		r.Route("/events", func(r chi.Router) {
			r.Use(s.authenticate, s.requireOrganizer)
			r.Post("/", s.handleCreateEvent)
			r.Get("/", s.handleListEvents)
		})
	})

	r.Route("/student", func(r chi.Router) {
		r.Post("/login", s.handleLogin(model.RoleStudent))
		r.Post("/refresh-token", s.handleRefresh(model.RoleStudent))
		r.With(s.authenticate).Post("/logout", s.handleLogout)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	database := "connected"
	status := "ok"
	if err := s.store.Ping(ctx); err != nil {
		database = "disconnected"
		status = "error"
	}

	resp := map[string]interface{}{
		"status":    status,
		"uptime":    time.Since(s.started).Seconds(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"database":  database,
	}
	if s.redis != nil {
		cache := "connected"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			cache = "disconnected"
		}
		resp["cache"] = cache
	}

	code := http.StatusOK
	if status != "ok" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, resp)
}

type errorResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

func decodeJSON(r *http.Request, out interface{}) error {
	decoder := json.NewDecoder(r.Body)
	return decoder.Decode(out)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{StatusCode: status, Message: message})
}
