package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/adityaghosh149/digievent/internal/crypto"
	"github.com/adityaghosh149/digievent/internal/model"
	"github.com/adityaghosh149/digievent/internal/repository"
	"github.com/adityaghosh149/digievent/internal/validate"
)

type registerSuperAdminRequest struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phoneNumber"`
	Password    string `json:"password"`
	IsRoot      bool   `json:"isRoot"`
}

type superAdminView struct {
	ID          string  `json:"id"`
	Email       string  `json:"email"`
	Name        string  `json:"name"`
	PhoneNumber string  `json:"phoneNumber"`
	Avatar      *string `json:"avatar,omitempty"`
	IsRoot      bool    `json:"isRoot"`
	CreatedAt   int64   `json:"createdAt"`
}

func superAdminViewOf(sa model.SuperAdmin) superAdminView {
	return superAdminView{
		ID:          sa.ID,
		Email:       sa.Email,
		Name:        sa.Name,
		PhoneNumber: sa.PhoneNumber,
		Avatar:      sa.AvatarURL,
		IsRoot:      sa.IsRoot,
		CreatedAt:   sa.CreatedAt.Unix(),
	}
}

// handleRegisterSuperAdmin is root-gated by the router. A client-supplied root
// flag is honored only when the requester is root themselves; otherwise it is
// silently downgraded rather than rejected.
func (s *Server) handleRegisterSuperAdmin(w http.ResponseWriter, r *http.Request) {
	requester := mustAccount(r.Context())

	var req registerSuperAdminRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	if req.Email == "" || req.Name == "" || req.PhoneNumber == "" || req.Password == "" {
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

	sa := model.SuperAdmin{
		ID:          uuid.NewString(),
		Email:       req.Email,
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
		IsRoot:      req.IsRoot && requester.IsRoot,
	}

	created, err := s.store.CreateSuperAdmin(r.Context(), sa, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRootConflict):
			writeError(w, http.StatusConflict, "a root super admin already exists")
		case errors.Is(err, repository.ErrDuplicate):
			writeError(w, http.StatusConflict, "super admin with this email or phone number already exists")
		default:
			writeError(w, http.StatusInternalServerError, "server error")
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]superAdminView{"superAdmin": superAdminViewOf(created)})
}

type updateSuperAdminRequest struct {
	Name            *string `json:"name,omitempty"`
	PhoneNumber     *string `json:"phoneNumber,omitempty"`
	Password        *string `json:"password,omitempty"`
	NewPassword     *string `json:"newPassword,omitempty"`
	ConfirmPassword *string `json:"confirmPassword,omitempty"`
}

// handleUpdateSuperAdmin lets a super admin update their own profile; root may
// update any. A password change requires the current password.
func (s *Server) handleUpdateSuperAdmin(w http.ResponseWriter, r *http.Request) {
	requester := mustAccount(r.Context())
	superAdminID := chi.URLParam(r, "superAdminId")

	if requester.ID != superAdminID && !requester.IsRoot {
		writeError(w, http.StatusForbidden, "access denied")
		return
	}

	var req updateSuperAdminRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	current, err := s.store.SuperAdminByID(r.Context(), superAdminID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "super admin not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}

	update := repository.SuperAdminUpdate{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name != "" {
			update.Name = &name
		}
	}
	if req.PhoneNumber != nil {
		phone := strings.TrimSpace(*req.PhoneNumber)
		if phone != "" {
			if !validate.IsPhoneNumber(phone) {
				writeError(w, http.StatusBadRequest, "invalid phone number")
				return
			}
			update.PhoneNumber = &phone
		}
	}
	if req.NewPassword != nil {
		if req.Password == nil || req.ConfirmPassword == nil {
			writeError(w, http.StatusBadRequest, "current password and confirmation are required")
			return
		}
		if crypto.CheckPassword(current.PasswordHash, *req.Password) != nil {
			writeError(w, http.StatusUnauthorized, "invalid current password")
			return
		}
		if *req.NewPassword != *req.ConfirmPassword {
			writeError(w, http.StatusBadRequest, "new password and confirmation do not match")
			return
		}
		if !validate.IsStrongPassword(*req.NewPassword) {
			writeError(w, http.StatusBadRequest, weakPasswordMessage)
			return
		}
		update.Password = req.NewPassword
	}

	updated, err := s.store.UpdateSuperAdmin(r.Context(), superAdminID, update)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			writeError(w, http.StatusConflict, "phone number already in use")
			return
		}
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}

	s.invalidateAccount(r.Context(), model.RoleSuperAdmin, superAdminID)
	writeJSON(w, http.StatusOK, map[string]superAdminView{"superAdmin": superAdminViewOf(updated)})
}

// handleDeleteSuperAdmin soft-deletes another super admin. Root cannot delete
// their own account.
func (s *Server) handleDeleteSuperAdmin(w http.ResponseWriter, r *http.Request) {
	requester := mustAccount(r.Context())
	superAdminID := chi.URLParam(r, "superAdminId")

	if requester.ID == superAdminID {
		writeError(w, http.StatusBadRequest, "you cannot delete your own account")
		return
	}

	if _, err := s.store.SuperAdminByID(r.Context(), superAdminID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "super admin not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}

	if err := s.store.SoftDeleteSuperAdmin(r.Context(), superAdminID); err != nil {
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}

	s.invalidateAccount(r.Context(), model.RoleSuperAdmin, superAdminID)
	writeJSON(w, http.StatusOK, map[string]string{})
}

type registerAdminRequest struct {
	UniversityName string `json:"universityName"`
	Email          string `json:"email"`
	PhoneNumber    string `json:"phoneNumber"`
	Password       string `json:"password"`
	Address        string `json:"address"`
	State          string `json:"state"`
	Country        string `json:"country"`
}

type adminView struct {
	ID                 string                   `json:"id"`
	UniversityName     string                   `json:"universityName"`
	Email              string                   `json:"email"`
	PhoneNumber        string                   `json:"phoneNumber"`
	Avatar             *string                  `json:"avatar,omitempty"`
	Address            string                   `json:"address"`
	State              string                   `json:"state"`
	Country            string                   `json:"country"`
	SubscriptionStatus model.SubscriptionStatus `json:"subscriptionStatus"`
	IsSuspended        bool                     `json:"isSuspended"`
	CreatedAt          int64                    `json:"createdAt"`
}

func adminViewOf(admin model.Admin) adminView {
	return adminView{
		ID:                 admin.ID,
		UniversityName:     admin.UniversityName,
		Email:              admin.Email,
		PhoneNumber:        admin.PhoneNumber,
		Avatar:             admin.AvatarURL,
		Address:            admin.Address,
		State:              admin.State,
		Country:            admin.Country,
		SubscriptionStatus: admin.SubscriptionStatus,
		IsSuspended:        admin.IsDeleted,
		CreatedAt:          admin.CreatedAt.Unix(),
	}
}

func (s *Server) handleRegisterAdmin(w http.ResponseWriter, r *http.Request) {
	requester := mustAccount(r.Context())

	var req registerAdminRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.UniversityName = strings.TrimSpace(req.UniversityName)
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	if req.UniversityName == "" || req.Email == "" || req.PhoneNumber == "" || req.Password == "" || req.Address == "" || req.State == "" || req.Country == "" {
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

	admin := model.Admin{
		ID:                 uuid.NewString(),
		SuperAdminID:       requester.ID,
		UniversityName:     req.UniversityName,
		Email:              req.Email,
		PhoneNumber:        req.PhoneNumber,
		Address:            req.Address,
		State:              req.State,
		Country:            req.Country,
		SubscriptionStatus: model.SubscriptionActive,
	}

	created, err := s.store.CreateAdmin(r.Context(), admin, req.Password)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			writeError(w, http.StatusConflict, "admin with this email or phone number already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]adminView{"admin": adminViewOf(created)})
}

type updateAdminRequest struct {
	UniversityName *string `json:"universityName,omitempty"`
	PhoneNumber    *string `json:"phoneNumber,omitempty"`
	Address        *string `json:"address,omitempty"`
	State          *string `json:"state,omitempty"`
	Country        *string `json:"country,omitempty"`
	Password       *string `json:"password,omitempty"`
}

// handleUpdateAdmin lets the creating super admin (or root) update an admin
// profile.
func (s *Server) handleUpdateAdmin(w http.ResponseWriter, r *http.Request) {
	requester := mustAccount(r.Context())
	adminID := chi.URLParam(r, "adminId")

	admin, err := s.store.AdminByID(r.Context(), adminID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "admin not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	if admin.SuperAdminID != requester.ID && !requester.IsRoot {
		writeError(w, http.StatusForbidden, "access denied")
		return
	}

	var req updateAdminRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	update := repository.AdminUpdate{
		Address: req.Address,
		State:   req.State,
		Country: req.Country,
	}
	if req.UniversityName != nil && strings.TrimSpace(*req.UniversityName) != "" {
		name := strings.TrimSpace(*req.UniversityName)
		update.UniversityName = &name
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

	updated, err := s.store.UpdateAdmin(r.Context(), adminID, update)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			writeError(w, http.StatusConflict, "phone number already in use")
			return
		}
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}

	s.invalidateAccount(r.Context(), model.RoleAdmin, adminID)
	writeJSON(w, http.StatusOK, map[string]adminView{"admin": adminViewOf(updated)})
}

func (s *Server) handleListAdmins(w http.ResponseWriter, r *http.Request) {
	requester := mustAccount(r.Context())

	admins, err := s.store.ListAdmins(r.Context(), requester.ID, listLimit(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}

	views := make([]adminView, 0, len(admins))
	for _, admin := range admins {
		views = append(views, adminViewOf(admin))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleSuspendAdmin(w http.ResponseWriter, r *http.Request) {
	s.setAdminSuspension(w, r, true)
}

func (s *Server) handleResumeAdmin(w http.ResponseWriter, r *http.Request) {
	s.setAdminSuspension(w, r, false)
}

func (s *Server) setAdminSuspension(w http.ResponseWriter, r *http.Request, suspended bool) {
	requester := mustAccount(r.Context())
	adminID := chi.URLParam(r, "adminId")

	admin, err := s.store.AdminByID(r.Context(), adminID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "admin not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	if admin.SuperAdminID != requester.ID && !requester.IsRoot {
		writeError(w, http.StatusForbidden, "access denied")
		return
	}

	if err := s.store.SetAdminSuspended(r.Context(), adminID, suspended); err != nil {
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}

	s.invalidateAccount(r.Context(), model.RoleAdmin, adminID)
	writeJSON(w, http.StatusOK, map[string]bool{"suspended": suspended})
}

// handleUploadAvatar stores a new avatar and swaps the profile reference.
// The new object is uploaded before the old one is removed, so a failed
// upload leaves the persisted avatar untouched.
func (s *Server) handleUploadAvatar(role model.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requester := mustAccount(r.Context())

		if s.media == nil {
			writeError(w, http.StatusServiceUnavailable, "media storage not configured")
			return
		}

		if err := r.ParseMultipartForm(8 << 20); err != nil {
			writeError(w, http.StatusBadRequest, "invalid multipart form")
			return
		}
		file, header, err := r.FormFile("avatar")
		if err != nil {
			writeError(w, http.StatusBadRequest, "avatar file is required")
			return
		}
		defer file.Close()

		oldKey := ""
		switch role {
		case model.RoleSuperAdmin:
			sa, err := s.store.SuperAdminByID(r.Context(), requester.ID)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "server error")
				return
			}
			if sa.AvatarKey != nil {
				oldKey = *sa.AvatarKey
			}
		case model.RoleAdmin:
			admin, err := s.store.AdminByID(r.Context(), requester.ID)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "server error")
				return
			}
			if admin.AvatarKey != nil {
				oldKey = *admin.AvatarKey
			}
		}

		contentType := header.Header.Get("Content-Type")
		object, err := s.media.Replace(r.Context(), oldKey, header.Filename, contentType, file)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "avatar upload failed")
			return
		}

		if err := s.store.SetAvatar(r.Context(), role, requester.ID, object.URL, object.Key); err != nil {
			writeError(w, http.StatusInternalServerError, "server error")
			return
		}

		s.invalidateAccount(r.Context(), role, requester.ID)
		writeJSON(w, http.StatusOK, map[string]string{"avatar": object.URL})
	}
}
