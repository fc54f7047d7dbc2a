package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/adityaghosh149/digievent/internal/auth"
	"github.com/adityaghosh149/digievent/internal/model"
	"github.com/adityaghosh149/digievent/internal/repository"
)

const (
	accessCookie  = "accessToken"
	refreshCookie = "refreshToken"
)

type accountKey struct{}

func accountFromContext(ctx context.Context) *model.Account {
	value := ctx.Value(accountKey{})
	account, _ := value.(*model.Account)
	return account
}

// tokenFromRequest reads the named cookie first and falls back to the
// Authorization header. The cookie wins when both are present.
func tokenFromRequest(r *http.Request, cookieName string) string {
	if cookie, err := r.Cookie(cookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return bearerToken(r.Header.Get("Authorization"))
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// authenticate resolves the access token to a live principal and attaches it
// to the request context. Soft-deleted principals fail here regardless of
// token validity.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := tokenFromRequest(r, accessCookie)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "access token missing")
			return
		}

		claims, err := auth.ParseAccessToken(s.cfg.AccessTokenSecret, token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		role, err := model.ParseRole(string(claims.Role))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid role")
			return
		}

		account, err := s.lookupAccount(r.Context(), role, claims.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				writeError(w, http.StatusUnauthorized, "user not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "server error")
			return
		}
		if account.IsDeleted {
			writeError(w, http.StatusUnauthorized, "user not found")
			return
		}

		ctx := context.WithValue(r.Context(), accountKey{}, &account)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// mustAccount returns the authenticated principal. Authorization gates run
// strictly after authenticate; reaching one without an account is a routing
// bug, not a request error.
func mustAccount(ctx context.Context) *model.Account {
	account := accountFromContext(ctx)
	if account == nil {
		panic("authorize invoked without authenticated principal")
	}
	return account
}

func (s *Server) requireSuperAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if mustAccount(r.Context()).Role != model.RoleSuperAdmin {
			writeError(w, http.StatusForbidden, "access denied: super admin only")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireRootSuperAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		account := mustAccount(r.Context())
		if account.Role != model.RoleSuperAdmin || !account.IsRoot || account.IsDeleted {
			writeError(w, http.StatusForbidden, "access denied: root super admin only")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if mustAccount(r.Context()).Role != model.RoleAdmin {
			writeError(w, http.StatusForbidden, "access denied: admin only")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireOrganizer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if mustAccount(r.Context()).Role != model.RoleOrganizer {
			writeError(w, http.StatusForbidden, "access denied: organizer only")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// lookupAccount consults the optional redis cache before the store. Cached
// entries are short-lived and dropped on any mutation of the principal.
func (s *Server) lookupAccount(ctx context.Context, role model.Role, id string) (model.Account, error) {
	if s.redis == nil {
		return s.store.AccountByID(ctx, role, id)
	}

	key := accountCacheKey(role, id)
	if raw, err := s.redis.Get(ctx, key).Result(); err == nil {
		var account model.Account
		if err := json.Unmarshal([]byte(raw), &account); err == nil {
			return account, nil
		}
	}

	account, err := s.store.AccountByID(ctx, role, id)
	if err != nil {
		return model.Account{}, err
	}
	if raw, err := json.Marshal(account); err == nil {
		_ = s.redis.Set(ctx, key, raw, s.cfg.PrincipalCacheTTL).Err()
	}
	return account, nil
}

func (s *Server) invalidateAccount(ctx context.Context, role model.Role, id string) {
	if s.redis == nil {
		return
	}
	_ = s.redis.Del(ctx, accountCacheKey(role, id)).Err()
}

func accountCacheKey(role model.Role, id string) string {
	return "principal:" + string(role) + ":" + id
}
