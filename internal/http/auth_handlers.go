package http

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/adityaghosh149/digievent/internal/auth"
	"github.com/adityaghosh149/digievent/internal/crypto"
	"github.com/adityaghosh149/digievent/internal/model"
	"github.com/adityaghosh149/digievent/internal/repository"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userView struct {
	ID          string     `json:"id"`
	Role        model.Role `json:"role"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	PhoneNumber string     `json:"phoneNumber"`
	IsRoot      bool       `json:"isRoot,omitempty"`
}

type authResponse struct {
	User         userView `json:"user"`
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
}

func viewOf(account model.Account) userView {
	return userView{
		ID:          account.ID,
		Role:        account.Role,
		Email:       account.Email,
		Name:        account.Name,
		PhoneNumber: account.PhoneNumber,
		IsRoot:      account.IsRoot,
	}
}

// handleLogin verifies credentials against one principal collection. The
// failure message is identical for unknown email, deleted principal and wrong
// password so callers cannot enumerate accounts.
func (s *Server) handleLogin(role model.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		req.Email = strings.TrimSpace(strings.ToLower(req.Email))
		if req.Email == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "email and password are required")
			return
		}

		account, err := s.store.AccountByEmail(r.Context(), role, req.Email)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				writeError(w, http.StatusUnauthorized, "invalid credentials")
				return
			}
			writeError(w, http.StatusInternalServerError, "server error")
			return
		}
		if account.IsDeleted || crypto.CheckPassword(account.PasswordHash, req.Password) != nil {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}

		accessToken, refreshToken, err := s.issueTokens(r.Context(), account)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "token error")
			return
		}

		s.setAuthCookies(w, accessToken, refreshToken)
		writeJSON(w, http.StatusOK, authResponse{
			User:         viewOf(account),
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
		})
	}
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// handleRefresh rotates the session: the incoming refresh token must match
// the stored one byte for byte, and a successful rotation overwrites it, so a
// superseded token fails on its next use.
func (s *Server) handleRefresh(role model.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		incoming := ""
		if cookie, err := r.Cookie(refreshCookie); err == nil && cookie.Value != "" {
			incoming = cookie.Value
		} else {
			var req refreshRequest
			if err := decodeJSON(r, &req); err == nil {
				incoming = req.RefreshToken
			}
		}
		if incoming == "" {
			writeError(w, http.StatusUnauthorized, "refresh token missing")
			return
		}

		claims, err := auth.ParseRefreshToken(s.cfg.RefreshTokenSecret, incoming)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid refresh token")
			return
		}

		stored, err := s.store.StoredRefreshToken(r.Context(), role, claims.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				writeError(w, http.StatusUnauthorized, "invalid refresh token")
				return
			}
			writeError(w, http.StatusInternalServerError, "server error")
			return
		}
		if stored == "" || stored != incoming {
			writeError(w, http.StatusUnauthorized, "refresh token expired or already used")
			return
		}

		account, err := s.store.AccountByID(r.Context(), role, claims.UserID)
		if err != nil || account.IsDeleted {
			writeError(w, http.StatusUnauthorized, "invalid refresh token")
			return
		}

		accessToken, refreshToken, err := s.issueTokens(r.Context(), account)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "token error")
			return
		}

		s.setAuthCookies(w, accessToken, refreshToken)
		writeJSON(w, http.StatusOK, authResponse{
			User:         viewOf(account),
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
		})
	}
}

// handleLogout clears the stored refresh token and both cookies. Logging out
// twice is not an error.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	account := mustAccount(r.Context())

	_ = s.store.ClearRefreshToken(r.Context(), account.Role, account.ID)
	s.invalidateAccount(r.Context(), account.Role, account.ID)

	s.clearAuthCookies(w)
	writeJSON(w, http.StatusOK, map[string]string{})
}

// issueTokens creates a fresh pair and persists the refresh token, replacing
// whatever was stored. Concurrent logins race at the store; the last writer
// wins and earlier tokens fail their next rotation.
func (s *Server) issueTokens(ctx context.Context, account model.Account) (string, string, error) {
	accessToken, err := auth.NewAccessToken(s.cfg.AccessTokenSecret, s.cfg.JWTIssuer, s.cfg.AccessTokenTTL, auth.AccessClaims{
		UserID:      account.ID,
		Role:        account.Role,
		Email:       account.Email,
		PhoneNumber: account.PhoneNumber,
	})
	if err != nil {
		return "", "", err
	}

	refreshToken, err := auth.NewRefreshToken(s.cfg.RefreshTokenSecret, s.cfg.JWTIssuer, s.cfg.RefreshTokenTTL, account.ID)
	if err != nil {
		return "", "", err
	}

	if err := s.store.SetRefreshToken(ctx, account.Role, account.ID, refreshToken); err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

func (s *Server) setAuthCookies(w http.ResponseWriter, accessToken, refreshToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     accessCookie,
		Value:    accessToken,
		Path:     "/",
		Expires:  time.Now().Add(s.cfg.AccessTokenTTL),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookie,
		Value:    refreshToken,
		Path:     "/",
		Expires:  time.Now().Add(s.cfg.RefreshTokenTTL),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}

func (s *Server) clearAuthCookies(w http.ResponseWriter) {
	for _, name := range []string{accessCookie, refreshCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			Expires:  time.Unix(0, 0),
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   true,
			SameSite: http.SameSiteStrictMode,
		})
	}
}
