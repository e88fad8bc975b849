package session

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"ShriHariStore/pkg/kit"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	maxBodyBytes = 1 << 20

	loginLimitPerMin = 5
	limitWindow      = 60 * time.Second
)

type Server struct {
	Log  *zap.Logger
	Gate *Gate
	JWT  *TokenMaker
}

func (s *Server) Register(r chi.Router) {
	loginLimiter := kit.NewIPRateLimiter(loginLimitPerMin, int(limitWindow.Seconds()))

	r.With(loginLimiter.Middleware).Post("/admin/login", s.handleLogin)
	r.Post("/admin/logout", s.handleLogout)
	r.Get("/admin/session", s.handleSession)
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResp struct {
	AccessToken string `json:"access_token"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req loginReq
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		kit.WriteError(w, r, http.StatusBadRequest, "bad json", map[string]any{"cause": err.Error()})
		return
	}

	if strings.TrimSpace(req.Username) == "" || strings.TrimSpace(req.Password) == "" {
		kit.WriteError(w, r, http.StatusBadRequest, "username/password required", nil)
		return
	}

	if err := s.Gate.Login(r.Context(), req.Username, req.Password); err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			kit.WriteError(w, r, http.StatusUnauthorized, "invalid credentials", nil)
			return
		}
		s.Log.Error("login failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	tok, err := s.JWT.New(req.Username, s.Gate.Window())
	if err != nil {
		s.Log.Error("token issue", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}

	kit.WriteJSON(w, http.StatusOK, loginResp{AccessToken: tok})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.Gate.Logout(r.Context()); err != nil {
		s.Log.Error("logout failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSession mirrors the app-load session probe: it reports liveness and,
// through the gate's side effect, clears an expired session.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	ok, err := s.Gate.Check(r.Context())
	if err != nil {
		s.Log.Error("session check failed", zap.Error(err))
		kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
		return
	}
	kit.WriteJSON(w, http.StatusOK, map[string]bool{"authenticated": ok})
}

// RequireAdmin admits requests carrying a valid bearer token backed by a live
// stored session. Logout or expiry invalidates outstanding tokens.
func RequireAdmin(jwt *TokenMaker, gate *Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := r.Header.Get("Authorization")
			if !strings.HasPrefix(authz, "Bearer ") {
				kit.WriteError(w, r, http.StatusUnauthorized, "missing token", nil)
				return
			}

			if _, err := jwt.Parse(strings.TrimPrefix(authz, "Bearer ")); err != nil {
				kit.WriteError(w, r, http.StatusUnauthorized, "invalid token", nil)
				return
			}

			live, err := gate.Check(r.Context())
			if err != nil {
				kit.WriteError(w, r, http.StatusInternalServerError, "server error", nil)
				return
			}
			if !live {
				kit.WriteError(w, r, http.StatusUnauthorized, "session expired", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
