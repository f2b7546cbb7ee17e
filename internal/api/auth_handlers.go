package api

import (
	"net/http"

	"github.com/soaringjerry/Rally/internal/logger"
	"github.com/soaringjerry/Rally/internal/middleware"
)

type registerRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// POST /api/auth/register
func (rt *Router) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := rt.decode(w, r, &req); err != nil {
		rt.writeError(w, r, err)
		return
	}
	res, err := rt.auth.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	logger.WithUserID(rt.log, res.User.ID).Info("user registered")
	rt.writeJSON(w, r, http.StatusCreated, "auth.registered", res)
}

// POST /api/auth/login
func (rt *Router) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := rt.decode(w, r, &req); err != nil {
		rt.writeError(w, r, err)
		return
	}
	res, err := rt.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	logger.WithUserID(rt.log, res.User.ID).Debug("user logged in")
	rt.writeJSON(w, r, http.StatusOK, "auth.logged_in", res)
}

// GET /api/users/me
func (rt *Router) handleMe(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserIDFromContext(r.Context())
	u, err := rt.auth.Me(r.Context(), uid)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	sports, err := rt.sports.UserSports(r.Context(), uid)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	rt.writeJSON(w, r, http.StatusOK, "ok", map[string]any{"user": u, "sports": sports})
}
