package api

import (
	"net/http"

	"github.com/soaringjerry/Rally/internal/middleware"
	"github.com/soaringjerry/Rally/internal/services"
)

type addSportRequest struct {
	SportID string `json:"sportId" validate:"required"`
}

type replaceSportsRequest struct {
	SportIDs []string `json:"sportIds" validate:"required,dive,required"`
}

type pointsRequest struct {
	InitPoints int `json:"initPoints" validate:"min=1,max=10000"`
}

// GET /api/sports
func (rt *Router) handleSports(w http.ResponseWriter, r *http.Request) {
	list, err := rt.sports.ListSports(r.Context())
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	rt.writeJSON(w, r, http.StatusOK, "ok", list)
}

// GET /api/sports/user
func (rt *Router) handleUserSports(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserIDFromContext(r.Context())
	list, err := rt.sports.UserSports(r.Context(), uid)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	rt.writeJSON(w, r, http.StatusOK, "ok", list)
}

// POST /api/sports/user {sportId}
func (rt *Router) handleAddUserSport(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserIDFromContext(r.Context())
	var req addSportRequest
	if err := rt.decode(w, r, &req); err != nil {
		rt.writeError(w, r, err)
		return
	}
	if err := rt.sports.AddSport(r.Context(), uid, req.SportID); err != nil {
		rt.writeError(w, r, err)
		return
	}
	list, err := rt.sports.UserSports(r.Context(), uid)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	rt.writeJSON(w, r, http.StatusCreated, "created", list)
}

// PUT /api/sports/user {sportIds}
func (rt *Router) handleReplaceUserSports(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserIDFromContext(r.Context())
	var req replaceSportsRequest
	if err := rt.decode(w, r, &req); err != nil {
		rt.writeError(w, r, err)
		return
	}
	list, err := rt.sports.ReplaceSports(r.Context(), uid, req.SportIDs)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	rt.writeJSON(w, r, http.StatusOK, "ok", list)
}

// DELETE /api/sports/user/{sportId}
func (rt *Router) handleRemoveUserSport(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserIDFromContext(r.Context())
	if err := rt.sports.RemoveSport(r.Context(), uid, r.PathValue("sportId")); err != nil {
		rt.writeError(w, r, err)
		return
	}
	rt.writeJSON(w, r, http.StatusOK, "ok", nil)
}

// PUT /api/sports/user/{sportId}/points {initPoints}
func (rt *Router) handleSetPoints(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserIDFromContext(r.Context())
	var req pointsRequest
	if err := rt.decode(w, r, &req); err != nil {
		rt.writeError(w, r, err)
		return
	}
	sportID := r.PathValue("sportId")
	if err := rt.sports.SetInitPoints(r.Context(), uid, sportID, req.InitPoints); err != nil {
		rt.writeError(w, r, err)
		return
	}
	rt.writeJSON(w, r, http.StatusOK, "calibration.saved", map[string]any{"sportId": sportID, "initPoints": req.InitPoints})
}

// GET /api/sports/user/export
func (rt *Router) handleExportPoints(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserIDFromContext(r.Context())
	list, err := rt.sports.UserSports(r.Context(), uid)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	b, err := services.ExportPointsCSV(list)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=points.csv")
	_, _ = w.Write(b)
}
