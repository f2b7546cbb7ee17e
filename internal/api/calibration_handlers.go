package api

import (
	"net/http"

	"github.com/soaringjerry/Rally/internal/middleware"
	"github.com/soaringjerry/Rally/internal/services"
)

type calibrationQueueView struct {
	Pending []services.Sport `json:"pending"`
	Batch   *services.Batch  `json:"batch,omitempty"`
}

// GET /api/calibration lists sports without initial points and, when there
// is at least one, the opening questionnaire batch.
func (rt *Router) handleCalibrationQueue(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserIDFromContext(r.Context())
	queue, err := rt.calibration.Queue(r.Context(), uid)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	view := calibrationQueueView{Pending: queue}
	if len(queue) > 0 {
		start := rt.calibration.Bank().Start()
		view.Batch = &start
	}
	rt.writeJSON(w, r, http.StatusOK, "calibration.pending", view)
}

// POST /api/calibration/{sportId} {answers}
func (rt *Router) handleCalibrateSport(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserIDFromContext(r.Context())
	var req answersRequest
	if err := rt.decode(w, r, &req); err != nil {
		rt.writeError(w, r, err)
		return
	}
	res, remaining, err := rt.calibration.CalibrateSport(r.Context(), uid, r.PathValue("sportId"), req.Answers)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	rt.writeJSON(w, r, http.StatusOK, "calibration.saved", map[string]any{
		"result":  newRatingView(*res),
		"pending": remaining,
	})
}
