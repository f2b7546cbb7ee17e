package api

import (
	"net/http"
	"strconv"

	"github.com/soaringjerry/Rally/internal/services"
)

type answersRequest struct {
	Answers []services.AnswerInput `json:"answers" validate:"dive"`
}

type levelInfoView struct {
	RangoMin    int    `json:"rangoMin"`
	RangoMax    int    `json:"rangoMax"`
	Descripcion string `json:"descripcion"`
}

type ratingView struct {
	InitPoints int           `json:"initPoints"`
	Nivel      int           `json:"nivel"`
	NivelInfo  levelInfoView `json:"nivelInfo"`
	RawScore   int           `json:"puntajeTotal"`
	Fallback   bool          `json:"fallback,omitempty"`
}

func newRatingView(res services.RatingResult) ratingView {
	return ratingView{
		InitPoints: res.Rating,
		Nivel:      res.Level.Level,
		NivelInfo: levelInfoView{
			RangoMin:    res.Level.Min,
			RangoMax:    res.Level.Max,
			Descripcion: res.Level.Description,
		},
		RawScore: res.RawScore,
		Fallback: res.Level.Fallback,
	}
}

// GET /api/questionnaire/start
func (rt *Router) handleQuestionnaireStart(w http.ResponseWriter, r *http.Request) {
	rt.writeJSON(w, r, http.StatusOK, "questionnaire.next", rt.bank.Start())
}

// POST /api/questionnaire/next {answers}
func (rt *Router) handleQuestionnaireNext(w http.ResponseWriter, r *http.Request) {
	var req answersRequest
	if err := rt.decode(w, r, &req); err != nil {
		rt.writeError(w, r, err)
		return
	}
	history, err := rt.bank.Resolve(req.Answers)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	batch := rt.bank.NextBatch(history)
	msg := "questionnaire.next"
	if batch.Finished() {
		msg = "questionnaire.done"
	}
	rt.writeJSON(w, r, http.StatusOK, msg, batch)
}

// POST /api/questionnaire/calculate {answers}
func (rt *Router) handleQuestionnaireCalculate(w http.ResponseWriter, r *http.Request) {
	var req answersRequest
	if err := rt.decode(w, r, &req); err != nil {
		rt.writeError(w, r, err)
		return
	}
	res, err := rt.bank.Calculate(req.Answers)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	rt.writeJSON(w, r, http.StatusOK, "questionnaire.result", newRatingView(res))
}

// GET /api/levels
func (rt *Router) handleLevels(w http.ResponseWriter, r *http.Request) {
	rt.writeJSON(w, r, http.StatusOK, "ok", services.Levels())
}

// GET /api/levels/{points}
func (rt *Router) handleLevel(w http.ResponseWriter, r *http.Request) {
	points, err := strconv.Atoi(r.PathValue("points"))
	if err != nil {
		rt.writeError(w, r, services.NewInvalidError("points must be an integer"))
		return
	}
	info, err := services.LevelFor(points)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	rt.writeJSON(w, r, http.StatusOK, "ok", info)
}
