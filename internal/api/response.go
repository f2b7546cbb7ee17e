package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/soaringjerry/Rally/internal/middleware"
	"github.com/soaringjerry/Rally/internal/services"
	"github.com/soaringjerry/Rally/internal/utils"
)

const maxBodyBytes = 1 << 20

type envelope struct {
	Success   bool         `json:"success"`
	Message   string       `json:"message"`
	Data      any          `json:"data"`
	Errors    []fieldError `json:"errors,omitempty"`
	Timestamp string       `json:"timestamp"`
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (rt *Router) writeJSON(w http.ResponseWriter, r *http.Request, status int, msgKey string, data any) {
	locale := middleware.LocaleFromContext(r.Context())
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{
		Success:   status < 400,
		Message:   utils.T(locale, msgKey),
		Data:      data,
		Timestamp: rt.now().UTC().Format(time.RFC3339),
	})
}

func (rt *Router) writeFailure(w http.ResponseWriter, r *http.Request, status int, msgKey string, errs []fieldError) {
	locale := middleware.LocaleFromContext(r.Context())
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{
		Success:   false,
		Message:   utils.T(locale, msgKey),
		Errors:    errs,
		Timestamp: rt.now().UTC().Format(time.RFC3339),
	})
}

var codeStatus = map[services.ErrorCode]int{
	services.ErrorInvalid:      http.StatusBadRequest,
	services.ErrorUnauthorized: http.StatusUnauthorized,
	services.ErrorForbidden:    http.StatusForbidden,
	services.ErrorNotFound:     http.StatusNotFound,
	services.ErrorConflict:     http.StatusConflict,
}

// writeError maps domain and service errors onto HTTP statuses. Unknown
// errors are logged and reported as 500 without detail.
func (rt *Router) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		ia  *services.InvalidAnswerError
		oor *services.OutOfRangeError
		ve  validator.ValidationErrors
	)
	switch {
	case errors.As(err, &ve):
		rt.writeFailure(w, r, http.StatusBadRequest, "error.validation", validationErrors(ve))
	case errors.As(err, &ia):
		rt.writeFailure(w, r, http.StatusBadRequest, "error.invalid_answer",
			[]fieldError{{Field: fmt.Sprintf("answers.%d", ia.QuestionID), Message: ia.Reason}})
	case errors.As(err, &oor):
		rt.writeFailure(w, r, http.StatusBadRequest, "error.out_of_range",
			[]fieldError{{Field: "points", Message: oor.Error()}})
	case errors.Is(err, services.ErrEmptyAnswers):
		rt.writeFailure(w, r, http.StatusBadRequest, "error.invalid",
			[]fieldError{{Field: "answers", Message: err.Error()}})
	case errors.Is(err, services.ErrQuestionnaireIncomplete):
		rt.writeFailure(w, r, http.StatusUnprocessableEntity, "error.incomplete",
			[]fieldError{{Field: "answers", Message: err.Error()}})
	case errors.Is(err, services.ErrZeroRating):
		rt.writeFailure(w, r, http.StatusUnprocessableEntity, "error.zero_rating",
			[]fieldError{{Field: "answers", Message: err.Error()}})
	default:
		if se, ok := services.AsServiceError(err); ok {
			status, known := codeStatus[se.Code]
			if !known {
				status = http.StatusBadRequest
			}
			rt.writeFailure(w, r, status, "error."+string(se.Code), []fieldError{{Field: "", Message: se.Message}})
			return
		}
		rt.log.WithError(err).WithField("path", r.URL.Path).Error("request failed")
		rt.writeFailure(w, r, http.StatusInternalServerError, "error.internal", nil)
	}
}

func validationErrors(ve validator.ValidationErrors) []fieldError {
	out := make([]fieldError, 0, len(ve))
	for _, fe := range ve {
		field := fe.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		msg := "failed on '" + fe.Tag() + "'"
		if fe.Param() != "" {
			msg += " " + fe.Param()
		}
		out = append(out, fieldError{Field: field, Message: msg})
	}
	return out
}

// decode reads a JSON body into dst and validates it.
func (rt *Router) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return services.NewInvalidError("request body required")
		}
		return services.NewInvalidError("malformed JSON: " + err.Error())
	}
	return rt.validate.Struct(dst)
}
