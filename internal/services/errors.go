package services

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	ErrorInvalid      ErrorCode = "invalid"
	ErrorForbidden    ErrorCode = "forbidden"
	ErrorNotFound     ErrorCode = "not_found"
	ErrorConflict     ErrorCode = "conflict"
	ErrorUnauthorized ErrorCode = "unauthorized"
)

type ServiceError struct {
	Code    ErrorCode
	Message string
}

func (e *ServiceError) Error() string { return e.Message }

func NewInvalidError(msg string) error   { return &ServiceError{Code: ErrorInvalid, Message: msg} }
func NewForbiddenError(msg string) error { return &ServiceError{Code: ErrorForbidden, Message: msg} }
func NewNotFoundError(msg string) error  { return &ServiceError{Code: ErrorNotFound, Message: msg} }
func NewConflictError(msg string) error  { return &ServiceError{Code: ErrorConflict, Message: msg} }
func NewUnauthorizedError(msg string) error {
	return &ServiceError{Code: ErrorUnauthorized, Message: msg}
}

func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

var (
	// ErrEmptyAnswers is returned when a rating is requested for an empty answer set.
	ErrEmptyAnswers = errors.New("at least one answer is required")
	// ErrQuestionnaireIncomplete is returned when a sport is calibrated before the
	// selector reached the finished tier.
	ErrQuestionnaireIncomplete = errors.New("questionnaire is not finished")
	// ErrZeroRating is returned when a finished questionnaire rates 0, which
	// cannot be stored as initial points.
	ErrZeroRating = errors.New("rating 0 cannot be stored as initial points")
	// ErrNoActiveSession is returned by flow operations that need a sport in progress.
	ErrNoActiveSession = errors.New("no active calibration session")
	// ErrNothingToAccept is returned when Accept is called before a sport completed.
	ErrNothingToAccept = errors.New("no completed calibration to accept")
)

// InvalidAnswerError rejects an answer that would corrupt the raw score:
// a question that is not currently offered, or an option outside the question.
type InvalidAnswerError struct {
	QuestionID int
	Reason     string
}

func (e *InvalidAnswerError) Error() string {
	return fmt.Sprintf("invalid answer for question %d: %s", e.QuestionID, e.Reason)
}

// OutOfRangeError is returned by LevelFor for ratings outside [0, MaxRating].
type OutOfRangeError struct {
	Rating int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("rating %d outside [0, %d]", e.Rating, MaxRating)
}
