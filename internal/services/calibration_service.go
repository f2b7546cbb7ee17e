package services

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
)

// CalibrationStore is the points collaborator. SaveInitialPoints must be an
// upsert keyed by (user, sport) that also resets actual points to points;
// concurrent saves for the same pair are serialized by the store.
type CalibrationStore interface {
	ListUserSports(ctx context.Context, userID string) ([]UserSport, error)
	SaveInitialPoints(ctx context.Context, userID, sportID string, points int) error
}

// CalibrationObserver is notified of every persisted calibration.
type CalibrationObserver interface {
	ObserveCalibration(sport string, result RatingResult)
}

type CalibrationService struct {
	store    CalibrationStore
	bank     *Bank
	log      logrus.FieldLogger
	observer CalibrationObserver
}

func NewCalibrationService(store CalibrationStore, bank *Bank, log logrus.FieldLogger) *CalibrationService {
	if bank == nil {
		bank = DefaultBank()
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &CalibrationService{store: store, bank: bank, log: log}
}

// WithObserver attaches an observer, e.g. the metrics recorder.
func (s *CalibrationService) WithObserver(o CalibrationObserver) *CalibrationService {
	s.observer = o
	return s
}

func (s *CalibrationService) Bank() *Bank { return s.bank }

// Queue lists the user's sports that still lack a positive initial point value.
func (s *CalibrationService) Queue(ctx context.Context, userID string) ([]Sport, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, NewUnauthorizedError("unauthorized")
	}
	sports, err := s.store.ListUserSports(ctx, userID)
	if err != nil {
		return nil, err
	}
	queue := make([]Sport, 0, len(sports))
	for _, us := range sports {
		if !us.Calibrated() {
			queue = append(queue, us.Sport)
		}
	}
	return queue, nil
}

// Begin starts a calibration flow over the user's uncalibrated sports.
func (s *CalibrationService) Begin(ctx context.Context, userID string) (*CalibrationFlow, error) {
	queue, err := s.Queue(ctx, userID)
	if err != nil {
		return nil, err
	}
	return NewCalibrationFlow(s.bank, queue), nil
}

// Accept persists the flow's completed rating as the sport's initial points and
// moves the flow to the next sport.
func (s *CalibrationService) Accept(ctx context.Context, userID string, flow *CalibrationFlow) (Sport, RatingResult, error) {
	sport, res, ok := flow.Pending()
	if !ok {
		return Sport{}, RatingResult{}, ErrNothingToAccept
	}
	if err := s.persist(ctx, userID, sport, res); err != nil {
		return Sport{}, RatingResult{}, err
	}
	if err := flow.complete(); err != nil {
		return Sport{}, RatingResult{}, err
	}
	return sport, res, nil
}

// CalibrateSport is the stateless form of a flow step: it validates a full
// answer history for one sport, requires the questionnaire to be finished,
// persists the rating and returns the sports still to calibrate.
func (s *CalibrationService) CalibrateSport(ctx context.Context, userID, sportID string, inputs []AnswerInput) (*RatingResult, []Sport, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, nil, NewUnauthorizedError("unauthorized")
	}
	owned, err := s.store.ListUserSports(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	var sport *Sport
	var queue []Sport
	for i := range owned {
		us := owned[i]
		if us.Sport.ID == sportID {
			if us.Calibrated() {
				return nil, nil, NewConflictError("sport already calibrated")
			}
			sport = &owned[i].Sport
		}
		if !us.Calibrated() {
			queue = append(queue, us.Sport)
		}
	}
	if sport == nil {
		return nil, nil, NewNotFoundError("sport not in user profile")
	}
	if len(inputs) == 0 {
		return nil, nil, ErrEmptyAnswers
	}
	history, err := s.bank.Resolve(inputs)
	if err != nil {
		return nil, nil, err
	}
	if !s.bank.NextBatch(history).Finished() {
		return nil, nil, ErrQuestionnaireIncomplete
	}
	res, err := RateScore(TotalRawScore(history))
	if err != nil {
		return nil, nil, err
	}
	if err := s.persist(ctx, userID, *sport, res); err != nil {
		return nil, nil, err
	}
	remaining := make([]Sport, 0, len(queue))
	for _, sp := range queue {
		if sp.ID != sport.ID {
			remaining = append(remaining, sp)
		}
	}
	return &res, remaining, nil
}

func (s *CalibrationService) persist(ctx context.Context, userID string, sport Sport, res RatingResult) error {
	entry := s.log.WithFields(logrus.Fields{
		"user_id":   userID,
		"sport_id":  sport.ID,
		"raw_score": res.RawScore,
		"rating":    res.Rating,
		"level":     res.Level.Level,
	})
	if res.Rating < MinManualPoints {
		entry.Warn("rating below storable minimum")
		return ErrZeroRating
	}
	if res.Level.Fallback {
		entry.WithField("fallback", true).Warn("rating matched no level band, assigned level 1")
	}
	if err := s.store.SaveInitialPoints(ctx, userID, sport.ID, res.Rating); err != nil {
		entry.WithError(err).Error("save initial points failed")
		return err
	}
	entry.Info("sport calibrated")
	if s.observer != nil {
		s.observer.ObserveCalibration(sport.Name, res)
	}
	return nil
}

// IsCalibrationInputError reports whether err is caused by the submitted
// answers rather than by the store.
func IsCalibrationInputError(err error) bool {
	var ia *InvalidAnswerError
	var oor *OutOfRangeError
	return errors.As(err, &ia) || errors.As(err, &oor) ||
		errors.Is(err, ErrEmptyAnswers) || errors.Is(err, ErrQuestionnaireIncomplete) ||
		errors.Is(err, ErrZeroRating)
}
