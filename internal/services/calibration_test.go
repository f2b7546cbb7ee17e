package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pointsStubStore struct {
	mu      sync.Mutex
	sports  map[string][]UserSport
	saved   map[string]int
	saveErr error
}

func newPointsStubStore(uid string, sports ...Sport) *pointsStubStore {
	s := &pointsStubStore{sports: map[string][]UserSport{}, saved: map[string]int{}}
	for _, sp := range sports {
		s.sports[uid] = append(s.sports[uid], UserSport{Sport: sp})
	}
	return s
}

func (s *pointsStubStore) ListUserSports(_ context.Context, uid string) ([]UserSport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]UserSport(nil), s.sports[uid]...), nil
}

func (s *pointsStubStore) SaveInitialPoints(_ context.Context, uid, sportID string, points int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	for i := range s.sports[uid] {
		if s.sports[uid][i].Sport.ID == sportID {
			s.sports[uid][i].Points = &UserPoints{InitPoints: points, ActualPoints: points}
		}
	}
	s.saved[uid+"/"+sportID] = points
	return nil
}

type recordingObserver struct {
	sports  []string
	results []RatingResult
}

func (o *recordingObserver) ObserveCalibration(sport string, res RatingResult) {
	o.sports = append(o.sports, sport)
	o.results = append(o.results, res)
}

var (
	sportA = Sport{ID: "a", Name: "Tenis Singles"}
	sportB = Sport{ID: "b", Name: "Pádel"}
	sportC = Sport{ID: "c", Name: "Pickleball"}
)

// answerAll answers every offered question with the given option picker
// until the flow leaves StateAwaitingAnswer.
func answerAll(t *testing.T, f *CalibrationFlow, pick func(q Question) int) {
	t.Helper()
	for f.State() == StateAwaitingAnswer {
		batch := f.Session().Batch
		for _, q := range batch.Questions {
			_, err := f.Answer(opt(q.ID, pick(q)))
			require.NoError(t, err)
		}
	}
}

func lastOption(q Question) int { return len(q.Options) - 1 }
func firstOption(Question) int  { return 0 }

func TestCalibrationFlowAcceptSkipAccept(t *testing.T) {
	ctx := context.Background()
	store := newPointsStubStore("u1", sportA, sportB, sportC)
	obs := &recordingObserver{}
	svc := NewCalibrationService(store, DefaultBank(), nil).WithObserver(obs)

	flow, err := svc.Begin(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, StateAwaitingAnswer, flow.State())
	assert.Equal(t, sportA, flow.Session().Sport)
	assert.Equal(t, TierBase, flow.Session().Batch.Tier)

	answerAll(t, flow, lastOption)
	require.Equal(t, StateSportComplete, flow.State())
	sp, res, ok := flow.Pending()
	require.True(t, ok)
	assert.Equal(t, sportA, sp)
	assert.Equal(t, 1953, res.Rating)

	_, err = flow.Answer(pts(1, 0))
	assert.ErrorIs(t, err, ErrNoActiveSession)

	accepted, _, err := svc.Accept(ctx, "u1", flow)
	require.NoError(t, err)
	assert.Equal(t, sportA, accepted)
	assert.Equal(t, sportB, flow.Session().Sport)

	_, err = flow.Answer(pts(1, 5))
	require.NoError(t, err)
	require.NoError(t, flow.Skip())
	assert.Equal(t, sportC, flow.Session().Sport)
	assert.Empty(t, flow.Session().Answers)

	_, _, err = svc.Accept(ctx, "u1", flow)
	assert.ErrorIs(t, err, ErrNothingToAccept)

	answerAll(t, flow, firstOption)
	_, res, err = svc.Accept(ctx, "u1", flow)
	require.NoError(t, err)
	assert.Equal(t, 75, res.Rating)

	assert.Equal(t, StateAllCalibrated, flow.State())
	assert.Nil(t, flow.Session())
	assert.Equal(t, []Sport{sportB}, flow.Skipped())
	assert.Empty(t, flow.Queue())
	assert.ErrorIs(t, flow.Skip(), ErrNoActiveSession)

	assert.Equal(t, map[string]int{"u1/a": 1953, "u1/c": 75}, store.saved)
	assert.Equal(t, []string{"Tenis Singles", "Pickleball"}, obs.sports)

	queue, err := svc.Queue(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []Sport{sportB}, queue)
}

func TestCalibrationFlowEmptyQueue(t *testing.T) {
	flow := NewCalibrationFlow(DefaultBank(), nil)
	assert.Equal(t, StateAllCalibrated, flow.State())
	_, err := flow.Answer(pts(1, 0))
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestCalibrationFlowInvalidAnswerKeepsState(t *testing.T) {
	flow := NewCalibrationFlow(DefaultBank(), []Sport{sportA})
	batch, err := flow.Answer(pts(1, 4))
	var ia *InvalidAnswerError
	require.ErrorAs(t, err, &ia)
	assert.Equal(t, TierBase, batch.Tier)
	assert.Empty(t, flow.Session().Answers)
	assert.Equal(t, StateAwaitingAnswer, flow.State())
}

func TestCalibrationAcceptStoreFailureKeepsResult(t *testing.T) {
	ctx := context.Background()
	store := newPointsStubStore("u1", sportA)
	store.saveErr = errors.New("disk full")
	svc := NewCalibrationService(store, nil, nil)

	flow, err := svc.Begin(ctx, "u1")
	require.NoError(t, err)
	answerAll(t, flow, firstOption)

	_, _, err = svc.Accept(ctx, "u1", flow)
	require.Error(t, err)
	assert.Equal(t, StateSportComplete, flow.State())

	store.saveErr = nil
	_, _, err = svc.Accept(ctx, "u1", flow)
	require.NoError(t, err)
	assert.Equal(t, StateAllCalibrated, flow.State())
}

func TestCalibrateSport(t *testing.T) {
	ctx := context.Background()
	full := []AnswerInput{pts(1, 0), pts(2, 1), pts(3, 1), pts(4, 1), pts(5, 0)}

	t.Run("persists and returns remaining queue", func(t *testing.T) {
		store := newPointsStubStore("u1", sportA, sportB)
		svc := NewCalibrationService(store, DefaultBank(), nil)
		res, remaining, err := svc.CalibrateSport(ctx, "u1", "a", full)
		require.NoError(t, err)
		assert.Equal(t, 3, res.RawScore)
		assert.Equal(t, 75, res.Rating)
		assert.Equal(t, []Sport{sportB}, remaining)
		assert.Equal(t, 75, store.saved["u1/a"])

		_, _, err = svc.CalibrateSport(ctx, "u1", "a", full)
		se, ok := AsServiceError(err)
		require.True(t, ok)
		assert.Equal(t, ErrorConflict, se.Code)
	})

	t.Run("rejects unfinished questionnaire", func(t *testing.T) {
		store := newPointsStubStore("u1", sportA)
		svc := NewCalibrationService(store, DefaultBank(), nil)
		_, _, err := svc.CalibrateSport(ctx, "u1", "a", full[:4])
		assert.ErrorIs(t, err, ErrQuestionnaireIncomplete)
		assert.True(t, IsCalibrationInputError(err))
		assert.Empty(t, store.saved)
	})

	t.Run("rejects empty and invalid answers", func(t *testing.T) {
		store := newPointsStubStore("u1", sportA)
		svc := NewCalibrationService(store, DefaultBank(), nil)
		_, _, err := svc.CalibrateSport(ctx, "u1", "a", nil)
		assert.ErrorIs(t, err, ErrEmptyAnswers)
		_, _, err = svc.CalibrateSport(ctx, "u1", "a", []AnswerInput{pts(9, 1)})
		assert.True(t, IsCalibrationInputError(err))
		assert.Empty(t, store.saved)
	})

	t.Run("unknown sport", func(t *testing.T) {
		store := newPointsStubStore("u1", sportA)
		svc := NewCalibrationService(store, DefaultBank(), nil)
		_, _, err := svc.CalibrateSport(ctx, "u1", "zzz", full)
		se, ok := AsServiceError(err)
		require.True(t, ok)
		assert.Equal(t, ErrorNotFound, se.Code)
	})

	t.Run("anonymous", func(t *testing.T) {
		svc := NewCalibrationService(newPointsStubStore("u1"), DefaultBank(), nil)
		_, _, err := svc.CalibrateSport(ctx, "", "a", full)
		se, ok := AsServiceError(err)
		require.True(t, ok)
		assert.Equal(t, ErrorUnauthorized, se.Code)
	})
}

func TestCalibrateSportRejectsZeroRating(t *testing.T) {
	penalty := []Option{{Text: "Nunca", Points: -10}}
	bank := &Bank{}
	for id := 1; id <= BaseQuestionCount; id++ {
		bank.Base = append(bank.Base, Question{ID: id, Text: "q", Options: penalty})
	}
	require.NoError(t, bank.Validate())

	store := newPointsStubStore("u1", sportA)
	svc := NewCalibrationService(store, bank, nil)
	answers := make([]AnswerInput, 0, BaseQuestionCount)
	for id := 1; id <= BaseQuestionCount; id++ {
		answers = append(answers, opt(id, 0))
	}
	_, _, err := svc.CalibrateSport(context.Background(), "u1", "a", answers)
	assert.ErrorIs(t, err, ErrZeroRating)
	assert.True(t, IsCalibrationInputError(err))
	assert.Empty(t, store.saved)
}

func TestCalibrationLogsFallback(t *testing.T) {
	log, hook := test.NewNullLogger()
	store := newPointsStubStore("u1", sportA)
	svc := NewCalibrationService(store, DefaultBank(), log)

	res := RatingResult{RawScore: 0, Rating: 53, Level: LevelInfo{Level: 1, Rating: 53, Fallback: true}}
	require.NoError(t, svc.persist(context.Background(), "u1", sportA, res))

	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel && e.Data["fallback"] == true {
			warned = true
		}
	}
	assert.True(t, warned)
	assert.Equal(t, "sport calibrated", hook.LastEntry().Message)
}

func TestConcurrentCalibrationsSerializeOnStore(t *testing.T) {
	ctx := context.Background()
	store := newPointsStubStore("u1", sportA)
	svc := NewCalibrationService(store, DefaultBank(), nil)
	full := []AnswerInput{pts(1, 0), pts(2, 1), pts(3, 1), pts(4, 1), pts(5, 0)}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, _ = svc.CalibrateSport(ctx, "u1", "a", full)
		}()
	}
	wg.Wait()
	assert.Equal(t, 75, store.saved["u1/a"])
}
