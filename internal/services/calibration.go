package services

type FlowState string

const (
	StateAwaitingAnswer FlowState = "awaiting_answer"
	StateSportComplete  FlowState = "sport_complete"
	StateAllCalibrated  FlowState = "all_calibrated"
)

// Session is the questionnaire state of one user in one sport. It lives only
// in memory and is discarded once its rating is accepted or skipped.
type Session struct {
	Sport   Sport          `json:"sport"`
	Answers []AnswerRecord `json:"answers"`
	Batch   Batch          `json:"batch"`
}

// CalibrationFlow walks a queue of uncalibrated sports one questionnaire at a
// time. All state is held in the value; it performs no I/O, so persisting an
// accepted rating is the caller's job (see CalibrationService.Accept).
// A flow is not safe for concurrent use.
type CalibrationFlow struct {
	bank    *Bank
	queue   []Sport
	skipped []Sport
	session *Session
	pending *RatingResult
	state   FlowState
}

// NewCalibrationFlow starts a flow over sports in order.
func NewCalibrationFlow(bank *Bank, sports []Sport) *CalibrationFlow {
	f := &CalibrationFlow{bank: bank, queue: append([]Sport(nil), sports...)}
	f.advance()
	return f
}

func (f *CalibrationFlow) advance() {
	f.pending = nil
	if len(f.queue) == 0 {
		f.session = nil
		f.state = StateAllCalibrated
		return
	}
	f.session = &Session{Sport: f.queue[0], Answers: []AnswerRecord{}, Batch: f.bank.Start()}
	f.state = StateAwaitingAnswer
}

func (f *CalibrationFlow) State() FlowState { return f.state }

// Session returns a copy of the active session, or nil when all sports are done.
func (f *CalibrationFlow) Session() *Session {
	if f.session == nil {
		return nil
	}
	cp := *f.session
	cp.Answers = append([]AnswerRecord(nil), f.session.Answers...)
	return &cp
}

// Queue returns the sports still waiting, the current one first.
func (f *CalibrationFlow) Queue() []Sport { return append([]Sport(nil), f.queue...) }

// Skipped returns the sports abandoned in this flow. They stay uncalibrated.
func (f *CalibrationFlow) Skipped() []Sport { return append([]Sport(nil), f.skipped...) }

// Pending returns the computed result of the current sport once its
// questionnaire finished.
func (f *CalibrationFlow) Pending() (Sport, RatingResult, bool) {
	if f.state != StateSportComplete || f.pending == nil {
		return Sport{}, RatingResult{}, false
	}
	return f.session.Sport, *f.pending, true
}

// Answer records one answer for the current sport and returns the next batch.
// When the batch is finished the flow moves to StateSportComplete.
func (f *CalibrationFlow) Answer(in AnswerInput) (Batch, error) {
	if f.state != StateAwaitingAnswer {
		return Batch{}, ErrNoActiveSession
	}
	rec, err := f.bank.Accept(f.session.Answers, in)
	if err != nil {
		return f.session.Batch, err
	}
	f.session.Answers = append(f.session.Answers, rec)
	f.session.Batch = f.bank.NextBatch(f.session.Answers)
	if f.session.Batch.Finished() {
		res, err := RateScore(TotalRawScore(f.session.Answers))
		if err != nil {
			return f.session.Batch, err
		}
		f.pending = &res
		f.state = StateSportComplete
	}
	return f.session.Batch, nil
}

// Skip abandons the current sport. Its answers are discarded.
func (f *CalibrationFlow) Skip() error {
	if f.state == StateAllCalibrated {
		return ErrNoActiveSession
	}
	f.skipped = append(f.skipped, f.queue[0])
	f.queue = f.queue[1:]
	f.advance()
	return nil
}

// complete dequeues the current sport after its rating was persisted.
func (f *CalibrationFlow) complete() error {
	if f.state != StateSportComplete {
		return ErrNothingToAccept
	}
	f.queue = f.queue[1:]
	f.advance()
	return nil
}
