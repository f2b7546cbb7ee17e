package services

// Batch is the next set of questions to present. Questions is empty when
// Tier is TierFinished.
type Batch struct {
	Tier      Tier       `json:"tipo"`
	Questions []Question `json:"preguntas"`
}

// Finished reports whether the questionnaire has no further questions.
func (b Batch) Finished() bool { return b.Tier == TierFinished }

func (b Batch) find(id int) (Question, bool) {
	for _, q := range b.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// Start returns the opening batch of an empty session.
func (b *Bank) Start() Batch {
	return b.NextBatch(nil)
}

// NextBatch decides the active tier from an answer history.
//
// The base tier is offered until all five base questions are answered. Extra
// predicates are then evaluated once against the base point values and the
// base total; the selected extras are offered until answered. Advanced
// predicates are evaluated against the base point values and the total after
// the extra tier, whether or not any extra fired. Answered questions are never
// offered again, so every call with the same history returns the same batch.
//
// The history must be valid (see Resolve); answers to unknown questions are
// ignored.
func (b *Bank) NextBatch(history []AnswerRecord) Batch {
	answered := make(map[int]int, len(history))
	for _, a := range history {
		answered[a.QuestionID] = a.Points
	}

	base := make([]int, 0, len(b.Base))
	var remaining []Question
	for _, q := range b.Base {
		pts, ok := answered[q.ID]
		if !ok {
			remaining = append(remaining, q)
			continue
		}
		base = append(base, pts)
	}
	if len(remaining) > 0 {
		return Batch{Tier: TierBase, Questions: remaining}
	}

	total := 0
	for _, p := range base {
		total += p
	}

	extras := selectQuestions(b.Extra, base, total)
	if pending := unanswered(extras, answered); len(pending) > 0 {
		return Batch{Tier: TierExtra, Questions: pending}
	}
	for _, q := range extras {
		total += answered[q.ID]
	}

	advanced := selectQuestions(b.Advanced, base, total)
	if pending := unanswered(advanced, answered); len(pending) > 0 {
		return Batch{Tier: TierAdvanced, Questions: pending}
	}
	return Batch{Tier: TierFinished, Questions: []Question{}}
}

func selectQuestions(qs []Question, base []int, total int) []Question {
	var out []Question
	for _, q := range qs {
		if q.When != nil && q.When.Eval(base, total) {
			out = append(out, q)
		}
	}
	return out
}

func unanswered(qs []Question, answered map[int]int) []Question {
	var out []Question
	for _, q := range qs {
		if _, ok := answered[q.ID]; !ok {
			out = append(out, q)
		}
	}
	return out
}

// Accept validates one answer against the batch offered for history and
// returns the record to append.
func (b *Bank) Accept(history []AnswerRecord, in AnswerInput) (AnswerRecord, error) {
	offered := b.NextBatch(history)
	if offered.Finished() {
		return AnswerRecord{}, &InvalidAnswerError{QuestionID: in.QuestionID, Reason: "questionnaire already finished"}
	}
	q, ok := offered.find(in.QuestionID)
	if !ok {
		if _, _, known := b.Question(in.QuestionID); !known {
			return AnswerRecord{}, &InvalidAnswerError{QuestionID: in.QuestionID, Reason: "unknown question"}
		}
		return AnswerRecord{}, &InvalidAnswerError{QuestionID: in.QuestionID, Reason: "question not offered"}
	}
	switch {
	case in.Option != nil:
		idx := *in.Option
		if idx < 0 || idx >= len(q.Options) {
			return AnswerRecord{}, &InvalidAnswerError{QuestionID: q.ID, Reason: "option out of range"}
		}
		opt := q.Options[idx]
		return AnswerRecord{QuestionID: q.ID, Points: opt.Points, OptionText: opt.Text}, nil
	case in.Points != nil:
		for _, opt := range q.Options {
			if opt.Points == *in.Points {
				return AnswerRecord{QuestionID: q.ID, Points: opt.Points, OptionText: opt.Text}, nil
			}
		}
		return AnswerRecord{}, &InvalidAnswerError{QuestionID: q.ID, Reason: "no option with that point value"}
	}
	return AnswerRecord{}, &InvalidAnswerError{QuestionID: q.ID, Reason: "no option selected"}
}

// Resolve replays a submitted history answer by answer, rejecting the first
// answer that was not offered at its position.
func (b *Bank) Resolve(inputs []AnswerInput) ([]AnswerRecord, error) {
	history := make([]AnswerRecord, 0, len(inputs))
	for _, in := range inputs {
		rec, err := b.Accept(history, in)
		if err != nil {
			return nil, err
		}
		history = append(history, rec)
	}
	return history, nil
}

// Calculate validates a submitted history and resolves its rating and level.
func (b *Bank) Calculate(inputs []AnswerInput) (RatingResult, error) {
	if len(inputs) == 0 {
		return RatingResult{}, ErrEmptyAnswers
	}
	history, err := b.Resolve(inputs)
	if err != nil {
		return RatingResult{}, err
	}
	return RateScore(TotalRawScore(history))
}
