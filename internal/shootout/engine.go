package shootout

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"
)

var (
	// ErrNoQuestions means the question source came back empty; there is
	// nothing to build a keeper from.
	ErrNoQuestions = errors.New("no questions available")

	// ErrQuestionNotFound means the cursor references an (id, kind) pair the
	// current question set no longer contains, e.g. content changed between
	// session creation and replay. The client should offer a reset.
	ErrQuestionNotFound = errors.New("question not found")
)

// QuestionSource supplies the full question list for a game load. The
// engine treats the returned slice as immutable input.
type QuestionSource interface {
	Questions(ctx context.Context) ([]Question, error)
}

// AnswerResult is what the reveal screen shows.
type AnswerResult struct {
	Correct       bool   `json:"correct"`
	CorrectAnswer string `json:"correct_answer"`
	Explanation   string `json:"explanation,omitempty"`
}

// QuestionView is the current question as presented to the client: no
// correct answer, no explanation.
type QuestionView struct {
	ID      int      `json:"id"`
	Kind    Kind     `json:"kind"`
	Prompt  string   `json:"prompt"`
	Options []string `json:"options,omitempty"`
}

// SessionView is the session snapshot returned by every operation.
type SessionView struct {
	KeeperID string        `json:"keeper_id"`
	Date     string        `json:"date"`
	Cursor   int           `json:"cursor"`
	Total    int           `json:"total"`
	Phase    Phase         `json:"phase"`
	Stats    Stats         `json:"stats"`
	Question *QuestionView `json:"question,omitempty"`
}

// Service runs the shootout for one client at a time: load the session,
// apply the event, save. Every operation is a synchronous in-process
// computation; the only I/O is the best-effort session store.
type Service struct {
	sessions *Manager
	source   QuestionSource
	logger   zerolog.Logger
	metrics  *Metrics
}

func NewService(sessions *Manager, source QuestionSource, logger zerolog.Logger, metrics *Metrics) *Service {
	return &Service{
		sessions: sessions,
		source:   source,
		logger:   logger.With().Str("component", "shootout").Logger(),
		metrics:  metrics,
	}
}

// Current returns the client's session for today, creating a fresh one in
// the intro phase when none exists or yesterday's is still on record.
func (s *Service) Current(ctx context.Context, clientID string) (SessionView, error) {
	sess, questions, err := s.loadOrCreate(ctx, clientID)
	if err != nil {
		return SessionView{}, err
	}
	return s.view(sess, BuildIndex(questions)), nil
}

// Start moves a fresh session from intro to playing.
func (s *Service) Start(ctx context.Context, clientID string) (SessionView, error) {
	return s.apply(ctx, clientID, EventStart, func(sess *Session, idx Index) error {
		return nil
	})
}

// Answer scores the submitted answer against the question under the
// cursor. Stats are updated and the phase moves to revealed; the cursor
// does not advance until Next.
func (s *Service) Answer(ctx context.Context, clientID, submitted string) (SessionView, AnswerResult, error) {
	var result AnswerResult
	view, err := s.apply(ctx, clientID, EventAnswer, func(sess *Session, idx Index) error {
		entry, ok := sess.Keeper.Current()
		if !ok {
			return fmt.Errorf("%w: cursor %d out of range", ErrQuestionNotFound, sess.Keeper.Cursor)
		}
		q, ok := idx.Lookup(entry.Question)
		if !ok {
			return fmt.Errorf("%w: %s", ErrQuestionNotFound, entry.Question)
		}

		correct := CheckAnswer(q, submitted)
		if correct {
			sess.Stats.Correct++
			s.metrics.Answers.WithLabelValues("correct").Inc()
		} else {
			sess.Stats.Incorrect++
			s.metrics.Answers.WithLabelValues("incorrect").Inc()
		}
		sess.Stats.TotalAnswered++

		result = AnswerResult{
			Correct:       correct,
			CorrectAnswer: CorrectAnswerText(q),
			Explanation:   q.Explanation(),
		}
		return nil
	})
	if err != nil {
		return SessionView{}, AnswerResult{}, err
	}
	return view, result, nil
}

// Skip passes on the current question: skipped counter up, cursor forward,
// no reveal.
func (s *Service) Skip(ctx context.Context, clientID string) (SessionView, error) {
	return s.apply(ctx, clientID, EventSkip, func(sess *Session, idx Index) error {
		sess.Stats.Skipped++
		sess.Keeper.Cursor++
		s.metrics.Skips.Inc()
		return nil
	})
}

// Next leaves the reveal screen and advances to the following question, or
// to completed when the sequence is exhausted.
func (s *Service) Next(ctx context.Context, clientID string) (SessionView, error) {
	return s.apply(ctx, clientID, EventNext, func(sess *Session, idx Index) error {
		sess.Keeper.Cursor++
		return nil
	})
}

// Reset replaces a completed session with a brand-new keeper and zeroed
// stats, entering playing directly.
func (s *Service) Reset(ctx context.Context, clientID string) (SessionView, error) {
	sess, questions, err := s.loadOrCreate(ctx, clientID)
	if err != nil {
		return SessionView{}, err
	}

	if _, err := Transition(sess.Phase, EventReset, false); err != nil {
		return SessionView{}, err
	}

	fresh := s.sessions.Reset(questions)
	s.sessions.Save(ctx, clientID, fresh)
	s.metrics.Resets.Inc()
	s.logger.Info().Str("client_id", clientID).Str("keeper_id", fresh.Keeper.ID).Msg("session reset")

	return s.view(fresh, BuildIndex(questions)), nil
}

// apply runs one event: load-or-create, check the transition is legal,
// run the mutation, commit the new phase, save.
func (s *Service) apply(ctx context.Context, clientID string, event Event, mutate func(*Session, Index) error) (SessionView, error) {
	sess, questions, err := s.loadOrCreate(ctx, clientID)
	if err != nil {
		return SessionView{}, err
	}
	idx := BuildIndex(questions)

	next, err := Transition(sess.Phase, event, s.atEndAfter(sess, event))
	if err != nil {
		return SessionView{}, err
	}

	if err := mutate(sess, idx); err != nil {
		return SessionView{}, err
	}

	sess.Phase = next
	sess.LastActive = s.sessions.now()
	s.sessions.Save(ctx, clientID, sess)

	return s.view(sess, idx), nil
}

// atEndAfter reports whether the event's cursor movement lands past the
// final entry. Answer holds the cursor, so it never ends the sequence.
func (s *Service) atEndAfter(sess *Session, event Event) bool {
	switch event {
	case EventSkip, EventNext:
		return sess.Keeper.AtEnd()
	default:
		return false
	}
}

func (s *Service) loadOrCreate(ctx context.Context, clientID string) (*Session, []Question, error) {
	questions, err := s.source.Questions(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, nil, ErrNoQuestions
	}

	if sess, ok := s.sessions.Load(ctx, clientID); ok {
		return sess, questions, nil
	}

	sess := s.sessions.StartNew(questions)
	s.sessions.Save(ctx, clientID, sess)
	s.metrics.SessionsCreated.Inc()
	s.logger.Info().
		Str("client_id", clientID).
		Str("keeper_id", sess.Keeper.ID).
		Int("questions", len(questions)).
		Msg("session created")

	return sess, questions, nil
}

func (s *Service) view(sess *Session, idx Index) SessionView {
	view := SessionView{
		KeeperID: sess.Keeper.ID,
		Date:     sess.Keeper.Date,
		Cursor:   sess.Keeper.Cursor,
		Total:    len(sess.Keeper.Entries),
		Phase:    sess.Phase,
		Stats:    sess.Stats,
	}

	if sess.Phase == PhasePlaying || sess.Phase == PhaseRevealed {
		if entry, ok := sess.Keeper.Current(); ok {
			if q, ok := idx.Lookup(entry.Question); ok {
				view.Question = questionView(q)
			}
		}
	}
	return view
}

func questionView(q Question) *QuestionView {
	switch v := q.(type) {
	case MultipleChoice:
		// Sorted so the correct answer's slot gives nothing away.
		opts := v.Options()
		sort.Strings(opts)
		return &QuestionView{
			ID:      v.ID,
			Kind:    KindMultipleChoice,
			Prompt:  v.PromptText,
			Options: opts,
		}
	case TrueFalse:
		return &QuestionView{
			ID:      v.ID,
			Kind:    KindTrueFalse,
			Prompt:  v.PromptText,
			Options: []string{"True", "False"},
		}
	default:
		return nil
	}
}
