package shootout

import (
	"encoding/json"
	"fmt"
)

// Kind discriminates the two question variants. The variants keep
// independent id spaces, so identity is always (id, kind).
type Kind string

const (
	KindMultipleChoice Kind = "multiple-choice"
	KindTrueFalse      Kind = "true-false"
)

// Ref identifies one question across both variants.
type Ref struct {
	ID   int  `json:"id"`
	Kind Kind `json:"kind"`
}

func (r Ref) String() string {
	return fmt.Sprintf("%s/%d", r.Kind, r.ID)
}

// Question is the sealed union of the two question variants. Consumers
// switch on the concrete type; adding a third variant breaks every switch
// at compile time, which is the point.
type Question interface {
	Ref() Ref
	Prompt() string
	Explanation() string

	isQuestion()
}

// MultipleChoice carries a prompt, one correct answer and the decoys.
type MultipleChoice struct {
	ID               int
	PromptText       string
	CorrectAnswer    string
	IncorrectAnswers []string
	ExplanationText  string
}

func (q MultipleChoice) Ref() Ref            { return Ref{ID: q.ID, Kind: KindMultipleChoice} }
func (q MultipleChoice) Prompt() string      { return q.PromptText }
func (q MultipleChoice) Explanation() string { return q.ExplanationText }
func (q MultipleChoice) isQuestion()         {}

// Options returns the presented answers: decoys plus the correct one.
// Presentation order is the caller's concern.
func (q MultipleChoice) Options() []string {
	opts := make([]string, 0, len(q.IncorrectAnswers)+1)
	opts = append(opts, q.IncorrectAnswers...)
	return append(opts, q.CorrectAnswer)
}

// TrueFalse carries a prompt and a boolean answer flag.
type TrueFalse struct {
	ID              int
	PromptText      string
	Answer          bool
	ExplanationText string
}

func (q TrueFalse) Ref() Ref            { return Ref{ID: q.ID, Kind: KindTrueFalse} }
func (q TrueFalse) Prompt() string      { return q.PromptText }
func (q TrueFalse) Explanation() string { return q.ExplanationText }
func (q TrueFalse) isQuestion()         {}

// TrueToken is the literal a client submits to assert "true" on a
// true/false question. Anything else is interpreted as "false".
const TrueToken = "True"

// CheckAnswer reports whether the submitted answer is correct.
// Multiple-choice comparison is exact and case-sensitive.
func CheckAnswer(q Question, submitted string) bool {
	switch v := q.(type) {
	case MultipleChoice:
		return submitted == v.CorrectAnswer
	case TrueFalse:
		return (submitted == TrueToken) == v.Answer
	default:
		return false
	}
}

// CorrectAnswerText returns the display form of the correct answer.
func CorrectAnswerText(q Question) string {
	switch v := q.(type) {
	case MultipleChoice:
		return v.CorrectAnswer
	case TrueFalse:
		if v.Answer {
			return "True"
		}
		return "False"
	default:
		return ""
	}
}

// wireQuestion is the flat tagged record the content feed and content API
// both speak. Fields not used by a variant stay zero.
type wireQuestion struct {
	ID               int      `json:"id"`
	Type             Kind     `json:"type"`
	Prompt           string   `json:"prompt"`
	CorrectAnswer    string   `json:"correct_answer,omitempty"`
	IncorrectAnswers []string `json:"incorrect_answers,omitempty"`
	Answer           *bool    `json:"answer,omitempty"`
	Explanation      string   `json:"explanation,omitempty"`
}

// DecodeQuestions parses a flat JSON array of tagged question records.
// An unknown type tag or a true/false record without an answer flag is a
// decode error, not a silent skip.
func DecodeQuestions(data []byte) ([]Question, error) {
	var records []wireQuestion
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}

	questions := make([]Question, 0, len(records))
	for i, rec := range records {
		switch rec.Type {
		case KindMultipleChoice:
			questions = append(questions, MultipleChoice{
				ID:               rec.ID,
				PromptText:       rec.Prompt,
				CorrectAnswer:    rec.CorrectAnswer,
				IncorrectAnswers: rec.IncorrectAnswers,
				ExplanationText:  rec.Explanation,
			})
		case KindTrueFalse:
			if rec.Answer == nil {
				return nil, fmt.Errorf("question %d: true-false record missing answer flag", rec.ID)
			}
			questions = append(questions, TrueFalse{
				ID:              rec.ID,
				PromptText:      rec.Prompt,
				Answer:          *rec.Answer,
				ExplanationText: rec.Explanation,
			})
		default:
			return nil, fmt.Errorf("record %d: unknown question type %q", i, rec.Type)
		}
	}
	return questions, nil
}

// EncodeQuestions renders questions back into the flat tagged wire form.
func EncodeQuestions(questions []Question) ([]byte, error) {
	records := make([]wireQuestion, 0, len(questions))
	for _, q := range questions {
		switch v := q.(type) {
		case MultipleChoice:
			records = append(records, wireQuestion{
				ID:               v.ID,
				Type:             KindMultipleChoice,
				Prompt:           v.PromptText,
				CorrectAnswer:    v.CorrectAnswer,
				IncorrectAnswers: v.IncorrectAnswers,
				Explanation:      v.ExplanationText,
			})
		case TrueFalse:
			answer := v.Answer
			records = append(records, wireQuestion{
				ID:          v.ID,
				Type:        KindTrueFalse,
				Prompt:      v.PromptText,
				Answer:      &answer,
				Explanation: v.ExplanationText,
			})
		}
	}
	return json.Marshal(records)
}

// Index resolves sequence entries back to questions by (id, kind).
type Index map[Ref]Question

// BuildIndex maps each question by its Ref. Later duplicates win, which
// cannot occur with well-formed content.
func BuildIndex(questions []Question) Index {
	idx := make(Index, len(questions))
	for _, q := range questions {
		idx[q.Ref()] = q
	}
	return idx
}

// Lookup returns the question for a ref, reporting absence explicitly.
func (idx Index) Lookup(ref Ref) (Question, bool) {
	q, ok := idx[ref]
	return q, ok
}
