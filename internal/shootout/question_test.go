package shootout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeQuestionsTaggedArray(t *testing.T) {
	data := []byte(`[
		{"id": 5, "type": "multiple-choice", "prompt": "Most career goals?", "correct_answer": "Gretzky", "incorrect_answers": ["Howe", "Ovechkin"], "explanation": "894 in the regular season."},
		{"id": 3, "type": "true-false", "prompt": "A period lasts 20 minutes.", "answer": true}
	]`)

	questions, err := DecodeQuestions(data)
	assert.NoError(t, err)
	assert.Len(t, questions, 2)

	mc, ok := questions[0].(MultipleChoice)
	assert.True(t, ok)
	assert.Equal(t, Ref{ID: 5, Kind: KindMultipleChoice}, mc.Ref())
	assert.Equal(t, "Gretzky", mc.CorrectAnswer)
	assert.Equal(t, "894 in the regular season.", mc.Explanation())

	tf, ok := questions[1].(TrueFalse)
	assert.True(t, ok)
	assert.Equal(t, Ref{ID: 3, Kind: KindTrueFalse}, tf.Ref())
	assert.True(t, tf.Answer)
}

func TestDecodeQuestionsUnknownTag(t *testing.T) {
	_, err := DecodeQuestions([]byte(`[{"id": 1, "type": "fill-in-the-blank", "prompt": "?"}]`))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown question type")
}

func TestDecodeQuestionsTrueFalseMissingAnswer(t *testing.T) {
	_, err := DecodeQuestions([]byte(`[{"id": 1, "type": "true-false", "prompt": "?"}]`))
	assert.Error(t, err)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	original := fixtureQuestions()

	data, err := EncodeQuestions(original)
	assert.NoError(t, err)

	decoded, err := DecodeQuestions(data)
	assert.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestCheckAnswerMultipleChoice(t *testing.T) {
	q := MultipleChoice{ID: 1, PromptText: "Most career goals?", CorrectAnswer: "Gretzky", IncorrectAnswers: []string{"Orr", "Howe"}}

	assert.True(t, CheckAnswer(q, "Gretzky"))
	assert.False(t, CheckAnswer(q, "Orr"))
	// Comparison is exact and case-sensitive.
	assert.False(t, CheckAnswer(q, "gretzky"))
	assert.False(t, CheckAnswer(q, "Gretzky "))
}

func TestCheckAnswerTrueFalse(t *testing.T) {
	q := TrueFalse{ID: 1, PromptText: "A period lasts 20 minutes.", Answer: true}

	assert.True(t, CheckAnswer(q, "True"))
	assert.False(t, CheckAnswer(q, "False"))
	// Only the literal token reads as true.
	assert.False(t, CheckAnswer(q, "true"))
}

func TestCheckAnswerTrueFalseNegative(t *testing.T) {
	q := TrueFalse{ID: 2, PromptText: "Icing is a power play.", Answer: false}

	assert.True(t, CheckAnswer(q, "False"))
	assert.False(t, CheckAnswer(q, "True"))
	// Any non-token submission reads as false, which matches here.
	assert.True(t, CheckAnswer(q, "nope"))
}

func TestIndexLookup(t *testing.T) {
	idx := BuildIndex(fixtureQuestions())

	q, ok := idx.Lookup(Ref{ID: 1, Kind: KindMultipleChoice})
	assert.True(t, ok)
	assert.Equal(t, "Most career goals?", q.Prompt())

	_, ok = idx.Lookup(Ref{ID: 99, Kind: KindTrueFalse})
	assert.False(t, ok)
}

func TestCorrectAnswerText(t *testing.T) {
	assert.Equal(t, "Gretzky", CorrectAnswerText(MultipleChoice{CorrectAnswer: "Gretzky"}))
	assert.Equal(t, "True", CorrectAnswerText(TrueFalse{Answer: true}))
	assert.Equal(t, "False", CorrectAnswerText(TrueFalse{Answer: false}))
}
