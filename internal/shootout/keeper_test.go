package shootout

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fixtureQuestions() []Question {
	return []Question{
		MultipleChoice{ID: 1, PromptText: "Most career goals?", CorrectAnswer: "Gretzky", IncorrectAnswers: []string{"Howe", "Ovechkin", "Jagr"}},
		MultipleChoice{ID: 2, PromptText: "Most Cups as player?", CorrectAnswer: "Richard", IncorrectAnswers: []string{"Beliveau", "Cournoyer"}},
		TrueFalse{ID: 1, PromptText: "A period lasts 20 minutes.", Answer: true},
		TrueFalse{ID: 2, PromptText: "Icing is a power play.", Answer: false, ExplanationText: "Icing stops play; it is not a penalty."},
	}
}

func TestNewKeeperContainsEveryQuestionOnce(t *testing.T) {
	questions := fixtureQuestions()
	rng := rand.New(rand.NewSource(42))
	now := time.Date(2025, 6, 1, 10, 30, 0, 0, time.Local)

	keeper := NewKeeper(questions, rng, now)

	assert.NotEmpty(t, keeper.ID)
	assert.Equal(t, "2025-06-01", keeper.Date)
	assert.Equal(t, 0, keeper.Cursor)
	assert.Len(t, keeper.Entries, len(questions))

	seen := map[Ref]bool{}
	for i, entry := range keeper.Entries {
		assert.Equal(t, i, entry.Position)
		assert.False(t, seen[entry.Question], "duplicate entry %s", entry.Question)
		seen[entry.Question] = true
	}
	for _, q := range questions {
		assert.True(t, seen[q.Ref()], "missing question %s", q.Ref())
	}
}

func TestNewKeeperIndependentIDSpaces(t *testing.T) {
	// Both kinds carry id 1; they must land as distinct entries.
	questions := []Question{
		MultipleChoice{ID: 1, PromptText: "mc", CorrectAnswer: "a"},
		TrueFalse{ID: 1, PromptText: "tf", Answer: true},
	}
	keeper := NewKeeper(questions, rand.New(rand.NewSource(1)), time.Now())

	assert.Len(t, keeper.Entries, 2)
	assert.NotEqual(t, keeper.Entries[0].Question, keeper.Entries[1].Question)
}

func TestNewKeeperShuffleIsRoughlyUniform(t *testing.T) {
	questions := fixtureQuestions()
	rng := rand.New(rand.NewSource(7))
	now := time.Now()

	const runs = 20000
	target := questions[0].Ref()
	positions := make([]int, len(questions))
	for i := 0; i < runs; i++ {
		keeper := NewKeeper(questions, rng, now)
		for _, entry := range keeper.Entries {
			if entry.Question == target {
				positions[entry.Position]++
				break
			}
		}
	}

	// Each position should get about runs/N hits; allow 10% drift.
	expected := float64(runs) / float64(len(questions))
	for pos, count := range positions {
		assert.InDelta(t, expected, float64(count), expected*0.1, "position %d skewed", pos)
	}
}

func TestNewKeeperFixedSeedIsDeterministic(t *testing.T) {
	questions := fixtureQuestions()
	now := time.Now()

	a := NewKeeper(questions, rand.New(rand.NewSource(99)), now)
	b := NewKeeper(questions, rand.New(rand.NewSource(99)), now)

	for i := range a.Entries {
		assert.Equal(t, a.Entries[i].Question, b.Entries[i].Question)
	}
}

func TestKeeperCursorHelpers(t *testing.T) {
	keeper := NewKeeper(fixtureQuestions(), rand.New(rand.NewSource(3)), time.Now())

	entry, ok := keeper.Current()
	assert.True(t, ok)
	assert.Equal(t, 0, entry.Position)
	assert.False(t, keeper.Exhausted())

	keeper.Cursor = len(keeper.Entries) - 1
	assert.True(t, keeper.AtEnd())
	assert.False(t, keeper.Exhausted())

	keeper.Cursor = len(keeper.Entries)
	_, ok = keeper.Current()
	assert.False(t, ok)
	assert.True(t, keeper.Exhausted())
}
