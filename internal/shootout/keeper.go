package shootout

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the day-granularity stamp on a keeper. Local calendar day:
// the session rolls over at the client's midnight, not UTC's.
const DateLayout = "2006-01-02"

// Entry is one slot in the keeper's play order, referencing a question by
// (id, kind). Created once per keeper, never mutated.
type Entry struct {
	Question Ref `json:"question"`
	Position int `json:"position"`
}

// Keeper is the day's fixed, shuffled order of questions plus a cursor
// marking the entry currently in play.
type Keeper struct {
	ID      string  `json:"id"`
	Date    string  `json:"date"`
	Entries []Entry `json:"entries"`
	Cursor  int     `json:"cursor"`
}

// NewKeeper builds a keeper for the calendar day of now: a uniformly random
// permutation of the supplied questions, cursor at zero. The question list
// must be non-empty; the rng is injected so tests can fix the seed.
func NewKeeper(questions []Question, rng *rand.Rand, now time.Time) Keeper {
	shuffled := make([]Question, len(questions))
	copy(shuffled, questions)

	// Fisher-Yates, top down.
	for i := len(shuffled) - 1; i >= 1; i-- {
		j := rng.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	entries := make([]Entry, len(shuffled))
	for i, q := range shuffled {
		entries[i] = Entry{Question: q.Ref(), Position: i}
	}

	return Keeper{
		ID:      uuid.NewString(),
		Date:    now.Format(DateLayout),
		Entries: entries,
		Cursor:  0,
	}
}

// Current returns the entry at the cursor, or false when the cursor has
// run past the end of the sequence.
func (k Keeper) Current() (Entry, bool) {
	if k.Cursor < 0 || k.Cursor >= len(k.Entries) {
		return Entry{}, false
	}
	return k.Entries[k.Cursor], true
}

// AtEnd reports whether advancing the cursor would exhaust the sequence.
func (k Keeper) AtEnd() bool {
	return k.Cursor+1 >= len(k.Entries)
}

// Exhausted reports whether the cursor has already run past the last entry.
func (k Keeper) Exhausted() bool {
	return k.Cursor >= len(k.Entries)
}
