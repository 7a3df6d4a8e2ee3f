package shootout

import "fmt"

// Phase is the session's visual state.
type Phase string

const (
	PhaseIntro     Phase = "intro"
	PhasePlaying   Phase = "playing"
	PhaseRevealed  Phase = "revealed"
	PhaseCompleted Phase = "completed"
)

// Event drives phase transitions.
type Event string

const (
	EventStart  Event = "start"
	EventAnswer Event = "answer"
	EventSkip   Event = "skip"
	EventNext   Event = "next"
	EventReset  Event = "reset"
)

// ErrIllegalTransition marks a (phase, event) pair the machine rejects.
// Callers compare with errors.Is.
var ErrIllegalTransition = fmt.Errorf("illegal transition")

// Transition maps (phase, event) to the next phase. atEnd tells whether the
// event lands on or past the final sequence entry, which decides between
// playing and completed for the advancing events. Illegal pairs return
// ErrIllegalTransition rather than silently passing through.
func Transition(phase Phase, event Event, atEnd bool) (Phase, error) {
	switch {
	case phase == PhaseIntro && event == EventStart:
		return PhasePlaying, nil
	case phase == PhasePlaying && event == EventAnswer:
		// Cursor holds: the reveal shows the entry just answered.
		return PhaseRevealed, nil
	case phase == PhasePlaying && event == EventSkip:
		if atEnd {
			return PhaseCompleted, nil
		}
		return PhasePlaying, nil
	case phase == PhaseRevealed && event == EventNext:
		if atEnd {
			return PhaseCompleted, nil
		}
		return PhasePlaying, nil
	case phase == PhaseCompleted && event == EventReset:
		// Reset bypasses intro: a returning player goes straight back in.
		return PhasePlaying, nil
	default:
		return phase, fmt.Errorf("%w: %s on %s", ErrIllegalTransition, event, phase)
	}
}
