package shootout

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/avintas/shootout/internal/store"
)

// sessionKeyPrefix versions the stored shape. Changing Session's layout
// means bumping the version, which orphans old records; they are simply
// never read again.
const sessionKeyPrefix = "shootout:session:v2:"

// Stats are the session's running counters. They only ever go up, and
// reset to zero when a new keeper is created.
type Stats struct {
	Correct       int `json:"correct"`
	Incorrect     int `json:"incorrect"`
	Skipped       int `json:"skipped"`
	TotalAnswered int `json:"total_answered"`
}

// Session is the unit of persistence: the day's keeper, the running stats,
// the visual phase and the last activity stamp. It is serialized whole on
// every mutation and deserialized whole on load.
type Session struct {
	Keeper     Keeper    `json:"keeper"`
	Stats      Stats     `json:"stats"`
	Phase      Phase     `json:"phase"`
	LastActive time.Time `json:"last_active"`
}

// Manager owns session persistence and keeper creation. The clock and rng
// are injected so day-rollover and shuffle behavior are testable.
type Manager struct {
	store  store.Store
	logger zerolog.Logger
	now    func() time.Time
	rng    *rand.Rand
}

// NewManager wires a session manager over the given store. now and rng may
// be nil, which selects the wall clock and a time-seeded source.
func NewManager(st store.Store, logger zerolog.Logger, now func() time.Time, rng *rand.Rand) *Manager {
	if now == nil {
		now = time.Now
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Manager{
		store:  st,
		logger: logger.With().Str("component", "shootout_sessions").Logger(),
		now:    now,
		rng:    rng,
	}
}

func sessionKey(clientID string) string {
	return sessionKeyPrefix + clientID
}

// Today returns the manager's current calendar day stamp.
func (m *Manager) Today() string {
	return m.now().Format(DateLayout)
}

// Load returns the client's persisted session, or false when there is
// nothing usable: no record, a record from another calendar day (discarded
// so it can never be replayed), or a record that fails to parse (logged and
// discarded). The caller always gets a valid same-day session or a clean
// slate, never a corrupt object and never an error.
func (m *Manager) Load(ctx context.Context, clientID string) (*Session, bool) {
	key := sessionKey(clientID)

	data, ok, err := m.store.Get(ctx, key)
	if err != nil {
		m.logger.Warn().Err(err).Str("client_id", clientID).Msg("session read failed")
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		m.logger.Warn().Err(err).Str("client_id", clientID).Msg("discarding malformed session")
		m.discard(ctx, key, clientID)
		return nil, false
	}

	if sess.Keeper.Date != m.Today() {
		m.logger.Debug().
			Str("client_id", clientID).
			Str("keeper_date", sess.Keeper.Date).
			Msg("discarding stale session")
		m.discard(ctx, key, clientID)
		return nil, false
	}

	return &sess, true
}

// Save persists the whole session, overwriting any previous record.
// Persistence is best effort: a write failure is logged and swallowed, and
// in-memory state stays authoritative for the rest of the page lifetime.
func (m *Manager) Save(ctx context.Context, clientID string, sess *Session) {
	data, err := json.Marshal(sess)
	if err != nil {
		m.logger.Error().Err(err).Str("client_id", clientID).Msg("session marshal failed")
		return
	}
	if err := m.store.Set(ctx, sessionKey(clientID), data); err != nil {
		m.logger.Warn().Err(err).Str("client_id", clientID).Msg("session write failed")
	}
}

// StartNew builds a fresh session for today: new keeper, zeroed stats,
// intro phase. The question list must be non-empty.
func (m *Manager) StartNew(questions []Question) *Session {
	return &Session{
		Keeper:     NewKeeper(questions, m.rng, m.now()),
		Stats:      Stats{},
		Phase:      PhaseIntro,
		LastActive: m.now(),
	}
}

// Reset builds a replacement session after a completed run: new keeper,
// zeroed stats, straight into playing (intro is bypassed on reset).
func (m *Manager) Reset(questions []Question) *Session {
	sess := m.StartNew(questions)
	sess.Phase = PhasePlaying
	return sess
}

func (m *Manager) discard(ctx context.Context, key, clientID string) {
	if err := m.store.Remove(ctx, key); err != nil {
		m.logger.Warn().Err(err).Str("client_id", clientID).Msg("session remove failed")
	}
}
