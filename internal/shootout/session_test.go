package shootout

import (
	"context"
	"errors"
	"io"
	"math/rand"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/avintas/shootout/internal/store"
)

type faultyStore struct {
	getErr    error
	setErr    error
	removeErr error
	inner     *store.Memory
}

func (f *faultyStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	return f.inner.Get(ctx, key)
}

func (f *faultyStore) Set(ctx context.Context, key string, value []byte) error {
	if f.setErr != nil {
		return f.setErr
	}
	return f.inner.Set(ctx, key, value)
}

func (f *faultyStore) Remove(ctx context.Context, key string) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	return f.inner.Remove(ctx, key)
}

func fixedClock(day string) func() time.Time {
	ts, err := time.ParseInLocation(DateLayout, day, time.Local)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return ts }
}

func newTestManager(st store.Store, day string) *Manager {
	return NewManager(st, zerolog.New(io.Discard), fixedClock(day), rand.New(rand.NewSource(1)))
}

func TestLoadReturnsNoneWhenEmpty(t *testing.T) {
	mgr := newTestManager(store.NewMemory(), "2024-01-01")

	_, ok := mgr.Load(context.Background(), "client-a")
	assert.False(t, ok)
}

func TestSaveThenLoadSameDayRestoresSession(t *testing.T) {
	mem := store.NewMemory()
	mgr := newTestManager(mem, "2024-01-01")
	sess := mgr.StartNew(fixtureQuestions())

	mgr.Save(context.Background(), "client-a", sess)

	loaded, ok := mgr.Load(context.Background(), "client-a")
	assert.True(t, ok)
	assert.Equal(t, sess.Keeper, loaded.Keeper)
	assert.Equal(t, sess.Stats, loaded.Stats)
	assert.Equal(t, sess.Phase, loaded.Phase)
	assert.True(t, sess.LastActive.Equal(loaded.LastActive))
}

func TestLoadIsIdempotentAcrossResaves(t *testing.T) {
	mem := store.NewMemory()
	mgr := newTestManager(mem, "2024-01-01")
	sess := mgr.StartNew(fixtureQuestions())

	mgr.Save(context.Background(), "client-a", sess)
	first, ok := mgr.Load(context.Background(), "client-a")
	assert.True(t, ok)

	mgr.Save(context.Background(), "client-a", sess)
	second, ok := mgr.Load(context.Background(), "client-a")
	assert.True(t, ok)
	assert.Equal(t, first, second)
}

func TestLoadDiscardsStaleDaySession(t *testing.T) {
	mem := store.NewMemory()

	yesterday := newTestManager(mem, "2024-01-01")
	sess := yesterday.StartNew(fixtureQuestions())
	yesterday.Save(context.Background(), "client-a", sess)
	assert.Equal(t, 1, mem.Len())

	today := newTestManager(mem, "2024-01-02")
	_, ok := today.Load(context.Background(), "client-a")
	assert.False(t, ok)
	assert.Equal(t, 0, mem.Len(), "stale record must be cleared")
}

func TestLoadDiscardsMalformedSession(t *testing.T) {
	mem := store.NewMemory()
	key := "shootout:session:v2:client-a"
	assert.NoError(t, mem.Set(context.Background(), key, []byte("{not json")))

	mgr := newTestManager(mem, "2024-01-01")
	_, ok := mgr.Load(context.Background(), "client-a")
	assert.False(t, ok)
	assert.Equal(t, 0, mem.Len(), "malformed record must be cleared")
}

func TestLoadSwallowsStoreReadFailure(t *testing.T) {
	st := &faultyStore{inner: store.NewMemory(), getErr: errors.New("storage disabled")}
	mgr := newTestManager(st, "2024-01-01")

	_, ok := mgr.Load(context.Background(), "client-a")
	assert.False(t, ok)
}

func TestSaveSwallowsStoreWriteFailure(t *testing.T) {
	st := &faultyStore{inner: store.NewMemory(), setErr: errors.New("quota exceeded")}
	mgr := newTestManager(st, "2024-01-01")
	sess := mgr.StartNew(fixtureQuestions())

	// Must not panic or surface the failure.
	mgr.Save(context.Background(), "client-a", sess)
}

func TestStartNewBuildsIntroSession(t *testing.T) {
	mgr := newTestManager(store.NewMemory(), "2024-03-15")
	sess := mgr.StartNew(fixtureQuestions())

	assert.Equal(t, PhaseIntro, sess.Phase)
	assert.Equal(t, "2024-03-15", sess.Keeper.Date)
	assert.Equal(t, Stats{}, sess.Stats)
	assert.Equal(t, 0, sess.Keeper.Cursor)
}

func TestResetBuildsPlayingSessionWithFreshKeeper(t *testing.T) {
	mgr := newTestManager(store.NewMemory(), "2024-03-15")
	first := mgr.StartNew(fixtureQuestions())

	reset := mgr.Reset(fixtureQuestions())
	assert.Equal(t, PhasePlaying, reset.Phase)
	assert.Equal(t, Stats{}, reset.Stats)
	assert.NotEqual(t, first.Keeper.ID, reset.Keeper.ID)
}
