package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/aquavision/internal/analysis"
	"github.com/your-org/aquavision/internal/media"
)

type stubAnalyzer struct{}

func (stubAnalyzer) Analyze(ctx context.Context, up media.Upload) (analysis.Result, error) {
	return analysis.Result{ID: "stub", SourceName: up.Name}, nil
}

func testFactory(id string) (*media.Intake, *analysis.Coordinator) {
	return media.NewIntake(100<<20, nil), analysis.NewCoordinator(stubAnalyzer{}, 10, nil)
}

func TestManagerCreateAndGet(t *testing.T) {
	m := NewManager(testFactory, Config{}, nil, nil)
	defer m.Close()

	sess := m.Create()
	require.NotEmpty(t, sess.ID)
	require.NotNil(t, sess.Intake)
	require.NotNil(t, sess.Coordinator)
	assert.Equal(t, analysis.StateIdle, sess.Coordinator.State())

	got, ok := m.Get(sess.ID)
	require.True(t, ok)
	assert.Same(t, sess, got)
	assert.Equal(t, 1, m.Len())
}

func TestManagerGetUnknownSession(t *testing.T) {
	m := NewManager(testFactory, Config{}, nil, nil)
	defer m.Close()

	_, ok := m.Get("nope")
	assert.False(t, ok)
}

func TestManagerSessionsAreIsolated(t *testing.T) {
	m := NewManager(testFactory, Config{}, nil, nil)
	defer m.Close()

	a := m.Create()
	b := m.Create()

	_, err := a.Intake.SelectFile("feeding.mp4", 100)
	require.NoError(t, err)

	_, held := b.Intake.Held()
	assert.False(t, held, "selection in one session must not leak into another")
}

func TestManagerSweepsIdleSessions(t *testing.T) {
	var mu sync.Mutex
	var evicted []string
	onEvict := func(s *Session) {
		mu.Lock()
		evicted = append(evicted, s.ID)
		mu.Unlock()
	}

	m := NewManager(testFactory, Config{TTL: 20 * time.Millisecond, SweepInterval: 5 * time.Millisecond}, nil, onEvict)
	defer m.Close()

	sess := m.Create()

	// Poll Len rather than Get: a Get would refresh the idle clock.
	require.Eventually(t, func() bool {
		return m.Len() == 0
	}, time.Second, 5*time.Millisecond)

	_, ok := m.Get(sess.ID)
	assert.False(t, ok)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{sess.ID}, evicted)
}

func TestManagerGetRefreshesIdleClock(t *testing.T) {
	m := NewManager(testFactory, Config{TTL: 60 * time.Millisecond, SweepInterval: 10 * time.Millisecond}, nil, nil)
	defer m.Close()

	sess := m.Create()

	// Keep touching the session for longer than the TTL; it must survive.
	for i := 0; i < 10; i++ {
		time.Sleep(10 * time.Millisecond)
		_, ok := m.Get(sess.ID)
		require.True(t, ok)
	}
}

func TestManagerSweepSkipsAnalyzingSessions(t *testing.T) {
	release := make(chan struct{})
	blocking := blockingFactory(release)

	m := NewManager(blocking, Config{TTL: 10 * time.Millisecond, SweepInterval: 5 * time.Millisecond}, nil, nil)
	defer m.Close()

	sess := m.Create()
	require.True(t, sess.Coordinator.Submit(media.Upload{Name: "clip.mp4", Kind: media.KindMP4}))

	// Idle past the TTL but mid-analysis: the sweep must leave it alone.
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, 1, m.Len())

	close(release)
	require.Eventually(t, func() bool {
		return m.Len() == 0
	}, time.Second, 5*time.Millisecond)
}

type blockedAnalyzer struct {
	release chan struct{}
}

func (a blockedAnalyzer) Analyze(ctx context.Context, up media.Upload) (analysis.Result, error) {
	<-a.release
	return analysis.Result{ID: "blocked", SourceName: up.Name}, nil
}

func blockingFactory(release chan struct{}) Factory {
	return func(id string) (*media.Intake, *analysis.Coordinator) {
		return media.NewIntake(100<<20, nil), analysis.NewCoordinator(blockedAnalyzer{release: release}, 10, nil)
	}
}
