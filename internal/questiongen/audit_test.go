package questiongen

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizgen/internal/endpoint"
	"github.com/abhisek/quizgen/internal/store"
)

type fakeLogRepo struct {
	mu      sync.Mutex
	entries []store.GenerationLogData
	err     error
	block   chan struct{}
}

func (f *fakeLogRepo) AppendGenerationLog(_ context.Context, d store.GenerationLogData) error {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, d)
	return nil
}

func (f *fakeLogRepo) QueryGenerationLogs(context.Context, store.QueryOpts) ([]store.GenerationLog, error) {
	return nil, nil
}

func (f *fakeLogRepo) GenerationStats(context.Context) ([]store.GenerationStat, error) {
	return nil, nil
}

func TestAuditor_WritesOnClose(t *testing.T) {
	repo := &fakeLogRepo{}
	a := NewAuditor(repo, 8, discardLogger())

	a.Emit(store.GenerationLogData{RequestID: "a"})
	a.Emit(store.GenerationLogData{RequestID: "b"})
	a.Close()

	require.Len(t, repo.entries, 2)
	assert.Equal(t, "a", repo.entries[0].RequestID)
	assert.Equal(t, "b", repo.entries[1].RequestID)
}

func TestAuditor_WriteFailureSwallowed(t *testing.T) {
	repo := &fakeLogRepo{err: errors.New("disk full")}
	a := NewAuditor(repo, 8, discardLogger())

	a.Emit(store.GenerationLogData{RequestID: "a"})
	a.Close()

	assert.Empty(t, repo.entries)
}

func TestAuditor_FullQueueDrops(t *testing.T) {
	repo := &fakeLogRepo{block: make(chan struct{})}
	a := NewAuditor(repo, 1, discardLogger())

	// The worker may hold one entry while blocked; one more fits the queue.
	// Everything beyond that is dropped without blocking the caller.
	for i := 0; i < 10; i++ {
		a.Emit(store.GenerationLogData{RequestID: "x"})
	}
	close(repo.block)
	a.Close()

	assert.LessOrEqual(t, len(repo.entries), 2)
	assert.GreaterOrEqual(t, len(repo.entries), 1)
}

func TestAuditor_EmitAfterClose(t *testing.T) {
	repo := &fakeLogRepo{}
	a := NewAuditor(repo, 8, discardLogger())
	a.Close()

	a.Emit(store.GenerationLogData{RequestID: "late"})
	a.Close() // idempotent

	assert.Empty(t, repo.entries)
}

func TestAuditor_WithStore(t *testing.T) {
	s, err := store.Open(filepath.Join(t.TempDir(), "audit.db"))
	require.NoError(t, err)
	defer s.Close()

	a := NewAuditor(s.GenerationLogRepo(), 8, discardLogger())
	b := &fakeBackend{replies: []reply{
		{err: &endpoint.StatusError{StatusCode: 500}},
		success(5, 77, int64p(420)),
	}}
	g, _, _ := newTestGenerator(b)
	g.audit = a

	out := g.Generate(context.Background(), textRequest("The mitochondria is the powerhouse of the cell.", 5))
	require.True(t, out.Success)
	a.Close()

	logs, err := s.GenerationLogRepo().QueryGenerationLogs(context.Background(), store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.True(t, logs[0].Success)
	assert.Equal(t, 2, logs[0].Attempts)
	assert.Equal(t, 77, logs[0].TokensUsed)
	assert.Equal(t, int64(420), logs[0].ElapsedMs)
	assert.Equal(t, 5, logs[0].QuestionsGenerated)
}
