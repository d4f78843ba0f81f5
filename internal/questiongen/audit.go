package questiongen

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/abhisek/quizgen/internal/store"
)

// Emitter receives one audit entry per Generate call.
type Emitter interface {
	Emit(entry store.GenerationLogData)
}

// Auditor writes audit entries on a background worker. Emit never blocks
// and write failures are only logged.
type Auditor struct {
	repo    store.GenerationLogRepo
	logger  *slog.Logger
	timeout time.Duration

	mu      sync.RWMutex
	closed  bool
	pending chan store.GenerationLogData
	done    chan struct{}
}

// NewAuditor starts an Auditor with room for queueSize unwritten entries.
func NewAuditor(repo store.GenerationLogRepo, queueSize int, logger *slog.Logger) *Auditor {
	if logger == nil {
		logger = slog.Default()
	}
	if queueSize < 1 {
		queueSize = 64
	}
	a := &Auditor{
		repo:    repo,
		logger:  logger,
		timeout: 5 * time.Second,
		pending: make(chan store.GenerationLogData, queueSize),
		done:    make(chan struct{}),
	}
	go a.processLoop()
	return a
}

// Emit queues entry for writing. A full queue or a closed Auditor drops it.
func (a *Auditor) Emit(entry store.GenerationLogData) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.closed {
		a.logger.Warn("audit log closed, entry dropped", "request_id", entry.RequestID)
		return
	}

	select {
	case a.pending <- entry:
	default:
		a.logger.Warn("audit queue full, entry dropped", "request_id", entry.RequestID)
	}
}

func (a *Auditor) processLoop() {
	defer close(a.done)
	for entry := range a.pending {
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		if err := a.repo.AppendGenerationLog(ctx, entry); err != nil {
			a.logger.Warn("failed to write audit log", "request_id", entry.RequestID, "error", err)
		}
		cancel()
	}
}

// Close stops accepting entries and waits for queued ones to be written.
func (a *Auditor) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		<-a.done
		return
	}
	a.closed = true
	close(a.pending)
	a.mu.Unlock()

	<-a.done
}
