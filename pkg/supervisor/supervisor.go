package supervisor

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/c9s/indicalc/pkg/metrics"
	"github.com/c9s/indicalc/pkg/service"
	"github.com/c9s/indicalc/pkg/types"
)

const (
	DefaultStartupDelay = 5 * time.Second
	DefaultPollInterval = 500 * time.Millisecond
)

// Worker is the unit the supervisor keeps alive, one per pair.
type Worker interface {
	Run(ctx context.Context) error
}

// Factory builds a fresh worker for the pair. The worker reports its status through the
// given function.
type Factory func(pair types.Pair, onStatus func(types.PairStatus)) Worker

type entry struct {
	pair   types.Pair
	runID  string
	worker Worker

	done     chan struct{}
	err      error
	panicked bool
}

func (e *entry) finished() bool {
	select {
	case <-e.done:
		return true
	default:
		return false
	}
}

func (e *entry) reason() string {
	switch {
	case e.panicked:
		return "panic"
	case e.err != nil:
		return "failed"
	}

	return "drained"
}

// Supervisor keeps one live worker per pair and replaces the ones that finished.
type Supervisor struct {
	Pairs        []types.Pair
	NewWorker    Factory
	StartupDelay time.Duration
	PollInterval time.Duration

	// Persistence stores the status of each pair when set.
	Persistence service.PersistenceService

	// registry is only touched by the Run goroutine
	entries []*entry
	wg      sync.WaitGroup

	mu       sync.Mutex
	statuses map[types.Pair]types.PairStatus
	restarts map[types.Pair]int64

	logger log.FieldLogger
}

func New(pairs []types.Pair, factory Factory) *Supervisor {
	return &Supervisor{
		Pairs:        pairs,
		NewWorker:    factory,
		StartupDelay: DefaultStartupDelay,
		PollInterval: DefaultPollInterval,
		statuses:     make(map[types.Pair]types.PairStatus),
		restarts:     make(map[types.Pair]int64),
		logger:       log.WithField("component", "supervisor"),
	}
}

// StatusStore returns the store that holds the status of the pair.
func StatusStore(persistence service.PersistenceService, pair types.Pair) service.Store {
	return persistence.NewStore("indicalc", "status", pair.String())
}

// Publish records the status reported by a worker.
func (s *Supervisor) Publish(status types.PairStatus) {
	s.mu.Lock()
	status.Restarts = s.restarts[status.Pair]
	s.statuses[status.Pair] = status
	s.mu.Unlock()

	if s.Persistence == nil {
		return
	}

	switch status.State {
	case types.PairStateSleeping, types.PairStateDrained, types.PairStateFailed:
		if err := StatusStore(s.Persistence, status.Pair).Save(&status); err != nil {
			s.logger.WithError(err).Warnf("unable to persist the status of %s", status.Pair)
		}
	}
}

// Snapshot returns the latest status of every pair, sorted by pair.
func (s *Supervisor) Snapshot() []types.PairStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	statuses := make([]types.PairStatus, 0, len(s.statuses))
	for _, status := range s.statuses {
		statuses = append(statuses, status)
	}

	sort.Slice(statuses, func(i, j int) bool {
		return statuses[i].Pair.String() < statuses[j].Pair.String()
	})

	return statuses
}

func (s *Supervisor) spawn(ctx context.Context, pair types.Pair) *entry {
	runID := uuid.New().String()
	e := &entry{
		pair:  pair,
		runID: runID,
		done:  make(chan struct{}),
	}

	// every status of this worker carries the id of its run
	e.worker = s.NewWorker(pair, func(status types.PairStatus) {
		status.RunID = runID
		s.Publish(status)
	})

	s.mu.Lock()
	if _, ok := s.statuses[pair]; !ok {
		s.statuses[pair] = types.PairStatus{Pair: pair, RunID: runID, UpdatedAt: time.Now()}
	}
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer close(e.done)
		defer func() {
			if r := recover(); r != nil {
				e.panicked = true
				e.err = fmt.Errorf("worker of %s panicked: %v", pair, r)
			}
		}()

		e.err = e.worker.Run(ctx)
	}()

	return e
}

func (s *Supervisor) startAll(ctx context.Context) {
	s.entries = make([]*entry, 0, len(s.Pairs))
	for _, pair := range s.Pairs {
		s.entries = append(s.entries, s.spawn(ctx, pair))
	}
}

// restartFinished replaces the first finished worker with a fresh one and reports
// whether it did.
func (s *Supervisor) restartFinished(ctx context.Context) bool {
	for i, e := range s.entries {
		if !e.finished() {
			continue
		}

		logger := s.logger.WithFields(log.Fields{
			"asset":    e.pair.Asset,
			"interval": e.pair.Interval,
			"run":      e.runID,
		})

		if e.err != nil {
			logger.WithError(e.err).Errorf("worker of %s %s, restarting", e.pair, e.reason())
		} else {
			logger.Infof("worker of %s drained, restarting", e.pair)
		}

		metrics.WorkerRestartMetrics.WithLabelValues(e.pair.Asset, string(e.pair.Interval), e.reason()).Inc()

		s.mu.Lock()
		s.restarts[e.pair]++
		s.mu.Unlock()

		s.entries[i] = s.spawn(ctx, e.pair)
		return true
	}

	return false
}

// Run starts the workers and supervises them until the context is cancelled, then
// waits for every worker to return.
func (s *Supervisor) Run(ctx context.Context) error {
	if s.NewWorker == nil {
		return errors.New("supervisor: worker factory is not set")
	}

	s.logger.Infof("starting %d workers", len(s.Pairs))
	s.startAll(ctx)

	if s.StartupDelay > 0 {
		select {
		case <-ctx.Done():
			return s.shutdown()
		case <-time.After(s.StartupDelay):
		}
	}

	pollInterval := s.PollInterval
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return s.shutdown()

		case <-ticker.C:
			s.restartFinished(ctx)
		}
	}
}

func (s *Supervisor) shutdown() (err error) {
	s.logger.Info("waiting for the workers to stop...")
	s.wg.Wait()

	for _, e := range s.entries {
		if e.err != nil && !errors.Is(e.err, context.Canceled) && !errors.Is(e.err, context.DeadlineExceeded) {
			err = multierr.Append(err, e.err)
		}
	}

	s.logger.Info("all workers stopped")
	return err
}
