package grabber

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gofrs/flock"

	"github.com/semperland/events-grabber/internal/logger"
	"github.com/semperland/events-grabber/internal/metrics"
	"github.com/semperland/events-grabber/internal/store"
)

// CycleResult summarizes one grab cycle.
type CycleResult struct {
	StartBlock uint64
	EndBlock   uint64
	Collected  int
	Applied    int
	Skipped    bool
}

// RunnerConfig tunes the runner.
type RunnerConfig struct {
	// LockPath is the file lock serializing cycles across processes.
	LockPath string

	// UseTransactions makes each cycle atomic: either every event of the
	// cycle is applied and the checkpoint advances, or nothing changes.
	UseTransactions bool

	// Interval is the pause between cycles in loop mode.
	Interval time.Duration
}

// Runner executes grab cycles: collect every handler's events since the
// checkpoint, apply them in global chain order, advance the checkpoint.
type Runner struct {
	db       *sql.DB
	source   LogSource
	handlers []Handler
	byName   map[string]Handler
	lock     *flock.Flock
	cfg      RunnerConfig
	log      *logger.Logger
}

// NewRunner creates a runner over the given handlers.
func NewRunner(db *sql.DB, source LogSource, handlers []Handler, cfg RunnerConfig, log *logger.Logger) *Runner {
	byName := make(map[string]Handler, len(handlers))
	for _, h := range handlers {
		byName[h.Contract().Name] = h
	}

	return &Runner{
		db:       db,
		source:   source,
		handlers: handlers,
		byName:   byName,
		lock:     flock.New(cfg.LockPath),
		cfg:      cfg,
		log:      log.WithComponent("runner"),
	}
}

// RunCycle executes one grab cycle under the process-wide lock. The lock
// acquisition blocks until every concurrent invocation ahead of this one has
// finished; with many stacked invocations the wait is unbounded.
func (r *Runner) RunCycle(ctx context.Context) (*CycleResult, error) {
	if err := r.lock.Lock(); err != nil {
		return nil, fmt.Errorf("acquiring lock %s: %w", r.cfg.LockPath, err)
	}

	defer func() {
		if err := r.lock.Unlock(); err != nil {
			r.log.Errorw("failed to release lock", "path", r.cfg.LockPath, "error", err)
		}
	}()

	started := time.Now()

	result, err := r.cycle(ctx)

	metrics.CycleDuration.Observe(time.Since(started).Seconds())

	if err != nil {
		metrics.CycleRuns.WithLabelValues("failure").Inc()

		return nil, err
	}

	metrics.CycleRuns.WithLabelValues("success").Inc()

	return result, nil
}

func (r *Runner) cycle(ctx context.Context) (*CycleResult, error) {
	var q store.Querier = r.db

	var tx *sql.Tx

	if r.cfg.UseTransactions {
		var err error

		tx, err = r.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("starting cycle transaction: %w", err)
		}

		defer func() {
			if tx != nil {
				_ = tx.Rollback()
			}
		}()

		q = tx
	}

	lastBlock, found, err := store.GetLastBlock(q)
	if err != nil {
		return nil, err
	}

	startBlock := uint64(0)
	if found {
		startBlock = lastBlock + 1
	}

	endBlock, err := r.source.HeadBlock(ctx)
	if err != nil {
		return nil, err
	}

	if endBlock < startBlock {
		r.log.Debugw("no new blocks", "start", startBlock, "head", endBlock)

		return &CycleResult{StartBlock: startBlock, EndBlock: endBlock, Skipped: true}, nil
	}

	list := new(EventList)

	for _, handler := range r.handlers {
		events, err := Collect(ctx, r.source, handler, startBlock, endBlock)
		if err != nil {
			return nil, err
		}

		metrics.EventsCollected.WithLabelValues(handler.Contract().Name).Add(float64(len(events)))
		list.Add(events...)
	}

	applied := 0

	for _, event := range list.Sorted() {
		handler, ok := r.byName[event.Contract]
		if !ok {
			continue
		}

		if err := handler.Apply(ctx, q, event); err != nil {
			return nil, fmt.Errorf("applying %s.%s at block %d: %w",
				event.Contract, event.Name, event.BlockNumber, err)
		}

		metrics.EventsApplied.WithLabelValues(event.Contract).Inc()
		applied++
	}

	if err := store.SetLastBlock(q, endBlock); err != nil {
		return nil, err
	}

	if tx != nil {
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("committing cycle transaction: %w", err)
		}

		tx = nil
	}

	metrics.LastProcessedBlock.Set(float64(endBlock))

	return &CycleResult{
		StartBlock: startBlock,
		EndBlock:   endBlock,
		Collected:  list.Len(),
		Applied:    applied,
	}, nil
}

// Run executes cycles forever, pausing cfg.Interval between them, until the
// context is canceled. Individual cycle failures are logged and the loop
// keeps going.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	for {
		result, err := r.RunCycle(ctx)

		switch {
		case err != nil:
			r.log.Errorw("grab cycle failed", "error", err)
		case result.Skipped:
			r.log.Debugw("grab cycle skipped", "head", result.EndBlock)
		default:
			r.log.Infow("grab cycle finished",
				"start", result.StartBlock, "end", result.EndBlock,
				"collected", result.Collected, "applied", result.Applied)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
