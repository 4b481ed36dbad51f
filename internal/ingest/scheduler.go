package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/looplab/fsm"
	"go.uber.org/zap"

	"chain-metrics/internal/domain"
)

const (
	StateWaiting  = "waiting"
	StateFetching = "fetching"

	eventFetch = "fetch"
	eventDone  = "done"
)

// Scheduler ingests one snapshot per interval until its context is canceled.
// A failed cycle is logged and dropped; the next tick starts a fresh one.
type Scheduler struct {
	logger   *zap.Logger
	pipeline Pipeline
	metrics  Metrics
	interval time.Duration
	state    *fsm.FSM
	ticker   func(time.Duration) (<-chan time.Time, func())
}

func NewScheduler(pipeline Pipeline, metrics Metrics, interval time.Duration, logger *zap.Logger) (*Scheduler, error) {
	if pipeline == nil {
		return nil, errors.New("ingest pipeline is required")
	}
	if metrics == nil {
		return nil, errors.New("ingest metrics is required")
	}
	if interval <= 0 {
		return nil, fmt.Errorf("invalid ingest interval %s", interval)
	}

	s := &Scheduler{
		logger:   logger.Named("scheduler"),
		pipeline: pipeline,
		metrics:  metrics,
		interval: interval,
		ticker:   newTicker,
	}
	s.state = fsm.NewFSM(
		StateWaiting,
		fsm.Events{
			{Name: eventFetch, Src: []string{StateWaiting}, Dst: StateFetching},
			{Name: eventDone, Src: []string{StateFetching}, Dst: StateWaiting},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				s.metrics.SetFetching(e.Dst == StateFetching)
			},
		},
	)
	return s, nil
}

func newTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

// Run performs a cycle right away and then one per tick. It returns the
// context error once ctx is canceled; a cycle already in flight completes.
func (s *Scheduler) Run(ctx context.Context) error {
	ticks, stop := s.ticker(s.interval)
	defer stop()

	s.logger.Info("scheduler started", zap.Duration("interval", s.interval))
	for {
		if ctx.Err() != nil {
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		}

		_ = s.RunOnce(ctx)

		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-ticks:
		}
	}
}

// RunOnce moves waiting -> fetching, ingests one snapshot and moves back to
// waiting whatever the outcome. The error is returned for callers that want
// it; Run ignores it. Canceling ctx does not cut a started cycle short.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	ctx = context.WithoutCancel(ctx)

	// Transitions ignore ctx; a canceled event leaves the machine between
	// states.
	if err := s.state.Event(context.Background(), eventFetch); err != nil {
		return fmt.Errorf("start cycle: %w", err)
	}
	defer func() {
		if err := s.state.Event(context.Background(), eventDone); err != nil {
			s.logger.Error("finish cycle", zap.Error(err))
		}
	}()

	snapshot, err := s.pipeline.FetchAndIngest(ctx, OriginScheduler)
	if err != nil {
		s.logger.Warn("ingestion cycle failed, sample dropped",
			zap.String("kind", string(domain.KindOf(err))),
			zap.Error(err),
		)
		return err
	}

	s.logger.Info("ingested snapshot",
		zap.Int64("block_height", snapshot.BlockHeight),
		zap.Int64("mempool_size", snapshot.MempoolSize),
	)
	return nil
}

// State reports the current scheduler state.
func (s *Scheduler) State() string {
	return s.state.Current()
}
