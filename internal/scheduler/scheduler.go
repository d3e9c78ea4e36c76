// Package scheduler drives the periodic refresh cycle: fetch the source
// snapshot, classify its shape, parse intervals, apply tariffs, publish,
// and record.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"tariffwatch/internal/logger"
	"tariffwatch/internal/metrics"
	"tariffwatch/internal/model"
	"tariffwatch/internal/parser"
	"tariffwatch/internal/pricing"
	"tariffwatch/internal/publisher"
	"tariffwatch/internal/recorder"
	"tariffwatch/internal/source"
)

// Scheduler manages the cron-triggered refresh cycle.
type Scheduler struct {
	Cron      *cron.Cron
	Source    source.Source
	Publisher publisher.Publisher
	Recorder  recorder.Recorder
	Params    pricing.CostParameters
	Entity    string
	Ctx       context.Context

	// Now is the clock; overridable in tests.
	Now func() time.Time

	// cycleMu coalesces overlapping triggers into one in-flight cycle.
	cycleMu sync.Mutex
}

// NewScheduler creates a scheduler. params is re-read per cycle by value,
// so callers may hand in a fresh resolution each time via RefreshNow.
func NewScheduler(ctx context.Context, src source.Source, pub publisher.Publisher, rec recorder.Recorder, params pricing.CostParameters, entity string) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Source:    src,
		Publisher: pub,
		Recorder:  rec,
		Params:    params,
		Entity:    entity,
		Ctx:       ctx,
		Now:       time.Now,
	}
}

// Register wires the periodic refresh task.
func (s *Scheduler) Register(refreshCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	logger.WithComponent("scheduler").Info("scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	logger.WithComponent("scheduler").Info("scheduler stopped")
}

// RefreshNow executes one refresh cycle immediately (manual trigger /
// run-on-start).
func (s *Scheduler) RefreshNow() {
	s.refreshTask()
}

func (s *Scheduler) refreshTask() {
	if !s.cycleMu.TryLock() {
		logger.WithComponent("scheduler").Debug("refresh already in flight, trigger coalesced")
		metrics.ObserveCycle(metrics.ResultSkippedInFlight, 0)
		return
	}
	defer s.cycleMu.Unlock()

	start := time.Now()
	result := s.runCycle()
	metrics.ObserveCycle(result, time.Since(start))
}

// runCycle performs one fetch-classify-parse-price-publish-record pass and
// returns the outcome label. Every failure is scoped to this cycle; the
// next trigger retries from scratch.
func (s *Scheduler) runCycle() string {
	log := logger.WithComponent("scheduler")

	snap, err := s.Source.Fetch(s.Ctx)
	if err != nil {
		if errors.Is(err, source.ErrUnavailable) || errors.Is(err, source.ErrNoAttributes) {
			log.WithError(err).Warn("source data unavailable, will retry next cycle")
		} else {
			log.WithError(err).Error("source fetch failed")
		}
		return metrics.ResultSourceUnavailable
	}

	cls := parser.Classify(snap.Attributes)
	if cls.Shape == model.ShapeUnknown {
		clsErr := &parser.ClassificationError{Reason: cls.Reason, Details: cls.Details}
		log.WithError(clsErr).WithField("details", cls.Details).Warn("source shape not recognized")
		return metrics.ResultUnknownShape
	}

	now := s.Now()
	parsed, err := parser.Parse(cls.Shape, snap.Attributes, now)
	if err != nil {
		log.WithError(err).Warn("parse failed")
		return metrics.ResultUnknownShape
	}
	metrics.AddSkippedEntries(parsed.Skipped)
	if parsed.Skipped > 0 {
		log.Warnf("skipped %d malformed source entries", parsed.Skipped)
	}
	if len(parsed.Today) == 0 {
		log.WithError(parser.ErrNoTodayPrices).Warnf("shape %s parsed but today bucket is empty", cls.Shape)
		return metrics.ResultNoTodayPrices
	}

	consumption, injection := pricing.Apply(parsed, s.Params)

	if err := s.Publisher.Publish(s.Ctx, consumption, injection); err != nil {
		log.WithError(err).Error("publish failed")
		return metrics.ResultPublishError
	}

	if err := s.Recorder.RecordCycle(&recorder.CycleSnapshot{
		SourceEntity: s.Entity,
		Shape:        cls.Shape,
		Parsed:       parsed,
		Consumption:  consumption,
		Injection:    injection,
	}); err != nil {
		// History is best effort; the published state is already out.
		log.WithError(err).Error("record cycle failed")
	}

	log.WithFields(map[string]any{
		"shape":          string(cls.Shape),
		"today":          len(parsed.Today),
		"tomorrow":       len(parsed.Tomorrow),
		"tomorrow_valid": parsed.TomorrowValid,
	}).Info("refresh cycle complete")
	return metrics.ResultOK
}
