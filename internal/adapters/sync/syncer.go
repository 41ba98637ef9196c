package sync

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Syncer periodically pulls the configured ICS sources, expands recurrences
// over a sliding window around now, and publishes the result to a Snapshot.
type Syncer struct {
	fetcher  *Fetcher
	sources  []Source
	snapshot *Snapshot

	// Window half-widths around the current time. The calendar never shows
	// events outside the navigable range, so expansion is bounded.
	lookBehind time.Duration
	lookAhead  time.Duration

	cron *cron.Cron
}

// NewSyncer wires a Syncer over the given sources.
// PRE: snapshot is non-nil
func NewSyncer(sources []Source, snapshot *Snapshot) *Syncer {
	return &Syncer{
		fetcher:    NewFetcher(),
		sources:    sources,
		snapshot:   snapshot,
		lookBehind: 90 * 24 * time.Hour,
		lookAhead:  366 * 24 * time.Hour,
	}
}

// Run performs one full sync pass. A pass that fetches nothing leaves the
// previous snapshot in place and records the failure.
// PRE: ctx is valid
// POST: on success the snapshot holds the freshly expanded events
func (s *Syncer) Run(ctx context.Context) error {
	if len(s.sources) == 0 {
		s.snapshot.Replace(nil, time.Now())
		return nil
	}

	results, errs := s.fetcher.FetchAll(ctx, s.sources)
	if len(results) == 0 {
		err := errors.Join(errs...)
		if err == nil {
			err = errors.New("no ICS sources produced a body")
		}
		s.snapshot.RecordFailure(err)
		return err
	}

	now := time.Now()
	rangeStart := now.Add(-s.lookBehind)
	rangeEnd := now.Add(s.lookAhead)

	var all []parsedEvent
	for _, res := range results {
		events, err := parseICS(res.Source, res.Body)
		if err != nil {
			slog.Error("ics parse failed", "source", res.Source.ID, "error", err)
			errs = append(errs, err)
			continue
		}
		all = append(all, events...)
	}

	raw := expandWindow(all, rangeStart, rangeEnd)
	s.snapshot.Replace(raw, now)
	slog.Info("calendar sync completed",
		"sources", len(s.sources),
		"fetched", len(results),
		"events", len(raw),
		"errors", len(errs),
	)
	return nil
}

// Start schedules recurring syncs with the given cron expression and kicks
// off an immediate first pass in the background.
// PRE: spec is a valid cron expression, e.g. "*/15 * * * *"
// POST: a cron scheduler is running until Stop is called
func (s *Syncer) Start(spec string) error {
	s.cron = cron.New()
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if err := s.Run(ctx); err != nil {
			slog.Error("scheduled calendar sync failed", "error", err)
		}
	})
	if err != nil {
		return err
	}
	s.cron.Start()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if err := s.Run(ctx); err != nil {
			slog.Error("initial calendar sync failed", "error", err)
		}
	}()
	return nil
}

// Stop halts the scheduler. Pending runs finish.
func (s *Syncer) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}
