// Package sync provides calendar synchronization from multiple sources.
package sync

import (
	"context"
	"log/slog"
	"time"

	"github.com/cpuguy83/almanac"
	"github.com/cpuguy83/almanac/internal/calendar"
	"github.com/cpuguy83/almanac/internal/config"
	"github.com/cpuguy83/almanac/internal/filter"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentFetches bounds how many sources are fetched at once.
const maxConcurrentFetches = 4

// sourceWithFilter pairs a calendar source with its optional filter.
type sourceWithFilter struct {
	source calendar.Source
	filter *filter.Filter
}

// Syncer handles calendar synchronization from multiple sources.
type Syncer struct {
	sources  []sourceWithFilter
	filter   *filter.Filter
	interval time.Duration
	ahead    almanac.Duration
	behind   almanac.Duration
}

// NewSyncer creates a new Syncer from configuration.
func NewSyncer(cfg *config.Config) (*Syncer, error) {
	sources, err := createSources(cfg.Sources)
	if err != nil {
		return nil, err
	}

	global, err := filter.New(cfg.Filters)
	if err != nil {
		return nil, err
	}

	return &Syncer{
		sources:  sources,
		filter:   global,
		interval: cfg.Sync.Interval,
		ahead:    cfg.Sync.Ahead,
		behind:   cfg.Sync.Behind,
	}, nil
}

// Interval returns the configured sync interval.
func (s *Syncer) Interval() time.Duration {
	return s.interval
}

// SourceCount returns the number of configured sources.
func (s *Syncer) SourceCount() int {
	return len(s.sources)
}

// Window returns the range fetched when syncing at now.
func (s *Syncer) Window(now almanac.DateTime) almanac.Interval {
	return almanac.IntervalFromDateTimes(now.Minus(s.behind), now.Plus(s.ahead))
}

// Sync fetches all sources, applies filters, and returns merged events.
func (s *Syncer) Sync(ctx context.Context) ([]calendar.Event, error) {
	window := s.Window(almanac.Now())
	slog.Info("starting sync", "sources", len(s.sources), "window", window.String())

	type result struct {
		events   []calendar.Event
		name     string
		fetched  int // count before filtering
		filtered int // count after filtering
		err      error
	}

	results := make([]result, len(s.sources))

	var g errgroup.Group
	g.SetLimit(maxConcurrentFetches)
	for i, swf := range s.sources {
		g.Go(func() error {
			name := swf.source.Name()
			slog.Debug("fetching source", "name", name)

			events, err := swf.source.Fetch(ctx, window)
			if err != nil {
				// Failures are per source; the rest still sync.
				results[i] = result{name: name, err: err}
				return nil
			}

			fetched := len(events)

			// Apply per-source filter (if no rules, all events pass through)
			if swf.filter != nil {
				events = swf.filter.Apply(events)
			}

			results[i] = result{
				events:   events,
				name:     name,
				fetched:  fetched,
				filtered: len(events),
			}
			return nil
		})
	}
	g.Wait()

	var sets [][]calendar.Event
	var firstErr error
	for _, r := range results {
		if r.err != nil {
			slog.Warn("failed to fetch source", "name", r.name, "error", r.err)
			if firstErr == nil {
				firstErr = r.err
			}
			continue
		}
		slog.Info("fetched source", "name", r.name, "fetched", r.fetched, "after_filter", r.filtered)
		sets = append(sets, r.events)
	}

	merged := calendar.Merge(sets...)
	if s.filter != nil {
		merged = s.filter.Apply(merged)
	}

	slog.Info("sync complete", "events", len(merged))

	// Return events even if some sources failed (partial success)
	// Only return error if we got zero events and there was an error
	if len(merged) == 0 && firstErr != nil {
		return nil, firstErr
	}

	return merged, nil
}

// Run starts the sync loop, calling onSync after each sync completes.
// The callback receives the synced events (or nil) and any error.
// Run blocks until the context is cancelled.
func (s *Syncer) Run(ctx context.Context, onSync func([]calendar.Event, error)) {
	// Initial sync
	events, err := s.Sync(ctx)
	onSync(events, err)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			events, err := s.Sync(ctx)
			onSync(events, err)
		case <-ctx.Done():
			return
		}
	}
}

// createSources creates calendar sources with their per-source filters from configuration.
func createSources(cfgs []config.SourceConfig) ([]sourceWithFilter, error) {
	var sources []sourceWithFilter

	for _, cfg := range cfgs {
		var src calendar.Source

		switch cfg.Type {
		case "ics":
			password, err := cfg.GetPassword()
			if err != nil {
				return nil, err
			}
			src = calendar.NewICSSource(cfg.Name, cfg.URL, cfg.Username, password)

		case "caldav":
			password, err := cfg.GetPassword()
			if err != nil {
				return nil, err
			}
			src = calendar.NewCalDAVSource(cfg.Name, cfg.URL, cfg.Username, password, cfg.Calendars)

		case "icloud":
			password, err := cfg.GetPassword()
			if err != nil {
				return nil, err
			}
			src = calendar.NewICloudSource(cfg.Name, cfg.Username, password, cfg.Calendars)

		case "ms365":
			src = calendar.NewMS365Source(cfg.Name, cfg.ClientID)

		default:
			slog.Warn("unknown source type", "type", cfg.Type, "name", cfg.Name)
			continue
		}

		// Create per-source filter (if no rules, filter passes everything through)
		f, err := filter.New(cfg.Filters)
		if err != nil {
			return nil, err
		}

		sources = append(sources, sourceWithFilter{
			source: src,
			filter: f,
		})
	}

	return sources, nil
}
