package sweep

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dharmasatrya/flightfinder/internal/metrics"
	"github.com/dharmasatrya/flightfinder/internal/models"
	"github.com/dharmasatrya/flightfinder/internal/providers"
	"github.com/dharmasatrya/flightfinder/internal/timefmt"
)

type Config struct {
	// Workers bounds concurrent searches. 1 keeps the sweep sequential.
	Workers     int
	MaxRetries  int
	RetryDelays []time.Duration
	// TolerateFailures records failed offsets on their entry instead of
	// aborting the whole sweep.
	TolerateFailures bool
}

func DefaultConfig() Config {
	return Config{
		Workers:     1,
		MaxRetries:  0,
		RetryDelays: []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 400 * time.Millisecond},
	}
}

// Entry is one date-shifted search of a window.
type Entry struct {
	Label     string
	Offset    int
	Departure time.Time
	Return    *time.Time
	Response  json.RawMessage
	Err       error
}

type Window struct {
	Direction models.Direction
	Inclusive bool
	Entries   []Entry
}

// Responses maps each successful entry's label to its raw response.
func (w *Window) Responses() map[string]json.RawMessage {
	out := make(map[string]json.RawMessage, len(w.Entries))
	for _, e := range w.Entries {
		if e.Err == nil && e.Response != nil {
			out[e.Label] = e.Response
		}
	}
	return out
}

// Failed lists the labels of entries that ended in an error.
func (w *Window) Failed() []string {
	var out []string
	for _, e := range w.Entries {
		if e.Err != nil {
			out = append(out, e.Label)
		}
	}
	return out
}

type Sweeper struct {
	provider providers.Provider
	config   Config
}

func NewSweeper(provider providers.Provider, config Config) *Sweeper {
	if config.Workers < 1 {
		config.Workers = 1
	}
	return &Sweeper{
		provider: provider,
		config:   config,
	}
}

// Label identifies a search by route and dates, e.g.
// "JFK-to-SFO (2024-06-01/2024-06-08)". A missing return date renders as
// "None".
func Label(q models.Query) string {
	ret := "None"
	if q.Return != nil {
		ret = q.Return.Format(timefmt.DateLayout)
	}
	return fmt.Sprintf("%s-to-%s (%s/%s)", q.Origin, q.Destination, q.Departure.Format(timefmt.DateLayout), ret)
}

// SearchSingleDirection searches the base dates shifted by 1..rangeDays
// days (0..rangeDays when inclusive) in one direction. Entries are ordered
// by offset.
func (s *Sweeper) SearchSingleDirection(ctx context.Context, q models.Query, dir models.Direction, rangeDays int, inclusive bool) (*Window, error) {
	sign, err := directionSign(dir)
	if err != nil {
		return nil, err
	}
	if rangeDays < 0 {
		return nil, models.ErrInvalidRange
	}

	start := 1
	if inclusive {
		start = 0
	}

	window := &Window{Direction: dir, Inclusive: inclusive}
	queries := make([]models.Query, 0, rangeDays-start+1)
	for i := start; i <= rangeDays; i++ {
		shifted := q.Shift(sign * i)
		queries = append(queries, shifted)
		window.Entries = append(window.Entries, Entry{
			Label:     Label(shifted),
			Offset:    i,
			Departure: shifted.Departure,
			Return:    shifted.Return,
		})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Workers)

	for idx := range window.Entries {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return s.run(gctx, dir, queries[idx], &window.Entries[idx])
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	slog.Info("sweep window completed",
		"direction", dir,
		"inclusive", inclusive,
		"searches", len(window.Entries),
		"failed", len(window.Failed()))

	return window, nil
}

// SearchBothDirections runs the earlier window including the base dates and
// the later window excluding them, so no date is searched twice.
func (s *Sweeper) SearchBothDirections(ctx context.Context, q models.Query, rangeDays int) ([]*Window, error) {
	earlier, err := s.SearchSingleDirection(ctx, q, models.DirectionEarlier, rangeDays, true)
	if err != nil {
		return nil, err
	}
	later, err := s.SearchSingleDirection(ctx, q, models.DirectionLater, rangeDays, false)
	if err != nil {
		return nil, err
	}
	return []*Window{earlier, later}, nil
}

func (s *Sweeper) run(ctx context.Context, dir models.Direction, q models.Query, entry *Entry) error {
	slog.Debug("sweep search started", "label", entry.Label, "offset", entry.Offset)

	resp, err := s.searchWithRetry(ctx, q)
	if err != nil {
		metrics.SweepSearches.WithLabelValues(string(dir), "error").Inc()
		wrapped := fmt.Errorf("search %s: %w", entry.Label, err)
		if s.config.TolerateFailures {
			slog.Warn("sweep search failed", "label", entry.Label, "error", err)
			entry.Err = wrapped
			return nil
		}
		return wrapped
	}

	metrics.SweepSearches.WithLabelValues(string(dir), "ok").Inc()
	entry.Response = resp
	return nil
}

func (s *Sweeper) searchWithRetry(ctx context.Context, q models.Query) (json.RawMessage, error) {
	var lastErr error

	for attempt := 0; attempt <= s.config.MaxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if attempt > 0 && len(s.config.RetryDelays) > 0 {
			delayIdx := attempt - 1
			if delayIdx >= len(s.config.RetryDelays) {
				delayIdx = len(s.config.RetryDelays) - 1
			}

			select {
			case <-time.After(s.config.RetryDelays[delayIdx]):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		resp, err := s.provider.Search(ctx, q)
		if err == nil {
			return resp, nil
		}

		lastErr = err
		slog.Warn("provider search attempt failed",
			"provider", s.provider.Name(),
			"label", Label(q),
			"attempt", attempt+1,
			"error", err)
	}

	return nil, lastErr
}

func directionSign(dir models.Direction) (int, error) {
	switch dir {
	case models.DirectionEarlier:
		return -1, nil
	case models.DirectionLater:
		return 1, nil
	default:
		return 0, models.ErrInvalidDirection
	}
}
