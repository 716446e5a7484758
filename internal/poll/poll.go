// Package poll runs one complete poll cycle: fetch the match list, reconcile
// the live-match tracker, walk each tracked match's timeline, classify and
// dispatch newly observed events, and checkpoint state along the way.
//
// A cycle is single-threaded and synchronous; the program is meant to be
// re-run periodically by an external scheduler. There are no retries inside
// a cycle: a match whose fetch fails is simply picked up again on the next
// invocation, with its watermark untouched.
package poll

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/mbichoffe/worldcup-notifier/internal/classify"
	"github.com/mbichoffe/worldcup-notifier/internal/fifa"
	"github.com/mbichoffe/worldcup-notifier/internal/logger"
	"github.com/mbichoffe/worldcup-notifier/internal/notify"
	"github.com/mbichoffe/worldcup-notifier/internal/state"
)

// API is the slice of the FIFA client the orchestrator uses.
type API interface {
	Matches() ([]fifa.Match, error)
	Timeline(stageID, matchID string) ([]fifa.TimelineEvent, error)
}

// Runner ties one poll cycle together.
type Runner struct {
	API        API
	DB         *state.DB
	Store      *state.Store
	Classifier *classify.Classifier
	Dispatcher *notify.Dispatcher

	// Now is the clock used for new watermarks; defaults to time.Now.
	Now func() time.Time
}

func (r *Runner) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now().UTC()
}

// Run executes one cycle. Per-match fetch failures are logged and skipped;
// only a state persistence failure is fatal, since silently losing the
// watermark risks duplicate notifications on the next run.
func (r *Runner) Run() error {
	start := time.Now()
	defer func() {
		logger.RecordTiming("poll.cycle", time.Since(start))
	}()

	r.reconcile()
	if err := r.Store.Save(r.DB); err != nil {
		return fmt.Errorf("persisting state after reconcile: %w", err)
	}

	// Iterate over a copy: end-of-game removal mutates the live set.
	tracked := make([]string, len(r.DB.Live))
	copy(tracked, r.DB.Live)

	for _, id := range tracked {
		if err := r.processMatch(id); err != nil {
			return err
		}
	}

	if err := r.Store.Save(r.DB); err != nil {
		return fmt.Errorf("persisting state: %w", err)
	}
	return nil
}

// reconcile refreshes the live-match set from the calendar list and
// announces matches that just went live. List fetch failures (and conditional
// cache hits) leave the tracked set exactly as it was.
func (r *Runner) reconcile() {
	matches, err := r.API.Matches()
	if err != nil {
		if errors.Is(err, fifa.ErrNotModified) {
			logger.Debug("Match list unchanged", nil)
		} else {
			logger.Error("Match list fetch failed, keeping tracked matches", nil, err)
		}
		return
	}

	newlyLive := r.DB.Reconcile(matches, r.now())
	for _, st := range newlyLive {
		logger.Info("Match is now live", logger.Fields{
			"match_id": st.ID,
			"home":     st.HomeTeam,
			"away":     st.AwayTeam,
		})
		r.Dispatcher.Dispatch(r.Classifier.MatchStarting(st))
		logger.IncrCounter("poll.matches_live")
	}
}

// processMatch walks one tracked match's timeline. Only a persistence
// failure is returned; fetch and classification problems skip the match or
// event and leave the watermark untouched for re-derivation next run.
func (r *Runner) processMatch(id string) error {
	st, ok := r.DB.States[id]
	if !ok {
		// Live set and state map out of sync; drop the orphan id.
		r.DB.Remove(id)
		return nil
	}

	events, err := r.API.Timeline(st.StageID, id)
	if err != nil {
		if errors.Is(err, fifa.ErrNotModified) {
			return nil
		}
		// An unwritable state file is fatal; a plain fetch failure waits
		// for the next invocation.
		if errors.Is(err, fifa.ErrCachePersist) {
			return fmt.Errorf("fetching timeline for match %s: %w", id, err)
		}
		logger.Warn("Timeline fetch failed, skipping match this cycle", logger.Fields{
			"match_id": id,
			"error":    err.Error(),
		})
		return nil
	}

	// Later messages (period end) depend on score state from earlier ones,
	// so the batch must be processed in chronological order.
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.Time.Before(events[j].Timestamp.Time)
	})

	var latest time.Time
	removed := false

	for _, ev := range events {
		if st.Seen(ev.Timestamp.Time) {
			continue
		}

		result, err := r.Classifier.Classify(ev, st)
		if err != nil {
			logger.Warn("Skipping malformed event", logger.Fields{
				"match_id": id,
				"error":    err.Error(),
			})
			latest = ev.Timestamp.Time
			continue
		}

		if result.EndOfGame {
			logger.Info("Match finished, removing from tracking", logger.Fields{
				"match_id": id,
			})
			r.DB.Remove(id)
			removed = true
			break
		}

		if result.Notification != nil {
			r.Dispatcher.Dispatch(*result.Notification)
			logger.IncrCounter("poll.events_announced")
		}
		latest = ev.Timestamp.Time
	}

	if !removed && latest.After(st.LastProcessed) {
		st.LastProcessed = latest
	}

	if err := r.Store.Save(r.DB); err != nil {
		return fmt.Errorf("persisting state after match %s: %w", id, err)
	}
	return nil
}
