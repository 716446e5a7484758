package match

import (
	"time"

	"github.com/mbichoffe/worldcup-notifier/internal/fifa"
)

// Tracker holds the live-match set and the per-match states. Its fields are
// the match-tracking portion of the durable state document; every id in Live
// has a corresponding entry in States.
type Tracker struct {
	Live   []string          `json:"live_matches"`
	States map[string]*State `json:"matches"`
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		Live:   make([]string, 0),
		States: make(map[string]*State),
	}
}

// Tracked reports whether a match id is in the live set.
func (t *Tracker) Tracked(id string) bool {
	_, ok := t.States[id]
	return ok
}

// Reconcile applies a raw calendar match list to the tracker and returns the
// matches that just transitioned to live, in list order.
//
// Entries reporting live status that are not yet tracked get a fresh State
// (watermark = now) and live-set membership. Already-tracked entries only
// refresh their cached score string. Matches missing from the list, or whose
// status reverted, stay tracked: removal happens exclusively on the explicit
// end-of-game timeline event, so a transient upstream omission never loses
// tracking.
func (t *Tracker) Reconcile(list []fifa.Match, now time.Time) []*State {
	if t.States == nil {
		t.States = make(map[string]*State)
	}

	newlyLive := make([]*State, 0)
	for _, m := range list {
		if m.Status == fifa.StatusLive && !t.Tracked(m.ID) {
			st := NewState(m, now)
			t.States[m.ID] = st
			t.Live = append(t.Live, m.ID)
			newlyLive = append(newlyLive, st)
		}

		if st, ok := t.States[m.ID]; ok {
			st.RefreshScore(m)
		}
	}

	return newlyLive
}

// Remove drops a match from the live set and deletes its state. The
// transition is terminal: a removed match is never re-tracked under the same
// live cycle.
func (t *Tracker) Remove(id string) {
	delete(t.States, id)
	for i, live := range t.Live {
		if live == id {
			t.Live = append(t.Live[:i], t.Live[i+1:]...)
			break
		}
	}
}
