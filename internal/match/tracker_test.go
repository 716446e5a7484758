package match

import (
	"testing"
	"time"

	"github.com/mbichoffe/worldcup-notifier/internal/fifa"
)

func calendarMatch(id string, status int) fifa.Match {
	return fifa.Match{
		ID:      id,
		StageID: "275073",
		Status:  status,
		Home: fifa.Team{
			ID:    "43924",
			Score: 1,
			Name:  []fifa.LocalizedName{{Locale: "en-GB", Description: "Brazil"}},
		},
		Away: fifa.Team{
			ID:    "43935",
			Score: 2,
			Name:  []fifa.LocalizedName{{Locale: "en-GB", Description: "Belgium"}},
		},
	}
}

func TestTracker_Reconcile(t *testing.T) {
	now := time.Date(2018, 7, 6, 18, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		setup         func(*Tracker)
		list          []fifa.Match
		wantNewlyLive []string
		wantTracked   []string
	}{
		{
			name: "untracked live match is picked up",
			list: []fifa.Match{
				calendarMatch("100", fifa.StatusLive),
				calendarMatch("200", fifa.StatusNotStarted),
			},
			wantNewlyLive: []string{"100"},
			wantTracked:   []string{"100"},
		},
		{
			name: "already tracked match is not re-announced",
			setup: func(tr *Tracker) {
				tr.Reconcile([]fifa.Match{calendarMatch("100", fifa.StatusLive)}, now)
			},
			list:          []fifa.Match{calendarMatch("100", fifa.StatusLive)},
			wantNewlyLive: nil,
			wantTracked:   []string{"100"},
		},
		{
			name: "tracked match missing from list stays tracked",
			setup: func(tr *Tracker) {
				tr.Reconcile([]fifa.Match{calendarMatch("100", fifa.StatusLive)}, now)
			},
			list:          []fifa.Match{calendarMatch("200", fifa.StatusPrematch)},
			wantNewlyLive: nil,
			wantTracked:   []string{"100"},
		},
		{
			name: "status reverting from live does not untrack",
			setup: func(tr *Tracker) {
				tr.Reconcile([]fifa.Match{calendarMatch("100", fifa.StatusLive)}, now)
			},
			list:          []fifa.Match{calendarMatch("100", fifa.StatusFinished)},
			wantNewlyLive: nil,
			wantTracked:   []string{"100"},
		},
		{
			name: "finished match is never picked up",
			list: []fifa.Match{
				calendarMatch("100", fifa.StatusFinished),
				calendarMatch("200", fifa.StatusPrematch),
			},
			wantNewlyLive: nil,
			wantTracked:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTracker()
			if tt.setup != nil {
				tt.setup(tr)
			}

			newlyLive := tr.Reconcile(tt.list, now)

			if len(newlyLive) != len(tt.wantNewlyLive) {
				t.Fatalf("Reconcile() returned %d newly live, want %d", len(newlyLive), len(tt.wantNewlyLive))
			}
			for i, st := range newlyLive {
				if st.ID != tt.wantNewlyLive[i] {
					t.Errorf("newly live [%d] = %s, want %s", i, st.ID, tt.wantNewlyLive[i])
				}
				if !st.LastProcessed.Equal(now) {
					t.Errorf("new state watermark = %v, want %v", st.LastProcessed, now)
				}
			}

			if len(tr.Live) != len(tt.wantTracked) {
				t.Fatalf("live set = %v, want %v", tr.Live, tt.wantTracked)
			}
			for i, id := range tt.wantTracked {
				if tr.Live[i] != id {
					t.Errorf("live set [%d] = %s, want %s", i, tr.Live[i], id)
				}
				if !tr.Tracked(id) {
					t.Errorf("Tracked(%s) = false, want true", id)
				}
			}
		})
	}
}

func TestTracker_Reconcile_RefreshesScore(t *testing.T) {
	now := time.Date(2018, 7, 6, 18, 0, 0, 0, time.UTC)
	tr := NewTracker()
	tr.Reconcile([]fifa.Match{calendarMatch("100", fifa.StatusLive)}, now)

	updated := calendarMatch("100", fifa.StatusLive)
	updated.Home.Score = 3
	tr.Reconcile([]fifa.Match{updated}, now.Add(time.Minute))

	if got, want := tr.States["100"].Score, "Brazil 3 - 2 Belgium"; got != want {
		t.Errorf("score = %q, want %q", got, want)
	}
}

func TestTracker_Remove(t *testing.T) {
	now := time.Date(2018, 7, 6, 18, 0, 0, 0, time.UTC)
	tr := NewTracker()
	tr.Reconcile([]fifa.Match{
		calendarMatch("100", fifa.StatusLive),
		calendarMatch("200", fifa.StatusLive),
	}, now)

	tr.Remove("100")

	if tr.Tracked("100") {
		t.Error("Tracked(100) = true after Remove")
	}
	if len(tr.Live) != 1 || tr.Live[0] != "200" {
		t.Errorf("live set = %v, want [200]", tr.Live)
	}

	// Removing an unknown id is a no-op.
	tr.Remove("999")
	if len(tr.Live) != 1 {
		t.Errorf("live set = %v after removing unknown id", tr.Live)
	}
}

func TestState_OtherTeam(t *testing.T) {
	st := NewState(calendarMatch("100", fifa.StatusLive), time.Now())

	tests := []struct {
		name   string
		teamID string
		want   string
		wantOK bool
	}{
		{"home team fouled, away named", "43924", "Belgium", true},
		{"away team fouled, home named", "43935", "Brazil", true},
		{"unknown team", "99999", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := st.OtherTeam(tt.teamID)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("OtherTeam(%s) = (%q, %v), want (%q, %v)", tt.teamID, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestState_Seen(t *testing.T) {
	watermark := time.Date(2018, 7, 6, 19, 0, 0, 0, time.UTC)
	st := &State{LastProcessed: watermark}

	tests := []struct {
		name string
		ts   time.Time
		want bool
	}{
		{"before watermark", watermark.Add(-time.Second), true},
		{"at watermark", watermark, true},
		{"after watermark", watermark.Add(time.Second), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := st.Seen(tt.ts); got != tt.want {
				t.Errorf("Seen(%v) = %v, want %v", tt.ts, got, tt.want)
			}
		})
	}
}

func TestFormatScore(t *testing.T) {
	got := FormatScore("Brazil", 2, 0, "Belgium")
	if want := "Brazil 2 - 0 Belgium"; got != want {
		t.Errorf("FormatScore() = %q, want %q", got, want)
	}
}
