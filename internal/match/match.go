// Package match tracks the set of matches currently considered live and the
// per-match metadata needed to build notifications: team names, the cached
// score string, and the watermark of the last processed timeline event.
package match

import (
	"fmt"
	"time"

	"github.com/mbichoffe/worldcup-notifier/internal/fifa"
)

// State is the tracked metadata of one live match. It is created when a
// match first reports live status, mutated on every poll that finds new
// events, and deleted when the end-of-game event is observed.
type State struct {
	ID            string            `json:"id"`
	StageID       string            `json:"stage_id"`
	TeamsByID     map[string]string `json:"teams_by_id"`
	HomeTeam      string            `json:"home_team"`
	AwayTeam      string            `json:"away_team"`
	Score         string            `json:"score,omitempty"`
	LastProcessed time.Time         `json:"last_processed"`
}

// NewState builds a State from a calendar entry. The watermark starts at
// now: only events observed after the match went live are announced.
func NewState(m fifa.Match, now time.Time) *State {
	home := m.Home.DisplayName()
	away := m.Away.DisplayName()
	return &State{
		ID:      m.ID,
		StageID: m.StageID,
		TeamsByID: map[string]string{
			m.Home.ID: home,
			m.Away.ID: away,
		},
		HomeTeam:      home,
		AwayTeam:      away,
		LastProcessed: now,
	}
}

// TeamName resolves a team id against this match's two teams.
func (s *State) TeamName(teamID string) (string, bool) {
	name, ok := s.TeamsByID[teamID]
	return name, ok
}

// OtherTeam returns the team on the opposite side of teamID. Used for the
// penalty-award message, which names the fouled side rather than the team
// the event record is attributed to.
func (s *State) OtherTeam(teamID string) (string, bool) {
	if _, ok := s.TeamsByID[teamID]; !ok {
		return "", false
	}
	for id, name := range s.TeamsByID {
		if id != teamID {
			return name, true
		}
	}
	return "", false
}

// Seen reports whether an event timestamp is already covered by the
// watermark and must not be announced again.
func (s *State) Seen(ts time.Time) bool {
	return !ts.After(s.LastProcessed)
}

// RefreshScore updates the cached score string from a calendar entry. The
// score string feeds message text only, never decision logic.
func (s *State) RefreshScore(m fifa.Match) {
	s.Score = FormatScore(s.HomeTeam, m.Home.Score, m.Away.Score, s.AwayTeam)
}

// FormatScore renders a score line like "Brazil 2 - 0 Belgium".
func FormatScore(home string, homeGoals, awayGoals int, away string) string {
	return fmt.Sprintf("%s %d - %d %s", home, homeGoals, awayGoals, away)
}
