package fifa

import (
	"fmt"
	"strings"
	"time"
)

// Match statuses reported by the calendar endpoint.
const (
	StatusFinished   = 0
	StatusNotStarted = 1
	StatusLive       = 3
	StatusPrematch   = 12
)

// EventType identifies a timeline event kind.
type EventType int

// Timeline event types.
const (
	EventGoal            EventType = 0
	EventYellowCard      EventType = 2
	EventStraightRed     EventType = 3
	EventSecondYellowRed EventType = 4
	EventPeriodStart     EventType = 7
	EventPeriodEnd       EventType = 8
	EventEndOfGame       EventType = 26
	EventOwnGoal         EventType = 34
	EventFreeKickGoal    EventType = 39
	EventPenaltyGoal     EventType = 41
	EventPenaltyCrossbar EventType = 46
	EventPenaltySaved    EventType = 60
	EventPenaltyMissed   EventType = 65
	EventFoulPenalty     EventType = 72
)

// Period identifies the match period an event belongs to.
type Period int

// Match periods.
const (
	PeriodFirstHalf  Period = 3
	PeriodSecondHalf Period = 5
	PeriodFirstET    Period = 7
	PeriodSecondET   Period = 9
	PeriodShootout   Period = 11
)

// LocalizedName is a localized description as returned by the API.
type LocalizedName struct {
	Locale      string `json:"Locale"`
	Description string `json:"Description"`
}

// Team describes one side of a calendar match entry.
type Team struct {
	ID    string          `json:"IdTeam"`
	Score int             `json:"Score"`
	Name  []LocalizedName `json:"TeamName"`
}

// DisplayName returns the first localized team name, or "" when absent.
func (t Team) DisplayName() string {
	if len(t.Name) == 0 {
		return ""
	}
	return t.Name[0].Description
}

// Match is one entry of the calendar matches list.
type Match struct {
	ID      string `json:"IdMatch"`
	StageID string `json:"IdStage"`
	Status  int    `json:"MatchStatus"`
	Home    Team   `json:"Home"`
	Away    Team   `json:"Away"`
}

// Timestamp wraps time.Time to decode the API's event timestamp format.
type Timestamp struct {
	time.Time
}

const timestampLayout = "2006-01-02T15:04:05.999Z"

// UnmarshalJSON parses timestamps like "2018-06-27T18:18:39.61Z".
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		ts.Time = time.Time{}
		return nil
	}

	t, err := time.Parse(timestampLayout, s)
	if err != nil {
		// Some endpoints use full RFC3339 with an offset
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return fmt.Errorf("parsing timestamp %q: %w", s, err)
		}
	}
	ts.Time = t
	return nil
}

// MarshalJSON renders the timestamp back in the upstream layout.
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + ts.Time.UTC().Format(timestampLayout) + `"`), nil
}

// TimelineEvent is one raw event of a match timeline. It is transient:
// produced fresh each poll and never persisted.
type TimelineEvent struct {
	Type             EventType `json:"Type"`
	Period           Period    `json:"Period"`
	Timestamp        Timestamp `json:"Timestamp"`
	MatchMinute      string    `json:"MatchMinute"`
	TeamID           string    `json:"IdTeam"`
	PlayerID         string    `json:"IdPlayer"`
	HomeGoals        int       `json:"HomeGoals"`
	AwayGoals        int       `json:"AwayGoals"`
	HomePenaltyGoals int       `json:"HomePenaltyGoals"`
	AwayPenaltyGoals int       `json:"AwayPenaltyGoals"`
}
