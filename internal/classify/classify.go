// Package classify maps raw timeline events into user-facing notifications
// using a locale phrase table. Classification is a pure function of the
// event and the tracked match state; the only outward call is the injected
// player-alias lookup.
package classify

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mbichoffe/worldcup-notifier/internal/fifa"
	"github.com/mbichoffe/worldcup-notifier/internal/logger"
	"github.com/mbichoffe/worldcup-notifier/internal/match"
	"github.com/mbichoffe/worldcup-notifier/internal/notify"
)

// ErrMalformedEvent reports an event missing a field classification depends
// on (most commonly a team id that is not part of the match). The event is
// skipped; the rest of the batch continues.
var ErrMalformedEvent = errors.New("classify: malformed event")

// AliasLookup resolves a player id to a display name. A failing lookup
// degrades the message (alias omitted), it never drops the notification.
type AliasLookup func(playerID string) (string, error)

// Classifier turns timeline events into notifications for one locale.
type Classifier struct {
	locale Locale
	alias  AliasLookup
}

// New creates a Classifier. alias may be nil, in which case scorer names are
// always omitted.
func New(locale Locale, alias AliasLookup) (*Classifier, error) {
	if _, ok := phrases[locale]; !ok {
		return nil, fmt.Errorf("unsupported locale %q", locale)
	}
	if err := ValidateTable(); err != nil {
		return nil, err
	}
	return &Classifier{locale: locale, alias: alias}, nil
}

// Result is the outcome of classifying one event. The zero value means the
// event is uninteresting: nothing to announce, no state transition.
type Result struct {
	// Notification is the message to dispatch, nil when the event is not
	// user-facing.
	Notification *notify.Notification
	// EndOfGame marks the terminal event: the match must be removed from
	// tracking and no further events processed for it.
	EndOfGame bool
}

// MatchStarting builds the announcement for a match that just turned live.
func (c *Classifier) MatchStarting(st *match.State) notify.Notification {
	return notify.Notification{
		Subject: fmt.Sprintf("%s %s vs. %s %s!",
			c.phrase(PhraseMatchBetween), st.HomeTeam, st.AwayTeam, c.phrase(PhraseAboutToStart)),
	}
}

// Classify maps one timeline event to a Result. Events at or before the
// match watermark are uninteresting by definition: they were already
// processed by an earlier poll.
func (c *Classifier) Classify(ev fifa.TimelineEvent, st *match.State) (Result, error) {
	if st.Seen(ev.Timestamp.Time) {
		return Result{}, nil
	}

	score := match.FormatScore(st.HomeTeam, ev.HomeGoals, ev.AwayGoals, st.AwayTeam)
	minute := ev.MatchMinute

	switch ev.Type {
	case fifa.EventPeriodStart:
		phrase := PhraseHasResumed
		if ev.Period == fifa.PeriodFirstHalf {
			phrase = PhraseHasStarted
		}
		return c.announce(fmt.Sprintf("%s %s vs. %s %s!",
			c.phrase(PhraseMatchBetween), st.HomeTeam, st.AwayTeam, c.phrase(phrase)), ""), nil

	case fifa.EventPeriodEnd:
		switch ev.Period {
		case fifa.PeriodFirstHalf:
			return c.announce(c.phrase(PhraseHalfTime), score), nil
		case fifa.PeriodSecondHalf:
			return c.announce(c.phrase(PhraseFullTime), score), nil
		case fifa.PeriodFirstET:
			return c.announce(c.phrase(PhraseEndFirstET), score), nil
		case fifa.PeriodSecondET:
			return c.announce(c.phrase(PhraseEndSecondET), score), nil
		case fifa.PeriodShootout:
			detail := fmt.Sprintf("%s (%d - %d)", score, ev.HomePenaltyGoals, ev.AwayPenaltyGoals)
			return c.announce(c.phrase(PhraseEndShootout), detail), nil
		}
		return Result{}, nil

	case fifa.EventGoal, fifa.EventFreeKickGoal, fifa.EventPenaltyGoal:
		team, ok := st.TeamName(ev.TeamID)
		if !ok {
			return Result{}, c.malformed(ev, st)
		}
		detail := joinDetail(c.lookupAlias(ev.PlayerID, st.ID), "("+minute+")", score)
		return c.announce(fmt.Sprintf("%s %s!!!", c.phrase(PhraseGoal), team), detail), nil

	case fifa.EventOwnGoal:
		team, ok := st.TeamName(ev.TeamID)
		if !ok {
			return Result{}, c.malformed(ev, st)
		}
		detail := joinDetail(c.lookupAlias(ev.PlayerID, st.ID), "("+minute+")", score)
		return c.announce(fmt.Sprintf("%s %s!!!", c.phrase(PhraseOwnGoal), team), detail), nil

	case fifa.EventYellowCard:
		team, ok := st.TeamName(ev.TeamID)
		if !ok {
			return Result{}, c.malformed(ev, st)
		}
		detail := joinDetail(c.lookupAlias(ev.PlayerID, st.ID), "("+minute+")")
		return c.announce(fmt.Sprintf("%s %s", c.phrase(PhraseYellowCard), team), detail), nil

	case fifa.EventStraightRed, fifa.EventSecondYellowRed:
		team, ok := st.TeamName(ev.TeamID)
		if !ok {
			return Result{}, c.malformed(ev, st)
		}
		detail := joinDetail(c.lookupAlias(ev.PlayerID, st.ID), "("+minute+")")
		return c.announce(fmt.Sprintf("%s %s", c.phrase(PhraseRedCard), team), detail), nil

	case fifa.EventFoulPenalty:
		// The award goes to the fouled side: the team OTHER than the one
		// the event record is attributed to.
		other, ok := st.OtherTeam(ev.TeamID)
		if !ok {
			return Result{}, c.malformed(ev, st)
		}
		return c.announce(fmt.Sprintf("%s %s!!!", c.phrase(PhrasePenalty), other), ""), nil

	case fifa.EventPenaltyMissed, fifa.EventPenaltySaved:
		team, ok := st.TeamName(ev.TeamID)
		if !ok {
			return Result{}, c.malformed(ev, st)
		}
		detail := joinDetail(c.lookupAlias(ev.PlayerID, st.ID), "("+minute+")")
		return c.announce(fmt.Sprintf("%s %s!!!", c.phrase(PhraseMissedPenalty), team), detail), nil

	case fifa.EventEndOfGame:
		return Result{EndOfGame: true}, nil
	}

	return Result{}, nil
}

func (c *Classifier) announce(subject, detail string) Result {
	return Result{Notification: &notify.Notification{Subject: subject, Detail: detail}}
}

func (c *Classifier) malformed(ev fifa.TimelineEvent, st *match.State) error {
	return fmt.Errorf("%w: type %d references team %q not in match %s",
		ErrMalformedEvent, ev.Type, ev.TeamID, st.ID)
}

// lookupAlias resolves the scorer name, returning "" when the lookup is
// unavailable or fails so the notification goes out without attribution
// rather than misattributed or dropped.
func (c *Classifier) lookupAlias(playerID, matchID string) string {
	if c.alias == nil || playerID == "" {
		return ""
	}
	alias, err := c.alias(playerID)
	if err != nil {
		logger.Warn("Player alias lookup failed, sending without name", logger.Fields{
			"player_id": playerID,
			"match_id":  matchID,
			"error":     err.Error(),
		})
		return ""
	}
	return alias
}

func joinDetail(parts ...string) string {
	nonEmpty := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, " ")
}
