// Package notify fans classified match notifications out to the configured
// channels: the SMS subscriber-broadcast endpoint, a Slack channel, and
// optionally Telegram and Twitter. Channels are independent; one failing
// channel never blocks the others or aborts the poll cycle.
package notify

import (
	"strings"
	"unicode/utf8"

	"github.com/mbichoffe/worldcup-notifier/internal/logger"
)

// Notification is one classified match update. Subject is the headline
// ("GOOOOAL Brazil!!!"), Detail the supporting line (scorer, minute, score).
// Both are transient: produced by the classifier, consumed by the
// dispatcher, then discarded.
type Notification struct {
	Subject string
	Detail  string
}

// Text renders the notification as a single message line.
func (n Notification) Text() string {
	if n.Detail == "" {
		return n.Subject
	}
	return n.Subject + " " + n.Detail
}

// Notifier delivers a notification to one channel.
type Notifier interface {
	// Name identifies the channel in logs and delivery results.
	Name() string
	// Notify delivers the notification.
	Notify(n Notification) error
}

// Delivery is the per-channel outcome of one dispatch.
type Delivery struct {
	Channel string
	Err     error
}

// Dispatcher sends each notification to every configured channel.
type Dispatcher struct {
	channels []Notifier
}

// NewDispatcher creates a dispatcher over the given channels.
func NewDispatcher(channels ...Notifier) *Dispatcher {
	return &Dispatcher{channels: channels}
}

// Dispatch delivers n to all channels and returns the per-channel results.
// Failures are logged and do not short-circuit the remaining channels;
// duplicate suppression is the caller's watermark, not this method.
func (d *Dispatcher) Dispatch(n Notification) []Delivery {
	results := make([]Delivery, 0, len(d.channels))
	for _, ch := range d.channels {
		err := ch.Notify(n)
		if err != nil {
			logger.Error("Notification delivery failed", logger.Fields{
				"channel": ch.Name(),
				"subject": n.Subject,
			}, err)
			logger.IncrCounter("notify.failed." + ch.Name())
		} else {
			logger.IncrCounter("notify.sent." + ch.Name())
		}
		results = append(results, Delivery{Channel: ch.Name(), Err: err})
	}
	return results
}

// truncate shortens a message to max characters, ellipsized, for channels
// with a hard length limit. The limit counts runes, not bytes, so accented
// player names are never cut mid-character.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:max-3])) + "..."
}
