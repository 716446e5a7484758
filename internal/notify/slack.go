package notify

import (
	"github.com/mbichoffe/worldcup-notifier/internal/slack"
)

// SlackNotifier posts notifications to a Slack channel. The subject becomes
// the message text and the detail rides along as an attachment.
type SlackNotifier struct {
	client  *slack.Client
	channel string
}

// NewSlackNotifier creates a notifier for one channel.
func NewSlackNotifier(client *slack.Client, channel string) *SlackNotifier {
	return &SlackNotifier{client: client, channel: channel}
}

// Name implements Notifier.
func (n *SlackNotifier) Name() string { return "slack" }

// Notify implements Notifier.
func (n *SlackNotifier) Notify(msg Notification) error {
	return n.client.PostMessage(n.channel, msg.Subject, msg.Detail)
}
