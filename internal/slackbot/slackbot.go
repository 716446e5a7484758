// Package slackbot runs the always-on Slack RTM listener. It reads the
// message firehose over a websocket, picks out messages directed at the bot,
// and handles the subscribe command by calling the subscriber-registration
// endpoint. It talks to the notifier core only through that HTTP interface.
package slackbot

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dghubble/sling"
	"github.com/gorilla/websocket"

	"github.com/mbichoffe/worldcup-notifier/internal/logger"
	"github.com/mbichoffe/worldcup-notifier/internal/slack"
)

const subscribeCommand = "subscribe"

// Bot is the RTM command listener.
type Bot struct {
	client       *slack.Client
	subscribeURL string
	httpClient   *http.Client
	dialer       *websocket.Dialer
}

// New creates a Bot forwarding subscribe commands to subscribeURL.
func New(client *slack.Client, subscribeURL string) *Bot {
	return &Bot{
		client:       client,
		subscribeURL: subscribeURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		dialer: websocket.DefaultDialer,
	}
}

// rtmEvent is the subset of RTM firehose events the bot cares about.
type rtmEvent struct {
	Type    string `json:"type"`
	Text    string `json:"text"`
	Channel string `json:"channel"`
	User    string `json:"user"`
}

// Run connects to the RTM firehose and processes messages until the
// connection drops, then returns so the caller can reconnect.
func (b *Bot) Run() error {
	session, err := b.client.ConnectRTM()
	if err != nil {
		return fmt.Errorf("connecting to RTM: %w", err)
	}

	logger.Info("WorldCupBot connected and running", logger.Fields{
		"bot_id": session.Self.ID,
	})

	conn, _, err := b.dialer.Dial(session.URL, nil)
	if err != nil {
		return fmt.Errorf("dialing RTM websocket: %w", err)
	}
	defer conn.Close()

	for {
		var event rtmEvent
		if err := conn.ReadJSON(&event); err != nil {
			return fmt.Errorf("reading RTM event: %w", err)
		}

		command, ok := parseMention(event, session.Self.ID)
		if !ok {
			continue
		}

		reply := b.handleCommand(command)
		if err := b.client.PostMessage(event.Channel, reply, ""); err != nil {
			logger.Error("Posting reply failed", logger.Fields{
				"channel": event.Channel,
			}, err)
		}
	}
}

// parseMention extracts the command text from a firehose event directed at
// the bot. The RTM stream is a firehose: everything not a channel message
// mentioning the bot is ignored.
func parseMention(event rtmEvent, botID string) (string, bool) {
	if event.Type != "message" || event.Text == "" {
		return "", false
	}
	mention := "<@" + botID + ">"
	if !strings.Contains(event.Text, mention) {
		return "", false
	}
	// Command is whatever follows the mention
	parts := strings.SplitN(event.Text, mention, 2)
	return strings.TrimSpace(parts[1]), true
}

// handleCommand executes a bot command and returns the reply text. Unknown
// commands get a usage hint.
func (b *Bot) handleCommand(command string) string {
	if strings.HasPrefix(command, subscribeCommand) {
		number := strings.TrimSpace(strings.TrimPrefix(command, subscribeCommand))
		return b.subscribe(number)
	}

	return fmt.Sprintf("Not sure what you mean. To subscribe for SMS World Cup updates, "+
		"use the *%s* command followed by your phone number (with area code), "+
		"delimited by spaces.", subscribeCommand)
}

type subscribeRequest struct {
	Number string `json:"number"`
}

type subscribeResponse struct {
	Message string `json:"message"`
}

// subscribe calls the registration endpoint and relays its message.
func (b *Bot) subscribe(number string) string {
	var result subscribeResponse
	resp, err := sling.New().Client(b.httpClient).Post(b.subscribeURL).
		BodyJSON(subscribeRequest{Number: number}).
		Receive(&result, &result)
	if err != nil {
		logger.Error("Subscribe request failed", logger.Fields{
			"number": number,
		}, err)
		return "Something went wrong, please try again later."
	}

	if result.Message == "" {
		return fmt.Sprintf("Unexpected response from subscription service (status %d).", resp.StatusCode)
	}
	return result.Message
}
