package notify

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dghubble/sling"
)

// SMSNotifier posts notifications to the subscriber-broadcast endpoint (the
// worldcup-subscribe server's /updates route), which relays them as SMS to
// every registered phone number.
type SMSNotifier struct {
	endpoint   string
	httpClient *http.Client
}

type updatePayload struct {
	Message string `json:"message"`
}

// NewSMSNotifier creates a notifier posting to the given updates endpoint.
func NewSMSNotifier(endpoint string) (*SMSNotifier, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("updates endpoint is required")
	}
	return &SMSNotifier{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// Name implements Notifier.
func (n *SMSNotifier) Name() string { return "sms" }

// Notify posts the notification text as a JSON update.
func (n *SMSNotifier) Notify(msg Notification) error {
	resp, err := sling.New().Client(n.httpClient).Post(n.endpoint).
		BodyJSON(updatePayload{Message: msg.Text()}).
		ReceiveSuccess(nil)
	if err != nil {
		return fmt.Errorf("posting update: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("updates endpoint returned status %d", resp.StatusCode)
	}
	return nil
}
