// Package twilio is a minimal Twilio REST client covering what the
// subscriber server needs: sending SMS via a messaging service, broadcasting
// to a subscriber list, and validating numbers with the Lookup API.
package twilio

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mbichoffe/worldcup-notifier/internal/logger"
)

const (
	DefaultAPIBaseURL    = "https://api.twilio.com/2010-04-01"
	DefaultLookupBaseURL = "https://lookups.twilio.com/v1"
	timeout              = 10 * time.Second
)

// ErrInvalidNumber reports a phone number the Lookup API rejected.
var ErrInvalidNumber = errors.New("twilio: invalid phone number")

// Client calls the Twilio REST API.
type Client struct {
	accountSID          string
	authToken           string
	messagingServiceSID string
	apiBaseURL          string
	lookupBaseURL       string
	httpClient          *http.Client
}

// NewClient creates a client for one account and messaging service.
func NewClient(accountSID, authToken, messagingServiceSID string) (*Client, error) {
	if accountSID == "" || authToken == "" {
		return nil, fmt.Errorf("account SID and auth token are required")
	}
	return &Client{
		accountSID:          accountSID,
		authToken:           authToken,
		messagingServiceSID: messagingServiceSID,
		apiBaseURL:          DefaultAPIBaseURL,
		lookupBaseURL:       DefaultLookupBaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// SetBaseURLs overrides API endpoints, for tests.
func (c *Client) SetBaseURLs(api, lookup string) {
	if api != "" {
		c.apiBaseURL = api
	}
	if lookup != "" {
		c.lookupBaseURL = lookup
	}
}

// Message is the created-message resource returned by Twilio.
type Message struct {
	SID          string `json:"sid"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
}

// SendMessage sends one SMS through the messaging service.
func (c *Client) SendMessage(to, body string) (*Message, error) {
	endpoint := fmt.Sprintf("%s/Accounts/%s/Messages.json", c.apiBaseURL, c.accountSID)

	form := url.Values{}
	form.Set("To", to)
	form.Set("MessagingServiceSid", c.messagingServiceSID)
	form.Set("Body", body)

	req, err := http.NewRequest("POST", endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.SetBasicAuth(c.accountSID, c.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	var msg Message
	if err := json.Unmarshal(respBody, &msg); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := msg.ErrorMessage
		if detail == "" {
			detail = string(respBody)
		}
		return nil, fmt.Errorf("twilio API error (status %d): %s", resp.StatusCode, detail)
	}

	return &msg, nil
}

// Broadcast sends body to every number in the list. Individual failures are
// logged and do not stop the broadcast; all of them are joined into the
// returned error.
func (c *Client) Broadcast(numbers []string, body string) error {
	var errs []error
	for _, number := range numbers {
		if _, err := c.SendMessage(number, body); err != nil {
			logger.Error("SMS delivery failed", logger.Fields{
				"to": number,
			}, err)
			errs = append(errs, fmt.Errorf("sending to %s: %w", number, err))
		}
	}
	return errors.Join(errs...)
}

// Verify checks a phone number with the Lookup API (carrier type). It
// returns ErrInvalidNumber for numbers Twilio does not recognize.
func (c *Client) Verify(number string) error {
	endpoint := fmt.Sprintf("%s/PhoneNumbers/%s?Type=carrier", c.lookupBaseURL, url.PathEscape(number))

	req, err := http.NewRequest("GET", endpoint, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.SetBasicAuth(c.accountSID, c.authToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return ErrInvalidNumber
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("lookup API error (status %d): %s", resp.StatusCode, string(body))
	}
}
