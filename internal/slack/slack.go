// Package slack is a minimal Slack Web API client covering what this
// project needs: posting channel messages, opening an RTM websocket session,
// and resolving the bot's own user id.
package slack

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	DefaultBaseURL = "https://slack.com/api/"
	timeout        = 10 * time.Second
)

// Client represents a Slack Web API client.
type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Slack client for a bot token.
func NewClient(token string) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("bot token is required")
	}
	return &Client{
		token:   token,
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// NewClientWithBaseURL creates a client against a non-default API base URL.
func NewClientWithBaseURL(token, baseURL string) (*Client, error) {
	c, err := NewClient(token)
	if err != nil {
		return nil, err
	}
	c.baseURL = baseURL
	return c, nil
}

type apiResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

type attachment struct {
	Text string `json:"text"`
}

type postMessageRequest struct {
	Channel     string       `json:"channel"`
	Text        string       `json:"text"`
	Attachments []attachment `json:"attachments,omitempty"`
	AsUser      bool         `json:"as_user"`
}

// PostMessage posts text to a channel, optionally with an attachment line.
func (c *Client) PostMessage(channel, text, attachmentText string) error {
	if channel == "" {
		return fmt.Errorf("channel is required")
	}
	if text == "" {
		return fmt.Errorf("message text is required")
	}

	payload := postMessageRequest{
		Channel: channel,
		Text:    text,
		AsUser:  true,
	}
	if attachmentText != "" {
		payload.Attachments = []attachment{{Text: attachmentText}}
	}

	var result apiResponse
	if err := c.call("chat.postMessage", payload, &result); err != nil {
		return err
	}
	if !result.OK {
		return fmt.Errorf("slack API error: %s", result.Error)
	}
	return nil
}

// RTMSession is the result of rtm.connect: the websocket URL to dial and
// the bot's own identity.
type RTMSession struct {
	apiResponse
	URL  string `json:"url"`
	Self struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"self"`
}

// ConnectRTM requests a Real Time Messaging session. The returned URL is
// valid for a single websocket dial and expires quickly.
func (c *Client) ConnectRTM() (*RTMSession, error) {
	var session RTMSession
	if err := c.call("rtm.connect", struct{}{}, &session); err != nil {
		return nil, err
	}
	if !session.OK {
		return nil, fmt.Errorf("slack API error: %s", session.Error)
	}
	if session.URL == "" {
		return nil, fmt.Errorf("rtm.connect returned no websocket URL")
	}
	return &session, nil
}

type usersListResponse struct {
	apiResponse
	Members []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"members"`
}

// LookupUserID resolves a user name to its id via users.list. Used once to
// discover the bot's own id for mention parsing.
func (c *Client) LookupUserID(name string) (string, error) {
	var result usersListResponse
	if err := c.call("users.list", struct{}{}, &result); err != nil {
		return "", err
	}
	if !result.OK {
		return "", fmt.Errorf("slack API error: %s", result.Error)
	}
	for _, member := range result.Members {
		if member.Name == name {
			return member.ID, nil
		}
	}
	return "", fmt.Errorf("no user named %q", name)
}

// call POSTs a JSON payload to a Web API method and decodes the response.
func (c *Client) call(method string, payload, result interface{}) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling payload: %w", err)
	}

	req, err := http.NewRequest("POST", c.baseURL+method, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack API error (status %d): %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}
