// Package config loads the notifier's YAML configuration. Secrets (Slack,
// Twilio, Telegram credentials) can be left out of the file and provided via
// environment variables instead.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration document.
type Config struct {
	FIFA     FIFAConfig     `yaml:"fifa"`
	State    StateConfig    `yaml:"state"`
	Notify   NotifyConfig   `yaml:"notify"`
	Server   ServerConfig   `yaml:"server"`
	SlackBot SlackBotConfig `yaml:"slackbot"`
}

// FIFAConfig selects the upstream competition feed.
type FIFAConfig struct {
	BaseURL       string        `yaml:"base_url"`
	CompetitionID int           `yaml:"competition_id"`
	SeasonID      int           `yaml:"season_id"`
	Locale        string        `yaml:"locale"`
	Timeout       time.Duration `yaml:"timeout"`
}

// StateConfig locates the durable state file.
type StateConfig struct {
	Path string `yaml:"path"`
}

// NotifyConfig configures the outbound channels. A channel with no
// credentials or endpoint is simply not wired.
type NotifyConfig struct {
	UpdatesURL string         `yaml:"updates_url"`
	Slack      SlackConfig    `yaml:"slack"`
	Telegram   TelegramConfig `yaml:"telegram"`
	Twitter    TwitterConfig  `yaml:"twitter"`
}

// SlackConfig holds the chat channel settings. Token falls back to
// SLACK_BOT_TOKEN.
type SlackConfig struct {
	Token   string `yaml:"token"`
	Channel string `yaml:"channel"`
}

// TelegramConfig holds the optional Telegram channel settings. BotToken
// falls back to TELEGRAM_BOT_TOKEN.
type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
	ChatID   string `yaml:"chat_id"`
}

// TwitterConfig enables the optional Twitter channel; its credentials come
// exclusively from TWITTER_* environment variables.
type TwitterConfig struct {
	Enabled bool `yaml:"enabled"`
}

// ServerConfig configures the subscriber-registration server.
type ServerConfig struct {
	ListenAddr      string       `yaml:"listen_addr"`
	SubscribersFile string       `yaml:"subscribers_file"`
	Twilio          TwilioConfig `yaml:"twilio"`
}

// TwilioConfig holds Twilio credentials; each falls back to its
// conventional environment variable.
type TwilioConfig struct {
	AccountSID          string `yaml:"account_sid"`
	AuthToken           string `yaml:"auth_token"`
	MessagingServiceSID string `yaml:"messaging_service_sid"`
}

// SlackBotConfig configures the RTM command bot.
type SlackBotConfig struct {
	BotName      string `yaml:"bot_name"`
	SubscribeURL string `yaml:"subscribe_url"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		FIFA: FIFAConfig{
			BaseURL:       "https://api.fifa.com/api/v1/",
			CompetitionID: 17,
			SeasonID:      254645,
			Locale:        "en-GB",
			Timeout:       10 * time.Second,
		},
		State: StateConfig{
			Path: "./worldcup-state.json",
		},
		Notify: NotifyConfig{
			UpdatesURL: "http://localhost:5000/updates",
		},
		Server: ServerConfig{
			ListenAddr:      ":5000",
			SubscribersFile: "./subscribers.csv",
		},
		SlackBot: SlackBotConfig{
			BotName:      "worldcupbot",
			SubscribeURL: "http://localhost:5000/subscribe",
		},
	}
}

// Load reads a YAML config file over the defaults. An empty path returns
// the defaults (plus environment fallbacks) unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// applyEnv fills credential fields left empty by the file.
func (c *Config) applyEnv() {
	if c.Notify.Slack.Token == "" {
		c.Notify.Slack.Token = os.Getenv("SLACK_BOT_TOKEN")
	}
	if c.Notify.Slack.Channel == "" {
		c.Notify.Slack.Channel = os.Getenv("SLACK_CHANNEL")
	}
	if c.Notify.Telegram.BotToken == "" {
		c.Notify.Telegram.BotToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	}
	if c.Notify.Telegram.ChatID == "" {
		c.Notify.Telegram.ChatID = os.Getenv("TELEGRAM_CHAT_ID")
	}
	if c.Server.Twilio.AccountSID == "" {
		c.Server.Twilio.AccountSID = os.Getenv("TWILIO_ACCOUNT_SID")
	}
	if c.Server.Twilio.AuthToken == "" {
		c.Server.Twilio.AuthToken = os.Getenv("TWILIO_AUTH_TOKEN")
	}
	if c.Server.Twilio.MessagingServiceSID == "" {
		c.Server.Twilio.MessagingServiceSID = os.Getenv("TWILIO_MESSAGING_SERVICE_SID")
	}
}
