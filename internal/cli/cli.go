// Package cli wires the worldcup-notifier command: configuration, the FIFA
// client, state store, classifier and notification channels, then runs one
// poll cycle and exits.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mbichoffe/worldcup-notifier/internal/classify"
	"github.com/mbichoffe/worldcup-notifier/internal/config"
	"github.com/mbichoffe/worldcup-notifier/internal/fifa"
	"github.com/mbichoffe/worldcup-notifier/internal/logger"
	"github.com/mbichoffe/worldcup-notifier/internal/notify"
	"github.com/mbichoffe/worldcup-notifier/internal/poll"
	"github.com/mbichoffe/worldcup-notifier/internal/slack"
	"github.com/mbichoffe/worldcup-notifier/internal/state"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagConfig    string
	flagStateFile string
	flagLocale    string
	flagDryRun    bool
	flagVerbose   bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worldcup-notifier",
		Short: "Announce live World Cup match events to subscribers",
		Long: `Polls the FIFA competition API once, detects timeline events that
occurred since the previous run (goals, cards, period transitions), and fans
out notifications to the configured channels. Designed to be invoked
periodically by an external scheduler.`,
		RunE: runCycle,
	}

	cmd.Flags().StringVar(&flagConfig, "config", "", "Path to YAML config file")
	cmd.Flags().StringVar(&flagStateFile, "state-file", "", "Override state file path")
	cmd.Flags().StringVar(&flagLocale, "locale", "", "Override phrase locale (e.g. pt-BR)")
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Print notifications without sending")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")

	return cmd
}

// runCycle is the main command logic
func runCycle(cmd *cobra.Command, args []string) error {
	if flagVerbose {
		logger.SetDefault(logger.New(logger.LevelDebug, os.Stdout))
	}

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if flagStateFile != "" {
		cfg.State.Path = flagStateFile
	}
	if flagLocale != "" {
		cfg.FIFA.Locale = flagLocale
	}

	store, err := state.NewStore(cfg.State.Path)
	if err != nil {
		return fmt.Errorf("initializing state store: %w", err)
	}

	db, err := store.Load()
	if err != nil {
		return fmt.Errorf("loading state: %w", err)
	}
	logger.Debug("State loaded", logger.Fields{
		"live_matches": len(db.Live),
		"etags":        len(db.ETags),
	})

	client := fifa.NewClient(cfg.FIFA.BaseURL, cfg.FIFA.CompetitionID, cfg.FIFA.SeasonID,
		cfg.FIFA.Locale, state.NewETagCache(db, store))
	client.SetTimeout(cfg.FIFA.Timeout)

	classifier, err := classify.New(classify.Locale(cfg.FIFA.Locale), client.PlayerAlias)
	if err != nil {
		return fmt.Errorf("initializing classifier: %w", err)
	}

	channels, err := buildChannels(cfg)
	if err != nil {
		return err
	}

	runner := &poll.Runner{
		API:        client,
		DB:         db,
		Store:      store,
		Classifier: classifier,
		Dispatcher: notify.NewDispatcher(channels...),
	}

	// Per-match fetch and delivery failures are logged inside the runner and
	// never surface here; only persistence failures abort the cycle.
	if err := runner.Run(); err != nil {
		return err
	}

	if flagVerbose {
		logger.Debug("Cycle metrics", logger.GetMetricsSnapshot())
	}
	return nil
}

// buildChannels assembles the notifier fan-out list from configuration.
// Channels without credentials are left out; --dry-run replaces them all.
func buildChannels(cfg *config.Config) ([]notify.Notifier, error) {
	if flagDryRun {
		return []notify.Notifier{notify.NewDryRunNotifier()}, nil
	}

	channels := make([]notify.Notifier, 0, 4)

	if cfg.Notify.UpdatesURL != "" {
		sms, err := notify.NewSMSNotifier(cfg.Notify.UpdatesURL)
		if err != nil {
			return nil, fmt.Errorf("initializing SMS channel: %w", err)
		}
		channels = append(channels, sms)
	}

	if cfg.Notify.Slack.Token != "" && cfg.Notify.Slack.Channel != "" {
		slackClient, err := slack.NewClient(cfg.Notify.Slack.Token)
		if err != nil {
			return nil, fmt.Errorf("initializing Slack channel: %w", err)
		}
		channels = append(channels, notify.NewSlackNotifier(slackClient, cfg.Notify.Slack.Channel))
	}

	if cfg.Notify.Telegram.BotToken != "" && cfg.Notify.Telegram.ChatID != "" {
		tg, err := notify.NewTelegramNotifier(cfg.Notify.Telegram.BotToken, cfg.Notify.Telegram.ChatID)
		if err != nil {
			return nil, fmt.Errorf("initializing Telegram channel: %w", err)
		}
		channels = append(channels, tg)
	}

	if cfg.Notify.Twitter.Enabled {
		tw, err := notify.NewTwitterNotifier()
		if err != nil {
			return nil, fmt.Errorf("initializing Twitter channel: %w", err)
		}
		channels = append(channels, tw)
	}

	if len(channels) == 0 {
		return nil, fmt.Errorf("no notification channels configured")
	}
	return channels, nil
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
