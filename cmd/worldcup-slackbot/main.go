// The worldcup-slackbot connects to Slack's RTM websocket and lets workspace
// members subscribe their phone number to SMS updates by mentioning the bot.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/mbichoffe/worldcup-notifier/internal/config"
	"github.com/mbichoffe/worldcup-notifier/internal/logger"
	"github.com/mbichoffe/worldcup-notifier/internal/slack"
	"github.com/mbichoffe/worldcup-notifier/internal/slackbot"
)

var (
	configPath  = flag.String("config", "", "Path to YAML config file")
	botToken    = flag.String("bot-token", os.Getenv("SLACK_BOT_TOKEN"), "Slack bot token")
	lookupBotID = flag.Bool("lookup-bot-id", false, "Print the bot user ID and exit")
	verbose     = flag.Bool("verbose", false, "Enable debug logging")
)

const reconnectDelay = 5 * time.Second

func main() {
	flag.Parse()

	if *verbose {
		logger.SetDefault(logger.New(logger.LevelDebug, os.Stdout))
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	token := *botToken
	if token == "" {
		token = cfg.Notify.Slack.Token
	}

	client, err := slack.NewClient(token)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing Slack client: %v\n", err)
		os.Exit(1)
	}

	if *lookupBotID {
		id, err := client.LookupUserID(cfg.SlackBot.BotName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error looking up bot user: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(id)
		return
	}

	bot := slackbot.New(client, cfg.SlackBot.SubscribeURL)

	// The RTM connection drops whenever Slack rotates it. Reconnect forever.
	for {
		if err := bot.Run(); err != nil {
			logger.Error("RTM session ended", nil, err)
		}
		time.Sleep(reconnectDelay)
	}
}
