// The worldcup-subscribe server accepts subscriber registrations, verifies
// phone numbers through the Twilio Lookup API, and relays match updates from
// the notifier to every subscriber as SMS.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/mbichoffe/worldcup-notifier/internal/config"
	"github.com/mbichoffe/worldcup-notifier/internal/logger"
	"github.com/mbichoffe/worldcup-notifier/internal/server"
	"github.com/mbichoffe/worldcup-notifier/internal/subscribers"
	"github.com/mbichoffe/worldcup-notifier/internal/twilio"
)

var (
	configPath      = flag.String("config", "", "Path to YAML config file")
	listenAddr      = flag.String("listen", "", "Listen address (overrides config)")
	subscribersFile = flag.String("subscribers-file", "", "Subscribers CSV path (overrides config)")
	verbose         = flag.Bool("verbose", false, "Enable debug logging")
)

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
	if *listenAddr != "" {
		cfg.Server.ListenAddr = *listenAddr
	}
	if *subscribersFile != "" {
		cfg.Server.SubscribersFile = *subscribersFile
	}

	store, err := subscribers.NewStore(cfg.Server.SubscribersFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening subscribers store: %v\n", err)
		os.Exit(1)
	}

	sms, err := twilio.NewClient(cfg.Server.Twilio.AccountSID, cfg.Server.Twilio.AuthToken,
		cfg.Server.Twilio.MessagingServiceSID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing Twilio client: %v\n", err)
		os.Exit(1)
	}

	srv := server.New(store, sms)

	logger.Info("Subscriber server listening", logger.Fields{
		"addr":        cfg.Server.ListenAddr,
		"subscribers": cfg.Server.SubscribersFile,
	})

	if err := http.ListenAndServe(cfg.Server.ListenAddr, srv); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
