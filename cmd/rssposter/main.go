package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/nDmitry/rssposter/internal/activity"
	"github.com/nDmitry/rssposter/internal/api/rest"
	"github.com/nDmitry/rssposter/internal/app"
	"github.com/nDmitry/rssposter/internal/config"
	"github.com/nDmitry/rssposter/internal/feed"
	"github.com/nDmitry/rssposter/internal/job"
	"github.com/nDmitry/rssposter/internal/publisher"
	"github.com/nDmitry/rssposter/internal/scraper"
	"github.com/nDmitry/rssposter/internal/store"
)

const botAPITimeout = 30 * time.Second

func main() {
	logger := app.Logger()
	slog.SetDefault(logger)

	cfg, err := config.Load(os.Args[1:])

	if err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	// Help was printed
	if cfg == nil {
		return
	}

	level, err := app.ParseLevel(cfg.LogLevel)

	if err != nil {
		logger.Warn("Falling back to info log level", "error", err)
	}

	app.SetLevel(level)

	// Create a cancellable context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Received first shutdown signal, starting graceful shutdown...")
		cancel()

		// If we receive a second signal, exit immediately
		<-sigChan
		logger.Info("Received second shutdown signal, exiting immediately...")
		os.Exit(1)
	}()

	if err := run(ctx, cfg); err != nil {
		logger.Error("Fatal error", "error", err)
		os.Exit(1)
	}

	logger.Info("Exited gracefully")
}

func run(ctx context.Context, cfg *config.Config) error {
	logger := app.Logger()

	st, err := store.Open(ctx, cfg)

	if err != nil {
		return err
	}

	defer st.Close()

	posted := st.Load(ctx)
	logger.Info("Loaded posted links", "backend", cfg.StoreBackend, "count", posted.Len())

	tg, err := publisher.NewTelegram(cfg.Token, cfg.Channel, cfg.APIEndpoint, feed.NewHTTPClient(botAPITimeout))

	if err != nil {
		return err
	}

	logger.Info("Telegram bot authorized", "bot", tg.BotName(), "channel", cfg.Channel)

	recent := activity.NewLog(cfg.ActivitySize)

	j := job.New(job.Options{
		Sources:   cfg.Sources,
		MaxPerRun: cfg.MaxPerRun,
		PostDelay: cfg.PostDelay,
	}, posted, job.Deps{
		Store:     st,
		Fetcher:   feed.NewSource(feed.NewHTTPClient(cfg.Timeout)),
		Images:    scraper.NewImageFinder(cfg.Timeout),
		Publisher: tg,
		Recorder:  recent,
	})

	if cfg.Port != "" {
		server := rest.NewServer(recent, &feed.Generator{}, feed.Channel{
			Title: cfg.Channel,
			URL:   channelURL(cfg.Channel),
		}, cfg.Port)

		go func() {
			if err := server.Run(ctx); err != nil {
				logger.Error("Status server error", "error", err)
			}
		}()
	}

	if cfg.Once {
		res := j.RunOnce(ctx)
		logger.Info("Single run finished", "published", res.Published)
		return nil
	}

	return j.Loop(ctx, cfg.Interval)
}

// channelURL returns the public t.me address of a channel username
func channelURL(channel string) string {
	if name, ok := strings.CutPrefix(channel, "@"); ok {
		return "https://t.me/" + name
	}

	return "https://t.me/"
}
