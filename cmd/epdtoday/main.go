package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"epdtoday/internal/config"
	"epdtoday/internal/format"
	"epdtoday/internal/ics"
	appLog "epdtoday/internal/log"
)

type flagConfig struct {
	configPath string
	url        string
	once       bool
}

func main() {
	appLog.Info("epdtoday starting", "version", "0.1.0")

	flags := parseFlags()

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}

	// CLI -url overrides the configured source if provided.
	if flags.url != "" {
		conf.URL = flags.url
	}

	loc := time.Local
	if conf.Timezone != "" {
		if l, lerr := time.LoadLocation(conf.Timezone); lerr != nil {
			appLog.Error("unknown timezone, using local", lerr, "timezone", conf.Timezone)
		} else {
			loc = l
		}
	}

	appLog.Info("effective config",
		"timezone", conf.Timezone,
		"locale", conf.Locale,
		"refresh", conf.RefreshCron,
		"tail_bytes", conf.TailBytes,
		"max_items", conf.MaxItems,
		"once", flags.once,
	)

	transport := ics.NewHTTPTransport(ics.HTTPOptions{
		Timeout:     time.Duration(conf.HTTPTimeoutSeconds) * time.Second,
		InsecureTLS: conf.InsecureTLS,
	})
	provider := ics.NewProvider(transport, ics.Options{
		TailBytes:   conf.TailBytes,
		ScreenQuota: conf.MaxItems,
		Location:    loc,
	})
	if err := provider.Begin(); err != nil {
		appLog.Error("provider init failed", err)
		os.Exit(1)
	}
	provider.SetURL(conf.URL)

	fmtr := format.New(format.Options{Locale: conf.Locale, Use24h: conf.Use24h})

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	refresh := func() {
		now := time.Now().In(loc)
		items := provider.ReadToday(ctx, conf.MaxItems)
		stats := provider.Stats()

		appLog.Info("today",
			"date", fmtr.FormatDate(now),
			"time", fmtr.FormatTime(now),
			"rows", len(items),
			"status", stats.LastStatus,
			"events_seen", stats.EventsSeen,
			"full_attempts", stats.FullAttempts,
		)
		for _, it := range items {
			appLog.Info("row", "time", it.TimeRange, "title", it.Title)
		}
	}

	if flags.once {
		refresh()
		appLog.Info("epdtoday exiting")
		return
	}

	refresh()

	c := cron.New()
	if _, err := c.AddFunc(conf.RefreshCron, refresh); err != nil {
		appLog.Error("invalid refresh schedule", err, "refresh", conf.RefreshCron)
		os.Exit(1)
	}
	c.Start()

	<-ctx.Done()

	// Let an in-flight refresh drain before exiting.
	<-c.Stop().Done()
	appLog.Info("epdtoday exiting")
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "/etc/epdtoday/config.yaml", "Path to config file")
	flag.StringVar(&cfg.url, "url", "", "ICS source URL (overrides config if set)")
	flag.BoolVar(&cfg.once, "once", false, "Run one fetch cycle and exit")

	flag.Parse()

	return cfg
}
