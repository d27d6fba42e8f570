package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"preciotracker/browser"
	"preciotracker/config"
	"preciotracker/export"
	"preciotracker/merge"
	"preciotracker/scraper"
	"preciotracker/sites"
)

func init() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	logrus.SetOutput(os.Stdout)
}

func main() {
	all := flag.Bool("all", false, "Run every configured site scraper")
	siteNames := flag.String("sites", "", "Comma-separated site names to run")
	sitesFile := flag.String("config", "", "Path to a JSON site-config file (overrides built-ins)")
	outputDir := flag.String("output", "", "Directory to save scraped data")
	runMerge := flag.Bool("merge", false, "Merge all stores' data by category after scraping")
	logLevel := flag.String("loglevel", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %v", err)
	}
	logrus.SetLevel(level)

	config.LoadConfig()
	if *sitesFile != "" {
		config.SitesFile = *sitesFile
	}
	if *outputDir != "" {
		config.OutputDir = *outputDir
	}

	configs, err := selectedConfigs(*all, *siteNames)
	if err != nil {
		logrus.Fatal(err)
	}
	if len(configs) == 0 {
		logrus.Fatal("No sites selected. Use -all or -sites=<name,...>. Available: " + strings.Join(sites.Names(), ", "))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runID := uuid.NewString()
	logrus.WithFields(logrus.Fields{"run": runID, "sites": len(configs)}).Info("Starting scrape run")

	uploader, err := export.NewUploader(ctx, config.AWSRegion, config.AWSBucketName)
	if err != nil {
		logrus.WithError(err).Error("S3 uploader unavailable; results stay local")
	}

	// Each site scraper is an independent task owning its own browser
	// session; the drivers never share state.
	var wg sync.WaitGroup
	for _, cfg := range configs {
		wg.Add(1)
		go func(cfg sites.SiteConfig) {
			defer wg.Done()
			runSite(ctx, cfg, uploader, runID)
		}(cfg)
	}
	wg.Wait()

	logrus.WithField("run", runID).Info("All site scrapers finished")

	if *runMerge {
		if err := merge.Run(config.OutputDir, config.MergedDir, ""); err != nil {
			logrus.WithError(err).Error("Merge failed")
		}
	}
}

func runSite(ctx context.Context, cfg sites.SiteConfig, uploader *export.Uploader, runID string) {
	slog := logrus.WithFields(logrus.Fields{"run": runID, "site": cfg.Name})

	session, err := browser.NewSession(ctx, config.Engine, config.ChromeDriverPath, config.Headless)
	if err != nil {
		slog.WithError(err).Error("Could not create a browser session; skipping site")
		return
	}
	defer session.Close()

	writer := export.NewWriter(config.OutputDir, uploader)
	if err := scraper.New(cfg, session, writer).Exec(ctx); err != nil {
		slog.WithError(err).Error("Site scrape ended early")
		return
	}
	slog.Info("Site scrape complete")
}

func selectedConfigs(all bool, names string) ([]sites.SiteConfig, error) {
	available := sites.Builtin()
	if config.SitesFile != "" {
		loaded, err := sites.LoadFile(config.SitesFile)
		if err != nil {
			return nil, err
		}
		available = loaded
	}
	if all {
		return available, nil
	}

	var selected []sites.SiteConfig
	for _, name := range strings.Split(names, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		found := false
		for _, cfg := range available {
			if cfg.Name == name {
				selected = append(selected, cfg)
				found = true
				break
			}
		}
		if !found {
			logrus.Warnf("Unknown site %q, skipping", name)
		}
	}
	return selected, nil
}
