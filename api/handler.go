package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"preciotracker/browser"
	"preciotracker/config"
	"preciotracker/export"
	"preciotracker/merge"
	"preciotracker/scraper"
	"preciotracker/sites"
)

// StatusHandler reports liveness.
func StatusHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "ok")
}

// ScrapeHandler runs one store's scraper to completion and reports
// how it went. The session is created per request and always released.
func ScrapeHandler(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("scraper")
	if name == "" {
		http.Error(w, "No scraper provided", http.StatusBadRequest)
		return
	}

	cfg, err := lookupSite(name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	ctx := r.Context()
	session, err := browser.NewSession(ctx, config.Engine, config.ChromeDriverPath, config.Headless)
	if err != nil {
		// Without a rendering session nothing downstream can proceed.
		logrus.WithError(err).Error("Could not create a browser session")
		http.Error(w, fmt.Sprintf("Failed to start browser session: %v", err), http.StatusInternalServerError)
		return
	}
	defer session.Close()

	uploader, err := export.NewUploader(ctx, config.AWSRegion, config.AWSBucketName)
	if err != nil {
		logrus.WithError(err).Error("S3 uploader unavailable; results stay local")
	}

	writer := export.NewWriter(config.OutputDir, uploader)
	if err := scraper.New(cfg, session, writer).Exec(ctx); err != nil {
		http.Error(w, fmt.Sprintf("Scraper failed: %v", err), http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]string{"message": "Scraper executed successfully", "site": name})
}

// MergeHandler combines all stores' extracted data by category.
func MergeHandler(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if err := merge.Run(config.OutputDir, config.MergedDir, date); err != nil {
		http.Error(w, fmt.Sprintf("Merge failed: %v", err), http.StatusInternalServerError)
		return
	}
	writeJSON(w, map[string]string{"message": "Merge executed successfully", "output": config.MergedDir})
}

// SitesHandler lists the available store configurations.
func SitesHandler(w http.ResponseWriter, r *http.Request) {
	if config.SitesFile != "" {
		configs, err := sites.LoadFile(config.SitesFile)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		names := make([]string, 0, len(configs))
		for _, c := range configs {
			names = append(names, c.Name)
		}
		writeJSON(w, names)
		return
	}
	writeJSON(w, sites.Names())
}

func lookupSite(name string) (sites.SiteConfig, error) {
	if config.SitesFile != "" {
		configs, err := sites.LoadFile(config.SitesFile)
		if err != nil {
			return sites.SiteConfig{}, err
		}
		for _, c := range configs {
			if c.Name == name {
				return c, nil
			}
		}
		return sites.SiteConfig{}, fmt.Errorf("no site configuration for %q", name)
	}
	return sites.Get(name)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
