package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/sirupsen/logrus"

	"preciotracker/api"
	"preciotracker/config"
)

func init() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	logrus.SetOutput(os.Stdout)
}

func main() {
	config.LoadConfig()

	// CORS Middleware
	corsMiddleware := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}
			next(w, r)
		}
	}

	http.HandleFunc("GET /status", corsMiddleware(api.StatusHandler))
	http.HandleFunc("GET /sites", corsMiddleware(api.SitesHandler))
	http.HandleFunc("GET /scrapers/{scraper}", corsMiddleware(api.ScrapeHandler))
	http.HandleFunc("POST /merge", corsMiddleware(api.MergeHandler))

	port := config.Port
	logrus.Infof("Server starting on port %s...", port)
	fmt.Printf("Usage: curl \"http://localhost:%s/scrapers/<site>\"\n", port)
	if err := http.ListenAndServe(":"+port, nil); err != nil {
		logrus.Fatalf("Server failed to start: %v", err)
	}
}
