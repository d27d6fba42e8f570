package main

import (
	"flag"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"preciotracker/merge"
)

func main() {
	inputDir := flag.String("input", "extracted-data", "Root directory of per-store extraction output")
	outputDir := flag.String("output", "all-in", "Directory for the combined per-category files")
	date := flag.String("date", time.Now().Format("02-01-2006"), "Day folder to merge (DD-MM-YYYY)")
	flag.Parse()

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	logrus.Info("Scanning directories and collecting product data...")
	if err := merge.Run(*inputDir, *outputDir, *date); err != nil {
		logrus.WithError(err).Error("Merge failed")
		os.Exit(1)
	}
	logrus.Info("Data aggregation complete")
}
