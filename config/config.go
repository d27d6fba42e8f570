package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

var (
	Port             string
	OutputDir        string
	MergedDir        string
	SitesFile        string
	Engine           string
	ChromeDriverPath string
	Headless         bool
	AWSRegion        string
	AWSBucketName    string
)

// LoadConfig loads environment variables from a .env file, falling
// back to the process environment and defaults.
func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using default values or system environment variables")
	}

	Port = getEnv("PORT", "8080")
	OutputDir = getEnv("OUTPUT_DIR", "extracted-data")
	MergedDir = getEnv("MERGED_DIR", "all-in")
	SitesFile = os.Getenv("SITES_FILE")
	Engine = getEnv("ENGINE", "chromedp")
	ChromeDriverPath = os.Getenv("CHROMEDRIVER_PATH")
	Headless = getEnv("HEADLESS", "true") != "false"
	AWSRegion = getEnv("AWS_REGION", "us-east-1")
	AWSBucketName = os.Getenv("AWS_BUCKET_NAME")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
