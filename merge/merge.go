// Package merge combines per-store extraction outputs into one dataset
// per category, tagging every record with its source store.
package merge

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"preciotracker/export"
	"preciotracker/models"
)

// TaggedProduct is a scraped product annotated with the store it came
// from, the unit of the combined per-category files.
type TaggedProduct struct {
	models.Product
	StoreName string `json:"storeName"`
}

// Run scans <inputDir>/<store>/<category> across all stores, reads
// each category's results JSON (preferring the given DD-MM-YYYY day
// folder, falling back to a dateless file), concatenates records by
// category and writes combined <category>.json/.csv under outputDir.
// An empty date means today.
func Run(inputDir, outputDir, date string) error {
	if date == "" {
		date = time.Now().Format("02-01-2006")
	}
	categories, err := collectByCategory(inputDir, date)
	if err != nil {
		return err
	}
	if len(categories) == 0 {
		logrus.WithField("input", inputDir).Warn("No category results found to merge")
		return nil
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}

	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		products := categories[name]
		if err := export.SaveAsJSON(filepath.Join(outputDir, name+".json"), products); err != nil {
			return err
		}
		if err := saveTaggedCSV(filepath.Join(outputDir, name+".csv"), products); err != nil {
			return err
		}
		logrus.WithFields(logrus.Fields{"category": name, "count": len(products)}).Info("Merged category")
	}
	return nil
}

func collectByCategory(inputDir, date string) (map[string][]TaggedProduct, error) {
	stores, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory %s: %w", inputDir, err)
	}

	categories := make(map[string][]TaggedProduct)
	for _, store := range stores {
		if !store.IsDir() {
			continue
		}
		storePath := filepath.Join(inputDir, store.Name())
		cats, err := os.ReadDir(storePath)
		if err != nil {
			logrus.WithError(err).WithField("store", store.Name()).Warn("Skipping unreadable store directory")
			continue
		}

		for _, cat := range cats {
			if !cat.IsDir() {
				continue
			}
			file := resultsFile(filepath.Join(storePath, cat.Name()), cat.Name(), date)
			if file == "" {
				continue
			}

			products, err := readProducts(file)
			if err != nil {
				logrus.WithError(err).WithField("file", file).Error("Skipping unreadable results file")
				continue
			}
			for _, p := range products {
				categories[cat.Name()] = append(categories[cat.Name()], TaggedProduct{Product: p, StoreName: store.Name()})
			}
		}
	}
	return categories, nil
}

func resultsFile(categoryDir, category, date string) string {
	name := category + "-results.json"
	if date != "" {
		if path := filepath.Join(categoryDir, date, name); fileExists(path) {
			return path
		}
	}
	if path := filepath.Join(categoryDir, name); fileExists(path) {
		return path
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func readProducts(path string) ([]models.Product, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var products []models.Product
	if err := json.Unmarshal(content, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func saveTaggedCSV(path string, products []TaggedProduct) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	header := append(models.FieldNames(), "storeName")
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, p := range products {
		row := []string{
			deref(p.Title),
			deref(p.Image),
			deref(p.Link),
			strconv.FormatFloat(p.OriginalPrice, 'f', 2, 64),
			strconv.FormatFloat(p.FinalPrice, 'f', 2, 64),
			derefPrice(p.SpecialDiscountPrice),
			deref(p.DiscountPercentage),
			deref(p.SpecialDiscountPercentage),
			p.StoreName,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefPrice(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}
