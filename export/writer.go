// Package export persists scraped categories as JSON and CSV files
// laid out by store, category and day. The file naming and field shape
// are a contract: the merger pattern-matches on both.
package export

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"preciotracker/models"
)

const dateLayout = "02-01-2006"

// Writer saves one category's products under
// <outputDir>/<store>/<category>/<DD-MM-YYYY>/<category>-results.{json,csv}.
type Writer struct {
	outputDir string
	uploader  *Uploader
	now       func() time.Time
}

// NewWriter creates a Writer rooted at outputDir. uploader may be nil,
// in which case results stay local only.
func NewWriter(outputDir string, uploader *Uploader) *Writer {
	return &Writer{outputDir: outputDir, uploader: uploader, now: time.Now}
}

// Save writes the JSON and CSV files for a finished category. An empty
// product list still produces both files, so a day with no results is
// distinguishable from a day that never ran.
func (w *Writer) Save(ctx context.Context, store, category string, products []models.Product) error {
	if products == nil {
		products = []models.Product{}
	}
	dir := filepath.Join(w.outputDir, store, category, w.now().Format(dateLayout))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	jsonPath := filepath.Join(dir, category+"-results.json")
	csvPath := filepath.Join(dir, category+"-results.csv")

	if err := SaveAsJSON(jsonPath, products); err != nil {
		return err
	}
	if err := saveAsCSV(csvPath, products); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"store":    store,
		"category": category,
		"count":    len(products),
		"dir":      dir,
	}).Info("Saved category results")

	if w.uploader != nil {
		// Remote copies are best-effort; a bucket hiccup must not fail
		// the category.
		for _, path := range []string{jsonPath, csvPath} {
			if err := w.uploader.UploadFile(ctx, w.outputDir, path); err != nil {
				logrus.WithError(err).WithField("file", path).Error("Failed to upload result file")
			}
		}
	}
	return nil
}

// SaveAsJSON writes data pretty-printed with 2-space indentation.
func SaveAsJSON(path string, data any) error {
	encoded, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func saveAsCSV(path string, products []models.Product) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(models.FieldNames()); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, p := range products {
		if err := cw.Write(csvRecord(p)); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// csvRecord renders one product in FieldNames order. Null fields
// become empty cells.
func csvRecord(p models.Product) []string {
	return []string{
		strOrEmpty(p.Title),
		strOrEmpty(p.Image),
		strOrEmpty(p.Link),
		formatPrice(p.OriginalPrice),
		formatPrice(p.FinalPrice),
		priceOrEmpty(p.SpecialDiscountPrice),
		strOrEmpty(p.DiscountPercentage),
		strOrEmpty(p.SpecialDiscountPercentage),
	}
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func priceOrEmpty(v *float64) string {
	if v == nil {
		return ""
	}
	return formatPrice(*v)
}
