package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/law-makers/reviews/internal/dateutil"
	"github.com/law-makers/reviews/pkg/models"
)

// SampleNotice labels a report whose reviews were generated
const SampleNotice = "No real reviews were found (likely bot protection). These reviews are generated sample data for demonstration, not real customer reviews."

// NewReport builds the output document. Start and end are echoed as given;
// review dates are normalized to YYYY-MM-DD where they parse.
func NewReport(company string, src models.Source, startDate, endDate string, reviews []models.Review, sample bool) *models.Report {
	out := make([]models.Review, len(reviews))
	for i, r := range reviews {
		r.ReviewDate = dateutil.Reformat(r.ReviewDate)
		out[i] = r
	}
	report := &models.Report{
		Company:      company,
		Source:       src,
		StartDate:    startDate,
		EndDate:      endDate,
		TotalReviews: len(out),
		SampleData:   sample,
		Reviews:      out,
	}
	if sample {
		report.Notice = SampleNotice
	}
	return report
}

// ReportFilename returns output_<company with spaces as underscores>_<source>.json
func ReportFilename(company string, src models.Source) string {
	return fmt.Sprintf("output_%s_%s.json", strings.ReplaceAll(company, " ", "_"), src)
}

// WriteReport writes report into dir and returns the file path
func WriteReport(dir string, report *models.Report) (string, error) {
	report.TotalReviews = len(report.Reviews)
	if report.Reviews == nil {
		report.Reviews = []models.Review{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}

	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	path := filepath.Join(dir, ReportFilename(report.Company, report.Source))
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

// ReadReport loads a report written by WriteReport
func ReadReport(path string) (*models.Report, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var report models.Report
	if err := json.Unmarshal(content, &report); err != nil {
		return nil, fmt.Errorf("decode report %s: %w", path, err)
	}
	return &report, nil
}
