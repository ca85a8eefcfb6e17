package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/law-makers/reviews/pkg/models"
)

var csvHeader = []string{"title", "review_text", "review_date", "reviewer", "rating", "source"}

// CSVFilename mirrors ReportFilename with a .csv extension
func CSVFilename(company string, src models.Source) string {
	return strings.TrimSuffix(ReportFilename(company, src), ".json") + ".csv"
}

// WriteCSV writes the reviews of report as CSV next to the JSON report
func WriteCSV(dir string, report *models.Report) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	path := filepath.Join(dir, CSVFilename(report.Company, report.Source))

	file, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(csvHeader); err != nil {
		return "", err
	}
	for _, r := range report.Reviews {
		row := []string{r.Title, r.ReviewText, r.ReviewDate, r.Reviewer, r.Rating, string(r.Source)}
		if err := writer.Write(row); err != nil {
			return "", err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}
	return path, nil
}
