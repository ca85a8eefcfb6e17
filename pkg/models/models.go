package models

import (
	"fmt"
	"strings"
)

// Review represents one review scraped from a source listing
type Review struct {
	Title      string `json:"title"`
	ReviewText string `json:"review_text"`
	ReviewDate string `json:"review_date"`
	Reviewer   string `json:"reviewer"`
	Rating     string `json:"rating"`
	Source     Source `json:"source"`
}

// HasContent reports whether the review carries a title or body.
// Reviews without either are never kept.
func (r Review) HasContent() bool {
	return strings.TrimSpace(r.Title) != "" || strings.TrimSpace(r.ReviewText) != ""
}

// Source identifies a review aggregator
type Source string

const (
	SourceG2         Source = "g2"
	SourceCapterra   Source = "capterra"
	SourceTrustpilot Source = "trustpilot"
)

// Sources returns every supported source in display order
func Sources() []Source {
	return []Source{SourceG2, SourceCapterra, SourceTrustpilot}
}

// ParseSource converts user input into a Source
func ParseSource(s string) (Source, error) {
	candidate := Source(strings.ToLower(strings.TrimSpace(s)))
	for _, src := range Sources() {
		if candidate == src {
			return src, nil
		}
	}
	return "", fmt.Errorf("invalid source %q: must be one of g2, capterra, trustpilot", s)
}

// Report is the document written for one scrape run
type Report struct {
	Company      string   `json:"company"`
	Source       Source   `json:"source"`
	StartDate    string   `json:"start_date"`
	EndDate      string   `json:"end_date"`
	TotalReviews int      `json:"total_reviews"`
	SampleData   bool     `json:"sample_data"`
	Notice       string   `json:"notice,omitempty"`
	Reviews      []Review `json:"reviews"`
}

// FetchMode defines how a page is retrieved
type FetchMode string

const (
	ModeStatic  FetchMode = "static"
	ModeDynamic FetchMode = "dynamic"
)
