// Package export renders merged gym records as CSV or JSON.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/a-deal/gym-finder/pkg/models"
)

// Format selects an export encoding
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat validates a requested export format, defaulting to JSON.
func ParseFormat(raw string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unsupported export format: %s", raw)
	}
}

// csvColumns is the fixed CSV column order
var csvColumns = []string{
	"name", "address", "phone", "rating", "review_count",
	"price", "url", "sources", "match_confidence",
}

// WriteCSV writes gyms as CSV with a header row.
func WriteCSV(w io.Writer, gyms []models.MergedRecord) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(csvColumns); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, gym := range gyms {
		rating := ""
		if gym.Rating != nil {
			rating = strconv.FormatFloat(*gym.Rating, 'f', -1, 64)
		}

		sources := make([]string, 0, len(gym.Sources))
		for _, source := range gym.Sources {
			sources = append(sources, string(source))
		}

		confidence := ""
		if gym.MatchConfidence > 0 {
			confidence = strconv.FormatFloat(gym.MatchConfidence, 'f', 2, 64)
		}

		row := []string{
			gym.Name,
			gym.Address,
			gym.Phone,
			rating,
			strconv.Itoa(gym.ReviewCount),
			gym.Price,
			gym.URL,
			strings.Join(sources, ", "),
			confidence,
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteJSON writes the full search result as indented JSON.
func WriteJSON(w io.Writer, result *models.SearchResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}
