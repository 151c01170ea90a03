package places

import (
	"context"
	"fmt"
	"strings"

	"github.com/a-deal/gym-finder/pkg/models"
	"github.com/a-deal/gym-finder/pkg/tracing"
)

// Enrichment holds profile signals derived from a place details lookup.
type Enrichment struct {
	HasReviews          bool                 `json:"has_reviews"`
	HasEditorialSummary bool                 `json:"has_editorial_summary"`
	HasPhotos           bool                 `json:"has_photos"`
	HasHours            bool                 `json:"has_hours"`
	HasWebsite          bool                 `json:"has_website"`
	ReviewSentiment     float64              `json:"review_sentiment"`
	ProfileCompleteness float64              `json:"profile_completeness"`
	Website             string               `json:"website"`
	Phone               string               `json:"phone"`
	Hours               *models.OpeningHours `json:"hours"`
}

// Details fetches a place's full profile and derives enrichment signals.
// Lookup failures degrade to a nil enrichment rather than an error so
// that enrichment never blocks a search.
func (c *Client) Details(ctx context.Context, placeID string) (*Enrichment, error) {
	ctx, span := tracing.StartSpan(ctx, "places.Client.Details")
	defer span.End()

	if placeID == "" || c.apiKey == "" {
		return nil, nil
	}

	headers := map[string]string{
		"X-Goog-Api-Key":   c.apiKey,
		"X-Goog-FieldMask": detailsFieldMask,
	}

	resp, err := c.http.Get(ctx, fmt.Sprintf("%s/places/%s", c.baseURL, placeID), headers)
	if err != nil {
		c.logger.WithContext(ctx).WithError(err).Debugf("Place details lookup failed for %s", placeID)
		return nil, nil
	}

	if !resp.IsSuccess() {
		c.logger.WithContext(ctx).Debugf("Place details returned status %d for %s", resp.StatusCode, placeID)
		return nil, nil
	}

	var detailed place
	if err := resp.DecodeJSON(&detailed); err != nil {
		return nil, fmt.Errorf("failed to decode place details response: %w", err)
	}

	enrichment := &Enrichment{
		HasReviews:          len(detailed.Reviews) > 0,
		HasEditorialSummary: detailed.EditorialSummary != nil && detailed.EditorialSummary.Text != "",
		HasPhotos:           len(detailed.Photos) > 0,
		HasHours:            detailed.RegularOpeningHours != nil,
		HasWebsite:          detailed.WebsiteURI != "",
		ReviewSentiment:     reviewSentiment(detailed.Reviews),
		ProfileCompleteness: profileCompleteness(detailed),
		Website:             strings.TrimSpace(detailed.WebsiteURI),
		Phone:               strings.TrimSpace(detailed.NationalPhoneNumber),
		Hours:               coalesceHours(nil, detailed.RegularOpeningHours),
	}

	return enrichment, nil
}

var (
	positiveKeywords = []string{"great", "excellent", "amazing", "love", "recommend", "clean", "friendly", "helpful"}
	negativeKeywords = []string{"bad", "terrible", "dirty", "rude", "expensive", "crowded", "broken"}
)

// reviewSentiment scores keyword sentiment over the first five reviews,
// normalized to [-1, 1].
func reviewSentiment(reviews []review) float64 {
	if len(reviews) == 0 {
		return 0.0
	}

	if len(reviews) > 5 {
		reviews = reviews[:5]
	}

	total := 0.0
	scored := 0

	for _, rev := range reviews {
		if rev.Text == nil {
			continue
		}
		text := strings.ToLower(rev.Text.Text)
		if text == "" {
			continue
		}

		positive := 0
		for _, keyword := range positiveKeywords {
			if strings.Contains(text, keyword) {
				positive++
			}
		}
		negative := 0
		for _, keyword := range negativeKeywords {
			if strings.Contains(text, keyword) {
				negative++
			}
		}

		if positive+negative > 0 {
			total += float64(positive-negative) / float64(positive+negative)
			scored++
		}
	}

	if scored == 0 {
		return 0.0
	}
	return total / float64(scored)
}

// profileCompleteness scores how fully a place's profile is populated,
// capped at 0.8.
func profileCompleteness(pl place) float64 {
	score := 0.0

	if pl.DisplayName != nil && pl.DisplayName.Text != "" {
		score += 0.1
	}
	if pl.FormattedAddress != "" {
		score += 0.1
	}
	if pl.NationalPhoneNumber != "" {
		score += 0.1
	}
	if pl.WebsiteURI != "" {
		score += 0.15
	}
	if pl.RegularOpeningHours != nil {
		score += 0.1
	}
	if len(pl.Photos) > 0 {
		score += 0.1
	}
	if len(pl.Reviews) > 0 {
		score += 0.1
	}
	if pl.EditorialSummary != nil && pl.EditorialSummary.Text != "" {
		score += 0.05
	}

	if score > 0.8 {
		return 0.8
	}
	return score
}
