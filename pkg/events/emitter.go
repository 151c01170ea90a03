// Package events handles event emission for search and merge lifecycle
// changes.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/a-deal/gym-finder/pkg/kafka"
	"github.com/a-deal/gym-finder/pkg/models"
	"github.com/a-deal/gym-finder/pkg/tracing"
)

// SchemaVersion is the current event schema version
const SchemaVersion = "1.0"

// Emitter handles event emission. A nil producer makes every emit a
// no-op, so callers never need to branch on whether Kafka is enabled.
type Emitter struct {
	producer *kafka.Producer
	logger   ectologger.Logger
}

// NewEmitter creates a new event emitter
func NewEmitter(producer *kafka.Producer, logger ectologger.Logger) *Emitter {
	return &Emitter{
		producer: producer,
		logger:   logger,
	}
}

// EmitSearchCompleted emits a search.completed event
func (e *Emitter) EmitSearchCompleted(ctx context.Context, searchID string, info models.SearchInfo, duration time.Duration) error {
	if e == nil || e.producer == nil {
		return nil
	}

	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitSearchCompleted")
	defer span.End()

	payload := SearchCompletedEvent{
		SchemaVersion: SchemaVersion,
		SearchID:      searchID,
		Zipcode:       info.Zipcode,
		RadiusMiles:   info.RadiusMiles,
		YelpCount:     info.YelpResults,
		GoogleCount:   info.GoogleResults,
		MergedCount:   info.MergedCount,
		TotalCount:    info.TotalResults,
		DurationMS:    duration.Milliseconds(),
		Timestamp:     time.Now().UTC(),
	}

	data, _ := json.Marshal(payload)

	event := &kafka.GymEvent{
		EventType: string(EventTypeSearchCompleted),
		SearchID:  searchID,
		Key:       searchID,
		Data:      data,
	}

	if err := e.producer.PublishGymEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit search.completed event")
		return err
	}

	return nil
}

// EmitGymMerged emits a gym.merged event
func (e *Emitter) EmitGymMerged(ctx context.Context, searchID string, merged *models.MergedRecord) error {
	if e == nil || e.producer == nil {
		return nil
	}

	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitGymMerged")
	defer span.End()

	sources := make([]string, 0, len(merged.Sources))
	for _, source := range merged.Sources {
		sources = append(sources, string(source))
	}

	payload := GymMergedEvent{
		SchemaVersion: SchemaVersion,
		SearchID:      searchID,
		Name:          merged.Name,
		Address:       merged.Address,
		Confidence:    merged.MatchConfidence,
		Sources:       sources,
	}

	data, _ := json.Marshal(payload)

	event := &kafka.GymEvent{
		EventType: string(EventTypeGymMerged),
		SearchID:  searchID,
		Key:       merged.Name,
		Data:      data,
	}

	if err := e.producer.PublishGymEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit gym.merged event")
		return err
	}

	return nil
}
