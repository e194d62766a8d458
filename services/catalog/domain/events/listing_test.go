package events_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ghuser/mintbay/services/catalog/domain/events"
)

func TestTopics(t *testing.T) {
	if events.TopicListingCreated != "listing.created" {
		t.Errorf("expected %q, got %q", "listing.created", events.TopicListingCreated)
	}
	if events.TopicListingUpdated != "listing.updated" {
		t.Errorf("expected %q, got %q", "listing.updated", events.TopicListingUpdated)
	}
}

func TestListingCreatedEvent_JSONFieldNames(t *testing.T) {
	evt := events.ListingCreatedEvent{
		EventID:    uuid.New(),
		Version:    1,
		ListingID:  uuid.New(),
		Title:      "Print",
		PriceCents: 1000,
		Category:   "art",
		Listed:     true,
		OccurredAt: time.Now().UTC(),
	}

	data, err := json.Marshal(evt)
	if err != nil {
		t.Fatalf("json.Marshal failed: %v", err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal to map failed: %v", err)
	}
	for _, field := range []string{"event_id", "version", "listing_id", "title", "price_cents", "category", "listed", "occurred_at"} {
		if _, ok := raw[field]; !ok {
			t.Errorf("expected JSON field %q not found in: %s", field, data)
		}
	}
}

func TestListingUpdatedEvent_JSONFieldNames(t *testing.T) {
	evt := events.ListingUpdatedEvent{
		EventID:           uuid.New(),
		Version:           1,
		ListingID:         uuid.New(),
		PriceCents:        1500,
		Listed:            false,
		EditionsAvailable: 3,
		OccurredAt:        time.Now().UTC(),
	}

	data, err := json.Marshal(evt)
	if err != nil {
		t.Fatalf("json.Marshal failed: %v", err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal to map failed: %v", err)
	}
	for _, field := range []string{"event_id", "version", "listing_id", "price_cents", "listed", "editions_available", "occurred_at"} {
		if _, ok := raw[field]; !ok {
			t.Errorf("expected JSON field %q not found in: %s", field, data)
		}
	}
}
