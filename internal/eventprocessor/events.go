// Pawmatch - Pet Adoption Matching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawmatch

package eventprocessor

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Metadata keys set on every change message.
const (
	MetadataEventType = "event_type"
	MetadataEntityID  = "entity_id"
)

// Event type names.
const (
	EventTypePetChanged         = "pet.changed"
	EventTypePreferencesChanged = "preferences.changed"
)

// ErrInvalidEvent marks a payload that cannot be decoded or fails validation.
// Retrying such a message never succeeds.
var ErrInvalidEvent = errors.New("invalid event")

// Topics names the subjects change events are published on.
type Topics struct {
	PetChanged         string
	PreferencesChanged string
}

// NewTopics derives the topic names from prefix.
func NewTopics(prefix string) Topics {
	return Topics{
		PetChanged:         prefix + ".pets.changed",
		PreferencesChanged: prefix + ".preferences.changed",
	}
}

// PetChanged announces that a pet record was created or updated, including
// status transitions out of Available.
type PetChanged struct {
	EventID    string    `json:"event_id"`
	PetID      int64     `json:"pet_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// PreferencesChanged announces that an adopter saved their preference record.
type PreferencesChanged struct {
	EventID    string    `json:"event_id"`
	UserID     int64     `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewPetChanged creates an event for petID with a fresh event id.
func NewPetChanged(petID int64) *PetChanged {
	return &PetChanged{EventID: uuid.NewString(), PetID: petID, OccurredAt: time.Now().UTC()}
}

// NewPreferencesChanged creates an event for userID with a fresh event id.
func NewPreferencesChanged(userID int64) *PreferencesChanged {
	return &PreferencesChanged{EventID: uuid.NewString(), UserID: userID, OccurredAt: time.Now().UTC()}
}

// Validate checks required fields.
func (e *PetChanged) Validate() error {
	if e.EventID == "" {
		return fmt.Errorf("%w: event_id is required", ErrInvalidEvent)
	}
	if e.PetID < 1 {
		return fmt.Errorf("%w: pet_id must be positive, got %d", ErrInvalidEvent, e.PetID)
	}
	return nil
}

// Validate checks required fields.
func (e *PreferencesChanged) Validate() error {
	if e.EventID == "" {
		return fmt.Errorf("%w: event_id is required", ErrInvalidEvent)
	}
	if e.UserID < 1 {
		return fmt.Errorf("%w: user_id must be positive, got %d", ErrInvalidEvent, e.UserID)
	}
	return nil
}

// ToMessage serializes the event into a Watermill message keyed by EventID.
func (e *PetChanged) ToMessage() (*message.Message, error) {
	return toMessage(e.EventID, EventTypePetChanged, e.PetID, e)
}

// ToMessage serializes the event into a Watermill message keyed by EventID.
func (e *PreferencesChanged) ToMessage() (*message.Message, error) {
	return toMessage(e.EventID, EventTypePreferencesChanged, e.UserID, e)
}

func toMessage(id, eventType string, entityID int64, v interface{}) (*message.Message, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", eventType, err)
	}
	msg := message.NewMessage(id, data)
	msg.Metadata.Set(MetadataEventType, eventType)
	msg.Metadata.Set(MetadataEntityID, strconv.FormatInt(entityID, 10))
	return msg, nil
}

// DecodePetChanged parses and validates a PetChanged payload.
func DecodePetChanged(msg *message.Message) (*PetChanged, error) {
	var e PetChanged
	if err := json.Unmarshal(msg.Payload, &e); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return &e, nil
}

// DecodePreferencesChanged parses and validates a PreferencesChanged payload.
func DecodePreferencesChanged(msg *message.Message) (*PreferencesChanged, error) {
	var e PreferencesChanged
	if err := json.Unmarshal(msg.Payload, &e); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return &e, nil
}
