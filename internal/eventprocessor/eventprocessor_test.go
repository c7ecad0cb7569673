// Pawmatch - Pet Adoption Matching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawmatch

package eventprocessor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/pawmatch/internal/config"
	"github.com/tomtom215/pawmatch/internal/recommend"
)

type fakeHandler struct {
	mu         sync.Mutex
	pets       []int64
	prefs      []int64
	petErr     error
	prefsErr   error
	petCalls   chan int64
	prefsCalls chan int64
}

func newFakeHandler() *fakeHandler {
	return &fakeHandler{
		petCalls:   make(chan int64, 16),
		prefsCalls: make(chan int64, 16),
	}
}

func (f *fakeHandler) OnPetChanged(_ context.Context, petID int64) error {
	f.mu.Lock()
	f.pets = append(f.pets, petID)
	err := f.petErr
	f.mu.Unlock()
	f.petCalls <- petID
	return err
}

func (f *fakeHandler) OnPreferencesChanged(_ context.Context, userID int64) (*recommend.RefreshResult, error) {
	f.mu.Lock()
	f.prefs = append(f.prefs, userID)
	err := f.prefsErr
	f.mu.Unlock()
	f.prefsCalls <- userID
	if err != nil {
		return nil, err
	}
	return &recommend.RefreshResult{UserID: userID}, nil
}

func (f *fakeHandler) petCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pets)
}

func waitFor(t *testing.T, ch <-chan int64) int64 {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for handler call")
		return 0
	}
}

func testRouterConfig() RouterConfig {
	return RouterConfig{
		CloseTimeout:         time.Second,
		RetryMaxRetries:      2,
		RetryInitialInterval: time.Millisecond,
		RetryMaxInterval:     5 * time.Millisecond,
		RetryMultiplier:      2,
	}
}

// startConsumer wires a publisher and consumer over an in-process channel.
func startConsumer(t *testing.T, h ChangeHandler) (*Publisher, *gochannel.GoChannel) {
	t.Helper()

	ch := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 16}, watermill.NopLogger{})
	topics := NewTopics("test")
	consumer := NewConsumer(ch, h, topics, testRouterConfig(), zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- consumer.Run(ctx) }()

	t.Cleanup(func() {
		cancel()
		<-done
		_ = ch.Close()
	})

	select {
	case <-consumer.Ready():
	case <-time.After(5 * time.Second):
		t.Fatal("consumer did not start")
	}

	return NewPublisher(ch, topics, nil, zerolog.Nop()), ch
}

func TestNewTopics(t *testing.T) {
	topics := NewTopics("pawmatch")
	if topics.PetChanged != "pawmatch.pets.changed" {
		t.Errorf("PetChanged = %q", topics.PetChanged)
	}
	if topics.PreferencesChanged != "pawmatch.preferences.changed" {
		t.Errorf("PreferencesChanged = %q", topics.PreferencesChanged)
	}
}

func TestEventMessages(t *testing.T) {
	ev := NewPetChanged(42)
	msg, err := ev.ToMessage()
	if err != nil {
		t.Fatal(err)
	}
	if msg.UUID != ev.EventID {
		t.Errorf("UUID = %q, want %q", msg.UUID, ev.EventID)
	}
	if msg.Metadata.Get(MetadataEventType) != EventTypePetChanged || msg.Metadata.Get(MetadataEntityID) != "42" {
		t.Errorf("Metadata = %v", msg.Metadata)
	}
	got, err := DecodePetChanged(msg)
	if err != nil {
		t.Fatal(err)
	}
	if got.PetID != 42 || got.EventID != ev.EventID {
		t.Errorf("decoded = %+v", got)
	}

	tests := []struct {
		name    string
		payload string
	}{
		{"not json", "{"},
		{"missing id", `{"pet_id":1}`},
		{"zero pet", `{"event_id":"x","pet_id":0}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodePetChanged(message.NewMessage("x", []byte(tt.payload)))
			if !errors.Is(err, ErrInvalidEvent) {
				t.Errorf("error = %v, want ErrInvalidEvent", err)
			}
		})
	}

	if _, err := DecodePreferencesChanged(message.NewMessage("x", []byte(`{"event_id":"x","user_id":-1}`))); !errors.Is(err, ErrInvalidEvent) {
		t.Errorf("DecodePreferencesChanged error = %v", err)
	}
}

func TestConsumerDeliversEvents(t *testing.T) {
	h := newFakeHandler()
	pub, _ := startConsumer(t, h)
	ctx := context.Background()

	if _, err := pub.PublishPetChanged(ctx, 5); err != nil {
		t.Fatal(err)
	}
	if got := waitFor(t, h.petCalls); got != 5 {
		t.Errorf("pet = %d, want 5", got)
	}

	id, err := pub.PublishPreferencesChanged(ctx, 7)
	if err != nil {
		t.Fatal(err)
	}
	if id == "" {
		t.Error("event id should be returned")
	}
	if got := waitFor(t, h.prefsCalls); got != 7 {
		t.Errorf("user = %d, want 7", got)
	}
}

func TestConsumerRetriesThenDrops(t *testing.T) {
	h := newFakeHandler()
	h.petErr = errors.New("store unavailable")
	pub, _ := startConsumer(t, h)

	if _, err := pub.PublishPetChanged(context.Background(), 9); err != nil {
		t.Fatal(err)
	}
	// One attempt plus RetryMaxRetries retries.
	for i := 0; i < 3; i++ {
		waitFor(t, h.petCalls)
	}
	select {
	case <-h.petCalls:
		t.Error("message should be dropped after retries")
	case <-time.After(200 * time.Millisecond):
	}
	if h.petCount() != 3 {
		t.Errorf("calls = %d, want 3", h.petCount())
	}
}

func TestConsumerAcksMissingPreferences(t *testing.T) {
	h := newFakeHandler()
	h.prefsErr = recommend.ErrMissingPreferences
	pub, _ := startConsumer(t, h)

	if _, err := pub.PublishPreferencesChanged(context.Background(), 3); err != nil {
		t.Fatal(err)
	}
	waitFor(t, h.prefsCalls)
	select {
	case <-h.prefsCalls:
		t.Error("missing preferences should not be retried")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestConsumerDiscardsInvalidPayload(t *testing.T) {
	h := newFakeHandler()
	_, ch := startConsumer(t, h)

	if err := ch.Publish(NewTopics("test").PetChanged, message.NewMessage("bad", []byte("nope"))); err != nil {
		t.Fatal(err)
	}
	select {
	case <-h.petCalls:
		t.Error("invalid payload reached the handler")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestConsumerSkipsRedelivery(t *testing.T) {
	h := newFakeHandler()
	_, ch := startConsumer(t, h)
	topic := NewTopics("test").PetChanged

	ev := NewPetChanged(11)
	for i := 0; i < 2; i++ {
		msg, err := ev.ToMessage()
		if err != nil {
			t.Fatal(err)
		}
		if err := ch.Publish(topic, msg); err != nil {
			t.Fatal(err)
		}
	}

	if got := waitFor(t, h.petCalls); got != 11 {
		t.Errorf("pet = %d, want 11", got)
	}
	select {
	case <-h.petCalls:
		t.Error("redelivered event reached the handler")
	case <-time.After(200 * time.Millisecond):
	}

	// A different event for the same pet is still applied.
	msg, err := NewPetChanged(11).ToMessage()
	if err != nil {
		t.Fatal(err)
	}
	if err := ch.Publish(topic, msg); err != nil {
		t.Fatal(err)
	}
	waitFor(t, h.petCalls)
}

type failingPublisher struct{ calls int }

func (f *failingPublisher) Publish(string, ...*message.Message) error {
	f.calls++
	return errors.New("nats down")
}

func (f *failingPublisher) Close() error { return nil }

func TestPublisherCircuitBreakerOpens(t *testing.T) {
	fp := &failingPublisher{}
	cb := NewCircuitBreaker(CircuitBreakerConfig{Name: "test_publish", FailureThreshold: 2, Timeout: time.Minute}, zerolog.Nop())
	pub := NewPublisher(fp, NewTopics("test"), cb, zerolog.Nop())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := pub.PublishPetChanged(ctx, 1); err == nil {
			t.Fatal("expected publish error")
		}
	}
	_, err := pub.PublishPetChanged(ctx, 1)
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Errorf("error = %v, want ErrOpenState", err)
	}
	if fp.calls != 2 {
		t.Errorf("underlying publisher called %d times, want 2", fp.calls)
	}
	if cb.State() != gobreaker.StateOpen {
		t.Errorf("state = %v, want open", cb.State())
	}
}

func TestPublisherClosed(t *testing.T) {
	pub := NewPublisher(&failingPublisher{}, NewTopics("test"), nil, zerolog.Nop())
	_ = pub.Close()
	if _, err := pub.PublishPetChanged(context.Background(), 1); !errors.Is(err, ErrPublisherClosed) {
		t.Errorf("error = %v, want ErrPublisherClosed", err)
	}
}

func TestNewBus(t *testing.T) {
	cfg := &config.EventsConfig{Backend: config.BackendMemory, BufferSize: 4}
	bus, err := NewBus(context.Background(), cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	if bus.Publisher == nil || bus.Subscriber == nil {
		t.Fatal("memory bus should have both ends")
	}
	if err := bus.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}

	if _, err := NewBus(context.Background(), &config.EventsConfig{Backend: "kafka"}, nil); err == nil {
		t.Error("unknown backend should fail")
	}
}

func TestConfigMapping(t *testing.T) {
	cfg := &config.EventsConfig{RetryMax: 7, BreakerFailures: 4, BreakerTimeout: time.Second, DedupWindow: time.Hour}
	rc := RouterConfigFrom(cfg)
	if rc.RetryMaxRetries != 7 {
		t.Errorf("RetryMaxRetries = %d", rc.RetryMaxRetries)
	}
	if rc.DedupWindow != time.Hour {
		t.Errorf("DedupWindow = %v", rc.DedupWindow)
	}
	bc := BreakerConfigFrom(cfg)
	if bc.FailureThreshold != 4 || bc.Timeout != time.Second || bc.Name != PublishBreakerName {
		t.Errorf("breaker config = %+v", bc)
	}
}

type fakeJetStream struct {
	streamErr error
	created   []jetstream.StreamConfig
	updated   []jetstream.StreamConfig
}

func (f *fakeJetStream) Stream(context.Context, string) (jetstream.Stream, error) {
	return nil, f.streamErr
}

func (f *fakeJetStream) CreateStream(_ context.Context, cfg jetstream.StreamConfig) (jetstream.Stream, error) {
	f.created = append(f.created, cfg)
	return nil, nil
}

func (f *fakeJetStream) UpdateStream(_ context.Context, cfg jetstream.StreamConfig) (jetstream.Stream, error) {
	f.updated = append(f.updated, cfg)
	return nil, nil
}

func TestEnsureStream(t *testing.T) {
	ctx := context.Background()

	missing := &fakeJetStream{streamErr: jetstream.ErrStreamNotFound}
	if err := EnsureStream(ctx, missing, "pawmatch"); err != nil {
		t.Fatal(err)
	}
	if len(missing.created) != 1 || missing.created[0].Name != "PAWMATCH_CHANGES" {
		t.Fatalf("created = %+v", missing.created)
	}
	if missing.created[0].Subjects[0] != "pawmatch.>" {
		t.Errorf("subjects = %v", missing.created[0].Subjects)
	}

	existing := &fakeJetStream{}
	if err := EnsureStream(ctx, existing, "pawmatch"); err != nil {
		t.Fatal(err)
	}
	if len(existing.updated) != 1 || len(existing.created) != 0 {
		t.Errorf("existing stream: created %d, updated %d", len(existing.created), len(existing.updated))
	}

	broken := &fakeJetStream{streamErr: errors.New("timeout")}
	if err := EnsureStream(ctx, broken, "pawmatch"); err == nil {
		t.Error("lookup failure should be returned")
	}
}

func TestStreamName(t *testing.T) {
	if got := StreamName("pawmatch.dev"); got != "PAWMATCH_DEV_CHANGES" {
		t.Errorf("StreamName() = %q", got)
	}
}
