// Pawmatch - Pet Adoption Matching Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pawmatch

// Package cache holds the bounded recency set the event consumer uses to skip
// redelivered change events.
package cache

import (
	"container/list"
	"sync"
	"time"
)

const (
	DefaultCapacity = 10000
	DefaultTTL      = 10 * time.Minute
)

type seenEntry struct {
	key       string
	expiresAt time.Time
}

// SeenSet remembers keys for a limited time. When full, the least recently
// marked key is forgotten first. Safe for concurrent use.
type SeenSet struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	order    *list.List
	items    map[string]*list.Element
	now      func() time.Time
}

// NewSeenSet creates a set holding at most capacity keys for ttl each.
// Non-positive arguments fall back to DefaultCapacity and DefaultTTL.
func NewSeenSet(capacity int, ttl time.Duration) *SeenSet {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &SeenSet{
		capacity: capacity,
		ttl:      ttl,
		order:    list.New(),
		items:    make(map[string]*list.Element, capacity),
		now:      time.Now,
	}
}

// Seen reports whether key was marked and has not expired.
func (s *SeenSet) Seen(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.items[key]
	if !ok {
		return false
	}
	if s.now().After(el.Value.(*seenEntry).expiresAt) {
		s.remove(el)
		return false
	}
	return true
}

// Mark records key, refreshing its expiry if already present.
func (s *SeenSet) Mark(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiresAt := s.now().Add(s.ttl)
	if el, ok := s.items[key]; ok {
		el.Value.(*seenEntry).expiresAt = expiresAt
		s.order.MoveToFront(el)
		return
	}

	s.items[key] = s.order.PushFront(&seenEntry{key: key, expiresAt: expiresAt})
	for len(s.items) > s.capacity {
		s.remove(s.order.Back())
	}
}

// Len returns the number of keys held, expired ones included until touched.
func (s *SeenSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *SeenSet) remove(el *list.Element) {
	s.order.Remove(el)
	delete(s.items, el.Value.(*seenEntry).key)
}
