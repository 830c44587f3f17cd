// Package query reshapes stored samples into chart-ready per-location series.
package query

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/Dosenpfand/boulderbar-capacity-tracker/internal/domain"
	"github.com/Dosenpfand/boulderbar-capacity-tracker/internal/storage"
)

// LocationSeries is one location's history as two index-aligned arrays: the
// i-th timestamp belongs to the i-th capacity value.
type LocationSeries struct {
	Timestamps []string `json:"timestamps"`
	Capacities []int    `json:"capacities"`
}

// Series maps location name to its series. JSON encoding preserves the order
// in which locations were first seen, which Go's built-in map type would not.
type Series struct {
	names  []string
	byName map[string]*LocationSeries
}

// NewSeries creates an empty Series.
func NewSeries() *Series {
	return &Series{byName: make(map[string]*LocationSeries)}
}

// Append adds one observation to the named location's series, registering
// the location on first sight.
func (s *Series) Append(name, timestamp string, capacity int) {
	ls, ok := s.byName[name]
	if !ok {
		ls = &LocationSeries{}
		s.byName[name] = ls
		s.names = append(s.names, name)
	}
	ls.Timestamps = append(ls.Timestamps, timestamp)
	ls.Capacities = append(ls.Capacities, capacity)
}

// Names returns the location names in first-seen order.
func (s *Series) Names() []string {
	return s.names
}

// Get returns the series for a location name, or nil if unknown.
func (s *Series) Get(name string) *LocationSeries {
	return s.byName[name]
}

// Len returns the number of locations.
func (s *Series) Len() int {
	return len(s.names)
}

// MarshalJSON encodes the series as a JSON object with keys in first-seen
// order.
func (s *Series) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range s.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		value, err := json.Marshal(s.byName[name])
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Service answers time-ranged series queries against a Store.
type Service struct {
	store storage.Store
	now   func() time.Time
}

// NewService creates a query service backed by store.
func NewService(store storage.Store) *Service {
	return &Service{store: store, now: time.Now}
}

// BuildSeries returns the per-location series for the last hours hours. A
// non-positive lookback returns the entire history; zero is deliberately
// unbounded rather than empty, matching the dashboard's expectations.
func (s *Service) BuildSeries(ctx context.Context, hours int) (*Series, error) {
	var since time.Time
	if hours > 0 {
		since = s.now().UTC().Add(-time.Duration(hours) * time.Hour)
	}

	samples, err := s.store.QuerySince(ctx, since)
	if err != nil {
		return nil, err
	}

	series := NewSeries()
	for _, sample := range samples {
		series.Append(sample.LocationName, domain.FormatTimestamp(sample.Timestamp), sample.Capacity)
	}
	return series, nil
}
