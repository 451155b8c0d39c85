// Package status keeps the outcome of the most recent fetch per mode for the
// health endpoint. It never stores task records.
package status

import (
	"time"

	"github.com/patrickmn/go-cache"
)

const (
	defaultRetention = 15 * time.Minute
	cleanupInterval  = time.Minute
)

// FetchOutcome describes one completed fetch.
type FetchOutcome struct {
	Mode      string    `json:"mode"`
	OK        bool      `json:"ok"`
	Count     int       `json:"count"`
	Duration  string    `json:"duration"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type Tracker struct {
	cache *cache.Cache
}

// NewTracker keeps outcomes for retention; zero means the default.
func NewTracker(retention time.Duration) *Tracker {
	if retention <= 0 {
		retention = defaultRetention
	}
	return &Tracker{
		cache: cache.New(retention, cleanupInterval),
	}
}

func (t *Tracker) Record(mode string, count int, duration time.Duration, err error) {
	outcome := FetchOutcome{
		Mode:      mode,
		OK:        err == nil,
		Count:     count,
		Duration:  duration.String(),
		Timestamp: time.Now(),
	}
	if err != nil {
		outcome.Count = 0
		outcome.Error = err.Error()
	}
	t.cache.Set(mode, outcome, cache.DefaultExpiration)
}

func (t *Tracker) Last(mode string) (FetchOutcome, bool) {
	cached, found := t.cache.Get(mode)
	if !found {
		return FetchOutcome{}, false
	}
	return cached.(FetchOutcome), true
}

// Snapshot returns every unexpired outcome keyed by mode.
func (t *Tracker) Snapshot() map[string]FetchOutcome {
	items := t.cache.Items()
	out := make(map[string]FetchOutcome, len(items))
	for mode, item := range items {
		out[mode] = item.Object.(FetchOutcome)
	}
	return out
}
