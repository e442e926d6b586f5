package domain

import "time"

// Entry is a single value of a feed. V is the kind-specific value type,
// e.g. netip.Prefix for IP feeds.
type Entry[V any] struct {
	ID          int64
	FeedID      int64
	Value       V
	Enabled     bool
	Description string
	ValidUntil  *time.Time // nil means the entry never expires
}

// Active reports whether the entry contributes to the rendered feed at the given instant.
// An entry expiring exactly at now is still active.
func (e *Entry[V]) Active(now time.Time) bool {
	if !e.Enabled {
		return false
	}
	return e.ValidUntil == nil || !e.ValidUntil.Before(now)
}

// Cursor selects up to Limit entries with ids strictly greater than After
type Cursor struct {
	After int64
	Limit int
}

// Validity is the expiry constraint of an EntryFilter
type Validity int

// validity constraints
const (
	ValidityAny       Validity = iota // no constraint
	ValidityNoExpiry                  // valid_until must be null
	ValidityNotBefore                 // valid_until must be set and >= At
)

// EntryFilter narrows an entry listing. Zero value matches everything.
type EntryFilter struct {
	Enabled  *bool
	Validity Validity
	At       time.Time // used with ValidityNotBefore
}
