package domain

import (
	"fmt"
	"slices"
	"strings"
)

// Kind is the type of values a feed carries. It is fixed when the feed is created.
type Kind string

// supported feed kinds
const (
	KindIP     Kind = "ip"
	KindURL    Kind = "url"
	KindDomain Kind = "domain"
)

// Kinds lists every supported kind in a stable order
var Kinds = []Kind{KindIP, KindURL, KindDomain}

// ParseKind converts a string into a Kind, case-insensitive
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(Kinds, k) {
		return k, nil
	}
	return "", fmt.Errorf("%w: unknown feed kind %q, expected one of %v", ErrValidation, s, Kinds)
}

func (k Kind) String() string { return string(k) }

// Feed is a named, typed list of entries served as a plaintext document.
// Digest is empty until the rendered body has been hashed, and is cleared
// whenever an entry of the feed changes.
type Feed struct {
	ID          int64
	Name        string
	Description string
	Kind        Kind
	Digest      []byte
}

// HasDigest reports whether the memoized body digest is present
func (f *Feed) HasDigest() bool {
	return len(f.Digest) > 0
}

// Page selects a fixed-size window of feeds; Pos is zero-based
type Page struct {
	Pos  int
	Size int
}

// Offset returns the number of rows skipped before the window starts
func (p Page) Offset() int {
	return p.Pos * p.Size
}
