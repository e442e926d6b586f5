package repository

import (
	"errors"
	"fmt"
	"net/netip"
	"net/url"
	"strings"

	"golang.org/x/net/idna"

	"github.com/umputun/listfeed/pkg/domain"
)

// Kind describes how entries of one feed kind are stored: the owning table and
// the canonical text codec of the value. Only the descriptors declared in this
// package exist, so table names never come from input.
type Kind[V any] struct {
	kind   domain.Kind
	table  string
	parse  func(string) (V, error)
	format func(V) string
}

// IPKind stores IP networks. Bare addresses become single-host prefixes, host bits are masked.
var IPKind = Kind[netip.Prefix]{kind: domain.KindIP, table: "ip_entries", parse: parseIP, format: netip.Prefix.String}

// URLKind stores absolute URLs
var URLKind = Kind[string]{kind: domain.KindURL, table: "url_entries", parse: parseURL, format: identity}

// DomainKind stores domain names in lowercase ASCII (punycode) form
var DomainKind = Kind[string]{kind: domain.KindDomain, table: "domain_entries", parse: parseDomain, format: identity}

// Name returns the feed kind served by this descriptor
func (k Kind[V]) Name() domain.Kind { return k.kind }

// Parse converts user or stored text into a value, failing with domain.ErrValidation
func (k Kind[V]) Parse(s string) (V, error) { return k.parse(s) }

// Format returns the canonical text of a value, as stored and rendered
func (k Kind[V]) Format(v V) string { return k.format(v) }

func identity(s string) string { return s }

func parseIP(s string) (netip.Prefix, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, "/") {
		p, err := netip.ParsePrefix(s)
		if err != nil {
			return netip.Prefix{}, fmt.Errorf("%w: invalid network %q: %v", domain.ErrValidation, s, err)
		}
		return p.Masked(), nil
	}
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Prefix{}, fmt.Errorf("%w: invalid address %q: %v", domain.ErrValidation, s, err)
	}
	addr = addr.WithZone("")
	return netip.PrefixFrom(addr, addr.BitLen()), nil
}

func parseURL(s string) (string, error) {
	s = strings.TrimSpace(s)
	u, err := url.Parse(s)
	if err != nil {
		return "", fmt.Errorf("%w: invalid url %q: %v", domain.ErrValidation, s, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return "", fmt.Errorf("%w: url %q must be absolute with a host", domain.ErrValidation, s)
	}
	u.Scheme = strings.ToLower(u.Scheme)
	switch u.Scheme {
	case "http", "https", "ftp":
	default:
		return "", fmt.Errorf("%w: unsupported url scheme %q", domain.ErrValidation, u.Scheme)
	}
	u.Host = strings.ToLower(u.Host)
	return u.String(), nil
}

// domainProfile is the lookup profile without STD3 rules, blocklists carry service
// labels like "_dmarc" and wildcard names
var domainProfile = idna.New(idna.MapForLookup(), idna.StrictDomainName(false), idna.BidiRule())

func parseDomain(s string) (string, error) {
	name := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), ".")
	if name == "" {
		return "", fmt.Errorf("%w: empty domain", domain.ErrValidation)
	}
	ascii, err := domainProfile.ToASCII(name)
	if err != nil {
		return "", fmt.Errorf("%w: invalid domain %q: %v", domain.ErrValidation, s, err)
	}
	if len(ascii) > 253 {
		return "", fmt.Errorf("%w: domain %q is too long", domain.ErrValidation, s)
	}
	for i, label := range strings.Split(ascii, ".") {
		if err := checkLabel(label, i == 0); err != nil {
			return "", fmt.Errorf("%w: invalid domain %q: %v", domain.ErrValidation, s, err)
		}
	}
	return ascii, nil
}

// checkLabel allows letters, digits, hyphen and underscore; "*" only as the leftmost label
func checkLabel(label string, first bool) error {
	switch {
	case label == "":
		return errors.New("empty label")
	case len(label) > 63:
		return fmt.Errorf("label %q is longer than 63 characters", label)
	case label == "*":
		if !first {
			return errors.New("wildcard is allowed only as the leftmost label")
		}
		return nil
	}
	for _, c := range label {
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') && c != '-' && c != '_' {
			return fmt.Errorf("disallowed character %q in label %q", c, label)
		}
	}
	return nil
}

// entryStatements are the fixed statements of one entry table, rebound to the
// dialect placeholder style once
type entryStatements struct {
	feedKind     string
	insert       string
	selectActive string
	get          string
	update       string
	delete       string
	expiredFeeds string
	clearDigest  string
}

func newEntryStatements(table string, rebind func(string) string) entryStatements {
	return entryStatements{
		feedKind: rebind(`SELECT kind FROM feeds WHERE id = ?`),
		insert: rebind(`INSERT INTO ` + table + ` (feed_id, value, enabled, description, valid_until)
			VALUES (?, ?, ?, ?, ?) RETURNING id`),
		selectActive: rebind(`SELECT value FROM ` + table + `
			WHERE feed_id = ? AND enabled = TRUE AND (valid_until IS NULL OR valid_until >= ?)
			ORDER BY id`),
		get: rebind(`SELECT id, feed_id, value, enabled, description, valid_until FROM ` + table + `
			WHERE id = ?`),
		update: rebind(`UPDATE ` + table + ` SET enabled = ?, description = ?, valid_until = ?
			WHERE id = ? RETURNING feed_id`),
		delete: rebind(`DELETE FROM ` + table + ` WHERE id = ? RETURNING feed_id`),
		expiredFeeds: rebind(`SELECT DISTINCT feed_id FROM ` + table + `
			WHERE enabled = TRUE AND valid_until >= ? AND valid_until < ?
			ORDER BY feed_id`),
		clearDigest: rebind(`UPDATE feeds SET digest = NULL WHERE id = ?`),
	}
}
