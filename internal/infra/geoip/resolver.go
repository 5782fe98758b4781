// Package geoip resolves request IPs to ISO country codes for log
// enrichment. Lookups are best effort: a missing database or an
// unresolvable IP just leaves the field off the log line.
package geoip

import (
	"fmt"
	"net"
	"strings"

	"github.com/oschwald/geoip2-golang"
)

// CountryResolver resolves an IP address to a two-letter country code.
type CountryResolver interface {
	CountryCode(ip string) (string, error)
}

type resolver struct {
	reader *geoip2.Reader
}

// NewResolver opens the MaxMind database at path. An empty path means the
// feature is off and a nil resolver is returned.
func NewResolver(path string) (CountryResolver, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	reader, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("geoip: open database: %w", err)
	}
	return &resolver{reader: reader}, nil
}

func (r *resolver) CountryCode(ip string) (string, error) {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return "", fmt.Errorf("geoip: invalid ip %q", ip)
	}
	record, err := r.reader.Country(parsed)
	if err != nil {
		return "", fmt.Errorf("geoip: lookup country: %w", err)
	}
	if record == nil {
		return "", nil
	}
	return record.Country.IsoCode, nil
}

// Close releases the database reader.
func (r *resolver) Close() error {
	return r.reader.Close()
}
