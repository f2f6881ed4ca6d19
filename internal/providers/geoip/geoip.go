package geoip

import (
	"fmt"
	"net"

	"github.com/oschwald/maxminddb-golang"
	"go.uber.org/zap"
)

// Provider wraps an optional GeoLite2 country database. A nil Provider is
// valid and every lookup on it fails, which callers treat as "no data".
type Provider struct {
	reader *maxminddb.Reader
	logger *zap.SugaredLogger
}

type countryRecord struct {
	Country struct {
		Names map[string]string `maxminddb:"names"`
	} `maxminddb:"country"`
}

func NewProvider(dbPath string, logger *zap.Logger) (*Provider, error) {
	reader, err := maxminddb.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open geoip database: %w", err)
	}

	logger.Info("GeoIP database loaded", zap.String("path", dbPath))
	return &Provider{reader: reader, logger: logger.Sugar()}, nil
}

// CountryName resolves an IP to an English country name.
func (p *Provider) CountryName(ip string) (string, error) {
	if p == nil || p.reader == nil {
		return "", fmt.Errorf("geoip provider not configured")
	}

	parsed := net.ParseIP(ip)
	if parsed == nil {
		return "", fmt.Errorf("invalid ip %q", ip)
	}

	var record countryRecord
	if err := p.reader.Lookup(parsed, &record); err != nil {
		return "", fmt.Errorf("geoip lookup failed: %w", err)
	}
	return record.Country.Names["en"], nil
}

func (p *Provider) Close() error {
	if p == nil || p.reader == nil {
		return nil
	}
	return p.reader.Close()
}
