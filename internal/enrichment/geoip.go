package enrichment

import (
	"net"
)

type GeoInfo struct {
	Country     string
	CountryCode string
}

type GeoIPEnricher struct {
}

func NewGeoIPEnricher() *GeoIPEnricher {
	return &GeoIPEnricher{}
}

// Lookup classifies an address coarsely. Loopback and RFC1918 space map to
// "Local"; everything else stays "Unknown" until a real GeoIP database is
// wired in.
func (g *GeoIPEnricher) Lookup(ipAddress string) *GeoInfo {
	ip := net.ParseIP(ipAddress)
	if ip == nil {
		return &GeoInfo{Country: "Unknown", CountryCode: "XX"}
	}

	if ip.IsLoopback() || ip.IsPrivate() {
		return &GeoInfo{Country: "Local", CountryCode: "XX"}
	}

	return &GeoInfo{Country: "Unknown", CountryCode: "XX"}
}

func (g *GeoIPEnricher) Close() error {
	return nil
}
