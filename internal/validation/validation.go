package validation

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

// ErrMalformedLimit is returned when a limit parameter is not an integer.
var ErrMalformedLimit = errors.New("limit must be an integer")

// LimitPolicy governs how a listing endpoint treats its limit parameter.
// Clamping policies silently pull out-of-range values into bounds; strict
// policies reject them.
type LimitPolicy struct {
	Min     int
	Max     int
	Default int
	Strict  bool
}

// QueueLimit bounds gap queue reads: clamped, never an error for
// out-of-range values.
var QueueLimit = LimitPolicy{Min: 1, Max: 50, Default: 20}

// RunLimit bounds run log reads: out-of-range values are rejected.
var RunLimit = LimitPolicy{Min: 1, Max: 100, Default: 20, Strict: true}

// BrowseLimit bounds the admin keyword browse: clamped like the queue,
// with a wider window.
var BrowseLimit = LimitPolicy{Min: 1, Max: 500, Default: 100}

// Apply resolves a raw query-string limit against the policy. An empty
// string yields the default. Non-numeric input is always rejected.
func (p LimitPolicy) Apply(raw string) (int, error) {
	if raw == "" {
		return p.Default, nil
	}

	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, ErrMalformedLimit
	}

	if limit < p.Min || limit > p.Max {
		if p.Strict {
			return 0, fmt.Errorf("limit must be between %d and %d", p.Min, p.Max)
		}
		if limit < p.Min {
			return p.Min, nil
		}
		return p.Max, nil
	}

	return limit, nil
}

// ParseID parses a positive integer identifier.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("id must be a positive integer")
	}
	return id, nil
}

// NormalizeTerm lowercases and trims a keyword term so lookups are
// case-insensitive.
func NormalizeTerm(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}

// ValidateURL checks if a URL is valid and uses an allowed scheme (http/https only).
func ValidateURL(urlStr string) (bool, string) {
	if urlStr == "" {
		return false, "URL is required"
	}

	u, err := url.Parse(urlStr)
	if err != nil {
		return false, "Invalid URL format"
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return false, "URL must use http:// or https:// scheme"
	}

	if u.Host == "" {
		return false, "URL must have a valid host"
	}

	return true, ""
}

// IsPrivateIP checks if an IP address is in a private/reserved range.
// Used to prevent SSRF attacks against internal networks.
func IsPrivateIP(ip net.IP) bool {
	if ip == nil {
		return false
	}

	if ip.IsLoopback() {
		return true
	}

	if ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() {
		return true
	}

	if ip.IsPrivate() {
		return true
	}

	if ip.IsUnspecified() {
		return true
	}

	// Cloud metadata endpoints: 169.254.169.254 (AWS/GCP/Azure),
	// 168.63.129.16 (Azure)
	if ip.Equal(net.ParseIP("169.254.169.254")) || ip.Equal(net.ParseIP("168.63.129.16")) {
		return true
	}

	return false
}

// IsPrivateHost checks if a hostname resolves to a private IP address.
// Returns true if the host is private/blocked, false if it's safe to access.
func IsPrivateHost(host string) (bool, error) {
	hostname := host
	if h, _, err := net.SplitHostPort(host); err == nil {
		hostname = h
	}

	ips, err := net.LookupIP(hostname)
	if err != nil {
		// If we can't resolve, be conservative and block
		return true, err
	}

	for _, ip := range ips {
		if IsPrivateIP(ip) {
			return true, nil
		}
	}

	return false, nil
}

// ValidateURLForVerification validates a URL is safe for the coverage
// verifier to probe. Blocks private IPs, localhost, and cloud metadata
// endpoints.
func ValidateURLForVerification(urlStr string) (bool, string) {
	valid, msg := ValidateURL(urlStr)
	if !valid {
		return false, msg
	}

	u, _ := url.Parse(urlStr)

	isPrivate, err := IsPrivateHost(u.Host)
	if err != nil {
		return false, "Cannot resolve hostname"
	}
	if isPrivate {
		return false, "URL points to a private or reserved IP address"
	}

	return true, ""
}
