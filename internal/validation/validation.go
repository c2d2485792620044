package validation

import (
	"net"
	"net/url"
	"regexp"
	"strings"

	"splitpath/internal/models"
)

// PathPattern defines the valid variant path format: slash-rooted
// segments of letters, numbers, hyphens, and underscores.
var PathPattern = regexp.MustCompile(`^(/[a-zA-Z0-9_-]+)+/?$`)

// ValidEventKind reports whether kind is one of the four recognized
// event kinds.
func ValidEventKind(kind string) bool {
	switch kind {
	case models.KindView, models.KindEngagement, models.KindConversion, models.KindBounce:
		return true
	}
	return false
}

// NormalizeEventKind lowercases and trims a kind so comparisons are
// case-insensitive.
func NormalizeEventKind(kind string) string {
	return strings.ToLower(strings.TrimSpace(kind))
}

// ValidatePath checks a variant path: it must be absolute, reasonably
// short, and free of query strings or host parts.
func ValidatePath(path string) bool {
	if path == "" || len(path) > 512 {
		return false
	}
	if path == "/" {
		return true
	}
	return PathPattern.MatchString(path)
}

// recognizedMetadataKeys is the fixed set of event metadata keys the
// dashboard understands. Anything else is preserved under "extra".
var recognizedMetadataKeys = map[string]bool{
	"referrer":     true,
	"user_agent":   true,
	"language":     true,
	"screen":       true,
	"scroll_depth": true,
	"source":       true,
}

// NormalizeMetadata keeps recognized keys at the top level and moves
// unknown keys under an "extra" escape hatch. Returns nil for empty
// input so the column stays NULL instead of '{}'.
func NormalizeMetadata(metadata map[string]any) map[string]any {
	if len(metadata) == 0 {
		return nil
	}

	out := make(map[string]any, len(metadata))
	var extra map[string]any
	for k, v := range metadata {
		if recognizedMetadataKeys[k] {
			out[k] = v
			continue
		}
		if extra == nil {
			extra = make(map[string]any)
		}
		extra[k] = v
	}
	if extra != nil {
		out["extra"] = extra
	}
	return out
}

// ValidateURL checks if a URL is valid and uses an allowed scheme
// (http/https only).
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

	// Cloud metadata endpoints (AWS/GCP/Azure standard, Azure extra)
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

// ValidateURLForHealthCheck validates a URL is safe for the background
// path checker. Blocks private IPs, localhost, and metadata endpoints.
func ValidateURLForHealthCheck(urlStr string) (bool, string) {
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
