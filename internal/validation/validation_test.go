package validation

import (
	"net"
	"testing"
)

func TestValidEventKind(t *testing.T) {
	valid := []string{"view", "engagement", "conversion", "bounce"}
	for _, kind := range valid {
		if !ValidEventKind(kind) {
			t.Errorf("ValidEventKind(%q) = false, want true", kind)
		}
	}

	invalid := []string{"", "View", "pageview", "click", "view "}
	for _, kind := range invalid {
		if ValidEventKind(kind) {
			t.Errorf("ValidEventKind(%q) = true, want false", kind)
		}
	}
}

func TestNormalizeEventKind(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"VIEW", "view"},
		{"  Conversion ", "conversion"},
		{"bounce", "bounce"},
	}
	for _, tt := range tests {
		if got := NormalizeEventKind(tt.in); got != tt.want {
			t.Errorf("NormalizeEventKind(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidatePath(t *testing.T) {
	valid := []string{"/", "/intro", "/intro/a", "/intro/variant-b", "/a_b/c-d/", "/v2"}
	for _, p := range valid {
		if !ValidatePath(p) {
			t.Errorf("ValidatePath(%q) = false, want true", p)
		}
	}

	invalid := []string{
		"",
		"intro",
		"/intro?q=1",
		"/intro a",
		"//double",
		"https://example.com/intro",
		"/intro/#frag",
	}
	for _, p := range invalid {
		if ValidatePath(p) {
			t.Errorf("ValidatePath(%q) = true, want false", p)
		}
	}
}

func TestValidatePath_Length(t *testing.T) {
	long := "/a"
	for len(long) <= 512 {
		long += "/a"
	}
	if ValidatePath(long) {
		t.Error("ValidatePath(overlong) = true, want false")
	}
}

func TestNormalizeMetadata(t *testing.T) {
	if got := NormalizeMetadata(nil); got != nil {
		t.Errorf("NormalizeMetadata(nil) = %v, want nil", got)
	}
	if got := NormalizeMetadata(map[string]any{}); got != nil {
		t.Errorf("NormalizeMetadata(empty) = %v, want nil", got)
	}

	got := NormalizeMetadata(map[string]any{
		"referrer":     "https://example.com",
		"scroll_depth": 80,
		"campaign":     "spring",
		"utm_source":   "mail",
	})

	if got["referrer"] != "https://example.com" {
		t.Errorf("referrer = %v, want kept at top level", got["referrer"])
	}
	if got["scroll_depth"] != 80 {
		t.Errorf("scroll_depth = %v, want kept at top level", got["scroll_depth"])
	}
	if _, ok := got["campaign"]; ok {
		t.Error("unknown key left at top level")
	}

	extra, ok := got["extra"].(map[string]any)
	if !ok {
		t.Fatalf("extra missing: %v", got)
	}
	if extra["campaign"] != "spring" || extra["utm_source"] != "mail" {
		t.Errorf("extra = %v, want unknown keys preserved", extra)
	}
}

func TestValidateURL(t *testing.T) {
	valid := []string{"https://example.com", "http://example.com/path"}
	for _, u := range valid {
		if ok, msg := ValidateURL(u); !ok {
			t.Errorf("ValidateURL(%q) = false (%s), want true", u, msg)
		}
	}

	invalid := []string{"", "ftp://example.com", "javascript:alert(1)", "example.com"}
	for _, u := range invalid {
		if ok, _ := ValidateURL(u); ok {
			t.Errorf("ValidateURL(%q) = true, want false", u)
		}
	}
}

func TestIsPrivateIP(t *testing.T) {
	private := []string{"127.0.0.1", "10.0.0.1", "192.168.1.1", "172.16.0.1", "169.254.169.254", "168.63.129.16", "::1", "0.0.0.0"}
	for _, s := range private {
		if !IsPrivateIP(net.ParseIP(s)) {
			t.Errorf("IsPrivateIP(%q) = false, want true", s)
		}
	}

	public := []string{"8.8.8.8", "1.1.1.1", "93.184.216.34"}
	for _, s := range public {
		if IsPrivateIP(net.ParseIP(s)) {
			t.Errorf("IsPrivateIP(%q) = true, want false", s)
		}
	}

	if IsPrivateIP(nil) {
		t.Error("IsPrivateIP(nil) = true, want false")
	}
}
