package solapi

import (
	"strings"
	"testing"
	"time"
)

func TestGenerateSignature_Deterministic(t *testing.T) {
	sig1 := GenerateSignature("secret", "2026-01-02T03:04:05Z", "abcd1234")
	sig2 := GenerateSignature("secret", "2026-01-02T03:04:05Z", "abcd1234")

	if sig1 != sig2 {
		t.Fatalf("same inputs must produce the same signature: %q vs %q", sig1, sig2)
	}
	if len(sig1) != 64 {
		t.Fatalf("expected 64 hex chars for SHA-256, got %d", len(sig1))
	}
}

func TestGenerateSignature_VariesWithInputs(t *testing.T) {
	base := GenerateSignature("secret", "2026-01-02T03:04:05Z", "abcd1234")

	if got := GenerateSignature("other", "2026-01-02T03:04:05Z", "abcd1234"); got == base {
		t.Errorf("different secrets must produce different signatures")
	}
	if got := GenerateSignature("secret", "2026-01-02T03:04:06Z", "abcd1234"); got == base {
		t.Errorf("different dates must produce different signatures")
	}
	if got := GenerateSignature("secret", "2026-01-02T03:04:05Z", "ffff9999"); got == base {
		t.Errorf("different salts must produce different signatures")
	}
}

// parseAuthHeader splits a header built by BuildAuthHeader into its fields.
func parseAuthHeader(t *testing.T, header string) map[string]string {
	t.Helper()

	const scheme = "HMAC-SHA256 "
	if !strings.HasPrefix(header, scheme) {
		t.Fatalf("expected scheme prefix %q, got %q", scheme, header)
	}

	fields := map[string]string{}
	for _, part := range strings.Split(header[len(scheme):], ", ") {
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			t.Fatalf("malformed header part %q", part)
		}
		fields[key] = value
	}
	return fields
}

func TestBuildAuthHeader_Format(t *testing.T) {
	header := BuildAuthHeader("test-key", "test-secret")
	fields := parseAuthHeader(t, header)

	if fields["apiKey"] != "test-key" {
		t.Errorf("expected apiKey=test-key, got %q", fields["apiKey"])
	}

	parsedDate, err := time.Parse(time.RFC3339, fields["date"])
	if err != nil {
		t.Fatalf("date %q is not RFC3339: %v", fields["date"], err)
	}
	if since := time.Since(parsedDate); since < 0 || since > time.Minute {
		t.Errorf("date %q is not current", fields["date"])
	}

	if len(fields["salt"]) != 32 {
		t.Errorf("expected 32 hex chars of salt, got %d", len(fields["salt"]))
	}

	want := GenerateSignature("test-secret", fields["date"], fields["salt"])
	if fields["signature"] != want {
		t.Errorf("signature does not verify against date+salt")
	}
}

func TestBuildAuthHeader_FreshPerCall(t *testing.T) {
	first := parseAuthHeader(t, BuildAuthHeader("test-key", "test-secret"))
	second := parseAuthHeader(t, BuildAuthHeader("test-key", "test-secret"))

	if first["salt"] == second["salt"] {
		t.Errorf("salt must be regenerated per call")
	}
	if first["signature"] == second["signature"] {
		t.Errorf("signature must change per call")
	}
}
