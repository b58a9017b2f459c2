package solapi

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// GenerateSignature computes the hex HMAC-SHA256 of dateTime+salt keyed by
// the API secret, as required by the Solapi authorization scheme.
func GenerateSignature(apiSecret, dateTime, salt string) string {
	mac := hmac.New(sha256.New, []byte(apiSecret))
	mac.Write([]byte(dateTime + salt))
	return hex.EncodeToString(mac.Sum(nil))
}

// BuildAuthHeader builds a fresh Authorization header value. The date and
// salt are single-use: Solapi rejects stale or replayed values, so the
// returned header must never be cached across requests.
func BuildAuthHeader(apiKey, apiSecret string) string {
	dateTime := time.Now().UTC().Format(time.RFC3339)
	salt := newSalt()
	signature := GenerateSignature(apiSecret, dateTime, salt)

	return fmt.Sprintf(
		"HMAC-SHA256 apiKey=%s, date=%s, salt=%s, signature=%s",
		apiKey, dateTime, salt, signature,
	)
}

// newSalt returns a 16-byte cryptographically random nonce, hex-encoded.
func newSalt() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand read failures are unrecoverable process-level faults.
		panic(fmt.Sprintf("solapi: failed to read random salt: %v", err))
	}
	return hex.EncodeToString(buf)
}
