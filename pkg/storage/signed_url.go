package storage

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DownloadClaims is the metadata embedded into a signed download token.
type DownloadClaims struct {
	ComparisonID string
	RelPath      string
	ExpiresAt    time.Time
}

// SignedURLSigner creates and validates signed download tokens.
type SignedURLSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSignedURLSigner constructs a signer with the provided secret and TTL.
func NewSignedURLSigner(secret string, ttl time.Duration) *SignedURLSigner {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SignedURLSigner{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Generate returns a signed token referencing the comparison and stored file.
func (s *SignedURLSigner) Generate(comparisonID, relPath string) (string, time.Time, error) {
	if comparisonID == "" || relPath == "" {
		return "", time.Time{}, fmt.Errorf("comparison id and path required")
	}
	if strings.Contains(comparisonID, ".") {
		return "", time.Time{}, fmt.Errorf("comparison id must not contain dots")
	}
	if len(s.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("signing secret missing")
	}
	expiresAt := s.now().Add(s.ttl).Truncate(time.Second)
	ts := strconv.FormatInt(expiresAt.Unix(), 10)
	encodedPath := base64.RawURLEncoding.EncodeToString([]byte(relPath))
	token := strings.Join([]string{comparisonID, ts, encodedPath, s.sign(comparisonID, ts, encodedPath)}, ".")
	return token, expiresAt, nil
}

// Parse validates a token and returns the embedded claims.
// When allowExpired is true, the timestamp check is skipped (used by cleanup routines).
func (s *SignedURLSigner) Parse(token string, allowExpired bool) (*DownloadClaims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 4 {
		return nil, fmt.Errorf("invalid token format")
	}
	comparisonID, ts, encodedPath, signature := parts[0], parts[1], parts[2], parts[3]

	expected := s.sign(comparisonID, ts, encodedPath)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return nil, fmt.Errorf("invalid token signature")
	}
	expUnix, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid timestamp")
	}
	rawPath, err := base64.RawURLEncoding.DecodeString(encodedPath)
	if err != nil {
		return nil, fmt.Errorf("decode path: %w", err)
	}
	claims := &DownloadClaims{
		ComparisonID: comparisonID,
		RelPath:      string(rawPath),
		ExpiresAt:    time.Unix(expUnix, 0),
	}
	if !allowExpired && s.now().After(claims.ExpiresAt) {
		return nil, fmt.Errorf("token expired")
	}
	return claims, nil
}

func (s *SignedURLSigner) sign(comparisonID, ts, encodedPath string) string {
	mac := hmac.New(sha256.New, s.secret)
	_, _ = mac.Write([]byte(comparisonID + "|" + ts + "|" + encodedPath))
	return hex.EncodeToString(mac.Sum(nil))
}
