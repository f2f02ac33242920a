package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSignedURLSignerRoundTrip(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)
	token, expiresAt, err := signer.Generate("cmp-1", "cmp-1/анализ_динамики_фонда.xlsx")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := signer.Parse(token, false)
	require.NoError(t, err)
	require.Equal(t, "cmp-1", claims.ComparisonID)
	require.Equal(t, "cmp-1/анализ_динамики_фонда.xlsx", claims.RelPath)
	require.True(t, expiresAt.Equal(claims.ExpiresAt))
}

func TestSignedURLSignerExpired(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Minute)
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	signer.now = func() time.Time { return base }
	token, _, err := signer.Generate("cmp-1", "cmp-1/report.csv")
	require.NoError(t, err)

	signer.now = func() time.Time { return base.Add(2 * time.Minute) }
	_, err = signer.Parse(token, false)
	require.Error(t, err)

	claims, err := signer.Parse(token, true)
	require.NoError(t, err)
	require.Equal(t, "cmp-1/report.csv", claims.RelPath)
}

func TestSignedURLSignerRejectsTampering(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)
	token, _, err := signer.Generate("cmp-1", "cmp-1/report.csv")
	require.NoError(t, err)

	other := NewSignedURLSigner("other", time.Hour)
	_, err = other.Parse(token, false)
	require.Error(t, err)

	_, err = signer.Parse("cmp-1.123.abc", false)
	require.Error(t, err)
}

func TestSignedURLSignerRequiresInputs(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)
	_, _, err := signer.Generate("", "x")
	require.Error(t, err)
	_, _, err = NewSignedURLSigner("", time.Hour).Generate("cmp", "x")
	require.Error(t, err)
}
