package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeToken(t *testing.T) {
	entryDate := time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC)
	createdAt := time.Date(2025, 11, 3, 9, 15, 42, 123456789, time.UTC)

	token := EncodeToken(entryDate, createdAt)
	require.NotEmpty(t, token)

	decodedDate, decodedCreatedAt, err := DecodeToken(token)
	require.NoError(t, err)
	assert.True(t, entryDate.Equal(decodedDate))
	assert.True(t, createdAt.Equal(decodedCreatedAt))
}

func TestEncodeDecodeToken_ZeroTimes(t *testing.T) {
	var zero time.Time

	decodedDate, decodedCreatedAt, err := DecodeToken(EncodeToken(zero, zero))
	require.NoError(t, err)
	assert.Equal(t, zero, decodedDate)
	assert.Equal(t, zero, decodedCreatedAt)
}

func TestDecodeToken_Errors(t *testing.T) {
	_, _, err := DecodeToken("this is not base64!")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base64 decode")

	// Valid base64 but only one field.
	_, _, err = DecodeToken("MjAyNS0xMS0wM1QwMDowMDowMFo=")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "split")

	// "notadate|2025-11-03T09:15:42Z"
	_, _, err = DecodeToken("bm90YWRhdGV8MjAyNS0xMS0wM1QwOToxNTo0Mlo=")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entry date parse")
}
