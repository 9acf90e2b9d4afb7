package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeToken(t *testing.T) {
	entryDate := time.Date(2023, 5, 15, 0, 0, 0, 0, time.UTC)
	createdAt := time.Date(2023, 5, 15, 14, 30, 45, 123456789, time.UTC)

	token := EncodeToken(entryDate, createdAt, "entry-1")
	assert.NotEmpty(t, token, "Token should not be empty")
	assert.NotContains(t, token, "=", "Token should be usable in a query string without escaping")

	cursor, err := DecodeToken(token)
	require.NoError(t, err)
	assert.True(t, entryDate.Equal(cursor.EntryDate))
	assert.True(t, createdAt.Equal(cursor.CreatedAt))
	assert.Equal(t, "entry-1", cursor.EntryID)
}

func TestDecodeTokenError(t *testing.T) {
	_, err := DecodeToken("this is not base64!")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "base64 decode")

	missingID := base64.RawURLEncoding.EncodeToString([]byte("2023-05-15T00:00:00Z|2023-05-15T00:00:00Z"))
	_, err = DecodeToken(missingID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "split")

	badDate := base64.RawURLEncoding.EncodeToString([]byte("notadate|2023-05-15T00:00:00Z|x"))
	_, err = DecodeToken(badDate)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entry date parse")
}

func TestCursorLess(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	c := Cursor{EntryDate: day, CreatedAt: created, EntryID: "m"}

	assert.True(t, c.Less(day.AddDate(0, 0, -1), created, "z"), "older date comes after")
	assert.False(t, c.Less(day.AddDate(0, 0, 1), created, "a"), "newer date came before")
	assert.True(t, c.Less(day, created.Add(-time.Second), "z"))
	assert.True(t, c.Less(day, created, "a"))
	assert.False(t, c.Less(day, created, "m"), "the cursor row itself is excluded")
}
