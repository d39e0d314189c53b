package datefmt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	ts := time.Date(2026, time.October, 16, 9, 30, 0, 0, time.UTC)

	id, err := New(LocaleID, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "16 Okt 2026", id.Format(ts))
	assert.Equal(t, "5 Agu 2026", id.Format(time.Date(2026, time.August, 5, 0, 0, 0, 0, time.UTC)))

	en, err := New(LocaleEN, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "16 Oct 2026", en.Format(ts))
}

func TestFormatUsesLocation(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*60*60)
	f, err := New(LocaleID, jakarta)
	require.NoError(t, err)

	// 20:00 UTC on 31 Dec is already 1 Jan in Jakarta.
	assert.Equal(t, "1 Jan 2027", f.Format(time.Date(2026, time.December, 31, 20, 0, 0, 0, time.UTC)))
}

func TestUnsupportedLocale(t *testing.T) {
	_, err := New("fr", nil)
	assert.Error(t, err)
	assert.False(t, Supported("fr"))
	assert.True(t, Supported(LocaleEN))
}
