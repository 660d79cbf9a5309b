package parser

import (
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manav03panchal/medtrack/internal/errors"
)

func TestParseDay(t *testing.T) {
	now := time.Date(2024, 12, 25, 15, 30, 0, 0, time.Local)

	t.Run("blank_is_today", func(t *testing.T) {
		day, err := ParseDay("", now)
		require.NoError(t, err)
		assert.Equal(t, "2024-12-25", day.Label())
		assert.Equal(t, time.Date(2024, 12, 25, 0, 0, 0, 0, time.UTC), day.Start)
		assert.Equal(t, time.Date(2024, 12, 25, 23, 59, 0, 0, time.UTC), day.End)
	})

	t.Run("iso_date", func(t *testing.T) {
		day, err := ParseDay("2025-01-02", now)
		require.NoError(t, err)
		assert.Equal(t, "2025-01-02", day.Label())
	})

	t.Run("tomorrow", func(t *testing.T) {
		day, err := ParseDay("tomorrow", now)
		require.NoError(t, err)
		assert.Equal(t, "2024-12-26", day.Label())
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ParseDay("qwertyuiop zxcv", now)
		require.Error(t, err)
		assert.True(t, stderrors.Is(err, errors.ErrInvalidDay))
	})
}
