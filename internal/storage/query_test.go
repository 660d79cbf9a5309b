package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWhere(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		w := &where{}
		assert.True(t, w.empty())
		assert.Equal(t, "", w.sql())
		assert.Empty(t, w.args)
	})

	t.Run("joined_with_and", func(t *testing.T) {
		w := (&where{}).eq("name", "Aspirin").eq("user_id", int64(1))
		assert.Equal(t, " WHERE name = ? AND user_id = ?", w.sql())
		assert.Equal(t, []any{"Aspirin", int64(1)}, w.args)
	})

	t.Run("range", func(t *testing.T) {
		w := (&where{}).between("time", "a", "b").gt("id", 1).gte("x", 2).lte("y", 3)
		assert.Equal(t, " WHERE time BETWEEN ? AND ? AND id > ? AND x >= ? AND y <= ?", w.sql())
		assert.Len(t, w.args, 5)
	})
}

func TestSetList(t *testing.T) {
	s := &setList{}
	assert.True(t, s.empty())
	s.add("time", "2024-12-25 09:00")
	s.add("message", "take pill")
	assert.Equal(t, "time = ?, message = ?", s.sql())
	assert.Equal(t, []any{"2024-12-25 09:00", "take pill"}, s.args)
}

func TestOneLine(t *testing.T) {
	assert.Equal(t, "SELECT id FROM user WHERE id = ?", oneLine(`
		SELECT id
		FROM user
		WHERE id = ?`))
}
