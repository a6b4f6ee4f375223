package paginate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlice(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	t.Run("pages concatenate back to the original", func(t *testing.T) {
		var rebuilt []int
		for page := 0; page < TotalPages(len(items), 3); page++ {
			rebuilt = append(rebuilt, Slice(items, page, 3).Items...)
		}
		assert.Equal(t, items, rebuilt)
	})

	t.Run("navigation flags", func(t *testing.T) {
		first := Slice(items, 0, 3)
		assert.False(t, first.HasPrev)
		assert.True(t, first.HasNext)
		assert.Equal(t, 3, first.TotalPages)
		assert.Equal(t, 7, first.Total)

		last := Slice(items, 2, 3)
		require.Len(t, last.Items, 1)
		assert.True(t, last.HasPrev)
		assert.False(t, last.HasNext)
	})

	t.Run("out-of-range page is empty, not an error", func(t *testing.T) {
		page := Slice(items, 99, 3)
		assert.Empty(t, page.Items)
		assert.Equal(t, 99, page.Page)
		assert.False(t, page.HasNext)
	})

	t.Run("negative page clamps to zero", func(t *testing.T) {
		page := Slice(items, -4, 3)
		assert.Equal(t, 0, page.Page)
		assert.Equal(t, []int{1, 2, 3}, page.Items)
	})

	t.Run("empty input has zero pages", func(t *testing.T) {
		page := Slice([]int{}, 0, 5)
		assert.Empty(t, page.Items)
		assert.Equal(t, 0, page.TotalPages)
		assert.False(t, page.HasPrev)
		assert.False(t, page.HasNext)
	})
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(1, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 2, TotalPages(11, 10))
	assert.Equal(t, 0, TotalPages(5, 0))
}
