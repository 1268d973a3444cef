package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/book-catalog-api/internal/types"
)

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	t.Run("FirstPage", func(t *testing.T) {
		page, err := Paginate(items, 1, 3)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3}, page.Data)
		assert.Equal(t, 1, page.CurrentPage)
		assert.Nil(t, page.PrevPage)
		require.NotNil(t, page.NextPage)
		assert.Equal(t, 2, *page.NextPage)
	})

	t.Run("MiddlePage", func(t *testing.T) {
		page, err := Paginate(items, 2, 3)
		require.NoError(t, err)
		assert.Equal(t, []int{4, 5, 6}, page.Data)
		require.NotNil(t, page.PrevPage)
		assert.Equal(t, 1, *page.PrevPage)
		require.NotNil(t, page.NextPage)
		assert.Equal(t, 3, *page.NextPage)
	})

	t.Run("LastPageIsPartial", func(t *testing.T) {
		page, err := Paginate(items, 3, 3)
		require.NoError(t, err)
		assert.Equal(t, []int{7}, page.Data)
		require.NotNil(t, page.PrevPage)
		assert.Equal(t, 2, *page.PrevPage)
		assert.Nil(t, page.NextPage)
	})

	t.Run("ConsecutivePagesCoverCollection", func(t *testing.T) {
		var got []int
		for p := 1; ; p++ {
			page, err := Paginate(items, p, 2)
			require.NoError(t, err)
			got = append(got, page.Data...)
			if page.NextPage == nil {
				break
			}
		}
		assert.Equal(t, items, got)
	})

	t.Run("ZeroPageRejected", func(t *testing.T) {
		_, err := Paginate(items, 0, 3)
		assert.ErrorIs(t, err, types.ErrBadRequest)
	})

	t.Run("ZeroPageSizeRejected", func(t *testing.T) {
		_, err := Paginate(items, 1, 0)
		assert.ErrorIs(t, err, types.ErrBadRequest)
	})

	t.Run("PageBeyondTotalRejected", func(t *testing.T) {
		_, err := Paginate(items, 4, 3)
		assert.ErrorIs(t, err, types.ErrBadRequest)
	})

	t.Run("EmptyCollectionPageOne", func(t *testing.T) {
		page, err := Paginate([]int{}, 1, 10)
		require.NoError(t, err)
		assert.Empty(t, page.Data)
		assert.Nil(t, page.PrevPage)
		assert.Nil(t, page.NextPage)
	})

	t.Run("EmptyCollectionPageTwoRejected", func(t *testing.T) {
		_, err := Paginate([]int{}, 2, 10)
		assert.ErrorIs(t, err, types.ErrBadRequest)
	})

	t.Run("PageSizeLargerThanCollection", func(t *testing.T) {
		page, err := Paginate(items, 1, 50)
		require.NoError(t, err)
		assert.Equal(t, items, page.Data)
		assert.Nil(t, page.NextPage)
	})
}
