package base

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makePage(start, count int) []map[string]interface{} {
	page := make([]map[string]interface{}, 0, count)
	for i := 0; i < count; i++ {
		// JSON 解码后的数字是 float64
		page = append(page, map[string]interface{}{"id": float64(start + i)})
	}
	return page
}

func TestFollowCursor(t *testing.T) {
	var cursors []string
	pages := [][]map[string]interface{}{
		makePage(1, PageSize),
		makePage(101, PageSize),
		makePage(201, 40),
	}

	items, err := FollowCursor(func(cursor string) ([]map[string]interface{}, error) {
		cursors = append(cursors, cursor)
		return pages[len(cursors)-1], nil
	})
	require.NoError(t, err)

	assert.Len(t, items, 240)
	// 游标为上一页最后一条的 id，首页为空
	assert.Equal(t, []string{"", "100", "200"}, cursors)
}

func TestFollowCursorSinglePage(t *testing.T) {
	calls := 0
	items, err := FollowCursor(func(cursor string) ([]map[string]interface{}, error) {
		calls++
		return makePage(1, 17), nil
	})
	require.NoError(t, err)
	assert.Len(t, items, 17)
	assert.Equal(t, 1, calls)
}

func TestFollowCursorEmptyFirstPage(t *testing.T) {
	items, err := FollowCursor(func(cursor string) ([]map[string]interface{}, error) {
		return nil, nil
	})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestFollowCursorMissingID(t *testing.T) {
	page := makePage(1, PageSize)
	delete(page[len(page)-1], "id")

	_, err := FollowCursor(func(cursor string) ([]map[string]interface{}, error) {
		return page, nil
	})
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestFollowCursorPropagatesError(t *testing.T) {
	boom := errors.New("boom")
	_, err := FollowCursor(func(cursor string) ([]map[string]interface{}, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestCursorStringLargeID(t *testing.T) {
	// 大整数 id 不能落入科学计数法
	assert.Equal(t, "59378936229165", cursorString(float64(59378936229165)))
	assert.Equal(t, "abc", cursorString("abc"))
}
