package base

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// PageSize 游标分页的固定页大小
// 返回条数小于页大小即视为最后一页。
const PageSize = 100

// PageFunc 拉取一页数据
// cursor 为空表示第一页，否则为上一页最后一条记录的 id。
type PageFunc func(cursor string) ([]map[string]interface{}, error)

// FollowCursor 游标分页循环
// 以上一页最后一条的 id 作为下一页游标，直到某页不足 PageSize 为止，
// 顺序阻塞执行，结果按页拼接。
func FollowCursor(page PageFunc) ([]map[string]interface{}, error) {
	var all []map[string]interface{}
	cursor := ""

	for {
		items, err := page(cursor)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)

		if len(items) < PageSize {
			return all, nil
		}

		last := items[len(items)-1]
		id, ok := last["id"]
		if !ok {
			return nil, fmt.Errorf("%w: page item has no id for cursor", ErrMalformedResponse)
		}
		cursor = cursorString(id)
	}
}

// cursorString 将 JSON 解码出的 id 转为游标字符串
// JSON 数字解码为 float64，直接用 %v 会落入科学计数法。
func cursorString(id interface{}) string {
	switch v := id.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
