package friend

import "strconv"

// UniqueId 好友关系的无序对自然键
// 两个用户 ID 升序拼接，(a,b) 和 (b,a) 得到同一个键
func UniqueId(a, b int64) string {
	if a > b {
		a, b = b, a
	}
	return strconv.FormatInt(a, 10) + "-" + strconv.FormatInt(b, 10)
}
