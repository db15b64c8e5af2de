package util

import "strconv"

// EncodeHash32 计算与插件客户端一致的 32 位字符串哈希
// 按 rune 迭代以对齐 JS 端 charCodeAt 的取值, int32 的溢出回绕即 JS 的 |0
func EncodeHash32(content string) string {
	var hash int32 = 0
	runes := []rune(content)
	for i := 0; i < len(runes); i++ {
		hash = (hash << 5) - hash + int32(runes[i])
	}
	return strconv.Itoa(int(hash))
}
