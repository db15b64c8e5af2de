package convert

import (
	"github.com/jinzhu/copier"
)

// StructAssign 把 src 中与 dst 同名的字段值复制到 dst, 返回 dst
func StructAssign(src any, dst any) any {
	copier.Copy(dst, src)
	return dst
}
