package global

import (
	"fmt"
	"runtime"

	dumpx "github.com/gookit/goutil/dump"
	"go.uber.org/zap"
)

// Logger 运行期全局日志器, 服务启动时由 cmd 赋值
var Logger *zap.Logger

func Log() *zap.Logger {
	return Logger
}

// Dump 调试用: 带调用位置的彩色变量打印
func Dump(a ...any) {
	_, file, line, ok := runtime.Caller(1)
	if ok {
		fmt.Printf("\033[32m%s:%d:\033[0m\n", file, line)
	}
	dumpx.P(a...)
}
