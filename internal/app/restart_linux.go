//go:build linux

package app

import (
	"syscall"
)

// RestartProcess 以 syscall.Exec 原地替换当前进程镜像
func RestartProcess(argv0 string, args []string, env []string) error {
	return syscall.Exec(argv0, args, env)
}
