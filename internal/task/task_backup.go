package task

import (
	"context"
	"time"

	"github.com/haierkeys/note-review-service/internal/app"
)

// init 自动注册备份任务
func init() {
	RegisterWithApp(NewBackupTask)
}

// BackupTask 备份调度任务, 每分钟评估一次各备份配置的 cron 表达式
type BackupTask struct {
	app *app.App
}

// NewBackupTask 创建备份任务
// 备份服务未装配时返回 nil, 任务不参与调度
func NewBackupTask(appContainer *app.App) (Task, error) {
	if appContainer.BackupService == nil {
		return nil, nil
	}
	return &BackupTask{app: appContainer}, nil
}

// Name 返回任务名称
func (t *BackupTask) Name() string {
	return "BackupScheduled"
}

// LoopInterval 每分钟触发一次, 与 cron 表达式的最小粒度对齐
func (t *BackupTask) LoopInterval() time.Duration {
	return time.Minute
}

// IsStartupRun 启动时先跑一轮, 补上停机期间错过的调度
func (t *BackupTask) IsStartupRun() bool {
	return true
}

// Run 执行到期的备份配置
func (t *BackupTask) Run(ctx context.Context) error {
	return t.app.BackupService.ExecuteTaskBackups(ctx)
}
