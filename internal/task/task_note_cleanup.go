package task

import (
	"context"
	"time"

	"github.com/haierkeys/note-review-service/internal/app"
	"github.com/haierkeys/note-review-service/pkg/util"
	"go.uber.org/zap"
)

// init 自动注册清理任务
func init() {
	RegisterWithApp(NewNoteCleanupTask)
}

// NoteCleanupTask 过期软删除笔记清理任务
type NoteCleanupTask struct {
	app      *app.App
	interval time.Duration
	firstRun bool
}

// NewNoteCleanupTask 创建清理任务
// 保留时间未配置或为 0 时返回 nil，任务不参与调度
func NewNoteCleanupTask(appContainer *app.App) (Task, error) {
	retentionTimeStr := appContainer.Config().App.SoftDeleteRetentionTime
	if retentionTimeStr == "" || retentionTimeStr == "0" {
		return nil, nil
	}
	duration, err := util.ParseDuration(retentionTimeStr)
	if err != nil {
		return nil, err
	}

	if duration <= 0 {
		return nil, nil
	}

	return &NoteCleanupTask{
		app:      appContainer,
		interval: 10 * time.Minute,
		firstRun: true,
	}, nil
}

// Name 返回任务名称
func (t *NoteCleanupTask) Name() string {
	return "NoteCleanupTask"
}

// Run 执行清理任务，逐用户清理过期的软删除笔记
func (t *NoteCleanupTask) Run(ctx context.Context) error {
	status := "scheduled"
	if t.firstRun {
		status = "first-run"
		t.firstRun = false
	}

	uids, err := t.app.UserRepo.GetAllUIDs(ctx)
	if err != nil {
		t.app.Logger().Error(t.Name()+" failed ["+status+"]: list users", zap.Error(err))
		return err
	}

	var lastErr error
	for _, uid := range uids {
		if err := t.app.NoteService.Cleanup(ctx, uid); err != nil {
			t.app.Logger().Error(t.Name()+" failed ["+status+"]",
				zap.Int64("uid", uid), zap.Error(err))
			lastErr = err
		}
	}

	if lastErr == nil {
		t.app.Logger().Info(t.Name() + " completed successfully [" + status + "]")
	}

	return lastErr
}

// LoopInterval 返回执行间隔
func (t *NoteCleanupTask) LoopInterval() time.Duration {
	return t.interval
}

// IsStartupRun 是否立即执行一次
func (t *NoteCleanupTask) IsStartupRun() bool {
	return true
}
