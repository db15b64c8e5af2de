package task

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/haierkeys/note-review-service/internal/app"
	"github.com/haierkeys/note-review-service/internal/dao"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newTestApp(t *testing.T, versionCheck bool) *app.App {
	t.Helper()
	t.Chdir(t.TempDir())

	cfg := &app.AppConfig{}
	cfg.Database.Type = "sqlite"
	cfg.Database.Path = filepath.Join(t.TempDir(), "db.sqlite3")
	cfg.Database.AutoMigrate = true
	cfg.Database.MaxIdleConns = 10
	cfg.Database.MaxOpenConns = 100
	cfg.Database.ConnMaxLifetime = "30m"
	cfg.Database.ConnMaxIdleTime = "10m"
	cfg.App.VersionCheckIsEnable = versionCheck

	db, err := dao.NewDBEngine(&dao.DatabaseConfig{
		Type:            cfg.Database.Type,
		Path:            cfg.Database.Path,
		AutoMigrate:     cfg.Database.AutoMigrate,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
	}, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	a, err := app.NewApp(cfg, zap.NewNop(), db)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = a.Close() })
	return a
}

// 版本检查任务按配置装配，未开启时工厂返回 nil 任务
func TestNewCheckVersionTaskConfigGate(t *testing.T) {
	disabled, err := NewCheckVersionTask(newTestApp(t, false))
	assert.Nil(t, err)
	assert.Nil(t, disabled)

	enabled, err := NewCheckVersionTask(newTestApp(t, true))
	assert.Nil(t, err)
	assert.NotNil(t, enabled)
	assert.Equal(t, "check_version", enabled.Name())
	assert.True(t, enabled.IsStartupRun())
}

func TestNewBackupTask(t *testing.T) {
	task, err := NewBackupTask(newTestApp(t, false))
	assert.Nil(t, err)
	assert.NotNil(t, task)
	assert.Equal(t, "BackupScheduled", task.Name())
	assert.Equal(t, time.Minute, task.LoopInterval())
	assert.True(t, task.IsStartupRun())
}
