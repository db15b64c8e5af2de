package task

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/haierkeys/note-review-service/internal/app"
	pkgapp "github.com/haierkeys/note-review-service/pkg/app"
	"golang.org/x/mod/semver"
)

// 版本徽章地址, message 字段即最新版本号
const (
	ServiceVersionURL = "https://img.shields.io/github/v/release/haierkeys/note-review-service.json"
	PluginVersionURL  = "https://img.shields.io/github/v/tag/haierkeys/obsidian-note-review.json"
)

// init 自动注册版本检查任务
func init() {
	RegisterWithApp(NewCheckVersionTask)
}

// CheckVersionTask 版本检查任务, 拉取服务端与插件的最新发布版本号
type CheckVersionTask struct {
	app *app.App
}

// NewCheckVersionTask 创建版本检查任务
// 配置未开启版本检查时返回 nil, 任务不参与调度
func NewCheckVersionTask(appContainer *app.App) (Task, error) {
	if !appContainer.Config().App.VersionCheckIsEnable {
		return nil, nil
	}
	return &CheckVersionTask{app: appContainer}, nil
}

// Name 返回任务名称
func (t *CheckVersionTask) Name() string {
	return "check_version"
}

// LoopInterval 返回任务执行间隔
func (t *CheckVersionTask) LoopInterval() time.Duration {
	return 30 * time.Minute
}

// IsStartupRun 启动时立即执行一次
func (t *CheckVersionTask) IsStartupRun() bool {
	return true
}

// Run 拉取最新版本号并写入 App 的版本信息
// 插件侧没有运行中的版本可比, 只记录最新版本名, 新旧比较留给 App.CheckVersion 按客户端上报的版本做
func (t *CheckVersionTask) Run(ctx context.Context) error {
	serviceLatest, err := t.fetchLatest(ctx, ServiceVersionURL)
	if err != nil {
		return err
	}

	pluginLatest, err := t.fetchLatest(ctx, PluginVersionURL)
	if err != nil {
		return err
	}

	running := ensureVersionPrefix(t.app.Version().Version)
	serviceLatest = ensureVersionPrefix(serviceLatest)
	pluginLatest = ensureVersionPrefix(pluginLatest)

	t.app.SetCheckVersionInfo(pkgapp.CheckVersionInfo{
		VersionNewName:       serviceLatest,
		VersionIsNew:         semver.Compare(serviceLatest, running) > 0,
		PluginVersionNewName: pluginLatest,
	})
	return nil
}

// fetchLatest 请求版本徽章并取出 message 字段
func (t *CheckVersionTask) fetchLatest(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var badge struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &badge); err != nil {
		return "", err
	}
	return badge.Message, nil
}

// ensureVersionPrefix 统一加上 v 前缀, semver 比较要求带前缀
func ensureVersionPrefix(v string) string {
	if strings.HasPrefix(v, "v") {
		return v
	}
	return "v" + v
}
