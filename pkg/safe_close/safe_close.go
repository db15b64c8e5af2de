// Package safe_close 提供多服务协同的优雅关闭控制
package safe_close

import (
	"sync"
)

// SafeClose 管理一组后台服务的关闭流程
// 每个服务通过 Attach 挂载，收到关闭信号后自行清理并调用 done
// SendCloseSignal 发出一次性关闭信号，WaitClosed 等待所有服务退出
type SafeClose struct {
	mu          sync.Mutex
	closed      bool
	closeSignal chan struct{}
	err         error

	wg sync.WaitGroup
}

func NewSafeClose() *SafeClose {
	return &SafeClose{
		closeSignal: make(chan struct{}),
	}
}

// Attach 挂载一个服务协程
// f 中必须保证 done 最终被调用，否则 WaitClosed 将永久阻塞
// closeSignal 被关闭时表示服务应当退出
func (sc *SafeClose) Attach(f func(done func(), closeSignal <-chan struct{})) {
	sc.wg.Add(1)
	var doneOnce sync.Once
	done := func() {
		doneOnce.Do(sc.wg.Done)
	}
	go f(done, sc.closeSignal)
}

// SendCloseSignal 发送关闭信号
// 只有第一次调用生效，err 会保留给 WaitClosed 返回
func (sc *SafeClose) SendCloseSignal(err error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if sc.closed {
		return
	}
	sc.closed = true
	sc.err = err
	close(sc.closeSignal)
}

// CloseSignal 返回关闭信号通道
func (sc *SafeClose) CloseSignal() <-chan struct{} {
	return sc.closeSignal
}

// WaitClosed 阻塞等待所有挂载的服务退出
// 返回首次 SendCloseSignal 携带的错误
func (sc *SafeClose) WaitClosed() error {
	sc.wg.Wait()
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.err
}
