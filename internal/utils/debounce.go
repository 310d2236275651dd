package utils

import (
	"sync"
	"time"
)

// Debouncer 延迟执行器
// 同一个 Debouncer 上的新调度会取代尚未触发的旧调度,
// 只有最后一次调度的函数会执行
type Debouncer struct {
	mu    sync.Mutex
	timer *time.Timer
}

// NewDebouncer 创建延迟执行器
func NewDebouncer() *Debouncer {
	return &Debouncer{}
}

// Do 在 delay 之后执行 fn,取消之前尚未触发的调度
func (d *Debouncer) Do(delay time.Duration, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(delay, fn)
}

// Stop 取消尚未触发的调度
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
