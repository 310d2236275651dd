package config

import (
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/Srikar1995/cloudrunway-develop/internal/utils"
)

// reloadDelay 文件写入事件合并窗口
// 编辑器保存时往往触发多次写事件,只处理最后一次
const reloadDelay = 500 * time.Millisecond

// Watcher 配置文件热加载
type Watcher struct {
	path     string
	logger   *logrus.Logger
	watcher  *fsnotify.Watcher
	debounce *utils.Debouncer

	mu        sync.RWMutex
	current   *Config
	callbacks []func(*Config)

	done chan struct{}
}

// NewWatcher 创建配置监听器
func NewWatcher(path string, initial *Config, logger *logrus.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(path); err != nil {
		fw.Close()
		return nil, err
	}
	return &Watcher{
		path:     path,
		logger:   logger,
		watcher:  fw,
		debounce: utils.NewDebouncer(),
		current:  initial,
		done:     make(chan struct{}),
	}, nil
}

// Current 当前生效配置
func (w *Watcher) Current() *Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// OnReload 注册配置变更回调
func (w *Watcher) OnReload(fn func(*Config)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, fn)
}

// Start 启动监听循环
func (w *Watcher) Start() {
	go w.loop()
}

func (w *Watcher) loop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.debounce.Do(reloadDelay, w.reload)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.WithError(err).Warn("Config watcher error")
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		w.logger.WithError(err).Error("Failed to reload config, keeping previous config")
		return
	}

	w.mu.Lock()
	w.current = cfg
	callbacks := make([]func(*Config), len(w.callbacks))
	copy(callbacks, w.callbacks)
	w.mu.Unlock()

	w.logger.WithField("path", w.path).Info("Config reloaded")
	for _, fn := range callbacks {
		fn(cfg)
	}
}

// Stop 停止监听
func (w *Watcher) Stop() {
	close(w.done)
	w.debounce.Stop()
	w.watcher.Close()
}
