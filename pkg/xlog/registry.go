package xlog

import (
	"errors"
	"fmt"
	"sync"
)

// Registry 按名称管理 Logger 实例
// 同名重复配置会替换旧实例并关闭其文件输出，不会叠加输出目标
type Registry struct {
	mu      sync.RWMutex
	loggers map[string]*Logger
}

// NewRegistry 创建一个空的日志器注册表
func NewRegistry() *Registry {
	return &Registry{
		loggers: make(map[string]*Logger),
	}
}

// Get 返回指定名称的 Logger
// 不存在时用默认配置创建（仅控制台输出），空名称表示根日志器
func (r *Registry) Get(name string) *Logger {
	r.mu.RLock()
	logger, ok := r.loggers[name]
	r.mu.RUnlock()
	if ok {
		return logger
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// 二次检查，避免并发创建
	if logger, ok := r.loggers[name]; ok {
		return logger
	}

	// 默认配置不含文件输出，New 不会失败
	logger = MustNew(Config{Name: name})
	r.loggers[name] = logger
	return logger
}

// Configure 根据配置创建 Logger 并注册
// 同名的旧实例会被替换并关闭，保证任何时刻每个名称只有一组输出目标
func (r *Registry) Configure(cfg Config) (*Logger, error) {
	logger, err := New(cfg)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	old := r.loggers[cfg.Name]
	r.loggers[cfg.Name] = logger
	r.mu.Unlock()

	if old != nil {
		// 关闭被替换实例的文件句柄
		_ = old.Close()
	}
	return logger, nil
}

// Names 返回已注册的日志器名称
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.loggers))
	for name := range r.loggers {
		names = append(names, name)
	}
	return names
}

// Close 关闭注册表中所有 Logger 的文件输出
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for name, logger := range r.loggers {
		if err := logger.Close(); err != nil {
			errs = append(errs, err)
		}
		delete(r.loggers, name)
	}
	return errors.Join(errs...)
}

// defaultRegistry 类似 slog.Default() 的进程级默认注册表
var defaultRegistry = NewRegistry()

// Get 从默认注册表返回指定名称的 Logger
func Get(name string) *Logger {
	return defaultRegistry.Get(name)
}

// Default 返回默认注册表中的根日志器
func Default() *Logger {
	return defaultRegistry.Get("")
}

// Configure 在默认注册表上创建并注册 Logger
func Configure(cfg Config) (*Logger, error) {
	return defaultRegistry.Configure(cfg)
}

// MustConfigure 在默认注册表上创建并注册 Logger（失败时 panic）
func MustConfigure(cfg Config) *Logger {
	logger, err := Configure(cfg)
	if err != nil {
		panic(fmt.Sprintf("failed to configure logger: %v", err))
	}
	return logger
}
