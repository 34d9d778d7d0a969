package xlog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/shayaansultan/logkit/pkg/xlog/rotate"
)

// rootName 根日志器在输出中的显示名称
const rootName = "root"

// 控制台输出目标，测试中可替换
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// Logger 封装了 slog.Logger 和文件资源清理逻辑
// 通过嵌入 *slog.Logger，可以直接调用所有 slog 的方法
type Logger struct {
	*slog.Logger
	name   string
	closer io.Closer
}

// Name 返回日志器名称，根日志器返回空字符串
func (l *Logger) Name() string {
	return l.name
}

// Close 关闭文件输出（如果有）
func (l *Logger) Close() error {
	if l == nil || l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// New 根据配置创建一个新的 Logger
// 配置非法（未知级别、未知格式）和文件不可写都在这里立即报错
// 文件输出时返回的 Logger 持有文件句柄，使用完毕后应调用 Close()
func New(cfg Config) (*Logger, error) {
	cfg = normalize(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid logger config: %w", err)
	}

	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	writer, closer, err := resolveWriter(cfg)
	if err != nil {
		return nil, err
	}

	display := cfg.Name
	if display == "" {
		display = rootName
	}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case FormatJSON:
		handler = newJSONHandler(writer, level)
	case FormatText:
		handler = newTextHandler(writer, level, display)
	default:
		// Validate 已经拦截，保底
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, cfg.Format)
	}

	return &Logger{
		Logger: slog.New(handler),
		name:   cfg.Name,
		closer: closer,
	}, nil
}

// MustNew 根据配置创建一个新的 Logger（失败时 panic）
func MustNew(cfg Config) *Logger {
	logger, err := New(cfg)
	if err != nil {
		panic(fmt.Sprintf("failed to create logger: %v", err))
	}
	return logger
}

// ErrUnknownFormat 未知的日志格式
var ErrUnknownFormat = errors.New("unknown log format")

// resolveWriter 根据配置组合输出目标
// 控制台和文件同时开启时通过 io.MultiWriter 共享一个 handler
func resolveWriter(cfg Config) (io.Writer, io.Closer, error) {
	var writers []io.Writer

	switch strings.ToLower(cfg.Console) {
	case ConsoleStderr:
		writers = append(writers, stderr)
	case ConsoleStdout:
		writers = append(writers, stdout)
	case ConsoleNone:
	default:
		return nil, nil, fmt.Errorf("unsupported console target: %s", cfg.Console)
	}

	var closer io.Closer
	if cfg.File != "" {
		w, c, err := rotate.New(rotate.Config{
			Filename:    cfg.File,
			MaxBytes:    cfg.MaxBytes,
			BackupCount: cfg.BackupCount,
		})
		if err != nil {
			return nil, nil, err
		}
		writers = append(writers, w)
		closer = c
	}

	switch len(writers) {
	case 0:
		return io.Discard, nil, nil
	case 1:
		return writers[0], closer, nil
	default:
		return io.MultiWriter(writers...), closer, nil
	}
}

// With 返回带有预置字段的子 Logger，共享底层输出。
// 预置字段只在 json 格式下输出，text 格式只有固定的四段，不含附加字段
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		Logger: l.Logger.With(args...),
		name:   l.name,
		closer: l.closer,
	}
}

// Critical 记录 CRITICAL 级别日志
func (l *Logger) Critical(msg string, args ...any) {
	l.log(context.Background(), LevelCritical, msg, args...)
}

// CriticalContext 记录 CRITICAL 级别日志（带 context）
func (l *Logger) CriticalContext(ctx context.Context, msg string, args ...any) {
	l.log(ctx, LevelCritical, msg, args...)
}

// Exception 记录 ERROR 级别日志并附带 exception 字段
// exception 字段的值是 err 的完整错误链（见 ErrorChain）
func (l *Logger) Exception(msg string, err error, args ...any) {
	args = append(args[:len(args):len(args)], "exception", ErrorChain(err))
	l.log(context.Background(), slog.LevelError, msg, args...)
}

// log 手动构造记录，保证 module/function/line 指向真正的调用方
func (l *Logger) log(ctx context.Context, level slog.Level, msg string, args ...any) {
	if !l.Logger.Enabled(ctx, level) {
		return
	}

	var pcs [1]uintptr
	// 跳过 Callers、log 和外层的包装方法
	runtime.Callers(3, pcs[:])

	r := slog.NewRecord(time.Now(), level, msg, pcs[0])
	r.Add(args...)
	_ = l.Handler().Handle(ctx, r)
}

// ErrorChain 将错误链格式化为字符串
// 每一层 Unwrap 占一行，用于结构化日志的 exception 字段
func ErrorChain(err error) string {
	if err == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(err.Error())
	for e := errors.Unwrap(err); e != nil; e = errors.Unwrap(e) {
		b.WriteString("\ncaused by: ")
		b.WriteString(e.Error())
	}
	return b.String()
}
