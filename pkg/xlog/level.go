package xlog

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// LevelCritical 高于 slog.LevelError 的严重级别
// 数值沿用 slog 的级别间隔约定（Error=8，每档 +4）
const LevelCritical = slog.Level(12)

// ErrUnknownLevel 未知的日志级别名称
var ErrUnknownLevel = errors.New("unknown log level")

// ParseLevel 解析日志级别名称（大小写不敏感）
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	case "critical", "fatal":
		return LevelCritical, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: %s", ErrUnknownLevel, s)
	}
}

// levelName 输出用的级别名称（WARNING 而不是 WARN）
func levelName(l slog.Level) string {
	switch {
	case l < slog.LevelInfo:
		return "DEBUG"
	case l < slog.LevelWarn:
		return "INFO"
	case l < slog.LevelError:
		return "WARNING"
	case l < LevelCritical:
		return "ERROR"
	default:
		return "CRITICAL"
	}
}
