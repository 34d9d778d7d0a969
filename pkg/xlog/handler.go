package xlog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
)

// 时间戳格式（固定）
const timeLayout = "2006-01-02 15:04:05"

// textHandler 文本格式的 slog.Handler
// 每条记录输出一行："<时间> - <名称> - <级别> - <消息>"
// 结构化字段不参与文本渲染，需要字段请使用 json 格式
type textHandler struct {
	w     io.Writer
	mu    *sync.Mutex
	level slog.Level
	name  string
}

func newTextHandler(w io.Writer, level slog.Level, name string) *textHandler {
	return &textHandler{
		w:     w,
		mu:    &sync.Mutex{},
		level: level,
		name:  name,
	}
}

func (h *textHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *textHandler) Handle(_ context.Context, r slog.Record) error {
	line := fmt.Sprintf("%s - %s - %s - %s\n",
		r.Time.Format(timeLayout), h.name, levelName(r.Level), r.Message)

	// 加锁保证单条日志不会和其他写入（包括轮转）交错
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, line)
	return err
}

func (h *textHandler) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h *textHandler) WithGroup(string) slog.Handler { return h }

// jsonHandler JSON 格式的 slog.Handler
// 每条记录输出一个 JSON 对象，固定包含
// timestamp/level/message/module/function/line，其余字段平铺在顶层
type jsonHandler struct {
	w     io.Writer
	mu    *sync.Mutex
	level slog.Level
	attrs []slog.Attr
	group string
}

func newJSONHandler(w io.Writer, level slog.Level) *jsonHandler {
	return &jsonHandler{
		w:     w,
		mu:    &sync.Mutex{},
		level: level,
	}
}

func (h *jsonHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *jsonHandler) Handle(_ context.Context, r slog.Record) error {
	entry := make(map[string]any, 8+len(h.attrs)+r.NumAttrs())

	entry["timestamp"] = r.Time.Format(timeLayout)
	entry["level"] = levelName(r.Level)
	entry["message"] = r.Message

	module, function, line := sourceInfo(r.PC)
	entry["module"] = module
	entry["function"] = function
	entry["line"] = line

	for _, a := range h.attrs {
		putAttr(entry, h.group, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		putAttr(entry, h.group, a)
		return true
	})

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal log record: %w", err)
	}
	data = append(data, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err = h.w.Write(data)
	return err
}

func (h *jsonHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	clone := *h
	clone.attrs = append(clone.attrs[:len(clone.attrs):len(clone.attrs)], attrs...)
	return &clone
}

func (h *jsonHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	if clone.group == "" {
		clone.group = name
	} else {
		clone.group = clone.group + "." + name
	}
	return &clone
}

// putAttr 将属性写入记录，组名用点号拼接成前缀
func putAttr(entry map[string]any, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() == slog.KindGroup {
		groupPrefix := a.Key
		if prefix != "" {
			groupPrefix = prefix + "." + a.Key
		}
		for _, ga := range a.Value.Group() {
			putAttr(entry, groupPrefix, ga)
		}
		return
	}

	if a.Key == "" {
		return
	}

	key := a.Key
	if prefix != "" {
		key = prefix + "." + key
	}

	switch v := a.Value.Any().(type) {
	case error:
		entry[key] = v.Error()
	default:
		entry[key] = v
	}
}

// sourceInfo 解析调用位置：源文件名（不含扩展名）、函数名、行号
func sourceInfo(pc uintptr) (module, function string, line int) {
	if pc == 0 {
		return "", "", 0
	}

	frame, _ := runtime.CallersFrames([]uintptr{pc}).Next()

	if frame.File != "" {
		module = strings.TrimSuffix(filepath.Base(frame.File), ".go")
	}
	if frame.Function != "" {
		// "github.com/x/pkg.(*T).Method" -> "(*T).Method"
		function = frame.Function
		if i := strings.LastIndexByte(function, '/'); i >= 0 {
			function = function[i+1:]
		}
		if i := strings.IndexByte(function, '.'); i >= 0 {
			function = function[i+1:]
		}
	}
	return module, function, frame.Line
}
