package rotate

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// Writer 实现了 io.WriteCloser 接口，支持按大小日志轮转
// 活跃文件写满 MaxBytes 后重命名为 Filename.1，旧备份依次顺延，
// 超出 BackupCount 的最老备份被删除
type Writer struct {
	config Config
	file   *os.File
	mu     sync.Mutex

	// 缓存当前文件大小，避免每次 Write 都 stat
	size int64
}

// New 创建一个新的按大小轮转写入器
// 目录不可创建或文件不可打开时立即返回错误，不会推迟到写入时
func New(config Config) (io.Writer, io.Closer, error) {
	if config.Filename == "" {
		return nil, nil, fmt.Errorf("filename is required")
	}

	w := &Writer{
		config: config,
	}

	if err := w.init(); err != nil {
		return nil, nil, err
	}

	return w, w, nil
}

// MustNew 创建一个新的按大小轮转写入器（失败时 panic）
func MustNew(config Config) (io.Writer, io.Closer) {
	writer, closer, err := New(config)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize rotate writer: %v", err))
	}
	return writer, closer
}

// Write 实现 io.Writer 接口
// 轮转和写入在同一把锁下进行，单条日志不会跨越轮转边界
func (w *Writer) Write(p []byte) (n int, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		if err := w.openFile(); err != nil {
			return 0, err
		}
	}

	// 检查是否写满，需要轮转
	if w.shouldRotate(int64(len(p))) {
		if err := w.rotate(); err != nil {
			return 0, err
		}
	}

	n, err = w.file.Write(p)
	w.size += int64(n)
	return n, err
}

// Close 实现 io.Closer 接口
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return nil
	}

	err := w.file.Close()
	w.file = nil
	return err
}

// shouldRotate 判断写入 n 字节后是否超过上限
// MaxBytes 或 BackupCount 不为正时永不轮转；空文件不轮转，
// 单条超长日志直接写入当前文件
func (w *Writer) shouldRotate(n int64) bool {
	if w.config.MaxBytes <= 0 || w.config.BackupCount <= 0 {
		return false
	}
	if w.size == 0 {
		return false
	}
	return w.size+n > w.config.MaxBytes
}

// init 初始化日志文件
func (w *Writer) init() error {
	// 确保目录存在
	if dir := filepath.Dir(w.config.Filename); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	return w.openFile()
}

// openFile 打开或创建当前日志文件，并记录已有大小
func (w *Writer) openFile() error {
	file, err := os.OpenFile(w.config.Filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return fmt.Errorf("failed to stat log file: %w", err)
	}

	w.file = file
	w.size = info.Size()
	return nil
}

// rotate 执行轮转
// 备份序列整体后移一位：name.N-1 -> name.N ... name -> name.1，
// 最老的 name.N 被删除，然后打开新的空文件
func (w *Writer) rotate() error {
	if w.file != nil {
		if err := w.file.Close(); err != nil {
			return fmt.Errorf("failed to close log file: %w", err)
		}
		w.file = nil
	}

	oldest := w.backupName(w.config.BackupCount)
	if err := os.Remove(oldest); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove oldest backup: %w", err)
	}

	for i := w.config.BackupCount - 1; i >= 1; i-- {
		src := w.backupName(i)
		if _, err := os.Stat(src); err != nil {
			continue
		}
		if err := os.Rename(src, w.backupName(i+1)); err != nil {
			return fmt.Errorf("failed to shift backup %s: %w", src, err)
		}
	}

	if err := os.Rename(w.config.Filename, w.backupName(1)); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to rename log file: %w", err)
		}
	}

	return w.openFile()
}

// backupName 生成备份文件名：{filename}.{n}
// 例如：logs/app.log -> logs/app.log.1
func (w *Writer) backupName(n int) string {
	return fmt.Sprintf("%s.%d", w.config.Filename, n)
}
