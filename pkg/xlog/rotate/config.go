package rotate

// Config 日志轮转配置
type Config struct {
	// Filename 日志文件路径（必填）
	Filename string

	// MaxBytes 单个文件的最大字节数，超过后触发轮转
	// 0 或负数表示不轮转
	MaxBytes int64

	// BackupCount 保留的备份文件数量，备份命名为 Filename.1 .. Filename.N
	// 0 或负数表示不轮转
	BackupCount int
}
