package xlog

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// 默认值
const (
	defaultLevel       = "info"
	defaultFormat      = FormatText
	defaultConsole     = ConsoleStderr
	defaultMaxBytes    = 10_000_000
	defaultBackupCount = 5
)

// 日志格式
const (
	// FormatText 人类可读的单行文本
	FormatText = "text"
	// FormatJSON 每条记录一个 JSON 对象（行分隔）
	FormatJSON = "json"
)

// 控制台输出目标
const (
	ConsoleStderr = "stderr"
	ConsoleStdout = "stdout"
	// ConsoleNone 关闭控制台输出（仅文件）
	ConsoleNone = "none"
)

// Config 日志配置
type Config struct {
	// Name 日志器名称，空表示根日志器
	Name string `yaml:"name" json:"name" toml:"name"`

	// Level 日志级别：debug/info/warn/warning/error/critical（默认 info）
	Level string `yaml:"level" json:"level" toml:"level"`

	// Format 日志格式：text/json（默认 text）
	Format string `yaml:"format" json:"format" toml:"format"`

	// Console 控制台输出：stderr/stdout/none（默认 stderr）
	Console string `yaml:"console" json:"console" toml:"console"`

	// File 日志文件路径，空表示不写文件
	// 文件输出自动启用按大小轮转
	File string `yaml:"file" json:"file" toml:"file"`

	// MaxBytes 单个日志文件的最大字节数（默认 10MB，仅文件输出有效）
	MaxBytes int64 `yaml:"max_bytes" json:"max_bytes" toml:"max_bytes"`

	// BackupCount 轮转时保留的备份文件数量（默认 5，仅文件输出有效）
	BackupCount int `yaml:"backup_count" json:"backup_count" toml:"backup_count"`
}

// normalize 填充默认值并统一大小写
func normalize(cfg Config) Config {
	if cfg.Level == "" {
		cfg.Level = defaultLevel
	}
	cfg.Format = strings.ToLower(cfg.Format)
	if cfg.Format == "" {
		cfg.Format = defaultFormat
	}
	cfg.Console = strings.ToLower(cfg.Console)
	if cfg.Console == "" {
		cfg.Console = defaultConsole
	}
	if cfg.MaxBytes == 0 {
		cfg.MaxBytes = defaultMaxBytes
	}
	if cfg.BackupCount == 0 {
		cfg.BackupCount = defaultBackupCount
	}
	return cfg
}

// Validate 校验配置的枚举值和取值范围
// 校验失败属于配置错误，在创建日志器时立即返回，不会推迟到写日志时
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Level,
			validation.By(func(value interface{}) error {
				if s, _ := value.(string); s != "" {
					_, err := ParseLevel(s)
					return err
				}
				return nil
			}),
		),
		validation.Field(&c.Format,
			validation.In(FormatText, FormatJSON).Error("must be text or json"),
		),
		validation.Field(&c.Console,
			validation.In(ConsoleStderr, ConsoleStdout, ConsoleNone).Error("must be stderr, stdout or none"),
		),
		validation.Field(&c.MaxBytes, validation.Min(int64(0))),
		validation.Field(&c.BackupCount, validation.Min(0)),
	)
}
