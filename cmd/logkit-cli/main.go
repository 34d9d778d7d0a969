package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shayaansultan/logkit/pkg/config"
	"github.com/shayaansultan/logkit/pkg/xlog"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "logkit-cli",
	Short: "Logkit logging toolkit",
	Long:  `Companion tool for the logkit logging library: validate configs and emit test records`,
}

var checkCmd = &cobra.Command{
	Use:   "check [config-file]",
	Short: "Validate a logging config file",
	Long:  `Load a logging config file (json/yaml/toml) and report the resolved configuration`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		// 创建一次以验证级别、格式和文件路径都可用
		logger, err := xlog.New(cfg)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		defer logger.Close()

		fmt.Printf("✅ Config OK\n")
		fmt.Printf("  name:         %q\n", cfg.Name)
		fmt.Printf("  level:        %s\n", orDefault(cfg.Level, "info"))
		fmt.Printf("  format:       %s\n", orDefault(cfg.Format, "text"))
		fmt.Printf("  console:      %s\n", orDefault(cfg.Console, "stderr"))
		if cfg.File != "" {
			fmt.Printf("  file:         %s\n", cfg.File)
			fmt.Printf("  max_bytes:    %d\n", cfg.MaxBytes)
			fmt.Printf("  backup_count: %d\n", cfg.BackupCount)
		} else {
			fmt.Printf("  file:         (console only)\n")
		}
	},
}

var emitCmd = &cobra.Command{
	Use:   "emit [config-file]",
	Short: "Emit test log records",
	Long:  `Build a logger from a config file and emit sample records at every level, useful for checking formats and rotation`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := xlog.Config{}
		if len(args) > 0 {
			loaded, err := loadConfig(args[0])
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				os.Exit(1)
			}
			cfg = loaded
		}

		count, _ := cmd.Flags().GetInt("count")
		message, _ := cmd.Flags().GetString("message")

		logger, err := xlog.Configure(cfg)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		defer logger.Close()

		for i := 0; i < count; i++ {
			logger.Debug(message, "iteration", i)
			logger.Info(message, "iteration", i)
			logger.Warn(message, "iteration", i)
			logger.Error(message, "iteration", i)
			logger.Critical(message, "iteration", i)
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("logkit-cli version %s\n", version)
	},
}

// orDefault 展示用：空值标注默认值
func orDefault(v, def string) string {
	if v == "" {
		return def + " (default)"
	}
	return v
}

// loadConfig 读取配置文件并解析为 xlog.Config
// 优先使用 logging 段落，没有则按顶层key解析
func loadConfig(path string) (xlog.Config, error) {
	var cfg xlog.Config

	c, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	if c.Has("logging") {
		err = c.UnmarshalKey("logging", &cfg)
	} else {
		err = c.Unmarshal(&cfg)
	}
	return cfg, err
}

func init() {
	emitCmd.Flags().IntP("count", "n", 10, "number of iterations to emit")
	emitCmd.Flags().StringP("message", "m", "test message", "message text for emitted records")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(emitCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
