package config

import (
	"fmt"
	"os"
	"strings"
)

// Load 加载单个配置文件（自动识别格式），默认支持环境变量替换
// 环境变量格式: ${ENV_VAR} 或 ${ENV_VAR:default_value}
func Load(path string) (*Config, error) {
	cfg := New()
	if err := cfg.Load(path); err != nil {
		return nil, err
	}

	replaceEnvVars(cfg.data)
	return cfg, nil
}

// LoadWithoutEnv 加载配置文件但不替换环境变量
func LoadWithoutEnv(path string) (*Config, error) {
	cfg := New()
	if err := cfg.Load(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MustLoad 加载配置文件（默认支持环境变量替换），失败时 panic
// 适用于程序启动阶段，配置加载失败时程序无法继续运行
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(fmt.Errorf("config: failed to load config from %s: %w", path, err))
	}
	return cfg
}

// MustUnmarshal 加载配置（默认支持环境变量替换）并直接解析到结构体，失败时 panic
// 这是最便捷的方式，适合在 main 函数中使用
func MustUnmarshal(path string, target any) {
	cfg := MustLoad(path)
	if err := cfg.Unmarshal(target); err != nil {
		panic(fmt.Errorf("config: failed to unmarshal config from %s: %w", path, err))
	}
}

// replaceEnvVars 递归替换环境变量
func replaceEnvVars(data map[string]any) {
	for key, val := range data {
		switch v := val.(type) {
		case string:
			data[key] = expandEnvVar(v)
		case map[string]any:
			replaceEnvVars(v)
		case []any:
			for i, item := range v {
				if str, ok := item.(string); ok {
					v[i] = expandEnvVar(str)
				} else if m, ok := item.(map[string]any); ok {
					replaceEnvVars(m)
				}
			}
		}
	}
}

// expandEnvVar 展开环境变量
// 支持格式: ${ENV_VAR} 或 ${ENV_VAR:default_value}
func expandEnvVar(value string) string {
	if !strings.Contains(value, "${") {
		return value
	}

	var b strings.Builder
	rest := value
	for {
		start := strings.Index(rest, "${")
		if start == -1 {
			b.WriteString(rest)
			break
		}

		end := strings.Index(rest[start:], "}")
		if end == -1 {
			b.WriteString(rest)
			break
		}
		end += start

		b.WriteString(rest[:start])

		expr := rest[start+2 : end]
		name, def := expr, ""
		if i := strings.Index(expr, ":"); i >= 0 {
			name, def = expr[:i], expr[i+1:]
		}

		if v, ok := os.LookupEnv(name); ok {
			b.WriteString(v)
		} else {
			b.WriteString(def)
		}

		rest = rest[end+1:]
	}

	return b.String()
}
