// Package config 加载日志配置文件（JSON/YAML/TOML），
// 支持嵌套路径访问、环境变量替换和解码到结构体。
package config

import (
	"fmt"
	"strings"
	"sync"
)

// Config 配置管理器
type Config struct {
	data map[string]any
	mu   sync.RWMutex
}

// New 创建一个新的配置管理器
func New() *Config {
	return &Config{
		data: make(map[string]any),
	}
}

// Load 从文件加载配置并合并到现有配置
func (c *Config) Load(path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := parseFile(path)
	if err != nil {
		return fmt.Errorf("failed to load config from file %s: %w", path, err)
	}

	c.data = mergeMaps(c.data, data)
	return nil
}

// LoadBytes 从字节流加载配置并合并到现有配置
func (c *Config) LoadBytes(data []byte, format Format) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	parsed, err := parse(data, format)
	if err != nil {
		return fmt.Errorf("failed to load config from bytes: %w", err)
	}

	c.data = mergeMaps(c.data, parsed)
	return nil
}

// Set 设置配置值，支持路径访问（如 "logging.level"）
func (c *Config) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if strings.Contains(key, ".") {
		c.setNested(key, value)
	} else {
		c.data[key] = value
	}
}

// Get 获取配置值
func (c *Config) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if strings.Contains(key, ".") {
		return c.getNested(key)
	}

	val, exists := c.data[key]
	return val, exists
}

// GetString 获取字符串配置值
func (c *Config) GetString(key string) string {
	if val, ok := c.Get(key); ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

// GetInt 获取整数配置值
func (c *Config) GetInt(key string) int {
	if val, ok := c.Get(key); ok {
		switch v := val.(type) {
		case int:
			return v
		case int64:
			return int(v)
		case float64:
			return int(v)
		}
	}
	return 0
}

// GetBool 获取布尔配置值
func (c *Config) GetBool(key string) bool {
	if val, ok := c.Get(key); ok {
		if b, ok := val.(bool); ok {
			return b
		}
	}
	return false
}

// Has 检查配置项是否存在
func (c *Config) Has(key string) bool {
	_, exists := c.Get(key)
	return exists
}

// GetSection 获取配置的某个段落
func (c *Config) GetSection(key string) map[string]any {
	if val, ok := c.Get(key); ok {
		if m, ok := val.(map[string]any); ok {
			return copyMap(m)
		}
	}
	return make(map[string]any)
}

// Unmarshal 将全部配置解码到指定的结构体
func (c *Config) Unmarshal(target any) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return decode(c.data, target)
}

// UnmarshalKey 将指定key的配置解码到结构体
func (c *Config) UnmarshalKey(key string, target any) error {
	val, ok := c.Get(key)
	if !ok {
		return fmt.Errorf("config key '%s' not found", key)
	}

	dataMap, ok := val.(map[string]any)
	if !ok {
		return fmt.Errorf("config key '%s' cannot be unmarshaled to struct (type: %T, expected: map/object)", key, val)
	}

	if err := decode(dataMap, target); err != nil {
		return fmt.Errorf("failed to unmarshal config key '%s': %w", key, err)
	}
	return nil
}

// getNested 获取嵌套的配置值
func (c *Config) getNested(key string) (any, bool) {
	keys := strings.Split(key, ".")
	current := c.data

	// 遍历除最后一个key外的所有key
	for _, k := range keys[:len(keys)-1] {
		val, exists := current[k]
		if !exists {
			return nil, false
		}

		m, ok := val.(map[string]any)
		if !ok {
			return nil, false
		}
		current = m
	}

	val, exists := current[keys[len(keys)-1]]
	return val, exists
}

// setNested 设置嵌套的配置值
func (c *Config) setNested(key string, value any) {
	keys := strings.Split(key, ".")
	current := c.data

	for i, k := range keys {
		if i == len(keys)-1 {
			current[k] = value
			return
		}

		if val, exists := current[k]; exists {
			if m, ok := val.(map[string]any); ok {
				current = m
				continue
			}
		}
		// 不存在或不是map，创建新map
		newMap := make(map[string]any)
		current[k] = newMap
		current = newMap
	}
}

// mergeMaps 合并两个map（递归合并）
func mergeMaps(dst, src map[string]any) map[string]any {
	result := copyMap(dst)

	for key, srcVal := range src {
		if dstVal, exists := result[key]; exists {
			if dstMap, dstOk := dstVal.(map[string]any); dstOk {
				if srcMap, srcOk := srcVal.(map[string]any); srcOk {
					result[key] = mergeMaps(dstMap, srcMap)
					continue
				}
			}
		}
		result[key] = srcVal
	}

	return result
}

// copyMap 深拷贝map
func copyMap(src map[string]any) map[string]any {
	dst := make(map[string]any, len(src))

	for key, val := range src {
		if m, ok := val.(map[string]any); ok {
			dst[key] = copyMap(m)
		} else {
			dst[key] = val
		}
	}

	return dst
}
