package config

import (
	"fmt"
	"reflect"
	"strings"
)

// decode 将 map[string]any 解码到结构体
// 字段匹配优先使用 yaml 标签，其次是字段名（大小写不敏感）
func decode(input map[string]any, target any) error {
	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return fmt.Errorf("target must be a non-nil pointer")
	}

	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return fmt.Errorf("target must be a struct")
	}

	return decodeStruct(input, v)
}

func decodeStruct(input map[string]any, v reflect.Value) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldValue := v.Field(i)

		if !fieldValue.CanSet() {
			continue
		}

		raw, ok := lookupValue(input, fieldKey(field))
		if !ok {
			continue
		}

		if err := setField(fieldValue, raw); err != nil {
			return fmt.Errorf("field %s: %w", field.Name, err)
		}
	}

	return nil
}

// fieldKey 返回字段在配置中对应的key
func fieldKey(field reflect.StructField) string {
	tag := field.Tag.Get("yaml")
	if tag == "" {
		return field.Name
	}
	// 去掉 ",omitempty" 等选项
	if i := strings.Index(tag, ","); i >= 0 {
		tag = tag[:i]
	}
	if tag == "" || tag == "-" {
		return field.Name
	}
	return tag
}

// lookupValue 大小写不敏感地查找key
func lookupValue(input map[string]any, key string) (any, bool) {
	if val, ok := input[key]; ok {
		return val, true
	}
	for k, val := range input {
		if strings.EqualFold(k, key) {
			return val, true
		}
	}
	return nil, false
}

func setField(fieldValue reflect.Value, raw any) error {
	if raw == nil {
		return nil
	}

	// 嵌套结构体递归解码
	if fieldValue.Kind() == reflect.Struct {
		m, ok := raw.(map[string]any)
		if !ok {
			return fmt.Errorf("expected map, got %T", raw)
		}
		return decodeStruct(m, fieldValue)
	}

	if fieldValue.Kind() == reflect.Ptr {
		if fieldValue.IsNil() {
			fieldValue.Set(reflect.New(fieldValue.Type().Elem()))
		}
		return setField(fieldValue.Elem(), raw)
	}

	rawValue := reflect.ValueOf(raw)

	switch fieldValue.Kind() {
	case reflect.String:
		s, ok := raw.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", raw)
		}
		fieldValue.SetString(s)

	case reflect.Bool:
		b, ok := raw.(bool)
		if !ok {
			return fmt.Errorf("expected bool, got %T", raw)
		}
		fieldValue.SetBool(b)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		switch n := raw.(type) {
		case int:
			fieldValue.SetInt(int64(n))
		case int64:
			fieldValue.SetInt(n)
		case float64:
			fieldValue.SetInt(int64(n))
		default:
			return fmt.Errorf("expected integer, got %T", raw)
		}

	case reflect.Float32, reflect.Float64:
		switch n := raw.(type) {
		case float64:
			fieldValue.SetFloat(n)
		case int:
			fieldValue.SetFloat(float64(n))
		case int64:
			fieldValue.SetFloat(float64(n))
		default:
			return fmt.Errorf("expected float, got %T", raw)
		}

	case reflect.Slice:
		items, ok := raw.([]any)
		if !ok {
			// 同类型切片直接赋值
			if rawValue.Type().AssignableTo(fieldValue.Type()) {
				fieldValue.Set(rawValue)
				return nil
			}
			return fmt.Errorf("expected slice, got %T", raw)
		}
		slice := reflect.MakeSlice(fieldValue.Type(), len(items), len(items))
		for i, item := range items {
			if err := setField(slice.Index(i), item); err != nil {
				return fmt.Errorf("element %d: %w", i, err)
			}
		}
		fieldValue.Set(slice)

	case reflect.Map:
		if rawValue.Type().AssignableTo(fieldValue.Type()) {
			fieldValue.Set(rawValue)
			return nil
		}
		return fmt.Errorf("expected %s, got %T", fieldValue.Type(), raw)

	default:
		return fmt.Errorf("unsupported field type: %s", fieldValue.Kind())
	}

	return nil
}
