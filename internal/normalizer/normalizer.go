// Package normalizer turns untrusted model output into validated payloads.
//
// Normalize never panics. Unparsable or schema-invalid text yields the
// schema's fallback value flagged as degraded, or ErrInvalidShape when the
// schema has no fallback.
package normalizer

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"mock_interview_backend/internal/util"

	"github.com/go-viper/mapstructure/v2"
)

type Kind int

const (
	String Kind = iota
	StringArray
	Number
	Object
	ObjectArray
)

const (
	MinRating = 1
	MaxRating = 10
)

// Field 描述一个期望字段；Aliases 与 Name 均按大小写不敏感匹配
type Field struct {
	Name     string
	Aliases  []string
	Kind     Kind
	Optional bool
	NotBlank bool
	Fields   []Field
}

type Schema struct {
	Name string
	// RootArray 为 true 时顶层必须是非空对象数组
	RootArray bool
	Fields    []Field
	Fallback  func() any
}

type Result struct {
	Value    any
	Degraded bool
	Reason   string
}

var (
	leadingFence  = regexp.MustCompile("(?i)^```[a-z0-9_+-]*[ \t]*\r?\n?")
	trailingFence = regexp.MustCompile("\r?\n?```$")
)

// StripFences 去掉首尾 Markdown 代码块标记及空白
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)
	s = leadingFence.ReplaceAllString(s, "")
	s = trailingFence.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

func Normalize(raw string, schema Schema) (res Result, err error) {
	if strings.TrimSpace(raw) == "" {
		return Result{}, util.ErrEmptyResponse
	}

	defer func() {
		if r := recover(); r != nil {
			res, err = degrade(schema, fmt.Sprintf("panic during normalization: %v", r))
		}
	}()

	var parsed any
	if err := json.Unmarshal([]byte(StripFences(raw)), &parsed); err != nil {
		return degrade(schema, "invalid JSON: "+err.Error())
	}

	value, verr := normalizeRoot(parsed, schema)
	if verr != nil {
		return degrade(schema, verr.Error())
	}
	return Result{Value: value}, nil
}

func degrade(schema Schema, reason string) (Result, error) {
	if schema.Fallback == nil {
		return Result{}, fmt.Errorf("%w: %s: %s", util.ErrInvalidShape, schema.Name, reason)
	}
	return Result{Value: schema.Fallback(), Degraded: true, Reason: reason}, nil
}

func normalizeRoot(v any, schema Schema) (any, error) {
	if !schema.RootArray {
		return normalizeObject(v, schema.Fields, "")
	}

	arr, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("expected a JSON array, got %s", typeName(v))
	}
	if len(arr) == 0 {
		return nil, fmt.Errorf("expected a non-empty array")
	}
	out := make([]map[string]any, 0, len(arr))
	for i, item := range arr {
		obj, err := normalizeObject(item, schema.Fields, fmt.Sprintf("[%d]", i))
		if err != nil {
			return nil, err
		}
		out = append(out, obj)
	}
	return out, nil
}

func normalizeObject(v any, fields []Field, path string) (map[string]any, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s: expected an object, got %s", displayPath(path), typeName(v))
	}

	out := make(map[string]any, len(m))
	claimed := make(map[string]bool, len(fields))

	for _, f := range fields {
		keys := matchingKeys(m, f)
		for _, k := range keys {
			claimed[k] = true
		}
		// 可选字段为 null 时按缺省处理
		if len(keys) == 0 || (f.Optional && m[keys[0]] == nil) {
			if f.Optional {
				continue
			}
			return nil, fmt.Errorf("%s: missing required field", join(path, f.Name))
		}
		val := m[keys[0]]

		nv, err := normalizeField(val, f, join(path, f.Name))
		if err != nil {
			return nil, err
		}
		out[f.Name] = nv
	}

	// 未声明的字段原样保留
	for k, val := range m {
		if claimed[k] {
			continue
		}
		if _, exists := out[k]; !exists {
			out[k] = val
		}
	}
	return out, nil
}

func normalizeField(val any, f Field, path string) (any, error) {
	switch f.Kind {
	case String:
		s, ok := val.(string)
		if !ok {
			return nil, fmt.Errorf("%s: expected a string, got %s", path, typeName(val))
		}
		if f.NotBlank && strings.TrimSpace(s) == "" {
			return nil, fmt.Errorf("%s: must not be blank", path)
		}
		return s, nil

	case StringArray:
		// 模型常把单元素数组输出成字符串
		if s, ok := val.(string); ok {
			val = []any{s}
		}
		arr, ok := val.([]any)
		if !ok {
			return nil, fmt.Errorf("%s: expected an array of strings, got %s", path, typeName(val))
		}
		out := make([]string, 0, len(arr))
		for i, item := range arr {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%s[%d]: expected a string, got %s", path, i, typeName(item))
			}
			out = append(out, s)
		}
		if len(out) == 0 {
			out = append(out, Placeholder(f.Name))
		}
		return out, nil

	case Number:
		n, ok := val.(float64)
		if !ok {
			return nil, fmt.Errorf("%s: expected a number, got %s", path, typeName(val))
		}
		return ClampRating(n), nil

	case Object:
		return normalizeObject(val, f.Fields, path)

	case ObjectArray:
		arr, ok := val.([]any)
		if !ok {
			return nil, fmt.Errorf("%s: expected an array of objects, got %s", path, typeName(val))
		}
		out := make([]map[string]any, 0, len(arr))
		for i, item := range arr {
			obj, err := normalizeObject(item, f.Fields, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			out = append(out, obj)
		}
		return out, nil
	}

	return nil, fmt.Errorf("%s: unknown field kind %d", path, f.Kind)
}

// ClampRating 先四舍五入再截断到 [1,10]
func ClampRating(n float64) int {
	r := math.Round(n)
	if r < MinRating {
		return MinRating
	}
	if r > MaxRating {
		return MaxRating
	}
	return int(r)
}

// Placeholder 空数组的占位文本，如 bestPractices -> "No specific best practices identified"
func Placeholder(field string) string {
	return "No specific " + humanize(field) + " identified"
}

func humanize(name string) string {
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte(' ')
			}
			r = unicode.ToLower(r)
		} else if r == '_' {
			r = ' '
		}
		b.WriteRune(r)
	}
	return b.String()
}

// matchingKeys 返回命中字段的全部 key，首个为取值 key：
// 规范名精确匹配优先，其次按 Name、Aliases 顺序，同名不同大小写时取字典序最小者
func matchingKeys(m map[string]any, f Field) []string {
	var keys []string
	if _, ok := m[f.Name]; ok {
		keys = append(keys, f.Name)
	}
	for _, n := range append([]string{f.Name}, f.Aliases...) {
		var variants []string
		for k := range m {
			if k != f.Name && strings.EqualFold(k, n) {
				variants = append(variants, k)
			}
		}
		sort.Strings(variants)
		keys = append(keys, variants...)
	}
	return keys
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}
	return fmt.Sprintf("%T", v)
}

func join(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

func displayPath(path string) string {
	if path == "" {
		return "root"
	}
	return path
}

// Decode 把归一化结果映射到具体结构体
func Decode(value any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           out,
		WeaklyTypedInput: false,
		Squash:           true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(value)
}
