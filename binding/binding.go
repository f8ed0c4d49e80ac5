// Package binding fills card element text from a data row.
package binding

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Interpolate 将文本中的 ${column} 替换为数据行中的值。
// 列名先精确匹配，再不区分大小写匹配；支持 ${a.b[0]} 访问嵌套数据与 ${column|默认值}。
// 找不到且没有默认值时保留原占位符。
func Interpolate(text string, row map[string]any) string {
	if !strings.Contains(text, "${") {
		return text
	}
	return exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		expr := exprPattern.FindStringSubmatch(match)[1]
		path, def, hasDef := strings.Cut(expr, "|")
		path = strings.TrimSpace(path)
		if path == "" {
			return match
		}
		if val, ok := Resolve(row, path); ok && val != nil {
			return fmt.Sprint(val)
		}
		if hasDef {
			return def
		}
		return match
	})
}

// Lookup 返回整列的值，用于按元素名覆盖默认内容。
func Lookup(row map[string]any, column string) (string, bool) {
	v, ok := column0(row, column)
	if !ok || v == nil {
		return "", false
	}
	return fmt.Sprint(v), true
}

// Resolve 按路径取值：第一段为列名，后续段下钻嵌套的 map 与切片。
// 整个路径恰好是某个列名时（列名可能含 '.'）直接返回该列。
func Resolve(row map[string]any, path string) (any, bool) {
	if row == nil {
		return nil, false
	}
	if v, ok := column0(row, path); ok {
		return v, true
	}
	var current any = row
	for i, segment := range strings.Split(path, ".") {
		name, indexes := parseSegment(segment)
		if name != "" {
			var ok bool
			if i == 0 {
				current, ok = column0(row, name)
			} else {
				current, ok = descendMap(current, name)
			}
			if !ok {
				return nil, false
			}
		}
		for _, idxStr := range indexes {
			idx, err := strconv.Atoi(idxStr)
			if err != nil {
				return nil, false
			}
			var ok bool
			current, ok = descendArray(current, idx)
			if !ok {
				return nil, false
			}
		}
	}
	return current, true
}

func column0(row map[string]any, name string) (any, bool) {
	if v, ok := row[name]; ok {
		return v, true
	}
	for k, v := range row {
		if strings.EqualFold(strings.TrimSpace(k), name) {
			return v, true
		}
	}
	return nil, false
}

func parseSegment(segment string) (string, []string) {
	name := segment
	var indexes []string
	if i := strings.Index(segment, "["); i != -1 {
		name = segment[:i]
		rest := segment[i:]
		for len(rest) > 0 && rest[0] == '[' {
			end := strings.IndexByte(rest, ']')
			if end == -1 {
				break
			}
			indexes = append(indexes, rest[1:end])
			rest = rest[end+1:]
		}
	}
	return name, indexes
}

func descendMap(current any, key string) (any, bool) {
	switch c := current.(type) {
	case map[string]any:
		return column0(c, key)
	case map[string]string:
		v, ok := c[key]
		return v, ok
	default:
		return nil, false
	}
}

func descendArray(current any, idx int) (any, bool) {
	switch c := current.(type) {
	case []any:
		if idx < 0 || idx >= len(c) {
			return nil, false
		}
		return c[idx], true
	case []string:
		if idx < 0 || idx >= len(c) {
			return nil, false
		}
		return c[idx], true
	default:
		return nil, false
	}
}
