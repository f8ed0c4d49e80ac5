package project

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Rows 读取一份 CSV 数据源：首行为列名，其余每行对应一张卡牌。
// 列名去掉首尾空白；缺失的单元格按空字符串处理。
func Rows(projectDir string, r *Reference) ([]map[string]any, error) {
	if r == nil {
		return nil, errors.New("no reference")
	}
	path := ResolveReference(projectDir, r)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open reference: %w", err)
	}
	defer f.Close()
	rows, err := ReadRows(f)
	if err != nil {
		return nil, fmt.Errorf("read reference %s: %w", path, err)
	}
	return rows, nil
}

// ReadRows 从 r 读取 CSV 行。
func ReadRows(r io.Reader) ([]map[string]any, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	var rows []map[string]any
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		row := make(map[string]any, len(header))
		for i, name := range header {
			if name == "" {
				continue
			}
			v := ""
			if i < len(rec) {
				v = rec[i]
			}
			row[name] = v
		}
		rows = append(rows, row)
	}
}
