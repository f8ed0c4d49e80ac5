package layout

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// DebugToken 是调试输出中的单个标记。
type DebugToken struct {
	Index  int    `json:"index"`
	Kind   string `json:"kind"`
	Source string `json:"source,omitempty"`
	Bounds Rect   `json:"bounds"`
}

// DebugDump 是一个文本块排版结果的调试视图。
type DebugDump struct {
	Element string       `json:"element"`
	Height  float64      `json:"height"`
	Lines   []Line       `json:"lines"`
	Tokens  []DebugToken `json:"tokens"`
}

// NewDebugDump 收集排版后的标记矩形与行信息。
func NewDebugDump(el *Element, res *Result) DebugDump {
	dump := DebugDump{Height: res.Height, Lines: res.Lines}
	if el != nil {
		dump.Element = el.Name
	}
	for i, tok := range res.Tokens {
		dt := DebugToken{Index: i, Kind: tok.Kind(), Bounds: tok.Bounds()}
		if s, ok := tok.(fmt.Stringer); ok {
			dt.Source = s.String()
		}
		dump.Tokens = append(dump.Tokens, dt)
	}
	return dump
}

// EncodeDebugJSON 将排版结果以缩进 JSON 写入 w，便于调试或可视化。
func EncodeDebugJSON(w io.Writer, dumps ...DebugDump) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if len(dumps) == 1 {
		return enc.Encode(dumps[0])
	}
	return enc.Encode(dumps)
}

// WriteDebugJSON 将排版结果输出为 JSON 文件。
func WriteDebugJSON(path string, dumps ...DebugDump) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := EncodeDebugJSON(f, dumps...); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
