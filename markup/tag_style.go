package markup

import (
	"fmt"

	"github.com/ByLCY/cardcraft/layout"
)

// StyleTag 在结束标签之前打开粗体或斜体。
type StyleTag struct {
	Scope
	bold bool
	prev layout.FontSpec
}

func newBold(args []string) (layout.Token, error)   { return &StyleTag{bold: true}, nil }
func newItalic(args []string) (layout.Token, error) { return &StyleTag{}, nil }

func (t *StyleTag) Process(st *layout.State) error {
	st.Mark()
	t.prev = st.Font
	f := st.Font
	if t.bold {
		f.Bold = true
	} else {
		f.Italic = true
	}
	return st.SetFont(f)
}

// Exit 只恢复本标签设置的那一项，b 与 i 交叉关闭时也能正确还原。
func (t *StyleTag) Exit(st *layout.State) error {
	f := st.Font
	if t.bold {
		f.Bold = t.prev.Bold
	} else {
		f.Italic = t.prev.Italic
	}
	return st.SetFont(f)
}

func (t *StyleTag) Args() []string { return nil }
func (t *StyleTag) String() string { return tagString(t.name, nil) }

// FontTag 切换字体族，可选地切换字号与样式：<font:family;size;style>。
// 省略的字号或样式沿用当前值。
type FontTag struct {
	Scope
	Family string
	Size   float64 // pt，0 表示沿用当前字号
	Style  string  // 空串表示沿用当前样式
	prev   layout.FontSpec
}

func newFont(args []string) (layout.Token, error) {
	t := &FontTag{Family: arg(args, 0)}
	if t.Family == "" {
		return nil, fmt.Errorf("缺少字体族")
	}
	size, err := ptArg(args, 1, 0)
	if err != nil {
		return nil, err
	}
	if size < 0 {
		return nil, fmt.Errorf("字号不能为负数：%g", size)
	}
	t.Size = size
	if style := arg(args, 2); style != "" {
		if _, err := (layout.FontSpec{}).WithStyle(style); err != nil {
			return nil, err
		}
		t.Style = style
	}
	return t, nil
}

func (t *FontTag) Process(st *layout.State) error {
	st.Mark()
	t.prev = st.Font
	f := st.Font
	f.Family = t.Family
	if t.Size > 0 {
		f.Size = t.Size
	}
	if t.Style != "" {
		var err error
		if f, err = f.WithStyle(t.Style); err != nil {
			return err
		}
	}
	return st.SetFont(f)
}

func (t *FontTag) Exit(st *layout.State) error { return st.SetFont(t.prev) }

func (t *FontTag) Args() []string {
	size := ""
	if t.Size > 0 {
		size = formatFloat(t.Size)
	}
	return []string{t.Family, size, t.Style}
}

func (t *FontTag) String() string { return tagString(t.name, t.Args()) }

// SizeTag 以 pt 为单位切换字号：<fs:size>。
type SizeTag struct {
	Scope
	Size float64
	prev float64
}

func newFontSize(args []string) (layout.Token, error) {
	size, err := ptArg(args, 0, 0)
	if err != nil {
		return nil, err
	}
	if size <= 0 {
		return nil, fmt.Errorf("字号必须为正数")
	}
	return &SizeTag{Size: size}, nil
}

func (t *SizeTag) Process(st *layout.State) error {
	st.Mark()
	t.prev = st.Font.Size
	f := st.Font
	f.Size = t.Size
	return st.SetFont(f)
}

func (t *SizeTag) Exit(st *layout.State) error {
	f := st.Font
	f.Size = t.prev
	return st.SetFont(f)
}

func (t *SizeTag) Args() []string { return []string{formatFloat(t.Size)} }
func (t *SizeTag) String() string { return tagString(t.name, t.Args()) }
