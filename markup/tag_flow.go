package markup

import (
	"fmt"

	"github.com/ByLCY/cardcraft/layout"
)

// AlignTag 切换水平对齐：<align:center>。对齐以整行为单位，打开和关闭时都会折行。
type AlignTag struct {
	Scope
	Align layout.Align
	prev  layout.Align
}

func newAlign(args []string) (layout.Token, error) {
	a, err := layout.ParseAlign(arg(args, 0))
	if err != nil {
		return nil, err
	}
	return &AlignTag{Align: a}, nil
}

func (t *AlignTag) Process(st *layout.State) error {
	if !st.LineEmpty() {
		st.BreakLine()
	}
	t.prev = st.Align
	st.Align = t.Align
	st.Mark()
	return nil
}

func (t *AlignTag) Exit(st *layout.State) error {
	if !st.LineEmpty() {
		st.BreakLine()
	}
	st.Align = t.prev
	return nil
}

func (t *AlignTag) Args() []string { return []string{t.Align.String()} }
func (t *AlignTag) String() string { return tagString(t.name, t.Args()) }

// BulletTag 开始一个项目符号段落：<bullet:glyph;indent>。符号位于行首，
// 结束标签之前折行的内容都缩进到符号之后。
type BulletTag struct {
	Scope
	glyphRun
	Glyph  string
	Indent float64 // mm，0 表示按符号宽度计算

	prev float64
}

const (
	defaultBullet = "•"
	bulletGap     = 1.5 // 符号与正文之间的间距，mm
)

func newBullet(args []string) (layout.Token, error) {
	t := &BulletTag{Glyph: arg(args, 0)}
	if t.Glyph == "" {
		t.Glyph = defaultBullet
	}
	indent, err := mmArg(args, 1, 0)
	if err != nil {
		return nil, err
	}
	if indent < 0 {
		return nil, fmt.Errorf("项目符号缩进不能为负数")
	}
	t.Indent = indent
	return t, nil
}

func (t *BulletTag) Process(st *layout.State) error {
	if !st.LineEmpty() {
		st.BreakLine()
	}
	t.prev = st.Indent
	w, err := st.TextWidth(t.Glyph)
	if err != nil {
		return err
	}
	indent := t.Indent
	if indent <= 0 {
		indent = w + bulletGap
	}
	m := st.Metrics()
	st.Place(indent, m.LineHeight, m.Ascent)
	t.capture(st)
	st.SetIndent(t.prev + indent)
	return nil
}

func (t *BulletTag) Exit(st *layout.State) error {
	if !st.LineEmpty() {
		st.BreakLine()
	}
	st.SetIndent(t.prev)
	return nil
}

func (t *BulletTag) Render(el *layout.Element, s layout.Surface) error {
	r := t.Bounds()
	if r.Empty() {
		return nil
	}
	return s.DrawString(t.Glyph, r.X, r.Y+t.ascent, t.font, t.color)
}

func (t *BulletTag) Args() []string {
	indent := ""
	if t.Indent > 0 {
		indent = formatFloat(t.Indent)
	}
	return []string{t.Glyph, indent}
}

func (t *BulletTag) String() string { return tagString(t.name, t.Args()) }

// SpaceTag 插入固定宽度的水平空白：<spc:width>。它按当前行的字体度量占位，
// 所以背景和下划线能连续覆盖它。
type SpaceTag struct {
	Base
	glyphRun
	Width float64
}

func newSpace(args []string) (layout.Token, error) {
	w, err := mmArg(args, 0, 0)
	if err != nil {
		return nil, err
	}
	if w <= 0 {
		return nil, fmt.Errorf("空白宽度必须为正数")
	}
	return &SpaceTag{Width: w}, nil
}

func (t *SpaceTag) Process(st *layout.State) error {
	m := st.Metrics()
	st.Place(t.Width, m.LineHeight, m.Ascent)
	t.capture(st)
	return nil
}

func (t *SpaceTag) Args() []string { return []string{formatFloat(t.Width)} }
func (t *SpaceTag) String() string { return tagString(t.name, t.Args()) }
