package markup

import (
	"image/color"
	"math"

	"github.com/ByLCY/cardcraft/layout"
)

// ColorTag 在结束标签之前切换文字颜色：<fc:color>。
type ColorTag struct {
	Scope
	Color color.RGBA
	prev  color.RGBA
}

func newFontColor(args []string) (layout.Token, error) {
	c, err := colorArg(args, 0, "文字颜色")
	if err != nil {
		return nil, err
	}
	return &ColorTag{Color: c}, nil
}

func (t *ColorTag) Process(st *layout.State) error {
	st.Mark()
	t.prev = st.Color
	st.Color = t.Color
	return nil
}

func (t *ColorTag) Exit(st *layout.State) error {
	st.Color = t.prev
	return nil
}

func (t *ColorTag) Args() []string { return []string{layout.FormatColor(t.Color)} }
func (t *ColorTag) String() string { return tagString(t.name, t.Args()) }

// BackgroundColorTag 填充结束标签之前每段内容背后的区域：<bgcolor:color;extraHeight>。
// 这些矩形排版后才确定，因此在 PostProcess 中收集，在 Render 中绘制。
type BackgroundColorTag struct {
	Scope
	Color       color.RGBA
	ExtraHeight float64 // 每段下方额外增加的高度，mm，省略时为 0

	rects []layout.Rect
}

func newBackgroundColor(args []string) (layout.Token, error) {
	c, err := colorArg(args, 0, "背景颜色")
	if err != nil {
		return nil, err
	}
	extra, err := mmArg(args, 1, 0)
	if err != nil {
		return nil, err
	}
	return &BackgroundColorTag{Color: c, ExtraHeight: extra}, nil
}

func (t *BackgroundColorTag) PostProcess(el *layout.Element, tokens []layout.Token, index int) error {
	t.rects = enclosed(tokens, index, t.close)
	return nil
}

// Rects 返回 PostProcess 收集到的矩形。
func (t *BackgroundColorTag) Rects() []layout.Rect { return t.rects }

// FillRects 返回 Render 实际填充的矩形：收集到的矩形加上额外高度，不超过元素底边。
func (t *BackgroundColorTag) FillRects(el *layout.Element) []layout.Rect {
	var out []layout.Rect
	for _, r := range t.rects {
		h := math.Min(r.H+t.ExtraHeight, el.Height-r.Y)
		if h <= 0 {
			continue
		}
		out = append(out, layout.Rect{X: r.X, Y: r.Y, W: r.W, H: h})
	}
	return out
}

func (t *BackgroundColorTag) Render(el *layout.Element, s layout.Surface) error {
	fills := t.FillRects(el)
	if len(fills) == 0 {
		return nil
	}
	prev := s.Antialias()
	s.SetAntialias(false)
	defer s.SetAntialias(prev)
	for _, r := range fills {
		s.FillRect(r, t.Color)
	}
	return nil
}

func (t *BackgroundColorTag) Args() []string {
	return []string{layout.FormatColor(t.Color), formatFloat(t.ExtraHeight)}
}

func (t *BackgroundColorTag) String() string { return tagString(t.name, t.Args()) }
