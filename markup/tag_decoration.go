package markup

import (
	"image/color"
	"math"

	"github.com/ByLCY/cardcraft/layout"
)

// Segment 是线条装饰绘制的一段水平线。
type Segment struct {
	X1, X2, Y float64
	Color     color.RGBA
}

// DecorationTag 在结束标签之前的文字下方（u）或中间（s）画线：
// <u:thickness> 与 <s:thickness>，粗细单位为 mm。
type DecorationTag struct {
	Scope
	Strike    bool
	Thickness float64

	segments []Segment
}

const defaultThickness = 0.2

func newUnderline(args []string) (layout.Token, error) { return newDecoration(args, false) }
func newStrike(args []string) (layout.Token, error)    { return newDecoration(args, true) }

func newDecoration(args []string, strike bool) (layout.Token, error) {
	th, err := mmArg(args, 0, defaultThickness)
	if err != nil {
		return nil, err
	}
	if th <= 0 {
		th = defaultThickness
	}
	return &DecorationTag{Strike: strike, Thickness: th}, nil
}

// PostProcess 把同一行的各段连成一条线。空白和 <spc> 只有在同一行后面还有文字时才计入。
func (t *DecorationTag) PostProcess(el *layout.Element, tokens []layout.Token, index int) error {
	t.segments = t.segments[:0]
	var (
		cur     *Segment
		pending float64 // 等待后续单词的空白右边界
	)
	flush := func() {
		if cur != nil {
			t.segments = append(t.segments, *cur)
			cur = nil
		}
		pending = 0
	}
	for _, tok := range tokens[index+1:] {
		if t.close != nil && tok == layout.Token(t.close) {
			break
		}
		var g *glyphRun
		isSpace := false
		switch v := tok.(type) {
		case *TextRun:
			g = &v.glyphRun
		case *SpaceRun:
			g, isSpace = &v.glyphRun, true
		case *SpaceTag:
			g, isSpace = &v.glyphRun, true
		case *LineBreak:
			flush()
			continue
		default:
			continue
		}
		r := tok.Bounds()
		if r.Empty() {
			continue
		}
		y := t.lineY(r, g)
		if cur != nil && (math.Abs(cur.Y-y) > 1e-6 || cur.Color != g.color || r.X < cur.X2-1e-6) {
			flush()
		}
		if isSpace {
			if cur != nil {
				pending = r.Right()
			}
			continue
		}
		if cur == nil {
			cur = &Segment{X1: r.X, X2: r.Right(), Y: y, Color: g.color}
		} else {
			cur.X2 = math.Max(math.Max(cur.X2, pending), r.Right())
		}
		pending = 0
	}
	flush()
	return nil
}

func (t *DecorationTag) lineY(r layout.Rect, g *glyphRun) float64 {
	baseline := r.Y + g.ascent
	if t.Strike {
		return baseline - g.ascent*0.3
	}
	return baseline + t.Thickness*1.5
}

// Segments 返回 PostProcess 收集到的线段。
func (t *DecorationTag) Segments() []Segment { return t.segments }

func (t *DecorationTag) Render(el *layout.Element, s layout.Surface) error {
	for _, seg := range t.segments {
		s.StrokeLine(seg.X1, seg.Y, seg.X2, seg.Y, t.Thickness, seg.Color)
	}
	return nil
}

func (t *DecorationTag) Args() []string { return []string{formatFloat(t.Thickness)} }
func (t *DecorationTag) String() string { return tagString(t.name, t.Args()) }
